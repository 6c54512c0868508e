package models

// WriteKind is the kind of a single write inside a batch.
type WriteKind string

const (
	// WriteSet creates or overwrites the document.
	WriteSet WriteKind = "set"
	// WriteUpdate merges fields into an existing document.
	WriteUpdate WriteKind = "update"
	// WriteDelete removes the document.
	WriteDelete WriteKind = "delete"
)

// Write is one operation of an atomic batch commit.
type Write struct {
	Kind       WriteKind `json:"kind"`
	Collection string    `json:"collection"`
	ID         string    `json:"id,omitempty"`
	Fields     Fields    `json:"fields,omitempty"`
}

// SetWrite is a shorthand for a [WriteSet] write. An empty id asks the
// service layer to generate one.
func SetWrite(collection, id string, fields Fields) Write {
	return Write{Kind: WriteSet, Collection: collection, ID: id, Fields: fields}
}

// UpdateWrite is a shorthand for a [WriteUpdate] write.
func UpdateWrite(collection, id string, fields Fields) Write {
	return Write{Kind: WriteUpdate, Collection: collection, ID: id, Fields: fields}
}

// DeleteWrite is a shorthand for a [WriteDelete] write.
func DeleteWrite(collection, id string) Write {
	return Write{Kind: WriteDelete, Collection: collection, ID: id}
}
