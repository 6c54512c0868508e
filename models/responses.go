package models

// ErrorResponse is the JSON body of every failed API call.
type ErrorResponse struct {
	// Error is the human readable failure description.
	Error string `json:"error"`

	// Kind is the machine readable failure class (not_found, auth, config,
	// network, invalid). Empty for transport level failures such as a
	// malformed request body.
	Kind string `json:"kind,omitempty"`
}

// BatchRequest is the body of POST /api/batch.
type BatchRequest struct {
	Writes []Write `json:"writes"`
}

// BatchResponse echoes the committed writes with generated ids and
// timestamp sentinels filled in.
type BatchResponse struct {
	Writes []Write `json:"writes"`
	Length int     `json:"length"`
}
