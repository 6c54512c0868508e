package fallback

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-bank-sync/internal/logger"
	"github.com/MKhiriev/go-bank-sync/internal/store"
	"github.com/MKhiriev/go-bank-sync/models"
)

func TestDemo(t *testing.T) {
	f := Demo()

	user, ok := f.Document(models.CollectionUsers, "demo-user")
	require.True(t, ok)
	assert.Equal(t, "Demo Customer", user.String("displayName"))

	_, ok = f.Document(models.CollectionUsers, "nobody")
	assert.False(t, ok)

	assert.ElementsMatch(t,
		[]string{models.CollectionUsers, models.CollectionAccounts, models.CollectionTransactions, models.CollectionSettings},
		f.Collections())
}

func TestFixtures_DocumentIsCopy(t *testing.T) {
	f := Demo()

	doc, ok := f.Document(models.CollectionUsers, "demo-admin")
	require.True(t, ok)
	doc.Fields["role"] = "customer"

	again, _ := f.Document(models.CollectionUsers, "demo-admin")
	assert.Equal(t, "admin", again.String("role"))
}

func TestFixtures_Query(t *testing.T) {
	f := Demo()

	txs := f.Query(models.CollectionTransactions, models.Where("userId", models.OpEqual, "demo-user"))
	assert.Len(t, txs, 3)

	limited := f.Query(models.CollectionTransactions, models.Limit(1))
	require.Len(t, limited, 1)
	assert.Equal(t, "tx-1001", limited[0].ID)

	assert.Empty(t, f.Query("unknown"))
	assert.NotNil(t, f.Query(models.CollectionTransactions, models.Limit(-1)))
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	valid := filepath.Join(dir, "valid.json")
	require.NoError(t, os.WriteFile(valid, []byte(`{"users":[{"id":"u1","name":"Ada"}]}`), 0o600))

	noID := filepath.Join(dir, "no_id.json")
	require.NoError(t, os.WriteFile(noID, []byte(`{"users":[{"name":"Ada"}]}`), 0o600))

	broken := filepath.Join(dir, "broken.json")
	require.NoError(t, os.WriteFile(broken, []byte(`{"users":`), 0o600))

	tests := []struct {
		name    string
		path    string
		wantErr error
	}{
		{name: "empty path uses demo data"},
		{name: "valid file", path: valid},
		{name: "missing file", path: filepath.Join(dir, "missing.json"), wantErr: ErrReadingFixtures},
		{name: "document without id", path: noID, wantErr: ErrMissingFixtureID},
		{name: "malformed json", path: broken, wantErr: ErrDecodingFixtures},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Load(tt.path)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, f.Collections())
		})
	}
}

func TestFixtures_SeedInto(t *testing.T) {
	s := store.NewMemoryStore(logger.Nop())
	defer s.Close()

	n := Demo().SeedInto(s)
	assert.Equal(t, 10, n)

	doc, err := s.Get(context.Background(), models.CollectionAccounts, "legacy-credit")
	require.NoError(t, err)
	assert.Equal(t, "legacy-user", doc.String("userId"))
}
