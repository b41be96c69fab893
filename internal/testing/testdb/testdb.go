// Package testdb opens throwaway sqlite catalogs for tests.
package testdb

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/FlagBrew/local-pokedex/internal/database"
	"github.com/FlagBrew/local-pokedex/internal/models"
	"github.com/stretchr/testify/require"
)

// New returns a migrated client backed by a sqlite file in t.TempDir. The
// client is closed when the test ends.
func New(t testing.TB) *database.Client {
	t.Helper()

	path := filepath.Join(t.TempDir(), "catalog.db")
	cfg := &models.DatabaseConfig{
		DBType:           "sqlite",
		ConnectionString: fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", path),
	}

	ctx := context.Background()
	client, err := database.Open(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = client.Close()
	})

	require.NoError(t, client.Migrate(ctx))
	return client
}
