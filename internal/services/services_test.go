package services

import (
	"context"
	"database/sql"
	"path/filepath"
	"sync"
	"testing"

	"github.com/isdelr/finance-tracker-be/internal/database"
	"github.com/isdelr/finance-tracker-be/internal/models"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "finance.db")
	require.NoError(t, database.Migrate(path), "failed to migrate test database")
	db, err := database.New(path)
	require.NoError(t, err, "failed to open test database")
	t.Cleanup(func() { db.Close() })
	return db
}

func newTestUserService(db *sql.DB) *UserService {
	s := NewUserService(db)
	s.bcryptCost = bcrypt.MinCost
	return s
}

// capturePublisher records published events.
type capturePublisher struct {
	mu     sync.Mutex
	events []models.Event
}

func (c *capturePublisher) Publish(_ context.Context, event models.Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, event)
	return nil
}

func (c *capturePublisher) types() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []string
	for _, e := range c.events {
		out = append(out, e.Type)
	}
	return out
}
