package database

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// NewTestDB creates an in-memory SQLite database for testing.
// The database is automatically closed when the test completes.
func NewTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := New(":memory:")
	require.NoError(t, err, "failed to create test database")

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

// CreateTestConversation creates a conversation for testing and returns it.
func CreateTestConversation(t *testing.T, db *DB) *Conversation {
	t.Helper()

	id := uuid.NewString()
	conv, err := db.CreateConversation(id)
	require.NoError(t, err, fmt.Sprintf("failed to create test conversation %s", id))
	return conv
}
