package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ai-specdraft-be/pkg/draft/store"
)

func TestLoadMissingSessionReturnsNil(t *testing.T) {
	repo := NewSessionStateRepository()

	state, err := repo.Load(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, state)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	repo := NewSessionStateRepository()
	state := store.NewWorkflowState("abc")
	goal := "ship it"
	state.Document["Goal"] = &goal

	require.NoError(t, repo.Save(context.Background(), state))

	loaded, err := repo.Load(context.Background(), "abc")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, "abc", loaded.SessionID)
	require.NotNil(t, loaded.Document["Goal"])
	assert.Equal(t, goal, *loaded.Document["Goal"])
}

func TestStoredStateIsIsolatedFromCallers(t *testing.T) {
	repo := NewSessionStateRepository()
	state := store.NewWorkflowState("abc")
	goal := "ship it"
	state.Document["Goal"] = &goal

	require.NoError(t, repo.Save(context.Background(), state))

	// Mutating the saved value must not touch the checkpoint.
	*state.Document["Goal"] = "changed"

	first, err := repo.Load(context.Background(), "abc")
	require.NoError(t, err)
	assert.Equal(t, "ship it", *first.Document["Goal"])

	// Mutating a loaded copy must not touch the checkpoint either.
	*first.Document["Goal"] = "changed again"

	second, err := repo.Load(context.Background(), "abc")
	require.NoError(t, err)
	assert.Equal(t, "ship it", *second.Document["Goal"])
}

func TestDeleteRemovesSession(t *testing.T) {
	repo := NewSessionStateRepository()
	require.NoError(t, repo.Save(context.Background(), store.NewWorkflowState("abc")))
	require.NoError(t, repo.Delete(context.Background(), "abc"))

	state, err := repo.Load(context.Background(), "abc")
	require.NoError(t, err)
	assert.Nil(t, state)
}
