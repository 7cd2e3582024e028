package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/slidesmith/slidesmith/internal/client/client"
	"github.com/slidesmith/slidesmith/internal/client/client/clienttest"
	"github.com/slidesmith/slidesmith/internal/client/session"
	"github.com/slidesmith/slidesmith/internal/logging"
)

type fixture struct {
	backend *clienttest.Backend
	api     *client.HTTPClient
	store   *session.Store
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	b := clienttest.NewBackend(t)

	api, err := client.NewHTTPClient(b.URL(), 5*time.Second, logging.Nop())
	require.NoError(t, err)

	db, err := session.OpenDatabase(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	store := session.NewStore(db, logging.Nop())
	require.NoError(t, store.Init(context.Background()))

	return &fixture{backend: b, api: api, store: store}
}

// loggedIn registers a user on the fake backend and stores its session.
func (f *fixture) loggedIn(t *testing.T) string {
	t.Helper()
	token := f.backend.AddUser("ada@example.com", "secret1", "Ada")
	u, err := f.api.CurrentUser(context.Background(), token)
	require.NoError(t, err)
	require.NoError(t, f.store.Save(context.Background(), token, u))
	return token
}
