package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/AhmetSulu/online-shopping-api/internal/domains/users/ports"
)

func TestSessionStore_SaveResolveDelete(t *testing.T) {
	store := NewSessionStore(0)

	require.NoError(t, store.Save(context.Background(), "tok-1", "ahmet"))
	username, err := store.Resolve(context.Background(), "tok-1")
	require.NoError(t, err)
	require.Equal(t, "ahmet", username)

	require.NoError(t, store.Delete(context.Background(), "tok-1"))
	_, err = store.Resolve(context.Background(), "tok-1")
	require.ErrorIs(t, err, ports.ErrSessionNotFound)
}

func TestSessionStore_Expiry(t *testing.T) {
	store := NewSessionStore(time.Millisecond)

	require.NoError(t, store.Save(context.Background(), "tok-1", "ahmet"))
	time.Sleep(5 * time.Millisecond)

	_, err := store.Resolve(context.Background(), "tok-1")
	require.ErrorIs(t, err, ports.ErrSessionNotFound)
}

func TestSessionStore_DeleteByUsername(t *testing.T) {
	store := NewSessionStore(0)

	require.NoError(t, store.Save(context.Background(), "tok-1", "ahmet"))
	require.NoError(t, store.Save(context.Background(), "tok-2", "ahmet"))
	require.NoError(t, store.Save(context.Background(), "tok-3", "deniz"))

	require.NoError(t, store.DeleteByUsername(context.Background(), "ahmet"))

	_, err := store.Resolve(context.Background(), "tok-1")
	require.ErrorIs(t, err, ports.ErrSessionNotFound)
	_, err = store.Resolve(context.Background(), "tok-2")
	require.ErrorIs(t, err, ports.ErrSessionNotFound)

	username, err := store.Resolve(context.Background(), "tok-3")
	require.NoError(t, err)
	require.Equal(t, "deniz", username)
}
