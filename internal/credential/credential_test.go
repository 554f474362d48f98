package credential

import (
	"errors"
	"log/slog"
	"testing"

	"github.com/99designs/keyring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFileKeyring(t *testing.T) *KeyringStore {
	t.Helper()

	s, err := NewKeyringStore(KeyringConfig{
		Backends:     []string{"file"},
		FileDir:      t.TempDir(),
		FilePassword: "test-password",
	}, nil)
	require.NoError(t, err)
	return s
}

func TestStores(t *testing.T) {
	stores := map[string]func(t *testing.T) Store{
		"memory":  func(*testing.T) Store { return NewMemoryStore() },
		"keyring": func(t *testing.T) Store { return newFileKeyring(t) },
	}

	for name, newStore := range stores {
		t.Run(name, func(t *testing.T) {
			s := newStore(t)

			assert.True(t, s.Get().IsAbsent(), "fresh store should be empty")

			require.NoError(t, s.Set(Pair{Access: "a1", Refresh: "r1"}))
			got, ok := s.Get().Get()
			require.True(t, ok)
			assert.Equal(t, Pair{Access: "a1", Refresh: "r1"}, got)

			require.NoError(t, s.Set(Pair{Access: "a2", Refresh: "r2"}))
			got, _ = s.Get().Get()
			assert.Equal(t, Pair{Access: "a2", Refresh: "r2"}, got)

			require.NoError(t, s.Clear())
			assert.True(t, s.Get().IsAbsent())

			// Clearing twice is fine.
			require.NoError(t, s.Clear())
		})
	}
}

func TestSetRejectsIncompletePair(t *testing.T) {
	s := NewMemoryStore()
	assert.Error(t, s.Set(Pair{Access: "only-access"}))
	assert.True(t, s.Get().IsAbsent())
}

// failingRing refuses writes to one key.
type failingRing struct {
	*keyring.ArrayKeyring
	failKey string
}

func (r *failingRing) Set(item keyring.Item) error {
	if item.Key == r.failKey {
		return errors.New("keyring locked")
	}
	return r.ArrayKeyring.Set(item)
}

func TestKeyringSetNeverLeavesMixedPair(t *testing.T) {
	ring := &failingRing{ArrayKeyring: keyring.NewArrayKeyring(nil)}
	s := &KeyringStore{ring: ring, logger: slog.Default()}

	require.NoError(t, s.Set(Pair{Access: "a1", Refresh: "r1"}))

	ring.failKey = refreshKey
	err := s.Set(Pair{Access: "a2", Refresh: "r2"})
	require.Error(t, err)
	assert.True(t, s.Get().IsAbsent(), "a half-written pair must not survive")

	_, err = ring.Get(accessKey)
	assert.ErrorIs(t, err, keyring.ErrKeyNotFound)
}
