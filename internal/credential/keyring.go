package credential

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/99designs/keyring"
	"github.com/samber/mo"
)

const (
	serviceName = "monthcal"

	accessKey  = "access-token"
	refreshKey = "refresh-token"
)

// KeyringConfig selects where the credential pair is kept.
type KeyringConfig struct {
	// Backends restricts the keyring backends, by name ("keychain",
	// "secret-service", "wincred", "pass", "file"). Empty means all.
	Backends []string

	// FileDir is the directory used by the encrypted file backend.
	FileDir string

	// FilePassword unlocks the encrypted file backend.
	FilePassword string
}

// KeyringStore keeps the credential pair in the system keyring.
type KeyringStore struct {
	ring   keyring.Keyring
	logger *slog.Logger
}

// NewKeyringStore opens the configured keyring.
func NewKeyringStore(cfg KeyringConfig, logger *slog.Logger) (*KeyringStore, error) {
	if logger == nil {
		logger = slog.Default()
	}

	ring, err := openKeyring(cfg)
	if err != nil {
		return nil, err
	}

	return &KeyringStore{ring: ring, logger: logger}, nil
}

// openKeyring returns a configured keyring instance.
func openKeyring(cfg KeyringConfig) (keyring.Keyring, error) {
	backends := []keyring.BackendType{
		keyring.KeychainBackend,
		keyring.SecretServiceBackend,
		keyring.WinCredBackend,
		keyring.PassBackend,
		keyring.FileBackend,
	}
	if len(cfg.Backends) > 0 {
		backends = backends[:0]
		for _, name := range cfg.Backends {
			backends = append(backends, keyring.BackendType(name))
		}
	}

	fileDir := cfg.FileDir
	if fileDir == "" {
		fileDir = "~/.config/monthcal/credentials"
	}
	password := cfg.FilePassword
	if password == "" {
		password = "monthcal-file-key"
	}

	ring, err := keyring.Open(keyring.Config{
		ServiceName:              serviceName,
		AllowedBackends:          backends,
		FileDir:                  fileDir,
		FilePasswordFunc:         keyring.FixedStringPrompt(password),
		KeychainTrustApplication: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening keyring: %w", err)
	}
	return ring, nil
}

// Get returns the stored pair. A half-present pair counts as absent.
func (s *KeyringStore) Get() mo.Option[Pair] {
	access, ok := s.read(accessKey)
	if !ok {
		return mo.None[Pair]()
	}
	refresh, ok := s.read(refreshKey)
	if !ok {
		return mo.None[Pair]()
	}

	pair := Pair{Access: access, Refresh: refresh}
	if !pair.Valid() {
		return mo.None[Pair]()
	}
	return mo.Some(pair)
}

func (s *KeyringStore) read(key string) (string, bool) {
	item, err := s.ring.Get(key)
	if err != nil {
		if !errors.Is(err, keyring.ErrKeyNotFound) {
			s.logger.Warn("reading credential", "key", key, "err", err)
		}
		return "", false
	}
	return string(item.Data), true
}

// Set stores both halves of the pair, access first. If either write
// fails the stored pair is cleared so a mixed pair is never left behind.
func (s *KeyringStore) Set(pair Pair) error {
	if !pair.Valid() {
		return fmt.Errorf("setting credential: incomplete pair")
	}

	for _, item := range []keyring.Item{
		{Key: accessKey, Data: []byte(pair.Access)},
		{Key: refreshKey, Data: []byte(pair.Refresh)},
	} {
		if err := s.ring.Set(item); err != nil {
			if cerr := s.Clear(); cerr != nil {
				s.logger.Warn("clearing partial credential", "err", cerr)
			}
			return fmt.Errorf("setting credential %q: %w", item.Key, err)
		}
	}
	return nil
}

// Clear removes both halves of the pair.
func (s *KeyringStore) Clear() error {
	for _, key := range []string{accessKey, refreshKey} {
		err := s.ring.Remove(key)
		if err != nil && !errors.Is(err, keyring.ErrKeyNotFound) && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("deleting credential %q: %w", key, err)
		}
	}
	return nil
}
