// Package session tracks whether the stored credential is usable.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/samber/mo"

	"github.com/nhle/monthcal/internal/credential"
	"github.com/nhle/monthcal/internal/model"
)

// Status is the session state.
type Status string

const (
	// Guest means there is no usable credential.
	Guest Status = "guest"

	// Loading means a credential exists but has not been validated this
	// session.
	Loading Status = "loading"

	// Authed means the last probe succeeded.
	Authed Status = "authed"
)

// Gateway is the subset of the auth gateway the manager needs.
type Gateway interface {
	Exchange(ctx context.Context, identityToken string) (credential.Pair, error)
	OnSessionUnrecoverable(cb func())
}

// Prober answers "who am I" for the stored credential.
type Prober interface {
	Me(ctx context.Context) (model.User, error)
}

// DevUser is reported when the dev bypass is on.
var DevUser = model.User{
	ID:    "dev",
	Email: "dev@localhost",
	Role:  "DEVELOPER",
}

// Option configures a Manager.
type Option func(*Manager)

// WithDevBypass treats the session as authed without any credential.
func WithDevBypass(on bool) Option {
	return func(m *Manager) {
		m.devBypass = on
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// Manager owns the session status. It registers itself as the gateway's
// unrecoverable-session callback, so a failed refresh anywhere logs out.
type Manager struct {
	creds     credential.Store
	gateway   Gateway
	prober    Prober
	devBypass bool
	logger    *slog.Logger

	mu     sync.RWMutex
	status Status
	user   mo.Option[model.User]
}

// NewManager creates a Manager whose initial status comes from the stored
// credential: Loading when one exists, Guest otherwise.
func NewManager(creds credential.Store, gateway Gateway, prober Prober, opts ...Option) *Manager {
	m := &Manager{
		creds:   creds,
		gateway: gateway,
		prober:  prober,
		logger:  slog.Default(),
		status:  Guest,
		user:    mo.None[model.User](),
	}
	for _, opt := range opts {
		opt(m)
	}

	switch {
	case m.devBypass:
		m.status = Authed
		m.user = mo.Some(DevUser)
	case creds.Get().IsPresent():
		m.status = Loading
	}

	gateway.OnSessionUnrecoverable(func() {
		m.logger.Info("session unrecoverable, signing out")
		_ = m.Logout()
	})
	return m
}

// Status returns the current status.
func (m *Manager) Status() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}

// User returns the account from the last successful probe.
func (m *Manager) User() mo.Option[model.User] {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.user
}

func (m *Manager) set(status Status, user mo.Option[model.User]) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.status = status
	m.user = user
}

// Login exchanges an identity-provider token and probes the new credential.
func (m *Manager) Login(ctx context.Context, identityToken string) (model.User, error) {
	if m.devBypass {
		return DevUser, nil
	}
	if _, err := m.gateway.Exchange(ctx, identityToken); err != nil {
		return model.User{}, fmt.Errorf("signing in: %w", err)
	}

	if _, err := m.Probe(ctx); err != nil {
		return model.User{}, fmt.Errorf("signing in: %w", err)
	}
	return m.User().MustGet(), nil
}

// Probe validates the stored credential against the server. Success
// moves to Authed; any failure logs out.
func (m *Manager) Probe(ctx context.Context) (Status, error) {
	if m.devBypass {
		return Authed, nil
	}
	if m.creds.Get().IsAbsent() {
		_ = m.Logout()
		return Guest, nil
	}

	m.set(Loading, mo.None[model.User]())

	user, err := m.prober.Me(ctx)
	if err != nil {
		m.logger.Warn("session probe failed", "error", err)
		_ = m.Logout()
		return Guest, fmt.Errorf("probing session: %w", err)
	}

	m.set(Authed, mo.Some(user))
	m.logger.Debug("session validated", "user_id", user.ID)
	return Authed, nil
}

// Logout clears the credential, the user and the status. It is safe to
// call repeatedly.
func (m *Manager) Logout() error {
	if m.devBypass {
		return nil
	}

	m.set(Guest, mo.None[model.User]())

	if err := m.creds.Clear(); err != nil {
		m.logger.Error("clearing credential", "error", err)
		return fmt.Errorf("clearing credential: %w", err)
	}
	return nil
}
