// Package app wires the client, session, aggregator and local store into
// the operations the CLI exposes.
package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/samber/mo"

	"github.com/nhle/monthcal/internal/api"
	"github.com/nhle/monthcal/internal/cache"
	"github.com/nhle/monthcal/internal/credential"
	"github.com/nhle/monthcal/internal/model"
	"github.com/nhle/monthcal/internal/session"
	"github.com/nhle/monthcal/internal/store"
	appsync "github.com/nhle/monthcal/internal/sync"
)

// Service is the composition root. All methods are safe for concurrent use.
type Service struct {
	cfg     *model.AppConfig
	store   store.Store
	creds   credential.Store
	gateway *api.Gateway
	client  *api.Client
	session *session.Manager
	cache   *cache.Cache
	agg     *appsync.Aggregator
	logger  *slog.Logger
}

// Option configures a Service.
type Option func(*options)

type options struct {
	httpClient *http.Client
	logger     *slog.Logger
}

// WithHTTPClient overrides the HTTP client built from the config timeout.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) {
		o.httpClient = c
	}
}

// WithLogger sets the logger shared by every component.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// New creates a Service. The store and credential store stay owned by
// the caller.
func New(cfg *model.AppConfig, st store.Store, creds credential.Store, opts ...Option) *Service {
	o := options{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	if o.httpClient == nil {
		o.httpClient = &http.Client{Timeout: cfg.API.Timeout()}
	}

	apiOpts := []api.Option{
		api.WithHTTPClient(o.httpClient),
		api.WithLogger(o.logger.With("component", "api")),
	}
	gateway := api.NewGateway(cfg.API.BaseURL, creds, apiOpts...)
	client := api.NewClient(cfg.API.BaseURL, creds, gateway, apiOpts...)
	c := cache.New()

	return &Service{
		cfg:     cfg,
		store:   st,
		creds:   creds,
		gateway: gateway,
		client:  client,
		session: session.NewManager(creds, gateway, client,
			session.WithDevBypass(cfg.Auth.DevBypass),
			session.WithLogger(o.logger.With("component", "session")),
		),
		cache:  c,
		agg:    appsync.New(client, c, appsync.WithLogger(o.logger.With("component", "sync"))),
		logger: o.logger,
	}
}

// Login exchanges an identity-provider token and validates the session.
func (s *Service) Login(ctx context.Context, identityToken string) (model.User, error) {
	return s.session.Login(ctx, identityToken)
}

// Logout discards the stored credential.
func (s *Service) Logout() error {
	return s.session.Logout()
}

// Probe validates the stored credential against the server.
func (s *Service) Probe(ctx context.Context) (session.Status, error) {
	return s.session.Probe(ctx)
}

// Status returns the session status.
func (s *Service) Status() session.Status {
	return s.session.Status()
}

// User returns the signed-in account, if probed.
func (s *Service) User() mo.Option[model.User] {
	return s.session.User()
}

// requireSession probes a session that has not been validated yet.
func (s *Service) requireSession(ctx context.Context) error {
	switch s.session.Status() {
	case session.Authed:
		return nil
	case session.Guest:
		return ErrSignedOut
	}

	status, err := s.session.Probe(ctx)
	if err != nil {
		return err
	}
	if status != session.Authed {
		return ErrSignedOut
	}
	return nil
}

// ErrSignedOut is returned by operations that need a session when there
// is none.
var ErrSignedOut = errors.New("not signed in")
