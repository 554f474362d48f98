package api

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/nhle/monthcal/internal/adapter"
	"github.com/nhle/monthcal/internal/credential"
)

const (
	pathAuthExchange = "/auth/firebase"
	pathAuthRefresh  = "/auth/refresh"
)

// Gateway performs the credential exchange and refresh calls and owns
// the single "session is unrecoverable" subscription slot.
type Gateway struct {
	transport
	creds credential.Store

	mu              sync.Mutex
	onUnrecoverable func()
}

// NewGateway creates a Gateway storing credentials in creds.
func NewGateway(baseURL string, creds credential.Store, opts ...Option) *Gateway {
	return &Gateway{
		transport: newTransport(baseURL, opts),
		creds:     creds,
	}
}

// OnSessionUnrecoverable registers cb, replacing any earlier callback.
// A nil cb clears the slot.
func (g *Gateway) OnSessionUnrecoverable(cb func()) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.onUnrecoverable = cb
}

// notifyUnrecoverable fires the registered callback, if any. The lock is
// not held while the callback runs.
func (g *Gateway) notifyUnrecoverable() {
	g.mu.Lock()
	cb := g.onUnrecoverable
	g.mu.Unlock()

	if cb != nil {
		cb()
	}
}

// Exchange trades an identity-provider token for a credential pair and
// stores it.
func (g *Gateway) Exchange(ctx context.Context, identityToken string) (credential.Pair, error) {
	payload, err := marshalBody(map[string]string{"idToken": identityToken})
	if err != nil {
		return credential.Pair{}, err
	}

	resp, err := g.send(ctx, http.MethodPost, pathAuthExchange, payload, nil)
	if err != nil {
		return credential.Pair{}, fmt.Errorf("exchanging identity token: %w", err)
	}
	if !resp.ok() {
		return credential.Pair{}, newHTTPError(http.MethodPost, pathAuthExchange, resp.status, resp.body)
	}

	pair, err := tokenPair(resp.body)
	if err != nil {
		return credential.Pair{}, fmt.Errorf("exchanging identity token: %w", err)
	}
	if err := g.creds.Set(pair); err != nil {
		return credential.Pair{}, fmt.Errorf("storing credential: %w", err)
	}

	g.logger.Info("identity token exchanged")
	return pair, nil
}

// Refresh mints a new credential pair from the stored refresh credential.
// When the refresh credential is missing, rejected, or answered with an
// unreadable pair, the unrecoverable-session callback fires before the
// error is returned. Transport failures do not fire it.
func (g *Gateway) Refresh(ctx context.Context) (credential.Pair, error) {
	current, ok := g.creds.Get().Get()
	if !ok || current.Refresh == "" {
		g.notifyUnrecoverable()
		return credential.Pair{}, ErrNoRefreshCredential
	}

	payload, err := marshalBody(map[string]string{"refreshToken": current.Refresh})
	if err != nil {
		return credential.Pair{}, err
	}

	resp, err := g.send(ctx, http.MethodPost, pathAuthRefresh, payload, nil)
	if err != nil {
		return credential.Pair{}, fmt.Errorf("refreshing credential: %w", err)
	}
	if !resp.ok() {
		g.logger.Warn("refresh rejected", "status", resp.status)
		g.notifyUnrecoverable()
		return credential.Pair{}, fmt.Errorf(
			"%w: %w", ErrRefreshRejected,
			newHTTPError(http.MethodPost, pathAuthRefresh, resp.status, resp.body),
		)
	}

	pair, err := tokenPair(resp.body)
	if err != nil {
		g.notifyUnrecoverable()
		return credential.Pair{}, fmt.Errorf("refreshing credential: %w", err)
	}
	if err := g.creds.Set(pair); err != nil {
		return credential.Pair{}, fmt.Errorf("storing refreshed credential: %w", err)
	}

	g.logger.Debug("credential refreshed")
	return pair, nil
}

func tokenPair(body []byte) (credential.Pair, error) {
	raw, err := decodeEntity("token pair", body)
	if err != nil {
		return credential.Pair{}, err
	}
	return adapter.TokenPair(raw)
}
