package api

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/monthcal/internal/credential"
)

func TestExchange(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		want    credential.Pair
		wantErr error
	}{
		{
			name:   "camelCase pair",
			status: http.StatusOK,
			body:   `{"accessToken":"a","refreshToken":"r"}`,
			want:   credential.Pair{Access: "a", Refresh: "r"},
		},
		{
			name:   "snake_case pair",
			status: http.StatusOK,
			body:   `{"access_token":"a","refresh_token":"r","expires_in":3600}`,
			want:   credential.Pair{Access: "a", Refresh: "r"},
		},
		{
			name:    "missing refresh token",
			status:  http.StatusOK,
			body:    `{"accessToken":"a"}`,
			wantErr: ErrInvalidResponseShape,
		},
		{
			name:    "not an object",
			status:  http.StatusOK,
			body:    `"token"`,
			wantErr: ErrInvalidResponseShape,
		},
		{
			name:    "empty body",
			status:  http.StatusOK,
			body:    ``,
			wantErr: ErrInvalidResponseShape,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, srv := newFakeBackend(t, map[string]http.HandlerFunc{
				"/auth/firebase": func(w http.ResponseWriter, r *http.Request) {
					var body map[string]string
					require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
					assert.Equal(t, "id-token", body["idToken"])
					writeJSON(w, tt.status, tt.body)
				},
			})
			creds := credential.NewMemoryStore()
			gw := NewGateway(srv.URL, creds, WithHTTPClient(srv.Client()))
			fired := 0
			gw.OnSessionUnrecoverable(func() { fired++ })

			pair, err := gw.Exchange(context.Background(), "id-token")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.True(t, creds.Get().IsAbsent())
				assert.Zero(t, fired)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, pair)
			assert.Equal(t, tt.want, creds.Get().MustGet())
		})
	}
}

func TestExchangeRejected(t *testing.T) {
	_, srv := newFakeBackend(t, map[string]http.HandlerFunc{
		"/auth/firebase": func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusForbidden, `{"code":"INVALID_ID_TOKEN","message":"token expired"}`)
		},
	})
	gw := NewGateway(srv.URL, credential.NewMemoryStore(), WithHTTPClient(srv.Client()))

	_, err := gw.Exchange(context.Background(), "id-token")
	httpErr, ok := AsHTTPError(err)
	require.True(t, ok)
	assert.Equal(t, "INVALID_ID_TOKEN", httpErr.Code)
	assert.Equal(t, "token expired", httpErr.Message)
}

func TestRefreshInvalidShapeEndsSession(t *testing.T) {
	_, srv := newFakeBackend(t, map[string]http.HandlerFunc{
		"/auth/refresh": func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, `{"token":"x"}`)
		},
	})
	creds := credential.NewMemoryStore()
	require.NoError(t, creds.Set(credential.Pair{Access: "a", Refresh: "r"}))

	gw := NewGateway(srv.URL, creds, WithHTTPClient(srv.Client()))
	fired := 0
	gw.OnSessionUnrecoverable(func() { fired++ })

	_, err := gw.Refresh(context.Background())
	assert.ErrorIs(t, err, ErrInvalidResponseShape)
	assert.Equal(t, 1, fired)

	// The old pair is left for the session layer to clear.
	assert.Equal(t, credential.Pair{Access: "a", Refresh: "r"}, creds.Get().MustGet())
}

func TestOnSessionUnrecoverableReplacesCallback(t *testing.T) {
	gw := NewGateway("http://unused.invalid", credential.NewMemoryStore())

	var first, second int
	gw.OnSessionUnrecoverable(func() { first++ })
	gw.OnSessionUnrecoverable(func() { second++ })

	_, err := gw.Refresh(context.Background())
	assert.ErrorIs(t, err, ErrNoRefreshCredential)
	assert.Zero(t, first)
	assert.Equal(t, 1, second)

	gw.OnSessionUnrecoverable(nil)
	_, err = gw.Refresh(context.Background())
	assert.ErrorIs(t, err, ErrNoRefreshCredential)
	assert.Equal(t, 1, second)
}
