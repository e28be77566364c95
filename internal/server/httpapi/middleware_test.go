package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/todokeeper/internal/logging"
	"github.com/dmitrijs2005/todokeeper/internal/server/auth"
)

// identityProbe records what the wrapped handler saw in its context.
type identityProbe struct {
	called   bool
	identity Identity
	present  bool
}

func (p *identityProbe) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p.called = true
		p.identity, p.present = identityFromContext(r.Context())
	})
}

func TestOptionalAuth_AttachesIdentityFromValidToken(t *testing.T) {
	cfg := testConfig()
	srv := NewServer(cfg, logging.NewNopLogger(), &fakeUserService{}, &fakeItemService{}, nil)

	probe := &identityProbe{}
	h := srv.optionalAuth(probe.handler())

	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	req.Header.Set("Authorization", "Bearer "+bearerToken(t, cfg, "alice"))
	h.ServeHTTP(httptest.NewRecorder(), req)

	require.True(t, probe.called)
	assert.True(t, probe.present)
	assert.Equal(t, "alice", probe.identity.UserID)
}

func TestOptionalAuth_MissingTokenPassesThroughAnonymously(t *testing.T) {
	srv := newTestServer(&fakeUserService{}, &fakeItemService{}, nil)

	probe := &identityProbe{}
	h := srv.optionalAuth(probe.handler())

	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	h.ServeHTTP(httptest.NewRecorder(), req)

	require.True(t, probe.called)
	assert.False(t, probe.present)
}

func TestOptionalAuth_BadTokenCollapsesToAnonymous(t *testing.T) {
	cfg := testConfig()
	srv := NewServer(cfg, logging.NewNopLogger(), &fakeUserService{}, &fakeItemService{}, nil)

	expired, err := auth.GenerateToken("alice", "alice", []byte(cfg.SecretKey), -time.Hour)
	require.NoError(t, err)

	for name, token := range map[string]string{
		"expired":   expired,
		"malformed": "not-a-jwt",
	} {
		probe := &identityProbe{}
		h := srv.optionalAuth(probe.handler())

		req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		h.ServeHTTP(httptest.NewRecorder(), req)

		require.True(t, probe.called, name)
		assert.False(t, probe.present, name)
	}
}

func TestLogout_SucceedsWithExpiredToken(t *testing.T) {
	cfg := testConfig()
	srv := NewServer(cfg, logging.NewNopLogger(), &fakeUserService{}, &fakeItemService{}, nil)

	expired, err := auth.GenerateToken("alice", "alice", []byte(cfg.SecretKey), -time.Hour)
	require.NoError(t, err)

	rec := doJSON(t, srv.Handler(), http.MethodPost, "/api/auth/logout", expired, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Negative(t, cookies[0].MaxAge)
}
