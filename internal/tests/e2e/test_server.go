package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/you/aarogyam/domain"
	"github.com/you/aarogyam/internal/app"
	"github.com/you/aarogyam/internal/config"
	testconfig "github.com/you/aarogyam/internal/tests/config"
)

// TestServer wraps a fully wired application behind an httptest server
type TestServer struct {
	Server    *httptest.Server
	Container *app.Container
	Config    *config.Config
	Redis     *miniredis.Miniredis
	Client    *http.Client
}

// Envelope mirrors the response body every endpoint returns
type Envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Token   string          `json:"token"`
	User    *domain.Profile `json:"user"`
	Data    json.RawMessage `json:"data"`
	Exists  *bool           `json:"exists"`
	DevOTP  string          `json:"devOtp"`
	Error   string          `json:"error"`
}

// APIResponse is a decoded HTTP response
type APIResponse struct {
	Status int
	Body   Envelope
	Raw    map[string]any
}

// DecodeData unmarshals the data field into v
func (r *APIResponse) DecodeData(t *testing.T, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(r.Body.Data, v))
}

// NewTestServer creates a fresh application with its own database and
// Redis. tweak may adjust the configuration before wiring.
func NewTestServer(t *testing.T, tweak ...func(*config.Config)) *TestServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := testconfig.LoadTestConfig(t)
	for _, fn := range tweak {
		fn(cfg)
	}

	log := zaptest.NewLogger(t, zaptest.Level(zap.WarnLevel))

	db, err := app.OpenDatabase(cfg.DSN, log)
	require.NoError(t, err)

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	c, err := app.NewContainer(context.Background(), cfg, log, db, rdb)
	require.NoError(t, err)

	srv := httptest.NewServer(c.Router)
	t.Cleanup(func() {
		srv.Close()
		_ = c.Close()
	})

	return &TestServer{
		Server:    srv,
		Container: c,
		Config:    cfg,
		Redis:     mr,
		Client:    &http.Client{Timeout: 10 * time.Second},
	}
}

// Do sends a JSON request; token may be empty
func (s *TestServer) Do(t *testing.T, method, path, token string, body any) *APIResponse {
	t.Helper()
	return s.DoWithHeaders(t, method, path, token, body, nil)
}

func (s *TestServer) DoWithHeaders(t *testing.T, method, path, token string, body any, headers map[string]string) *APIResponse {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, s.Server.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := s.Client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	out := &APIResponse{Status: resp.StatusCode}
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &out.Body), "body: %s", raw)
		require.NoError(t, json.Unmarshal(raw, &out.Raw))
	}
	return out
}

// Expect fails the test unless the response has the given status
func (r *APIResponse) Expect(t *testing.T, status int) *APIResponse {
	t.Helper()
	require.Equal(t, status, r.Status, "message=%q error=%q", r.Body.Message, r.Body.Error)
	return r
}
