package gateway

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/playtally/playtally/internal/infra/config"
)

const testOrigin = "chrome-extension://abcdefghijklmnop"

func testConfig(upstreamURL string) *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Addr:          ":0",
			AllowedOrigin: testOrigin,
		},
		RateLimit: config.RateLimitConfig{
			Requests:      100,
			WindowMinutes: 15,
		},
		YouTube: config.YouTubeConfig{
			APIKey:  "secret-key",
			BaseURL: upstreamURL,
		},
	}
}

func doRequest(s *Server, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("GET", target, nil)
	req.RemoteAddr = "203.0.113.7:1234"
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func TestPlaylistItems_Forwards(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/playlistItems", r.URL.Path)
		assert.Equal(t, "snippet,contentDetails", r.URL.Query().Get("part"))
		assert.Equal(t, "50", r.URL.Query().Get("maxResults"))
		assert.Equal(t, "PL123456789012345678", r.URL.Query().Get("playlistId"))
		assert.Equal(t, "secret-key", r.URL.Query().Get("key"))

		fmt.Fprint(w, `{"items": [{"contentDetails": {"videoId": "a"}}]}`)
	}))
	defer upstream.Close()

	s := New(testConfig(upstream.URL))
	w := doRequest(s, "/api/playlist-items?playlistId=PL123456789012345678")

	assert.Equal(t, http.StatusOK, w.Code)
	// The upstream body is relayed verbatim.
	assert.JSONEq(t, `{"items": [{"contentDetails": {"videoId": "a"}}]}`, w.Body.String())
	assert.NotContains(t, w.Body.String(), "secret-key")
}

func TestPlaylistItems_UpstreamFailure(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		fmt.Fprint(w, `{"error": {"code": 403, "message": "quota exceeded"}}`)
	}))
	defer upstream.Close()

	s := New(testConfig(upstream.URL))
	w := doRequest(s, "/api/playlist-items?playlistId=PL123456789012345678")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error": "Proxy error"}`, w.Body.String())
}

func TestPlaylistItems_UpstreamUnreachable(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	upstream.Close() // connection refused from here on

	s := New(testConfig(upstream.URL))
	w := doRequest(s, "/api/playlist-items?playlistId=PL123456789012345678")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error": "Proxy error"}`, w.Body.String())
}

func TestPlaylistItems_FailureLogOmitsAPIKey(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	upstream.Close() // transport errors embed the full request URL

	var buf bytes.Buffer
	orig := zlog.Logger
	zlog.Logger = zerolog.New(&buf)
	t.Cleanup(func() { zlog.Logger = orig })

	s := New(testConfig(upstream.URL))
	w := doRequest(s, "/api/playlist-items?playlistId=PL123456789012345678")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	logged := buf.String()
	assert.Contains(t, logged, "upstream call failed")
	assert.NotContains(t, logged, "secret-key")
	assert.Contains(t, logged, "[redacted]")
}

func TestVideoDetails_RequiresIDs(t *testing.T) {
	s := New(testConfig("http://unused"))
	w := doRequest(s, "/api/video-details")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error": "Video IDs required"}`, w.Body.String())
}

func TestVideoDetails_Forwards(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/videos", r.URL.Path)
		assert.Equal(t, "contentDetails", r.URL.Query().Get("part"))
		assert.Equal(t, "a,b", r.URL.Query().Get("id"))
		assert.Equal(t, "secret-key", r.URL.Query().Get("key"))

		fmt.Fprint(w, `{"items": [{"id": "a"}, {"id": "b"}]}`)
	}))
	defer upstream.Close()

	s := New(testConfig(upstream.URL))
	w := doRequest(s, "/api/video-details?videoIds=a,b")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"items": [{"id": "a"}, {"id": "b"}]}`, w.Body.String())
}

func TestVideoDetails_CapsIDs(t *testing.T) {
	var forwarded int
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		forwarded = len(strings.Split(r.URL.Query().Get("id"), ","))
		fmt.Fprint(w, `{"items": []}`)
	}))
	defer upstream.Close()

	ids := make([]string, 120)
	for i := range ids {
		ids[i] = fmt.Sprintf("v%d", i)
	}

	s := New(testConfig(upstream.URL))
	w := doRequest(s, "/api/video-details?videoIds="+strings.Join(ids, ","))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, maxVideoIDs, forwarded)
}

func TestVideoDetails_UpstreamFailure(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer upstream.Close()

	s := New(testConfig(upstream.URL))
	w := doRequest(s, "/api/video-details?videoIds=a")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error": "Failed to fetch video details"}`, w.Body.String())
}

func TestCORS(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"items": []}`)
	}))
	defer upstream.Close()

	s := New(testConfig(upstream.URL))

	// Allowed origin gets the CORS headers.
	req := httptest.NewRequest("GET", "/api/playlist-items?playlistId=x", nil)
	req.RemoteAddr = "203.0.113.7:1234"
	req.Header.Set("Origin", testOrigin)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, testOrigin, w.Header().Get("Access-Control-Allow-Origin"))

	// Any other origin is rejected.
	req = httptest.NewRequest("GET", "/api/playlist-items?playlistId=x", nil)
	req.RemoteAddr = "203.0.113.7:1234"
	req.Header.Set("Origin", "https://evil.example.com")
	w = httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRateLimit(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"items": []}`)
	}))
	defer upstream.Close()

	cfg := testConfig(upstream.URL)
	cfg.RateLimit.Requests = 2
	s := New(cfg)

	for i := 0; i < 2; i++ {
		w := doRequest(s, "/api/playlist-items?playlistId=x")
		require.Equal(t, http.StatusOK, w.Code, "request %d should pass", i+1)
	}

	w := doRequest(s, "/api/playlist-items?playlistId=x")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	// A different client address has its own budget.
	req := httptest.NewRequest("GET", "/api/playlist-items?playlistId=x", nil)
	req.RemoteAddr = "198.51.100.9:4321"
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequestID(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"items": []}`)
	}))
	defer upstream.Close()

	s := New(testConfig(upstream.URL))
	w := doRequest(s, "/api/playlist-items?playlistId=x")

	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}
