package gateway

import (
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"
	zlog "github.com/rs/zerolog/log"
)

// maxVideoIDs is the upstream ceiling on IDs per videos.list call.
const maxVideoIDs = 50

// playlistItems forwards a playlist membership request upstream.
func (s *Server) playlistItems(c *gin.Context) {
	params := url.Values{}
	params.Set("part", "snippet,contentDetails")
	params.Set("maxResults", "50")
	params.Set("playlistId", c.Query("playlistId"))

	s.forward(c, "/playlistItems", params, "Proxy error")
}

// videoDetails forwards a batched video metadata request upstream.
// IDs beyond the upstream ceiling are dropped.
func (s *Server) videoDetails(c *gin.Context) {
	videoIDs := c.Query("videoIds")
	if videoIDs == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Video IDs required"})
		return
	}

	ids := strings.Split(videoIDs, ",")
	if len(ids) > maxVideoIDs {
		ids = ids[:maxVideoIDs]
	}

	params := url.Values{}
	params.Set("part", "contentDetails")
	params.Set("id", strings.Join(ids, ","))

	s.forward(c, "/videos", params, "Failed to fetch video details")
}

// forward relays one upstream call. The API key is attached here and
// nowhere else; logged errors are redacted because transport failures
// embed the full request URL, query string included.
func (s *Server) forward(c *gin.Context, upstreamPath string, params url.Values, failureMsg string) {
	params.Set("key", s.cfg.YouTube.APIKey)
	reqURL := s.cfg.YouTube.BaseURL + upstreamPath + "?" + params.Encode()

	req, err := http.NewRequestWithContext(c.Request.Context(), "GET", reqURL, nil)
	if err != nil {
		s.fail(c, upstreamPath, failureMsg, err)
		return
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		s.fail(c, upstreamPath, failureMsg, err)
		return
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		s.fail(c, upstreamPath, failureMsg, err)
		return
	}

	if resp.StatusCode != http.StatusOK {
		zlog.Warn().
			Str("request_id", getRequestID(c)).
			Str("upstream", upstreamPath).
			Int("status", resp.StatusCode).
			Msg("upstream returned non-success status")
		c.JSON(http.StatusInternalServerError, gin.H{"error": failureMsg})
		return
	}

	c.Data(http.StatusOK, "application/json", body)
}

func (s *Server) fail(c *gin.Context, upstreamPath, failureMsg string, err error) {
	zlog.Warn().
		Str("request_id", getRequestID(c)).
		Str("upstream", upstreamPath).
		Err(redactKey(err, s.cfg.YouTube.APIKey)).
		Msg("upstream call failed")
	c.JSON(http.StatusInternalServerError, gin.H{"error": failureMsg})
}

// redactKey masks the API key wherever it appears in error text.
func redactKey(err error, key string) error {
	if err == nil || key == "" {
		return err
	}
	msg := err.Error()
	if !strings.Contains(msg, key) {
		return err
	}
	return errors.New(strings.ReplaceAll(msg, key, "[redacted]"))
}
