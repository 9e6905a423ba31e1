// Package youtube provides a client for the playtally gateway, which
// fronts the YouTube Data API.
package youtube

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"
)

// MaxBatchSize is the upstream ceiling on video IDs per details request.
// Longer lists are silently truncated, matching the gateway's own cap.
const MaxBatchSize = 50

// Client is a gateway API client.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Config represents gateway client configuration.
type Config struct {
	BaseURL string
}

// New creates a new gateway client.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("gateway base URL is required")
	}

	return &Client{
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}, nil
}

// Thumbnail represents a single thumbnail variant.
type Thumbnail struct {
	URL string `json:"url"`
}

// Thumbnails represents the thumbnail set of a playlist entry.
type Thumbnails struct {
	Default *Thumbnail `json:"default"`
	Medium  *Thumbnail `json:"medium"`
}

// Snippet represents the display fields of a playlist entry.
type Snippet struct {
	Title      string     `json:"title"`
	Thumbnails Thumbnails `json:"thumbnails"`
}

// ItemContentDetails carries the video ID of a playlist entry.
type ItemContentDetails struct {
	VideoID string `json:"videoId"`
}

// PlaylistItem is one membership record of a playlist. Nested fields can
// be absent for private or deleted videos; such records degrade to
// fallback values downstream instead of failing the fetch.
type PlaylistItem struct {
	Snippet        *Snippet            `json:"snippet"`
	ContentDetails *ItemContentDetails `json:"contentDetails"`
}

// PlaylistItemsResponse is the relayed playlistItems payload.
type PlaylistItemsResponse struct {
	Items []PlaylistItem `json:"items"`
}

// VideoContentDetails carries the raw PT-notation duration of a video.
type VideoContentDetails struct {
	Duration string `json:"duration"`
}

// VideoItem is one record of the video-details payload.
type VideoItem struct {
	ID             string               `json:"id"`
	ContentDetails *VideoContentDetails `json:"contentDetails"`
}

// VideoListResponse is the relayed videos payload.
type VideoListResponse struct {
	Items []VideoItem `json:"items"`
}

// gatewayError represents the gateway's JSON failure body.
type gatewayError struct {
	Error string `json:"error"`
}

// PlaylistItems retrieves one page of playlist membership for the given
// playlist ID.
func (c *Client) PlaylistItems(ctx context.Context, playlistID string) (*PlaylistItemsResponse, error) {
	if playlistID == "" {
		return nil, errors.New("playlist ID is required")
	}

	params := url.Values{}
	params.Set("playlistId", playlistID)

	body, err := c.get(ctx, "/api/playlist-items", params)
	if err != nil {
		return nil, err
	}

	var response PlaylistItemsResponse
	if err := unmarshalItems(body, &response); err != nil {
		return nil, errors.Wrap(err, "playlist items response")
	}

	return &response, nil
}

// VideoDetails retrieves duration metadata for a batch of video IDs.
// IDs beyond MaxBatchSize are truncated before the request is built.
func (c *Client) VideoDetails(ctx context.Context, videoIDs []string) (*VideoListResponse, error) {
	if len(videoIDs) == 0 {
		return nil, errors.New("at least one video ID is required")
	}

	if len(videoIDs) > MaxBatchSize {
		zlog.Debug().Msgf("truncating video details request from %d to %d IDs", len(videoIDs), MaxBatchSize)
		videoIDs = videoIDs[:MaxBatchSize]
	}

	params := url.Values{}
	params.Set("videoIds", strings.Join(videoIDs, ","))

	body, err := c.get(ctx, "/api/video-details", params)
	if err != nil {
		return nil, err
	}

	var response VideoListResponse
	if err := unmarshalItems(body, &response); err != nil {
		return nil, errors.Wrap(err, "video details response")
	}

	return &response, nil
}

// get issues a GET request against the gateway and returns the raw body
// of a successful response.
func (c *Client) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	reqURL := c.baseURL + path + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create request")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "failed to send request")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read response body")
	}

	if resp.StatusCode != http.StatusOK {
		var gwErr gatewayError
		if err := json.Unmarshal(body, &gwErr); err == nil && gwErr.Error != "" {
			return nil, errors.Errorf("gateway error %d: %s", resp.StatusCode, gwErr.Error)
		}
		return nil, errors.Errorf("gateway returned status %d", resp.StatusCode)
	}

	return body, nil
}

// unmarshalItems decodes a relayed payload and rejects bodies that do
// not carry an items array at the top level.
func unmarshalItems(body []byte, out any) error {
	var probe struct {
		Items json.RawMessage `json:"items"`
	}
	if err := json.Unmarshal(body, &probe); err != nil {
		return errors.Wrap(err, "failed to parse response")
	}
	if probe.Items == nil {
		return errors.New("response is missing the items array")
	}
	return errors.Wrap(json.Unmarshal(body, out), "failed to parse response")
}
