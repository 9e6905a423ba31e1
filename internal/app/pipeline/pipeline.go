// Package pipeline orchestrates the fetch-reconcile-aggregate flow that
// turns a playlist ID into a duration report.
package pipeline

import (
	"context"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/playtally/playtally/internal/domain/duration"
	"github.com/playtally/playtally/internal/domain/playlist"
	"github.com/playtally/playtally/internal/infra/youtube"
)

// Operation-level failures. Everything below this tier degrades a single
// record instead of aborting the run.
var (
	// ErrUpstream marks a transport failure, non-success status, or
	// malformed top-level shape from either gateway call.
	ErrUpstream = errors.New("upstream fetch failed")
	// ErrNoValidItems means the playlist yielded zero usable video IDs
	// after filtering malformed entries.
	ErrNoValidItems = errors.New("playlist contains no usable videos")
)

// Fetcher abstracts the two gateway calls the pipeline depends on.
type Fetcher interface {
	PlaylistItems(ctx context.Context, playlistID string) (*youtube.PlaylistItemsResponse, error)
	VideoDetails(ctx context.Context, videoIDs []string) (*youtube.VideoListResponse, error)
}

// Config represents pipeline configuration. Empty fields fall back to
// the domain placeholder constants.
type Config struct {
	PlaceholderTitle     string
	PlaceholderThumbnail string
}

// Pipeline runs the fetch-reconcile-aggregate flow. It holds no mutable
// state, so a single instance is safe for concurrent runs.
type Pipeline struct {
	fetcher  Fetcher
	fallback playlist.Video
}

// New creates a new pipeline backed by the given fetcher.
func New(fetcher Fetcher, cfg Config) *Pipeline {
	fallback := playlist.FallbackVideo()
	if cfg.PlaceholderTitle != "" {
		fallback.Title = cfg.PlaceholderTitle
	}
	if cfg.PlaceholderThumbnail != "" {
		fallback.Thumbnail = cfg.PlaceholderThumbnail
	}
	return &Pipeline{fetcher: fetcher, fallback: fallback}
}

// Run fetches one page of playlist membership, resolves the durations of
// the member videos, and reduces them into a report. The two fetches are
// strictly sequential: the second needs the IDs the first produced.
func (p *Pipeline) Run(ctx context.Context, playlistID string) (*playlist.Report, error) {
	items, err := p.fetcher.PlaylistItems(ctx, playlistID)
	if err != nil {
		return nil, errors.Mark(errors.Wrap(err, "failed to fetch playlist items"), ErrUpstream)
	}

	ids := collectVideoIDs(items.Items)
	if len(ids) == 0 {
		return nil, errors.Wrapf(ErrNoValidItems, "playlist %s", playlistID)
	}

	details, err := p.fetcher.VideoDetails(ctx, ids)
	if err != nil {
		return nil, errors.Mark(errors.Wrap(err, "failed to fetch video details"), ErrUpstream)
	}

	videos := p.join(items.Items, indexDurations(details.Items))

	report := &playlist.Report{Videos: videos}
	report.Total = duration.Sum(report.Durations()...)
	return report, nil
}

// collectVideoIDs extracts the video ID of every well-formed playlist
// entry, preserving playlist order. Malformed entries are dropped with a
// diagnostic; they still produce fallback rows in the joined report.
func collectVideoIDs(items []youtube.PlaylistItem) []string {
	ids := make([]string, 0, len(items))
	for i, item := range items {
		if item.ContentDetails == nil || item.ContentDetails.VideoID == "" {
			zlog.Debug().Msgf("playlist item %d has no video ID, skipping", i)
			continue
		}
		ids = append(ids, item.ContentDetails.VideoID)
	}
	return ids
}

// indexDurations builds a video ID to parsed duration map from the
// details response. Keying by ID instead of array position keeps the
// join correct even if the upstream reorders results relative to the
// request list. First occurrence wins on duplicate IDs.
func indexDurations(items []youtube.VideoItem) map[string]duration.Duration {
	durations := make(map[string]duration.Duration, len(items))
	for _, item := range items {
		if item.ID == "" || item.ContentDetails == nil {
			continue
		}
		if _, ok := durations[item.ID]; ok {
			continue
		}
		durations[item.ID] = duration.Parse(item.ContentDetails.Duration)
	}
	return durations
}

// join walks the original, unfiltered playlist entries so the report row
// count matches the playlist length, substituting fallback values for
// whatever is missing at field level.
func (p *Pipeline) join(items []youtube.PlaylistItem, durations map[string]duration.Duration) []playlist.Video {
	videos := make([]playlist.Video, len(items))
	for i, item := range items {
		videos[i] = p.buildVideo(item, durations)
	}
	return videos
}

// buildVideo turns one playlist entry into a report row. An entry
// without a video ID gets the fully-fallback row; an entry with an ID
// but missing display fields degrades field by field.
func (p *Pipeline) buildVideo(item youtube.PlaylistItem, durations map[string]duration.Duration) playlist.Video {
	video := p.fallback

	if item.ContentDetails == nil || item.ContentDetails.VideoID == "" {
		return video
	}

	id := item.ContentDetails.VideoID
	video.URL = playlist.WatchURL(id)
	if d, ok := durations[id]; ok {
		video.Duration = d
	} else {
		zlog.Debug().Msgf("no duration for video %s, using zero", id)
	}

	if item.Snippet != nil {
		if item.Snippet.Title != "" {
			video.Title = item.Snippet.Title
		}
		video.Thumbnail = pickThumbnail(item.Snippet.Thumbnails, p.fallback.Thumbnail)
	}

	return video
}

// pickThumbnail prefers the medium variant, then default, then the
// placeholder.
func pickThumbnail(thumbs youtube.Thumbnails, placeholder string) string {
	if thumbs.Medium != nil && thumbs.Medium.URL != "" {
		return thumbs.Medium.URL
	}
	if thumbs.Default != nil && thumbs.Default.URL != "" {
		return thumbs.Default.URL
	}
	return placeholder
}
