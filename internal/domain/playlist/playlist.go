// Package playlist provides the playlist domain entities.
package playlist

import (
	"regexp"

	"github.com/playtally/playtally/internal/domain/duration"
)

// Placeholder values substituted when a playlist entry is missing source
// data. The presentation layer renders them verbatim.
const (
	PlaceholderTitle     = "Unavailable video"
	PlaceholderThumbnail = "https://i.ytimg.com/img/no_thumbnail.jpg"
	PlaceholderURL       = "#"
)

// idPattern captures the full "list" query parameter value of a YouTube
// URL. Valid playlist IDs are 18 to 34 characters of [A-Za-z0-9_-];
// length is checked separately so an overlong token is rejected whole
// rather than truncated.
var idPattern = regexp.MustCompile(`[&?]list=([a-zA-Z0-9_-]+)`)

// ExtractID extracts a playlist ID from a user-supplied reference string
// such as a watch or playlist URL. The second return value is false when
// no valid ID is present; that is a normal outcome, not an error.
func ExtractID(reference string) (string, bool) {
	for _, m := range idPattern.FindAllStringSubmatch(reference, -1) {
		if id := m[1]; len(id) >= 18 && len(id) <= 34 {
			return id, true
		}
	}
	return "", false
}

// WatchURL returns the canonical watch link for a video ID, or the
// neutral placeholder when the ID is absent.
func WatchURL(videoID string) string {
	if videoID == "" {
		return PlaceholderURL
	}
	return "https://www.youtube.com/watch?v=" + videoID
}

// Video is one display-ready row of the report. Every field is always
// populated; missing source data degrades to the placeholder constants.
type Video struct {
	Thumbnail string
	Title     string
	Duration  duration.Duration
	URL       string
}

// FallbackVideo returns a fully degraded row for a playlist entry whose
// source data was missing or malformed.
func FallbackVideo() Video {
	return Video{
		Thumbnail: PlaceholderThumbnail,
		Title:     PlaceholderTitle,
		Duration:  duration.Zero,
		URL:       PlaceholderURL,
	}
}

// Report is the result of one fetch operation: the ordered rows and
// their normalized total running time.
type Report struct {
	Total  duration.Duration
	Videos []Video
}

// Durations returns the per-video durations in report order.
func (r *Report) Durations() []duration.Duration {
	ds := make([]duration.Duration, len(r.Videos))
	for i, v := range r.Videos {
		ds[i] = v.Duration
	}
	return ds
}
