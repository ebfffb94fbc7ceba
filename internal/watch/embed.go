package watch

import (
	"fmt"

	"github.com/moviestream-ai/moviestream/internal/media"
)

const DefaultEmbedBaseURL = "https://vidsrc.to/embed"

// EmbedURL builds the external player address for an item. TV URLs carry
// season and episode; a TV item without a selectable season gets the bare
// show path.
func EmbedURL(base string, kind media.Kind, id, season, episode int) string {
	if base == "" {
		base = DefaultEmbedBaseURL
	}
	if kind != media.KindTV {
		return fmt.Sprintf("%s/movie/%d", base, id)
	}
	if season <= 0 {
		return fmt.Sprintf("%s/tv/%d", base, id)
	}
	if episode <= 0 {
		episode = 1
	}
	return fmt.Sprintf("%s/tv/%d?s=%d&e=%d", base, id, season, episode)
}
