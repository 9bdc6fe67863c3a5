package services

import (
	"fmt"
	"regexp"
)

// An 11-character id following "v=" or any "/". Leftmost match wins.
var videoIDPattern = regexp.MustCompile(`(?:v=|/)([0-9A-Za-z_-]{11})`)

// ResolveIdentifier extracts the video identifier from a URL. ok is false
// when the URL carries no identifier.
func ResolveIdentifier(url string) (id string, ok bool) {
	m := videoIDPattern.FindStringSubmatch(url)
	if len(m) < 2 {
		return "", false
	}
	return m[1], true
}

// ThumbnailURL is the preview image shown next to a resolved video.
func ThumbnailURL(videoID string) string {
	return fmt.Sprintf("https://img.youtube.com/vi/%s/0.jpg", videoID)
}

// WatchURL is the canonical watch page for a video id.
func WatchURL(videoID string) string {
	return "https://www.youtube.com/watch?v=" + videoID
}
