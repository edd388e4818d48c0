// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package render

import (
	"regexp"

	"github.com/taibuivan/confkb/internal/content"
)

var (
	youtubeID = regexp.MustCompile(`(?:youtu\.be/|youtube\.com/(?:embed/|v/|watch\?v=))([\w-]{11})`)
	vimeoID   = regexp.MustCompile(`vimeo\.com/(\d+)`)
)

// EmbedURL resolves a video page URL to its player URL.
//
//	youtube  https://youtu.be/ID, youtube.com/watch?v=ID, /embed/ID, /v/ID → https://www.youtube.com/embed/ID
//	vimeo    vimeo.com/DIGITS → https://player.vimeo.com/video/DIGITS
//
// Anything that does not match is returned unchanged.
func EmbedURL(platform content.Platform, url string) string {
	if player, ok := playerURL(platform, url); ok {
		return player
	}
	return url
}

func playerURL(platform content.Platform, url string) (string, bool) {
	switch platform {
	case content.PlatformYouTube:
		if m := youtubeID.FindStringSubmatch(url); m != nil {
			return "https://www.youtube.com/embed/" + m[1], true
		}
	case content.PlatformVimeo:
		if m := vimeoID.FindStringSubmatch(url); m != nil {
			return "https://player.vimeo.com/video/" + m[1], true
		}
	}
	return "", false
}
