package fetch

import (
	"net/url"
	"strings"
)

// Platform is the video host a demo link points at.
type Platform string

const (
	// PlatformYouTube is youtube.com
	PlatformYouTube Platform = "youtube.com"
	// PlatformYouTubeShort is the youtu.be short-link domain
	PlatformYouTubeShort Platform = "youtu.be"
	// PlatformVimeo is vimeo.com
	PlatformVimeo Platform = "vimeo.com"
	// PlatformDailymotion is dailymotion.com
	PlatformDailymotion Platform = "dailymotion.com"
	// PlatformStreamable is streamable.com
	PlatformStreamable Platform = "streamable.com"
	// PlatformTwitch is twitch.tv
	PlatformTwitch Platform = "twitch.tv"
)

// SupportedPlatforms lists the known video hosts in match order.
var SupportedPlatforms = []Platform{
	PlatformYouTube,
	PlatformYouTubeShort,
	PlatformVimeo,
	PlatformDailymotion,
	PlatformStreamable,
	PlatformTwitch,
}

// DetectPlatform identifies the video host of a URL. Unknown hosts are
// returned as their bare domain; unparsable URLs yield an empty Platform.
func DetectPlatform(urlStr string) Platform {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return ""
	}

	host := strings.ToLower(parsed.Host)
	host = strings.TrimPrefix(host, "www.")

	for _, platform := range SupportedPlatforms {
		if strings.Contains(host, string(platform)) {
			return platform
		}
	}

	return Platform(host)
}
