// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package detect

import (
	"regexp"
	"strings"

	"github.com/pdiddy/study-shelf/pkg/types"
)

// Priorities of the built-in detectors. More specific patterns rank higher.
const (
	PriorityYouTube = 100
	PriorityPaper   = 90
	PriorityBook    = 80
	PriorityArticle = 10
)

// YouTube content types reported in Metadata["contentType"].
const (
	ContentVideo    = "video"
	ContentShorts   = "shorts"
	ContentPlaylist = "playlist"
	ContentChannel  = "channel"
	ContentVideoID  = "video-id"
)

const youtubePluginID = "youtube"

// youtubePattern is one URL shape, tried in order of specificity.
type youtubePattern struct {
	name        string
	contentType string
	display     string
	re          *regexp.Regexp
}

var (
	youtubeDomain = regexp.MustCompile(`(?i)(^|[/.])(youtube\.com|youtu\.be|youtube-nocookie\.com)(/|$|\?)`)

	youtubePatterns = []youtubePattern{
		{"watch", ContentVideo, "YouTube Video",
			regexp.MustCompile(`(?i)^(?:https?://)?(?:www\.|m\.|music\.)?youtube\.com/watch\?(?:\S*&)?v=([A-Za-z0-9_-]{11})`)},
		{"short-link", ContentVideo, "YouTube Video",
			regexp.MustCompile(`(?i)^(?:https?://)?youtu\.be/([A-Za-z0-9_-]{11})`)},
		{"embed", ContentVideo, "YouTube Video",
			regexp.MustCompile(`(?i)^(?:https?://)?(?:www\.)?youtube(?:-nocookie)?\.com/(?:embed|v)/([A-Za-z0-9_-]{11})`)},
		{"shorts", ContentShorts, "YouTube Short",
			regexp.MustCompile(`(?i)^(?:https?://)?(?:www\.|m\.)?youtube\.com/shorts/([A-Za-z0-9_-]{11})`)},
		{"playlist", ContentPlaylist, "YouTube Playlist",
			regexp.MustCompile(`(?i)^(?:https?://)?(?:www\.|m\.|music\.)?youtube\.com/playlist\?(?:\S*&)?list=([A-Za-z0-9_-]+)`)},
		{"list-param", ContentPlaylist, "YouTube Playlist",
			regexp.MustCompile(`(?i)^(?:https?://)?(?:www\.|m\.|music\.)?(?:youtube\.com|youtu\.be)/\S*[?&]list=([A-Za-z0-9_-]+)`)},
		{"channel-handle", ContentChannel, "YouTube Channel",
			regexp.MustCompile(`(?i)^(?:https?://)?(?:www\.|m\.)?youtube\.com/(@[A-Za-z0-9_.-]+)`)},
		{"channel-id", ContentChannel, "YouTube Channel",
			regexp.MustCompile(`(?i)^(?:https?://)?(?:www\.|m\.)?youtube\.com/channel/([A-Za-z0-9_-]+)`)},
		{"channel-custom", ContentChannel, "YouTube Channel",
			regexp.MustCompile(`(?i)^(?:https?://)?(?:www\.|m\.)?youtube\.com/c/([A-Za-z0-9_.-]+)`)},
	}
)

// YouTubeDetector recognizes YouTube videos, shorts, playlists, channels,
// and bare video ids. It has the highest priority because its patterns
// are the most specific.
type YouTubeDetector struct{}

// NewYouTubeDetector returns the YouTube detector.
func NewYouTubeDetector() *YouTubeDetector { return &YouTubeDetector{} }

func (d *YouTubeDetector) ID() string    { return youtubePluginID }
func (d *YouTubeDetector) Priority() int { return PriorityYouTube }

// Detect reports definite for recognized YouTube URLs and high for a bare
// 11-character video id, which may coincidentally match other tokens.
func (d *YouTubeDetector) Detect(input string) *types.DetectionResult {
	s := strings.TrimSpace(input)
	if s == "" {
		return nil
	}

	if youtubeDomain.MatchString(s) {
		for _, p := range youtubePatterns {
			m := p.re.FindStringSubmatch(s)
			if m == nil {
				continue
			}
			return newResult(youtubePluginID, p.display, types.ConfidenceDefinite, types.InputURL,
				m[1], p.name, map[string]any{"contentType": p.contentType})
		}
		return nil
	}

	if bareVideoShape.MatchString(s) {
		return newResult(youtubePluginID, "YouTube Video", types.ConfidenceHigh, types.InputIdentifier,
			s, "video-id", map[string]any{"contentType": ContentVideoID})
	}
	return nil
}
