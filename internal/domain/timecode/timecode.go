package timecode

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Label formats an offset as the player shows it: "m:ss" below one hour,
// "h:mm:ss" above.
func Label(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

// DeepLink returns videoURL with a "t=<seconds>s" start offset. Any existing
// t parameter is replaced. An empty URL yields an empty link.
func DeepLink(videoURL string, seconds int) string {
	if strings.TrimSpace(videoURL) == "" {
		return ""
	}
	if seconds < 0 {
		seconds = 0
	}
	u, err := url.Parse(videoURL)
	if err != nil {
		// Unparseable links still get the offset appended the way the player expects.
		return videoURL + sep(videoURL) + "t=" + strconv.Itoa(seconds) + "s"
	}
	q := u.Query()
	q.Set("t", strconv.Itoa(seconds)+"s")
	u.RawQuery = q.Encode()
	return u.String()
}

func sep(s string) string {
	if strings.Contains(s, "?") {
		return "&"
	}
	return "?"
}
