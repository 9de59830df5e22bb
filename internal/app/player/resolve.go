package player

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
)

// ErrMediaResolution indicates a video URL that cannot be parsed into
// a playable video id. The card degrades to image-only.
var ErrMediaResolution = errors.New("cannot resolve media reference")

var videoIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// VideoSpec is a resolved video reference: the platform video id and
// the start offset in seconds.
type VideoSpec struct {
	ID    string
	Start int
}

// ResolveVideoURL extracts the platform video id and optional start
// offset from the accepted URL shapes: short link (youtu.be/ID),
// canonical watch link (?v=ID), embed, shorts and live paths. A URL
// yielding no id fails with ErrMediaResolution.
func ResolveVideoURL(raw string) (VideoSpec, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return VideoSpec{}, errors.WithDetail(ErrMediaResolution, raw)
	}

	var id string
	host := u.Hostname()
	path := strings.Trim(u.Path, "/")
	switch {
	case strings.Contains(host, "youtu.be"):
		id = firstSegment(path)
	default:
		if v := u.Query().Get("v"); v != "" {
			id = v
		} else {
			for _, prefix := range []string{"embed/", "shorts/", "live/"} {
				if rest, ok := strings.CutPrefix(path, prefix); ok {
					id = firstSegment(rest)
					break
				}
			}
		}
	}

	// Some exported links embed extra parameters after the id.
	if i := strings.IndexByte(id, '&'); i != -1 {
		id = id[:i]
	}

	if id == "" || !videoIDPattern.MatchString(id) {
		return VideoSpec{}, errors.WithDetail(ErrMediaResolution, raw)
	}

	return VideoSpec{ID: id, Start: parseStartOffset(u.Query().Get("t"))}, nil
}

// parseStartOffset converts a "30" or "30s" offset parameter to
// seconds. Malformed values mean no offset.
func parseStartOffset(t string) int {
	if t == "" {
		return 0
	}
	n, err := strconv.Atoi(strings.TrimSuffix(t, "s"))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func firstSegment(path string) string {
	if i := strings.IndexByte(path, '/'); i != -1 {
		return path[:i]
	}
	return path
}
