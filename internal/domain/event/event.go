// Package event provides the Event domain entity.
package event

// Status represents the scheduling status of an event.
type Status string

const (
	StatusScheduled   Status = "scheduled"
	StatusCanceled    Status = "canceled"
	StatusPostponed   Status = "postponed"
	StatusRescheduled Status = "rescheduled"
	StatusMovedOnline Status = "moved_online"
)

// Valid reports whether s is a known status value.
func (s Status) Valid() bool {
	switch s {
	case StatusScheduled, StatusCanceled, StatusPostponed, StatusRescheduled, StatusMovedOnline:
		return true
	}
	return false
}

// MediaKind identifies the backing media of an event.
type MediaKind int

const (
	MediaNone  MediaKind = iota // Image-only card, no playback
	MediaVideo                  // Embedded streaming video
	MediaAudio                  // Local audio element
)

// String returns the string representation of the media kind.
func (k MediaKind) String() string {
	switch k {
	case MediaNone:
		return "none"
	case MediaVideo:
		return "video"
	case MediaAudio:
		return "audio"
	default:
		return "unknown"
	}
}

// MediaRef references the backing media of an event. At most one of
// VideoURL and AudioURL is set; both empty means an image-only card.
type MediaRef struct {
	VideoURL string  // Streaming video URL (multiple accepted shapes)
	AudioURL string  // Local audio file URL
	Duration float64 // Feed-declared duration in seconds (0 if unknown)
}

// Kind returns the media kind of the reference. A video URL takes
// precedence over an audio URL, matching the feed exporter.
func (m MediaRef) Kind() MediaKind {
	if m.VideoURL != "" {
		return MediaVideo
	}
	if m.AudioURL != "" {
		return MediaAudio
	}
	return MediaNone
}

// Event represents one card of the feed.
type Event struct {
	ID             int
	Name           string
	Description    string
	DescriptionEN  string // Optional English variant
	Image          string
	ImageMobile    string // Optional mobile variant
	ImageThumbnail string // Optional thumbnail variant
	Tags           []string
	Session        string // Optional session id, prepended to Tags at load
	Place          string
	Day            string
	StartDate      string // YYYY-MM-DD
	StartTime      string // HH:MM
	EndTime        string
	Status         Status
	Links          map[string]string // Social and ticketing links, keyed by network
	Media          MediaRef
}

// HasTag reports whether the event carries a tag whose slug matches slug.
func (e *Event) HasTag(slug string) bool {
	for _, t := range e.Tags {
		if Slugify(t) == slug {
			return true
		}
	}
	return false
}

// TagName returns the original tag text matching slug, or "" if absent.
func (e *Event) TagName(slug string) string {
	for _, t := range e.Tags {
		if Slugify(t) == slug {
			return t
		}
	}
	return ""
}

// DescriptionFor returns the description in the requested language,
// falling back to the primary description.
func (e *Event) DescriptionFor(lang string) string {
	if lang == "en" && e.DescriptionEN != "" {
		return e.DescriptionEN
	}
	return e.Description
}

// Thumbnail returns the thumbnail image, falling back to the main image.
func (e *Event) Thumbnail() string {
	if e.ImageThumbnail != "" {
		return e.ImageThumbnail
	}
	return e.Image
}
