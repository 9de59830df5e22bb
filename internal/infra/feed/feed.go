// Package feed loads and validates the event feed (data.json).
package feed

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/delmas/festfeed/internal/domain/catalog"
	"github.com/delmas/festfeed/internal/domain/event"
)

// fetchTimeout bounds remote feed fetches at startup.
const fetchTimeout = 15 * time.Second

// flexID accepts both numeric and string-encoded ids, which the
// exporter has emitted in different revisions.
type flexID int

func (f *flexID) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return errors.Wrapf(err, "invalid event id %q", s)
	}
	*f = flexID(n)
	return nil
}

// record mirrors one exported feed entry. Field names follow the
// exporter's output.
type record struct {
	ID             flexID   `json:"id"`
	EventName      string   `json:"event_name"`
	Description    string   `json:"description"`
	DescriptionEN  string   `json:"description_en"`
	Image          string   `json:"image"`
	ImageMobile    string   `json:"image_mobile"`
	ImageThumbnail string   `json:"image_thumbnail"`
	EventTags      []string `json:"event_tags"`
	EventSession   string   `json:"event_session"`
	EventPlace     string   `json:"event_place"`
	EventDay       string   `json:"event_day"`
	EventStartDate string   `json:"event_start_date"`
	EventStartTime string   `json:"event_start_time"`
	EventEndTime   string   `json:"event_end_time"`
	EventStatus    string   `json:"event_status"`
	VideoURL       string   `json:"video_url"`
	Audio          string   `json:"audio"`
	Duration       float64  `json:"duration"`

	PerformerFacebook   string `json:"performer_facebook"`
	PerformerInstagram  string `json:"performer_instagram"`
	PerformerTiktok     string `json:"performer_tiktok"`
	PerformerYoutube    string `json:"performer_youtube_channel"`
	PerformerSpotify    string `json:"performer_spotify"`
	PerformerDeezer     string `json:"performer_deezer"`
	PerformerSoundcloud string `json:"performer_soundcloud"`
	PerformerWebsite    string `json:"performer_website"`
	EventLink           string `json:"event_link"`
	EventTicket         string `json:"event_ticket"`
}

// Load fetches the feed from source (a file path or http(s) URL),
// validates and normalizes it, and returns the resulting catalog.
// Network failure or a malformed document is fatal; individual records
// missing mandatory fields are dropped and logged.
func Load(ctx context.Context, source string) (*catalog.Catalog, error) {
	data, err := read(ctx, source)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load feed from %s", source)
	}

	var records []record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, errors.Wrap(err, "malformed feed")
	}

	events := make([]event.Event, 0, len(records))
	for _, r := range records {
		e, ok := normalize(r)
		if !ok {
			zlog.Warn().Int("id", int(r.ID)).Str("name", r.EventName).
				Msg("feed: dropping record with missing mandatory fields")
			continue
		}
		events = append(events, e)
	}

	zlog.Info().Int("total", len(records)).Int("kept", len(events)).
		Str("source", source).Msg("feed: loaded")

	return catalog.New(events), nil
}

func read(ctx context.Context, source string) ([]byte, error) {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
		defer cancel()

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
		if err != nil {
			return nil, err
		}
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return nil, errors.Newf("unexpected status %d", resp.StatusCode)
		}
		return io.ReadAll(resp.Body)
	}
	return os.ReadFile(source)
}

// normalize converts a feed record to a domain event. The second
// return is false when a mandatory field is missing.
func normalize(r record) (event.Event, bool) {
	name := strings.TrimSpace(r.EventName)
	image := strings.TrimSpace(r.Image)
	desc := strings.TrimSpace(r.Description)
	if name == "" || image == "" || desc == "" {
		return event.Event{}, false
	}

	status := event.Status(r.EventStatus)
	if r.EventStatus == "" {
		status = event.StatusScheduled
	} else if !status.Valid() {
		zlog.Warn().Int("id", int(r.ID)).Str("status", r.EventStatus).
			Msg("feed: unknown event status, treating as scheduled")
		status = event.StatusScheduled
	}

	tags := append([]string(nil), r.EventTags...)
	if r.EventSession != "" && !containsTag(tags, r.EventSession) {
		tags = append([]string{r.EventSession}, tags...)
	}

	links := map[string]string{}
	for k, v := range map[string]string{
		"facebook":   r.PerformerFacebook,
		"instagram":  r.PerformerInstagram,
		"tiktok":     r.PerformerTiktok,
		"youtube":    r.PerformerYoutube,
		"spotify":    r.PerformerSpotify,
		"deezer":     r.PerformerDeezer,
		"soundcloud": r.PerformerSoundcloud,
		"website":    r.PerformerWebsite,
		"event":      r.EventLink,
		"tickets":    r.EventTicket,
	} {
		if v != "" {
			links[k] = v
		}
	}

	return event.Event{
		ID:             int(r.ID),
		Name:           name,
		Description:    desc,
		DescriptionEN:  strings.TrimSpace(r.DescriptionEN),
		Image:          image,
		ImageMobile:    r.ImageMobile,
		ImageThumbnail: r.ImageThumbnail,
		Tags:           tags,
		Session:        r.EventSession,
		Place:          r.EventPlace,
		Day:            r.EventDay,
		StartDate:      r.EventStartDate,
		StartTime:      r.EventStartTime,
		EndTime:        r.EventEndTime,
		Status:         status,
		Links:          links,
		Media: event.MediaRef{
			VideoURL: r.VideoURL,
			AudioURL: r.Audio,
			Duration: r.Duration,
		},
	}, true
}

func containsTag(tags []string, t string) bool {
	for _, x := range tags {
		if x == t {
			return true
		}
	}
	return false
}
