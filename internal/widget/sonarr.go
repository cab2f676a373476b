package widget

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultSonarrTimeout bounds one Sonarr API call end to end.
const DefaultSonarrTimeout = 10 * time.Second

// apiKeyHeader carries the Sonarr API key on every outbound request.
const apiKeyHeader = "X-Api-Key"

// Series is the subset of Sonarr series metadata the dashboard renders.
type Series struct {
	Title     string `json:"title"`
	TitleSlug string `json:"titleSlug"`
	Runtime   int    `json:"runtime"`
}

// CalendarEntry is one upcoming episode from Sonarr's calendar,
// annotated with whether it is currently in the download queue.
type CalendarEntry struct {
	SeriesID      int       `json:"seriesId"`
	SeasonNumber  int       `json:"seasonNumber"`
	EpisodeNumber int       `json:"episodeNumber"`
	Title         string    `json:"title,omitempty"`
	AirDateUTC    time.Time `json:"airDateUtc"`
	HasFile       bool      `json:"hasFile"`
	Monitored     bool      `json:"monitored"`
	Series        Series    `json:"series"`
	Downloading   bool      `json:"downloading"`
}

type queueRecord struct {
	SeriesID int `json:"seriesId"`
}

type downloadQueue struct {
	Records []queueRecord `json:"records"`
}

// Sonarr is a client for one Sonarr instance, built per request from
// the credentials resolved out of the current snapshot. The API key is
// sent only as a request header and never logged.
type Sonarr struct {
	base   string
	key    string
	client *http.Client
	now    func() time.Time // injectable for deterministic tests
}

// NewSonarr builds a client for the Sonarr instance at baseURL.
func NewSonarr(baseURL, key string, timeout time.Duration) *Sonarr {
	if timeout <= 0 {
		timeout = DefaultSonarrTimeout
	}
	return &Sonarr{
		base:   strings.TrimRight(baseURL, "/"),
		key:    key,
		client: &http.Client{Timeout: timeout},
		now:    time.Now,
	}
}

// Upcoming fetches the calendar and the active download queue, marking
// each calendar entry Downloading when a queue record shares its
// series ID.
//
// A calendar failure fails the whole call. A queue failure does not:
// the queue is auxiliary, so the calendar is still returned with every
// entry unmarked and a warning logged.
func (s *Sonarr) Upcoming(ctx context.Context) ([]CalendarEntry, error) {
	entries, err := s.Calendar(ctx)
	if err != nil {
		return nil, err
	}

	queue, err := s.Queue(ctx)
	if err != nil {
		slog.Warn("widget: sonarr queue fetch failed, returning calendar without download flags",
			"err", err)
		return entries, nil
	}

	active := make(map[int]bool, len(queue))
	for _, rec := range queue {
		active[rec] = true
	}
	for i := range entries {
		entries[i].Downloading = active[entries[i].SeriesID]
	}
	return entries, nil
}

// Calendar fetches upcoming episodes from yesterday through two days
// ahead, series metadata included.
func (s *Sonarr) Calendar(ctx context.Context) ([]CalendarEntry, error) {
	today := s.now().UTC()
	params := url.Values{
		"unmonitored":   {"false"},
		"includeSeries": {"true"},
		"start":         {today.AddDate(0, 0, -1).Format("2006-01-02")},
		"end":           {today.AddDate(0, 0, 2).Format("2006-01-02")},
	}

	var entries []CalendarEntry
	if err := s.get(ctx, "sonarr calendar", "/api/v3/calendar", params, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// Queue fetches the series IDs currently in the download queue.
func (s *Sonarr) Queue(ctx context.Context) ([]int, error) {
	var q downloadQueue
	if err := s.get(ctx, "sonarr queue", "/api/v3/queue", nil, &q); err != nil {
		return nil, err
	}
	ids := make([]int, 0, len(q.Records))
	for _, rec := range q.Records {
		ids = append(ids, rec.SeriesID)
	}
	return ids, nil
}

func (s *Sonarr) get(ctx context.Context, op, path string, params url.Values, v any) error {
	u := s.base + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return &OutboundError{Op: op, Err: err}
	}
	req.Header.Set(apiKeyHeader, s.key)

	resp, err := s.client.Do(req)
	if err != nil {
		return &OutboundError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &OutboundError{Op: op, Status: resp.StatusCode}
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return &OutboundError{Op: op, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}
