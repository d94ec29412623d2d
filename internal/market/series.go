// Package market turns a raw intraday price feed into per-game-day price
// samples. Game day N maps to the N-th distinct trading date of the feed,
// earliest first.
package market

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"time"
)

var (
	ErrDayOutOfRange      = errors.New("game day has no trading date in the feed")
	ErrMalformedFeedEntry = errors.New("malformed feed entry")
)

const (
	timeSeriesKey   = "Time Series (5min)"
	openField       = "1. open"
	timestampLayout = "2006-01-02 15:04:05"
	dateLayout      = "2006-01-02"
)

type sample struct {
	at   time.Time
	open float64
}

// Series is an immutable, date-bucketed view of one intraday feed.
type Series struct {
	dates  []string
	byDate map[string][]sample
}

// ParseFeed reads the feed JSON: a top-level "Time Series (5min)" object
// mapping timestamp strings to field objects carrying the open price as a
// numeric string. Timestamps may arrive unsorted with any number of samples
// per calendar date. A single malformed timestamp or price aborts the whole
// parse; there is no skip-and-warn path.
func ParseFeed(r io.Reader) (*Series, error) {
	var doc map[string]json.RawMessage
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedFeedEntry, err)
	}
	raw, ok := doc[timeSeriesKey]
	if !ok {
		return nil, fmt.Errorf("%w: missing %q object", ErrMalformedFeedEntry, timeSeriesKey)
	}
	var entries map[string]map[string]string
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedFeedEntry, err)
	}

	s := &Series{byDate: map[string][]sample{}}
	for ts, fields := range entries {
		at, err := time.Parse(timestampLayout, ts)
		if err != nil {
			return nil, fmt.Errorf("%w: timestamp %q", ErrMalformedFeedEntry, ts)
		}
		raw, ok := fields[openField]
		if !ok {
			return nil, fmt.Errorf("%w: %q has no %q field", ErrMalformedFeedEntry, ts, openField)
		}
		open, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: open price %q at %q", ErrMalformedFeedEntry, raw, ts)
		}
		date := at.Format(dateLayout)
		s.byDate[date] = append(s.byDate[date], sample{at: at, open: open})
	}

	for date := range s.byDate {
		s.dates = append(s.dates, date)
	}
	// ISO dates make lexical order chronological.
	sort.Strings(s.dates)
	for _, samples := range s.byDate {
		sort.Slice(samples, func(i, j int) bool { return samples[i].at.Before(samples[j].at) })
	}
	return s, nil
}

// LoadFeedFile parses a feed from disk.
func LoadFeedFile(path string) (*Series, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open feed: %w", err)
	}
	defer f.Close()
	return ParseFeed(f)
}

// Days is the number of distinct trading dates, i.e. the number of game
// days the feed covers.
func (s *Series) Days() int {
	return len(s.dates)
}

func (s *Series) dateFor(day int) (string, error) {
	if day <= 0 || day > len(s.dates) {
		return "", fmt.Errorf("%w: day %d of %d", ErrDayOutOfRange, day, len(s.dates))
	}
	return s.dates[day-1], nil
}

// DateForDay returns the calendar date backing a 1-based game day.
func (s *Series) DateForDay(day int) (string, error) {
	return s.dateFor(day)
}

// OpensForDay returns every open-price sample recorded on the game day's
// trading date, in timestamp order. Multiple samples per date are kept,
// never averaged.
func (s *Series) OpensForDay(day int) ([]float64, error) {
	date, err := s.dateFor(day)
	if err != nil {
		return nil, err
	}
	samples := s.byDate[date]
	out := make([]float64, len(samples))
	for i, sm := range samples {
		out[i] = sm.open
	}
	return out, nil
}

// PriceForDay is the session price for a game day: the chronologically
// earliest open recorded on that day's trading date.
func (s *Series) PriceForDay(day int) (float64, error) {
	date, err := s.dateFor(day)
	if err != nil {
		return 0, err
	}
	return s.byDate[date][0].open, nil
}
