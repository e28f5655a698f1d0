package csvio

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/gocarina/gocsv"

	"trame-planner/internal/models"
)

type blockedDateRow struct {
	Date   string `csv:"date"`
	Reason string `csv:"reason"`
}

type eventRow struct {
	Name  string `csv:"name"`
	Date  string `csv:"date"`
	Start string `csv:"start"`
	End   string `csv:"end"`
}

// SetDelimiter changes the separator used by the loaders.
func SetDelimiter(delim rune) {
	gocsv.SetCSVReader(func(in io.Reader) gocsv.CSVReader {
		r := csv.NewReader(in)
		r.Comma = delim
		r.TrimLeadingSpace = true
		return r
	})
}

// LoadBlockedDates reads a "date,reason" file.
func LoadBlockedDates(in io.Reader) ([]models.BlockedDate, error) {
	var rows []*blockedDateRow
	if err := gocsv.Unmarshal(in, &rows); err != nil {
		return nil, fmt.Errorf("parse blocked dates: %w", err)
	}

	out := make([]models.BlockedDate, 0, len(rows))
	for i, row := range rows {
		d, err := time.Parse(time.DateOnly, strings.TrimSpace(row.Date))
		if err != nil {
			return nil, fmt.Errorf("blocked dates line %d: %w", i+2, err)
		}
		out = append(out, models.BlockedDate{Date: d, Reason: strings.TrimSpace(row.Reason)})
	}
	return out, nil
}

// LoadEvents reads a "name,date,start,end" file, times as HH:MM.
func LoadEvents(in io.Reader) ([]models.Event, error) {
	var rows []*eventRow
	if err := gocsv.Unmarshal(in, &rows); err != nil {
		return nil, fmt.Errorf("parse events: %w", err)
	}

	out := make([]models.Event, 0, len(rows))
	for i, row := range rows {
		line := i + 2
		d, err := time.Parse(time.DateOnly, strings.TrimSpace(row.Date))
		if err != nil {
			return nil, fmt.Errorf("events line %d: %w", line, err)
		}
		start, err := ParseClock(row.Start)
		if err != nil {
			return nil, fmt.Errorf("events line %d: start: %w", line, err)
		}
		end, err := ParseClock(row.End)
		if err != nil {
			return nil, fmt.Errorf("events line %d: end: %w", line, err)
		}
		out = append(out, models.Event{
			Name:      strings.TrimSpace(row.Name),
			Date:      d,
			StartHour: start,
			EndHour:   end,
		})
	}
	return out, nil
}

// ParseClock turns "HH:MM" into decimal hours rounded to the quarter hour.
func ParseClock(s string) (float64, error) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return 0, fmt.Errorf("invalid time %q, want HH:MM", s)
	}
	h, err := strconv.Atoi(hh)
	if err != nil || h < 0 || h > 24 {
		return 0, fmt.Errorf("invalid hour in %q", s)
	}
	m, err := strconv.Atoi(mm)
	if err != nil || m < 0 || m > 59 || (h == 24 && m != 0) {
		return 0, fmt.Errorf("invalid minutes in %q", s)
	}
	hours := float64(h) + float64(m)/60
	return models.HoursFromQuarters(models.QuarterHours(hours)), nil
}
