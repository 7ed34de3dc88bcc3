package timex

import (
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"

	"cloud.google.com/go/civil"
)

const (
	// StampLayout is the date-and-time part of a display stamp,
	// e.g. "05 Mar 2024 - 09:41 PM".
	StampLayout = "02 Jan 2006 - 03:04 PM"

	// DefaultZone is the board's display timezone.
	DefaultZone = "America/Los_Angeles"
	// DefaultZoneLabel is appended to every stamp regardless of DST.
	DefaultZoneLabel = "PST"

	stampDateLayout = "2 Jan 2006"
	stampSeparator  = " - "
)

// Formatter renders instants as display stamps in a fixed timezone.
type Formatter struct {
	loc   *time.Location
	label string
}

// NewFormatter loads zone and returns a Formatter that suffixes every stamp
// with label. An empty label omits the suffix.
func NewFormatter(zone, label string) (*Formatter, error) {
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return nil, fmt.Errorf("load display timezone %q: %w", zone, err)
	}
	return &Formatter{loc: loc, label: label}, nil
}

// Format converts t to the display timezone and renders it.
func (f *Formatter) Format(t time.Time) string {
	s := t.In(f.loc).Format(StampLayout)
	if f.label == "" {
		return s
	}
	return s + " " + f.label
}

// Today is the calendar date of t in the display timezone.
func (f *Formatter) Today(t time.Time) civil.Date {
	return civil.DateOf(t.In(f.loc))
}

// Location returns the display timezone.
func (f *Formatter) Location() *time.Location {
	return f.loc
}

// DateOf derives the calendar date from the date portion of a display stamp
// (everything before " - "). ok is false when the stamp cannot be parsed;
// such stamps match no date.
func DateOf(stamp string) (civil.Date, bool) {
	datePart, _, _ := strings.Cut(strings.TrimSpace(stamp), stampSeparator)
	t, err := time.Parse(stampDateLayout, strings.TrimSpace(datePart))
	if err != nil {
		return civil.Date{}, false
	}
	return civil.DateOf(t), true
}
