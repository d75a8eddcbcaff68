// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"time"
)

// ArticleRecord is one accepted bibliographic entry extracted from a batch
// document. Optional fields are left empty (and omitted on output) when the
// source has nothing for them.
type ArticleRecord struct {
	// ID is "<source>_<pmid>". It is always built with NewRecordID from
	// Source and PMID.
	ID string `json:"id" yaml:"id"`

	// PMID is the source identifier of the entry.
	PMID string `json:"pmid" yaml:"pmid"`

	// Title is the cleaned article title.
	Title string `json:"title,omitempty" yaml:"title,omitempty"`

	// AbstractTexts lists cleaned abstract sections in document order.
	AbstractTexts []AbstractSegment `json:"abstract_texts,omitempty" yaml:"abstract_texts,omitempty"`

	// JournalTitle is the full journal title.
	JournalTitle string `json:"journal_title" yaml:"journal_title"`

	// Date is the 4-character publication year.
	Date string `json:"date" yaml:"date"`

	DateCompleted *Date `json:"date_completed,omitempty" yaml:"date_completed,omitempty"`
	DateRevised   *Date `json:"date_revised,omitempty" yaml:"date_revised,omitempty"`
	DateArticle   *Date `json:"date_article,omitempty" yaml:"date_article,omitempty"`

	// Authors lists individual authors in authorship order.
	Authors []Author `json:"authors,omitempty" yaml:"authors,omitempty"`

	// CollectiveName is a group or consortium credited as an author.
	CollectiveName string `json:"collective_name,omitempty" yaml:"collective_name,omitempty"`
}

// NewRecordID derives the globally unique record ID for a source entry.
func NewRecordID(source, pmid string) string {
	return source + "_" + pmid
}

// AbstractSegment is one section of an abstract. Category holds the
// controlled-vocabulary label (e.g. "METHODS") when the source marks one.
type AbstractSegment struct {
	Text     string `json:"text" yaml:"text"`
	Category string `json:"nlm_category,omitempty" yaml:"nlm_category,omitempty"`
}

// Author is an individual author. An Author with no populated field is
// never emitted.
type Author struct {
	FirstName string `json:"first_name,omitempty" yaml:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty" yaml:"last_name,omitempty"`
	Initials  string `json:"initials,omitempty" yaml:"initials,omitempty"`
	Suffix    string `json:"suffix,omitempty" yaml:"suffix,omitempty"`
}

// IsEmpty reports whether no name field is populated.
func (a Author) IsEmpty() bool {
	return a.FirstName == "" && a.LastName == "" && a.Initials == "" && a.Suffix == ""
}

const dateLayout = "2006-01-02"

// Date is a calendar date without a time of day. It serializes as
// YYYY-MM-DD in both JSON and YAML.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// NewDate validates year/month/day and returns the calendar date.
// It rejects combinations that do not round-trip (e.g. February 30).
func NewDate(year int, month time.Month, day int) (Date, error) {
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || t.Month() != month || t.Day() != day {
		return Date{}, fmt.Errorf("invalid calendar date %04d-%02d-%02d", year, int(month), day)
	}
	return Date{Year: year, Month: month, Day: day}, nil
}

// Time returns the date as midnight UTC.
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// String formats the date as YYYY-MM-DD.
func (d Date) String() string {
	return d.Time().Format(dateLayout)
}

// MarshalText implements encoding.TextMarshaler.
func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Date) UnmarshalText(data []byte) error {
	t, err := time.Parse(dateLayout, string(data))
	if err != nil {
		return fmt.Errorf("parsing date %q: %w", string(data), err)
	}
	d.Year, d.Month, d.Day = t.Year(), t.Month(), t.Day()
	return nil
}
