// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package parser

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pdiddy/pubmed-corpus/pkg/types"
)

// yearLen is the width of the year prefix taken from a MedlineDate such as
// "1998 Dec-1999 Jan". The prefix is assumed, not guaranteed, to be a year.
const yearLen = 4

// publicationYear returns PubDate/Year, falling back to the first four
// characters of PubDate/MedlineDate.
func publicationYear(journal *journalElement) (string, error) {
	var pub *pubDateElement
	if journal != nil && journal.JournalIssue != nil {
		pub = journal.JournalIssue.PubDate
	}
	if pub == nil {
		return "", ErrMissingYear
	}

	if year := strings.TrimSpace(pub.Year.value()); year != "" {
		return year, nil
	}

	medline := []rune(strings.TrimSpace(pub.MedlineDate.value()))
	if len(medline) == 0 {
		return "", ErrMissingYear
	}
	if len(medline) > yearLen {
		medline = medline[:yearLen]
	}
	return string(medline), nil
}

func journalTitle(journal *journalElement) (string, error) {
	if journal == nil {
		return "", ErrMissingJournalTitle
	}
	title := strings.TrimSpace(journal.Title.value())
	if title == "" {
		return "", ErrMissingJournalTitle
	}
	return title, nil
}

// extractAuthors returns the populated authors in list order and the last
// collective name seen. Authors with no name field are skipped.
func extractAuthors(list *authorList) ([]types.Author, string) {
	if list == nil {
		return nil, ""
	}

	var (
		authors    []types.Author
		collective string
	)
	for _, el := range list.Authors {
		if name := strings.TrimSpace(el.CollectiveName.value()); name != "" {
			collective = name
		}

		a := types.Author{
			FirstName: strings.TrimSpace(el.ForeName.value()),
			LastName:  strings.TrimSpace(el.LastName.value()),
			Initials:  strings.TrimSpace(el.Initials.value()),
			Suffix:    strings.TrimSpace(el.Suffix.value()),
		}
		if !a.IsEmpty() {
			authors = append(authors, a)
		}
	}
	return authors, collective
}

// extractDate combines Year/Month/Day into a calendar date. A missing
// container, a missing part or an unparseable part all mean "no date".
func extractDate(el *dateElement) *types.Date {
	if el == nil || el.Year == nil || el.Month == nil || el.Day == nil {
		return nil
	}

	year, err := strconv.Atoi(strings.TrimSpace(el.Year.Text))
	if err != nil {
		return nil
	}
	month, err := parseMonth(strings.TrimSpace(el.Month.Text))
	if err != nil {
		return nil
	}
	day, err := strconv.Atoi(strings.TrimSpace(el.Day.Text))
	if err != nil {
		return nil
	}

	d, err := types.NewDate(year, month, day)
	if err != nil {
		return nil
	}
	return &d
}

// parseMonth accepts "1".."12" (optionally zero-padded) or an English
// three-letter abbreviation such as "Jan".
func parseMonth(s string) (time.Month, error) {
	if n, err := strconv.Atoi(s); err == nil {
		if n < 1 || n > 12 {
			return 0, fmt.Errorf("month %d out of range", n)
		}
		return time.Month(n), nil
	}
	t, err := time.Parse("Jan", s)
	if err != nil {
		return 0, fmt.Errorf("parsing month %q: %w", s, err)
	}
	return t.Month(), nil
}
