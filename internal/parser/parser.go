// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package parser turns one in-memory batch document into a lazy sequence of
// article records. Each source format implements ArticleParser; a Registry
// maps format tags to implementations so callers can pick one by name.
package parser

import (
	"errors"
	"fmt"
	"iter"
	"sort"

	"github.com/rs/zerolog"

	"github.com/pdiddy/pubmed-corpus/pkg/types"
)

var (
	// ErrMalformedDocument wraps any failure to parse the batch document.
	ErrMalformedDocument = errors.New("malformed document")

	// ErrMissingJournalTitle is reported for an accepted entry with no journal title.
	ErrMissingJournalTitle = errors.New("missing journal title")

	// ErrMissingYear is reported for an accepted entry with neither a
	// publication year nor a medline date.
	ErrMissingYear = errors.New("missing publication year")

	// ErrUnknownSource is returned by Registry.Lookup for unregistered formats.
	ErrUnknownSource = errors.New("unknown source format")

	// ErrDuplicateSource is returned when two parsers share a source name.
	ErrDuplicateSource = errors.New("duplicate source format")
)

// ArticleParser extracts records from one batch document of a single
// source format.
//
// Parse returns a finite, forward-only sequence. A malformed document
// yields a single error wrapping ErrMalformedDocument and nothing else. A
// data-integrity problem on one entry yields an *EntryError and iteration
// continues with the next entry. Discarded entries yield nothing. Breaking
// out of the loop early is safe.
type ArticleParser interface {
	SourceName() string
	Parse(data []byte) iter.Seq2[types.ArticleRecord, error]
}

// EntryError ties a data-integrity failure to the entry it came from.
type EntryError struct {
	PMID string
	Err  error
}

func (e *EntryError) Error() string {
	return fmt.Sprintf("entry %s: %v", e.PMID, e.Err)
}

func (e *EntryError) Unwrap() error { return e.Err }

// Registry maps source format tags to parsers. Register everything before
// sharing the registry across goroutines; lookups do not lock.
type Registry struct {
	parsers map[string]ArticleParser
}

// NewRegistry returns a registry holding the given parsers.
func NewRegistry(parsers ...ArticleParser) (*Registry, error) {
	r := &Registry{parsers: make(map[string]ArticleParser, len(parsers))}
	for _, p := range parsers {
		if err := r.Register(p); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// DefaultRegistry returns a registry with every built-in parser.
func DefaultRegistry(logger zerolog.Logger) *Registry {
	return &Registry{parsers: map[string]ArticleParser{
		pubmedSource: NewPubMedParser(logger),
	}}
}

// Register adds p under its SourceName.
func (r *Registry) Register(p ArticleParser) error {
	name := p.SourceName()
	if _, ok := r.parsers[name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateSource, name)
	}
	r.parsers[name] = p
	return nil
}

// Lookup returns the parser registered for name.
func (r *Registry) Lookup(name string) (ArticleParser, error) {
	p, ok := r.parsers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSource, name)
	}
	return p, nil
}

// Names returns the registered source names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.parsers))
	for name := range r.parsers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
