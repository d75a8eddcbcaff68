// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package parser

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"iter"
	"strings"

	"github.com/rs/zerolog"

	"github.com/pdiddy/pubmed-corpus/internal/textclean"
	"github.com/pdiddy/pubmed-corpus/pkg/types"
)

const pubmedSource = "pubmed"

// Discard reasons, logged at debug level only.
const (
	discardNoPMID   = "no pmid"
	discardReview   = "review"
	discardNoText   = "no title or abstract"
	discardReviewPh = "review phrase"
)

// PubMedParser reads PubmedArticleSet documents.
type PubMedParser struct {
	log zerolog.Logger
}

// NewPubMedParser returns a parser that logs discards to logger.
func NewPubMedParser(logger zerolog.Logger) *PubMedParser {
	return &PubMedParser{log: logger.With().Str("source", pubmedSource).Logger()}
}

// SourceName returns "pubmed".
func (p *PubMedParser) SourceName() string { return pubmedSource }

// Parse decodes the whole document before yielding anything, so a
// malformed document never produces partial output. Entries are then
// extracted one at a time as the caller pulls them.
func (p *PubMedParser) Parse(data []byte) iter.Seq2[types.ArticleRecord, error] {
	return func(yield func(types.ArticleRecord, error) bool) {
		set, err := decodeArticleSet(data)
		if err != nil {
			yield(types.ArticleRecord{}, err)
			return
		}

		for i := range set.Articles {
			rec, ok, err := p.extractRecord(&set.Articles[i])
			if err != nil {
				if !yield(types.ArticleRecord{}, err) {
					return
				}
				continue
			}
			if !ok {
				continue
			}
			if !yield(rec, nil) {
				return
			}
		}
	}
}

// decodeArticleSet parses the document root and checks that nothing but
// whitespace, comments and processing instructions follows it.
func decodeArticleSet(data []byte) (*pubmedArticleSet, error) {
	d := xml.NewDecoder(bytes.NewReader(data))

	var set pubmedArticleSet
	if err := d.Decode(&set); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("%w: no root element", ErrMalformedDocument)
		}
		return nil, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}

	for {
		tok, err := d.Token()
		if err == io.EOF {
			return &set, nil
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			return nil, fmt.Errorf("%w: element <%s> after root", ErrMalformedDocument, t.Name.Local)
		case xml.CharData:
			if len(bytes.TrimSpace(t)) > 0 {
				return nil, fmt.Errorf("%w: text after root", ErrMalformedDocument)
			}
		}
	}
}

// extractRecord applies the discard gates in order and assembles the
// record. It returns ok=false for a discarded entry and an *EntryError when
// an entry that passed the gates is missing required data.
func (p *PubMedParser) extractRecord(entry *pubmedArticle) (types.ArticleRecord, bool, error) {
	mc := entry.MedlineCitation
	if mc == nil || mc.PMID == nil || strings.TrimSpace(mc.PMID.Text) == "" {
		p.log.Debug().Str("reason", discardNoPMID).Msg("discarded entry")
		return types.ArticleRecord{}, false, nil
	}

	pmid := strings.TrimSpace(mc.PMID.Text)
	rec := types.ArticleRecord{
		ID:   types.NewRecordID(pubmedSource, pmid),
		PMID: pmid,
	}

	if isReview(mc) {
		p.discard(pmid, discardReview)
		return types.ArticleRecord{}, false, nil
	}

	art := mc.Article
	if art == nil {
		p.discard(pmid, discardNoText)
		return types.ArticleRecord{}, false, nil
	}

	if art.ArticleTitle != nil {
		rec.Title = textclean.Clean(art.ArticleTitle.Inner)
	}
	rec.AbstractTexts = abstractSegments(art.Abstract)

	if rec.Title == "" && len(rec.AbstractTexts) == 0 {
		p.discard(pmid, discardNoText)
		return types.ArticleRecord{}, false, nil
	}

	year, err := publicationYear(art.Journal)
	if err != nil {
		return types.ArticleRecord{}, false, &EntryError{PMID: pmid, Err: err}
	}
	rec.Date = year

	journal, err := journalTitle(art.Journal)
	if err != nil {
		return types.ArticleRecord{}, false, &EntryError{PMID: pmid, Err: err}
	}
	rec.JournalTitle = journal

	if isReviewByPhrase(combinedText(rec)) {
		p.discard(pmid, discardReviewPh)
		return types.ArticleRecord{}, false, nil
	}

	rec.Authors, rec.CollectiveName = extractAuthors(art.AuthorList)
	rec.DateCompleted = extractDate(mc.DateCompleted)
	rec.DateRevised = extractDate(mc.DateRevised)
	if len(art.ArticleDates) > 0 {
		rec.DateArticle = extractDate(&art.ArticleDates[0])
	}

	return rec, true, nil
}

func (p *PubMedParser) discard(pmid, reason string) {
	p.log.Debug().Str("pmid", pmid).Str("reason", reason).Msg("discarded entry")
}

// abstractSegments cleans each AbstractText independently, dropping the
// ones that end up empty.
func abstractSegments(abstract *abstractElement) []types.AbstractSegment {
	if abstract == nil {
		return nil
	}
	var segments []types.AbstractSegment
	for _, at := range abstract.AbstractTexts {
		text := textclean.Clean(at.Inner)
		if text == "" {
			continue
		}
		segments = append(segments, types.AbstractSegment{
			Text:     text,
			Category: at.NlmCategory,
		})
	}
	return segments
}

// combinedText joins the cleaned title and abstract for phrase matching.
func combinedText(rec types.ArticleRecord) string {
	parts := make([]string, 0, len(rec.AbstractTexts)+1)
	parts = append(parts, rec.Title)
	for _, seg := range rec.AbstractTexts {
		parts = append(parts, seg.Text)
	}
	return strings.TrimSpace(strings.Join(parts, "\n"))
}
