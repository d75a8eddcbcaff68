// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package corpus

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pdiddy/pubmed-corpus/pkg/types"
)

// QueryOptions holds parameters for corpus queries.
type QueryOptions struct {
	// Query is an FTS5 match expression over title and abstract.
	Query string

	// Journal filters by exact journal title.
	Journal string

	// Year filters by publication year.
	Year string

	// MaxResults limits result count. Zero uses the store default.
	MaxResults int
}

// IsEmpty reports whether the query has no search terms or filters.
func (q QueryOptions) IsEmpty() bool {
	return q.Query == "" && q.Journal == "" && q.Year == ""
}

// QueryResult is a stored record with its full-text rank (0 without a query).
type QueryResult struct {
	types.ArticleRecord `yaml:",inline"`
	Rank                float64 `json:"rank" yaml:"rank"`
}

// Retrieve queries the corpus. Full-text queries are ordered by relevance;
// filter-only queries by ID.
func (s *Store) Retrieve(ctx context.Context, opts QueryOptions) ([]QueryResult, error) {
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = s.maxResults
	}

	var (
		qb     strings.Builder
		args   []any
		useFTS = opts.Query != ""
	)

	const columns = `a.id, a.pmid, a.title, a.abstract_texts, a.journal_title, a.date,
		a.date_completed, a.date_revised, a.date_article, a.authors, a.collective_name`

	if useFTS {
		qb.WriteString(`SELECT ` + columns + `, articles_fts.rank
			FROM articles_fts
			JOIN articles a ON a.rowid = articles_fts.rowid
			WHERE articles_fts MATCH ?`)
		args = append(args, opts.Query)
	} else {
		qb.WriteString(`SELECT ` + columns + `, 0 AS rank
			FROM articles a
			WHERE 1=1`)
	}

	if opts.Journal != "" {
		qb.WriteString(` AND a.journal_title = ?`)
		args = append(args, opts.Journal)
	}
	if opts.Year != "" {
		qb.WriteString(` AND a.date = ?`)
		args = append(args, opts.Year)
	}

	if useFTS {
		qb.WriteString(` ORDER BY articles_fts.rank`)
	} else {
		qb.WriteString(` ORDER BY a.id`)
	}
	qb.WriteString(` LIMIT ?`)
	args = append(args, maxResults)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying corpus: %w", err)
	}
	defer rows.Close()

	var results []QueryResult
	for rows.Next() {
		r, err := scanResult(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading rows: %w", err)
	}
	return results, nil
}

func scanResult(rows *sql.Rows) (QueryResult, error) {
	var (
		r                                         QueryResult
		title, segmentsJSON, authorsJSON, collect sql.NullString
		completed, revised, article               sql.NullString
	)
	err := rows.Scan(
		&r.ID, &r.PMID, &title, &segmentsJSON, &r.JournalTitle, &r.Date,
		&completed, &revised, &article, &authorsJSON, &collect, &r.Rank,
	)
	if err != nil {
		return QueryResult{}, fmt.Errorf("scanning row: %w", err)
	}

	r.Title = title.String
	r.CollectiveName = collect.String
	if segmentsJSON.Valid && segmentsJSON.String != "" {
		if err := json.Unmarshal([]byte(segmentsJSON.String), &r.AbstractTexts); err != nil {
			return QueryResult{}, fmt.Errorf("decoding abstract of %s: %w", r.ID, err)
		}
	}
	if authorsJSON.Valid && authorsJSON.String != "" {
		if err := json.Unmarshal([]byte(authorsJSON.String), &r.Authors); err != nil {
			return QueryResult{}, fmt.Errorf("decoding authors of %s: %w", r.ID, err)
		}
	}

	for _, d := range []struct {
		src sql.NullString
		dst **types.Date
	}{
		{completed, &r.DateCompleted},
		{revised, &r.DateRevised},
		{article, &r.DateArticle},
	} {
		if !d.src.Valid {
			continue
		}
		var date types.Date
		if err := date.UnmarshalText([]byte(d.src.String)); err != nil {
			return QueryResult{}, fmt.Errorf("decoding date of %s: %w", r.ID, err)
		}
		*d.dst = &date
	}

	return r, nil
}
