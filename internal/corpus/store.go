// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package corpus persists extracted article records in a SQLite database
// with a full-text index over titles and abstracts, and exports them.
package corpus

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/pubmed-corpus/pkg/types"
)

const (
	indexDir = "index"
	dbFile   = "corpus.db"

	defaultMaxResults = 20
)

// Store manages the corpus SQLite database.
type Store struct {
	db         *sql.DB
	corpusDir  string
	maxResults int
}

// NewStore opens or creates the corpus database at corpusDir/index/corpus.db
// and creates the schema if it does not exist.
func NewStore(cfg types.CorpusConfig) (*Store, error) {
	dbDir := filepath.Join(cfg.CorpusDir, indexDir)
	if err := os.MkdirAll(dbDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	dbPath := filepath.Join(dbDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	s := &Store{
		db:         db,
		corpusDir:  cfg.CorpusDir,
		maxResults: maxResults,
	}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS articles (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			pmid TEXT NOT NULL,
			title TEXT,
			abstract TEXT,
			abstract_texts TEXT,
			journal_title TEXT,
			date TEXT,
			date_completed TEXT,
			date_revised TEXT,
			date_article TEXT,
			authors TEXT,
			collective_name TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_articles_journal ON articles(journal_title)`,
		`CREATE INDEX IF NOT EXISTS idx_articles_date ON articles(date)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	var ftsExists int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='articles_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}

	if ftsExists == 0 {
		ftsStatements := []string{
			`CREATE VIRTUAL TABLE articles_fts USING fts5(title, abstract, content=articles, content_rowid=rowid)`,
			`CREATE TRIGGER articles_ai AFTER INSERT ON articles BEGIN
				INSERT INTO articles_fts(rowid, title, abstract) VALUES (new.rowid, new.title, new.abstract);
			END`,
			`CREATE TRIGGER articles_ad AFTER DELETE ON articles BEGIN
				INSERT INTO articles_fts(articles_fts, rowid, title, abstract) VALUES('delete', old.rowid, old.title, old.abstract);
			END`,
			`CREATE TRIGGER articles_au AFTER UPDATE ON articles BEGIN
				INSERT INTO articles_fts(articles_fts, rowid, title, abstract) VALUES('delete', old.rowid, old.title, old.abstract);
				INSERT INTO articles_fts(rowid, title, abstract) VALUES (new.rowid, new.title, new.abstract);
			END`,
		}
		for _, stmt := range ftsStatements {
			if _, err := s.db.Exec(stmt); err != nil {
				return fmt.Errorf("creating FTS infrastructure: %w", err)
			}
		}
	}

	return nil
}

// Write upserts records in a single transaction. A record whose ID is
// already stored replaces the stored row.
func (s *Store) Write(ctx context.Context, records []types.ArticleRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO articles (id, pmid, title, abstract, abstract_texts, journal_title, date,
			date_completed, date_revised, date_article, authors, collective_name)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			pmid=excluded.pmid, title=excluded.title, abstract=excluded.abstract,
			abstract_texts=excluded.abstract_texts, journal_title=excluded.journal_title,
			date=excluded.date, date_completed=excluded.date_completed,
			date_revised=excluded.date_revised, date_article=excluded.date_article,
			authors=excluded.authors, collective_name=excluded.collective_name`)
	if err != nil {
		return fmt.Errorf("preparing upsert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		segmentsJSON, err := json.Marshal(rec.AbstractTexts)
		if err != nil {
			return fmt.Errorf("encoding abstract of %s: %w", rec.ID, err)
		}
		authorsJSON, err := json.Marshal(rec.Authors)
		if err != nil {
			return fmt.Errorf("encoding authors of %s: %w", rec.ID, err)
		}

		_, err = stmt.ExecContext(ctx,
			rec.ID, rec.PMID, rec.Title, abstractText(rec.AbstractTexts), string(segmentsJSON),
			rec.JournalTitle, rec.Date,
			dateValue(rec.DateCompleted), dateValue(rec.DateRevised), dateValue(rec.DateArticle),
			string(authorsJSON), rec.CollectiveName,
		)
		if err != nil {
			return fmt.Errorf("upserting %s: %w", rec.ID, err)
		}
	}

	return tx.Commit()
}

// Count returns the number of stored articles.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM articles`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting articles: %w", err)
	}
	return n, nil
}

// abstractText joins segment texts into the indexed abstract column.
func abstractText(segments []types.AbstractSegment) string {
	texts := make([]string, len(segments))
	for i, seg := range segments {
		texts[i] = seg.Text
	}
	return strings.Join(texts, "\n")
}

func dateValue(d *types.Date) any {
	if d == nil {
		return nil
	}
	return d.String()
}
