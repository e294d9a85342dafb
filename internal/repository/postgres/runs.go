package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/kitbuilder587/topic-osint/internal/domain"
	"github.com/kitbuilder587/topic-osint/internal/repository"
)

const schema = `
CREATE TABLE IF NOT EXISTS crawl_runs (
    id           UUID PRIMARY KEY,
    topic        TEXT NOT NULL,
    year_filter  TEXT NOT NULL,
    country      TEXT NOT NULL,
    max_results  INTEGER NOT NULL,
    started_at   TIMESTAMPTZ NOT NULL,
    finished_at  TIMESTAMPTZ NOT NULL,
    record_count INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS crawl_records (
    run_id       UUID NOT NULL REFERENCES crawl_runs(id) ON DELETE CASCADE,
    position     INTEGER NOT NULL,
    title        TEXT NOT NULL,
    url          TEXT NOT NULL,
    source       TEXT NOT NULL,
    score        DOUBLE PRECISION NOT NULL,
    pub_date     TEXT,
    years_found  INTEGER[] NOT NULL DEFAULT '{}',
    country_hits TEXT[] NOT NULL DEFAULT '{}',
    snippet      TEXT NOT NULL DEFAULT '',
    PRIMARY KEY (run_id, position)
);
CREATE INDEX IF NOT EXISTS crawl_records_source_idx ON crawl_records (source);
`

type RunRepo struct {
	db *DB
}

var _ repository.RunRepository = (*RunRepo)(nil)

func NewRunRepo(db *DB) *RunRepo {
	return &RunRepo{db: db}
}

func (r *RunRepo) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// SaveRun пишет прогон и все записи в одной транзакции.
func (r *RunRepo) SaveRun(ctx context.Context, run *domain.CrawlRun) error {
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
        INSERT INTO crawl_runs (id, topic, year_filter, country, max_results, started_at, finished_at, record_count)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
    `,
		run.ID,
		run.Query.Topic,
		run.Query.Year,
		run.Query.Country,
		run.Query.MaxResults,
		run.StartedAt,
		run.FinishedAt,
		len(run.Records),
	)
	if err != nil {
		if isDuplicateError(err) {
			return repository.ErrDuplicateRun
		}
		return fmt.Errorf("insert run: %w", err)
	}

	if err := insertRecords(ctx, tx, run.ID, run.Records); err != nil {
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}

func (r *RunRepo) ListRecords(ctx context.Context, runID string) ([]domain.ResultRecord, error) {
	var exists bool
	err := r.db.Pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM crawl_runs WHERE id = $1)`, runID).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("check run: %w", err)
	}
	if !exists {
		return nil, repository.ErrRunNotFound
	}

	rows, err := r.db.Pool.Query(ctx, `
        SELECT title, url, source, score, pub_date, years_found, country_hits, snippet
        FROM crawl_records
        WHERE run_id = $1
        ORDER BY position
    `, runID)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

func insertRecords(ctx context.Context, tx pgx.Tx, runID string, records []domain.ResultRecord) error {
	if len(records) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for i, rec := range records {
		batch.Queue(`
            INSERT INTO crawl_records (run_id, position, title, url, source, score, pub_date, years_found, country_hits, snippet)
            VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
        `,
			runID,
			i,
			rec.Title,
			rec.URL,
			rec.Source,
			rec.Score,
			nullString(rec.PubDate),
			toInt32s(rec.YearsFound),
			nonNil(rec.CountryHits),
			rec.Snippet,
		)
	}

	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("insert records: %w", err)
	}
	return nil
}

func scanRecords(rows pgx.Rows) ([]domain.ResultRecord, error) {
	records := []domain.ResultRecord{}
	for rows.Next() {
		var rec domain.ResultRecord
		var pubDate *string
		var years []int32
		err := rows.Scan(
			&rec.Title,
			&rec.URL,
			&rec.Source,
			&rec.Score,
			&pubDate,
			&years,
			&rec.CountryHits,
			&rec.Snippet,
		)
		if err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		if pubDate != nil {
			rec.PubDate = *pubDate
		}
		rec.YearsFound = make([]int, len(years))
		for i, y := range years {
			rec.YearsFound[i] = int(y)
		}
		if rec.CountryHits == nil {
			rec.CountryHits = []string{}
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return records, nil
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func toInt32s(v []int) []int32 {
	out := make([]int32, len(v))
	for i, x := range v {
		out[i] = int32(x)
	}
	return out
}

func nonNil(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}

func isDuplicateError(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
