// Package output persists a finished crawl run as JSON, CSV or Postgres rows.
package output

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/kitbuilder587/topic-osint/internal/domain"
	"github.com/kitbuilder587/topic-osint/internal/repository"
)

var ErrNoRepository = errors.New("postgres output requires a run repository")

type Writer interface {
	Write(ctx context.Context, run *domain.CrawlRun) error
}

// IsDatabaseURL reports whether path names a Postgres sink rather than a file.
func IsDatabaseURL(path string) bool {
	lower := strings.ToLower(strings.TrimSpace(path))
	return strings.HasPrefix(lower, "postgres://") || strings.HasPrefix(lower, "postgresql://")
}

// ForPath picks the writer by destination: database URL, .csv file, or JSON otherwise.
func ForPath(path string, repo repository.RunRepository) (Writer, error) {
	switch {
	case IsDatabaseURL(path):
		if repo == nil {
			return nil, ErrNoRepository
		}
		return NewPostgresWriter(repo), nil
	case strings.EqualFold(filepath.Ext(path), ".csv"):
		return &CSVWriter{Path: path}, nil
	default:
		return &JSONWriter{Path: path}, nil
	}
}

type JSONWriter struct {
	Path string
}

func (w *JSONWriter) Write(ctx context.Context, run *domain.CrawlRun) error {
	if len(run.Records) == 0 {
		return domain.ErrNoRecords
	}
	return writeFile(w.Path, func(out io.Writer) error {
		return EncodeJSON(out, run.Records)
	})
}

// EncodeJSON writes records as an indented array with Unicode left unescaped.
func EncodeJSON(out io.Writer, records []domain.ResultRecord) error {
	enc := json.NewEncoder(out)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

type CSVWriter struct {
	Path string
}

func (w *CSVWriter) Write(ctx context.Context, run *domain.CrawlRun) error {
	if len(run.Records) == 0 {
		return domain.ErrNoRecords
	}
	return writeFile(w.Path, func(out io.Writer) error {
		return EncodeCSV(out, run.Records)
	})
}

func EncodeCSV(out io.Writer, records []domain.ResultRecord) error {
	cw := csv.NewWriter(out)
	if err := cw.Write(domain.CSVHeader()); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, rec := range records {
		if err := cw.Write(rec.CSVRow()); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

type PostgresWriter struct {
	repo repository.RunRepository
}

func NewPostgresWriter(repo repository.RunRepository) *PostgresWriter {
	return &PostgresWriter{repo: repo}
}

func (w *PostgresWriter) Write(ctx context.Context, run *domain.CrawlRun) error {
	if len(run.Records) == 0 {
		return domain.ErrNoRecords
	}
	if err := w.repo.EnsureSchema(ctx); err != nil {
		return err
	}
	if err := w.repo.SaveRun(ctx, run); err != nil {
		return fmt.Errorf("save run %s: %w", run.ID, err)
	}
	return nil
}

// writeFile пишет во временный файл рядом и переименовывает, чтобы не оставлять полузаписанный результат.
func writeFile(path string, encode func(io.Writer) error) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := encode(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("chmod output: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename output: %w", err)
	}
	return nil
}
