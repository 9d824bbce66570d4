package csvfile

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/user/nutrition-scraper/internal/entity"
)

type writeFunc func(path string, records []entity.NormalizedRecord) error

// FileSink implements repository.RecordSink by rewriting a CSV file on every save.
type FileSink struct {
	path     string
	logger   *zap.Logger
	primary  writeFunc
	fallback writeFunc
}

// NewFileSink creates a sink writing to path.
func NewFileSink(path string, logger *zap.Logger) *FileSink {
	return &FileSink{
		path:     path,
		logger:   logger,
		primary:  writeAtomic,
		fallback: writePlain,
	}
}

// Path returns the output file path.
func (s *FileSink) Path() string {
	return s.path
}

// Save writes the header and every record. When the buffered atomic write
// fails, a plain direct write is attempted before giving up. The context is
// ignored: an interrupted run must still be able to write what it has.
func (s *FileSink) Save(_ context.Context, records []entity.NormalizedRecord) error {
	primaryErr := s.primary(s.path, records)
	if primaryErr == nil {
		s.logger.Info("dataset saved", zap.String("path", s.path), zap.Int("records", len(records)))
		return nil
	}
	s.logger.Warn("primary CSV write failed, trying plain writer", zap.String("path", s.path), zap.Error(primaryErr))

	fallbackErr := s.fallback(s.path, records)
	if fallbackErr == nil {
		s.logger.Info("dataset saved by plain writer", zap.String("path", s.path), zap.Int("records", len(records)))
		return nil
	}
	return fmt.Errorf("failed to save %s: %w", s.path, errors.Join(primaryErr, fallbackErr))
}

// writeAtomic writes through encoding/csv into a temporary file that replaces
// path only once fully flushed.
func writeAtomic(path string, records []entity.NormalizedRecord) (err error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	buf := bufio.NewWriter(tmp)
	w := csv.NewWriter(buf)
	if err = w.Write(entity.Columns[:]); err != nil {
		return err
	}
	for _, rec := range records {
		if err = w.Write(rec[:]); err != nil {
			return err
		}
	}
	w.Flush()
	if err = w.Error(); err != nil {
		return err
	}
	if err = buf.Flush(); err != nil {
		return err
	}
	if err = tmp.Sync(); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	if err = os.Chmod(tmp.Name(), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// writePlain truncates path and writes rows one by one with hand-quoted fields.
func writePlain(path string, records []entity.NormalizedRecord) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.WriteString(formatRow(entity.Columns[:])); err != nil {
		_ = f.Close()
		return err
	}
	for _, rec := range records {
		if _, err := f.WriteString(formatRow(rec[:])); err != nil {
			_ = f.Close()
			return err
		}
	}
	return f.Close()
}

func formatRow(fields []string) string {
	var sb strings.Builder
	for i, field := range fields {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(quoteField(field))
	}
	sb.WriteByte('\n')
	return sb.String()
}

func quoteField(field string) string {
	if field == "" {
		return field
	}
	if !strings.ContainsAny(field, ",\"\r\n") && field[0] != ' ' && field[0] != '\t' {
		return field
	}
	return `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
}
