// Package fileasset reads the dictionary asset from the local filesystem.
package fileasset

import (
	"context"
	"log/slog"
	"os"

	"github.com/heartmarshall/rucheng-dialect/internal/domain"
)

// Source reads a JSON dictionary file.
type Source struct {
	path string
	log  *slog.Logger
}

// NewSource creates a Source for path.
func NewSource(path string, logger *slog.Logger) *Source {
	return &Source{
		path: path,
		log:  logger.With("adapter", "fileasset"),
	}
}

// Fetch returns the file contents. A missing or unreadable file is a
// *domain.TransportError.
func (s *Source) Fetch(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.NewTransportError(s.path, err)
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		s.log.ErrorContext(ctx, "fileasset read failed", slog.String("path", s.path), slog.String("error", err.Error()))
		return nil, domain.NewTransportError(s.path, err)
	}

	s.log.DebugContext(ctx, "fileasset read", slog.String("path", s.path), slog.Int("bytes", len(data)))
	return data, nil
}
