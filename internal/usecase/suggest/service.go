package suggest

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/kailas-cloud/sitesearch/internal/domain"
)

// MinQueryLength is the shortest trimmed text that gets suggestions.
const MinQueryLength = 3

// Suggester returns typeahead completions for a text prefix.
type Suggester interface {
	Suggest(ctx context.Context, text string) ([]string, error)
}

// Service returns typeahead suggestions.
type Service struct {
	backend Suggester
}

// New creates a suggest service.
func New(backend Suggester) *Service {
	return &Service{backend: backend}
}

// Suggest returns completions for text. Short input yields an empty list
// without a backend call.
func (s *Service) Suggest(ctx context.Context, text string) ([]string, error) {
	text = strings.TrimSpace(text)
	if utf8.RuneCountInString(text) < MinQueryLength {
		return []string{}, nil
	}
	out, err := s.backend.Suggest(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("%w: suggest: %w", domain.ErrBackendIntegrity, err)
	}
	if out == nil {
		out = []string{}
	}
	return out, nil
}
