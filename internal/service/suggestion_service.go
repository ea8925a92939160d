package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/aarushkx/speak-free/internal/suggest"
)

// SuggestionService proxies the fixed prompt to a text generator.
type SuggestionService struct {
	generator suggest.Generator
	logger    *zap.Logger
}

// NewSuggestionService builds the service.
func NewSuggestionService(generator suggest.Generator, logger *zap.Logger) *SuggestionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SuggestionService{generator: generator, logger: logger}
}

// Suggest returns the generated suggestions. Upstream failures are not retried.
func (s *SuggestionService) Suggest(ctx context.Context) ([]string, error) {
	text, err := s.generator.Generate(ctx, suggest.Prompt)
	if err != nil {
		s.logger.Warn("suggestion generation failed", zap.Error(err))
		return nil, ErrSuggestionGenerationFailed.Wrap(err)
	}
	suggestions := suggest.Split(text)
	if len(suggestions) == 0 {
		s.logger.Warn("suggestion generation returned no items", zap.String("raw", text))
		return nil, ErrSuggestionGenerationFailed
	}
	return suggestions, nil
}
