package usecase

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/user/nutrition-scraper/internal/entity"
	"github.com/user/nutrition-scraper/internal/repository"
	"github.com/user/nutrition-scraper/pkg/metrics"
)

// Synthesizer builds a purely synthetic dataset, for offline runs.
type Synthesizer struct {
	generator SyntheticGenerator
	sink      repository.RecordSink
	mirrors   []repository.RecordSink
	log       *zap.Logger
}

// NewSynthesizer creates a Synthesizer. Mirrors are optional.
func NewSynthesizer(generator SyntheticGenerator, sink repository.RecordSink, mirrors []repository.RecordSink, logger *zap.Logger) *Synthesizer {
	return &Synthesizer{generator: generator, sink: sink, mirrors: mirrors, log: logger}
}

// Run generates count records and saves them.
func (s *Synthesizer) Run(ctx context.Context, count int) ([]entity.NormalizedRecord, error) {
	if count < 0 {
		return nil, fmt.Errorf("count must not be negative, got %d", count)
	}
	s.log.Info("Generating synthetic dataset", zap.Int("count", count))
	records := s.generator.Generate(count)
	metrics.RecordsCollectedTotal.WithLabelValues("synthetic").Add(float64(len(records)))

	if err := s.sink.Save(ctx, records); err != nil {
		metrics.CheckpointsTotal.WithLabelValues("failure").Inc()
		return records, fmt.Errorf("failed to save synthetic dataset: %w", err)
	}
	metrics.CheckpointsTotal.WithLabelValues("success").Inc()

	for _, m := range s.mirrors {
		if err := m.Save(ctx, records); err != nil {
			s.log.Warn("Mirror save failed", zap.String("mirror", fmt.Sprintf("%T", m)), zap.Error(err))
		}
	}
	return records, nil
}
