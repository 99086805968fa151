package portfolio

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/wonny/pdie/internal/contracts"
	"github.com/wonny/pdie/internal/metrics"
	"github.com/wonny/pdie/pkg/logger"
)

// Service holds the current dataset and its latest report for the adapters
// Refresh swaps both atomically; readers never see a half-built state.
type Service struct {
	analyzer *Analyzer
	source   contracts.SignalSource
	logger   *logger.Logger

	mu          sync.RWMutex
	dataset     *Dataset
	report      *Report
	refreshedAt time.Time
}

// NewService creates a service over a signal source
func NewService(analyzer *Analyzer, source contracts.SignalSource, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		analyzer: analyzer,
		source:   source,
		logger:   log.WithComponent("portfolio"),
	}
}

// Analyzer returns the analyzer
func (s *Service) Analyzer() *Analyzer {
	return s.analyzer
}

// Refresh loads the source, validates it and recomputes the report
// The returned dataset is the one the report was computed from. On failure
// the previous dataset and report stay in place.
func (s *Service) Refresh(ctx context.Context) (*Dataset, *Report, error) {
	records, err := s.source.Load(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("load %s feed: %w", s.source.Name(), err)
	}

	ds, err := NewDataset(records)
	if err != nil {
		var inputErr *contracts.InputError
		if errors.As(err, &inputErr) {
			metrics.InputRejected.WithLabelValues(inputErr.Field).Inc()
		}
		s.logger.WithError(err).WithField("source", s.source.Name()).Error("signal dataset rejected")
		return nil, nil, err
	}

	report, err := s.analyzer.Analyze(ctx, ds)
	if err != nil {
		return nil, nil, err
	}

	s.mu.Lock()
	s.dataset = ds
	s.report = report
	s.refreshedAt = time.Now()
	s.mu.Unlock()

	s.logger.WithFields(map[string]interface{}{
		"source":      s.source.Name(),
		"records":     ds.Len(),
		"customers":   len(ds.Customers()),
		"fingerprint": ds.Fingerprint()[:12],
	}).Info("portfolio refreshed")
	return ds, report, nil
}

// Current returns the dataset and report, refreshing once if none is loaded yet
func (s *Service) Current(ctx context.Context) (*Dataset, *Report, error) {
	s.mu.RLock()
	ds, report := s.dataset, s.report
	s.mu.RUnlock()
	if ds != nil {
		return ds, report, nil
	}

	s.logger.Debugf("no report loaded yet, refreshing from %s feed", s.source.Name())
	return s.Refresh(ctx)
}

// RefreshedAt returns the time of the last successful refresh
func (s *Service) RefreshedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refreshedAt
}
