// Package ingest orchestrates the parse -> classify -> merge -> persist
// pipeline for every kind of pasted tracking text.
package ingest

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dfelipe-rojas/guias-tracker/constants"
	"github.com/dfelipe-rojas/guias-tracker/internal/common"
	"github.com/dfelipe-rojas/guias-tracker/internal/entity"
	"github.com/dfelipe-rojas/guias-tracker/internal/parser"
	"github.com/dfelipe-rojas/guias-tracker/internal/repository"
	"github.com/dfelipe-rojas/guias-tracker/internal/risk"
)

// Service ties the parsers, the risk classifier and the store together. It
// holds no parse state of its own: the store owns the working set and the
// phone registry lives on the stored shipments.
type Service struct {
	repo       repository.ShipmentRepository
	classifier *risk.Classifier
	logger     *slog.Logger
	now        func() time.Time
}

func NewService(repo repository.ShipmentRepository, classifier *risk.Classifier, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:       repo,
		classifier: classifier,
		logger:     logger,
		now:        time.Now,
	}
}

// DetailedOptions tune a detailed-paste ingestion.
type DetailedOptions struct {
	// ForcedCarrier overrides carrier detection for the whole paste.
	ForcedCarrier constants.Carrier
	// EventsOldestFirst flips the default newest-first event assumption.
	EventsOldestFirst bool
}

// IngestDetailed parses one detailed paste, annotates risk, and replaces any
// existing records sharing a guide with the new batch.
func (s *Service) IngestDetailed(ctx context.Context, text string, opts DetailedOptions) (*entity.Batch, error) {
	if strings.TrimSpace(text) == "" {
		return nil, common.NewAppError("EMPTY_PASTE", "no text to ingest", common.ErrInvalidInput)
	}

	registry, err := s.storedPhones(ctx)
	if err != nil {
		return nil, err
	}

	p := parser.NewDetailedParser()
	p.Registry = registry
	p.ForcedCarrier = opts.ForcedCarrier
	p.EventsNewestFirst = !opts.EventsOldestFirst

	now := s.now()
	shipments := p.Parse(text, now)
	s.logger.Info("detailed paste parsed", "shipments", len(shipments))
	return s.finishBatch(ctx, shipments, now)
}

// IngestSummary parses one summary paste. Guides already held as DETAILED
// records are excluded up front: summary rows never shadow a richer record.
func (s *Service) IngestSummary(ctx context.Context, text string) (*entity.Batch, error) {
	if strings.TrimSpace(text) == "" {
		return nil, common.NewAppError("EMPTY_PASTE", "no text to ingest", common.ErrInvalidInput)
	}

	existing, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	exclude := make(map[string]struct{})
	registry := make(map[string]string)
	for _, sh := range existing {
		if sh.Source == constants.SourceDetailed {
			exclude[sh.ID] = struct{}{}
		}
		if sh.Phone != "" {
			registry[sh.ID] = sh.Phone
		}
	}

	p := parser.NewSummaryParser()
	p.Registry = registry

	now := s.now()
	shipments := p.Parse(text, exclude, now)
	s.logger.Info("summary paste parsed", "shipments", len(shipments), "excluded_guides", len(exclude))
	return s.finishBatch(ctx, shipments, now)
}

// MergePhones parses a two-column registry paste and applies it to the
// working set. Only phone fields change; matches are persisted one by one.
func (s *Service) MergePhones(ctx context.Context, text string) (matched, total int, err error) {
	if strings.TrimSpace(text) == "" {
		return 0, 0, common.NewAppError("EMPTY_PASTE", "no text to ingest", common.ErrInvalidInput)
	}

	registry := parser.ParsePhoneRegistry(text)
	if len(registry) == 0 {
		return 0, 0, nil
	}

	shipments, err := s.repo.ListAll(ctx)
	if err != nil {
		return 0, 0, err
	}

	matched = parser.MergePhones(registry, shipments)
	for _, sh := range shipments {
		if sh.Phone == "" {
			continue
		}
		if err := s.repo.UpdatePhone(ctx, sh.ID, sh.Phone); err != nil {
			return matched, len(registry), err
		}
	}
	s.logger.Info("phone registry merged", "matched", matched, "entries", len(registry))
	return matched, len(registry), nil
}

// Shipments returns the working set with risk freshly recomputed. Stored
// risk is never trusted: it is time-dependent.
func (s *Service) Shipments(ctx context.Context) ([]*entity.Shipment, error) {
	shipments, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	s.classifier.Annotate(shipments, s.now())
	return shipments, nil
}

// Shipment returns one record by guide, risk recomputed.
func (s *Service) Shipment(ctx context.Context, id string) (*entity.Shipment, error) {
	sh, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	ra := s.classifier.Classify(sh, s.now())
	sh.RiskAnalysis = &ra
	return sh, nil
}

func (s *Service) finishBatch(ctx context.Context, shipments []*entity.Shipment, now time.Time) (*entity.Batch, error) {
	batch := &entity.Batch{
		ID:        uuid.New(),
		Date:      now,
		Shipments: shipments,
	}
	for _, sh := range shipments {
		sh.BatchID = batch.ID
		sh.BatchDate = batch.Date
	}
	s.classifier.Annotate(shipments, now)

	if err := s.repo.SaveBatch(ctx, shipments); err != nil {
		return nil, err
	}
	return batch, nil
}

// storedPhones rebuilds the guide -> phone registry from the working set so
// previously merged numbers survive a re-parse of the same guides.
func (s *Service) storedPhones(ctx context.Context) (map[string]string, error) {
	existing, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	registry := make(map[string]string)
	for _, sh := range existing {
		if sh.Phone != "" {
			registry[sh.ID] = sh.Phone
		}
	}
	return registry, nil
}
