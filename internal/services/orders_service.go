package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"purchases/internal/aggregate"
	"purchases/internal/core"
	"purchases/internal/log"
	"purchases/internal/sources"
	"purchases/internal/validation"
)

// OrdersServiceConfig holds configuration for the orders service
type OrdersServiceConfig struct {
	// Mode decides whether validation violations abort the run (default: permissive)
	Mode validation.Mode

	// LoadTimeout bounds reading all sources; zero means no limit
	LoadTimeout time.Duration
}

// DefaultOrdersServiceConfig returns the permissive, 30 second configuration
func DefaultOrdersServiceConfig() OrdersServiceConfig {
	return OrdersServiceConfig{
		Mode:        validation.Permissive,
		LoadTimeout: 30 * time.Second,
	}
}

// OrdersService reads purchase records from its sources, validates them and
// builds the aggregate the reports are computed from.
type OrdersService struct {
	loaders []sources.Loader
	config  OrdersServiceConfig
	logger  *log.Logger
}

func NewOrdersService(loaders []sources.Loader, config OrdersServiceConfig, logger *log.Logger) *OrdersService {
	if config.Mode == "" {
		config.Mode = validation.Permissive
	}
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &OrdersService{
		loaders: loaders,
		config:  config,
		logger:  logger.WithComponent(log.ComponentLoader),
	}
}

// Records loads every source in order and validates the result. In strict
// mode any violation returns an error wrapping core.ErrValidation together
// with the report; in permissive mode violations are logged and the records
// are returned unchanged. Sources that hold deliveries until settled are
// told to keep them only once the records are accepted; on any failure they
// are handed back.
func (s *OrdersService) Records(ctx context.Context) ([]core.PurchaseRecord, validation.Report, error) {
	if len(s.loaders) == 0 {
		return nil, validation.Report{}, fmt.Errorf("no sources configured: %w", core.ErrInvalidArgument)
	}

	if s.config.LoadTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.LoadTimeout)
		defer cancel()
	}

	start := time.Now()
	records, err := sources.LoadAll(ctx, s.loaders...)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to load purchase records", log.NewFields().
			WithOperation(log.OpLoad).
			WithError(err).
			ToSlice()...)
		return nil, validation.Report{}, s.settle(ctx, false, err)
	}

	report := validation.Validate(records)
	s.logReport(ctx, report)

	if err := s.config.Mode.Apply(report); err != nil {
		return nil, report, s.settle(ctx, false, err)
	}
	if err := s.settle(ctx, true, nil); err != nil {
		return nil, report, err
	}

	s.logger.InfoContext(ctx, "Loaded purchase records", log.NewFields().
		WithOperation(log.OpLoad).
		WithCounts(len(records), 0, len(report.Violations)).
		WithDuration(time.Since(start)).
		ToSlice()...)
	return records, report, nil
}

// Build loads and validates the records, then aggregates them.
func (s *OrdersService) Build(ctx context.Context) (*aggregate.Aggregate, validation.Report, error) {
	records, report, err := s.Records(ctx)
	if err != nil {
		return nil, report, err
	}

	start := time.Now()
	agg := aggregate.Build(records)

	s.logger.WithComponent(log.ComponentAggregate).DebugContext(ctx, "Built purchase aggregate", log.NewFields().
		WithOperation(log.OpBuild).
		WithCounts(len(records), agg.Len(), len(report.Violations)).
		WithDuration(time.Since(start)).
		ToSlice()...)
	return agg, report, nil
}

// settle accepts or returns pending source deliveries and joins any failure
// onto cause.
func (s *OrdersService) settle(ctx context.Context, accept bool, cause error) error {
	if err := sources.SettleAll(ctx, accept, s.loaders...); err != nil {
		s.logger.ErrorContext(ctx, "Failed to settle sources", "accept", accept, log.FieldError, err)
		return errors.Join(cause, err)
	}
	return cause
}

func (s *OrdersService) logReport(ctx context.Context, report validation.Report) {
	logger := s.logger.WithComponent(log.ComponentValidation)
	for _, v := range report.Violations {
		logger.WarnContext(ctx, "Invalid purchase record",
			log.FieldOperation, log.OpValidate,
			"index", v.Index,
			"customer", v.Customer.String(),
			log.FieldMode, string(s.config.Mode),
			log.FieldError, v.Errors.String())
	}
}
