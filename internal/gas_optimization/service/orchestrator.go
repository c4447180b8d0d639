// Package service is the boundary entry point of the gas optimizer: it runs
// raw input through validation and the suggester and always answers with
// an Envelope.
package service

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/chaincanvas/chaincanvas-backend/internal/gas_optimization/domain"
	"github.com/chaincanvas/chaincanvas-backend/internal/logging"
	"go.uber.org/zap"
)

// Validator turns raw values into a typed request.
type Validator interface {
	Validate(raw domain.RawInput) (domain.OptimizationRequest, error)
}

// Suggester produces a recommendation for a validated request.
type Suggester interface {
	Suggest(ctx context.Context, req domain.OptimizationRequest) (domain.OptimizationResult, error)
}

type Orchestrator struct {
	validator Validator
	suggester Suggester
	logger    *zap.Logger
}

func NewOrchestrator(v Validator, s Suggester, logger *zap.Logger) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{validator: v, suggester: s, logger: logger}
}

// HandlePayload decodes body according to contentType and handles it.
func (o *Orchestrator) HandlePayload(ctx context.Context, contentType string, body []byte) domain.Envelope {
	raw, err := DecodePayload(contentType, body)
	if err != nil {
		logging.FromContext(ctx, o.logger).Info("gas optimizer payload rejected",
			zap.String("content_type", contentType),
			zap.Error(err),
		)
		return malformedEnvelope()
	}
	return o.Handle(ctx, raw)
}

// Handle validates raw and asks the suggester. Backend causes are logged
// and never returned.
func (o *Orchestrator) Handle(ctx context.Context, raw domain.RawInput) domain.Envelope {
	log := logging.FromContext(ctx, o.logger)

	req, err := o.validator.Validate(raw)
	if err != nil {
		var ve *domain.ValidationError
		if errors.As(err, &ve) {
			log.Info("gas optimizer input invalid", zap.Int("issues", len(ve.Issues)))
			return domain.Envelope{
				Success: false,
				Error:   domain.MsgInvalidForm,
				Issues:  ve.Issues,
			}
		}
		log.Error("gas optimizer validation failed unexpectedly", zap.Error(err))
		return malformedEnvelope()
	}

	result, err := o.suggest(ctx, req)
	if err != nil {
		log.Error("gas optimizer suggestion failed",
			zap.String("user_address", string(req.UserAddress)),
			zap.Int("transfers", len(req.PendingTransfers)),
			zap.Bool("timeout", errors.Is(err, domain.ErrBackendTimeout)),
			zap.Error(err),
		)
		return domain.Envelope{Success: false, Error: domain.MsgBackendFailure}
	}

	log.Info("gas optimizer suggestion served",
		zap.Int("transfers", len(req.PendingTransfers)),
		zap.Bool("batch_recommended", result.EstimatedGasSavings != nil),
	)
	return domain.Envelope{Success: true, Data: &result}
}

func (o *Orchestrator) suggest(ctx context.Context, req domain.OptimizationRequest) (res domain.OptimizationResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			res = domain.OptimizationResult{}
			err = &domain.BackendError{Op: "suggest", Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	res, err = o.suggester.Suggest(ctx, req)
	if err != nil {
		return domain.OptimizationResult{}, err
	}
	if err := checkResult(res); err != nil {
		return domain.OptimizationResult{}, &domain.BackendError{Op: "suggest", Err: err}
	}
	return res, nil
}

// checkResult guards the envelope against suggesters that skip schema checks.
func checkResult(res domain.OptimizationResult) error {
	if res.Suggestion == "" {
		return fmt.Errorf("%w: empty suggestion", domain.ErrSchemaMismatch)
	}
	if s := res.EstimatedGasSavings; s != nil && (*s < 0 || math.IsNaN(*s) || math.IsInf(*s, 0)) {
		return fmt.Errorf("%w: invalid savings %v", domain.ErrSchemaMismatch, *s)
	}
	return nil
}

func malformedEnvelope() domain.Envelope {
	return domain.Envelope{
		Success: false,
		Error:   domain.MsgMalformedPayload,
		Issues: []domain.Issue{{
			FieldPath: "body",
			Message:   "Request body could not be decoded",
		}},
	}
}
