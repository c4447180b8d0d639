// Package suggestion asks a generative backend for a batching
// recommendation and only returns answers that satisfy ResultSchema.
package suggestion

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chaincanvas/chaincanvas-backend/internal/gas_optimization/domain"
	"github.com/chaincanvas/chaincanvas-backend/internal/llm"
	"github.com/chaincanvas/chaincanvas-backend/internal/logging"
	"go.uber.org/zap"
)

const DefaultTimeout = 30 * time.Second

// Invoker sends a prompt to a model constrained by schema and returns its
// raw JSON answer. Implementations must be safe for concurrent use.
type Invoker interface {
	InvokeStructured(ctx context.Context, prompt string, schema llm.Schema) ([]byte, error)
}

type Engine struct {
	invoker Invoker
	backend string
	timeout time.Duration
	logger  *zap.Logger
	metrics *Metrics
}

// NewEngine wires an invoker. backend labels logs and metrics.
func NewEngine(invoker Invoker, backend string, timeout time.Duration, logger *zap.Logger, metrics *Metrics) *Engine {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		invoker: invoker,
		backend: backend,
		timeout: timeout,
		logger:  logger,
		metrics: metrics,
	}
}

type invokeResult struct {
	raw []byte
	err error
}

// Suggest renders the prompt, calls the backend once and validates the
// answer. All failures are *domain.BackendError.
func (e *Engine) Suggest(ctx context.Context, req domain.OptimizationRequest) (domain.OptimizationResult, error) {
	log := logging.FromContext(ctx, e.logger).With(zap.String("backend", e.backend))

	prompt, err := RenderPrompt(req)
	if err != nil {
		e.metrics.fail(e.backend, reasonPrompt)
		return domain.OptimizationResult{}, &domain.BackendError{Op: "render", Err: err}
	}

	callCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	start := time.Now()
	done := make(chan invokeResult, 1)
	go func() {
		raw, err := e.invoker.InvokeStructured(callCtx, prompt, ResultSchema)
		done <- invokeResult{raw: raw, err: err}
	}()

	var res invokeResult
	select {
	case res = <-done:
	case <-callCtx.Done():
		res = invokeResult{err: callCtx.Err()}
	}
	elapsed := time.Since(start)
	e.metrics.observe(e.backend, elapsed.Seconds())

	if res.err != nil {
		if errors.Is(res.err, context.DeadlineExceeded) || errors.Is(callCtx.Err(), context.DeadlineExceeded) {
			e.metrics.fail(e.backend, reasonTimeout)
			log.Warn("suggestion backend timed out", zap.Duration("elapsed", elapsed), zap.Error(res.err))
			return domain.OptimizationResult{}, &domain.BackendError{
				Op:  "invoke",
				Err: fmt.Errorf("%w after %s: %v", domain.ErrBackendTimeout, e.timeout, res.err),
			}
		}
		e.metrics.fail(e.backend, reasonTransport)
		log.Warn("suggestion backend call failed", zap.Duration("elapsed", elapsed), zap.Error(res.err))
		return domain.OptimizationResult{}, &domain.BackendError{Op: "invoke", Err: res.err}
	}

	result, err := decodeResult(res.raw)
	if err != nil {
		e.metrics.fail(e.backend, reasonSchema)
		log.Warn("suggestion backend returned nonconforming output", zap.Error(err))
		return domain.OptimizationResult{}, &domain.BackendError{Op: "decode", Err: err}
	}

	log.Debug("suggestion received",
		zap.Duration("elapsed", elapsed),
		zap.Int("transfers", len(req.PendingTransfers)),
		zap.Bool("batch_recommended", result.EstimatedGasSavings != nil),
	)
	return result, nil
}
