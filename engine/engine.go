package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/wardenlabs/warden/audit"
	"github.com/wardenlabs/warden/history"
	"github.com/wardenlabs/warden/interceptor"
	"github.com/wardenlabs/warden/log"
	"github.com/wardenlabs/warden/metrics"
	"github.com/wardenlabs/warden/policy"
	"github.com/wardenlabs/warden/types"
)

// defaultStateSize is the placeholder state-size estimate recorded in
// metrics until a serializer-backed estimator is supplied.
const defaultStateSize = 1024

// Config assembles an engine with its registries, stores, and
// collaborators. Zero-valued fields get in-memory defaults.
type Config[S any] struct {
	// Options is the engine configuration.
	Options Options
	// StateID extracts the stable entity id from a state value. When
	// nil or when it returns "", executions are not bound to an entity
	// and produce no history entries.
	StateID func(state S) string
	// StateSize estimates the state size in bytes for metrics. Nil
	// records a placeholder constant.
	StateSize func(state S) int64
	// Auditor receives one entry per execution. Nil uses an in-memory log.
	Auditor audit.Auditor
	// History stores committed mutations. Nil uses an in-memory store.
	History *history.Store
	// Metrics collects per-execution metrics. Nil uses a fresh collector.
	Metrics *metrics.Collector
	// Logger is the engine logger. Nil discards log output.
	Logger *log.Logger
}

// Engine orchestrates the end-to-end governance pipeline for single
// and batch executions over state type S.
//
// The engine is stateless between executions except for its registries
// and stores, and performs no cross-call synchronization beyond what
// the stores require: concurrent executions on the same state id are
// not serialized. Callers that need per-entity serialization supply it
// externally.
type Engine[S any] struct {
	opts         Options
	policies     *policy.Registry[S]
	interceptors *interceptor.Pipeline[S]
	executor     *Executor[S]
	auditor      audit.Auditor
	history      *history.Store
	metrics      *metrics.Collector
	logger       *log.Logger
	stateID      func(S) string
	stateSize    func(S) int64
}

// New creates an engine from the config.
func New[S any](cfg Config[S]) *Engine[S] {
	e := &Engine[S]{
		opts:         cfg.Options,
		policies:     policy.NewRegistry[S](),
		interceptors: interceptor.NewPipeline[S](),
		executor:     NewExecutor[S](),
		auditor:      cfg.Auditor,
		history:      cfg.History,
		metrics:      cfg.Metrics,
		logger:       cfg.Logger,
		stateID:      cfg.StateID,
		stateSize:    cfg.StateSize,
	}
	if e.auditor == nil {
		e.auditor = audit.NewLog()
	}
	if e.history == nil {
		e.history = history.NewStore()
	}
	if e.metrics == nil {
		e.metrics = metrics.NewCollector()
	}
	if e.logger == nil {
		e.logger = log.Nop()
	}
	return e
}

// RegisterPolicy adds a governance policy for state type S.
func (e *Engine[S]) RegisterPolicy(p policy.Policy[S]) error {
	return e.policies.Register(p)
}

// RegisterInterceptor adds a lifecycle interceptor.
func (e *Engine[S]) RegisterInterceptor(i interceptor.Interceptor[S]) error {
	return e.interceptors.Register(i)
}

// Auditor returns the engine's audit ledger.
func (e *Engine[S]) Auditor() audit.Auditor { return e.auditor }

// GetHistory returns the chronological history for the state id.
// A state id with no committed mutations yields an empty history.
func (e *Engine[S]) GetHistory(stateID string) history.History {
	return e.history.Get(stateID)
}

// HistoryStore returns the engine's history store.
func (e *Engine[S]) HistoryStore() *history.Store { return e.history }

// Metrics returns the engine's metrics collector.
func (e *Engine[S]) Metrics() *metrics.Collector { return e.metrics }

// GetStatistics summarizes all executions recorded by the engine.
func (e *Engine[S]) GetStatistics() metrics.Statistics {
	return e.metrics.GetStatistics()
}

// ExecuteSingle runs one mutation through the full pipeline:
// before hook, policy evaluation, validation, execution, after hook,
// audit, history, metrics.
//
// Validation failures and policy denials are recovered locally and
// returned as structured results with a nil error. Timeouts are raised
// as *TimeoutError, cancellation is propagated unwrapped, and any
// other exception is raised wrapped in *ExecutionError carrying the
// execution id. Every path, recovered or raised, produces exactly one
// audit entry.
func (e *Engine[S]) ExecuteSingle(ctx context.Context, mutation types.Mutation[S], state S) (*types.Result[S], error) {
	if mutation == nil {
		return nil, ErrNilMutation
	}

	executionID := uuid.New().String()
	scope := e.metrics.BeginScope(executionID)
	intent := mutation.Intent()
	mctx := mutation.Context()
	stateID := e.stateIDOf(state)
	logger := e.logger.WithExecution(executionID, stateID, mctx)

	logger.Debug("execution starting", map[string]any{
		"operation": intent.Operation,
		"category":  intent.Category,
	})

	// Before hook. Hook errors propagate; the attempt is audited.
	if err := e.interceptors.OnBefore(ctx, intent, mctx, state, executionID); err != nil {
		return nil, e.raise(ctx, logger, scope, intent, mctx, state, stateID, executionID, "before-hook", nil, err)
	}

	// Policy phase: descending priority, registration order on ties.
	policyStart := time.Now()
	eval := policy.Evaluate(e.policies, mutation, state)
	scope.SetPolicyEvaluationTime(time.Since(policyStart))
	scope.SetEvaluatedPolicies(eval.Evaluated)

	// Block path.
	if !eval.Effective.Allowed {
		result := types.NewPolicyBlocked[S](eval.Effective)
		result.PolicyDecisions = eval.Decisions
		if err := e.interceptors.OnPolicyBlocked(ctx, intent, mctx, state, eval.Effective, executionID); err != nil {
			return nil, e.raise(ctx, logger, scope, intent, mctx, state, stateID, executionID, "policy-blocked-hook", eval.Decisions, err)
		}
		logger.Info("execution blocked by policy", map[string]any{
			"policy": eval.Effective.PolicyName,
			"reason": eval.Effective.Reason,
		})
		e.record(scope, intent, mctx, state, stateID, executionID, result, "policy denied: "+eval.Effective.Reason)
		return result, nil
	}

	// Validation phase. Runs for commit mode, or in every mode under
	// the AlwaysValidate option.
	var validation types.ValidationResult
	validated := false
	if mctx.Mode == types.ModeCommit || e.opts.AlwaysValidate {
		validation = e.validate(mutation, state, scope)
		validated = true
		if !validation.IsValid() {
			result := types.NewFailure[S](validation)
			result.PolicyDecisions = eval.Decisions
			if err := e.interceptors.OnFailed(ctx, intent, mctx, state, validationError(validation), executionID); err != nil {
				return nil, e.raise(ctx, logger, scope, intent, mctx, state, stateID, executionID, "failed-hook", eval.Decisions, err)
			}
			e.record(scope, intent, mctx, state, stateID, executionID, result, validationError(validation).Error())
			return result, nil
		}
	}

	// Execution phase, branched by mode.
	var result *types.Result[S]
	switch mctx.Mode {
	case types.ModeSimulate:
		// Simulate runs inline; the executor timeout does not apply.
		r, err := mutation.Simulate(state)
		if err != nil {
			return nil, e.raise(ctx, logger, scope, intent, mctx, state, stateID, executionID, "simulate", eval.Decisions, err)
		}
		result = r

	case types.ModeValidate:
		if !validated {
			validation = e.validate(mutation, state, scope)
		}
		if validation.IsValid() {
			result = types.NewSuccess(state, types.NewChangeSet())
		} else {
			result = types.NewFailure[S](validation)
		}
		result.Validation = validation

	case types.ModeCommit:
		execCtx := &ExecutionContext{
			ExecutionID: executionID,
			StartedAt:   scope.StartedAt(),
			Timeout:     e.opts.ExecutionTimeout,
		}
		r, err := e.executor.Execute(ctx, mutation, state, execCtx)
		if err != nil {
			return nil, e.raise(ctx, logger, scope, intent, mctx, state, stateID, executionID, "apply", eval.Decisions, err)
		}
		result = r

	default:
		return nil, e.raise(ctx, logger, scope, intent, mctx, state, stateID, executionID, "mode",
			eval.Decisions, fmt.Errorf("unrecognized mode %q", mctx.Mode))
	}

	if result == nil {
		return nil, e.raise(ctx, logger, scope, intent, mctx, state, stateID, executionID, "apply",
			eval.Decisions, errors.New("mutation returned nil result"))
	}

	// Prepend the engine's policy decisions to any the mutation produced.
	result.PolicyDecisions = append(append([]types.PolicyDecision{}, eval.Decisions...), result.PolicyDecisions...)
	if validated {
		result.Validation = validation
	}

	// Modification merge hook. The modifications schema is reserved;
	// recording the decision is the entire current behavior.
	e.mergeModifications(result, eval.Effective)

	// After / failed hook. The two are mutually exclusive.
	if result.Success {
		if err := e.interceptors.OnAfter(ctx, intent, mctx, state, result.NewState, result.Changes, executionID); err != nil {
			return nil, e.raise(ctx, logger, scope, intent, mctx, state, stateID, executionID, "after-hook", result.PolicyDecisions, err)
		}
	} else {
		if err := e.interceptors.OnFailed(ctx, intent, mctx, state, resultError(result), executionID); err != nil {
			return nil, e.raise(ctx, logger, scope, intent, mctx, state, stateID, executionID, "failed-hook", result.PolicyDecisions, err)
		}
	}

	// Audit, history, metrics.
	errMsg := ""
	if !result.Success {
		errMsg = resultError(result).Error()
	}
	e.record(scope, intent, mctx, state, stateID, executionID, result, errMsg)

	logger.Debug("execution finished", map[string]any{
		"success": result.Success,
		"changes": result.Changes.Len(),
	})
	return result, nil
}

// validate runs mutation validation and records its timing.
func (e *Engine[S]) validate(mutation types.Mutation[S], state S, scope *metrics.Scope) types.ValidationResult {
	start := time.Now()
	validation := mutation.Validate(state)
	scope.SetValidationTime(time.Since(start))
	scope.SetValidatedRules(len(validation.Errors) + len(validation.Warnings) + len(validation.Infos))
	return validation
}

// mergeModifications is the extension hook for policy-requested
// modifications. The schema is reserved; the decision is recorded in
// the result and otherwise ignored.
func (e *Engine[S]) mergeModifications(_ *types.Result[S], _ types.PolicyDecision) {
}

// record writes the audit entry, appends history for successful
// commits, and finalizes metrics. Called exactly once per recovered
// execution path.
func (e *Engine[S]) record(scope *metrics.Scope, intent types.Intent, mctx types.Context, state S, stateID, executionID string, result *types.Result[S], errMsg string) {
	duration := scope.Elapsed()

	e.auditor.Record(types.AuditEntry{
		ExecutionID:     executionID,
		StateID:         stateID,
		StateType:       fmt.Sprintf("%T", state),
		Intent:          intent,
		Context:         mctx,
		Changes:         result.Changes.Changes(),
		Success:         result.Success,
		ErrorMessage:    errMsg,
		PolicyDecisions: result.PolicyDecisions,
		Timestamp:       time.Now().UTC(),
		Duration:        duration,
		SourceIP:        mctx.SourceIP,
		UserAgent:       mctx.UserAgent,
	})

	// History is written only for successful committed mutations bound
	// to a stable state id.
	if result.Success && mctx.Mode.Persists() && stateID != "" {
		entry := types.HistoryEntry{
			ExecutionID:   executionID,
			Intent:        intent,
			Context:       mctx,
			Changes:       result.Changes.Changes(),
			SideEffects:   result.SideEffects,
			Timestamp:     time.Now().UTC(),
			ExecutionTime: duration,
			StateID:       stateID,
		}
		if err := e.history.Append(entry); err != nil {
			e.logger.Error("history append failed", map[string]any{
				"execution_id": executionID,
				"state_id":     stateID,
				"error":        err.Error(),
			})
		}
	}

	scope.SetChangesCount(result.Changes.Len())
	scope.SetStateSize(e.stateSizeOf(state))
	m := scope.Build()
	e.metrics.Record(executionID, m)
	result.Metrics = m
}

// raise implements the exception envelope: the failed hook runs
// best-effort, the attempt is audited as a failed exception, metrics
// are finalized, and the cause is classified for propagation.
// Cancellation and timeouts propagate unwrapped; everything else is
// wrapped in *ExecutionError carrying the execution id.
func (e *Engine[S]) raise(ctx context.Context, logger *log.Logger, scope *metrics.Scope, intent types.Intent, mctx types.Context, state S, stateID, executionID, op string, decisions []types.PolicyDecision, cause error) error {
	if op != "failed-hook" {
		if hookErr := e.interceptors.OnFailed(ctx, intent, mctx, state, cause, executionID); hookErr != nil {
			logger.Warn("failed-hook error during exception handling", map[string]any{
				"error": hookErr.Error(),
			})
		}
	}

	e.auditor.Record(types.AuditEntry{
		ExecutionID:     executionID,
		StateID:         stateID,
		StateType:       fmt.Sprintf("%T", state),
		Intent:          intent,
		Context:         mctx,
		Success:         false,
		ErrorMessage:    cause.Error(),
		PolicyDecisions: decisions,
		Timestamp:       time.Now().UTC(),
		Duration:        scope.Elapsed(),
		SourceIP:        mctx.SourceIP,
		UserAgent:       mctx.UserAgent,
	})
	e.metrics.Record(executionID, scope.Build())

	logger.Error("execution raised", map[string]any{
		"op":    op,
		"error": cause.Error(),
	})

	if IsCancellation(cause) {
		return cause
	}
	var timeoutErr *TimeoutError
	if errors.As(cause, &timeoutErr) {
		return cause
	}
	return &ExecutionError{ExecutionID: executionID, Op: op, Err: cause}
}

// stateIDOf extracts the entity id, or "" when no extractor is set.
func (e *Engine[S]) stateIDOf(state S) string {
	if e.stateID == nil {
		return ""
	}
	return e.stateID(state)
}

// stateSizeOf estimates the state size, falling back to the
// placeholder constant until a serializer-backed estimator is supplied.
func (e *Engine[S]) stateSizeOf(state S) int64 {
	if e.stateSize == nil {
		return defaultStateSize
	}
	return e.stateSize(state)
}

// validationError summarizes a failed validation as an error.
func validationError(v types.ValidationResult) error {
	if len(v.Errors) == 0 {
		return errors.New("validation failed")
	}
	first := v.Errors[0]
	if len(v.Errors) == 1 {
		return fmt.Errorf("validation failed: %s", first.Message)
	}
	return fmt.Errorf("validation failed: %s (and %d more)", first.Message, len(v.Errors)-1)
}

// resultError extracts the failure cause from an unsuccessful result.
func resultError[S any](r *types.Result[S]) error {
	if r.Err != nil {
		return r.Err
	}
	if !r.Validation.IsValid() {
		return validationError(r.Validation)
	}
	if decision, ok := r.BlockingDecision(); ok {
		return fmt.Errorf("policy %s denied: %s", decision.PolicyName, decision.Reason)
	}
	return errors.New("mutation failed")
}
