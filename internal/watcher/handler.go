package watcher

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/Nomadcxx/aniarr/internal/logging"
	"github.com/Nomadcxx/aniarr/internal/organizer"
	"github.com/Nomadcxx/aniarr/internal/plans"
)

// DefaultDebounce is how long the source must stay quiet before a run.
const DefaultDebounce = 5 * time.Second

// ErrHandlerStopped is returned by Run once Stop has been called.
var ErrHandlerStopped = errors.New("plan handler stopped")

type PlanHandlerConfig struct {
	Source    string
	Options   plans.Options
	Organizer *organizer.Organizer
	Debounce  time.Duration
	Logger    *logging.Logger
	// Report is called for every executed item.
	Report func(organizer.OrganizationResult)
	// OnRun is called after every run.
	OnRun func(organizer.Summary, error)
}

// PlanHandler rebuilds and executes the plan for the whole source once a
// burst of events has settled. Runs never overlap.
type PlanHandler struct {
	cfg    PlanHandlerConfig
	ctx    context.Context
	logger *logging.Logger

	mu      sync.Mutex
	timer   *time.Timer
	stopped bool
	runMu   sync.Mutex
}

// NewPlanHandler creates a handler whose debounced runs use ctx.
func NewPlanHandler(ctx context.Context, cfg PlanHandlerConfig) *PlanHandler {
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultDebounce
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Nop()
	}
	return &PlanHandler{cfg: cfg, ctx: ctx, logger: logger}
}

func (h *PlanHandler) IsMediaFile(path string) bool {
	return IsMediaFile(path)
}

// HandleFileEvent schedules a run, pushing back any run already pending.
func (h *PlanHandler) HandleFileEvent(event FileEvent) error {
	if event.Type == EventDelete {
		return nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.stopped {
		return nil
	}
	if h.timer != nil {
		h.timer.Stop()
	}
	h.timer = time.AfterFunc(h.cfg.Debounce, func() {
		h.Run(h.ctx)
	})
	return nil
}

// Stop cancels a pending run and waits for one in progress to finish, so
// the organizer's history can be closed afterwards. Runs after Stop return
// ErrHandlerStopped.
func (h *PlanHandler) Stop() {
	h.mu.Lock()
	h.stopped = true
	if h.timer != nil {
		h.timer.Stop()
		h.timer = nil
	}
	h.mu.Unlock()

	h.runMu.Lock()
	h.runMu.Unlock()
}

func (h *PlanHandler) isStopped() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.stopped
}

// Run plans the source and executes every item not placed before.
func (h *PlanHandler) Run(ctx context.Context) (organizer.Summary, error) {
	h.runMu.Lock()
	defer h.runMu.Unlock()
	if h.isStopped() {
		return organizer.Summary{}, ErrHandlerStopped
	}

	sum, err := h.run(ctx)
	if err != nil {
		h.logger.Error("watcher", "run failed", err, logging.F("source", h.cfg.Source))
	}
	if h.cfg.OnRun != nil {
		h.cfg.OnRun(sum, err)
	}
	return sum, err
}

func (h *PlanHandler) run(ctx context.Context) (organizer.Summary, error) {
	if err := ctx.Err(); err != nil {
		return organizer.Summary{}, err
	}
	plan, err := plans.Build(h.cfg.Source, h.cfg.Options, h.logger)
	if err != nil {
		return organizer.Summary{}, err
	}
	sum := h.cfg.Organizer.Execute(ctx, plan, h.cfg.Report)
	h.logger.Info("watcher", "run complete",
		logging.F("planned", plan.Len()),
		logging.F("ok", sum.OK),
		logging.F("failed", sum.Failed),
		logging.F("skipped", sum.Skipped))
	return sum, nil
}
