// Package organizer executes a plan: each item is placed in order, recorded
// in the history database and reported, and one failure never stops the rest.
package organizer

import (
	"context"
	"time"

	"github.com/Nomadcxx/aniarr/internal/database"
	"github.com/Nomadcxx/aniarr/internal/logging"
	"github.com/Nomadcxx/aniarr/internal/plans"
	"github.com/Nomadcxx/aniarr/internal/transfer"
)

// History is the part of the history database the organizer needs.
type History interface {
	LogOperation(op database.Operation) (int64, error)
	WasPlaced(source string) (bool, error)
}

type OrganizationResult struct {
	Item        plans.Item
	Success     bool
	SourcePath  string
	TargetPath  string
	FinalPath   string
	BytesCopied int64
	Duration    time.Duration
	Error       error
	Skipped     bool
	SkipReason  string
}

// Summary tallies one Execute call.
type Summary struct {
	OK      int
	Failed  int
	Skipped int
	Bytes   int64
	// Duration is the wall time of the whole run.
	Duration time.Duration
}

// HasFailures reports whether any item failed.
func (s Summary) HasFailures() bool {
	return s.Failed > 0
}

type Organizer struct {
	placer     *transfer.Placer
	logger     *logging.Logger
	history    History
	executedBy database.ExecutedBy
	skipPlaced bool
}

func NewOrganizer(mode transfer.Mode, options ...func(*Organizer)) *Organizer {
	org := &Organizer{
		placer:     transfer.NewPlacer(mode),
		logger:     logging.Nop(),
		executedBy: database.ExecCLI,
	}
	for _, opt := range options {
		opt(org)
	}
	return org
}

// WithLogger sets the logger
func WithLogger(logger *logging.Logger) func(*Organizer) {
	return func(o *Organizer) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithHistory records every placement attempt in h, attributed to by.
func WithHistory(h History, by database.ExecutedBy) func(*Organizer) {
	return func(o *Organizer) {
		o.history = h
		o.executedBy = by
	}
}

// WithSkipPlaced skips items whose source already has a successful history
// record. It has no effect without WithHistory.
func WithSkipPlaced(skip bool) func(*Organizer) {
	return func(o *Organizer) {
		o.skipPlaced = skip
	}
}

// Mode returns the placement mode.
func (o *Organizer) Mode() transfer.Mode {
	return o.placer.Mode()
}

// Execute places every item in plan order. report, when non-nil, is called
// after each item. A canceled context fails the remaining items.
func (o *Organizer) Execute(ctx context.Context, plan *plans.Plan, report func(OrganizationResult)) Summary {
	start := time.Now()
	var sum Summary
	for _, it := range plan.Items {
		res := o.Place(ctx, it)
		switch {
		case res.Skipped:
			sum.Skipped++
		case res.Success:
			sum.OK++
			sum.Bytes += res.BytesCopied
		default:
			sum.Failed++
		}
		if report != nil {
			report(res)
		}
	}
	sum.Duration = time.Since(start)

	o.logger.Info("executor", "plan executed",
		logging.F("mode", o.Mode()),
		logging.F("ok", sum.OK),
		logging.F("failed", sum.Failed),
		logging.F("skipped", sum.Skipped),
		logging.F("bytes", sum.Bytes),
		logging.F("duration", sum.Duration))
	return sum
}

// Place executes a single item.
func (o *Organizer) Place(ctx context.Context, it plans.Item) OrganizationResult {
	res := OrganizationResult{
		Item:       it,
		SourcePath: it.Source,
		TargetPath: it.Destination,
		FinalPath:  it.Destination,
	}

	if o.skipPlaced && o.history != nil {
		placed, err := o.history.WasPlaced(it.Source)
		if err != nil {
			o.logger.Warn("history", "lookup failed", logging.F("source", it.Source), logging.F("error", err))
		}
		if placed {
			res.Skipped = true
			res.SkipReason = "already placed"
			return res
		}
	}

	tr := o.placer.Place(ctx, it.Source, it.Destination)
	res.Success = tr.Success
	res.FinalPath = tr.Final
	res.BytesCopied = tr.Bytes
	res.Duration = tr.Duration
	res.Error = tr.Error

	if tr.Success {
		o.logger.Debug("executor", "placed",
			logging.F("source", it.Source),
			logging.F("final", tr.Final),
			logging.F("method", tr.Method))
	} else {
		o.logger.Error("executor", "place failed", tr.Error,
			logging.F("source", it.Source),
			logging.F("destination", it.Destination))
	}

	o.record(it, tr)
	return res
}

func (o *Organizer) record(it plans.Item, tr transfer.Result) {
	if o.history == nil {
		return
	}
	op := database.Operation{
		Mode:          string(tr.Mode),
		Kind:          string(it.Kind),
		SeriesKey:     it.SeriesKey,
		SourcePath:    it.Source,
		RequestedPath: tr.Requested,
		FinalPath:     tr.Final,
		Bytes:         tr.Bytes,
		Success:       tr.Success,
		ExecutedBy:    o.executedBy,
	}
	if tr.Error != nil {
		op.Error = tr.Error.Error()
		op.FinalPath = ""
	}
	if _, err := o.history.LogOperation(op); err != nil {
		o.logger.Warn("history", "failed to record operation",
			logging.F("source", it.Source), logging.F("error", err))
	}
}
