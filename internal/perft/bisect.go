package perft

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	ErrInvalidDepth = errors.New("depth must be positive")
	ErrEmptyRoot    = errors.New("root position is empty")
)

// Runner asks one engine for the divide counts of a position.
type Runner interface {
	Run(ctx context.Context, executablePath string, pos Position, depth int) (MoveCountMap, error)
}

type Bisector struct {
	Engine          string
	Reference       string
	Runner          Runner
	ReferenceRunner Runner
	Concurrent      bool
	Logger          *zap.SugaredLogger
	Progress        func(step Step)
}

// Run descends from maxDepth along the first move with a different count until
// the engines disagree on the move set, agree, or the depth is exhausted.
func (b *Bisector) Run(ctx context.Context, root string, maxDepth int) (Report, error) {
	if maxDepth < 1 {
		return Report{}, fmt.Errorf("%w: %d", ErrInvalidDepth, maxDepth)
	}
	if root == "" {
		return Report{}, ErrEmptyRoot
	}
	var logger = b.logger()
	var report = Report{
		Root:     root,
		MaxDepth: maxDepth,
		Path:     NewPosition(root),
	}
	for depth := maxDepth; depth >= 1; depth-- {
		var step, err = b.step(ctx, report.Path, depth)
		if err != nil {
			return Report{}, fmt.Errorf("depth %v: %w", depth, err)
		}
		report.Steps = append(report.Steps, step)
		if b.Progress != nil {
			b.Progress(step)
		}
		logger.Debugw("bisection step",
			"depth", depth,
			"position", step.Position.String(),
			"verdict", step.Verdict.String(),
			"engineNodes", step.TestedNodes,
			"referenceNodes", step.ReferenceNodes,
			"elapsed", step.Elapsed)

		switch v := step.Verdict.(type) {
		case Agree:
			report.Outcome = OutcomeAgreement
			report.Depth = depth
			report.Verdict = v
			return report, nil
		case CountMismatch:
			report.Path = report.Path.Append(v.Move)
		default:
			report.Outcome = OutcomeDivergence
			report.Depth = depth
			report.Verdict = v
			return report, nil
		}
	}
	report.Outcome = OutcomeExhausted
	return report, nil
}

func (b *Bisector) step(ctx context.Context, pos Position, depth int) (Step, error) {
	var start = time.Now()
	var tested, reference MoveCountMap
	var queryEngine = func(ctx context.Context) error {
		var counts, err = b.Runner.Run(ctx, b.Engine, pos, depth)
		tested = counts
		return err
	}
	var queryReference = func(ctx context.Context) error {
		var counts, err = b.referenceRunner().Run(ctx, b.Reference, pos, depth)
		reference = counts
		return err
	}

	if b.Concurrent {
		var g, gctx = errgroup.WithContext(ctx)
		g.Go(func() error { return queryEngine(gctx) })
		g.Go(func() error { return queryReference(gctx) })
		if err := g.Wait(); err != nil {
			return Step{}, err
		}
	} else {
		if err := queryEngine(ctx); err != nil {
			return Step{}, err
		}
		if err := queryReference(ctx); err != nil {
			return Step{}, err
		}
	}

	return Step{
		Depth:          depth,
		Position:       pos,
		Verdict:        Compare(tested, reference),
		TestedNodes:    tested.Total(),
		ReferenceNodes: reference.Total(),
		Elapsed:        time.Since(start),
	}, nil
}

func (b *Bisector) referenceRunner() Runner {
	if b.ReferenceRunner != nil {
		return b.ReferenceRunner
	}
	return b.Runner
}

func (b *Bisector) logger() *zap.SugaredLogger {
	if b.Logger != nil {
		return b.Logger
	}
	return zap.NewNop().Sugar()
}
