package actions

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/ironsheep/media-actions/internal/fsutil"
	"github.com/ironsheep/media-actions/internal/imaging"
	"github.com/ironsheep/media-actions/internal/video"
)

// seedParam is the integer parameter whose 0 value is replaced by a
// clock-derived seed once per run.
const seedParam = "seed"

// Registry holds the operation catalogue and the processors it dispatches to.
type Registry struct {
	ops    []*Operation
	byName map[string]*Operation

	images   *imaging.Processor
	videos   *video.Processor
	validate *validator.Validate
	logger   *slog.Logger
	now      func() time.Time
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger for operation start and finish lines.
func WithLogger(l *slog.Logger) Option {
	return func(r *Registry) {
		r.logger = l
	}
}

// NewRegistry builds the catalogue around the given processors.
func NewRegistry(images *imaging.Processor, videos *video.Processor, opts ...Option) *Registry {
	r := &Registry{
		images:   images,
		videos:   videos,
		validate: validator.New(),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}

	r.ops = r.catalog()
	r.byName = make(map[string]*Operation, len(r.ops))
	for _, op := range r.ops {
		r.byName[op.Name] = op
	}
	return r
}

// Operations returns every operation in menu order.
func (r *Registry) Operations() []*Operation {
	return r.ops
}

// Lookup returns the operation called name.
func (r *Registry) Lookup(name string) (*Operation, bool) {
	op, ok := r.byName[name]
	return op, ok
}

// Run validates paths and raw parameter values against the named operation
// and executes it. Nothing is read or written when validation fails.
//
// "each" and "directory" operations run once per path in the given order and
// stop at the first failure; inputs whose precondition does not hold are
// skipped and reported in Result.Reason. On failure the returned Result
// still lists the outputs written before the error.
func (r *Registry) Run(ctx context.Context, name string, paths []string, raw map[string]any) (*Result, error) {
	op, ok := r.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: unknown operation %q", ErrInvalidArguments, name)
	}
	if err := op.checkInputs(len(paths)); err != nil {
		return nil, err
	}
	args, err := op.bind(raw, r.validate)
	if err != nil {
		return nil, err
	}
	if op.Input == InputDirectory {
		for _, p := range paths {
			if !fsutil.IsDir(p) {
				return nil, fmt.Errorf("%w: %s is not a directory", ErrInvalidArguments, p)
			}
		}
	}
	if seed, ok := args[seedParam]; ok && seed == 0 {
		args[seedParam] = int(r.now().UnixNano())
	}

	r.logger.Debug("running operation", "operation", name, "paths", len(paths))

	batches := [][]string{paths}
	if op.Input != InputSet {
		batches = make([][]string, len(paths))
		for i, p := range paths {
			batches[i] = []string{p}
		}
	}

	res := &Result{Operation: name, Outputs: []string{}}
	var reasons []string
	for _, batch := range batches {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		out, err := op.run(ctx, batch, args)
		if out != nil {
			res.Outputs = append(res.Outputs, out.outputs...)
			if out.data != nil {
				if res.Data == nil {
					res.Data = make(map[string]any)
				}
				res.Data[batch[0]] = out.data
			}
		}
		if errors.Is(err, imaging.ErrSkipped) {
			res.Skipped = true
			reasons = append(reasons, fmt.Sprintf("%s: %v", batch[0], err))
			continue
		}
		if err != nil {
			return res, fmt.Errorf("%s: %w", name, err)
		}
	}
	res.Reason = strings.Join(reasons, "; ")

	r.logger.Info("operation finished",
		"operation", name,
		"outputs", len(res.Outputs),
		"skipped", res.Skipped,
		"reason", res.Reason,
	)
	return res, nil
}
