package traph

import (
	"github.com/google/uuid"
	"github.com/on-the-ground/traph_go/config"
	"github.com/on-the-ground/traph_go/diag"
	"github.com/on-the-ground/traph_go/input"
	"go.uber.org/zap"
)

// Transform binds input records to a compiled Template.
type Transform struct {
	id       string
	spec     *Spec
	mode     config.Mode
	logger   *zap.Logger
	notifier *diag.Notifier
}

type options struct {
	mode     *config.Mode
	logger   *zap.Logger
	notifier *diag.Notifier
}

// Option configures New.
type Option func(*options)

// WithMode fixes the evaluation mode instead of reading it from the environment.
// config.Development installs the input guard on every bound record.
func WithMode(mode config.Mode) Option {
	return func(o *options) {
		o.mode = &mode
	}
}

// WithLogger sets the logger for debug output and, unless WithNotifier is
// given, for guard warnings.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithNotifier shares n with the Transform instead of giving it its own.
func WithNotifier(n *diag.Notifier) Option {
	return func(o *options) {
		o.notifier = n
	}
}

// New compiles tmpl and returns a Transform for it.
//
// Without WithMode the mode is loaded from the environment (see config.Load);
// if that fails the Transform runs unguarded.
func New(tmpl Template, opts ...Option) (*Transform, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	logger := o.logger
	if logger == nil {
		var err error
		if logger, err = zap.NewProduction(); err != nil {
			logger = zap.NewNop()
		}
	}

	mode := config.Production
	if o.mode != nil {
		mode = *o.mode
	} else if cfg, err := config.Load(); err != nil {
		logger.Warn("failed to load config, running unguarded", zap.Error(err))
	} else {
		mode = cfg.Mode
	}

	notifier := o.notifier
	if notifier == nil {
		notifier = diag.New(logger)
	}

	spec, err := Compile(tmpl)
	if err != nil {
		return nil, err
	}

	t := &Transform{
		id:       uuid.New().String(),
		spec:     spec,
		mode:     mode,
		logger:   logger,
		notifier: notifier,
	}
	logger.Sugar().Debugf("compiled derivation template: transformId: %v, mode: %v, fields: %v", t.id, mode, spec.order)
	return t, nil
}

// MustNew is like New but panics on an invalid template.
func MustNew(tmpl Template, opts ...Option) *Transform {
	t, err := New(tmpl, opts...)
	if err != nil {
		panic(err)
	}
	return t
}

// Spec returns the compiled template.
func (t *Transform) Spec() *Spec { return t.spec }

// Mode returns the evaluation mode.
func (t *Transform) Mode() config.Mode { return t.mode }

// Apply binds in and resolves every field before returning.
func (t *Transform) Apply(in input.Input) (*Record, error) {
	rec, err := Materialize(t.bind(in))
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// Lazy binds in without resolving anything. Fields are derived as they are read.
func (t *Transform) Lazy(in input.Input) *Record {
	return t.bind(in)
}

func (t *Transform) bind(in input.Input) *Record {
	if in == nil {
		in = input.Map{}
	}
	if t.mode.Development() {
		in = input.Guard(in, t.notifier)
	}
	rec := newRecord(t.spec, in)
	t.logger.Debug("bound record",
		zap.String("transform_id", t.id),
		zap.String("record_id", rec.id),
		zap.Bool("guarded", input.IsGuarded(in)),
	)
	return rec
}
