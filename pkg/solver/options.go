package solver

import "github.com/sirupsen/logrus"

// Options configures a solver
type Options struct {
	// Logger receives debug traces of derivations, decisions, conflicts and
	// backjumps. Nil disables tracing.
	Logger logrus.FieldLogger
	// MaxSteps bounds the number of propagate/decide rounds. Zero means
	// unbounded.
	MaxSteps int
}

// Option mutates solver options
type Option func(*Options)

// WithLogger enables debug tracing through the given logger
func WithLogger(logger logrus.FieldLogger) Option {
	return func(o *Options) {
		o.Logger = logger
	}
}

// WithMaxSteps bounds the number of solver rounds
func WithMaxSteps(n int) Option {
	return func(o *Options) {
		o.MaxSteps = n
	}
}

func (s *Solver) debug(msg string, fields logrus.Fields) {
	if s.opts.Logger == nil {
		return
	}
	s.opts.Logger.WithFields(fields).Debug(msg)
}
