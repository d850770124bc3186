package webasset

import "github.com/sirupsen/logrus"

// Option configures an FS.
type Option interface {
	apply(*config)
}

type config struct {
	origin OriginResolver
	log    logrus.FieldLogger
}

type optionFunc func(*config)

func (o optionFunc) apply(c *config) {
	o(c)
}

// WithOrigin sets the resolver used for origin-relative names. In a browser,
// use jsfetch.Origin; elsewhere, StaticOrigin can stand in for a document.
func WithOrigin(origin OriginResolver) Option {
	return optionFunc(func(cfg *config) {
		if origin != nil {
			cfg.origin = origin
		}
	})
}

// WithLogger sets the logger used for debug output. If none is given, the
// logrus standard logger is used.
func WithLogger(log logrus.FieldLogger) Option {
	return optionFunc(func(cfg *config) {
		if log != nil {
			cfg.log = log
		}
	})
}
