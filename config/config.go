// Package config holds engine options and loads them from TOML.
package config

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/BurntSushi/toml"
	"go.uber.org/zap"

	"github.com/wippyai/sigbind/errors"
)

// MaxArityLimit is the largest parameter count a synthesized callable supports.
const MaxArityLimit = 16

// Options configures an engine.
type Options struct {
	// PromoteTo names the integer kind 8-bit operands are widened to before
	// operator synthesis: "int16", "int32", "int64" or "int".
	PromoteTo string `toml:"promote_to"`

	// LogLevel is a zap level name ("debug", "info", "warn", "error").
	LogLevel string `toml:"log_level"`

	// MaxArity caps the parameter count of synthesized callables (1-16).
	MaxArity int `toml:"max_arity"`

	// WarmConcurrency bounds the goroutines used by cache warm-up.
	// 0 means one per request.
	WarmConcurrency int `toml:"warm_concurrency"`

	// Development switches the logger to zap's development encoder.
	Development bool `toml:"development"`
}

// DefaultOptions returns the default engine configuration.
func DefaultOptions() Options {
	return Options{
		PromoteTo: "int32",
		LogLevel:  "info",
		MaxArity:  MaxArityLimit,
	}
}

var promotionTypes = map[string]reflect.Type{
	"int16": reflect.TypeFor[int16](),
	"int32": reflect.TypeFor[int32](),
	"int64": reflect.TypeFor[int64](),
	"int":   reflect.TypeFor[int](),
}

// Load reads options from a TOML file. Keys missing from the file keep their defaults.
func Load(path string) (Options, error) {
	opts := DefaultOptions()
	meta, err := toml.DecodeFile(path, &opts)
	if err != nil {
		return Options{}, errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, "parse "+path)
	}
	return finish(opts, meta)
}

// Parse reads options from TOML text.
func Parse(text string) (Options, error) {
	opts := DefaultOptions()
	meta, err := toml.Decode(text, &opts)
	if err != nil {
		return Options{}, errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, "parse options")
	}
	return finish(opts, meta)
}

func finish(opts Options, meta toml.MetaData) (Options, error) {
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Options{}, errors.InvalidInput(errors.PhaseConfig, "unknown option(s): "+strings.Join(keys, ", "))
	}
	if err := opts.Validate(); err != nil {
		return Options{}, err
	}
	return opts, nil
}

// Validate checks option ranges.
func (o Options) Validate() error {
	if _, ok := promotionTypes[o.PromoteTo]; !ok {
		return errors.New(errors.PhaseConfig, errors.KindInvalidInput).
			Path("promote_to").
			Detail("unsupported promotion kind %q", o.PromoteTo).
			Build()
	}
	if o.MaxArity < 1 || o.MaxArity > MaxArityLimit {
		return errors.New(errors.PhaseConfig, errors.KindInvalidInput).
			Path("max_arity").
			Detail("must be between 1 and %d, got %d", MaxArityLimit, o.MaxArity).
			Build()
	}
	if o.WarmConcurrency < 0 {
		return errors.New(errors.PhaseConfig, errors.KindInvalidInput).
			Path("warm_concurrency").
			Detail("must not be negative").
			Build()
	}
	if _, err := zap.ParseAtomicLevel(o.LogLevel); err != nil {
		return errors.New(errors.PhaseConfig, errors.KindInvalidInput).
			Path("log_level").
			Cause(err).
			Build()
	}
	return nil
}

// PromotionType returns the type 8-bit integer operands are widened to.
// Unknown names fall back to int32.
func (o Options) PromotionType() reflect.Type {
	if t, ok := promotionTypes[o.PromoteTo]; ok {
		return t
	}
	return promotionTypes["int32"]
}

// NewLogger builds a zap logger for these options.
func (o Options) NewLogger() (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(o.LogLevel)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, fmt.Sprintf("log level %q", o.LogLevel))
	}
	cfg := zap.NewProductionConfig()
	if o.Development {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = level
	return cfg.Build()
}
