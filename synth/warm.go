package synth

import (
	"context"
	"reflect"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/wippyai/sigbind/catalog"
	"github.com/wippyai/sigbind/errors"
)

// Request is a compilation that Warm can run ahead of use.
type Request interface {
	warm(c *Cache) error
}

// ConversionRequest asks for a chained conversion.
type ConversionRequest ConversionKey

func (r ConversionRequest) warm(c *Cache) error {
	if _, ok := c.ChainedConversion(ConversionKey(r)); !ok {
		return errors.SynthesisImpossible(errors.PhaseConvert, typeName(r.DeclaredOut), "no conversion from "+typeName(r.DeclaredIn))
	}
	return nil
}

// Convert is shorthand for a plain in -> out conversion request.
func Convert(in, out reflect.Type) ConversionRequest {
	return ConversionRequest{DeclaredIn: in, RequestedIn: in, RequestedOut: out, DeclaredOut: out}
}

// OperatorRequest asks for a binary operator.
type OperatorRequest struct {
	Op                  catalog.Op
	Left, Right, Result reflect.Type
}

func (r OperatorRequest) warm(c *Cache) error {
	_, err := c.Binary(r.Op, r.Left, r.Right, r.Result)
	return err
}

// Warm compiles requests concurrently, at most Options.WarmConcurrency at a
// time when that is positive. It returns the first failure. Cancelling ctx
// stops scheduling; compilations already running finish.
func (c *Cache) Warm(parent context.Context, requests ...Request) error {
	g, ctx := errgroup.WithContext(parent)
	if c.opts.WarmConcurrency > 0 {
		g.SetLimit(c.opts.WarmConcurrency)
	}
	for _, r := range requests {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return r.warm(c)
		})
	}
	err := g.Wait()
	if err == nil {
		err = parent.Err()
	}
	Logger().Debug("warm finished", zap.Int("requests", len(requests)), zap.Error(err))
	return err
}
