package synclite

import (
	"github.com/synclite/synclite/internal/engine"
)

// FunctionOptions configures RegisterFunction. The zero value registers a
// fixed-arity function inferred from NArgs with no special flags.
type FunctionOptions struct {
	// NArgs fixes the argument count. Ignored when Varargs is set.
	NArgs int

	// Varargs accepts any number of arguments.
	Varargs bool

	// Deterministic promises the function always returns the same result
	// for the same inputs, letting the engine use it in indexes and
	// generated columns.
	Deterministic bool

	// DirectOnly keeps the function out of triggers, views, and other
	// indirect SQL, limiting the blast radius of a misbehaving callback.
	DirectOnly bool

	// UseBigIntArguments delivers every integer argument as *big.Int
	// instead of the default int64-inside-the-safe-range policy.
	UseBigIntArguments bool
}

// AggregateOptions configures RegisterAggregate.
type AggregateOptions struct {
	NArgs              int
	Varargs            bool
	Deterministic      bool
	DirectOnly         bool
	UseBigIntArguments bool

	// Start seeds the accumulator for each aggregation. Use StartFunc when
	// the seed is mutable and must not be shared across aggregations.
	Start     any
	StartFunc func() any

	// Step folds one row's arguments into the accumulator and returns the
	// next accumulator value.
	Step func(acc any, args []any) (any, error)

	// Result converts the final accumulator into the SQL result. Nil means
	// the accumulator itself is the result.
	Result func(acc any) (any, error)
}

func functionFlags(deterministic, directOnly bool) int {
	flags := 0
	if deterministic {
		flags |= engine.FuncDeterministic
	}
	if directOnly {
		flags |= engine.FuncDirectOnly
	}
	return flags
}

func functionArity(nArgs int, varargs bool) int {
	if varargs {
		return -1
	}
	return nArgs
}

func convertArgs(raw []any, useBigInts bool) []any {
	out := make([]any, len(raw))
	for i, v := range raw {
		out[i] = callbackArg(v, useBigInts)
	}
	return out
}

// RegisterFunction installs a scalar SQL function on this connection. The
// callback receives arguments as nil, int64 (or *big.Int), float64, string,
// or []byte, and may return any bindable scalar; an error aborts the
// enclosing statement.
//
// The callback runs on the connection's goroutine, during a Step, so it may
// not touch this connection re-entrantly.
func (c *Conn) RegisterFunction(name string, opts *FunctionOptions, fn func(args []any) (any, error)) error {
	if err := c.check(); err != nil {
		return err
	}
	if fn == nil {
		return newError(KindInvalidArg, "function implementation must not be nil")
	}
	var o FunctionOptions
	if opts != nil {
		o = *opts
	}
	wrapped := func(raw []any) (any, error) {
		res, err := fn(convertArgs(raw, o.UseBigIntArguments))
		if err != nil {
			return nil, err
		}
		return callbackResult(res)
	}
	err := c.eng.RegisterFunc(name,
		functionArity(o.NArgs, o.Varargs),
		functionFlags(o.Deterministic, o.DirectOnly),
		wrapped)
	if err != nil {
		return wrapEngine(err, "")
	}
	return nil
}

// RegisterAggregate installs an aggregate SQL function. Step is required;
// aggregating an empty set yields the Start value passed through Result.
func (c *Conn) RegisterAggregate(name string, opts *AggregateOptions) error {
	if err := c.check(); err != nil {
		return err
	}
	if opts == nil || opts.Step == nil {
		return newError(KindInvalidArg, "aggregate requires a step function")
	}
	o := *opts

	start := o.StartFunc
	if start == nil {
		seed := o.Start
		start = func() any { return seed }
	}
	def := engine.AggregateDef{
		Start: start,
		Step: func(acc any, raw []any) (any, error) {
			return o.Step(acc, convertArgs(raw, o.UseBigIntArguments))
		},
		Final: func(acc any) (any, error) {
			if o.Result != nil {
				res, err := o.Result(acc)
				if err != nil {
					return nil, err
				}
				return callbackResult(res)
			}
			return callbackResult(acc)
		},
	}
	err := c.eng.RegisterAggregate(name,
		functionArity(o.NArgs, o.Varargs),
		functionFlags(o.Deterministic, o.DirectOnly),
		def)
	if err != nil {
		return wrapEngine(err, "")
	}
	return nil
}
