package synclite

import (
	"errors"
	"math/big"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterScalarFunction(t *testing.T) {
	conn := openMemory(t)
	err := conn.RegisterFunction("shout", &FunctionOptions{NArgs: 1, Deterministic: true},
		func(args []any) (any, error) {
			s, ok := args[0].(string)
			if !ok {
				return nil, errors.New("shout wants text")
			}
			return strings.ToUpper(s) + "!", nil
		})
	require.NoError(t, err)

	stmt, err := conn.Prepare("SELECT shout(?)")
	require.NoError(t, err)
	row, err := stmt.Get("hello")
	require.NoError(t, err)
	assert.Equal(t, "HELLO!", row.Index(0))
}

func TestFunctionVarargs(t *testing.T) {
	conn := openMemory(t)
	err := conn.RegisterFunction("total", &FunctionOptions{Varargs: true},
		func(args []any) (any, error) {
			var sum int64
			for _, a := range args {
				v, ok := a.(int64)
				if !ok {
					return nil, errors.New("total wants integers")
				}
				sum += v
			}
			return sum, nil
		})
	require.NoError(t, err)

	stmt, err := conn.Prepare("SELECT total(1, 2, 3, 4)")
	require.NoError(t, err)
	row, err := stmt.Get()
	require.NoError(t, err)
	assert.Equal(t, int64(10), row.Index(0))

	stmt2, err := conn.Prepare("SELECT total()")
	require.NoError(t, err)
	row, err = stmt2.Get()
	require.NoError(t, err)
	assert.Equal(t, int64(0), row.Index(0))
}

func TestFunctionErrorAbortsStatement(t *testing.T) {
	conn := openMemory(t)
	err := conn.RegisterFunction("fail", &FunctionOptions{NArgs: 0},
		func(args []any) (any, error) {
			return nil, errors.New("deliberate failure")
		})
	require.NoError(t, err)

	stmt, err := conn.Prepare("SELECT fail()")
	require.NoError(t, err)
	_, err = stmt.Get()
	require.Error(t, err)
	assert.Equal(t, KindEngine, KindOf(err))
	assert.Contains(t, err.Error(), "deliberate failure")
}

func TestFunctionBigIntArguments(t *testing.T) {
	conn := openMemory(t)
	err := conn.RegisterFunction("wide", &FunctionOptions{NArgs: 1, UseBigIntArguments: true},
		func(args []any) (any, error) {
			v, ok := args[0].(*big.Int)
			if !ok {
				return nil, errors.New("expected *big.Int")
			}
			return new(big.Int).Add(v, big.NewInt(1)), nil
		})
	require.NoError(t, err)

	stmt, err := conn.Prepare("SELECT wide(41)")
	require.NoError(t, err)
	row, err := stmt.Get()
	require.NoError(t, err)
	assert.Equal(t, int64(42), row.Index(0))
}

func TestFunctionIntegerWidening(t *testing.T) {
	conn := openMemory(t)
	// Without the flag, arguments beyond the exact range still widen.
	err := conn.RegisterFunction("kind_of", &FunctionOptions{NArgs: 1},
		func(args []any) (any, error) {
			switch args[0].(type) {
			case int64:
				return "int64", nil
			case *big.Int:
				return "bigint", nil
			default:
				return "other", nil
			}
		})
	require.NoError(t, err)

	stmt, err := conn.Prepare("SELECT kind_of(?)")
	require.NoError(t, err)
	row, err := stmt.Get(100)
	require.NoError(t, err)
	assert.Equal(t, "int64", row.Index(0))

	row, err = stmt.Get(int64(1) << 53)
	require.NoError(t, err)
	assert.Equal(t, "bigint", row.Index(0))
}

func TestRegisterAggregate(t *testing.T) {
	conn := openPeople(t)
	err := conn.RegisterAggregate("age_sum", &AggregateOptions{
		NArgs: 1,
		Start: int64(0),
		Step: func(acc any, args []any) (any, error) {
			v, ok := args[0].(int64)
			if !ok {
				return nil, errors.New("age_sum wants integers")
			}
			return acc.(int64) + v, nil
		},
	})
	require.NoError(t, err)

	stmt, err := conn.Prepare("SELECT age_sum(age) FROM people")
	require.NoError(t, err)
	row, err := stmt.Get()
	require.NoError(t, err)
	assert.Equal(t, int64(94), row.Index(0))
}

func TestAggregateEmptySet(t *testing.T) {
	conn := openPeople(t)
	err := conn.RegisterAggregate("age_sum", &AggregateOptions{
		NArgs: 1,
		Start: int64(0),
		Step: func(acc any, args []any) (any, error) {
			return acc.(int64) + args[0].(int64), nil
		},
	})
	require.NoError(t, err)

	stmt, err := conn.Prepare("SELECT age_sum(age) FROM people WHERE age > 100")
	require.NoError(t, err)
	row, err := stmt.Get()
	require.NoError(t, err)
	assert.Equal(t, int64(0), row.Index(0), "an empty aggregation yields the start value")
}

func TestAggregateWithResult(t *testing.T) {
	conn := openPeople(t)
	type state struct {
		sum, n int64
	}
	err := conn.RegisterAggregate("age_avg", &AggregateOptions{
		NArgs:     1,
		StartFunc: func() any { return &state{} },
		Step: func(acc any, args []any) (any, error) {
			st := acc.(*state)
			st.sum += args[0].(int64)
			st.n++
			return st, nil
		},
		Result: func(acc any) (any, error) {
			st := acc.(*state)
			if st.n == 0 {
				return nil, nil
			}
			return float64(st.sum) / float64(st.n), nil
		},
	})
	require.NoError(t, err)

	stmt, err := conn.Prepare("SELECT age_avg(age) FROM people")
	require.NoError(t, err)
	row, err := stmt.Get()
	require.NoError(t, err)
	assert.InDelta(t, 94.0/3.0, row.Index(0), 1e-9)
}

func TestAggregateRequiresStep(t *testing.T) {
	conn := openMemory(t)
	err := conn.RegisterAggregate("bad", &AggregateOptions{NArgs: 1})
	require.Error(t, err)
	assert.Equal(t, KindInvalidArg, KindOf(err))
}
