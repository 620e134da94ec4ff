package synclite

import (
	"fmt"
	"math"
	"math/big"

	"github.com/synclite/synclite/internal/engine"
)

// Values cross the layer as a closed set of Go types mirroring the engine's
// five storage classes: nil (NULL), int64 or *big.Int (INTEGER), float64
// (REAL), string (TEXT), and []byte (BLOB).
//
// Integers keep the layer's exact-integer contract: a stored 64-bit integer
// inside ±(2^53−1) surfaces as int64, and anything outside that range
// surfaces as *big.Int regardless of configuration, so no caller can confuse
// a value that a double-based host would have rounded. SetReadBigInts forces
// *big.Int for every integer on that statement.
const (
	maxSafeInteger = 1<<53 - 1
	minSafeInteger = -maxSafeInteger
)

// bindValue binds one host value to parameter idx (1-based), dispatching on
// the closed set of accepted types.
func bindValue(s *engine.Stmt, idx int, v any) error {
	switch v := v.(type) {
	case nil:
		return s.BindNull(idx)
	case bool:
		if v {
			return s.BindInt64(idx, 1)
		}
		return s.BindInt64(idx, 0)
	case int:
		return s.BindInt64(idx, int64(v))
	case int8:
		return s.BindInt64(idx, int64(v))
	case int16:
		return s.BindInt64(idx, int64(v))
	case int32:
		return s.BindInt64(idx, int64(v))
	case int64:
		return s.BindInt64(idx, v)
	case uint:
		return bindUint64(s, idx, uint64(v))
	case uint8:
		return s.BindInt64(idx, int64(v))
	case uint16:
		return s.BindInt64(idx, int64(v))
	case uint32:
		return s.BindInt64(idx, int64(v))
	case uint64:
		return bindUint64(s, idx, v)
	case *big.Int:
		if v == nil {
			return s.BindNull(idx)
		}
		if v.IsInt64() {
			return s.BindInt64(idx, v.Int64())
		}
		// Outside 64 bits the engine cannot hold the integer; store its
		// decimal text, as the original layer does.
		return s.BindText(idx, v.String())
	case float32:
		return bindFloat(s, idx, float64(v))
	case float64:
		return bindFloat(s, idx, v)
	case string:
		return s.BindText(idx, v)
	case []byte:
		return s.BindBlob(idx, v)
	default:
		return newError(KindInvalidArg, fmt.Sprintf("unsupported bind value of type %T", v))
	}
}

func bindUint64(s *engine.Stmt, idx int, v uint64) error {
	if v <= math.MaxInt64 {
		return s.BindInt64(idx, int64(v))
	}
	return s.BindText(idx, new(big.Int).SetUint64(v).String())
}

// An integral double inside the 32-bit range binds as an integer, matching
// number-typed hosts that cannot distinguish 2.0 from 2.
func bindFloat(s *engine.Stmt, idx int, v float64) error {
	if v == math.Trunc(v) && v >= math.MinInt32 && v <= math.MaxInt32 {
		return s.BindInt64(idx, int64(v))
	}
	return s.BindDouble(idx, v)
}

// columnValue reads column i of the current row, applying the statement's
// integer policy.
func columnValue(s *engine.Stmt, i int, readBigInts bool) any {
	switch s.ColumnType(i) {
	case engine.TypeNull:
		return nil
	case engine.TypeInteger:
		return integerValue(s.ColumnInt64(i), readBigInts)
	case engine.TypeFloat:
		return s.ColumnDouble(i)
	case engine.TypeText:
		return s.ColumnText(i)
	case engine.TypeBlob:
		return s.ColumnBlob(i)
	default:
		return nil
	}
}

func integerValue(v int64, readBigInts bool) any {
	if readBigInts || v > maxSafeInteger || v < minSafeInteger {
		return big.NewInt(v)
	}
	return v
}

// callbackArg converts a raw engine value into the host representation for a
// user-defined function argument.
func callbackArg(raw any, useBigInts bool) any {
	if v, ok := raw.(int64); ok {
		return integerValue(v, useBigInts)
	}
	return raw
}

// callbackResult converts a user-defined function's return value into the
// engine's raw set.
func callbackResult(v any) (any, error) {
	switch v := v.(type) {
	case nil:
		return nil, nil
	case bool:
		if v {
			return int64(1), nil
		}
		return int64(0), nil
	case int:
		return int64(v), nil
	case int8:
		return int64(v), nil
	case int16:
		return int64(v), nil
	case int32:
		return int64(v), nil
	case int64:
		return v, nil
	case uint8:
		return int64(v), nil
	case uint16:
		return int64(v), nil
	case uint32:
		return int64(v), nil
	case uint64:
		if v <= math.MaxInt64 {
			return int64(v), nil
		}
		return new(big.Int).SetUint64(v).String(), nil
	case *big.Int:
		if v == nil {
			return nil, nil
		}
		if v.IsInt64() {
			return v.Int64(), nil
		}
		return v.String(), nil
	case float32:
		return float64(v), nil
	case float64:
		return v, nil
	case string:
		return v, nil
	case []byte:
		return v, nil
	default:
		return nil, fmt.Errorf("unsupported function result of type %T", v)
	}
}
