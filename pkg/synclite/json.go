package synclite

import (
	"math/big"

	json "github.com/goccy/go-json"
)

// MarshalJSON renders the row as a JSON object in column order, or as an
// array for array-shaped rows. Integers outside the exact range are emitted
// as bare number literals rather than strings, so the digits survive into
// any consumer that parses arbitrary-precision numbers.
func (r *Row) MarshalJSON() ([]byte, error) {
	vals := make([]any, len(r.vals))
	for i, v := range r.vals {
		if b, ok := v.(*big.Int); ok {
			vals[i] = json.RawMessage(b.String())
			continue
		}
		vals[i] = v
	}
	if r.cols == nil {
		return json.Marshal(vals)
	}

	buf := []byte{'{'}
	for i, name := range r.cols {
		if i > 0 {
			buf = append(buf, ',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		buf = append(buf, key...)
		buf = append(buf, ':')
		val, err := json.Marshal(vals[i])
		if err != nil {
			return nil, err
		}
		buf = append(buf, val...)
	}
	return append(buf, '}'), nil
}
