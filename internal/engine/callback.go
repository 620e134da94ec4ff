package engine

/*
#include <sqlite3.h>

void synclite_result_text(sqlite3_context *ctx, const char *p, int n);
void synclite_result_blob(sqlite3_context *ctx, const void *p, int n);
*/
import "C"

import (
	"fmt"
	"unsafe"
)

//export synclite_func_tramp
func synclite_func_tramp(ctx *C.sqlite3_context, argc C.int, argv **C.sqlite3_value) {
	fi, ok := lookupHandle(uintptr(C.sqlite3_user_data(ctx))).(*funcInfo)
	if !ok {
		resultError(ctx, "function registration is no longer valid")
		return
	}
	res, err := fi.fn(callbackArgs(argc, argv))
	if err != nil {
		resultError(ctx, err.Error())
		return
	}
	setResult(ctx, res)
}

//export synclite_step_tramp
func synclite_step_tramp(ctx *C.sqlite3_context, argc C.int, argv **C.sqlite3_value) {
	ai, ok := lookupHandle(uintptr(C.sqlite3_user_data(ctx))).(*aggInfo)
	if !ok {
		resultError(ctx, "aggregate registration is no longer valid")
		return
	}
	st := aggregateState(ctx, ai, true)
	if st == nil {
		C.sqlite3_result_error_nomem(ctx)
		return
	}
	acc, err := ai.def.Step(st.acc, callbackArgs(argc, argv))
	if err != nil {
		resultError(ctx, err.Error())
		return
	}
	st.acc = acc
}

//export synclite_final_tramp
func synclite_final_tramp(ctx *C.sqlite3_context) {
	ai, ok := lookupHandle(uintptr(C.sqlite3_user_data(ctx))).(*aggInfo)
	if !ok {
		resultError(ctx, "aggregate registration is no longer valid")
		return
	}
	var acc any
	if st := aggregateState(ctx, ai, false); st != nil {
		acc = st.acc
		deleteHandle(st.handle)
	} else {
		// Aggregate over an empty set: Final still runs over a fresh
		// accumulator.
		acc = ai.def.Start()
	}
	res, err := ai.def.Final(acc)
	if err != nil {
		resultError(ctx, err.Error())
		return
	}
	setResult(ctx, res)
}

//export synclite_destroy_tramp
func synclite_destroy_tramp(p unsafe.Pointer) {
	deleteHandle(uintptr(p))
}

// aggregateState fetches the per-aggregation accumulator stashed in the
// engine's aggregate context, allocating it on first use when create is set.
func aggregateState(ctx *C.sqlite3_context, ai *aggInfo, create bool) *aggState {
	size := C.int(0)
	if create {
		size = C.int(unsafe.Sizeof(uintptr(0)))
	}
	p := C.sqlite3_aggregate_context(ctx, size)
	if p == nil {
		return nil
	}
	hp := (*uintptr)(p)
	if *hp == 0 {
		if !create {
			return nil
		}
		st := &aggState{acc: ai.def.Start()}
		st.handle = newHandle(st)
		*hp = st.handle
	}
	st, _ := lookupHandle(*hp).(*aggState)
	return st
}

// callbackArgs converts the engine's argument vector into raw Go values.
func callbackArgs(argc C.int, argv **C.sqlite3_value) []any {
	vals := unsafe.Slice(argv, int(argc))
	args := make([]any, len(vals))
	for i, v := range vals {
		switch C.sqlite3_value_type(v) {
		case C.SQLITE_INTEGER:
			args[i] = int64(C.sqlite3_value_int64(v))
		case C.SQLITE_FLOAT:
			args[i] = float64(C.sqlite3_value_double(v))
		case C.SQLITE_TEXT:
			p := C.sqlite3_value_text(v)
			n := C.sqlite3_value_bytes(v)
			args[i] = C.GoStringN((*C.char)(unsafe.Pointer(p)), n)
		case C.SQLITE_BLOB:
			p := C.sqlite3_value_blob(v)
			n := C.sqlite3_value_bytes(v)
			if p == nil || n == 0 {
				args[i] = []byte{}
			} else {
				args[i] = C.GoBytes(p, n)
			}
		default:
			args[i] = nil
		}
	}
	return args
}

// setResult writes a raw Go value back as the call's result. Values outside
// the raw set report an error to the invoking statement rather than
// panicking across the C boundary.
func setResult(ctx *C.sqlite3_context, v any) {
	switch v := v.(type) {
	case nil:
		C.sqlite3_result_null(ctx)
	case int64:
		C.sqlite3_result_int64(ctx, C.sqlite3_int64(v))
	case float64:
		C.sqlite3_result_double(ctx, C.double(v))
	case string:
		if len(v) == 0 {
			C.synclite_result_text(ctx, nil, 0)
			return
		}
		b := []byte(v)
		C.synclite_result_text(ctx, (*C.char)(unsafe.Pointer(&b[0])), C.int(len(b)))
	case []byte:
		if len(v) == 0 {
			C.synclite_result_blob(ctx, nil, 0)
			return
		}
		C.synclite_result_blob(ctx, unsafe.Pointer(&v[0]), C.int(len(v)))
	default:
		resultError(ctx, fmt.Sprintf("unsupported function result type %T", v))
	}
}

func resultError(ctx *C.sqlite3_context, msg string) {
	b := append([]byte(msg), 0)
	C.sqlite3_result_error(ctx, (*C.char)(unsafe.Pointer(&b[0])), C.int(len(msg)))
}
