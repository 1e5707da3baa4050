package flow

import (
	"reflect"
	"time"
)

// DefaultAction is the action a node's Post is taken to have returned when
// it returns the empty string (the normalized form of "null/absent").
const DefaultAction = "default"

// normalizeAction maps the empty string to DefaultAction and passes
// anything else through unchanged.
func normalizeAction(action string) string {
	if action == "" {
		return DefaultAction
	}
	return action
}

// toSlice converts prep's dynamic value into an ordered []interface{} for
// batch processing. A nil prep yields an empty (not single-element) slice,
// matching the "empty prep yields an empty exec sequence" invariant.
func toSlice(prep interface{}) []interface{} {
	if prep == nil {
		return nil
	}
	if s, ok := prep.([]interface{}); ok {
		return s
	}
	v := reflect.ValueOf(prep)
	if v.Kind() != reflect.Slice && v.Kind() != reflect.Array {
		return nil
	}
	out := make([]interface{}, v.Len())
	for i := 0; i < v.Len(); i++ {
		out[i] = v.Index(i).Interface()
	}
	return out
}

// execItemWithRetry runs execFn up to maxRetries times (maxRetries < 1 is
// treated as 1, i.e. no retry), invoking fallbackFn once after the final
// failed attempt. attemptSink, if non-nil, is updated with the zero-based
// attempt index before each call so exec can observe it — callers that
// fan work out across goroutines must not share an attemptSink between
// concurrent invocations.
func execItemWithRetry(
	maxRetries int,
	wait time.Duration,
	execFn func(interface{}) (interface{}, error),
	fallbackFn func(interface{}, error) (interface{}, error),
	prep interface{},
	attemptSink *int,
) (interface{}, error) {
	max := maxRetries
	if max < 1 {
		max = 1
	}
	var lastErr error
	for attempt := 0; attempt < max; attempt++ {
		if attemptSink != nil {
			*attemptSink = attempt
		}
		if execFn == nil {
			return nil, nil
		}
		res, err := execFn(prep)
		if err == nil {
			return res, nil
		}
		lastErr = err
		if attempt == max-1 {
			if fallbackFn != nil {
				return fallbackFn(prep, err)
			}
			return nil, err
		}
		if wait > 0 {
			time.Sleep(wait)
		}
	}
	return nil, lastErr
}
