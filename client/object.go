package client

import (
	"encoding/json"
	"fmt"
	"maps"
	"time"

	"github.com/shopspring/decimal"
)

// Object is a single decoded JSON object from the exchange.
// Numbers are held as [json.Number].
type Object map[string]any

// String returns the field as a string, or "" if absent or not a string.
func (o Object) String(key string) string {
	s, _ := o[key].(string)
	return s
}

// Decimal parses the field as a decimal. The exchange sends rates and
// quantities as JSON strings, but plain JSON numbers are accepted too.
func (o Object) Decimal(key string) (decimal.Decimal, error) {
	switch v := o[key].(type) {
	case string:
		return decimal.NewFromString(v)
	case json.Number:
		return decimal.NewFromString(v.String())
	case float64:
		return decimal.NewFromFloat(v), nil
	case nil:
		return decimal.Zero, fmt.Errorf("field %q: missing", key)
	default:
		return decimal.Zero, fmt.Errorf("field %q: unexpected type %T", key, v)
	}
}

// Time parses the field as an RFC 3339 timestamp.
func (o Object) Time(key string) (time.Time, error) {
	s, ok := o[key].(string)
	if !ok {
		return time.Time{}, fmt.Errorf("field %q: not a timestamp", key)
	}

	return time.Parse(time.RFC3339Nano, s)
}

// isEmpty reports whether a decoded value is empty or falsy.
func isEmpty(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case map[string]any:
		return len(val) == 0
	case []any:
		return len(val) == 0
	case string:
		return val == ""
	case bool:
		return !val
	case json.Number:
		f, err := val.Float64()
		return err == nil && f == 0
	}

	return false
}

func asObject(v any) (Object, error) {
	switch val := v.(type) {
	case nil:
		return nil, nil
	case map[string]any:
		return Object(val), nil
	}

	if isEmpty(v) {
		return nil, nil
	}

	return nil, &RestError{Err: fmt.Errorf("expected a JSON object, got %T", v)}
}

func asObjects(v any) ([]Object, error) {
	switch val := v.(type) {
	case nil:
		return nil, nil
	case []any:
		objs := make([]Object, 0, len(val))
		for i, elem := range val {
			m, ok := elem.(map[string]any)
			if !ok {
				return nil, &RestError{Err: fmt.Errorf("element %d: expected a JSON object, got %T", i, elem)}
			}
			objs = append(objs, Object(m))
		}
		return objs, nil
	}

	if isEmpty(v) {
		return nil, nil
	}

	return nil, &RestError{Err: fmt.Errorf("expected a JSON array, got %T", v)}
}

// indexBy keys the first entry matching each wanted value of field.
// With no wanted values, every entry's field value is used in order.
// Wanted values missing from items are left out of the result.
func indexBy(items []Object, field string, want []string) map[string]Object {
	if len(want) == 0 {
		want = make([]string, 0, len(items))
		for _, item := range items {
			want = append(want, item.String(field))
		}
	}

	results := make(map[string]Object, len(want))
	for _, key := range want {
		if _, ok := results[key]; ok {
			continue
		}

		for _, item := range items {
			if item.String(field) == key {
				results[key] = maps.Clone(item)
				break
			}
		}
	}

	return results
}
