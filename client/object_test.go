package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestObject_Accessors(t *testing.T) {
	obj := Object{
		"symbol":    "BTC-USDT",
		"askRate":   "43215.90000000",
		"precision": json.Number("8"),
		"volume":    1.5,
		"createdAt": "2015-12-11T06:31:40.633Z",
		"active":    true,
	}

	if got := obj.String("symbol"); got != "BTC-USDT" {
		t.Errorf("exp BTC-USDT, got %q", got)
	}
	if got := obj.String("precision"); got != "" {
		t.Errorf("non-string fields should read as empty, got %q", got)
	}

	decimals := map[string]string{"askRate": "43215.9", "precision": "8", "volume": "1.5"}
	for key, exp := range decimals {
		d, err := obj.Decimal(key)
		if err != nil {
			t.Errorf("%s: %v", key, err)
			continue
		}
		if d.String() != exp {
			t.Errorf("%s: exp %s, got %s", key, exp, d)
		}
	}

	for _, key := range []string{"missing", "active"} {
		if _, err := obj.Decimal(key); err == nil {
			t.Errorf("%s: expected an error", key)
		}
	}

	created, err := obj.Time("createdAt")
	if err != nil {
		t.Fatal(err)
	}
	if exp := time.Date(2015, 12, 11, 6, 31, 40, 633_000_000, time.UTC); !created.Equal(exp) {
		t.Errorf("exp %v, got %v", exp, created)
	}
	if _, err := obj.Time("precision"); err == nil {
		t.Error("expected an error for a non-string timestamp")
	}
}

func TestIsEmpty(t *testing.T) {
	tests := []struct {
		val any
		exp bool
	}{
		{nil, true},
		{map[string]any{}, true},
		{[]any{}, true},
		{"", true},
		{false, true},
		{json.Number("0"), true},
		{json.Number("0.0"), true},
		{map[string]any{"code": "X"}, false},
		{[]any{map[string]any{}}, false},
		{"x", false},
		{true, false},
		{json.Number("1"), false},
	}

	for _, tc := range tests {
		t.Run(fmt.Sprintf("%#v", tc.val), func(t *testing.T) {
			if got := isEmpty(tc.val); got != tc.exp {
				t.Errorf("exp %v, got %v", tc.exp, got)
			}
		})
	}
}

func TestCheckResponse(t *testing.T) {
	tests := map[string]struct {
		val any
		exp error
	}{
		"nil":             {val: nil},
		"empty object":    {val: map[string]any{}},
		"array":           {val: []any{map[string]any{"code": "APIKEY_INVALID"}}},
		"no code":         {val: map[string]any{"message": "fine"}},
		"invalid key":     {val: map[string]any{"code": "APIKEY_INVALID", "message": "ignored"}, exp: ErrInvalidAuthentication},
		"with message":    {val: map[string]any{"code": "INSUFFICIENT_FUNDS", "message": "x"}, exp: &APIError{Code: "INSUFFICIENT_FUNDS", Message: "x"}},
		"without message": {val: map[string]any{"code": "INSUFFICIENT_FUNDS"}, exp: &APIError{Code: "INSUFFICIENT_FUNDS", Message: "Unknown error"}},
		"non string code": {val: map[string]any{"code": json.Number("42")}, exp: &APIError{Code: "42", Message: "Unknown error"}},
		"non string msg":  {val: map[string]any{"code": "X", "message": json.Number("1")}, exp: &APIError{Code: "X", Message: "Unknown error"}},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			err := checkResponse(tc.val)

			if tc.exp == nil {
				if err != nil {
					t.Errorf("exp nil err, got: %v", err)
				}
				return
			}

			var expAPI *APIError
			if errors.As(tc.exp, &expAPI) {
				var gotAPI *APIError
				if !errors.As(err, &gotAPI) {
					t.Fatalf("exp APIError, got: %v", err)
				}
				if diff := cmp.Diff(expAPI, gotAPI); diff != "" {
					t.Errorf("unexpected APIError (-exp +got):\n%s", diff)
				}
				return
			}

			if !errors.Is(err, tc.exp) {
				t.Errorf("exp %v, got: %v", tc.exp, err)
			}
		})
	}
}

func TestIndexBy(t *testing.T) {
	items := []Object{
		{"symbol": "A", "n": "1"},
		{"symbol": "B", "n": "2"},
		{"symbol": "A", "n": "3"},
	}

	tests := map[string]struct {
		want []string
		exp  map[string]Object
	}{
		"all": {
			exp: map[string]Object{"A": items[0], "B": items[1]},
		},
		"filtered": {
			want: []string{"B"},
			exp:  map[string]Object{"B": items[1]},
		},
		"missing omitted": {
			want: []string{"C", "A"},
			exp:  map[string]Object{"A": items[0]},
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			got := indexBy(items, "symbol", tc.want)
			if diff := cmp.Diff(tc.exp, got); diff != "" {
				t.Errorf("unexpected index (-exp +got):\n%s", diff)
			}
		})
	}

	got := indexBy(items, "symbol", []string{"A"})
	got["A"]["n"] = "changed"
	if items[0]["n"] != "1" {
		t.Error("indexed entries should be copies of the source objects")
	}
}

func TestOutcome(t *testing.T) {
	tests := map[string]error{
		"ok":              nil,
		"invalid_auth":    fmt.Errorf("get account: %w", ErrInvalidAuthentication),
		"api_error":       &APIError{Code: "X", Message: "y"},
		"bad_response":    &ResponseError{StatusCode: 502},
		"rest_error":      &RestError{Err: errors.New("boom")},
		"transport_error": errors.New("dial tcp: connection refused"),
	}

	for exp, err := range tests {
		if got := outcome(err); got != exp {
			t.Errorf("exp %s, got %s for %v", exp, got, err)
		}
	}
}
