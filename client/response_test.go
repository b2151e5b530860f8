package client_test

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/adamwoolhether/bittrex/client"
)

func TestClient_ResponseHandling(t *testing.T) {
	tests := map[string]struct {
		contentType string
		status      int
		body        string
		check       func(t *testing.T, obj client.Object, err error)
	}{
		"invalid api key": {
			contentType: "application/json",
			status:      http.StatusUnauthorized,
			body:        `{"code":"APIKEY_INVALID"}`,
			check: func(t *testing.T, _ client.Object, err error) {
				if !errors.Is(err, client.ErrInvalidAuthentication) {
					t.Errorf("expected ErrInvalidAuthentication, got: %v", err)
				}
				if !errors.Is(err, client.ErrRest) {
					t.Errorf("expected all exchange errors to match ErrRest, got: %v", err)
				}
				var apiErr *client.APIError
				if errors.As(err, &apiErr) {
					t.Error("an authentication failure should not be an APIError")
				}
			},
		},
		"api error with message": {
			contentType: "application/json",
			status:      http.StatusBadRequest,
			body:        `{"code":"SOMETHING_ELSE","message":"x"}`,
			check: func(t *testing.T, _ client.Object, err error) {
				checkAPIError(t, err, "SOMETHING_ELSE", "x")
			},
		},
		"api error without message": {
			contentType: "application/json",
			status:      http.StatusBadRequest,
			body:        `{"code":"SOMETHING_ELSE"}`,
			check: func(t *testing.T, _ client.Object, err error) {
				checkAPIError(t, err, "SOMETHING_ELSE", "Unknown error")
			},
		},
		"api error with empty message": {
			contentType: "application/json",
			status:      http.StatusOK,
			body:        `{"code":"MARKET_OFFLINE","message":""}`,
			check: func(t *testing.T, _ client.Object, err error) {
				checkAPIError(t, err, "MARKET_OFFLINE", "Unknown error")
			},
		},
		"non json content type": {
			contentType: "text/html",
			status:      http.StatusBadGateway,
			body:        `<html>bad gateway</html>`,
			check: func(t *testing.T, _ client.Object, err error) {
				var respErr *client.ResponseError
				if !errors.As(err, &respErr) {
					t.Fatalf("expected a ResponseError, got: %v", err)
				}
				exp := client.ResponseError{StatusCode: http.StatusBadGateway, Body: `<html>bad gateway</html>`}
				if diff := cmp.Diff(exp, *respErr); diff != "" {
					t.Errorf("unexpected response error (-exp +got):\n%s", diff)
				}
				if !errors.Is(err, client.ErrUnexpectedResponse) {
					t.Errorf("expected ErrUnexpectedResponse, got: %v", err)
				}
				if got := respErr.Error(); got != `[502] "<html>bad gateway</html>"` {
					t.Errorf("unexpected error string %s", got)
				}
			},
		},
		"json body without content type": {
			status: http.StatusOK,
			body:   `{"accountId":"abc"}`,
			check: func(t *testing.T, _ client.Object, err error) {
				var respErr *client.ResponseError
				if !errors.As(err, &respErr) {
					t.Fatalf("expected a ResponseError for a sniffed text/plain body, got: %v", err)
				}
			},
		},
		"json with charset": {
			contentType: "application/json; charset=utf-8",
			status:      http.StatusOK,
			body:        `{"accountId":"abc"}`,
			check: func(t *testing.T, obj client.Object, err error) {
				if err != nil {
					t.Fatalf("expected no error, got: %v", err)
				}
				if obj.String("accountId") != "abc" {
					t.Errorf("unexpected object %v", obj)
				}
			},
		},
		"malformed json": {
			contentType: "application/json",
			status:      http.StatusOK,
			body:        `{"accountId":`,
			check: func(t *testing.T, _ client.Object, err error) {
				var restErr *client.RestError
				if !errors.As(err, &restErr) {
					t.Fatalf("expected a RestError, got: %v", err)
				}
				if !errors.Is(err, client.ErrRest) {
					t.Errorf("expected ErrRest, got: %v", err)
				}
				if !strings.Contains(err.Error(), "unknown exception") {
					t.Errorf("expected the decoder failure description, got: %v", err)
				}
			},
		},
		"trailing data": {
			contentType: "application/json",
			status:      http.StatusOK,
			body:        `{"accountId":"abc"}<html>oops</html>`,
			check: func(t *testing.T, obj client.Object, err error) {
				var restErr *client.RestError
				if !errors.As(err, &restErr) {
					t.Fatalf("expected a RestError, got: %v", err)
				}
				if obj != nil {
					t.Errorf("expected no result alongside the error, got %v", obj)
				}
			},
		},
		"trailing second value": {
			contentType: "application/json",
			status:      http.StatusOK,
			body:        `{"accountId":"abc"} {"accountId":"def"}`,
			check: func(t *testing.T, _ client.Object, err error) {
				var restErr *client.RestError
				if !errors.As(err, &restErr) {
					t.Fatalf("expected a RestError, got: %v", err)
				}
			},
		},
		"trailing whitespace": {
			contentType: "application/json",
			status:      http.StatusOK,
			body:        "{\"accountId\":\"abc\"}\n\t ",
			check: func(t *testing.T, obj client.Object, err error) {
				if err != nil {
					t.Fatalf("expected no error, got: %v", err)
				}
				if obj.String("accountId") != "abc" {
					t.Errorf("expected accountId abc, got %v", obj)
				}
			},
		},
		"empty body": {
			contentType: "application/json",
			status:      http.StatusOK,
			check: func(t *testing.T, obj client.Object, err error) {
				if err != nil || obj != nil {
					t.Errorf("expected a nil result and no error, got %v, %v", obj, err)
				}
			},
		},
		"empty object": {
			contentType: "application/json",
			status:      http.StatusOK,
			body:        `{}`,
			check: func(t *testing.T, obj client.Object, err error) {
				if err != nil {
					t.Fatalf("expected no error, got: %v", err)
				}
				if diff := cmp.Diff(client.Object{}, obj); diff != "" {
					t.Errorf("expected the empty object unchanged (-exp +got):\n%s", diff)
				}
			},
		},
		"null": {
			contentType: "application/json",
			status:      http.StatusOK,
			body:        `null`,
			check: func(t *testing.T, obj client.Object, err error) {
				if err != nil || obj != nil {
					t.Errorf("expected a nil result and no error, got %v, %v", obj, err)
				}
			},
		},
		"array where object expected": {
			contentType: "application/json",
			status:      http.StatusOK,
			body:        `[{"accountId":"abc"}]`,
			check: func(t *testing.T, _ client.Object, err error) {
				var restErr *client.RestError
				if !errors.As(err, &restErr) {
					t.Errorf("expected a RestError, got: %v", err)
				}
			},
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if tc.contentType != "" {
					w.Header().Set("Content-Type", tc.contentType)
				}
				w.WriteHeader(tc.status)
				fmt.Fprint(w, tc.body)
			}))
			defer ts.Close()

			c := build(t, client.WithBaseURL(ts.URL))

			obj, err := c.Account(t.Context())
			tc.check(t, obj, err)
		})
	}
}

func checkAPIError(t *testing.T, err error, code, message string) {
	t.Helper()

	var apiErr *client.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected an APIError, got: %v", err)
	}

	exp := client.APIError{Code: code, Message: message}
	if diff := cmp.Diff(exp, *apiErr); diff != "" {
		t.Errorf("unexpected api error (-exp +got):\n%s", diff)
	}
	if !errors.Is(err, client.ErrAPI) || !errors.Is(err, client.ErrRest) {
		t.Errorf("expected ErrAPI and ErrRest to match, got: %v", err)
	}
	if errors.Is(err, client.ErrInvalidAuthentication) {
		t.Errorf("a generic api error must not match ErrInvalidAuthentication")
	}
}

func TestClient_ListShapes(t *testing.T) {
	tests := map[string]struct {
		body   string
		exp    []client.Object
		expErr bool
	}{
		"empty array": {
			body: `[]`,
			exp:  []client.Object{},
		},
		"object where array expected": {
			body:   `{"symbol":"BTC-USDT"}`,
			expErr: true,
		},
		"non object element": {
			body:   `[{"symbol":"BTC-USDT"},1]`,
			expErr: true,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			fx := newFakeExchange(t, map[string]string{"markets": tc.body})
			c := build(t, client.WithBaseURL(fx.url()))

			got, err := c.Markets(t.Context())
			if tc.expErr {
				var restErr *client.RestError
				if !errors.As(err, &restErr) {
					t.Errorf("expected a RestError, got: %v", err)
				}
				return
			}

			if err != nil {
				t.Fatalf("expected no error, got: %v", err)
			}
			if diff := cmp.Diff(tc.exp, got); diff != "" {
				t.Errorf("unexpected markets (-exp +got):\n%s", diff)
			}
		})
	}
}

func TestClient_ResponseErrorBodyCapped(t *testing.T) {
	large := strings.Repeat("x", 16<<10)

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusServiceUnavailable)
		fmt.Fprint(w, large)
	}))
	defer ts.Close()

	c := build(t, client.WithBaseURL(ts.URL))

	_, err := c.Markets(t.Context())

	var respErr *client.ResponseError
	if !errors.As(err, &respErr) {
		t.Fatalf("expected a ResponseError, got: %v", err)
	}
	if len(respErr.Body) != 4<<10 {
		t.Errorf("expected the body to be capped at 4KB, got %d bytes", len(respErr.Body))
	}
	if respErr.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("expected status 503, got %d", respErr.StatusCode)
	}
}
