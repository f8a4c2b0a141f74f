// Package jsonhttptest issues requests against JSON HTTP handlers in tests
// and asserts on the responses.
package jsonhttptest

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type Option interface {
	apply(*options)
}

type optionFunc func(*options)

func (f optionFunc) apply(o *options) { f(o) }

type options struct {
	header           http.Header
	expectedResponse interface{}
	unmarshalTarget  interface{}
	expectedHeader   http.Header
}

// WithRequestHeader adds a header to the request.
func WithRequestHeader(key, value string) Option {
	return optionFunc(func(o *options) {
		if o.header == nil {
			o.header = make(http.Header)
		}
		o.header.Add(key, value)
	})
}

// WithExpectedJSONResponse compares the response body, decoded as JSON,
// with response after it went through a JSON round trip.
func WithExpectedJSONResponse(response interface{}) Option {
	return optionFunc(func(o *options) {
		o.expectedResponse = response
	})
}

// WithUnmarshalJSONResponse decodes the response body into v.
func WithUnmarshalJSONResponse(v interface{}) Option {
	return optionFunc(func(o *options) {
		o.unmarshalTarget = v
	})
}

// WithExpectedResponseHeader asserts that the response carries the header.
func WithExpectedResponseHeader(key, value string) Option {
	return optionFunc(func(o *options) {
		if o.expectedHeader == nil {
			o.expectedHeader = make(http.Header)
		}
		o.expectedHeader.Add(key, value)
	})
}

// Request sends a request without a body and checks the status code and
// every expectation given through opts. It returns the response header.
func Request(t testing.TB, client *http.Client, method, url string, responseCode int, opts ...Option) http.Header {
	t.Helper()

	var o options
	for _, opt := range opts {
		opt.apply(&o)
	}

	req, err := http.NewRequest(method, url, nil)
	if err != nil {
		t.Fatal(err)
	}
	for k, vs := range o.header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	resp, err := client.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	got, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}

	if resp.StatusCode != responseCode {
		t.Errorf("got response status %s, want %v %s: %s", resp.Status, responseCode, http.StatusText(responseCode), got)
	}

	for k, vs := range o.expectedHeader {
		if g := resp.Header.Get(k); g != vs[0] {
			t.Errorf("got header %s %q, want %q", k, g, vs[0])
		}
	}

	if o.expectedResponse != nil {
		want, err := json.Marshal(o.expectedResponse)
		if err != nil {
			t.Fatal(err)
		}
		var wantV, gotV interface{}
		if err := json.Unmarshal(want, &wantV); err != nil {
			t.Fatal(err)
		}
		if err := json.Unmarshal(bytes.TrimSpace(got), &gotV); err != nil {
			t.Fatalf("response is not json: %v: %s", err, got)
		}
		if diff := cmp.Diff(wantV, gotV); diff != "" {
			t.Errorf("response mismatch (-want +got):\n%s", diff)
		}
	}

	if o.unmarshalTarget != nil {
		if err := json.Unmarshal(got, o.unmarshalTarget); err != nil {
			t.Fatalf("unmarshal response: %v: %s", err, got)
		}
	}

	return resp.Header
}
