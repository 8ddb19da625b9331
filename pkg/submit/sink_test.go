package submit

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formwizard/pkg/model"
)

func TestHTTPSink(t *testing.T) {
	var got map[string]any
	var token string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			http.Error(w, "bad", http.StatusBadRequest)
			return
		}
		if got["name"] == "reject" {
			http.Error(w, "nope", http.StatusUnprocessableEntity)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	sink, err := NewHTTPSink(srv.URL, WithClient(srv.Client()), WithHeader("Authorization", "Bearer t"))
	if err != nil {
		t.Fatalf("new sink: %v", err)
	}

	values := model.FormValues{"name": "Ada", "terms": true}
	if err := sink.Submit(context.Background(), values); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if diff := cmp.Diff(map[string]any{"name": "Ada", "terms": true}, got); diff != "" {
		t.Fatalf("payload mismatch (-want +got):\n%s", diff)
	}
	if token != "Bearer t" {
		t.Fatalf("authorization header = %q", token)
	}

	err = sink.Submit(context.Background(), model.FormValues{"name": "reject"})
	if !errors.Is(err, ErrSink) {
		t.Fatalf("expected ErrSink, got %v", err)
	}
}

func TestNewHTTPSink_RejectsScheme(t *testing.T) {
	if _, err := NewHTTPSink("file:///tmp/out"); err == nil {
		t.Fatalf("expected error")
	}
}

func TestWriterSink(t *testing.T) {
	var buf bytes.Buffer
	sink := NewWriterSink(&buf, false)
	if err := sink.Submit(context.Background(), model.FormValues{"b": "2", "a": "1"}); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if got, want := buf.String(), "{\"a\":\"1\",\"b\":\"2\"}\n"; got != want {
		t.Fatalf("output = %q, want %q", got, want)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := sink.Submit(ctx, model.FormValues{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestRecorder_CopiesValues(t *testing.T) {
	var rec Recorder
	values := model.FormValues{"name": "Ada"}
	if err := rec.Submit(context.Background(), values); err != nil {
		t.Fatalf("submit: %v", err)
	}
	values["name"] = "changed"

	want := []model.FormValues{{"name": "Ada"}}
	if diff := cmp.Diff(want, rec.Submissions()); diff != "" {
		t.Fatalf("submissions mismatch (-want +got):\n%s", diff)
	}
}

func TestFunc(t *testing.T) {
	called := false
	sink := Func(func(context.Context, model.FormValues) error {
		called = true
		return nil
	})
	if err := sink.Submit(context.Background(), nil); err != nil || !called {
		t.Fatalf("func sink not called: %v", err)
	}
}
