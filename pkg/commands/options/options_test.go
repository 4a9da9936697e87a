package options

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"tableflip.dev/tasks/pkg/store"
	"tableflip.dev/tasks/pkg/task"
)

func TestGetOrder(t *testing.T) {
	o := &SortOptions{}
	if got, err := o.GetOrder(); got != nil || err != nil {
		t.Fatalf("expected no order, got %v %v", got, err)
	}
	o.Sort = "created"
	if got, err := o.GetOrder(); err != nil || *got != task.ByCreatedDesc {
		t.Fatalf("expected created order, got %v %v", got, err)
	}
	o.Sort = "sideways"
	if _, err := o.GetOrder(); err == nil {
		t.Fatal("expected error for unknown order")
	}
}

func TestHandleError(t *testing.T) {
	boom := errors.New("boom")
	if err := (&OutputOptions{}).HandleError(boom); !errors.Is(err, boom) {
		t.Fatalf("expected error passed through, got %v", err)
	}

	var buf bytes.Buffer
	o := &OutputOptions{JSON: true, Out: &buf}
	if err := o.HandleError(fmt.Errorf("task 9: %w", store.ErrNotFound)); err != nil {
		t.Fatalf("expected error printed as JSON, got %v", err)
	}
	var got map[string]string
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("bad JSON %q: %v", buf.String(), err)
	}
	if got["kind"] != "not_found" || !strings.Contains(got["error"], "task 9") {
		t.Fatalf("unexpected JSON %v", got)
	}

	buf.Reset()
	if err := o.HandleError(boom); err != nil {
		t.Fatalf("expected error printed as JSON, got %v", err)
	}
	if strings.Contains(buf.String(), "kind") {
		t.Fatalf("plain errors have no kind, got %q", buf.String())
	}
}

func TestErrorKind(t *testing.T) {
	cases := map[error]string{
		fmt.Errorf("x: %w", store.ErrConstraint): "constraint",
		fmt.Errorf("x: %w", store.ErrIO):         "io",
		errors.New("other"):                      "",
	}
	for err, want := range cases {
		if got := ErrorKind(err); got != want {
			t.Fatalf("ErrorKind(%v) = %q, want %q", err, got, want)
		}
	}
}
