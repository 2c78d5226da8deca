package errors

import (
	"errors"
	"testing"
	"time"
)

func TestSkiffErrorString(t *testing.T) {
	err := &SkiffError{
		Op:   "test.operation",
		Kind: KindInvalidEvent,
		Err:  &DecodeError{EventType: 42, DataType: "TestEvent"},
	}
	got := err.Error()
	if got == "" {
		t.Error("expected non-empty error string")
	}
	if !contains(got, "invalid-event") {
		t.Errorf("error string %q should contain kind", got)
	}
}

func TestSkiffErrorWithPath(t *testing.T) {
	err := &SkiffError{
		Op:   "vnode.Validate",
		Kind: KindDuplicateKey,
		Path: "0/2",
		Err:  errors.New("duplicate sibling key \"row\""),
	}
	got := err.Error()
	want := "path=0/2"
	if !contains(got, want) {
		t.Errorf("error string %q should contain %q", got, want)
	}
}

func TestErrorKindString(t *testing.T) {
	tests := []struct {
		kind ErrorKind
		want string
	}{
		{KindUnknown, "unknown"},
		{KindUninitialized, "uninitialized"},
		{KindInvalidEvent, "invalid-event"},
		{KindInvalidArgument, "invalid-argument"},
		{KindDuplicateKey, "duplicate-key"},
		{KindBufferTooSmall, "buffer-too-small"},
		{KindSerialization, "serialization"},
		{KindPanic, "panic"},
		{KindBuild, "build"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("ErrorKind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestKindOf(t *testing.T) {
	inner := E("store.Apply", KindInvalidEvent, errors.New("no active channel"))
	wrapped := &SkiffError{Op: "runtime.Dispatch", Kind: KindUnknown, Err: inner}

	if got := KindOf(inner); got != KindInvalidEvent {
		t.Errorf("KindOf(inner) = %v, want KindInvalidEvent", got)
	}
	// Outermost kind wins.
	if got := KindOf(wrapped); got != KindUnknown {
		t.Errorf("KindOf(wrapped) = %v, want KindUnknown", got)
	}
	if got := KindOf(errors.New("plain")); got != KindUnknown {
		t.Errorf("KindOf(plain) = %v, want KindUnknown", got)
	}
	if got := KindOf(nil); got != KindUnknown {
		t.Errorf("KindOf(nil) = %v, want KindUnknown", got)
	}
}

func TestPanicErrorString(t *testing.T) {
	err := &PanicError{
		Value:     "test panic",
		Timestamp: time.Now(),
	}
	got := err.Error()
	want := "panic: test panic"
	if got != want {
		t.Errorf("PanicError.Error() = %q, want %q", got, want)
	}
}

func TestPanicErrorStringWithOp(t *testing.T) {
	err := &PanicError{
		Op:        "runtime.buildTree",
		Value:     "test panic",
		Timestamp: time.Now(),
	}
	got := err.Error()
	want := "panic in runtime.buildTree: test panic"
	if got != want {
		t.Errorf("PanicError.Error() = %q, want %q", got, want)
	}
}

func TestDecodeErrorString(t *testing.T) {
	err := &DecodeError{
		EventType: 7,
		DataType:  "SelectChannel",
		Err:       errors.New("unexpected end of JSON input"),
	}
	got := err.Error()
	if got == "" {
		t.Error("expected non-empty error string")
	}
	if !contains(got, "SelectChannel") {
		t.Errorf("error string %q should name the payload type", got)
	}
}

type testHandler struct {
	onError func(err *SkiffError)
	onPanic func(err *PanicError)
}

func (h *testHandler) HandleError(err *SkiffError) {
	if h.onError != nil {
		h.onError(err)
	}
}

func (h *testHandler) HandlePanic(err *PanicError) {
	if h.onPanic != nil {
		h.onPanic(err)
	}
}

func TestReport(t *testing.T) {
	var captured *SkiffError
	handler := &testHandler{
		onError: func(err *SkiffError) {
			captured = err
		},
	}

	oldHandler := DefaultHandler
	SetHandler(handler)
	defer SetHandler(oldHandler)

	Report(&SkiffError{
		Op:   "test.op",
		Kind: KindSerialization,
		Err:  errors.New("bad encode"),
	})

	if captured == nil {
		t.Fatal("expected error to be captured")
	}
	if captured.Op != "test.op" {
		t.Errorf("Op = %q, want %q", captured.Op, "test.op")
	}
	if captured.Timestamp.IsZero() {
		t.Error("expected Timestamp to be set")
	}
}

func TestReportNil(t *testing.T) {
	// Must not panic.
	Report(nil)
	ReportPanic(nil)
}

func TestRecover(t *testing.T) {
	var captured *PanicError
	handler := &testHandler{
		onPanic: func(err *PanicError) {
			captured = err
		},
	}

	oldHandler := DefaultHandler
	SetHandler(handler)
	defer SetHandler(oldHandler)

	func() {
		defer Recover("test.panicking")
		panic("boom")
	}()

	if captured == nil {
		t.Fatal("expected panic to be captured")
	}
	if captured.Op != "test.panicking" {
		t.Errorf("Op = %q, want %q", captured.Op, "test.panicking")
	}
	if captured.Value != "boom" {
		t.Errorf("Value = %v, want %q", captured.Value, "boom")
	}
	if captured.StackTrace == "" {
		t.Error("expected stack trace to be captured")
	}
}

func TestSetHandlerNilRestoresDefault(t *testing.T) {
	oldHandler := DefaultHandler
	defer SetHandler(oldHandler)

	SetHandler(nil)
	if _, ok := DefaultHandler.(*LogHandler); !ok {
		t.Errorf("expected LogHandler after SetHandler(nil), got %T", DefaultHandler)
	}
}

func contains(s, substr string) bool {
	return len(s) >= len(substr) && searchString(s, substr)
}

func searchString(s, substr string) bool {
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}
