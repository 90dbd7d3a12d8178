package app

import (
	"errors"
	"testing"
)

func TestComponentError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *ComponentError
		expected string
	}{
		{"nil error", nil, ""},
		{"component only", &ComponentError{Component: "colors"}, "colors"},
		{"component and action", &ComponentError{Component: "watcher", Action: "start"}, "watcher: start"},
		{"component and err", &ComponentError{Component: "colors", Err: errors.New("io")}, "colors: io"},
		{"full", NewComponentError("watcher", "start", errors.New("no dir")), "watcher: start: no dir"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestComponentError_Unwrap(t *testing.T) {
	inner := errors.New("inner")
	err := NewComponentError("colors", "save", inner)

	if !errors.Is(err, inner) {
		t.Error("expected errors.Is to find the wrapped error")
	}

	var nilErr *ComponentError
	if nilErr.Unwrap() != nil {
		t.Error("expected nil Unwrap on nil receiver")
	}
}

func TestInitError(t *testing.T) {
	inner := errors.New("no such file")
	err := &InitError{Component: "catalog", Err: inner}

	if err.Error() != "init catalog: no such file" {
		t.Errorf("Error() = %q", err.Error())
	}
	if !errors.Is(err, ErrInitialization) {
		t.Error("expected InitError to match ErrInitialization")
	}
	if !errors.Is(err, inner) {
		t.Error("expected InitError to unwrap")
	}
}

func TestErrorList(t *testing.T) {
	var list ErrorList
	if list.AsError() != nil {
		t.Error("expected nil AsError for empty list")
	}

	list.Add(nil)
	if list.Len() != 0 {
		t.Error("nil errors must be ignored")
	}

	first := errors.New("first")
	list.Add(first)
	if list.Error() != "first" {
		t.Errorf("Error() = %q", list.Error())
	}

	list.Add(ErrNotRunning)
	if list.Error() != "2 errors: first: first" {
		t.Errorf("Error() = %q", list.Error())
	}

	err := list.AsError()
	if !errors.Is(err, first) || !errors.Is(err, ErrNotRunning) {
		t.Error("expected errors.Is to see every collected error")
	}
}
