// Package testkit holds the assertions and seam helpers shared by sentibot tests
package testkit

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// MustPanic fails unless fn panics and returns the recovered value
func MustPanic(t *testing.T, fn func()) (recovered any) {
	t.Helper()
	defer func() {
		recovered = recover()
		if recovered == nil {
			t.Fatalf("expected panic, got none")
		}
	}()
	fn()
	return nil
}

// MustNotPanic fails if fn panics
func MustNotPanic(t *testing.T, fn func()) {
	t.Helper()
	defer func() {
		if r := recover(); r != nil {
			t.Fatalf("unexpected panic: %v", r)
		}
	}()
	fn()
}

// MustContain fails unless haystack contains needle
// long output is dumped under the test's temp dir so the failure line stays readable
func MustContain(t *testing.T, haystack, needle string) {
	t.Helper()
	if strings.Contains(haystack, needle) {
		return
	}
	if len(haystack) <= 200 {
		t.Fatalf("%q does not contain %q", haystack, needle)
	}
	dump := filepath.Join(t.TempDir(), strings.ReplaceAll(t.Name(), "/", "_")+".out")
	_ = os.WriteFile(dump, []byte(haystack), 0o600)
	t.Fatalf("output does not contain %q; full output in %s", needle, dump)
}
