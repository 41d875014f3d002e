package testkit

import (
	"os"
	"testing"
)

func TestMustPanic(t *testing.T) {
	t.Parallel()

	MustPanic(t, func() {
		panic("boom")
	})
}

func TestMustNotPanic(t *testing.T) {
	t.Parallel()

	MustNotPanic(t, func() {
		// no panic
	})
}

func TestMustContain(t *testing.T) {
	t.Parallel()

	haystack := "alpha beta gamma"
	MustContain(t, haystack, "beta")
}

func TestWriteFile(t *testing.T) {
	t.Parallel()

	p := WriteFile(t, "sample.pdf", []byte("%PDF-1.4"))
	b, err := os.ReadFile(p)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(b) != "%PDF-1.4" {
		t.Fatalf("contents = %q", b)
	}
}
