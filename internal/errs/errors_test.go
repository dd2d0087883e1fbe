package errs

import (
	"errors"
	"fmt"
	"testing"
)

func TestNewCarriesCodeAndMessage(t *testing.T) {
	err := New(CodeGeometry, "target height %v not positive", -3.0)
	if err.Code != CodeGeometry {
		t.Fatalf("unexpected code: %s", err.Code)
	}
	if got := err.Error(); got != "GEOMETRY: target height -3 not positive" {
		t.Fatalf("unexpected message: %q", got)
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("disk full")
	err := Wrap(CodeWrite, cause, "write page image")
	if !errors.Is(err, cause) {
		t.Fatalf("cause lost from chain")
	}
	if !Is(err, CodeWrite) {
		t.Fatalf("code lost from chain")
	}
}

func TestIsMatchesThroughFmtWrapping(t *testing.T) {
	inner := New(CodeEncode, "png encode")
	outer := fmt.Errorf("export page 3: %w", inner)
	if !Is(outer, CodeEncode) {
		t.Fatalf("expected encode code through wrapped chain")
	}
	if Is(outer, CodeWrite) {
		t.Fatalf("matched wrong code")
	}
	if CodeOf(outer) != CodeEncode {
		t.Fatalf("CodeOf mismatch: %s", CodeOf(outer))
	}
}

func TestCodeOfUntyped(t *testing.T) {
	if CodeOf(errors.New("plain")) != "" {
		t.Fatalf("expected empty code for untyped error")
	}
}

func TestUserMessageStripsCode(t *testing.T) {
	err := New(CodeRender, "rasterizer gave up")
	if got := UserMessage(err); got != "rasterizer gave up" {
		t.Fatalf("unexpected user message: %q", got)
	}
	plain := errors.New("plain failure")
	if got := UserMessage(plain); got != "plain failure" {
		t.Fatalf("unexpected passthrough: %q", got)
	}
}
