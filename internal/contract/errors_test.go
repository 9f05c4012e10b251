package contract

import (
	"errors"
	"strings"
	"testing"
)

func catch(fn func()) (err error) {
	defer func() {
		err = Recover(recover())
	}()
	fn()
	return nil
}

func TestRequire(t *testing.T) {
	if err := catch(func() { Require(true, "never") }); err != nil {
		t.Fatalf("unexpected violation: %v", err)
	}

	err := catch(func() { Require(false, "size %d must be positive", 0) })
	if !errors.Is(err, ErrPrecondition) {
		t.Fatalf("expected ErrPrecondition, got %v", err)
	}
	if !strings.Contains(err.Error(), "size 0 must be positive") {
		t.Errorf("condition missing from %q", err.Error())
	}
	if !strings.Contains(err.Error(), "errors_test.go") {
		t.Errorf("call site missing from %q", err.Error())
	}
}

func TestViolationKinds(t *testing.T) {
	tests := []struct {
		name string
		fn   func()
		want error
	}{
		{"ensure", func() { Ensure(false, "ratio in [0,1]") }, ErrPostcondition},
		{"in range", func() { InRange(false, "energy 1e9") }, ErrOutOfRange},
		{"unsupported", func() { Unsupported("pdf of discrete") }, ErrUnsupported},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := catch(tt.fn)
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestErrorf(t *testing.T) {
	err := Errorf("grid has %d points", 1)
	if !errors.Is(err, ErrPrecondition) {
		t.Fatalf("expected ErrPrecondition, got %v", err)
	}
	if err.Error() != "contract: precondition failed: grid has 1 points" {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestRecoverRepanicsForeignValues(t *testing.T) {
	defer func() {
		if r := recover(); r != "boom" {
			t.Errorf("expected foreign panic to propagate, got %v", r)
		}
	}()
	_ = catch(func() { panic("boom") })
}
