package chip8

import (
	"errors"
	"testing"
)

func TestStackPushPopLIFO(t *testing.T) {
	var s stack

	for n := 0; n < stackSize; n++ {
		if err := s.push(uint16(n)); err != nil {
			t.Fatalf("push(%d) returned error: %v", n, err)
		}
	}

	var overflow *StackError
	if err := s.push(0); !errors.As(err, &overflow) || overflow.Kind != Overflow {
		t.Fatalf("17th push = %v, want StackError{Overflow}", err)
	}

	for n := stackSize - 1; n >= 0; n-- {
		got, err := s.pop()
		if err != nil {
			t.Fatalf("pop() returned error: %v", err)
		}
		if got != uint16(n) {
			t.Errorf("pop() = %d, want %d", got, n)
		}
	}

	var underflow *StackError
	if _, err := s.pop(); !errors.As(err, &underflow) || underflow.Kind != Underflow {
		t.Fatalf("17th pop = %v, want StackError{Underflow}", err)
	}
}
