package store

import (
	"fmt"
	"strconv"
	"strings"

	pkgerrors "github.com/angelmondragon/warehouse-backend/pkg/errors"
)

// Sequence hands out keys for one pool. Callers hold the pool's write lock.
type Sequence[K comparable] interface {
	// Next returns the next free key, skipping keys reported in use.
	Next(inUse func(K) bool) (K, error)
	// Observe advances the counter past an explicitly supplied or loaded key.
	Observe(K)
	Current() int
	Reset(int)
}

// IntSequence is a monotonic counter; removed ids are never handed out again.
type IntSequence struct {
	counter int
}

func (s *IntSequence) Next(inUse func(int) bool) (int, error) {
	for {
		s.counter++
		if inUse == nil || !inUse(s.counter) {
			return s.counter, nil
		}
	}
}

func (s *IntSequence) Observe(id int) {
	if id > s.counter {
		s.counter = id
	}
}

func (s *IntSequence) Current() int { return s.counter }

func (s *IntSequence) Reset(v int) {
	if v > s.counter {
		s.counter = v
	}
}

const (
	itemCodePrefix = "P"
	itemCodeMax    = 999999
)

// CodeSequence produces item codes P000001..P999999, wrapping back to P000001 and skipping
// codes still held by live items.
type CodeSequence struct {
	counter int
}

func FormatItemCode(n int) string {
	return fmt.Sprintf("%s%06d", itemCodePrefix, n)
}

// ParseItemCode returns the numeric part of a generated code.
func ParseItemCode(code string) (int, bool) {
	if !strings.HasPrefix(code, itemCodePrefix) || len(code) != len(itemCodePrefix)+6 {
		return 0, false
	}
	n, err := strconv.Atoi(code[len(itemCodePrefix):])
	if err != nil || n < 1 || n > itemCodeMax {
		return 0, false
	}
	return n, true
}

func (s *CodeSequence) Next(inUse func(string) bool) (string, error) {
	for range itemCodeMax {
		s.counter = s.counter%itemCodeMax + 1
		code := FormatItemCode(s.counter)
		if inUse == nil || !inUse(code) {
			return code, nil
		}
	}
	return "", pkgerrors.New(pkgerrors.CodeConflict, "item code space exhausted")
}

func (s *CodeSequence) Observe(code string) {
	if n, ok := ParseItemCode(code); ok && n > s.counter {
		s.counter = n
	}
}

func (s *CodeSequence) Current() int { return s.counter }

// Reset restores a persisted counter. Unlike IntSequence it may move backwards, since a
// wrapped counter sits below the highest code in use.
func (s *CodeSequence) Reset(v int) {
	if v >= 0 && v <= itemCodeMax {
		s.counter = v
	}
}
