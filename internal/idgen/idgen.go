package idgen

import (
	"sync/atomic"

	"github.com/google/uuid"
)

var instanceCounter atomic.Uint64

// NextFunc returns the next monotonic run-loop instance identifier. Override
// in tests for determinism.
var NextFunc = func() uint64 { return instanceCounter.Add(1) }

// Next is a thin wrapper around NextFunc.
func Next() uint64 { return NextFunc() }

// NewFunc returns a new globally unique identifier as string. It is
// implemented as a thin wrapper so tests can stub it.
var NewFunc = func() string { return uuid.New().String() }

// New is a thin wrapper around NewFunc.
func New() string { return NewFunc() }
