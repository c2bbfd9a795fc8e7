package learning

import (
	"math/rand/v2"
	"time"
)

// Clock supplies the current time. Injected so tests can pin the throttle.
type Clock interface {
	Now() time.Time
}

// Rand supplies uniform draws in [0, 1). Injected so tests can pin the
// decision booleans deterministically.
type Rand interface {
	Float64() float64
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns a Clock backed by time.Now.
func SystemClock() Clock { return systemClock{} }

type systemRand struct{}

func (systemRand) Float64() float64 { return rand.Float64() }

// SystemRand returns a Rand backed by the shared math/rand/v2 source.
func SystemRand() Rand { return systemRand{} }

// FixedRand returns a Rand that always yields v. Test helper.
func FixedRand(v float64) Rand { return fixedRand(v) }

type fixedRand float64

func (f fixedRand) Float64() float64 { return float64(f) }

// FixedClock returns a Clock pinned to t. Test helper.
func FixedClock(t time.Time) Clock { return fixedClock{t} }

type fixedClock struct{ t time.Time }

func (f fixedClock) Now() time.Time { return f.t }
