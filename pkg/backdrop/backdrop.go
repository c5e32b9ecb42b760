// Package backdrop generates the animated circles drawn behind the form. It
// knows nothing about form state.
package backdrop

import (
	"math/rand"
	"sync"
	"time"
)

// DefaultCount is how many elements a page shows.
const DefaultCount = 20

const (
	minSize     = 20.0
	sizeSpan    = 40.0
	minDuration = 10.0
	durSpan     = 20.0
	maxDelay    = 5.0
	drift       = 100.0
)

// Opacity keyframes shared by every element.
var Opacity = [3]float64{0.3, 0.5, 0.3}

// Viewport is the drawable area in pixels.
type Viewport struct {
	W float64
	H float64
}

// DefaultViewport is used when the client size is unknown.
var DefaultViewport = Viewport{W: 1280, H: 800}

// Element is one circle. Times are in seconds and lengths in pixels.
type Element struct {
	ID       int
	Size     float64
	Duration float64
	Delay    float64
	InitialX float64
	InitialY float64
}

// XFrames returns the horizontal keyframes.
func (e Element) XFrames() [4]float64 {
	return [4]float64{e.InitialX, e.InitialX + drift, e.InitialX - drift, e.InitialX}
}

// YFrames returns the vertical keyframes.
func (e Element) YFrames() [4]float64 {
	return [4]float64{e.InitialY, e.InitialY - drift, e.InitialY + drift, e.InitialY}
}

// Generate draws n elements from rng. Non-positive n yields DefaultCount and a
// zero-sized viewport falls back to DefaultViewport.
func Generate(rng *rand.Rand, vp Viewport, n int) []Element {
	if n <= 0 {
		n = DefaultCount
	}
	if vp.W <= 0 || vp.H <= 0 {
		vp = DefaultViewport
	}

	out := make([]Element, n)
	for i := range out {
		out[i] = Element{
			ID:       i,
			Size:     minSize + rng.Float64()*sizeSpan,
			Duration: minDuration + rng.Float64()*durSpan,
			Delay:    rng.Float64() * maxDelay,
			InitialX: rng.Float64() * vp.W,
			InitialY: rng.Float64() * vp.H,
		}
	}
	return out
}

// Source is a goroutine-safe generator for request handlers.
type Source struct {
	mu  sync.Mutex
	rng *rand.Rand
	vp  Viewport
	n   int
}

// NewSource seeds a Source. A zero seed uses the current time.
func NewSource(seed int64, vp Viewport, n int) *Source {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Source{rng: rand.New(rand.NewSource(seed)), vp: vp, n: n}
}

// Next returns a fresh set of elements.
func (s *Source) Next() []Element {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Generate(s.rng, s.vp, s.n)
}
