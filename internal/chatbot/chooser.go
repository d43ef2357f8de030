package chatbot

import (
	"math/rand/v2"
	"sync"
)

// Chooser elige un indice en [0, n). La eleccion es cosmetica, nunca semantica.
type Chooser interface {
	IntN(n int) int
}

type globalChooser struct{}

func (globalChooser) IntN(n int) int { return rand.IntN(n) }

// DefaultChooser usa la fuente global de math/rand/v2, segura entre goroutines.
func DefaultChooser() Chooser { return globalChooser{} }

// SeededChooser es reproducible; el mutex lo hace seguro para uso concurrente.
type SeededChooser struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewSeededChooser(seed uint64) *SeededChooser {
	return &SeededChooser{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (s *SeededChooser) IntN(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.IntN(n)
}

func pick(c Chooser, options []string) string {
	if len(options) == 0 {
		return ""
	}
	return options[c.IntN(len(options))]
}
