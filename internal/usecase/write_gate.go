package usecase

import "sync"

// WriteGate serialises read-modify-write cycles on shared collections within this process.
// Writers in other processes still race; the last full snapshot wins.
type WriteGate struct {
	mu sync.Mutex
}

func NewWriteGate() *WriteGate {
	return &WriteGate{}
}

// Do runs fn under the gate. A nil gate runs fn unguarded.
func (g *WriteGate) Do(fn func() error) error {
	if g == nil {
		return fn()
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return fn()
}
