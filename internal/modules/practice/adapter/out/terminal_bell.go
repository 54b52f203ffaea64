package out

import (
	"io"
	"sync"
)

const bel = "\a"

// TerminalBell rings the terminal bell: once per phase change, twice on
// completion.
type TerminalBell struct {
	mu sync.Mutex
	w  io.Writer
}

func NewTerminalBell(w io.Writer) *TerminalBell {
	return &TerminalBell{w: w}
}

func (b *TerminalBell) Phase(string) {
	b.ring(1)
}

func (b *TerminalBell) Complete() {
	b.ring(2)
}

func (b *TerminalBell) ring(n int) {
	if b == nil || b.w == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := 0; i < n; i++ {
		_, _ = io.WriteString(b.w, bel)
	}
}
