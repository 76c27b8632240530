package bash

import (
	"bytes"
	"sync"
)

// threadSafeBuffer lets stdout and stderr of a child share one buffer; the
// interpreter copies the two pipes from separate goroutines.
type threadSafeBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *threadSafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *threadSafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
