package capture

import (
	"sync"
)

// tailBuffer keeps the last maxBytes written to it, or everything when maxBytes is 0.
type tailBuffer struct {
	maxBytes int

	mu       sync.Mutex
	contents []byte
}

func newTailBuffer(maxBytes int) *tailBuffer {
	if maxBytes < 0 {
		maxBytes = 0
	}

	return &tailBuffer{maxBytes: maxBytes}
}

func (b *tailBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.contents = append(b.contents, p...)
	if b.maxBytes > 0 && len(b.contents) > b.maxBytes {
		b.contents = b.contents[len(b.contents)-b.maxBytes:]
	}

	return len(p), nil
}

func (b *tailBuffer) Bytes() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()

	cp := make([]byte, len(b.contents))
	copy(cp, b.contents)

	return cp
}

func (b *tailBuffer) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.contents = b.contents[:0]
}
