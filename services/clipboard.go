package services

import "sync"

// Clipboard reads and writes plain text.
type Clipboard interface {
	Get() (string, error)
	Set(text string) error
}

// MemoryClipboard keeps the clipboard in process.
type MemoryClipboard struct {
	mu   sync.Mutex
	text string
}

func (c *MemoryClipboard) Get() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.text, nil
}

func (c *MemoryClipboard) Set(text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.text = text
	return nil
}

// NoClipboard is used where the platform has no clipboard.
type NoClipboard struct{}

func (NoClipboard) Get() (string, error) { return "", newError("clipboard", KindUnavailable, "") }
func (NoClipboard) Set(string) error     { return newError("clipboard", KindUnavailable, "") }
