package classify

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"sync"

	"artechoes/internal/domain"
)

// Cached remembers the label of every file it has seen, keyed by content
// hash, so a remote strategy answers identically for identical bytes.
type Cached struct {
	next Classifier

	mu     sync.RWMutex
	labels map[string]string
}

func NewCached(next Classifier) *Cached {
	return &Cached{next: next, labels: make(map[string]string)}
}

func (c *Cached) Classify(ctx context.Context, file domain.UploadedFile) (string, error) {
	key, err := contentHash(file.TempPath)
	if err != nil {
		return "", fmt.Errorf("%w: hash %s: %v", ErrClassification, file.OriginalName, err)
	}

	c.mu.RLock()
	label, ok := c.labels[key]
	c.mu.RUnlock()
	if ok {
		return label, nil
	}

	label, err = c.next.Classify(ctx, file)
	if err != nil {
		return "", err
	}

	c.mu.Lock()
	// keep the first answer if another request raced us
	if prev, ok := c.labels[key]; ok {
		label = prev
	} else {
		c.labels[key] = label
	}
	c.mu.Unlock()
	return label, nil
}

func (c *Cached) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.labels)
}

func contentHash(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
