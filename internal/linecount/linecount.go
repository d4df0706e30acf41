// Package linecount measures file sizes in lines.
//
// A file's line count is the number of '\n' terminators plus one when the
// file is non-empty and its last line is unterminated. An empty file has
// zero lines.
package linecount

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/garagon/duprank/internal/types"
)

const readChunk = 32 * 1024

// DefaultCacheSize bounds the number of distinct files a Counter remembers.
const DefaultCacheSize = 4096

// CountReader counts lines in r.
func CountReader(r io.Reader) (int, error) {
	buf := make([]byte, readChunk)
	count := 0
	var last byte
	seen := false
	for {
		n, err := r.Read(buf)
		if n > 0 {
			count += bytes.Count(buf[:n], []byte{'\n'})
			last = buf[n-1]
			seen = true
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return 0, err
		}
	}
	if seen && last != '\n' {
		count++
	}
	return count, nil
}

// Count opens path and counts its lines. Missing paths wrap
// types.ErrFileNotFound; everything else that prevents reading the file
// (permissions, directories) wraps types.ErrFileUnreadable.
func Count(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, types.ErrFileNotFound
		}
		return 0, fmt.Errorf("%w: %v", types.ErrFileUnreadable, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", types.ErrFileUnreadable, err)
	}
	if info.IsDir() {
		return 0, fmt.Errorf("%w: is a directory", types.ErrFileUnreadable)
	}

	n, err := CountReader(f)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", types.ErrFileUnreadable, err)
	}
	return n, nil
}

// Counter memoizes Count for the lifetime of one run. It is safe for
// concurrent use. Errors are not cached.
type Counter struct {
	cache *lru.Cache[string, int]

	mu     sync.Mutex
	hits   int
	misses int
}

// NewCounter creates a Counter remembering up to size files.
// If size <= 0, DefaultCacheSize is used.
func NewCounter(size int) *Counter {
	if size <= 0 {
		size = DefaultCacheSize
	}
	cache, err := lru.New[string, int](size)
	if err != nil {
		// lru.New only fails for non-positive sizes.
		panic(err)
	}
	return &Counter{cache: cache}
}

// Count returns the line count of path, reading the file at most once
// while it stays in the cache.
func (c *Counter) Count(path string) (int, error) {
	if n, ok := c.cache.Get(path); ok {
		c.mu.Lock()
		c.hits++
		c.mu.Unlock()
		return n, nil
	}
	n, err := Count(path)
	if err != nil {
		return 0, err
	}
	c.cache.Add(path, n)
	c.mu.Lock()
	c.misses++
	c.mu.Unlock()
	return n, nil
}

// Stats returns cache hits and the number of files actually read.
func (c *Counter) Stats() (hits, misses int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}
