// Package transcript keeps a plain-text copy of the run's stdout.
package transcript

import (
	"fmt"
	"os"
	"sync"

	"github.com/acarl005/stripansi"
)

// File writes everything it receives to disk with ANSI escape sequences
// removed. Each Write must carry whole escape sequences; the harness
// writes one line at a time.
type File struct {
	mu   sync.Mutex
	file *os.File
}

// Create creates or truncates the transcript at path.
func Create(path string) (*File, error) {
	file, err := os.Create(path) // #nosec G304 - transcript path is user supplied
	if err != nil {
		return nil, fmt.Errorf("failed to create transcript %s: %w", path, err)
	}
	return &File{file: file}, nil
}

// Write strips color from p and appends it to the transcript. It reports
// len(p) on success so it can sit behind io.MultiWriter.
func (f *File) Write(p []byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, err := f.file.WriteString(stripansi.Strip(string(p))); err != nil {
		return 0, err
	}
	return len(p), nil
}

// Close flushes and closes the transcript.
func (f *File) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.file.Close()
}
