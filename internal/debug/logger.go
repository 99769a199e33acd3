package debug

import (
	"fmt"
	"io"
	"sync"
	"time"
)

var (
	mu     sync.Mutex
	writer io.Writer = io.Discard
	start            = time.Now()
)

// SetOutput sets the debug output destination.
// Passing nil disables logging.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	if w == nil {
		w = io.Discard
	}
	writer = w
	start = time.Now()
}

// Log writes a debug message prefixed with the time since logging started
func Log(format string, args ...interface{}) {
	mu.Lock()
	defer mu.Unlock()
	if writer == io.Discard {
		return
	}
	elapsed := time.Since(start).Truncate(time.Millisecond)
	fmt.Fprintf(writer, "[%8s] "+format+"\n", append([]interface{}{elapsed}, args...)...)
}

// Enabled returns true if debug logging is enabled
func Enabled() bool {
	mu.Lock()
	defer mu.Unlock()
	return writer != io.Discard
}
