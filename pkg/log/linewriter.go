package log

import (
	"bytes"
	"sync"
)

// DefaultChunkSize is the largest line fragment buffered before it is logged
// without waiting for a newline.
const DefaultChunkSize = 1024

// LineWriter is an io.Writer that splits its input into lines and logs each
// non-empty line at debug level. Partial lines are buffered until a newline
// arrives, the buffer reaches the chunk size, or Flush is called.
type LineWriter struct {
	mu        sync.Mutex
	logger    Logger
	buf       []byte
	chunkSize int
	fields    []Field
}

// NewLineWriter creates a LineWriter logging to logger with the given fields
// attached to every line.
func NewLineWriter(logger Logger, fields ...Field) *LineWriter {
	return &LineWriter{
		logger:    logger,
		chunkSize: DefaultChunkSize,
		fields:    fields,
	}
}

// SetChunkSize changes the maximum buffered fragment size. Values <= 0 are ignored.
func (w *LineWriter) SetChunkSize(n int) {
	if n <= 0 {
		return
	}
	w.mu.Lock()
	w.chunkSize = n
	w.mu.Unlock()
}

// Write buffers p and emits every complete line.
func (w *LineWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.buf = append(w.buf, p...)
	for {
		i := bytes.IndexByte(w.buf, '\n')
		if i < 0 {
			break
		}
		w.emit(w.buf[:i])
		w.buf = w.buf[i+1:]
	}
	for len(w.buf) >= w.chunkSize {
		w.emit(w.buf[:w.chunkSize])
		w.buf = w.buf[w.chunkSize:]
	}
	if len(w.buf) == 0 {
		w.buf = nil
	}
	return len(p), nil
}

// Flush logs any buffered partial line.
func (w *LineWriter) Flush() {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.emit(w.buf)
	w.buf = nil
}

func (w *LineWriter) emit(line []byte) {
	line = bytes.TrimRight(line, "\r")
	if len(bytes.TrimSpace(line)) == 0 {
		return
	}
	w.logger.Debug(string(line), w.fields...)
}
