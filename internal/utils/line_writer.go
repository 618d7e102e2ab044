package utils

import (
	"io"
	"sync"
)

const lineTerminatorConstant = "\n"

// LineWriter writes newline-terminated records and flushes buffered destinations after each one.
// The first failed write is retained and returned by every later call.
type LineWriter struct {
	destination io.Writer
	mutex       sync.Mutex
	failure     error
}

// NewLineWriter wraps destination. A nil destination discards every line.
func NewLineWriter(destination io.Writer) *LineWriter {
	if destination == nil {
		destination = io.Discard
	}
	return &LineWriter{destination: destination}
}

// WriteLine writes line followed by a newline in a single write and flushes the destination when it buffers.
func (lineWriter *LineWriter) WriteLine(line string) error {
	lineWriter.mutex.Lock()
	defer lineWriter.mutex.Unlock()

	if lineWriter.failure != nil {
		return lineWriter.failure
	}

	record := line + lineTerminatorConstant
	bytesWritten, writeError := io.WriteString(lineWriter.destination, record)
	if writeError == nil && bytesWritten < len(record) {
		writeError = io.ErrShortWrite
	}

	if writeError == nil {
		if flushableWriter, implementsFlush := lineWriter.destination.(interface{ Flush() error }); implementsFlush {
			writeError = flushableWriter.Flush()
		}
	}

	lineWriter.failure = writeError
	return writeError
}
