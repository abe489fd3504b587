package packdexd

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// The wire framing is one JSON value per line. Blank lines between
// messages are tolerated; a final message without a trailing newline is
// accepted so piped input works.

// ReadOneLine returns the next non-blank line, trimmed.
func ReadOneLine(r *bufio.Reader) ([]byte, error) {
	if r == nil {
		return nil, fmt.Errorf("reader is required")
	}

	for {
		line, err := r.ReadBytes('\n')
		line = bytes.TrimSpace(line)
		if len(line) > 0 {
			if err != nil && err != io.EOF {
				return nil, err
			}
			return line, nil
		}
		if err != nil {
			return nil, err
		}
	}
}

// WriteOneLine marshals obj and appends the line terminator. The caller
// owns flushing.
func WriteOneLine(w io.Writer, obj any) error {
	if w == nil {
		return fmt.Errorf("writer is required")
	}
	b, err := json.Marshal(obj)
	if err != nil {
		return fmt.Errorf("cannot encode message: %w", err)
	}
	_, err = w.Write(append(b, '\n'))
	return err
}
