package packdexd

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
)

func TestReadOneLineFraming(t *testing.T) {
	r := bufio.NewReader(strings.NewReader("\n  \n{\"a\":1}\n{\"b\":2}"))

	line, err := ReadOneLine(r)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(line) != `{"a":1}` {
		t.Fatalf("blank lines not skipped: %q", line)
	}

	// Last message has no trailing newline.
	line, err = ReadOneLine(r)
	if err != nil {
		t.Fatalf("read without newline: %v", err)
	}
	if string(line) != `{"b":2}` {
		t.Fatalf("line: %q", line)
	}

	if _, err := ReadOneLine(r); !errors.Is(err, io.EOF) {
		t.Fatalf("expected EOF, got %v", err)
	}
}

func TestWriteOneLine(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteOneLine(&buf, map[string]int{"n": 1}); err != nil {
		t.Fatalf("write: %v", err)
	}
	if buf.String() != `{"n":1}`+"\n" {
		t.Fatalf("framing: %q", buf.String())
	}

	if err := WriteOneLine(&buf, func() {}); err == nil {
		t.Fatalf("unmarshalable value must error")
	}
	if err := WriteOneLine(nil, "x"); err == nil {
		t.Fatalf("nil writer must error")
	}
}
