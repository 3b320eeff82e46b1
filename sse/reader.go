package sse

import (
	"bufio"
	"io"
	"strings"
)

// Reader decodes frames from an event stream written by Serve.
type Reader struct {
	scanner *bufio.Scanner
	body    io.ReadCloser
}

// NewReader wraps body. The caller owns body through Close.
func NewReader(body io.ReadCloser) *Reader {
	sc := bufio.NewScanner(body)
	sc.Buffer(make([]byte, 0, 4096), 1<<20)
	return &Reader{scanner: sc, body: body}
}

// Next returns the next frame, skipping comments. It returns io.EOF when the
// stream ends.
func (r *Reader) Next() (Frame, error) {
	var (
		f       Frame
		data    []string
		pending bool
	)
	for r.scanner.Scan() {
		line := r.scanner.Text()
		if line == "" {
			if pending {
				f.Data = []byte(strings.Join(data, "\n"))
				return f, nil
			}
			continue
		}
		if strings.HasPrefix(line, ":") {
			continue
		}

		field, value, _ := strings.Cut(line, ":")
		value = strings.TrimPrefix(value, " ")
		switch field {
		case "event":
			f.Event = value
			pending = true
		case "data":
			data = append(data, value)
			pending = true
		}
	}
	if err := r.scanner.Err(); err != nil {
		return Frame{}, err
	}
	if pending {
		f.Data = []byte(strings.Join(data, "\n"))
		return f, nil
	}
	return Frame{}, io.EOF
}

// Close closes the underlying body.
func (r *Reader) Close() error {
	return r.body.Close()
}
