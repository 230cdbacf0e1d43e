package protocol

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"
)

// ErrMalformed marks a frame that could not be decoded. Callers discard
// the frame and keep reading; only transport errors end a connection.
var ErrMalformed = errors.New("protocol: malformed frame")

// Reader decodes newline-framed messages from a byte stream. Partial
// reads are buffered until a newline arrives. A line that carries
// several concatenated objects without separating newlines is split on
// balanced braces and the extra objects are returned on later calls.
type Reader struct {
	r       *bufio.Reader
	pending [][]byte
}

// NewReader wraps r for frame decoding.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: bufio.NewReader(r)}
}

// Next returns the next decoded message. It blocks until a full frame is
// available. Decode failures return an error wrapping ErrMalformed;
// anything else is a transport error.
func (r *Reader) Next() (*Message, error) {
	for {
		raw, err := r.nextRaw()
		if err != nil {
			return nil, err
		}
		if len(bytes.TrimSpace(raw)) == 0 {
			continue
		}
		var msg Message
		if err := json.Unmarshal(raw, &msg); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		if msg.Type == "" {
			return nil, fmt.Errorf("%w: missing type", ErrMalformed)
		}
		return &msg, nil
	}
}

func (r *Reader) nextRaw() ([]byte, error) {
	if len(r.pending) > 0 {
		raw := r.pending[0]
		r.pending = r.pending[1:]
		return raw, nil
	}

	line, err := r.r.ReadBytes('\n')
	if err != nil {
		// A final unterminated frame before EOF is still a frame.
		if errors.Is(err, io.EOF) && len(bytes.TrimSpace(line)) > 0 {
			err = nil
		} else {
			return nil, err
		}
	}

	objs := SplitObjects(line)
	if len(objs) == 0 {
		return line, nil
	}
	if len(objs) > 1 {
		r.pending = objs[1:]
	}
	return objs[0], nil
}

// SplitObjects splits data into top-level JSON objects using
// string-aware balanced-brace matching. Trailing bytes that do not form
// a complete object are returned as a final chunk so the caller can
// report them as malformed.
func SplitObjects(data []byte) [][]byte {
	var (
		objs     [][]byte
		depth    int
		start    = -1
		inString bool
		escaped  bool
	)
	for i, b := range data {
		if inString {
			switch {
			case escaped:
				escaped = false
			case b == '\\':
				escaped = true
			case b == '"':
				inString = false
			}
			continue
		}
		switch b {
		case '"':
			inString = true
		case '{':
			if depth == 0 {
				start = i
			}
			depth++
		case '}':
			if depth > 0 {
				depth--
				if depth == 0 {
					objs = append(objs, data[start:i+1])
					start = -1
				}
			}
		}
	}
	if start >= 0 {
		if rest := bytes.TrimSpace(data[start:]); len(rest) > 0 {
			objs = append(objs, rest)
		}
	}
	return objs
}

// Writer encodes messages onto a byte stream, one frame per Write call.
// The single-write guarantee is the primary framing mechanism; the brace
// splitting in Reader is only a fallback.
type Writer struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriter wraps w for frame encoding.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Write marshals msg and writes it with its trailing newline in a single
// Write call on the underlying stream.
func (w *Writer) Write(msg *Message) error {
	data, err := Encode(msg)
	if err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	_, err = w.w.Write(data)
	return err
}

// Encode marshals msg into a ready-to-send frame including the newline.
func Encode(msg *Message) ([]byte, error) {
	data, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("protocol: encode %s: %w", msg.Type, err)
	}
	return append(data, '\n'), nil
}
