package storage

import (
	"bufio"
	"fmt"
	"io"
)

// TextSink writes each reported energy on its own line with four decimals.
// It buffers output; call Flush or Close when the run ends.
type TextSink struct {
	w *bufio.Writer
	c io.Closer
}

// NewTextSink wraps w. If w is also an io.Closer, Close closes it.
func NewTextSink(w io.Writer) *TextSink {
	s := &TextSink{w: bufio.NewWriter(w)}
	if c, ok := w.(io.Closer); ok {
		s.c = c
	}
	return s
}

func (s *TextSink) OnReport(_ int, energy float64) error {
	_, err := fmt.Fprintf(s.w, "%.4f\n", energy)
	return err
}

func (s *TextSink) Flush() error { return s.w.Flush() }

func (s *TextSink) Close() error {
	err := s.w.Flush()
	if s.c != nil {
		if cerr := s.c.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
