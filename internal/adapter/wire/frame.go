package wire

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
)

const MaxFrame = math.MaxUint16

var ErrFrameTooLarge = errors.New("frame too large")

// WriteFrame writes a u16 big-endian length followed by b in a single Write.
func WriteFrame(w io.Writer, b []byte) error {
	if len(b) > MaxFrame {
		return fmt.Errorf("%w: %d bytes", ErrFrameTooLarge, len(b))
	}
	buf := make([]byte, 2, 2+len(b))
	binary.BigEndian.PutUint16(buf, uint16(len(b)))
	_, err := w.Write(append(buf, b...))
	return err
}

// ReadFrame reads one frame. A clean EOF before the header is returned as
// io.EOF; a frame cut short is io.ErrUnexpectedEOF.
func ReadFrame(r io.Reader) ([]byte, error) {
	var hdr [2]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return nil, err
	}
	b := make([]byte, binary.BigEndian.Uint16(hdr[:]))
	if _, err := io.ReadFull(r, b); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.ErrUnexpectedEOF
		}
		return nil, err
	}
	return b, nil
}
