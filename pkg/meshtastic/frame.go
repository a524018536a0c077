package meshtastic

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
)

const (
	frameStart1 = 0x94
	frameStart2 = 0xc3

	frameHeaderLen = 4

	// MaxPayloadSize is the largest protobuf payload the radio accepts in one frame.
	MaxPayloadSize = 512
)

// WriteFrame writes one framed payload to w.
func WriteFrame(w io.Writer, payload []byte) error {
	if len(payload) > MaxPayloadSize {
		return fmt.Errorf("%w: %d bytes", ErrFrameTooLarge, len(payload))
	}

	buf := make([]byte, frameHeaderLen+len(payload))
	buf[0] = frameStart1
	buf[1] = frameStart2
	binary.BigEndian.PutUint16(buf[2:4], uint16(len(payload)))
	copy(buf[frameHeaderLen:], payload)

	_, err := w.Write(buf)

	return err
}

// FrameReader splits a radio byte stream into payloads. Bytes outside a
// frame (the device's debug console output) are skipped.
type FrameReader struct {
	r *bufio.Reader
}

func NewFrameReader(r io.Reader) *FrameReader {
	return &FrameReader{r: bufio.NewReader(r)}
}

// ReadFrame blocks until a complete frame is available.
func (fr *FrameReader) ReadFrame() ([]byte, error) {
	for {
		b, err := fr.r.ReadByte()
		if err != nil {
			return nil, err
		}

		if b != frameStart1 {
			continue
		}

		b, err = fr.r.ReadByte()
		if err != nil {
			return nil, err
		}

		if b != frameStart2 {
			if b == frameStart1 {
				_ = fr.r.UnreadByte()
			}

			continue
		}

		var lenBuf [2]byte
		if _, err := io.ReadFull(fr.r, lenBuf[:]); err != nil {
			return nil, err
		}

		size := int(binary.BigEndian.Uint16(lenBuf[:]))
		if size > MaxPayloadSize {
			// corrupted header, resync on the next start marker
			continue
		}

		payload := make([]byte, size)
		if _, err := io.ReadFull(fr.r, payload); err != nil {
			return nil, err
		}

		return payload, nil
	}
}
