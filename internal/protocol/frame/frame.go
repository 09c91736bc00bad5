package frame

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

const (
	Magic          uint32 = 0x415A4431 // "AZD1"
	Version        uint16 = 1
	FixedHeaderLen uint16 = 28

	FlagIsResponse uint32 = 0x01
	FlagIsError    uint32 = 0x02
)

// Message type IDs.
const (
	MsgParameters uint16 = 1
	MsgAnswer     uint16 = 2
	MsgVerdict    uint16 = 3
	MsgError      uint16 = 4
)

var (
	ErrShortHeader        = errors.New("frame: short fixed header")
	ErrInvalidMagic       = errors.New("frame: invalid magic")
	ErrUnsupportedVersion = errors.New("frame: unsupported version")
	ErrHeaderLenMismatch  = errors.New("frame: header_len mismatch")
	ErrPayloadTooLarge    = errors.New("frame: payload too large")
	ErrShortPayload       = errors.New("frame: short payload")
	ErrUnknownMessageType = errors.New("frame: unknown message type")
)

// Header is the fixed wire header.
type Header struct {
	Magic       uint32
	Version     uint16
	HeaderLen   uint16
	MessageType uint16
	MessageID   uint64
	Flags       uint32
	PayloadLen  uint64
}

// Frame is one complete envelope. Payload holds tlv item records.
type Frame struct {
	Header  Header
	Payload []byte
}

// Limits constrains frame decode/encode memory use.
type Limits struct {
	MaxPayloadBytes uint64
}

func DefaultLimits() Limits {
	return Limits{MaxPayloadBytes: 8 * 1024 * 1024}
}

func MessageTypeName(t uint16) string {
	switch t {
	case MsgParameters:
		return "parameters"
	case MsgAnswer:
		return "answer"
	case MsgVerdict:
		return "verdict"
	case MsgError:
		return "error"
	default:
		return fmt.Sprintf("type%d", t)
	}
}

func validMessageType(t uint16) bool {
	return t >= MsgParameters && t <= MsgError
}

func ReadFrame(r io.Reader, limits Limits) (Frame, error) {
	var fixed [FixedHeaderLen]byte
	if _, err := io.ReadFull(r, fixed[:]); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
			return Frame{}, ErrShortHeader
		}
		return Frame{}, err
	}

	h, err := DecodeHeader(fixed[:])
	if err != nil {
		return Frame{}, err
	}
	if h.Magic != Magic {
		return Frame{}, ErrInvalidMagic
	}
	if h.Version != Version {
		return Frame{}, ErrUnsupportedVersion
	}
	if h.HeaderLen != FixedHeaderLen {
		return Frame{}, ErrHeaderLenMismatch
	}
	if !validMessageType(h.MessageType) {
		return Frame{}, fmt.Errorf("%w: %d", ErrUnknownMessageType, h.MessageType)
	}
	if h.PayloadLen > limits.MaxPayloadBytes {
		return Frame{}, ErrPayloadTooLarge
	}

	payload := make([]byte, h.PayloadLen)
	if h.PayloadLen > 0 {
		if _, err := io.ReadFull(r, payload); err != nil {
			if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
				return Frame{}, ErrShortPayload
			}
			return Frame{}, err
		}
	}
	return Frame{Header: h, Payload: payload}, nil
}

func WriteFrame(w io.Writer, f Frame, limits Limits) error {
	payloadLen := uint64(len(f.Payload))
	if payloadLen > limits.MaxPayloadBytes {
		return ErrPayloadTooLarge
	}
	if !validMessageType(f.Header.MessageType) {
		return fmt.Errorf("%w: %d", ErrUnknownMessageType, f.Header.MessageType)
	}

	h := f.Header
	h.Magic = Magic
	h.Version = Version
	h.HeaderLen = FixedHeaderLen
	h.PayloadLen = payloadLen

	if _, err := w.Write(EncodeHeader(h)); err != nil {
		return err
	}
	if payloadLen > 0 {
		if _, err := w.Write(f.Payload); err != nil {
			return err
		}
	}
	return nil
}

func EncodeHeader(h Header) []byte {
	buf := make([]byte, FixedHeaderLen)
	binary.BigEndian.PutUint32(buf[0:4], h.Magic)
	binary.BigEndian.PutUint16(buf[4:6], h.Version)
	binary.BigEndian.PutUint16(buf[6:8], h.HeaderLen)
	binary.BigEndian.PutUint16(buf[8:10], h.MessageType)
	binary.BigEndian.PutUint64(buf[10:18], h.MessageID)
	binary.BigEndian.PutUint32(buf[18:22], h.Flags)
	// payload length is 48 bits on the wire
	putU48(buf[22:28], h.PayloadLen)
	return buf
}

func DecodeHeader(b []byte) (Header, error) {
	if len(b) != int(FixedHeaderLen) {
		return Header{}, fmt.Errorf("frame: invalid fixed header length: %d", len(b))
	}
	return Header{
		Magic:       binary.BigEndian.Uint32(b[0:4]),
		Version:     binary.BigEndian.Uint16(b[4:6]),
		HeaderLen:   binary.BigEndian.Uint16(b[6:8]),
		MessageType: binary.BigEndian.Uint16(b[8:10]),
		MessageID:   binary.BigEndian.Uint64(b[10:18]),
		Flags:       binary.BigEndian.Uint32(b[18:22]),
		PayloadLen:  u48(b[22:28]),
	}, nil
}

func putU48(b []byte, v uint64) {
	for i := 5; i >= 0; i-- {
		b[i] = byte(v)
		v >>= 8
	}
}

func u48(b []byte) uint64 {
	var v uint64
	for i := 0; i < 6; i++ {
		v = v<<8 | uint64(b[i])
	}
	return v
}
