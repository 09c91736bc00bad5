package session

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/danmuck/azadio/internal/observability"
	"github.com/danmuck/azadio/internal/protocol"
	"github.com/danmuck/azadio/internal/protocol/frame"
	"github.com/danmuck/azadio/internal/protocol/tlv"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var ErrNilCause = errors.New("session: nil error cause")

// Config bounds what a Conn will accept.
type Config struct {
	Frame  frame.Limits
	Decode protocol.Limits
	// MaxRecordValue bounds a single tlv record inside a payload.
	MaxRecordValue uint32
}

func DefaultConfig() Config {
	return Config{
		Frame:          frame.DefaultLimits(),
		Decode:         protocol.DefaultLimits(),
		MaxRecordValue: tlv.DefaultMaxValue,
	}
}

// Message is one received value.
type Message struct {
	Header frame.Header
	// ID is the identifier attached to the value's top-level frame, if any.
	ID    string
	Value any
}

// Conn sends and receives values over a byte stream pair, typically the
// stdin and stdout pipes of a child process.
type Conn struct {
	r      io.Reader
	w      io.Writer
	cfg    Config
	id     string
	logger zerolog.Logger

	sendMu sync.Mutex
	nextID uint64
}

func NewConn(r io.Reader, w io.Writer) *Conn {
	return NewConnWithConfig(r, w, DefaultConfig())
}

func NewConnWithConfig(r io.Reader, w io.Writer, cfg Config) *Conn {
	id := uuid.NewString()
	return &Conn{
		r:      r,
		w:      w,
		cfg:    cfg,
		id:     id,
		logger: log.With().Str("session", id).Logger(),
		nextID: 1,
	}
}

// ID is the random identifier this Conn tags its log lines with.
func (c *Conn) ID() string {
	return c.id
}

// Send encodes value as one frame and returns the message id it used.
func (c *Conn) Send(msgType uint16, value any, id string) (uint64, error) {
	return c.send(msgType, 0, value, id)
}

// SendError reports a failure to the peer as an error message carrying text.
// A nil cause is ErrNilCause and nothing is written.
func (c *Conn) SendError(cause error) (uint64, error) {
	if cause == nil {
		return 0, ErrNilCause
	}
	return c.send(frame.MsgError, frame.FlagIsError, cause.Error(), "")
}

func (c *Conn) send(msgType uint16, flags uint32, value any, id string) (uint64, error) {
	typeName := frame.MessageTypeName(msgType)
	var payload bytes.Buffer
	w := tlv.NewWriter(&payload)
	if err := w.WriteSeq(protocol.Encode(value, id)); err != nil {
		observability.RecordMessage("send", typeName, 0, false)
		c.logger.Error().Err(err).Str("type", typeName).Msg("session encode failed")
		return 0, fmt.Errorf("session: encode %s: %w", typeName, err)
	}

	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	msgID := c.nextID
	err := frame.WriteFrame(c.w, frame.Frame{
		Header: frame.Header{
			MessageType: msgType,
			MessageID:   msgID,
			Flags:       flags,
		},
		Payload: payload.Bytes(),
	}, c.cfg.Frame)
	if err != nil {
		observability.RecordMessage("send", typeName, 0, false)
		return 0, fmt.Errorf("session: write %s: %w", typeName, err)
	}
	c.nextID++
	observability.RecordMessage("send", typeName, w.Items(), true)
	c.logger.Debug().Str("type", typeName).Uint64("message_id", msgID).Int("items", w.Items()).Msg("session sent value")
	return msgID, nil
}

// Receive reads the next frame and decodes its single value.
func (c *Conn) Receive() (Message, error) {
	f, err := frame.ReadFrame(c.r, c.cfg.Frame)
	if err != nil {
		return Message{}, err
	}
	typeName := frame.MessageTypeName(f.Header.MessageType)

	src := &headCapture{src: tlv.NewReaderSize(bytes.NewReader(f.Payload), c.cfg.MaxRecordValue)}
	value, err := protocol.DecodeWithLimits(src, true, c.cfg.Decode)
	if err != nil {
		observability.RecordMessage("receive", typeName, src.items, false)
		c.logger.Error().Err(err).Str("type", typeName).Uint64("message_id", f.Header.MessageID).Msg("session decode failed")
		return Message{}, fmt.Errorf("session: decode %s %d: %w", typeName, f.Header.MessageID, err)
	}
	observability.RecordMessage("receive", typeName, src.items, true)
	c.logger.Debug().Str("type", typeName).Uint64("message_id", f.Header.MessageID).Int("items", src.items).Msg("session received value")
	return Message{Header: f.Header, ID: src.id, Value: value}, nil
}

// headCapture remembers the identifier of the first frame it passes along.
type headCapture struct {
	src   protocol.Source
	items int
	id    string
}

func (h *headCapture) Next() (protocol.Item, bool, error) {
	it, ok, err := h.src.Next()
	if err != nil || !ok {
		return it, ok, err
	}
	if h.items == 0 && it.Kind == protocol.ItemFrame {
		h.id = it.Frame.ID
	}
	h.items++
	return it, true, nil
}
