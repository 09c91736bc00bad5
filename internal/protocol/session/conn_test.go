package session

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/danmuck/azadio/internal/iodata"
	"github.com/danmuck/azadio/internal/protocol"
	"github.com/danmuck/azadio/internal/protocol/frame"
	"github.com/danmuck/azadio/internal/protocol/tlv"
	"github.com/danmuck/azadio/internal/testutil/testlog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendReceiveValues(t *testing.T) {
	testlog.Start(t)
	var pipe bytes.Buffer
	sender := NewConn(nil, &pipe)
	receiver := NewConn(&pipe, nil)

	params := iodata.NewMap()
	params.Set("a", []any{1, 2, 3})
	params.Set("b", "text")

	id1, err := sender.Send(frame.MsgParameters, params, "case-01")
	require.NoError(t, err)
	id2, err := sender.Send(frame.MsgAnswer, []any{1.5, 2.5}, "")
	require.NoError(t, err)
	assert.Equal(t, uint64(1), id1)
	assert.Equal(t, uint64(2), id2)

	msg, err := receiver.Receive()
	require.NoError(t, err)
	assert.Equal(t, frame.MsgParameters, msg.Header.MessageType)
	assert.Equal(t, "case-01", msg.ID)
	got := msg.Value.(*iodata.Map)
	a, _ := got.Get("a")
	assert.Equal(t, []any{int64(1), int64(2), int64(3)}, a)
	b, _ := got.Get("b")
	assert.Equal(t, "text", b)

	msg, err = receiver.Receive()
	require.NoError(t, err)
	assert.Equal(t, uint64(2), msg.Header.MessageID)
	assert.Equal(t, []any{1.5, 2.5}, msg.Value)

	_, err = receiver.Receive()
	assert.ErrorIs(t, err, frame.ErrShortHeader)
}

func TestSendError(t *testing.T) {
	testlog.Start(t)
	var pipe bytes.Buffer
	_, err := NewConn(nil, &pipe).SendError(errors.New("generator crashed"))
	require.NoError(t, err)

	msg, err := NewConn(&pipe, nil).Receive()
	require.NoError(t, err)
	assert.Equal(t, frame.MsgError, msg.Header.MessageType)
	assert.NotZero(t, msg.Header.Flags&frame.FlagIsError)
	assert.Equal(t, "generator crashed", msg.Value)
}

func TestSendUnsupportedValue(t *testing.T) {
	testlog.Start(t)
	var pipe bytes.Buffer
	_, err := NewConn(nil, &pipe).Send(frame.MsgAnswer, []any{struct{}{}}, "")
	assert.ErrorIs(t, err, protocol.ErrUnsupportedType)
	assert.Zero(t, pipe.Len())
}

func TestReceiveRejectsTrailingRecords(t *testing.T) {
	testlog.Start(t)
	var payload bytes.Buffer
	w := tlv.NewWriter(&payload)
	require.NoError(t, w.WriteItem(protocol.LiteralItem(int64(1))))
	require.NoError(t, w.WriteItem(protocol.LiteralItem(int64(2))))

	var pipe bytes.Buffer
	require.NoError(t, frame.WriteFrame(&pipe, frame.Frame{
		Header:  frame.Header{MessageType: frame.MsgAnswer, MessageID: 9},
		Payload: payload.Bytes(),
	}, frame.DefaultLimits()))

	_, err := NewConn(&pipe, nil).Receive()
	assert.ErrorIs(t, err, protocol.ErrTrailingData)
}

func TestReceiveEmptyPayloadIsTruncated(t *testing.T) {
	testlog.Start(t)
	var pipe bytes.Buffer
	require.NoError(t, frame.WriteFrame(&pipe, frame.Frame{
		Header: frame.Header{MessageType: frame.MsgAnswer},
	}, frame.DefaultLimits()))

	_, err := NewConn(&pipe, nil).Receive()
	assert.ErrorIs(t, err, protocol.ErrTruncated)
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, io.ErrClosedPipe }

func TestSendWriteFailureDoesNotAdvanceID(t *testing.T) {
	testlog.Start(t)
	c := NewConn(nil, failingWriter{})
	_, err := c.Send(frame.MsgAnswer, 1, "")
	assert.ErrorIs(t, err, io.ErrClosedPipe)
	assert.Equal(t, uint64(1), c.nextID)
}

func TestConnIDsAreDistinct(t *testing.T) {
	testlog.Start(t)
	a, b := NewConn(nil, nil), NewConn(nil, nil)
	assert.Len(t, a.ID(), 36)
	assert.NotEqual(t, a.ID(), b.ID())
}

func TestSendErrorNilCause(t *testing.T) {
	testlog.Start(t)
	var pipe bytes.Buffer
	c := NewConn(nil, &pipe)
	_, err := c.SendError(nil)
	assert.ErrorIs(t, err, ErrNilCause)
	assert.Zero(t, pipe.Len())
	assert.Equal(t, uint64(1), c.nextID)
}
