package tlv

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"iter"
	"math"

	"github.com/danmuck/azadio/internal/iodata"
	"github.com/danmuck/azadio/internal/protocol"
)

// HeaderLen is type (1) + value length (4, big endian).
const HeaderLen = 5

// DefaultMaxValue bounds a single record value on read.
const DefaultMaxValue = 64 * 1024

var (
	ErrShortRecordHeader = errors.New("tlv: short record header")
	ErrShortRecordValue  = errors.New("tlv: short record value")
	ErrUnknownRecord     = errors.New("tlv: unknown record type")
	ErrRecordTooLarge    = errors.New("tlv: record too large")
	ErrBadRecordLength   = errors.New("tlv: bad record length")
)

// Record type IDs.
const (
	TypeFrame   uint8 = 1
	TypeNull    uint8 = 2
	TypeBool    uint8 = 3
	TypeInt     uint8 = 4
	TypeUint    uint8 = 5
	TypeFloat32 uint8 = 6
	TypeFloat64 uint8 = 7
	TypeUnit    uint8 = 8
)

// Record is one undecoded item.
type Record struct {
	Type  uint8
	Value []byte
}

const frameFixedLen = 1 + 4

// EncodeItem converts it into its record. Integers wider than int64 use
// TypeUint; every other integer is TypeInt.
func EncodeItem(it protocol.Item) (Record, error) {
	switch it.Kind {
	case protocol.ItemFrame:
		f := it.Frame
		if f.Len < 0 || uint64(f.Len) > math.MaxUint32 {
			return Record{}, fmt.Errorf("%w: frame length %d", ErrRecordTooLarge, f.Len)
		}
		buf := make([]byte, frameFixedLen+len(f.ID))
		buf[0] = byte(f.Kind)
		binary.BigEndian.PutUint32(buf[1:5], uint32(f.Len))
		copy(buf[5:], f.ID)
		return Record{Type: TypeFrame, Value: buf}, nil
	case protocol.ItemUnit:
		return Record{Type: TypeUnit, Value: putU32(uint32(it.Unit))}, nil
	case protocol.ItemLiteral:
		return encodeLiteral(it.Literal)
	default:
		return Record{}, fmt.Errorf("%w: item %s", protocol.ErrUnsupportedType, it)
	}
}

func encodeLiteral(v any) (Record, error) {
	switch x := v.(type) {
	case nil:
		return Record{Type: TypeNull}, nil
	case bool:
		b := byte(0)
		if x {
			b = 1
		}
		return Record{Type: TypeBool, Value: []byte{b}}, nil
	case float32:
		return Record{Type: TypeFloat32, Value: putU32(math.Float32bits(x))}, nil
	case float64:
		return Record{Type: TypeFloat64, Value: putU64(math.Float64bits(x))}, nil
	}
	n, overflow, ok := iodata.IntValue(v)
	switch {
	case !ok:
		return Record{}, fmt.Errorf("%w: literal %T", protocol.ErrUnsupportedType, v)
	case overflow:
		var u uint64
		switch x := v.(type) {
		case uint:
			u = uint64(x)
		case uint64:
			u = x
		}
		return Record{Type: TypeUint, Value: putU64(u)}, nil
	default:
		return Record{Type: TypeInt, Value: putU64(uint64(n))}, nil
	}
}

// DecodeItem converts a record back into an item.
func DecodeItem(rec Record) (protocol.Item, error) {
	v := rec.Value
	switch rec.Type {
	case TypeFrame:
		if len(v) < frameFixedLen {
			return protocol.Item{}, fmt.Errorf("%w: frame record of %d bytes", ErrBadRecordLength, len(v))
		}
		return protocol.FrameItem(protocol.Frame{
			Kind: protocol.FrameKind(v[0]),
			Len:  int(binary.BigEndian.Uint32(v[1:5])),
			ID:   string(v[5:]),
		}), nil
	case TypeNull:
		if err := wantLen(rec, 0); err != nil {
			return protocol.Item{}, err
		}
		return protocol.LiteralItem(nil), nil
	case TypeBool:
		if err := wantLen(rec, 1); err != nil {
			return protocol.Item{}, err
		}
		switch v[0] {
		case 0:
			return protocol.LiteralItem(false), nil
		case 1:
			return protocol.LiteralItem(true), nil
		default:
			return protocol.Item{}, fmt.Errorf("tlv: invalid bool value %d", v[0])
		}
	case TypeInt:
		if err := wantLen(rec, 8); err != nil {
			return protocol.Item{}, err
		}
		return protocol.LiteralItem(int64(binary.BigEndian.Uint64(v))), nil
	case TypeUint:
		if err := wantLen(rec, 8); err != nil {
			return protocol.Item{}, err
		}
		return protocol.LiteralItem(binary.BigEndian.Uint64(v)), nil
	case TypeFloat32:
		if err := wantLen(rec, 4); err != nil {
			return protocol.Item{}, err
		}
		return protocol.LiteralItem(math.Float32frombits(binary.BigEndian.Uint32(v))), nil
	case TypeFloat64:
		if err := wantLen(rec, 8); err != nil {
			return protocol.Item{}, err
		}
		return protocol.LiteralItem(math.Float64frombits(binary.BigEndian.Uint64(v))), nil
	case TypeUnit:
		if err := wantLen(rec, 4); err != nil {
			return protocol.Item{}, err
		}
		return protocol.UnitItem(rune(binary.BigEndian.Uint32(v))), nil
	default:
		return protocol.Item{}, fmt.Errorf("%w: %d", ErrUnknownRecord, rec.Type)
	}
}

func wantLen(rec Record, n int) error {
	if len(rec.Value) != n {
		return fmt.Errorf("%w: type %d has %d bytes, want %d", ErrBadRecordLength, rec.Type, len(rec.Value), n)
	}
	return nil
}

// AppendRecord appends the wire form of rec to dst.
func AppendRecord(dst []byte, rec Record) []byte {
	var head [HeaderLen]byte
	head[0] = rec.Type
	binary.BigEndian.PutUint32(head[1:5], uint32(len(rec.Value)))
	dst = append(dst, head[:]...)
	return append(dst, rec.Value...)
}

// Writer writes item records to an underlying stream.
type Writer struct {
	w     io.Writer
	buf   []byte
	items int
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

func (w *Writer) WriteItem(it protocol.Item) error {
	rec, err := EncodeItem(it)
	if err != nil {
		return err
	}
	w.buf = AppendRecord(w.buf[:0], rec)
	if _, err := w.w.Write(w.buf); err != nil {
		return err
	}
	w.items++
	return nil
}

// WriteSeq drains seq (typically protocol.Encode) into the stream.
func (w *Writer) WriteSeq(seq iter.Seq2[protocol.Item, error]) error {
	for it, err := range seq {
		if err != nil {
			return err
		}
		if err := w.WriteItem(it); err != nil {
			return err
		}
	}
	return nil
}

// Items is the number of records written so far.
func (w *Writer) Items() int {
	return w.items
}

// Reader is a protocol.Source reading one record per Next call.
type Reader struct {
	r        io.Reader
	maxValue uint32
	head     [HeaderLen]byte
	items    int
}

func NewReader(r io.Reader) *Reader {
	return NewReaderSize(r, DefaultMaxValue)
}

func NewReaderSize(r io.Reader, maxValue uint32) *Reader {
	return &Reader{r: r, maxValue: maxValue}
}

// Next implements protocol.Source. A clean end of the underlying stream on a
// record boundary is end of stream; anything shorter is an error.
func (r *Reader) Next() (protocol.Item, bool, error) {
	n, err := io.ReadFull(r.r, r.head[:])
	if err != nil {
		if errors.Is(err, io.EOF) && n == 0 {
			return protocol.Item{}, false, nil
		}
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return protocol.Item{}, false, ErrShortRecordHeader
		}
		return protocol.Item{}, false, err
	}
	l := binary.BigEndian.Uint32(r.head[1:5])
	if l > r.maxValue {
		return protocol.Item{}, false, fmt.Errorf("%w: %d bytes", ErrRecordTooLarge, l)
	}
	val := make([]byte, l)
	if l > 0 {
		if _, err := io.ReadFull(r.r, val); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return protocol.Item{}, false, ErrShortRecordValue
			}
			return protocol.Item{}, false, err
		}
	}
	it, err := DecodeItem(Record{Type: r.head[0], Value: val})
	if err != nil {
		return protocol.Item{}, false, err
	}
	r.items++
	return it, true, nil
}

// Items is the number of records read so far.
func (r *Reader) Items() int {
	return r.items
}

func putU32(v uint32) []byte {
	buf := make([]byte, 4)
	binary.BigEndian.PutUint32(buf, v)
	return buf
}

func putU64(v uint64) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, v)
	return buf
}
