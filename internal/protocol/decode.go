package protocol

import (
	"fmt"
	"strings"

	"github.com/danmuck/azadio/internal/iodata"
)

// Limits guards decoding of untrusted streams. Zero fields are unlimited.
type Limits struct {
	MaxDepth int
	MaxLen   int
}

func DefaultLimits() Limits {
	return Limits{
		MaxDepth: 256,
		MaxLen:   16 * 1024 * 1024,
	}
}

const maxPrealloc = 1024

// Decode reads exactly one value from src. With checkEnd set, any item left
// after that value is ErrTrailingData.
func Decode(src Source, checkEnd bool) (any, error) {
	return DecodeWithLimits(src, checkEnd, DefaultLimits())
}

func DecodeWithLimits(src Source, checkEnd bool, limits Limits) (any, error) {
	d := decoder{src: src, limits: limits}
	v, err := d.value(0)
	if err != nil {
		return nil, err
	}
	if checkEnd {
		extra, ok, err := src.Next()
		if err != nil {
			return nil, err
		}
		if ok {
			return nil, fmt.Errorf("%w: %s", ErrTrailingData, extra)
		}
	}
	return v, nil
}

type decoder struct {
	src    Source
	limits Limits
}

func (d *decoder) next() (Item, error) {
	it, ok, err := d.src.Next()
	if err != nil {
		return Item{}, err
	}
	if !ok {
		return Item{}, ErrTruncated
	}
	return it, nil
}

func (d *decoder) value(depth int) (any, error) {
	head, err := d.next()
	if err != nil {
		return nil, err
	}
	switch head.Kind {
	case ItemFrame:
		return d.composite(head.Frame, depth)
	case ItemLiteral:
		if !iodata.KindOf(head.Literal).Scalar() {
			return nil, fmt.Errorf("%w: literal %T", ErrUnsupportedType, head.Literal)
		}
		return head.Literal, nil
	default:
		return nil, fmt.Errorf("%w: %s at value position", ErrUnsupportedType, head)
	}
}

func (d *decoder) composite(f Frame, depth int) (any, error) {
	if f.Kind == FrameInvalid {
		return nil, fmt.Errorf("%w: frame without kind", ErrTypeMismatch)
	}
	if f.Len < 0 {
		return nil, fmt.Errorf("%w: negative length %d", ErrInvalidLength, f.Len)
	}
	if d.limits.MaxLen > 0 && f.Len > d.limits.MaxLen {
		return nil, fmt.Errorf("%w: length %d over limit %d", ErrInvalidLength, f.Len, d.limits.MaxLen)
	}
	if d.limits.MaxDepth > 0 && depth >= d.limits.MaxDepth {
		return nil, fmt.Errorf("%w: %d", ErrDepthExceeded, d.limits.MaxDepth)
	}

	switch f.Kind {
	case FrameMapping:
		m := iodata.NewMap()
		for i := 0; i < f.Len; i++ {
			key, err := d.value(depth + 1)
			if err != nil {
				return nil, err
			}
			if !iodata.Hashable(key) {
				return nil, fmt.Errorf("%w: mapping key %T", ErrUnhashable, key)
			}
			val, err := d.value(depth + 1)
			if err != nil {
				return nil, err
			}
			m.Set(key, val)
		}
		return m, nil

	case FrameSequence:
		seq := make([]any, 0, min(f.Len, maxPrealloc))
		for i := 0; i < f.Len; i++ {
			elem, err := d.value(depth + 1)
			if err != nil {
				return nil, err
			}
			seq = append(seq, elem)
		}
		return seq, nil

	case FrameSet, FrameFrozenSet:
		set := make(iodata.Set, min(f.Len, maxPrealloc))
		for i := 0; i < f.Len; i++ {
			member, err := d.value(depth + 1)
			if err != nil {
				return nil, err
			}
			if !iodata.Hashable(member) {
				return nil, fmt.Errorf("%w: set member %T", ErrUnhashable, member)
			}
			set[member] = struct{}{}
		}
		return set, nil

	case FrameText:
		var b strings.Builder
		for i := 0; i < f.Len; i++ {
			r, err := d.unit()
			if err != nil {
				return nil, err
			}
			b.WriteRune(r)
		}
		return b.String(), nil

	case FrameBytes, FrameByteArray:
		buf := make([]byte, 0, min(f.Len, maxPrealloc))
		for i := 0; i < f.Len; i++ {
			r, err := d.unit()
			if err != nil {
				return nil, err
			}
			if r < 0 || r > 0xff {
				return nil, fmt.Errorf("%w: byte unit %d out of range", ErrTypeMismatch, r)
			}
			buf = append(buf, byte(r))
		}
		if f.Kind == FrameByteArray {
			return iodata.ByteArray(buf), nil
		}
		return buf, nil

	default:
		return nil, fmt.Errorf("%w: frame kind %s", ErrUnsupportedType, f.Kind)
	}
}

func (d *decoder) unit() (rune, error) {
	it, err := d.next()
	if err != nil {
		return 0, err
	}
	if it.Kind != ItemUnit {
		return 0, fmt.Errorf("%w: expected unit, got %s", ErrTypeMismatch, it)
	}
	return it.Unit, nil
}
