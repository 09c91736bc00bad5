package protocol

import (
	"errors"
	"fmt"
	"iter"
	"unicode/utf8"

	"github.com/danmuck/azadio/internal/iodata"
)

var errStopped = errors.New("protocol: consumer stopped")

// Encode returns the lazy item stream for v. id is attached to the top-level
// frame only. The sequence is restartable by ranging over it again; an
// unsupported value ends the stream with a final (zero Item, error) pair.
func Encode(v any, id string) iter.Seq2[Item, error] {
	return func(yield func(Item, error) bool) {
		if err := encode(v, id, yield); err != nil && !errors.Is(err, errStopped) {
			yield(Item{}, err)
		}
	}
}

// EncodeAll materialises Encode.
func EncodeAll(v any, id string) ([]Item, error) {
	var items []Item
	for it, err := range Encode(v, id) {
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, nil
}

func encode(v any, id string, yield func(Item, error) bool) error {
	emit := func(it Item) error {
		if !yield(it, nil) {
			return errStopped
		}
		return nil
	}

	switch kind := iodata.KindOf(v); kind {
	case iodata.KindMapping:
		m := v.(*iodata.Map)
		if m == nil {
			return emit(FrameItem(Frame{Kind: FrameMapping, Len: 0, ID: id}))
		}
		if err := emit(FrameItem(Frame{Kind: FrameMapping, Len: m.Len(), ID: id})); err != nil {
			return err
		}
		for pair := m.Oldest(); pair != nil; pair = pair.Next() {
			if err := encode(pair.Key, "", yield); err != nil {
				return err
			}
			if err := encode(pair.Value, "", yield); err != nil {
				return err
			}
		}
		return nil

	case iodata.KindSequence:
		seq := v.([]any)
		if err := emit(FrameItem(Frame{Kind: FrameSequence, Len: len(seq), ID: id})); err != nil {
			return err
		}
		for _, elem := range seq {
			if err := encode(elem, "", yield); err != nil {
				return err
			}
		}
		return nil

	case iodata.KindSet:
		set := v.(iodata.Set)
		if err := emit(FrameItem(Frame{Kind: FrameSequence, Len: len(set), ID: id})); err != nil {
			return err
		}
		for member := range set {
			if err := encode(member, "", yield); err != nil {
				return err
			}
		}
		return nil

	case iodata.KindText:
		s := v.(string)
		if !utf8.ValidString(s) {
			return fmt.Errorf("%w: invalid UTF-8 text", ErrUnsupportedType)
		}
		if err := emit(FrameItem(Frame{Kind: FrameText, Len: utf8.RuneCountInString(s), ID: id})); err != nil {
			return err
		}
		for _, r := range s {
			if err := emit(UnitItem(r)); err != nil {
				return err
			}
		}
		return nil

	case iodata.KindBytes, iodata.KindByteArray:
		var b []byte
		fk := FrameBytes
		if kind == iodata.KindByteArray {
			b = v.(iodata.ByteArray)
			fk = FrameByteArray
		} else {
			b = v.([]byte)
		}
		if err := emit(FrameItem(Frame{Kind: fk, Len: len(b), ID: id})); err != nil {
			return err
		}
		for _, c := range b {
			if err := emit(UnitItem(rune(c))); err != nil {
				return err
			}
		}
		return nil

	case iodata.KindNull, iodata.KindBool, iodata.KindInt, iodata.KindReal:
		return emit(LiteralItem(v))

	default:
		return fmt.Errorf("%w: %T", ErrUnsupportedType, v)
	}
}
