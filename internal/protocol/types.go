package protocol

import (
	"fmt"
	"strconv"
)

// FrameKind tags the composite a Frame introduces. The zero value is invalid.
type FrameKind uint8

const (
	FrameInvalid FrameKind = iota
	FrameMapping
	FrameSequence
	FrameSet
	FrameFrozenSet
	FrameText
	FrameBytes
	FrameByteArray
)

var frameKindNames = []string{
	FrameInvalid:   "invalid",
	FrameMapping:   "mapping",
	FrameSequence:  "sequence",
	FrameSet:       "set",
	FrameFrozenSet: "frozenset",
	FrameText:      "text",
	FrameBytes:     "bytes",
	FrameByteArray: "bytearray",
}

func (k FrameKind) String() string {
	if int(k) < len(frameKindNames) {
		return frameKindNames[k]
	}
	return "framekind" + strconv.Itoa(int(k))
}

// Frame is the header of one composite value.
type Frame struct {
	Kind FrameKind
	Len  int
	// ID is opaque and caller supplied; empty means none.
	ID string
}

// ItemKind tags an Item.
type ItemKind uint8

const (
	ItemInvalid ItemKind = iota
	ItemFrame
	ItemLiteral
	ItemUnit
)

// Item is one element of an encoded stream: a Frame, a bare scalar literal
// (nil, bool, integer or real), or a bare unit (character or byte) belonging
// to the preceding text or byte frame.
type Item struct {
	Kind    ItemKind
	Frame   Frame
	Literal any
	Unit    rune
}

func FrameItem(f Frame) Item {
	return Item{Kind: ItemFrame, Frame: f}
}

func LiteralItem(v any) Item {
	return Item{Kind: ItemLiteral, Literal: v}
}

func UnitItem(r rune) Item {
	return Item{Kind: ItemUnit, Unit: r}
}

func (it Item) String() string {
	switch it.Kind {
	case ItemFrame:
		if it.Frame.ID != "" {
			return fmt.Sprintf("frame{%s len=%d id=%q}", it.Frame.Kind, it.Frame.Len, it.Frame.ID)
		}
		return fmt.Sprintf("frame{%s len=%d}", it.Frame.Kind, it.Frame.Len)
	case ItemLiteral:
		return fmt.Sprintf("literal{%v}", it.Literal)
	case ItemUnit:
		return fmt.Sprintf("unit{%q}", it.Unit)
	default:
		return "item{invalid}"
	}
}
