// Package literal parses value text (YAML or JSON flow syntax) into the
// native shapes iodata classifies.
package literal

import (
	"encoding/base64"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/danmuck/azadio/internal/iodata"
	"gopkg.in/yaml.v3"
)

var (
	ErrEmpty       = errors.New("literal: empty input")
	ErrMultiDoc    = errors.New("literal: more than one document")
	ErrUnsupported = errors.New("literal: unsupported node")
	ErrBadScalar   = errors.New("literal: malformed scalar")
)

const (
	tagNull   = "!!null"
	tagBool   = "!!bool"
	tagInt    = "!!int"
	tagFloat  = "!!float"
	tagStr    = "!!str"
	tagBinary = "!!binary"
	tagSet    = "!!set"
)

// Parse reads exactly one document. Integers become int64 (uint64 when they
// only fit unsigned), reals float64, sequences []any, mappings *iodata.Map in
// document order, !!set iodata.Set and !!binary []byte.
func Parse(text string) (any, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmpty
	}
	dec := yaml.NewDecoder(strings.NewReader(text))
	var doc yaml.Node
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("literal: %w", err)
	}
	var extra yaml.Node
	if err := dec.Decode(&extra); err == nil {
		return nil, ErrMultiDoc
	}
	return convert(&doc)
}

// MustParse is Parse for fixtures.
func MustParse(text string) any {
	v, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return v
}

func convert(n *yaml.Node) (any, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) != 1 {
			return nil, ErrEmpty
		}
		return convert(n.Content[0])
	case yaml.AliasNode:
		return convert(n.Alias)
	case yaml.ScalarNode:
		return scalar(n)
	case yaml.SequenceNode:
		out := make([]any, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := convert(c)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	case yaml.MappingNode:
		if n.ShortTag() == tagSet {
			return set(n)
		}
		return mapping(n)
	default:
		return nil, fmt.Errorf("%w: kind %d at line %d", ErrUnsupported, n.Kind, n.Line)
	}
}

func mapping(n *yaml.Node) (any, error) {
	m := iodata.NewMap()
	for i := 0; i+1 < len(n.Content); i += 2 {
		k, err := convert(n.Content[i])
		if err != nil {
			return nil, err
		}
		if !iodata.Hashable(k) {
			return nil, fmt.Errorf("%w: %s mapping key at line %d", ErrUnsupported, iodata.KindOf(k), n.Content[i].Line)
		}
		v, err := convert(n.Content[i+1])
		if err != nil {
			return nil, err
		}
		m.Set(k, v)
	}
	return m, nil
}

func set(n *yaml.Node) (any, error) {
	s := iodata.NewSet()
	for i := 0; i < len(n.Content); i += 2 {
		k, err := convert(n.Content[i])
		if err != nil {
			return nil, err
		}
		if !iodata.Hashable(k) {
			return nil, fmt.Errorf("%w: %s set member at line %d", ErrUnsupported, iodata.KindOf(k), n.Content[i].Line)
		}
		s[k] = struct{}{}
	}
	return s, nil
}

func scalar(n *yaml.Node) (any, error) {
	switch n.ShortTag() {
	case tagNull:
		return nil, nil
	case tagBool:
		var b bool
		if err := n.Decode(&b); err != nil {
			return nil, fmt.Errorf("%w: %q: %w", ErrBadScalar, n.Value, err)
		}
		return b, nil
	case tagInt:
		return integer(n)
	case tagFloat:
		var f float64
		if err := n.Decode(&f); err != nil {
			return nil, fmt.Errorf("%w: %q: %w", ErrBadScalar, n.Value, err)
		}
		return f, nil
	case tagStr:
		return n.Value, nil
	case tagBinary:
		b, err := base64.StdEncoding.DecodeString(strings.Join(strings.Fields(n.Value), ""))
		if err != nil {
			return nil, fmt.Errorf("%w: binary: %w", ErrBadScalar, err)
		}
		return b, nil
	default:
		return nil, fmt.Errorf("%w: tag %s at line %d", ErrUnsupported, n.Tag, n.Line)
	}
}

func integer(n *yaml.Node) (any, error) {
	var i int64
	if err := n.Decode(&i); err == nil {
		return i, nil
	}
	var u uint64
	if err := n.Decode(&u); err == nil && u > math.MaxInt64 {
		return u, nil
	}
	// yaml.v3 resolves some integer spellings it cannot decode into int64.
	if i, err := strconv.ParseInt(strings.ReplaceAll(n.Value, "_", ""), 0, 64); err == nil {
		return i, nil
	}
	return nil, fmt.Errorf("%w: integer %q out of range", ErrBadScalar, n.Value)
}
