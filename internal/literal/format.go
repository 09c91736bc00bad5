package literal

import (
	"encoding/base64"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/danmuck/azadio/internal/iodata"
)

// Format renders v as flow text that Parse reads back to the same value.
// Set members are sorted by their rendering.
func Format(v any) string {
	var b strings.Builder
	format(&b, v)
	return b.String()
}

func format(b *strings.Builder, v any) {
	switch x := v.(type) {
	case nil:
		b.WriteString("null")
	case bool:
		b.WriteString(strconv.FormatBool(x))
	case string:
		b.WriteString(strconv.Quote(x))
	case float32:
		b.WriteString(formatFloat(float64(x), 32))
	case float64:
		b.WriteString(formatFloat(x, 64))
	case []byte:
		b.WriteString("!!binary " + base64.StdEncoding.EncodeToString(x))
	case iodata.ByteArray:
		b.WriteString("!!binary " + base64.StdEncoding.EncodeToString(x))
	case []any:
		b.WriteByte('[')
		for i, elem := range x {
			if i > 0 {
				b.WriteString(", ")
			}
			format(b, elem)
		}
		b.WriteByte(']')
	case *iodata.Map:
		b.WriteByte('{')
		if x != nil {
			first := true
			for pair := x.Oldest(); pair != nil; pair = pair.Next() {
				if !first {
					b.WriteString(", ")
				}
				first = false
				format(b, pair.Key)
				b.WriteString(": ")
				format(b, pair.Value)
			}
		}
		b.WriteByte('}')
	case iodata.Set:
		members := make([]string, 0, len(x))
		for m := range x {
			members = append(members, Format(m))
		}
		slices.Sort(members)
		b.WriteString("!!set {")
		for i, m := range members {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(m)
			b.WriteString(": null")
		}
		b.WriteByte('}')
	default:
		if n, overflow, ok := iodata.IntValue(v); ok {
			if overflow {
				fmt.Fprintf(b, "%d", v)
				return
			}
			b.WriteString(strconv.FormatInt(n, 10))
			return
		}
		fmt.Fprintf(b, "%v", v)
	}
}

func formatFloat(f float64, bitSize int) string {
	switch {
	case math.IsNaN(f):
		return ".nan"
	case math.IsInf(f, 1):
		return ".inf"
	case math.IsInf(f, -1):
		return "-.inf"
	}
	s := strconv.FormatFloat(f, 'g', -1, bitSize)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}
