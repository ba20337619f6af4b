// Package hashing computes structural hashes of JSON Item trees so equivalent
// content from different sources can be recognised.
package hashing

import (
	"hash/fnv"
	"slices"
	"strconv"
	"strings"

	"github.com/speakeasy-api/openapi-resolver/sequencedmap"
)

// Hash returns a 16 character hex digest of v. Object key order does not
// affect the result, and keys listed in ignoreKeys are skipped at every depth.
func Hash(v any, ignoreKeys ...string) string {
	h := &hasher{
		ignore:     ignoreKeys,
		inProgress: make(map[*sequencedmap.Map[string, any]]bool),
	}
	h.write(v)

	f := fnv.New64a()
	_, _ = f.Write([]byte(h.builder.String()))
	return formatHash(f.Sum64())
}

// Equal reports whether a and b hash the same.
func Equal(a, b any, ignoreKeys ...string) bool {
	return Hash(a, ignoreKeys...) == Hash(b, ignoreKeys...)
}

// formatHash converts a uint64 hash to a zero-padded 16-character hex string
// without the allocation overhead of fmt.Sprintf.
func formatHash(h uint64) string {
	const hexDigits = "0123456789abcdef"
	var buf [16]byte
	for i := 15; i >= 0; i-- {
		buf[i] = hexDigits[h&0xf]
		h >>= 4
	}
	return string(buf[:])
}

type hasher struct {
	builder    strings.Builder
	ignore     []string
	inProgress map[*sequencedmap.Map[string, any]]bool
}

// every value is written with a one byte type tag so "1" and 1 differ
func (h *hasher) write(v any) {
	switch t := v.(type) {
	case nil:
		h.builder.WriteByte('n')
	case string:
		h.builder.WriteByte('s')
		h.writeString(t)
	case bool:
		h.builder.WriteByte('b')
		h.builder.WriteString(strconv.FormatBool(t))
	case int:
		h.builder.WriteByte('i')
		h.builder.WriteString(strconv.Itoa(t))
	case int64:
		h.builder.WriteByte('i')
		h.builder.WriteString(strconv.FormatInt(t, 10))
	case float64:
		h.builder.WriteByte('f')
		h.builder.WriteString(strconv.FormatFloat(t, 'g', -1, 64))
	case []any:
		h.builder.WriteByte('[')
		for _, item := range t {
			h.write(item)
		}
		h.builder.WriteByte(']')
	case *sequencedmap.Map[string, any]:
		if t == nil {
			h.builder.WriteByte('n')
			return
		}
		if h.inProgress[t] {
			h.builder.WriteByte('^')
			return
		}
		h.inProgress[t] = true
		defer delete(h.inProgress, t)

		keys := make([]string, 0, t.Len())
		for key := range t.Keys() {
			if !slices.Contains(h.ignore, key) {
				keys = append(keys, key)
			}
		}
		slices.Sort(keys)

		h.builder.WriteByte('{')
		for _, key := range keys {
			h.writeString(key)
			h.write(t.GetOrZero(key))
		}
		h.builder.WriteByte('}')
	case map[string]any:
		h.write(sequencedmap.FromSorted(t))
	default:
		h.builder.WriteByte('?')
	}
}

func (h *hasher) writeString(s string) {
	h.builder.WriteString(strconv.Itoa(len(s)))
	h.builder.WriteByte(':')
	h.builder.WriteString(s)
}
