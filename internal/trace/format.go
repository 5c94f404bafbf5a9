package trace

import (
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"
)

// Format is the encoding of one trace line.
type Format uint8

const (
	FormatAuto   Format = iota // text, or NDJSON for *.ndjson outputs
	FormatText
	FormatNDJSON
)

// ParseFormat reads a --trace-format value.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return FormatAuto, nil
	case "text":
		return FormatText, nil
	case "ndjson", "json":
		return FormatNDJSON, nil
	}
	return FormatAuto, fmt.Errorf("invalid trace format: %q (expected: auto|text|ndjson)", s)
}

func resolveFormat(f Format, path string) Format {
	if f != FormatAuto {
		return f
	}
	if strings.HasSuffix(path, ".ndjson") {
		return FormatNDJSON
	}
	return FormatText
}

// AppendEvent appends one newline-terminated line for ev to dst.
func AppendEvent(dst []byte, ev *Event, format Format) []byte {
	if format == FormatNDJSON {
		return appendNDJSON(dst, ev)
	}
	return appendText(dst, ev)
}

var kindMarks = [...]byte{' ', '>', '<', '*', '~'}

// appendText renders "[seq] scope  >name (detail) {k=v} 1.25ms".
func appendText(dst []byte, ev *Event) []byte {
	dst = append(dst, '[')
	dst = appendPadded(dst, strconv.FormatUint(ev.Seq, 10), 6)
	dst = append(dst, "] "...)
	dst = append(dst, ev.Scope.String()...)
	for i := len(ev.Scope.String()); i < 7; i++ {
		dst = append(dst, ' ')
	}
	if ev.ParentID > 0 {
		dst = append(dst, "  "...)
	}
	mark := byte('?')
	if int(ev.Kind) < len(kindMarks) {
		mark = kindMarks[ev.Kind]
	}
	dst = append(dst, mark)
	dst = append(dst, ev.Name...)
	if ev.Detail != "" {
		dst = append(dst, " ("...)
		dst = append(dst, ev.Detail...)
		dst = append(dst, ')')
	}
	if len(ev.Extra) > 0 {
		keys := make([]string, 0, len(ev.Extra))
		for k := range ev.Extra {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		dst = append(dst, " {"...)
		for i, k := range keys {
			if i > 0 {
				dst = append(dst, ", "...)
			}
			dst = append(dst, k...)
			dst = append(dst, '=')
			dst = append(dst, ev.Extra[k]...)
		}
		dst = append(dst, '}')
	}
	if ev.Kind == KindEnd {
		dst = append(dst, ' ')
		dst = strconv.AppendFloat(dst, float64(ev.Elapsed)/float64(time.Millisecond), 'f', 2, 64)
		dst = append(dst, "ms"...)
	}
	return append(dst, '\n')
}

func appendPadded(dst []byte, s string, width int) []byte {
	for i := len(s); i < width; i++ {
		dst = append(dst, ' ')
	}
	return append(dst, s...)
}

type jsonEvent struct {
	Time      string            `json:"time"`
	Seq       uint64            `json:"seq"`
	Kind      string            `json:"kind"`
	Scope     string            `json:"scope"`
	SpanID    uint64            `json:"span_id,omitempty"`
	ParentID  uint64            `json:"parent_id,omitempty"`
	Name      string            `json:"name"`
	Detail    string            `json:"detail,omitempty"`
	Extra     map[string]string `json:"extra,omitempty"`
	ElapsedUS int64             `json:"elapsed_us,omitempty"`
}

func appendNDJSON(dst []byte, ev *Event) []byte {
	data, err := json.Marshal(jsonEvent{
		Time:      ev.Time.Format(time.RFC3339Nano),
		Seq:       ev.Seq,
		Kind:      ev.Kind.String(),
		Scope:     ev.Scope.String(),
		SpanID:    ev.SpanID,
		ParentID:  ev.ParentID,
		Name:      ev.Name,
		Detail:    ev.Detail,
		Extra:     ev.Extra,
		ElapsedUS: ev.Elapsed.Microseconds(),
	})
	if err != nil {
		data = fmt.Appendf(nil, `{"name":%q,"error":%q}`, ev.Name, err.Error())
	}
	dst = append(dst, data...)
	return append(dst, '\n')
}
