package diag

import (
	"math"

	"fortio.org/safecast"
)

// Bag is an append-only, ordered log of diagnostics for one pass.
// A zero max means no limit; otherwise entries past the limit are counted but not stored.
type Bag struct {
	items         []Diagnostic
	max           uint16
	droppedErrors int
	droppedOther  int
}

func NewBag(max int) *Bag {
	limit, err := safecast.Conv[uint16](max)
	if err != nil {
		limit = math.MaxUint16
		if max < 0 {
			limit = 0
		}
	}
	capHint := int(limit)
	if capHint == 0 || capHint > 64 {
		capHint = 64
	}
	return &Bag{
		items: make([]Diagnostic, 0, capHint),
		max:   limit,
	}
}

// Add добавляет диагностику, учитывая лимит.
// Возвращает false, если диагностика не сохранена (достигнут лимит).
func (b *Bag) Add(d Diagnostic) bool {
	if b.max != 0 && len(b.items) >= int(b.max) {
		if d.Severity >= SevError {
			b.droppedErrors++
		} else {
			b.droppedOther++
		}
		return false
	}
	b.items = append(b.items, d)
	return true
}

// HasErrors возвращает true, если есть хотя бы одна диагностика с Severity >= Error
func (b *Bag) HasErrors() bool {
	return b.ErrorCount() > 0
}

// HasWarnings возвращает true, если есть хотя бы одна диагностика с Severity == Warning
func (b *Bag) HasWarnings() bool {
	for i := range b.items {
		if b.items[i].Severity == SevWarning {
			return true
		}
	}
	return false
}

// ErrorCount includes errors that were dropped because of the limit.
func (b *Bag) ErrorCount() int {
	n := b.droppedErrors
	for i := range b.items {
		if b.items[i].Severity >= SevError {
			n++
		}
	}
	return n
}

// Dropped reports how many diagnostics exceeded the limit.
func (b *Bag) Dropped() int {
	return b.droppedErrors + b.droppedOther
}

// длина
func (b *Bag) Len() int {
	return len(b.items)
}

// Items возвращает read-only slice диагностик.
// ВАЖНО: не модифицируйте возвращаемый срез! (он указывает на внутренний массив Bag)
func (b *Bag) Items() []Diagnostic {
	return b.items
}

// Errors returns error messages in the order they were recorded.
func (b *Bag) Errors() []string {
	return b.messages(func(s Severity) bool { return s >= SevError })
}

// Warnings returns warning messages in the order they were recorded.
func (b *Bag) Warnings() []string {
	return b.messages(func(s Severity) bool { return s == SevWarning })
}

func (b *Bag) messages(keep func(Severity) bool) []string {
	out := make([]string, 0, len(b.items))
	for i := range b.items {
		if keep(b.items[i].Severity) {
			out = append(out, b.items[i].Message)
		}
	}
	return out
}

// WithCode returns the diagnostics recorded under code.
func (b *Bag) WithCode(code Code) []Diagnostic {
	var out []Diagnostic
	for i := range b.items {
		if b.items[i].Code == code {
			out = append(out, b.items[i])
		}
	}
	return out
}

// Merge appends diagnostics from other. The receiver's limit still applies.
func (b *Bag) Merge(other *Bag) {
	if other == nil {
		return
	}
	for _, d := range other.items {
		b.Add(d)
	}
	b.droppedErrors += other.droppedErrors
	b.droppedOther += other.droppedOther
}

// Reset empties the bag so it can serve another pass.
func (b *Bag) Reset() {
	b.items = b.items[:0]
	b.droppedErrors = 0
	b.droppedOther = 0
}
