package diag

// Reporter: минимальный контракт получения диагностик от фаз.
// Реализации: BagReporter (кладёт в Bag), NopReporter, MultiReporter (fan-out).
type Reporter interface {
	Report(code Code, sev Severity, msg string, notes []string)
}

// BagReporter: адаптер, который пишет в *Bag.
type BagReporter struct{ Bag *Bag }

func (r BagReporter) Report(code Code, sev Severity, msg string, notes []string) {
	if r.Bag == nil {
		return
	}
	r.Bag.Add(Diagnostic{Severity: sev, Code: code, Message: msg, Notes: notes})
}

// NopReporter discards everything.
type NopReporter struct{}

func (NopReporter) Report(Code, Severity, string, []string) {}

// MultiReporter forwards each diagnostic to every reporter in order.
type MultiReporter []Reporter

func (m MultiReporter) Report(code Code, sev Severity, msg string, notes []string) {
	for _, r := range m {
		if r != nil {
			r.Report(code, sev, msg, notes)
		}
	}
}

// ReportError records an error and returns the Failure to propagate.
func ReportError(r Reporter, code Code, msg string, notes ...string) *Failure {
	if r != nil {
		r.Report(code, SevError, msg, notes)
	}
	return &Failure{Code: code, Message: msg}
}

// ReportWarning records a warning. It has no effect on control flow.
func ReportWarning(r Reporter, code Code, msg string, notes ...string) {
	if r != nil {
		r.Report(code, SevWarning, msg, notes)
	}
}
