package diag

import "fmt"

type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Notes    []string
}

func New(sev Severity, code Code, msg string) Diagnostic {
	return Diagnostic{
		Severity: sev,
		Code:     code,
		Message:  msg,
	}
}

func NewError(code Code, msg string) Diagnostic {
	return New(SevError, code, msg)
}

func NewWarning(code Code, msg string) Diagnostic {
	return New(SevWarning, code, msg)
}

func (d Diagnostic) WithNote(msg string) Diagnostic {
	d.Notes = append(d.Notes, msg)
	return d
}

// String renders "<SEV> <ID>: <message>".
func (d Diagnostic) String() string {
	return fmt.Sprintf("%s %s: %s", d.Severity, d.Code.ID(), d.Message)
}
