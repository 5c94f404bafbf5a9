package diag

// Failure is the error value handed back by a phase after it has recorded the
// corresponding diagnostic. Callers propagate it; they never report it again.
type Failure struct {
	Code    Code
	Message string
}

func (f *Failure) Error() string {
	return f.Code.ID() + ": " + f.Message
}

// Is matches any Failure with the same code, so errors.Is(err, &Failure{Code: c}) works.
func (f *Failure) Is(target error) bool {
	t, ok := target.(*Failure)
	if !ok {
		return false
	}
	return t.Code == f.Code
}
