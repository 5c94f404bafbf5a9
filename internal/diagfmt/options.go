package diagfmt

// PrettyOpts configures pretty-printing of diagnostics.
type PrettyOpts struct {
	Color     bool
	ShowNotes bool
	// Origin prefixes every line, usually the input file or module name.
	Origin string
	// Max caps the number of printed diagnostics, 0 means all.
	Max int
}

// JSONOpts configures JSON output of diagnostics.
type JSONOpts struct {
	Origin       string
	Max          int // обрезка вывода, не Bag
	IncludeNotes bool
}
