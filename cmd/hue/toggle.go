package main

import (
	"fmt"
	"os"
	"strings"
)

// toggle is the value of an auto|on|off flag such as --color or --ui.
type toggle uint8

const (
	toggleAuto toggle = iota
	toggleOn
	toggleOff
)

func parseToggle(flag, value string) (toggle, error) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "", "auto":
		return toggleAuto, nil
	case "on":
		return toggleOn, nil
	case "off":
		return toggleOff, nil
	}
	return toggleAuto, fmt.Errorf("invalid --%s value %q (expected auto|on|off)", flag, value)
}

// on resolves auto by asking whether f is a terminal.
func (t toggle) on(f *os.File) bool {
	switch t {
	case toggleOn:
		return true
	case toggleOff:
		return false
	}
	return isTerminal(f)
}
