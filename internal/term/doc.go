// Package term provides the terminal backends the monitor draws on.
//
// Two implementations of monitor.Terminal are available: Tea, built on a
// Bubble Tea program, and Tcell, which drives a tcell screen cell by cell.
// Both report keys by the same canonical names ("q", "up", "shift+tab",
// "ctrl+c") so the monitor's key table works unchanged with either.
package term

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rileyhilliard/sysmon/internal/monitor"
	"github.com/rileyhilliard/sysmon/internal/util"
)

// ErrClosed is returned once the terminal has been released or its input
// has gone away.
var ErrClosed = errors.New("terminal closed")

// ErrNotEntered is returned when drawing before Enter.
var ErrNotEntered = errors.New("terminal not entered")

// Backend names accepted by New.
const (
	BackendTea   = "tea"
	BackendTcell = "tcell"
)

// Backends lists the valid backend names.
var Backends = []string{BackendTea, BackendTcell}

// New returns the backend with the given name.
func New(backend string, noColor bool) (monitor.Terminal, error) {
	switch strings.ToLower(backend) {
	case BackendTea, "":
		var opts []TeaOption
		if noColor {
			opts = append(opts, WithNoColor())
		}
		return NewTea(opts...), nil
	case BackendTcell:
		return NewTcell(nil, noColor), nil
	}

	msg := fmt.Sprintf("unknown terminal backend %q (expected one of %s)", backend, strings.Join(Backends, ", "))
	if s := util.SuggestSimilar(backend, Backends, 1); len(s) > 0 {
		msg += fmt.Sprintf("; did you mean %q?", s[0])
	}
	return nil, errors.New(msg)
}
