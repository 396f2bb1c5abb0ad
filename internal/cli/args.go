// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// args.go - Argument parsing for redpill commands.

package cli

import (
	"fmt"
	"strings"
)

// =============================================================================
// ARG PARSER
// =============================================================================

// ArgParser splits raw arguments into flags and positionals.
//
// Flags that take a value must be declared up front so that
// "--skip-login chat" is not read as skip-login=chat:
//
//	p, err := NewArgParser(raw, "backend", "config")
//	p.Flag("backend")        // "--backend http://x" or "--backend=http://x"
//	p.BoolFlag("skip-login") // "--skip-login"
//	p.Positional(0)          // first non-flag argument
//
// A lone "--" ends flag parsing; everything after it is positional.
type ArgParser struct {
	valueFlags map[string]bool
	flags      map[string]string
	boolFlags  map[string]bool
	positional []string
}

// NewArgParser parses raw. valueFlags names the flags that take a value.
func NewArgParser(raw []string, valueFlags ...string) (*ArgParser, error) {
	p := &ArgParser{
		valueFlags: make(map[string]bool, len(valueFlags)),
		flags:      make(map[string]string),
		boolFlags:  make(map[string]bool),
	}
	for _, f := range valueFlags {
		p.valueFlags[f] = true
	}

	for i := 0; i < len(raw); i++ {
		arg := raw[i]

		if arg == "--" {
			p.positional = append(p.positional, raw[i+1:]...)
			break
		}
		if !strings.HasPrefix(arg, "-") || arg == "-" {
			p.positional = append(p.positional, arg)
			continue
		}

		name := strings.TrimLeft(arg, "-")
		value, hasValue := "", false
		if eq := strings.IndexByte(name, '='); eq >= 0 {
			name, value, hasValue = name[:eq], name[eq+1:], true
		}

		if !p.valueFlags[name] {
			if hasValue {
				p.boolFlags[name] = value != "false" && value != "0"
			} else {
				p.boolFlags[name] = true
			}
			continue
		}

		if !hasValue {
			if i+1 >= len(raw) {
				return nil, &UsageError{Arg: arg, Reason: "requires a value"}
			}
			i++
			value = raw[i]
		}
		p.flags[name] = value
	}

	return p, nil
}

// Flag returns the value of a value flag, or "".
func (p *ArgParser) Flag(name string) string {
	return p.flags[strings.TrimLeft(name, "-")]
}

// FlagOrDefault returns the flag value or def when it was not given.
func (p *ArgParser) FlagOrDefault(name, def string) string {
	if v, ok := p.flags[strings.TrimLeft(name, "-")]; ok {
		return v
	}
	return def
}

// BoolFlag reports whether a boolean flag was set.
func (p *ArgParser) BoolFlag(names ...string) bool {
	for _, n := range names {
		if p.boolFlags[strings.TrimLeft(n, "-")] {
			return true
		}
	}
	return false
}

// Positional returns positional argument i, or "".
func (p *ArgParser) Positional(i int) string {
	if i < 0 || i >= len(p.positional) {
		return ""
	}
	return p.positional[i]
}

// PositionalFrom returns positional arguments from index i on.
func (p *ArgParser) PositionalFrom(i int) []string {
	if i >= len(p.positional) {
		return nil
	}
	return p.positional[i:]
}

// PositionalCount returns the number of positional arguments.
func (p *ArgParser) PositionalCount() int {
	return len(p.positional)
}

// UnknownBool returns the first boolean flag not in known, for error
// reporting.
func (p *ArgParser) UnknownBool(known ...string) error {
	allowed := make(map[string]bool, len(known))
	for _, k := range known {
		allowed[k] = true
	}
	for name := range p.boolFlags {
		if !allowed[name] {
			return &UsageError{Arg: "--" + name, Reason: "unknown flag"}
		}
	}
	return nil
}

// String is used in debug logging.
func (p *ArgParser) String() string {
	return fmt.Sprintf("flags=%v bools=%v args=%v", p.flags, p.boolFlags, p.positional)
}
