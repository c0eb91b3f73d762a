// Package cliargs wraps pflag.FlagSet behind a small value type
// instead of the opaque, globally-registered handle the original
// C++ argument parser used. A Parser owns its own FlagSet and option
// descriptions; nothing about it is global or shared across parser
// instances.
package cliargs

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
)

// Kind tags the type of value an option holds, mirroring the
// original parser's AddFlag/AddArgument overload set as an explicit
// enum instead of overload resolution.
type Kind int

const (
	KindFlag Kind = iota
	KindInt
	KindFloat
	KindString
)

// option describes one registered flag for help text rendering.
type option struct {
	kind      Kind
	short     string
	long      string
	help      string
	defaultAt string // pre-rendered default, empty for KindFlag
}

// Parser parses a hamarc invocation's command-line arguments. Its
// zero value is not usable; construct with New.
type Parser struct {
	name    string
	flagSet *pflag.FlagSet
	options []option
	args    []string
}

// New returns a Parser named name (used only in pflag's own usage
// error messages).
func New(name string) *Parser {
	return &Parser{
		name:    name,
		flagSet: pflag.NewFlagSet(name, pflag.ContinueOnError),
	}
}

// AddFlag registers a boolean switch, bound to dest, under its short
// and long spellings. long must be non-empty; pflag's *VarP family
// requires it (short alone is never enough to register a flag).
func (p *Parser) AddFlag(dest *bool, short, long string, help string) {
	p.flagSet.BoolVarP(dest, long, short, *dest, help)
	p.options = append(p.options, option{kind: KindFlag, short: short, long: long, help: help})
}

// AddInt registers an integer-valued option with a default.
func (p *Parser) AddInt(dest *int, short, long string, def int, help string) {
	*dest = def
	p.flagSet.IntVarP(dest, long, short, def, help)
	p.options = append(p.options, option{kind: KindInt, short: short, long: long, help: help, defaultAt: fmt.Sprint(def)})
}

// AddFloat registers a float-valued option with a default.
func (p *Parser) AddFloat(dest *float64, short, long string, def float64, help string) {
	*dest = def
	p.flagSet.Float64VarP(dest, long, short, def, help)
	p.options = append(p.options, option{kind: KindFloat, short: short, long: long, help: help, defaultAt: fmt.Sprint(def)})
}

// AddString registers a string-valued option with a default.
func (p *Parser) AddString(dest *string, short, long string, def string, help string) {
	*dest = def
	p.flagSet.StringVarP(dest, long, short, def, help)
	p.options = append(p.options, option{kind: KindString, short: short, long: long, help: help, defaultAt: def})
}

// Parse parses argv (typically os.Args[1:]). pflag.ErrHelp is
// returned unwrapped so callers can special-case --help/-h.
func (p *Parser) Parse(argv []string) error {
	if err := p.flagSet.Parse(argv); err != nil {
		return err
	}
	p.args = p.flagSet.Args()
	return nil
}

// RepeatedCount returns the number of positional (non-flag) operands
// collected by Parse. hamarc's file lists are positional rather than
// a repeated flag.
func (p *Parser) RepeatedCount() int {
	return len(p.args)
}

// Repeated returns the positional operand at index, or "" if index is
// out of range.
func (p *Parser) Repeated(index int) string {
	if index < 0 || index >= len(p.args) {
		return ""
	}
	return p.args[index]
}

// Args returns every positional operand, in order.
func (p *Parser) Args() []string {
	return append([]string(nil), p.args...)
}

// ErrHelp is pflag's own sentinel, re-exported so callers never need
// to import pflag directly just to special-case it.
var ErrHelp = pflag.ErrHelp

// Usage renders one line per registered option, in registration order,
// each with its short/long spelling and, for value options, its
// default.
func (p *Parser) Usage() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Usage: %s [options] [files...]\n\nOptions:\n", p.name)

	for _, opt := range p.options {
		var spelling string
		switch {
		case opt.short != "" && opt.long != "" && opt.short != opt.long:
			spelling = fmt.Sprintf("-%s, --%s", opt.short, opt.long)
		case opt.short != "":
			spelling = fmt.Sprintf("-%s", opt.short)
		default:
			spelling = fmt.Sprintf("--%s", opt.long)
		}

		if opt.kind == KindFlag {
			fmt.Fprintf(&b, "  %-24s %s\n", spelling, opt.help)
		} else {
			fmt.Fprintf(&b, "  %-24s %s (default: %s)\n", spelling, opt.help, opt.defaultAt)
		}
	}

	return b.String()
}
