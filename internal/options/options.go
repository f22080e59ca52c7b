// Package options splits a raw snp command line into the flags snp knows,
// the template name and the arbitrary --key value overrides that feed the
// template context.
package options

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
)

// Invocation is the result of parsing a command line.
type Invocation struct {
	// Overrides maps every --key given on the command line to its value.
	Overrides map[string]string
	// Template is the template name, empty when none was given.
	Template string
}

// Parse routes every argument naming a flag defined in flags to flags.Parse
// and turns every other "--key value" or "--key=value" pair into an override.
// A defined flag always wins over an override of the same name.
//
// Errors are reported in argument order: the first invalid override or the
// first extra positional argument is returned.
func Parse(args []string, flags *pflag.FlagSet) (*Invocation, error) {
	inv := &Invocation{Overrides: map[string]string{}}

	var (
		known       []string
		positionals []string
	)

	for i := 0; i < len(args); i++ {
		arg := args[i]

		switch {
		case arg == "--":
			positionals = append(positionals, args[i+1:]...)
			i = len(args)

		case strings.HasPrefix(arg, "--"):
			name, value, hasValue := strings.Cut(arg[2:], "=")

			if f := flags.Lookup(name); f != nil {
				known = append(known, arg)
				if !hasValue && f.NoOptDefVal == "" && i+1 < len(args) {
					i++
					known = append(known, args[i])
				}
				continue
			}

			if name == "" {
				return nil, &InvalidOverrideError{Key: name, Reason: ErrEmptyKey}
			}

			if !hasValue {
				if i+1 >= len(args) || isFlag(args[i+1]) {
					return nil, &InvalidOverrideError{Key: name, Reason: ErrMissingValue}
				}
				i++
				value = args[i]
			}

			if _, dup := inv.Overrides[name]; dup {
				return nil, &InvalidOverrideError{Key: name, Reason: ErrDuplicateKey}
			}
			inv.Overrides[name] = value

		case isFlag(arg):
			known = append(known, arg)
			if shorthandWantsValue(arg, flags) && i+1 < len(args) {
				i++
				known = append(known, args[i])
			}

		default:
			positionals = append(positionals, arg)
		}
	}

	if err := flags.Parse(known); err != nil {
		return nil, err
	}

	if len(positionals) > 1 {
		return nil, fmt.Errorf("%w %q", ErrUnexpectedArgument, positionals[1])
	}
	if len(positionals) == 1 {
		inv.Template = positionals[0]
	}

	return inv, nil
}

// isFlag reports whether arg looks like a flag rather than a value. Negative
// numbers are values.
func isFlag(arg string) bool {
	if len(arg) < 2 || arg[0] != '-' {
		return false
	}

	_, err := strconv.ParseFloat(arg, 64)

	return err != nil
}

// shorthandWantsValue reports whether a group of shorthand flags such as
// "-vo" ends in a flag whose value is the next argument.
func shorthandWantsValue(arg string, flags *pflag.FlagSet) bool {
	shorthands := arg[1:]

	for i := 0; i < len(shorthands); i++ {
		f := flags.ShorthandLookup(shorthands[i : i+1])
		if f == nil {
			return false
		}
		if f.NoOptDefVal == "" {
			// The rest of the group, if any, is the value.
			return i == len(shorthands)-1
		}
	}

	return false
}
