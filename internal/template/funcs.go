package template

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"
	gotemplate "text/template"
	"time"
)

// Names reserved by the translator. Templates cannot call these directly.
const (
	funcGet     = "get"
	funcDisplay = "display"
	funcTruthy  = "truthy"
	funcEqual   = "equal"
	funcNull    = "null"
)

func builtinFuncs() gotemplate.FuncMap {
	return gotemplate.FuncMap{
		// get is rebound for every render, see Template.Execute.
		funcGet: func(string) (any, error) {
			return nil, nil
		},
		funcDisplay: display,
		funcTruthy:  truthy,
		funcEqual:   equal,
		funcNull:    func() any { return nil },
	}
}

func isBuiltin(name string) bool {
	switch name {
	case funcGet, funcDisplay, funcTruthy, funcEqual, funcNull:
		return true
	}
	return false
}

// display formats a value for output. nil renders as nothing. Floats keep a
// fractional part ("2.0", not "2") and dates without a clock render as
// "2006-01-02", so data file scalars read back the way they were written.
func display(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case float64:
		return formatFloat(x, 64)
	case float32:
		return formatFloat(float64(x), 32)
	case time.Time:
		return formatTime(x)
	}

	return fmt.Sprint(v)
}

func formatFloat(f float64, bitSize int) string {
	s := strconv.FormatFloat(f, 'f', -1, bitSize)
	if math.IsInf(f, 0) || math.IsNaN(f) || f != math.Trunc(f) {
		return s
	}

	return s + ".0"
}

func formatTime(t time.Time) string {
	if t.Location() == time.UTC && t.Equal(t.Truncate(24*time.Hour)) {
		return t.Format(time.DateOnly)
	}

	return t.Format("2006-01-02 15:04:05 -0700")
}

// truthy reports whether v counts as true in a condition: everything except
// false and nil does, including 0 and "".
func truthy(v any) bool {
	switch b := v.(type) {
	case nil:
		return false
	case bool:
		return b
	}

	return true
}

// equal compares two values, treating numbers of different types as equal
// when they hold the same quantity.
func equal(a, b any) bool {
	fa, aNum := toFloat(a)
	fb, bNum := toFloat(b)
	if aNum && bNum {
		return fa == fb
	}

	return reflect.DeepEqual(a, b)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case nil:
		return 0, false
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	default:
		return 0, false
	}
}
