package dql

import (
	"fmt"
	"math"
	"regexp"

	"github.com/hanpama/haikugraph/internal/selection"
)

// ArgKind is the scalar kind an argument must have.
type ArgKind int

const (
	KindString ArgKind = iota
	KindInt
)

func (k ArgKind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInt:
		return "integer"
	}
	return "unknown"
}

// ArgSpec declares one expected argument. Check, when set, runs after the kind
// check and returns a human-readable reason for rejecting the value.
type ArgSpec struct {
	Name  string
	Kind  ArgKind
	Check func(v any) error
}

// Arg is a validated argument value: a string for KindString, an int for
// KindInt.
type Arg struct {
	Name  string
	Value any
}

// Args are validated arguments in declaration order.
type Args []Arg

// String returns the string argument called name.
func (a Args) String(name string) string {
	for _, arg := range a {
		if arg.Name == name {
			s, _ := arg.Value.(string)
			return s
		}
	}
	return ""
}

// Int returns the integer argument called name.
func (a Args) Int(name string) int {
	for _, arg := range a {
		if arg.Name == name {
			n, _ := arg.Value.(int)
			return n
		}
	}
	return 0
}

// ValidateArgs extracts the declared arguments from src. Arguments are checked
// in declaration order and the first failure is returned as a
// *MissingArgumentError or *InvalidArgumentError. Arguments src carries but
// specs do not declare are ignored.
func ValidateArgs(src selection.ArgumentSource, specs ...ArgSpec) (Args, error) {
	out := make(Args, 0, len(specs))
	for _, spec := range specs {
		raw, ok := src.Argument(spec.Name)
		if !ok || raw == nil {
			return nil, &MissingArgumentError{Argument: spec.Name}
		}
		v, ok := coerceKind(raw, spec.Kind)
		if !ok {
			return nil, &InvalidArgumentError{
				Argument: spec.Name,
				Reason:   fmt.Sprintf("expected %s, got %s", spec.Kind, describe(raw)),
			}
		}
		if spec.Check != nil {
			if err := spec.Check(v); err != nil {
				return nil, &InvalidArgumentError{Argument: spec.Name, Reason: err.Error()}
			}
		}
		out = append(out, Arg{Name: spec.Name, Value: v})
	}
	return out, nil
}

func coerceKind(v any, kind ArgKind) (any, bool) {
	switch kind {
	case KindString:
		s, ok := v.(string)
		return s, ok
	case KindInt:
		switch n := v.(type) {
		case int:
			return n, true
		case int32:
			return int(n), true
		case int64:
			if n < math.MinInt32 || n > math.MaxInt32 {
				return nil, false
			}
			return int(n), true
		case float64:
			// JSON variables decode numbers as float64.
			if n != math.Trunc(n) || n < math.MinInt32 || n > math.MaxInt32 {
				return nil, false
			}
			return int(n), true
		}
	}
	return nil, false
}

func describe(v any) string {
	switch v.(type) {
	case string:
		return "string"
	case int, int32, int64:
		return "integer"
	case float32, float64:
		return "number"
	case bool:
		return "boolean"
	case []any:
		return "list"
	case map[string]any:
		return "object"
	}
	return fmt.Sprintf("%T", v)
}

var searchTermPattern = regexp.MustCompile(`^(\p{L}+ )*\p{L}+$`)

// SearchTerm accepts words made of letters separated by single spaces. The
// term is embedded in a DQL string literal, so nothing else may pass.
func SearchTerm(v any) error {
	s, _ := v.(string)
	if !searchTermPattern.MatchString(s) {
		return fmt.Errorf("search term must be words of letters separated by single spaces")
	}
	return nil
}

// MaxPageSize bounds the first: N clause of paged edges.
const MaxPageSize = 100

// PageSize accepts result counts between 1 and MaxPageSize.
func PageSize(v any) error {
	n, _ := v.(int)
	if n < 1 || n > MaxPageSize {
		return fmt.Errorf("must be between 1 and %d", MaxPageSize)
	}
	return nil
}

var uidPattern = regexp.MustCompile(`^0x[0-9a-fA-F]+$`)

// IsValidUID reports whether id is a Dgraph uid literal such as "0x1a".
func IsValidUID(id string) bool {
	return uidPattern.MatchString(id)
}
