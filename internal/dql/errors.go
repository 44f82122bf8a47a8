package dql

import (
	"fmt"
	"strings"
)

// QueryError is a failure to translate a selection into DQL. It is one of
// *UnknownFieldError, *MissingArgumentError, *InvalidArgumentError or
// *CompositeError. Query errors describe mistakes in the client's query and
// are safe to return to the client in full.
type QueryError interface {
	error
	queryError()
}

// UnknownFieldError reports a field the entity type does not define.
type UnknownFieldError struct {
	Field string
}

func (e *UnknownFieldError) Error() string { return fmt.Sprintf("unknown field %q", e.Field) }

// MissingArgumentError reports a required argument that was not supplied.
type MissingArgumentError struct {
	Argument string
}

func (e *MissingArgumentError) Error() string {
	return fmt.Sprintf("missing argument %q", e.Argument)
}

// InvalidArgumentError reports an argument of the wrong kind or one that
// violates a constraint of the field.
type InvalidArgumentError struct {
	Argument string
	Reason   string
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("invalid argument %q: %s", e.Argument, e.Reason)
}

// CompositeError collects every failure found beneath one field.
type CompositeError struct {
	AtField  string
	Children []QueryError
}

func (e *CompositeError) Error() string {
	parts := make([]string, len(e.Children))
	for i, c := range e.Children {
		parts[i] = c.Error()
	}
	at := e.AtField
	if at == "" {
		at = "query"
	}
	return fmt.Sprintf("%s: [%s]", at, strings.Join(parts, "; "))
}

func (*UnknownFieldError) queryError()    {}
func (*MissingArgumentError) queryError() {}
func (*InvalidArgumentError) queryError() {}
func (*CompositeError) queryError()       {}

// asQueryError keeps query errors as they are and reports anything else as an
// invalid selection of field.
func asQueryError(field string, err error) QueryError {
	if qe, ok := err.(QueryError); ok {
		return qe
	}
	return &InvalidArgumentError{Argument: field, Reason: err.Error()}
}

// ErrorTree renders a query error as JSON-safe values mirroring the shape of
// the selection: composites become {"field": ..., "errors": [...]}, leaves
// become {"kind": ..., ...}.
func ErrorTree(err QueryError) map[string]any {
	switch e := err.(type) {
	case *UnknownFieldError:
		return map[string]any{"kind": "UNKNOWN_FIELD", "field": e.Field}
	case *MissingArgumentError:
		return map[string]any{"kind": "MISSING_ARGUMENT", "argument": e.Argument}
	case *InvalidArgumentError:
		return map[string]any{"kind": "INVALID_ARGUMENT", "argument": e.Argument, "reason": e.Reason}
	case *CompositeError:
		children := make([]any, len(e.Children))
		for i, c := range e.Children {
			children[i] = ErrorTree(c)
		}
		return map[string]any{"field": e.AtField, "errors": children}
	default:
		return map[string]any{"kind": "UNKNOWN", "message": err.Error()}
	}
}

// Paths flattens a query error into one dotted field path per leaf, e.g.
// "haiku.channel.nmae: unknown field \"nmae\"". Leaves directly under the root
// are prefixed with the root field only.
func Paths(err QueryError) []string {
	var out []string
	var walk func(prefix []string, err QueryError)
	walk = func(prefix []string, err QueryError) {
		switch e := err.(type) {
		case *CompositeError:
			next := prefix
			if e.AtField != "" {
				next = append(append([]string(nil), prefix...), e.AtField)
			}
			for _, c := range e.Children {
				walk(next, c)
			}
		case *UnknownFieldError:
			out = append(out, strings.Join(append(append([]string(nil), prefix...), e.Field), ".")+": "+e.Error())
		default:
			out = append(out, strings.Join(prefix, ".")+": "+e.Error())
		}
	}
	walk(nil, err)
	return out
}
