package dgraphrt

import "github.com/hanpama/haikugraph/internal/dql"

const (
	msgUnableToResolve = "Unable to resolve field"
	msgInvalidInput    = "invalid_input"
	msgQueryGeneration = "Error generating DB query"
)

// FieldError is a resolution failure as the client sees it. Extensions end up
// in the "extensions" member of the GraphQL error.
type FieldError struct {
	Message string
	Ext     map[string]any
}

func (e *FieldError) Error() string { return e.Message }

func (e *FieldError) Extensions() map[string]any { return e.Ext }

// unableToResolve is the one signal for everything that went wrong past
// compilation. The cause is logged, never returned.
func unableToResolve() error {
	return &FieldError{
		Message: msgUnableToResolve,
		Ext:     map[string]any{"internal_error": "internal_error"},
	}
}

func invalidInput() error {
	return &FieldError{
		Message: msgInvalidInput,
		Ext:     map[string]any{"invalid_input": "invalid_input"},
	}
}

// queryGeneration reports a selection that cannot be compiled. These are
// mistakes in the client's query, so every failure is listed.
func queryGeneration(err dql.QueryError) error {
	return &FieldError{
		Message: msgQueryGeneration,
		Ext: map[string]any{
			"invalid_query": dql.ErrorTree(err),
			"paths":         dql.Paths(err),
		},
	}
}
