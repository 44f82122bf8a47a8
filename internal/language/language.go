// Package language exposes the GraphQL query AST used by the executor.
package language

import (
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"
)

// ParseQuery parses an executable document. Syntax errors are returned as
// *Error carrying their location.
func ParseQuery(source string) (*QueryDocument, error) {
	return ParseNamedQuery("", source)
}

// ParseNamedQuery is ParseQuery for a document read from a named source, such
// as a file given on the command line.
func ParseNamedQuery(name, source string) (*QueryDocument, error) {
	doc, err := parser.ParseQuery(&ast.Source{Name: name, Input: source})
	if err != nil {
		return nil, err
	}
	return doc, nil
}
