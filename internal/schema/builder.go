package schema

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
)

// BuildFromSDL parses and validates SDL and returns the executable schema.
//
// The result includes the built-in scalars, directives and introspection
// types. Fields of the query root that return object types are marked Async:
// they load data, while every other field projects a value already loaded.
func BuildFromSDL(name, sdl string) (*Schema, error) {
	doc, gerr := gqlparser.LoadSchema(&ast.Source{Name: name, Input: sdl})
	if gerr != nil {
		return nil, errors.Wrapf(gerr, "loading schema %s", name)
	}
	s := &Schema{
		Types:      make(map[string]*Type, len(doc.Types)),
		Directives: make(map[string]*Directive, len(doc.Directives)),
	}
	if doc.Query != nil {
		s.QueryType = doc.Query.Name
	}
	if doc.Mutation != nil {
		s.MutationType = doc.Mutation.Name
	}
	if doc.Subscription != nil {
		s.SubscriptionType = doc.Subscription.Name
	}
	for typeName, def := range doc.Types {
		s.Types[typeName] = buildType(doc, def)
	}
	for dirName, def := range doc.Directives {
		s.Directives[dirName] = buildDirective(def)
	}
	return s, nil
}

func buildType(doc *ast.Schema, def *ast.Definition) *Type {
	t := &Type{Name: def.Name, Description: def.Description}
	switch def.Kind {
	case ast.Scalar:
		t.Kind = TypeKindScalar
		if d := def.Directives.ForName("specifiedBy"); d != nil {
			if url := d.Arguments.ForName("url"); url != nil && url.Value != nil {
				raw := url.Value.Raw
				t.SpecifiedByURL = &raw
			}
		}
	case ast.Object, ast.Interface:
		t.Kind = TypeKindObject
		if def.Kind == ast.Interface {
			t.Kind = TypeKindInterface
		}
		t.Interfaces = append(t.Interfaces, def.Interfaces...)
		root := doc.Query != nil && doc.Query.Name == def.Name
		for _, f := range def.Fields {
			// __schema, __type and __typename are answered by the executor and
			// the introspection runtime, not declared by user types.
			if strings.HasPrefix(f.Name, "__") {
				continue
			}
			t.Fields = append(t.Fields, buildField(doc, f, root))
		}
	case ast.Union:
		t.Kind = TypeKindUnion
		t.PossibleTypes = append(t.PossibleTypes, def.Types...)
	case ast.Enum:
		t.Kind = TypeKindEnum
		for _, v := range def.EnumValues {
			ev := &EnumValue{Name: v.Name, Description: v.Description}
			ev.IsDeprecated, ev.DeprecationReason = deprecation(v.Directives)
			t.EnumValues = append(t.EnumValues, ev)
		}
	case ast.InputObject:
		t.Kind = TypeKindInputObject
		t.OneOf = def.Directives.ForName("oneOf") != nil
		for _, f := range def.Fields {
			t.InputFields = append(t.InputFields, buildInputValue(f.Name, f.Description, f.Type, f.DefaultValue, f.Directives))
		}
	}
	if t.Kind == TypeKindInterface {
		for _, p := range doc.PossibleTypes[def.Name] {
			t.PossibleTypes = append(t.PossibleTypes, p.Name)
		}
	}
	return t
}

func buildField(doc *ast.Schema, def *ast.FieldDefinition, root bool) *Field {
	f := &Field{
		Name:        def.Name,
		Description: def.Description,
		Type:        buildTypeRef(def.Type),
	}
	if root {
		if target := doc.Types[def.Type.Name()]; target != nil && target.Kind == ast.Object {
			f.Async = true
		}
	}
	f.IsDeprecated, f.DeprecationReason = deprecation(def.Directives)
	for _, a := range def.Arguments {
		f.Arguments = append(f.Arguments, buildInputValue(a.Name, a.Description, a.Type, a.DefaultValue, a.Directives))
	}
	return f
}

func buildDirective(def *ast.DirectiveDefinition) *Directive {
	d := &Directive{Name: def.Name, Description: def.Description, IsRepeatable: def.IsRepeatable}
	for _, loc := range def.Locations {
		d.Locations = append(d.Locations, string(loc))
	}
	for _, a := range def.Arguments {
		d.Arguments = append(d.Arguments, buildInputValue(a.Name, a.Description, a.Type, a.DefaultValue, a.Directives))
	}
	return d
}

func buildInputValue(name, description string, typ *ast.Type, def *ast.Value, dirs ast.DirectiveList) *InputValue {
	iv := &InputValue{Name: name, Description: description, Type: buildTypeRef(typ)}
	if def != nil {
		v, err := def.Value(nil)
		if err == nil {
			iv.DefaultValue = v
		}
	}
	iv.IsDeprecated, iv.DeprecationReason = deprecation(dirs)
	return iv
}

func buildTypeRef(t *ast.Type) *TypeRef {
	if t == nil {
		return nil
	}
	var ref *TypeRef
	if t.Elem != nil {
		ref = ListType(buildTypeRef(t.Elem))
	} else {
		ref = NamedType(t.NamedType)
	}
	if t.NonNull {
		ref = NonNullType(ref)
	}
	return ref
}

func deprecation(dirs ast.DirectiveList) (bool, string) {
	d := dirs.ForName("deprecated")
	if d == nil {
		return false, ""
	}
	if reason := d.Arguments.ForName("reason"); reason != nil && reason.Value != nil {
		return true, reason.Value.Raw
	}
	return true, "No longer supported"
}
