// Package introspection answers __schema and __type on top of another
// runtime. The __ types themselves come from the schema prelude; this
// package only adds the two root fields and resolves the schema model.
package introspection

import (
	"context"
	"sort"

	executor "github.com/hanpama/haikugraph/internal/executor"
	schema "github.com/hanpama/haikugraph/internal/schema"
)

// Wrapper pairs the introspecting runtime with the schema it executes
// against. Run the executor with both.
type Wrapper struct {
	Runtime executor.Runtime
	Schema  *schema.Schema
}

// Wrap returns base extended with the introspection root fields. sch is left
// untouched and is what introspection queries describe.
func Wrap(base executor.Runtime, sch *schema.Schema) *Wrapper {
	return &Wrapper{
		Runtime: &runtime{base: base, described: sch},
		Schema:  extend(sch),
	}
}

type runtime struct {
	base      executor.Runtime
	described *schema.Schema
}

func (r *runtime) ResolveSync(ctx context.Context, objectType, field string, source any, args map[string]any) (any, error) {
	switch src := source.(type) {
	case *schema.Schema:
		return r.schemaField(src, field), nil
	case *schema.Type:
		return r.typeField(src, field, args), nil
	case *schema.TypeRef:
		return r.typeRefField(src, field, args), nil
	case *schema.Field:
		return fieldField(src, field, args), nil
	case *schema.InputValue:
		return inputValueField(src, field), nil
	case *schema.EnumValue:
		return enumValueField(src, field), nil
	case *schema.Directive:
		return directiveField(src, field, args), nil
	}

	if source == nil && objectType == r.described.QueryType {
		switch field {
		case "__schema":
			return r.described, nil
		case "__type":
			name, _ := args["name"].(string)
			if t := r.described.Types[name]; t != nil {
				return t, nil
			}
			return nil, nil
		}
	}
	return r.base.ResolveSync(ctx, objectType, field, source, args)
}

func (r *runtime) BatchResolveAsync(ctx context.Context, tasks []executor.AsyncResolveTask) []executor.AsyncResolveResult {
	return r.base.BatchResolveAsync(ctx, tasks)
}

func (r *runtime) SerializeLeafValue(ctx context.Context, typ string, value any) (any, error) {
	return r.base.SerializeLeafValue(ctx, typ, value)
}

func (r *runtime) schemaField(sch *schema.Schema, field string) any {
	switch field {
	case "description":
		return optional(sch.Description)
	case "types":
		out := make([]*schema.Type, 0, len(sch.Types))
		for _, t := range sch.Types {
			out = append(out, t)
		}
		sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
		return out
	case "queryType":
		return typeOrNil(sch.GetQueryType())
	case "mutationType":
		return typeOrNil(sch.GetMutationType())
	case "subscriptionType":
		return typeOrNil(sch.GetSubscriptionType())
	case "directives":
		out := make([]*schema.Directive, 0, len(sch.Directives))
		for _, d := range sch.Directives {
			out = append(out, d)
		}
		sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
		return out
	}
	return nil
}

func (r *runtime) typeField(t *schema.Type, field string, args map[string]any) any {
	includeDeprecated := boolArg(args, "includeDeprecated")
	switch field {
	case "kind":
		return string(t.Kind)
	case "name":
		return t.Name
	case "description":
		return optional(t.Description)
	case "specifiedByURL":
		if t.SpecifiedByURL == nil {
			return nil
		}
		return *t.SpecifiedByURL
	case "isOneOf":
		if t.Kind != schema.TypeKindInputObject {
			return nil
		}
		return t.OneOf
	case "fields":
		if t.Kind != schema.TypeKindObject && t.Kind != schema.TypeKindInterface {
			return nil
		}
		out := []*schema.Field{}
		for _, f := range t.Fields {
			if includeDeprecated || !f.IsDeprecated {
				out = append(out, f)
			}
		}
		return out
	case "interfaces":
		if t.Kind != schema.TypeKindObject && t.Kind != schema.TypeKindInterface {
			return nil
		}
		return r.lookup(t.Interfaces)
	case "possibleTypes":
		if t.Kind != schema.TypeKindInterface && t.Kind != schema.TypeKindUnion {
			return nil
		}
		return r.lookup(t.PossibleTypes)
	case "enumValues":
		if t.Kind != schema.TypeKindEnum {
			return nil
		}
		out := []*schema.EnumValue{}
		for _, ev := range t.EnumValues {
			if includeDeprecated || !ev.IsDeprecated {
				out = append(out, ev)
			}
		}
		return out
	case "inputFields":
		if t.Kind != schema.TypeKindInputObject {
			return nil
		}
		return filterInputValues(t.InputFields, includeDeprecated)
	}
	// ofType: named types never wrap another.
	return nil
}

// typeRefField answers __Type on a possibly wrapped reference. Wrappers
// report LIST or NON_NULL; a bare name answers as the type it names.
func (r *runtime) typeRefField(tr *schema.TypeRef, field string, args map[string]any) any {
	if tr.Kind == schema.TypeRefKindList || tr.Kind == schema.TypeRefKindNonNull {
		switch field {
		case "kind":
			return string(tr.Kind)
		case "ofType":
			return tr.OfType
		}
		return nil
	}
	if def := r.described.Types[tr.Named]; def != nil {
		return r.typeField(def, field, args)
	}
	return nil
}

func (r *runtime) lookup(names []string) []*schema.Type {
	out := make([]*schema.Type, 0, len(names))
	for _, name := range names {
		if def := r.described.Types[name]; def != nil {
			out = append(out, def)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func fieldField(f *schema.Field, field string, args map[string]any) any {
	switch field {
	case "name":
		return f.Name
	case "description":
		return optional(f.Description)
	case "args":
		return filterInputValues(f.Arguments, boolArg(args, "includeDeprecated"))
	case "type":
		return f.Type
	case "isDeprecated":
		return f.IsDeprecated
	case "deprecationReason":
		return reason(f.IsDeprecated, f.DeprecationReason)
	}
	return nil
}

func inputValueField(a *schema.InputValue, field string) any {
	switch field {
	case "name":
		return a.Name
	case "description":
		return optional(a.Description)
	case "type":
		return a.Type
	case "defaultValue":
		if a.DefaultValue == nil {
			return nil
		}
		return schema.RenderValue(a.DefaultValue)
	case "isDeprecated":
		return a.IsDeprecated
	case "deprecationReason":
		return reason(a.IsDeprecated, a.DeprecationReason)
	}
	return nil
}

func enumValueField(ev *schema.EnumValue, field string) any {
	switch field {
	case "name":
		return ev.Name
	case "description":
		return optional(ev.Description)
	case "isDeprecated":
		return ev.IsDeprecated
	case "deprecationReason":
		return reason(ev.IsDeprecated, ev.DeprecationReason)
	}
	return nil
}

func directiveField(d *schema.Directive, field string, args map[string]any) any {
	switch field {
	case "name":
		return d.Name
	case "description":
		return optional(d.Description)
	case "isRepeatable":
		return d.IsRepeatable
	case "locations":
		return append([]string(nil), d.Locations...)
	case "args":
		return filterInputValues(d.Arguments, boolArg(args, "includeDeprecated"))
	}
	return nil
}

func filterInputValues(in []*schema.InputValue, includeDeprecated bool) []*schema.InputValue {
	out := []*schema.InputValue{}
	for _, a := range in {
		if includeDeprecated || !a.IsDeprecated {
			out = append(out, a)
		}
	}
	return out
}

// optional maps an empty description to null.
func optional(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func reason(deprecated bool, why string) any {
	if !deprecated {
		return nil
	}
	return why
}

func typeOrNil(t *schema.Type) any {
	if t == nil {
		return nil
	}
	return t
}

func boolArg(args map[string]any, name string) bool {
	b, _ := args[name].(bool)
	return b
}
