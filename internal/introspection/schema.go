package introspection

import (
	schema "github.com/hanpama/haikugraph/internal/schema"
)

// extend returns a copy of sch whose query type also declares __schema and
// __type. Types other than the query root are shared with sch.
func extend(sch *schema.Schema) *schema.Schema {
	out := &schema.Schema{
		QueryType:        sch.QueryType,
		MutationType:     sch.MutationType,
		SubscriptionType: sch.SubscriptionType,
		Types:            make(map[string]*schema.Type, len(sch.Types)),
		Directives:       sch.Directives,
		Description:      sch.Description,
	}
	for name, t := range sch.Types {
		out.Types[name] = t
	}

	query := sch.GetQueryType()
	if query == nil {
		return out
	}
	root := *query
	root.Fields = append(append([]*schema.Field(nil), query.Fields...),
		&schema.Field{
			Name:        "__schema",
			Description: "Access the current type schema of this server.",
			Type:        schema.NonNullType(schema.NamedType("__Schema")),
		},
		&schema.Field{
			Name:        "__type",
			Description: "Request the type information of a single type.",
			Arguments: []*schema.InputValue{{
				Name: "name",
				Type: schema.NonNullType(schema.NamedType("String")),
			}},
			Type: schema.NamedType("__Type"),
		},
	)
	out.Types[root.Name] = &root
	return out
}
