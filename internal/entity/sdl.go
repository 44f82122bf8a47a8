package entity

import (
	_ "embed"

	"github.com/hanpama/haikugraph/internal/dql"
)

// SDL is the GraphQL schema served for the entities of this package.
//
//go:embed schema.graphql
var SDL string

// Kind ties a GraphQL object type to its field rules and its decoder.
type Kind struct {
	Mapper dql.FieldMapper
	Decode func(b []byte) (View, error)
}

// Kinds lists every object type backed by Dgraph, by GraphQL type name.
var Kinds = map[string]Kind{
	"Haiku":          {Mapper: Haiku{}, Decode: decodeView[Haiku]},
	"DiscordUser":    {Mapper: DiscordUser{}, Decode: decodeView[DiscordUser]},
	"DiscordChannel": {Mapper: DiscordChannel{}, Decode: decodeView[DiscordChannel]},
	"DiscordServer":  {Mapper: DiscordServer{}, Decode: decodeView[DiscordServer]},
	"Person":         {Mapper: Person{}, Decode: decodeView[Person]},
}

func decodeView[T any, PT interface {
	*T
	View
}](b []byte) (View, error) {
	v, err := Decode[T](b)
	if err != nil {
		return nil, err
	}
	return PT(v), nil
}
