package entity

import (
	"github.com/hanpama/haikugraph/internal/dql"
	"github.com/hanpama/haikugraph/internal/selection"
)

// Person is a node of the friendship graph. Friend edges carry a score facet.
type Person struct {
	wire personWire
}

type personWire struct {
	Name       scalar[string] `json:"name"`
	Friends    many[Person]   `json:"friends"`
	BestFriend one[Person]    `json:"bestFriend"`
}

func (p *Person) UnmarshalJSON(b []byte) error {
	return decodeObject("Person", b, &p.wire)
}

func (Person) DgraphType() string { return "Person" }

func (Person) MapField(child *selection.Node) (string, error) {
	switch child.Name() {
	case "name":
		return dql.Scalar("name"), nil
	case "friends":
		return dql.Nested(dql.Edge{Label: "friends", Predicate: "friend"}, Person{}, child)
	case "bestFriend":
		inner, err := dql.InnerQuery(Person{}, child)
		if err != nil {
			return "", err
		}
		edge := dql.Edge{Label: "bestFriend", Predicate: "friend", OrderDescFacet: "score", First: 1}
		return edge.Wrap(inner), nil
	}
	return "", &dql.UnknownFieldError{Field: child.Name()}
}

func (p *Person) Name() (string, error) { return p.wire.Name.get("Person", "name") }

func (p *Person) Friends() ([]*Person, error) { return p.wire.Friends.get("Person", "friends") }

// BestFriend is the friend with the highest score, or nil for a person with
// no friends.
func (p *Person) BestFriend() (*Person, error) {
	return p.wire.BestFriend.optional("Person", "bestFriend")
}

func (p *Person) Resolve(field string, _ map[string]any) (any, error) {
	switch field {
	case "name":
		return p.Name()
	case "friends":
		return p.Friends()
	case "bestFriend":
		return p.BestFriend()
	}
	return nil, unknownField("Person", field)
}
