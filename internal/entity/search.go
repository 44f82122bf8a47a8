package entity

import (
	"encoding/json"
	"strings"

	"github.com/golang/glog"
	"github.com/hanpama/haikugraph/internal/dql"
	"github.com/hanpama/haikugraph/internal/selection"
	"github.com/tidwall/gjson"
)

// searches holds the blocks of a parameterized field, keyed by their
// fingerprint alias. A node may carry several, one per distinct argument set.
type searches map[string]many[Haiku]

// scanSearches collects every key of the node block b aliased for field.
func scanSearches(b []byte, field string) searches {
	out := searches{}
	prefix := field + "_"
	gjson.ParseBytes(b).ForEach(func(key, value gjson.Result) bool {
		if strings.HasPrefix(key.Str, prefix) {
			var m many[Haiku]
			if err := json.Unmarshal([]byte(value.Raw), &m); err != nil {
				glog.Errorf("%s: %v", key.Str, err)
			}
			out[key.Str] = m
		}
		return true
	})
	return out
}

// get looks the block up under the fingerprint the translator aliased it to.
// A search that matched nothing is omitted by Dgraph and resolves to empty.
func (s searches) get(entity, field string, args map[string]any) ([]*Haiku, error) {
	validated, err := dql.ValidateArgs(selection.MapArguments(args), dql.SearchArgs...)
	if err != nil {
		glog.Errorf("%s.%s: %v", entity, field, err)
		return nil, ErrUnresolvable
	}
	return s[dql.Fingerprint(field, validated)].get(entity, field)
}

// search is the DQL of a term search over the haikus reached through the
// reverse of predicate.
func search(predicate string, child *selection.Node) (string, error) {
	return dql.Search(dql.Edge{Predicate: predicate, Reverse: true}, "content", Haiku{}, child)
}
