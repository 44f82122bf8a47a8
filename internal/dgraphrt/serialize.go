package dgraphrt

import (
	"context"
	"math"
	"time"

	"github.com/golang/glog"

	schema "github.com/hanpama/haikugraph/internal/schema"
)

// SerializeLeafValue turns a leaf value of a view into its JSON form.
// DateTime values are written as RFC 3339 with nanoseconds when present.
func (r *Runtime) SerializeLeafValue(ctx context.Context, scalarOrEnumTypeName string, value any) (any, error) {
	if value == nil {
		return nil, nil
	}
	switch scalarOrEnumTypeName {
	case "String", "ID":
		if s, ok := value.(string); ok {
			return s, nil
		}
	case "Int":
		switch v := value.(type) {
		case int:
			if v >= math.MinInt32 && v <= math.MaxInt32 {
				return v, nil
			}
		case int32:
			return int(v), nil
		case int64:
			if v >= math.MinInt32 && v <= math.MaxInt32 {
				return int(v), nil
			}
		}
	case "Float":
		switch v := value.(type) {
		case float64:
			return v, nil
		case float32:
			return float64(v), nil
		case int:
			return float64(v), nil
		}
	case "Boolean":
		if b, ok := value.(bool); ok {
			return b, nil
		}
	case "DateTime":
		if t, ok := value.(time.Time); ok {
			return t.Format(time.RFC3339Nano), nil
		}
	default:
		if t := r.schema.Types[scalarOrEnumTypeName]; t != nil && t.Kind == schema.TypeKindEnum {
			if s, ok := value.(string); ok {
				for _, ev := range t.EnumValues {
					if ev.Name == s {
						return s, nil
					}
				}
			}
		}
	}
	glog.Errorf("dgraphrt: cannot serialize %v (%T) as %s", value, value, scalarOrEnumTypeName)
	return nil, unableToResolve()
}
