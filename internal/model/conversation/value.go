package conversation

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Float64 coerces a loosely-typed context value to a float.
//
// Coordinates cached in ContextData cross a JSON boundary and come back in
// whatever representation the channel gateway chose: native floats, integers,
// json.Number, or a numeric string. The type switch below is the single
// conversion table for all of them.
func Float64(v any) (float64, error) {
	switch val := v.(type) {
	case float64:
		return val, nil
	case float32:
		return float64(val), nil
	case int:
		return float64(val), nil
	case int32:
		return float64(val), nil
	case int64:
		return float64(val), nil
	case json.Number:
		return val.Float64()
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return 0, fmt.Errorf("value %q is not numeric", val)
		}
		return parsed, nil
	case nil:
		return 0, fmt.Errorf("value is nil")
	default:
		return 0, fmt.Errorf("value of type %T is not numeric", v)
	}
}
