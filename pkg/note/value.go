package note

import (
	"encoding/json"
	"strconv"
)

// Stringify converts a frontmatter value to its canonical string form.
// Strings pass through, numbers and booleans format the obvious way,
// and anything else (lists, nested maps) is JSON-encoded. The function
// is total: every value yields some string.
func Stringify(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case uint64:
		return strconv.FormatUint(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return string(b)
	}
}
