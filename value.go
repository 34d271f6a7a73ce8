package datatables

import (
	"strings"
	"time"

	"github.com/yaoapp/kun/maps"
)

// TimeFormat the canonical serialization of date/time cell values
const TimeFormat = "2006-01-02 15:04:05"

// materialize renders one record into a flat output row keyed by UI column
// name, invoking extractors for computed columns and traversing nested
// field paths for the rest.
func materialize(cols Columns, row maps.MapStrAny) maps.MapStrAny {
	out := maps.MapStrAny{}
	for name, mapping := range cols {
		var value interface{}
		if mapping.Computed() {
			value = mapping.extract(row)
		} else {
			value = traverse(row, mapping.Path())
		}
		out[name] = normalize(value)
	}
	return out
}

// traverse looks up a dotted field path on a record. The lookup
// short-circuits to nil as soon as an intermediate value is absent.
func traverse(row maps.MapStrAny, path string) interface{} {
	var value interface{} = row
	for _, segment := range strings.Split(path, ".") {
		if value == nil {
			return nil
		}
		switch node := value.(type) {
		case maps.MapStrAny:
			value = node[segment]
		case map[string]interface{}:
			value = node[segment]
		default:
			return nil
		}
	}
	return value
}

// normalize converts date/time values into the canonical string form,
// everything else passes through unchanged
func normalize(value interface{}) interface{} {
	switch v := value.(type) {
	case time.Time:
		return v.Format(TimeFormat)
	case *time.Time:
		if v == nil {
			return nil
		}
		return v.Format(TimeFormat)
	}
	return value
}
