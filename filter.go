package datatables

import (
	"strings"
)

// buildFilters scans the searchable columns and emits the structured filter
// intent. A column with its own search value contributes to the AND group
// (or the AND-NOT group when the value is "!"-prefixed) and never to the
// global OR group; columns without one fall back to the global search value.
func buildFilters(cols Columns, req *request) Filters {
	filters := Filters{}
	for _, i := range req.columnIndexes() {
		col := req.Columns[i]
		if !col.Searchable {
			continue
		}

		mapping, ok := cols.resolve(col.UIName())
		if !ok || mapping.Computed() {
			continue
		}
		field := mapping.token()

		if col.Search != "" {
			value := col.Search
			negated := strings.HasPrefix(value, "!")
			if negated {
				value = value[1:]
			}
			cond := condition(field, value)
			if negated {
				filters.AndNot = append(filters.AndNot, cond)
			} else {
				filters.And = append(filters.And, cond)
			}
			continue
		}

		if req.Search != "" {
			filters.Or = append(filters.Or, Condition{Field: field, OP: OPIContains, Value: req.Search})
		}
	}
	return filters
}

// condition disambiguates an individual column search value:
// "None" tests for null, a run of digits compares strictly, a value with
// commas tests list membership, anything else matches substrings.
func condition(field string, value string) Condition {
	switch {
	case value == "None":
		return Condition{Field: field, OP: OPIsNull, Value: true}
	case isDigits(value):
		return Condition{Field: field, OP: OPExact, Value: value}
	case strings.Contains(value, ","):
		return Condition{Field: field, OP: OPIn, Value: strings.Split(value, ",")}
	default:
		return Condition{Field: field, OP: OPIContains, Value: value}
	}
}
