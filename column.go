package datatables

import (
	"strings"

	"github.com/yaoapp/kun/maps"
)

// Extractor computes a derived cell value from a whole record
type Extractor func(row maps.MapStrAny) interface{}

// Mapping binds a UI column to either a field path or an extractor
type Mapping struct {
	field   string
	extract Extractor
}

// Columns maps UI column names from the table header to record fields.
// Values are either Field("path.to.field") or Compute(func).
type Columns map[string]Mapping

// Field map a column to a record field, dot-separated for nested fields
func Field(path string) Mapping {
	return Mapping{field: path}
}

// Compute map a column to a derived value. Computed columns are not
// filterable or orderable, they only apply when rows are rendered.
func Compute(fn Extractor) Mapping {
	return Mapping{extract: fn}
}

// Computed reports whether the mapping is an extractor
func (m Mapping) Computed() bool {
	return m.extract != nil
}

// Path the dotted field path, empty for computed mappings
func (m Mapping) Path() string {
	return m.field
}

// token the field path in Queryable syntax, dots joined with Separator
func (m Mapping) token() string {
	return strings.ReplaceAll(m.field, ".", Separator)
}

// resolve looks up the mapping of a UI column. The UI name is
// columns[i][name] when non-empty, columns[i][data] otherwise.
func (cols Columns) resolve(name string) (Mapping, bool) {
	mapping, has := cols[name]
	if !has || (!mapping.Computed() && mapping.field == "") {
		return Mapping{}, false
	}
	return mapping, true
}
