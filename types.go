package datatables

import (
	jsoniter "github.com/json-iterator/go"
	"github.com/yaoapp/kun/maps"
)

// Filter operators applied to individual column search values
const (
	OPIsNull    = "isnull"    // value is the literal "None"
	OPExact     = "exact"     // value is a non-negative integer
	OPIn        = "in"        // value contains commas, membership test
	OPIContains = "icontains" // everything else, case-insensitive substring
)

// Separator joins the segments of a nested field path in condition and sort
// tokens handed to a Queryable. e.g. "user.name" -> "user__name"
const Separator = "__"

// DescPrefix marks a descending sort token. e.g. "-created_at"
const DescPrefix = "-"

// Condition a single field comparison
type Condition struct {
	Field string      // field token, nested segments joined with Separator
	OP    string      // OPIsNull, OPExact, OPIn or OPIContains
	Value interface{} // string, []string (OPIn) or bool (OPIsNull)
}

// Filters the structured filter intent of one request
type Filters struct {
	And    []Condition // individual column filters, conjunctive
	AndNot []Condition // negated individual column filters ("!" prefix)
	Or     []Condition // global search across searchable columns, disjunctive
}

// Queryable the record collection the translated query runs against.
// Filter, Exclude, Match, OrderBy and Slice derive a new view and leave the
// receiver untouched, so the unfiltered collection can still be counted
// after a view was derived from it.
type Queryable interface {
	Filter(conds []Condition) Queryable  // conjunctive
	Exclude(conds []Condition) Queryable // conjunctive negation
	Match(conds []Condition) Queryable   // disjunctive
	OrderBy(sorts []string) Queryable    // tokens with optional DescPrefix
	Slice(offset, limit int) Queryable
	Count() (int, error)
	Records() ([]maps.MapStrAny, error)
}

// Response the DataTables response envelope, ready for JSON serialization
type Response struct {
	Draw            int              `json:"draw"`
	Data            []maps.MapStrAny `json:"data"`
	RecordsTotal    int              `json:"recordsTotal"`
	RecordsFiltered int              `json:"recordsFiltered"`
}

// JSON serialize the envelope
func (res *Response) JSON() ([]byte, error) {
	return jsoniter.Marshal(res)
}
