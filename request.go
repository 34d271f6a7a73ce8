package datatables

import (
	"net/url"
	"regexp"
	"sort"
	"strconv"
)

var reColumn = regexp.MustCompile(`^columns\[(\d+)\]\[(data|name|searchable|orderable)\]$`)
var reColumnSearch = regexp.MustCompile(`^columns\[(\d+)\]\[search\]\[value\]$`)
var reOrder = regexp.MustCompile(`^order\[(\d+)\]\[(column|dir)\]$`)

// column one columns[i] group of the parameter set
type column struct {
	Data       string
	Name       string
	Search     string // columns[i][search][value]
	Searchable bool
	Orderable  bool
}

// UIName the client-facing column identifier, name over data
func (col column) UIName() string {
	if col.Name != "" {
		return col.Name
	}
	return col.Data
}

// order one order[j] group of the parameter set
type order struct {
	Column    int  // referenced column index
	HasColumn bool // order[j][column] present and parseable
	Dir       string
}

// request the flat parameter set grouped by numeric index into typed
// per-column and per-order records
type request struct {
	Columns map[int]column
	Orders  map[int]order
	Search  string // search[value], the global search value
}

// parseRequest groups the loosely structured parameters in one pass.
// Unparseable indexes and unknown keys are skipped.
func parseRequest(params url.Values) *request {
	req := &request{
		Columns: map[int]column{},
		Orders:  map[int]order{},
		Search:  params.Get("search[value]"),
	}

	for name := range params {
		if matches := reColumn.FindStringSubmatch(name); matches != nil {
			i, err := strconv.Atoi(matches[1])
			if err != nil {
				continue
			}
			col := req.Columns[i]
			value := params.Get(name)
			switch matches[2] {
			case "data":
				col.Data = value
			case "name":
				col.Name = value
			case "searchable":
				col.Searchable = value == "true"
			case "orderable":
				col.Orderable = value == "true"
			}
			req.Columns[i] = col
			continue
		}

		if matches := reColumnSearch.FindStringSubmatch(name); matches != nil {
			i, err := strconv.Atoi(matches[1])
			if err != nil {
				continue
			}
			col := req.Columns[i]
			col.Search = params.Get(name)
			req.Columns[i] = col
			continue
		}

		if matches := reOrder.FindStringSubmatch(name); matches != nil {
			j, err := strconv.Atoi(matches[1])
			if err != nil {
				continue
			}
			ord := req.Orders[j]
			switch matches[2] {
			case "column":
				idx, err := strconv.Atoi(params.Get(name))
				if err != nil {
					continue
				}
				ord.Column = idx
				ord.HasColumn = true
			case "dir":
				ord.Dir = params.Get(name)
			}
			req.Orders[j] = ord
		}
	}

	return req
}

// columnIndexes the column indexes in ascending order
func (req *request) columnIndexes() []int {
	indexes := make([]int, 0, len(req.Columns))
	for i := range req.Columns {
		indexes = append(indexes, i)
	}
	sort.Ints(indexes)
	return indexes
}

// orderIndexes the order indexes in ascending order. The explicit order
// index decides the position in the sort sequence, not insertion order.
func (req *request) orderIndexes() []int {
	indexes := make([]int, 0, len(req.Orders))
	for j := range req.Orders {
		indexes = append(indexes, j)
	}
	sort.Ints(indexes)
	return indexes
}

// window the pagination window. length defaults to 10, start to 0, each
// falling back on its own parse failure. length=-1 disables pagination
// unless the optional limit parameter caps the number of rows returned.
func window(params url.Values) (limit int, offset int) {
	limit, offset = 10, 0
	if n, err := strconv.Atoi(params.Get("length")); err == nil {
		limit = n
	}
	if n, err := strconv.Atoi(params.Get("start")); err == nil {
		offset = n
	}
	if limit == -1 && params.Get("limit") != "" {
		if n, err := strconv.Atoi(params.Get("limit")); err == nil {
			limit = n
		}
	}
	return limit, offset
}

// isDigits reports whether s is a non-empty run of ASCII digits
func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
