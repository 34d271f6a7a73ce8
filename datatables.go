// Package datatables translates DataTables grid requests (global search,
// individual column filters, multi-column sorting, pagination) into a query
// against a Queryable record collection and assembles the response envelope
// the grid expects.
//
// The caller supplies the column mapping and the collection:
//
//	columns := datatables.Columns{
//		"ID":         datatables.Field("id"),
//		"Title":      datatables.Field("title"),
//		"Created by": datatables.Field("user.name"),
//		"Acks": datatables.Compute(func(row maps.MapStrAny) interface{} {
//			return len(row.Get("acks").([]interface{}))
//		}),
//	}
//	res, err := datatables.Process(columns, params, collection)
package datatables

import (
	"net/url"
	"strconv"

	"github.com/yaoapp/kun/exception"
	"github.com/yaoapp/kun/maps"

	"github.com/roman-vynar/django-datatables-queryset/cast"
)

// Process translates the grid request parameters into a query against data
// and returns the response envelope. Malformed client input degrades
// gracefully; only failures of the underlying collection come back as
// errors. An unparseable draw token yields the empty envelope so the token
// is never reflected as anything but an integer.
func Process(cols Columns, params url.Values, data Queryable) (*Response, error) {

	draw, err := strconv.Atoi(params.Get("draw"))
	if err != nil {
		return &Response{Draw: 0, Data: []maps.MapStrAny{}}, nil
	}

	req := parseRequest(params)
	filters := buildFilters(cols, req)
	orders := buildOrders(cols, req)

	// Exclusion applies to the AND-filtered set, the OR group to the result
	// of both
	view := data.
		Filter(filters.And).
		Exclude(filters.AndNot).
		Match(filters.Or).
		OrderBy(orders)

	filtered, err := view.Count()
	if err != nil {
		return nil, err
	}

	limit, offset := window(params)
	if limit > 0 {
		view = view.Slice(offset, limit)
	}

	rows, err := view.Records()
	if err != nil {
		return nil, err
	}

	total, err := data.Count()
	if err != nil {
		return nil, err
	}

	out := make([]maps.MapStrAny, 0, len(rows))
	for _, row := range rows {
		out = append(out, materialize(cols, row))
	}

	return &Response{
		Draw:            draw,
		Data:            out,
		RecordsTotal:    total,
		RecordsFiltered: filtered,
	}, nil
}

// MustProcess Process, failures of the collection throw an exception
func MustProcess(cols Columns, params url.Values, data Queryable) *Response {
	res, err := Process(cols, params, data)
	if err != nil {
		exception.Err(err, 500).Throw()
	}
	return res
}

// ProcessAny Process with a loosely typed parameter set, anything
// cast.AnyToURLValues accepts: a query string, maps or arrays of pairs
func ProcessAny(cols Columns, v interface{}, data Queryable) (*Response, error) {
	params, err := cast.AnyToURLValues(v)
	if err != nil {
		return nil, err
	}
	return Process(cols, params, data)
}
