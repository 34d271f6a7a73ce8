// Package memory implements the datatables.Queryable contract over an
// in-memory record slice. It backs the core tests and small embedded
// datasets that never touch a database.
package memory

import (
	"fmt"
	"sort"
	"strings"

	"github.com/yaoapp/kun/maps"

	datatables "github.com/roman-vynar/django-datatables-queryset"
)

// Collection an in-memory record collection. Derived views share the
// backing slice and copy the accumulated query intent, so a collection can
// be queried concurrently from independent requests.
type Collection struct {
	rows   []maps.MapStrAny
	and    []datatables.Condition
	not    []datatables.Condition
	or     []datatables.Condition
	orders []string
	offset int
	limit  int
	sliced bool
}

// New create a collection over the given records
func New(rows []maps.MapStrAny) Collection {
	return Collection{rows: rows}
}

// Filter derive a view keeping records matching all conditions
func (c Collection) Filter(conds []datatables.Condition) datatables.Queryable {
	c.and = concat(c.and, conds)
	return c
}

// Exclude derive a view dropping records matching all conditions. The
// condition set is one negated conjunction, a record survives unless every
// condition in the set matches it.
func (c Collection) Exclude(conds []datatables.Condition) datatables.Queryable {
	c.not = concat(c.not, conds)
	return c
}

// Match derive a view keeping records matching at least one condition.
// An empty condition set keeps everything.
func (c Collection) Match(conds []datatables.Condition) datatables.Queryable {
	c.or = concat(c.or, conds)
	return c
}

// OrderBy derive a view ordered by the sort tokens
func (c Collection) OrderBy(sorts []string) datatables.Queryable {
	c.orders = concat(c.orders, sorts)
	return c
}

// Slice derive a bounded view
func (c Collection) Slice(offset, limit int) datatables.Queryable {
	c.offset = offset
	c.limit = limit
	c.sliced = true
	return c
}

// Count the number of records in the view
func (c Collection) Count() (int, error) {
	return len(c.view()), nil
}

// Records the materialized view
func (c Collection) Records() ([]maps.MapStrAny, error) {
	return c.view(), nil
}

func concat[T any](base []T, extra []T) []T {
	if len(extra) == 0 {
		return base
	}
	merged := make([]T, 0, len(base)+len(extra))
	merged = append(merged, base...)
	merged = append(merged, extra...)
	return merged
}

func (c Collection) view() []maps.MapStrAny {
	res := []maps.MapStrAny{}
	for _, row := range c.rows {
		if !c.keep(row) {
			continue
		}
		res = append(res, row)
	}

	c.order(res)

	if c.sliced {
		start := c.offset
		if start > len(res) {
			start = len(res)
		}
		end := len(res)
		if c.limit >= 0 && start+c.limit < end {
			end = start + c.limit
		}
		res = res[start:end]
	}
	return res
}

func (c Collection) keep(row maps.MapStrAny) bool {
	for _, cond := range c.and {
		if !match(row, cond) {
			return false
		}
	}
	if len(c.not) > 0 {
		hit := true
		for _, cond := range c.not {
			if !match(row, cond) {
				hit = false
				break
			}
		}
		if hit {
			return false
		}
	}
	if len(c.or) > 0 {
		hit := false
		for _, cond := range c.or {
			if match(row, cond) {
				hit = true
				break
			}
		}
		if !hit {
			return false
		}
	}
	return true
}

// match evaluates one condition against a record
func match(row maps.MapStrAny, cond datatables.Condition) bool {
	value := lookup(row, cond.Field)
	switch cond.OP {

	case datatables.OPIsNull:
		return value == nil

	case datatables.OPExact:
		return value != nil && str(value) == str(cond.Value)

	case datatables.OPIn:
		if value == nil {
			return false
		}
		members, ok := cond.Value.([]string)
		if !ok {
			return false
		}
		for _, member := range members {
			if str(value) == member {
				return true
			}
		}
		return false

	case datatables.OPIContains:
		if value == nil {
			return false
		}
		return strings.Contains(strings.ToLower(str(value)), strings.ToLower(str(cond.Value)))
	}
	return false
}

// lookup resolves a field token against a record, nested segments joined
// with the datatables separator
func lookup(row maps.MapStrAny, field string) interface{} {
	var value interface{} = row
	for _, segment := range strings.Split(field, datatables.Separator) {
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

func (c Collection) order(rows []maps.MapStrAny) {
	if len(c.orders) == 0 {
		return
	}
	sort.SliceStable(rows, func(i, j int) bool {
		for _, token := range c.orders {
			field := token
			desc := strings.HasPrefix(token, datatables.DescPrefix)
			if desc {
				field = token[len(datatables.DescPrefix):]
			}
			cmp := compare(lookup(rows[i], field), lookup(rows[j], field))
			if cmp == 0 {
				continue
			}
			if desc {
				return cmp > 0
			}
			return cmp < 0
		}
		return false
	})
}

// compare orders nil first, numbers numerically, everything else as strings
func compare(a, b interface{}) int {
	if a == nil && b == nil {
		return 0
	}
	if a == nil {
		return -1
	}
	if b == nil {
		return 1
	}

	na, aok := number(a)
	nb, bok := number(b)
	if aok && bok {
		switch {
		case na < nb:
			return -1
		case na > nb:
			return 1
		default:
			return 0
		}
	}
	return strings.Compare(str(a), str(b))
}

func number(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

func str(v interface{}) string {
	return fmt.Sprintf("%v", v)
}
