// Package xun implements the datatables.Queryable contract over the xun
// dbal query builder, so grid requests run as SQL against any connection
// managed by a xun capsule.
package xun

import (
	"strings"

	"github.com/yaoapp/kun/log"
	"github.com/yaoapp/kun/maps"
	"github.com/yaoapp/xun/dbal/query"

	datatables "github.com/roman-vynar/django-datatables-queryset"
)

// Builder returns a fresh query builder scoped to the base collection,
// e.g. func() query.Query { return capsule.Query().Table("announcement") }.
// A fresh builder per execution keeps derived views independent from the
// unfiltered collection.
type Builder func() query.Query

// Collection a SQL record collection. The query intent accumulates on the
// value and is replayed onto a fresh builder at execution time.
type Collection struct {
	build  Builder
	and    []datatables.Condition
	not    []datatables.Condition
	or     []datatables.Condition
	orders []string
	offset int
	limit  int
	sliced bool
}

// New create a collection over the given builder
func New(build Builder) Collection {
	return Collection{build: build}
}

// Filter derive a view keeping rows matching all conditions
func (c Collection) Filter(conds []datatables.Condition) datatables.Queryable {
	c.and = append(c.and[:len(c.and):len(c.and)], conds...)
	return c
}

// Exclude derive a view dropping rows matching all conditions
func (c Collection) Exclude(conds []datatables.Condition) datatables.Queryable {
	c.not = append(c.not[:len(c.not):len(c.not)], conds...)
	return c
}

// Match derive a view keeping rows matching at least one condition
func (c Collection) Match(conds []datatables.Condition) datatables.Queryable {
	c.or = append(c.or[:len(c.or):len(c.or)], conds...)
	return c
}

// OrderBy derive a view ordered by the sort tokens
func (c Collection) OrderBy(sorts []string) datatables.Queryable {
	c.orders = append(c.orders[:len(c.orders):len(c.orders)], sorts...)
	return c
}

// Slice derive a bounded view
func (c Collection) Slice(offset, limit int) datatables.Queryable {
	c.offset = offset
	c.limit = limit
	c.sliced = true
	return c
}

// Count the number of rows in the view
func (c Collection) Count() (int, error) {
	qb := c.apply()
	total, err := qb.Count()
	if err != nil {
		log.Error("xun queryable Count: %s", err.Error())
		return 0, err
	}
	return int(total), nil
}

// Records the materialized view
func (c Collection) Records() ([]maps.MapStrAny, error) {
	qb := c.apply()
	if c.sliced {
		qb.Offset(c.offset).Limit(c.limit)
	}

	rows, err := qb.Get()
	if err != nil {
		log.Error("xun queryable Records: %s", err.Error())
		return nil, err
	}

	res := make([]maps.MapStrAny, 0, len(rows))
	for _, row := range rows {
		fmtRow := maps.MapStrAny{}
		for key, value := range row {
			fmtRow[key] = value
		}
		res = append(res, fmtRow)
	}
	return res, nil
}

// apply replays the accumulated intent onto a fresh builder
func (c Collection) apply() query.Query {
	qb := c.build()
	for _, cond := range c.and {
		where(qb, cond)
	}
	if len(c.not) == 1 {
		whereNot(qb, c.not[0])
	} else if len(c.not) > 1 {
		// a multi-condition exclusion negates the conjunction, so the
		// negated conditions join with OR inside one group
		nots := c.not
		qb.Where(func(sub query.Query) {
			whereNot(sub, nots[0])
			for _, cond := range nots[1:] {
				orWhereNot(sub, cond)
			}
		})
	}
	if len(c.or) > 0 {
		ors := c.or
		qb.Where(func(sub query.Query) {
			for _, cond := range ors {
				orWhere(sub, cond)
			}
		})
	}
	for _, token := range c.orders {
		column, option := orderArgs(token)
		qb.OrderBy(column, option)
	}
	return qb
}

func where(qb query.Query, cond datatables.Condition) {
	field := column(cond.Field)
	switch cond.OP {
	case datatables.OPIsNull:
		qb.WhereNull(field)
	case datatables.OPExact:
		qb.Where(field, "=", cond.Value)
	case datatables.OPIn:
		qb.WhereIn(field, toList(cond.Value))
	case datatables.OPIContains:
		qb.Where(field, "like", pattern(cond.Value))
	}
}

func whereNot(qb query.Query, cond datatables.Condition) {
	field := column(cond.Field)
	switch cond.OP {
	case datatables.OPIsNull:
		qb.WhereNotNull(field)
	case datatables.OPExact:
		qb.Where(field, "<>", cond.Value)
	case datatables.OPIn:
		qb.WhereNotIn(field, toList(cond.Value))
	case datatables.OPIContains:
		qb.Where(field, "not like", pattern(cond.Value))
	}
}

func orWhereNot(qb query.Query, cond datatables.Condition) {
	field := column(cond.Field)
	switch cond.OP {
	case datatables.OPIsNull:
		qb.OrWhereNotNull(field)
	case datatables.OPExact:
		qb.OrWhere(field, "<>", cond.Value)
	case datatables.OPIn:
		qb.OrWhereNotIn(field, toList(cond.Value))
	case datatables.OPIContains:
		qb.OrWhere(field, "not like", pattern(cond.Value))
	}
}

func orWhere(qb query.Query, cond datatables.Condition) {
	field := column(cond.Field)
	switch cond.OP {
	case datatables.OPIsNull:
		qb.OrWhereNull(field)
	case datatables.OPExact:
		qb.OrWhere(field, "=", cond.Value)
	case datatables.OPIn:
		qb.OrWhereIn(field, toList(cond.Value))
	case datatables.OPIContains:
		qb.OrWhere(field, "like", pattern(cond.Value))
	}
}

// column converts a field token into a qualified column name. Nested
// segments become alias-qualified columns, the caller's builder is expected
// to join the related tables under matching aliases.
func column(field string) string {
	return strings.ReplaceAll(field, datatables.Separator, ".")
}

// orderArgs splits a sort token into OrderBy arguments
func orderArgs(token string) (string, string) {
	if strings.HasPrefix(token, datatables.DescPrefix) {
		return column(token[len(datatables.DescPrefix):]), "desc"
	}
	return column(token), "asc"
}

func pattern(value interface{}) string {
	s, _ := value.(string)
	return "%" + s + "%"
}

func toList(value interface{}) []interface{} {
	members, ok := value.([]string)
	if !ok {
		return []interface{}{value}
	}
	list := make([]interface{}, 0, len(members))
	for _, member := range members {
		list = append(list, member)
	}
	return list
}
