// Package mongo implements the datatables.Queryable contract over a
// MongoDB collection.
package mongo

import (
	"context"

	"github.com/yaoapp/kun/log"
	"github.com/yaoapp/kun/maps"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	datatables "github.com/roman-vynar/django-datatables-queryset"
)

// Collection a MongoDB record collection. The query intent accumulates on
// the value and is translated to a bson filter at execution time.
type Collection struct {
	coll   *mongo.Collection
	ctx    context.Context
	and    []datatables.Condition
	not    []datatables.Condition
	or     []datatables.Condition
	orders []string
	offset int
	limit  int
	sliced bool
}

// New create a collection over the given mongo collection
func New(coll *mongo.Collection) Collection {
	return Collection{coll: coll, ctx: context.TODO()}
}

// WithContext derive a collection bound to the request context
func (c Collection) WithContext(ctx context.Context) Collection {
	c.ctx = ctx
	return c
}

// Filter derive a view keeping documents matching all conditions
func (c Collection) Filter(conds []datatables.Condition) datatables.Queryable {
	c.and = append(c.and[:len(c.and):len(c.and)], conds...)
	return c
}

// Exclude derive a view dropping documents matching all conditions
func (c Collection) Exclude(conds []datatables.Condition) datatables.Queryable {
	c.not = append(c.not[:len(c.not):len(c.not)], conds...)
	return c
}

// Match derive a view keeping documents matching at least one condition
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

// Count the number of documents in the view
func (c Collection) Count() (int, error) {
	total, err := c.coll.CountDocuments(c.ctx, c.filter())
	if err != nil {
		log.Error("mongo queryable Count: %s", err.Error())
		return 0, err
	}
	return int(total), nil
}

// Records the materialized view
func (c Collection) Records() ([]maps.MapStrAny, error) {
	opts := options.Find()
	if sorts := c.sorts(); len(sorts) > 0 {
		opts.SetSort(sorts)
	}
	if c.sliced {
		opts.SetSkip(int64(c.offset)).SetLimit(int64(c.limit))
	}

	cursor, err := c.coll.Find(c.ctx, c.filter(), opts)
	if err != nil {
		log.Error("mongo queryable Find: %s", err.Error())
		return nil, err
	}
	defer cursor.Close(c.ctx)

	res := []maps.MapStrAny{}
	for cursor.Next(c.ctx) {
		var doc bson.M
		if err := cursor.Decode(&doc); err != nil {
			log.Error("mongo queryable Decode: %s", err.Error())
			return nil, err
		}
		res = append(res, record(doc))
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return res, nil
}

// record converts a decoded document into a plain record, unwrapping
// nested bson documents so field traversal sees ordinary maps
func record(doc bson.M) maps.MapStrAny {
	row := maps.MapStrAny{}
	for key, value := range doc {
		row[key] = unwrap(value)
	}
	return row
}

func unwrap(value interface{}) interface{} {
	switch v := value.(type) {
	case bson.M:
		node := map[string]interface{}{}
		for key, item := range v {
			node[key] = unwrap(item)
		}
		return node
	case bson.D:
		node := map[string]interface{}{}
		for _, item := range v {
			node[item.Key] = unwrap(item.Value)
		}
		return node
	case bson.A:
		list := make([]interface{}, 0, len(v))
		for _, item := range v {
			list = append(list, unwrap(item))
		}
		return list
	}
	return value
}
