package mongo

import (
	"regexp"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	datatables "github.com/roman-vynar/django-datatables-queryset"
)

// filter assembles the accumulated intent into one bson filter document
func (c Collection) filter() bson.M {
	clauses := []bson.M{}
	for _, cond := range c.and {
		clauses = append(clauses, clause(cond))
	}
	if len(c.not) == 1 {
		clauses = append(clauses, negate(c.not[0]))
	} else if len(c.not) > 1 {
		// a multi-condition exclusion negates the conjunction, a document
		// is dropped only when every condition matches it
		nots := make([]bson.M, 0, len(c.not))
		for _, cond := range c.not {
			nots = append(nots, clause(cond))
		}
		clauses = append(clauses, bson.M{"$nor": []bson.M{{"$and": nots}}})
	}
	if len(c.or) > 0 {
		ors := make([]bson.M, 0, len(c.or))
		for _, cond := range c.or {
			ors = append(ors, clause(cond))
		}
		clauses = append(clauses, bson.M{"$or": ors})
	}

	switch len(clauses) {
	case 0:
		return bson.M{}
	case 1:
		return clauses[0]
	default:
		return bson.M{"$and": clauses}
	}
}

// clause translates one condition into a bson document
func clause(cond datatables.Condition) bson.M {
	name := field(cond.Field)
	switch cond.OP {

	case datatables.OPIsNull:
		return bson.M{name: nil}

	case datatables.OPExact:
		return bson.M{name: bson.M{"$in": values(cond.Value)}}

	case datatables.OPIn:
		return bson.M{name: bson.M{"$in": values(cond.Value)}}

	case datatables.OPIContains:
		return bson.M{name: contains(cond.Value)}
	}
	return bson.M{}
}

// negate translates one condition into its complement
func negate(cond datatables.Condition) bson.M {
	name := field(cond.Field)
	switch cond.OP {

	case datatables.OPIsNull:
		return bson.M{name: bson.M{"$ne": nil}}

	case datatables.OPExact:
		return bson.M{name: bson.M{"$nin": values(cond.Value)}}

	case datatables.OPIn:
		return bson.M{name: bson.M{"$nin": values(cond.Value)}}

	case datatables.OPIContains:
		return bson.M{name: bson.M{"$not": contains(cond.Value)}}
	}
	return bson.M{}
}

// field converts a field token into mongo dot notation
func field(token string) string {
	return strings.ReplaceAll(token, datatables.Separator, ".")
}

// contains a case-insensitive substring match with the value quoted, the
// grid never sends regular expressions
func contains(value interface{}) primitive.Regex {
	s, _ := value.(string)
	return primitive.Regex{Pattern: regexp.QuoteMeta(s), Options: "i"}
}

// values expands comparison values into the candidate bson representations.
// Equality values arrive as digit strings, documents may store the field
// as either a string or a number, so both representations are matched.
func values(value interface{}) bson.A {
	members, ok := value.([]string)
	if !ok {
		if s, isStr := value.(string); isStr {
			members = []string{s}
		} else {
			return bson.A{value}
		}
	}

	list := bson.A{}
	for _, member := range members {
		list = append(list, member)
		if n, err := strconv.ParseInt(member, 10, 64); err == nil {
			list = append(list, n)
		}
	}
	return list
}

// sorts translates the sort tokens into a mongo sort document
func (c Collection) sorts() bson.D {
	doc := bson.D{}
	for _, token := range c.orders {
		direction := 1
		name := token
		if strings.HasPrefix(token, datatables.DescPrefix) {
			direction = -1
			name = token[len(datatables.DescPrefix):]
		}
		doc = append(doc, bson.E{Key: field(name), Value: direction})
	}
	return doc
}
