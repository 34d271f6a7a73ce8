package datatables

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/yaoapp/kun/maps"
)

func testColumns() Columns {
	return Columns{
		"ID":         Field("id"),
		"Title":      Field("title"),
		"Created by": Field("user.name"),
		"Acks": Compute(func(row maps.MapStrAny) interface{} {
			return 0
		}),
	}
}

func gridParams(extra map[string]string) url.Values {
	params := url.Values{}
	cols := []string{"ID", "Title", "Created by", "Acks"}
	for i, name := range cols {
		prefix := "columns[" + string(rune('0'+i)) + "]"
		params.Set(prefix+"[data]", name)
		params.Set(prefix+"[name]", "")
		params.Set(prefix+"[searchable]", "true")
		params.Set(prefix+"[orderable]", "true")
		params.Set(prefix+"[search][value]", "")
	}
	for key, value := range extra {
		params.Set(key, value)
	}
	return params
}

func TestBuildFiltersGlobalSearch(t *testing.T) {
	params := gridParams(map[string]string{"search[value]": "foo"})
	filters := buildFilters(testColumns(), parseRequest(params))

	assert.Empty(t, filters.And)
	assert.Empty(t, filters.AndNot)
	// computed column never joins the OR group
	assert.Len(t, filters.Or, 3)
	for _, cond := range filters.Or {
		assert.Equal(t, OPIContains, cond.OP)
		assert.Equal(t, "foo", cond.Value)
	}
	assert.Equal(t, "user__name", filters.Or[2].Field)
}

func TestBuildFiltersValueSyntax(t *testing.T) {
	cases := []struct {
		value string
		op    string
		want  interface{}
	}{
		{"None", OPIsNull, true},
		{"42", OPExact, "42"},
		{"3,7,9", OPIn, []string{"3", "7", "9"}},
		{"bar", OPIContains, "bar"},
	}
	for _, c := range cases {
		params := gridParams(map[string]string{"columns[1][search][value]": c.value})
		filters := buildFilters(testColumns(), parseRequest(params))
		assert.Len(t, filters.And, 1, c.value)
		assert.Equal(t, "title", filters.And[0].Field, c.value)
		assert.Equal(t, c.op, filters.And[0].OP, c.value)
		assert.Equal(t, c.want, filters.And[0].Value, c.value)
	}
}

func TestBuildFiltersNegation(t *testing.T) {
	params := gridParams(map[string]string{"columns[1][search][value]": "!foo"})
	filters := buildFilters(testColumns(), parseRequest(params))
	assert.Empty(t, filters.And)
	assert.Len(t, filters.AndNot, 1)
	assert.Equal(t, OPIContains, filters.AndNot[0].OP)
	assert.Equal(t, "foo", filters.AndNot[0].Value)

	// syntax rules apply after the negation marker is stripped
	params = gridParams(map[string]string{"columns[1][search][value]": "!None"})
	filters = buildFilters(testColumns(), parseRequest(params))
	assert.Equal(t, OPIsNull, filters.AndNot[0].OP)

	params = gridParams(map[string]string{"columns[1][search][value]": "!3,7"})
	filters = buildFilters(testColumns(), parseRequest(params))
	assert.Equal(t, OPIn, filters.AndNot[0].OP)
	assert.Equal(t, []string{"3", "7"}, filters.AndNot[0].Value)
}

func TestBuildFiltersColumnValueSuppressesGlobal(t *testing.T) {
	params := gridParams(map[string]string{
		"search[value]":             "foo",
		"columns[1][search][value]": "bar",
	})
	filters := buildFilters(testColumns(), parseRequest(params))

	assert.Len(t, filters.And, 1)
	assert.Equal(t, "title", filters.And[0].Field)
	// the filtered column leaves the OR group, the others stay
	assert.Len(t, filters.Or, 2)
	for _, cond := range filters.Or {
		assert.NotEqual(t, "title", cond.Field)
	}
}

func TestBuildFiltersSkips(t *testing.T) {
	// non-searchable column
	params := gridParams(map[string]string{
		"columns[1][searchable]":    "false",
		"columns[1][search][value]": "bar",
	})
	filters := buildFilters(testColumns(), parseRequest(params))
	assert.Empty(t, filters.And)

	// unmapped column
	params = gridParams(map[string]string{
		"columns[1][data]":          "Nope",
		"columns[1][search][value]": "bar",
	})
	filters = buildFilters(testColumns(), parseRequest(params))
	assert.Empty(t, filters.And)

	// computed column
	params = gridParams(map[string]string{"columns[3][search][value]": "bar"})
	filters = buildFilters(testColumns(), parseRequest(params))
	assert.Empty(t, filters.And)

	// name wins over data when present
	params = gridParams(map[string]string{
		"columns[1][name]":          "Created by",
		"columns[1][search][value]": "bar",
	})
	filters = buildFilters(testColumns(), parseRequest(params))
	assert.Len(t, filters.And, 1)
	assert.Equal(t, "user__name", filters.And[0].Field)
}
