// Package cast converts loosely typed request parameter sets into
// url.Values, so grid requests can come from query strings, decoded JSON
// bodies or plain maps alike.
package cast

import (
	"fmt"
	"net/url"
	"strings"
)

// AnyToURLValues cast to url.Values
func AnyToURLValues(v interface{}) (url.Values, error) {

	values := url.Values{}
	if v == nil {
		return values, nil
	}

	switch input := v.(type) {

	case url.Values:
		return input, nil

	// draw=1&start=0&length=10, ?draw=1&start=0&length=10
	case string:
		input = strings.TrimPrefix(input, "?")
		query, err := url.ParseQuery(input)
		if err != nil {
			return nil, err
		}
		return query, nil

	// {"draw":"1", "start":0, "length":10}
	case map[string]interface{}:
		for key, val := range input {
			values.Add(key, fmt.Sprintf("%v", val))
		}
		return values, nil

	// {"draw": "1", "search[value]": "foo"}
	case map[string]string:
		for key, val := range input {
			values.Add(key, val)
		}
		return values, nil

	// ["draw=1", {"start": 0}, "length=10"]
	case []interface{}:
		for _, item := range input {
			vals, err := AnyToURLValues(item)
			if err != nil {
				return nil, err
			}
			MergeURLValues(values, vals)
		}
		return values, nil
	}

	return nil, fmt.Errorf("Unknown type %#v", v)
}

// MergeURLValues merge URL Values
func MergeURLValues(values, new url.Values) {
	for k, val := range new {
		for _, v := range val {
			values.Add(k, v)
		}
	}
}
