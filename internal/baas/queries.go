package baas

import "encoding/json"

// queryExpr is one Appwrite query in its JSON form.
type queryExpr struct {
	Method    string        `json:"method"`
	Attribute string        `json:"attribute,omitempty"`
	Values    []interface{} `json:"values,omitempty"`
}

func (q queryExpr) String() string {
	data, _ := json.Marshal(q)
	return string(data)
}

func equal(attribute string, value interface{}) string {
	return queryExpr{Method: "equal", Attribute: attribute, Values: []interface{}{value}}.String()
}

func orderDesc(attribute string) string {
	return queryExpr{Method: "orderDesc", Attribute: attribute}.String()
}

func limit(n int) string {
	return queryExpr{Method: "limit", Values: []interface{}{n}}.String()
}

// listParams encodes as queries[]=...&queries[]=...
type listParams struct {
	Queries []string `url:"queries,brackets"`
}
