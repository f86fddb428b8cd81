package feishu

// Condition is one (field, operator, values) predicate of a filter tree.
type Condition struct {
	FieldName string `json:"field_name"`
	Operator  string `json:"operator"`
	Value     []any  `json:"value"`
}

// FilterNode is a conjunction over a list of conditions or, recursively,
// over a list of child filter trees.
type FilterNode struct {
	Conjunction string        `json:"conjunction"`
	Conditions  []Condition   `json:"conditions,omitempty"`
	Children    []*FilterNode `json:"children,omitempty"`
}

// SortSpec orders search results by one field.
type SortSpec struct {
	FieldName string `json:"field_name"`
	Desc      bool   `json:"desc,omitempty"`
}

// SearchBody is the request body of the record search endpoint.
type SearchBody struct {
	Filter *FilterNode `json:"filter,omitempty"`
	Sort   []SortSpec  `json:"sort,omitempty"`
}

// NewCondition builds a single filter condition. A scalar value is wrapped
// into a one-element list. The isEmpty and isNotEmpty operators always carry
// an empty value list regardless of the supplied value.
func NewCondition(fieldName, operator string, value any) Condition {
	var values []any
	switch v := value.(type) {
	case nil:
		values = []any{}
	case []any:
		values = v
	case []string:
		values = make([]any, len(v))
		for i, s := range v {
			values[i] = s
		}
	default:
		values = []any{v}
	}

	if operator == OpIsEmpty || operator == OpIsNotEmpty {
		values = []any{}
	}

	return Condition{FieldName: fieldName, Operator: operator, Value: values}
}

// AndFilter combines conditions into a search body requiring all of them.
func AndFilter(conditions ...Condition) *SearchBody {
	return &SearchBody{Filter: &FilterNode{Conjunction: "and", Conditions: conditions}}
}

// OrFilter combines conditions into a search body requiring any of them.
func OrFilter(conditions ...Condition) *SearchBody {
	return &SearchBody{Filter: &FilterNode{Conjunction: "or", Conditions: conditions}}
}

// ComplexFilter nests child filter trees under a top-level conjunction,
// allowing mixed and/or logic.
func ComplexFilter(conjunction string, children ...*FilterNode) *SearchBody {
	return &SearchBody{Filter: &FilterNode{Conjunction: conjunction, Children: children}}
}
