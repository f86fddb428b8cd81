package feishu

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCondition_WrapsScalar(t *testing.T) {
	cond := NewCondition("状态", OpIs, "进行中")
	assert.Equal(t, "状态", cond.FieldName)
	assert.Equal(t, OpIs, cond.Operator)
	assert.Equal(t, []any{"进行中"}, cond.Value)
}

func TestNewCondition_KeepsLists(t *testing.T) {
	cond := NewCondition("标签", OpContains, []string{"a", "b"})
	assert.Equal(t, []any{"a", "b"}, cond.Value)
}

func TestNewCondition_EmptinessOperatorsForceEmptyValue(t *testing.T) {
	for _, op := range []string{OpIsEmpty, OpIsNotEmpty} {
		cond := NewCondition("status", op, "anything")
		assert.Empty(t, cond.Value, op)

		// The wire shape must be an empty array, not null.
		raw, err := json.Marshal(cond)
		require.NoError(t, err)
		assert.Contains(t, string(raw), `"value":[]`)
	}
}

func TestAndOrFilter(t *testing.T) {
	body := AndFilter(
		NewCondition("a", OpIs, 1),
		NewCondition("b", OpIsNot, 2),
	)
	require.NotNil(t, body.Filter)
	assert.Equal(t, "and", body.Filter.Conjunction)
	assert.Len(t, body.Filter.Conditions, 2)

	body = OrFilter(NewCondition("a", OpIs, 1))
	assert.Equal(t, "or", body.Filter.Conjunction)
}

func TestComplexFilter_NestsChildren(t *testing.T) {
	left := AndFilter(NewCondition("a", OpIsGreater, 1)).Filter
	right := OrFilter(NewCondition("b", OpIsEmpty, nil)).Filter

	body := ComplexFilter("or", left, right)
	require.NotNil(t, body.Filter)
	assert.Equal(t, "or", body.Filter.Conjunction)
	assert.Len(t, body.Filter.Children, 2)
	assert.Empty(t, body.Filter.Conditions)

	raw, err := json.Marshal(body)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"children"`)
	assert.NotContains(t, string(raw), `"conditions":null`)
}
