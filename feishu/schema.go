package feishu

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// DroppedField records one field that reconciliation removed from a write,
// and why. Partial-failure-tolerant writes report drops instead of silently
// mutating the input.
type DroppedField struct {
	Name   string
	Reason string
}

// Field name markers used for type inference. Matching is by exact suffix:
// a field named "创建时间" is a date, a field merely containing the marker
// somewhere inside is not.
const (
	markerTime       = "时间"
	markerDate       = "日期"
	markerAutoNumber = "编号"
)

func isTimeField(name string) bool {
	return strings.HasSuffix(name, markerTime) || strings.HasSuffix(name, markerDate)
}

func isAutoNumberField(name string) bool {
	return strings.HasSuffix(name, markerAutoNumber)
}

// inferFieldType guesses a schema type for a field the remote table does not
// know yet, from the value's shape first and the field name's suffix second.
// Text is the deliberate coarse fallback; robustness is preferred over
// strict schema validation here.
func inferFieldType(name string, value any) FieldType {
	switch v := value.(type) {
	case int, int8, int16, int32, int64, uint, uint32, uint64, float32, float64:
		return FieldTypeNumber
	case bool:
		return FieldTypeCheckbox
	case []string:
		return FieldTypeMultiSelect
	case []any:
		if len(v) > 0 {
			if _, ok := v[0].(string); ok {
				return FieldTypeMultiSelect
			}
		}
	}

	if isTimeField(name) {
		return FieldTypeDate
	}
	if isAutoNumberField(name) {
		return FieldTypeAutoNumber
	}
	return FieldTypeText
}

// Reconcile diffs the caller-supplied fields against the table's remote
// schema and returns the map in wire shape:
//
//   - names absent from the schema get a field created with an inferred type;
//     a creation failure drops the field rather than aborting the write
//   - date-typed values are normalized to epoch milliseconds
//   - attachment-typed values are routed through the ingestion pipeline and
//     replaced by reference descriptors
//   - nil and empty-string values are removed entirely, since the service
//     rejects nulls for most field types and omission means "leave unset"
//
// All other values pass through unchanged. The returned DroppedField list
// names every removed entry and the reason.
func (t *Table) Reconcile(ctx context.Context, fields map[string]any) (map[string]any, []DroppedField, error) {
	schema, err := t.client.ListFields(ctx, t.appToken, t.tableID)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch table schema: %w", err)
	}

	sanitized := make(map[string]any, len(fields))
	var dropped []DroppedField

	drop := func(name, reason string) {
		dropped = append(dropped, DroppedField{Name: name, Reason: reason})
	}

	for name, value := range fields {
		if value == nil || value == "" {
			drop(name, "empty value")
			continue
		}

		desc, known := schema[name]
		if !known {
			inferred := inferFieldType(name, value)
			created, err := t.client.CreateField(ctx, t.appToken, t.tableID, FieldDescriptor{Name: name, Type: inferred})
			if err != nil {
				t.logger.Warn("field auto-creation failed",
					zap.String("field", name), zap.Int("type", int(inferred)), zap.Error(err))
				drop(name, "field creation failed")
				continue
			}
			t.logger.Info("field auto-created",
				zap.String("field", name), zap.Int("type", int(inferred)))
			desc = *created
			if desc.Type == 0 {
				desc.Type = inferred
			}
		}

		switch desc.Type {
		case FieldTypeDate:
			ms, ok := toEpochMillis(value, t.client.now)
			if !ok {
				t.logger.Warn("date value not coercible",
					zap.String("field", name), zap.Any("value", value))
				drop(name, "unparseable date value")
				continue
			}
			sanitized[name] = ms

		case FieldTypeAttachment:
			refs := t.ingestAttachments(ctx, value)
			if len(refs) == 0 {
				drop(name, "no attachment ingested")
				continue
			}
			sanitized[name] = refs

		default:
			sanitized[name] = value
		}
	}

	return sanitized, dropped, nil
}
