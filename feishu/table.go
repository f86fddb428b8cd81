package feishu

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"
	"time"

	"github.com/zhidateam/zdgotools/core/logger"
	"github.com/zhidateam/zdgotools/core/utils"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Table binds a client to one bitable table. The app token and table ID are
// opaque routing strings supplied by the caller; they are not validated
// locally.
type Table struct {
	client   *Client
	appToken string
	tableID  string
	logger   *zap.Logger
}

// NewTable creates a handle for one table of a bitable app.
func NewTable(client *Client, appToken, tableID string) *Table {
	return &Table{
		client:   client,
		appToken: appToken,
		tableID:  tableID,
		logger:   logger.WithTable(client.logger, appToken, tableID),
	}
}

// Search issues one page of a structured record query. pageSize is clamped
// to the service maximum of 500; zero leaves the server default in place.
func (t *Table) Search(ctx context.Context, body *SearchBody, pageToken string, pageSize int) (*SearchData, error) {
	params := url.Values{}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	if pageSize > 0 {
		params.Set("page_size", strconv.Itoa(pageSize))
	}
	if pageToken != "" {
		params.Set("page_token", pageToken)
	}
	return t.client.RecordsSearch(ctx, t.appToken, t.tableID, params, body)
}

// GetAll materializes the full result set of a query, following the page
// cursor until the server reports no more pages or a page comes back empty.
// An empty page terminates the walk even when has_more claims otherwise; the
// pagination state has been observed to go inconsistent. On a page failure
// the records accumulated so far are returned rather than failing the whole
// operation.
func (t *Table) GetAll(ctx context.Context, body *SearchBody) []Record {
	var records []Record
	pageToken := ""

	for {
		page, err := t.Search(ctx, body, pageToken, maxPageSize)
		if err != nil {
			t.logger.Error("record search page failed, returning partial results",
				zap.Int("accumulated", len(records)), zap.Error(err))
			return records
		}
		if len(page.Items) == 0 {
			return records
		}
		records = append(records, page.Items...)
		if !page.HasMore {
			return records
		}
		pageToken = page.PageToken
	}
}

// GetByID looks up one record by its identifier. Errors and not-found are
// collapsed into an empty record so callers need no special casing.
func (t *Table) GetByID(ctx context.Context, recordID string) Record {
	rec, err := t.client.GetRecord(ctx, t.appToken, t.tableID, recordID)
	if err != nil {
		t.logger.Error("record lookup failed", zap.String("record_id", recordID), zap.Error(err))
		return Record{Fields: map[string]any{}}
	}
	if rec.Fields == nil {
		rec.Fields = map[string]any{}
	}
	return *rec
}

// GetByKey returns the first record whose field equals the given value, or
// an empty record when there is no match.
func (t *Table) GetByKey(ctx context.Context, fieldName string, value any) Record {
	body := AndFilter(NewCondition(fieldName, OpIs, value))
	page, err := t.Search(ctx, body, "", 0)
	if err != nil {
		t.logger.Error("record lookup by key failed", zap.String("field", fieldName), zap.Error(err))
		return Record{Fields: map[string]any{}}
	}
	if len(page.Items) == 0 {
		return Record{Fields: map[string]any{}}
	}
	return page.Items[0]
}

// GetRecordsByKey returns every record whose field equals the given value.
func (t *Table) GetRecordsByKey(ctx context.Context, fieldName string, value any) []Record {
	return t.GetAll(ctx, AndFilter(NewCondition(fieldName, OpIs, value)))
}

// BatchGetByIDs fetches multiple records by identifier in one round trip.
// An empty input never reaches the network.
func (t *Table) BatchGetByIDs(ctx context.Context, recordIDs []string) ([]Record, error) {
	if len(recordIDs) == 0 {
		return []Record{}, nil
	}
	return t.client.BatchGetRecords(ctx, t.appToken, t.tableID, recordIDs)
}

// Create reconciles the fields against the remote schema and inserts a new
// record. Secondary failures during reconciliation (field creation,
// attachment ingestion, date coercion) drop the offending field and are
// reported through the logger; only the primary write can fail.
func (t *Table) Create(ctx context.Context, fields map[string]any) (*Record, error) {
	sanitized, dropped, err := t.Reconcile(ctx, fields)
	if err != nil {
		return nil, err
	}
	t.logDropped(dropped)
	return t.client.UpsertRecord(ctx, t.appToken, t.tableID, "", sanitized)
}

// Update writes fields to an existing record. When the identifier does not
// resolve to a live record the write falls back to a create, so the caller
// always ends up with a persisted record; the freshly assigned identifier is
// surfaced on the returned record.
func (t *Table) Update(ctx context.Context, recordID string, fields map[string]any) (*Record, error) {
	sanitized, dropped, err := t.Reconcile(ctx, fields)
	if err != nil {
		return nil, err
	}
	t.logDropped(dropped)

	if recordID != "" {
		if _, err := t.client.GetRecord(ctx, t.appToken, t.tableID, recordID); err != nil {
			t.logger.Warn("record not found, falling back to create",
				zap.String("record_id", recordID), zap.Error(err))
			recordID = ""
		}
	}
	return t.client.UpsertRecord(ctx, t.appToken, t.tableID, recordID, sanitized)
}

func (t *Table) logDropped(dropped []DroppedField) {
	for _, d := range dropped {
		t.logger.Warn("field dropped during reconciliation",
			zap.String("field", d.Name), zap.String("reason", d.Reason))
	}
}

// Text flattens a field value to a string. Bitable renders text-like fields
// as lists of typed segments and URL fields as nested value objects; both
// shapes are handled. Millisecond timestamps are rendered as local time when
// the field name carries the time marker.
func (r Record) Text(key string) string {
	value, ok := r.Fields[key]
	if !ok || value == nil {
		return ""
	}

	// URL-like fields nest the payload under "value".
	if m, isMap := value.(map[string]any); isMap {
		if inner, has := m["value"]; has && inner != nil {
			value = inner
		}
	}

	switch v := value.(type) {
	case string:
		return v
	case float64:
		if isTimeField(key) {
			return time.UnixMilli(int64(v)).Local().Format("2006-01-02 15:04:05")
		}
		return utils.ToString(v)
	case []any:
		out := ""
		for _, item := range v {
			switch it := item.(type) {
			case map[string]any:
				out += utils.ToString(it["text"])
			case string:
				out += it
			case float64:
				out += utils.ToString(it)
			}
		}
		return out
	default:
		return utils.ToString(v)
	}
}

// Float reads a field as a number. Non-numeric values count as a single
// unit, mirroring how quantity columns default when unset.
func (r Record) Float(key string) float64 {
	switch v := r.Fields[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	default:
		return 1
	}
}

// LinkIDs reads the linked record identifiers out of a relation field.
func (r Record) LinkIDs(key string) []string {
	m, ok := r.Fields[key].(map[string]any)
	if !ok {
		return nil
	}
	raw, ok := m["link_record_ids"].([]any)
	if !ok {
		return nil
	}
	ids := make([]string, 0, len(raw))
	for _, id := range raw {
		if s, ok := id.(string); ok {
			ids = append(ids, s)
		}
	}
	return ids
}

// JSONList parses a text field holding a JSON array.
func (r Record) JSONList(key string) []any {
	var out []any
	if err := json.Unmarshal([]byte(r.Text(key)), &out); err != nil {
		return nil
	}
	return out
}

// YAMLList parses a text field holding a YAML sequence.
func (r Record) YAMLList(key string) []any {
	var out []any
	if err := yaml.Unmarshal([]byte(r.Text(key)), &out); err != nil {
		return nil
	}
	return out
}

// YAMLMap parses a text field holding a YAML mapping.
func (r Record) YAMLMap(key string) map[string]any {
	var out map[string]any
	if err := yaml.Unmarshal([]byte(r.Text(key)), &out); err != nil {
		return nil
	}
	return out
}
