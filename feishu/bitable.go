package feishu

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"

	"go.uber.org/zap"
)

// Record is one row of a bitable table. The record identifier is assigned by
// the remote service on create and never by the client.
type Record struct {
	RecordID string         `json:"record_id"`
	Fields   map[string]any `json:"fields"`
}

// SearchData is one page of a record search result.
type SearchData struct {
	Items     []Record `json:"items"`
	HasMore   bool     `json:"has_more"`
	PageToken string   `json:"page_token"`
	Total     int      `json:"total"`
}

// RecordsSearch issues one page of a structured record query.
// params typically carries page_size and page_token.
func (c *Client) RecordsSearch(ctx context.Context, appToken, tableID string, params url.Values, body *SearchBody) (*SearchData, error) {
	apiPath := fmt.Sprintf(bitableRecordsSearchURI, appToken, tableID)
	if len(params) > 0 {
		apiPath += "?" + params.Encode()
	}
	if body == nil {
		body = &SearchBody{}
	}

	data, err := c.request(ctx, http.MethodPost, apiPath, body)
	if err != nil {
		return nil, err
	}
	var out SearchData
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, &DecodeError{URL: apiPath, Err: err}
	}
	return &out, nil
}

// GetRecord looks up a single record by its identifier.
func (c *Client) GetRecord(ctx context.Context, appToken, tableID, recordID string) (*Record, error) {
	apiPath := fmt.Sprintf(bitableRecordURI, appToken, tableID, recordID)

	data, err := c.request(ctx, http.MethodGet, apiPath, nil)
	if err != nil {
		return nil, err
	}
	var out struct {
		Record Record `json:"record"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, &DecodeError{URL: apiPath, Err: err}
	}
	return &out.Record, nil
}

// BatchGetRecords fetches up to 100 records by identifier in one round trip.
func (c *Client) BatchGetRecords(ctx context.Context, appToken, tableID string, recordIDs []string) ([]Record, error) {
	apiPath := fmt.Sprintf(bitableBatchGetURI, appToken, tableID)
	body := map[string]any{"record_ids": recordIDs, "automatic_fields": true}

	data, err := c.request(ctx, http.MethodPost, apiPath, body)
	if err != nil {
		return nil, err
	}
	var out struct {
		Records []Record `json:"records"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, &DecodeError{URL: apiPath, Err: err}
	}
	return out.Records, nil
}

// UpsertRecord creates a record when recordID is empty, otherwise updates the
// record in place. Fields must already be in wire shape.
func (c *Client) UpsertRecord(ctx context.Context, appToken, tableID, recordID string, fields map[string]any) (*Record, error) {
	apiPath := fmt.Sprintf(bitableRecordsURI, appToken, tableID)
	method := http.MethodPost
	if recordID != "" {
		apiPath += "/" + recordID
		method = http.MethodPut
	}
	body := map[string]any{"fields": fields}

	data, err := c.request(ctx, method, apiPath, body)
	if err != nil {
		return nil, err
	}
	var out struct {
		Record Record `json:"record"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, &DecodeError{URL: apiPath, Err: err}
	}
	return &out.Record, nil
}

// FieldDescriptor is the remote schema's declaration of one column.
type FieldDescriptor struct {
	FieldID  string         `json:"field_id,omitempty"`
	Name     string         `json:"field_name"`
	Type     FieldType      `json:"type"`
	Property *FieldProperty `json:"property,omitempty"`
}

// FieldProperty carries type-specific options of a field.
type FieldProperty struct {
	Options []SelectOption `json:"options,omitempty"`
}

// SelectOption is one choice of a single- or multi-select field. The ID is
// remote-assigned; it must never be sent when creating a new option.
type SelectOption struct {
	ID    string `json:"id,omitempty"`
	Name  string `json:"name"`
	Color int    `json:"color,omitempty"`
}

// fieldsPage is one page of the field list endpoint.
type fieldsPage struct {
	Items     []FieldDescriptor `json:"items"`
	HasMore   bool              `json:"has_more"`
	PageToken string            `json:"page_token"`
	Total     int               `json:"total"`
}

// TableFields is the low-level field endpoint. The REST verb is inferred from
// the presence of a request body and a field identifier: no body and no id
// lists fields, body without id creates one, body with id updates it, and id
// without body deletes it.
func (c *Client) TableFields(ctx context.Context, appToken, tableID, fieldID string, params url.Values, body any) (json.RawMessage, error) {
	apiPath := fmt.Sprintf(tableFieldsURI, appToken, tableID)
	if fieldID != "" {
		apiPath += "/" + fieldID
	}
	if len(params) > 0 {
		apiPath += "?" + params.Encode()
	}

	var method string
	switch {
	case body == nil && fieldID == "":
		method = http.MethodGet
	case body != nil && fieldID == "":
		method = http.MethodPost
	case body != nil && fieldID != "":
		method = http.MethodPut
	default:
		method = http.MethodDelete
	}

	return c.request(ctx, method, apiPath, body)
}

// ListFields fetches the complete field schema of a table, following the
// pagination cursor until exhausted. The result maps field name to its
// descriptor; the name is the stable lookup key used during reconciliation.
func (c *Client) ListFields(ctx context.Context, appToken, tableID string) (map[string]FieldDescriptor, error) {
	fields := make(map[string]FieldDescriptor)
	pageToken := ""

	for {
		params := url.Values{}
		params.Set("page_size", strconv.Itoa(fieldsPageSize))
		if pageToken != "" {
			params.Set("page_token", pageToken)
		}

		data, err := c.TableFields(ctx, appToken, tableID, "", params, nil)
		if err != nil {
			return nil, err
		}
		var page fieldsPage
		if err := json.Unmarshal(data, &page); err != nil {
			return nil, &DecodeError{URL: tableFieldsURI, Err: err}
		}

		for _, item := range page.Items {
			fields[item.Name] = item
		}
		if !page.HasMore || len(page.Items) == 0 {
			return fields, nil
		}
		pageToken = page.PageToken
	}
}

// CreateField adds a column to a table. Remote-assigned identifiers on the
// descriptor and its select options are stripped before sending; the server
// rejects client-supplied identifiers on create.
func (c *Client) CreateField(ctx context.Context, appToken, tableID string, field FieldDescriptor) (*FieldDescriptor, error) {
	field.FieldID = ""
	if field.Property != nil {
		options := make([]SelectOption, len(field.Property.Options))
		for i, opt := range field.Property.Options {
			opt.ID = ""
			options[i] = opt
		}
		field.Property = &FieldProperty{Options: options}
	}

	data, err := c.TableFields(ctx, appToken, tableID, "", nil, field)
	if err != nil {
		return nil, err
	}
	var out struct {
		Field FieldDescriptor `json:"field"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, &DecodeError{URL: tableFieldsURI, Err: err}
	}
	return &out.Field, nil
}

// TableInfo describes one data table of a bitable app.
type TableInfo struct {
	TableID  string `json:"table_id"`
	Revision int    `json:"revision"`
	Name     string `json:"name"`
}

// TablesData is one page of the table list endpoint.
type TablesData struct {
	Items     []TableInfo `json:"items"`
	HasMore   bool        `json:"has_more"`
	PageToken string      `json:"page_token"`
	Total     int         `json:"total"`
}

// ListTables lists the data tables of a bitable app, one page per call.
func (c *Client) ListTables(ctx context.Context, appToken, pageToken string, pageSize int) (*TablesData, error) {
	apiPath := fmt.Sprintf(bitableTablesURI, appToken)
	params := url.Values{}
	if pageToken != "" {
		params.Set("page_token", pageToken)
	}
	if pageSize > 0 {
		params.Set("page_size", strconv.Itoa(pageSize))
	}
	if len(params) > 0 {
		apiPath += "?" + params.Encode()
	}

	data, err := c.request(ctx, http.MethodGet, apiPath, nil)
	if err != nil {
		return nil, err
	}
	var out TablesData
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, &DecodeError{URL: apiPath, Err: err}
	}
	return &out, nil
}

// CopyOptions controls the bitable copy endpoint.
type CopyOptions struct {
	Name           string `json:"name,omitempty"`
	FolderToken    string `json:"folder_token,omitempty"`
	WithoutContent bool   `json:"without_content"`
	TimeZone       string `json:"time_zone,omitempty"`
}

// AppInfo describes a bitable app, as returned by the copy endpoint.
type AppInfo struct {
	AppToken       string `json:"app_token"`
	DefaultTableID string `json:"default_table_id"`
	FolderToken    string `json:"folder_token"`
	Name           string `json:"name"`
	TimeZone       string `json:"time_zone"`
	URL            string `json:"url"`
}

// CopyBitable duplicates a bitable app, optionally into a target folder.
func (c *Client) CopyBitable(ctx context.Context, appToken string, opts CopyOptions) (*AppInfo, error) {
	apiPath := fmt.Sprintf(bitableCopyURI, appToken)

	data, err := c.request(ctx, http.MethodPost, apiPath, opts)
	if err != nil {
		return nil, err
	}
	var out struct {
		App AppInfo `json:"app"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, &DecodeError{URL: apiPath, Err: err}
	}
	return &out.App, nil
}

// Media uploads are capped by the service; larger files need chunked upload,
// which this client does not implement.
const maxUploadSize = 20 * 1024 * 1024

// UploadMediaRequest describes one file destined for the drive media store.
type UploadMediaRequest struct {
	// FileName is the display name of the uploaded file.
	FileName string
	// Content is the raw file data.
	Content []byte
	// ParentType is the destination kind, e.g. bitable_image or bitable_file.
	ParentType string
	// ParentNode is the token of the owning document, scoping authorization.
	ParentNode string
	// Extra carries optional endpoint-specific parameters as JSON.
	Extra string
}

// UploadResult carries the content token assigned by the media store.
type UploadResult struct {
	FileToken string `json:"file_token"`
}

// UploadMedia uploads a file via the multipart media endpoint and returns the
// remote-assigned content token.
func (c *Client) UploadMedia(ctx context.Context, req UploadMediaRequest) (*UploadResult, error) {
	if len(req.Content) == 0 {
		return nil, &ValidationError{Param: "content", Msg: "must not be empty"}
	}
	if req.FileName == "" {
		return nil, &ValidationError{Param: "file_name", Msg: "must not be empty"}
	}
	if req.ParentNode == "" {
		return nil, &ValidationError{Param: "parent_node", Msg: "must not be empty"}
	}
	if len(req.Content) > maxUploadSize {
		return nil, &ValidationError{Param: "content", Msg: "file exceeds the 20MB upload limit"}
	}
	if req.ParentType == "" {
		req.ParentType = ParentTypeBitableImage
	}

	if err := c.EnsureToken(ctx); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fields := map[string]string{
		"file_name":   req.FileName,
		"parent_type": req.ParentType,
		"parent_node": req.ParentNode,
		"size":        strconv.Itoa(len(req.Content)),
	}
	if req.Extra != "" {
		fields["extra"] = req.Extra
	}
	for name, value := range fields {
		if err := w.WriteField(name, value); err != nil {
			return nil, fmt.Errorf("write multipart field %s: %w", name, err)
		}
	}
	part, err := w.CreateFormFile("file", req.FileName)
	if err != nil {
		return nil, fmt.Errorf("create multipart file part: %w", err)
	}
	if _, err := part.Write(req.Content); err != nil {
		return nil, fmt.Errorf("write multipart file part: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("finalize multipart body: %w", err)
	}

	reqURL := c.cfg.BaseURL + uploadMediaURI
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, &buf)
	if err != nil {
		return nil, fmt.Errorf("build upload request: %w", err)
	}
	httpReq.Header.Set("Content-Type", w.FormDataContentType())
	httpReq.Header.Set("Authorization", "Bearer "+c.Token())

	c.logger.Debug("uploading media",
		zap.String("file_name", req.FileName),
		zap.String("parent_type", req.ParentType),
		zap.Int("size", len(req.Content)))

	data, err := c.send(httpReq, reqURL, fields)
	if err != nil {
		return nil, err
	}
	var out UploadResult
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, &DecodeError{URL: reqURL, Err: err}
	}
	return &out, nil
}

// TmpDownloadURL pairs a content token with a short-lived download link.
type TmpDownloadURL struct {
	FileToken      string `json:"file_token"`
	TmpDownloadURL string `json:"tmp_download_url"`
}

// BatchGetTmpDownloadURL exchanges content tokens for temporary download
// links.
func (c *Client) BatchGetTmpDownloadURL(ctx context.Context, fileTokens []string) ([]TmpDownloadURL, error) {
	if len(fileTokens) == 0 {
		return nil, &ValidationError{Param: "file_tokens", Msg: "must not be empty"}
	}

	// The endpoint expects the token parameter repeated, not comma-joined.
	params := url.Values{}
	for _, token := range fileTokens {
		params.Add("file_tokens", token)
	}
	apiPath := tmpDownloadURLURI + "?" + params.Encode()

	data, err := c.request(ctx, http.MethodGet, apiPath, nil)
	if err != nil {
		return nil, err
	}
	var out struct {
		TmpDownloadURLs []TmpDownloadURL `json:"tmp_download_urls"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, &DecodeError{URL: apiPath, Err: err}
	}
	return out.TmpDownloadURLs, nil
}
