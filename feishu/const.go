package feishu

// DefaultHost is the Feishu open platform endpoint.
const DefaultHost = "https://open.feishu.cn"

// API paths. Path parameters are filled via fmt.Sprintf in path order.
const (
	tenantAccessTokenURI = "/open-apis/auth/v3/tenant_access_token/internal"

	// Record endpoints.
	// https://open.feishu.cn/document/server-docs/docs/bitable-v1/app-table-record/create
	bitableRecordsURI       = "/open-apis/bitable/v1/apps/%s/tables/%s/records"
	bitableRecordsSearchURI = "/open-apis/bitable/v1/apps/%s/tables/%s/records/search"
	bitableRecordURI        = "/open-apis/bitable/v1/apps/%s/tables/%s/records/%s"
	bitableBatchGetURI      = "/open-apis/bitable/v1/apps/%s/tables/%s/records/batch_get"

	// Field (schema) endpoint. The trailing field_id segment is optional.
	// https://open.feishu.cn/document/server-docs/docs/bitable-v1/app-table-field/update
	tableFieldsURI = "/open-apis/bitable/v1/apps/%s/tables/%s/fields"

	// App-level endpoints.
	bitableTablesURI = "/open-apis/bitable/v1/apps/%s/tables"
	bitableCopyURI   = "/open-apis/bitable/v1/apps/%s/copy"

	// Drive media endpoints.
	// https://open.feishu.cn/document/server-docs/docs/drive-v1/media/upload_all
	uploadMediaURI    = "/open-apis/drive/v1/medias/upload_all"
	tmpDownloadURLURI = "/open-apis/drive/v1/medias/batch_get_tmp_download_url"

	// Drive permission endpoints.
	// https://open.feishu.cn/document/server-docs/docs/drive-v1/permission/members/batch_create
	permissionsBatchCreateURI = "/open-apis/drive/v1/permissions/%s/members/batch_create"
	transferOwnerURI          = "/open-apis/drive/v1/permissions/%s/members/transfer_owner"
)

// FieldType is the remote schema's enumerated column type code.
type FieldType int

// Bitable field type codes.
const (
	FieldTypeText         FieldType = 1
	FieldTypeNumber       FieldType = 2
	FieldTypeSingleSelect FieldType = 3
	FieldTypeMultiSelect  FieldType = 4
	FieldTypeDate         FieldType = 5
	FieldTypeCheckbox     FieldType = 7
	FieldTypeUser         FieldType = 11
	FieldTypePhone        FieldType = 13
	FieldTypeURL          FieldType = 15
	FieldTypeAttachment   FieldType = 17
	FieldTypeLink         FieldType = 18
	FieldTypeFormula      FieldType = 20
	FieldTypeDuplexLink   FieldType = 21
	FieldTypeLocation     FieldType = 22
	FieldTypeGroupChat    FieldType = 23
	FieldTypeCreatedTime  FieldType = 1001
	FieldTypeModifiedTime FieldType = 1002
	FieldTypeCreatedUser  FieldType = 1003
	FieldTypeModifiedUser FieldType = 1004
	FieldTypeAutoNumber   FieldType = 1005
)

// Filter operators accepted by the record search endpoint.
const (
	OpIs             = "is"
	OpIsNot          = "isNot"
	OpContains       = "contains"
	OpDoesNotContain = "doesNotContain"
	OpIsEmpty        = "isEmpty"
	OpIsNotEmpty     = "isNotEmpty"
	OpIsGreater      = "isGreater"
	OpIsGreaterEqual = "isGreaterEqual"
	OpIsLess         = "isLess"
	OpIsLessEqual    = "isLessEqual"
)

// Media upload destination kinds.
const (
	ParentTypeBitableImage = "bitable_image"
	ParentTypeBitableFile  = "bitable_file"
)

// Cloud document kinds accepted by the drive permission endpoints.
const (
	DocTypeDoc     = "doc"
	DocTypeSheet   = "sheet"
	DocTypeFile    = "file"
	DocTypeWiki    = "wiki"
	DocTypeBitable = "bitable"
)

// Collaborator member ID kinds.
const (
	MemberTypeEmail        = "email"
	MemberTypeOpenID       = "openid"
	MemberTypeUnionID      = "unionid"
	MemberTypeUserID       = "userid"
	MemberTypeChatID       = "chat_id"
	MemberTypeDepartmentID = "department_id"
)

// Collaborator permission roles.
const (
	PermView       = "view"
	PermEdit       = "edit"
	PermFullAccess = "full_access"
)

// Pagination limits imposed by the remote service.
const (
	maxPageSize    = 500
	fieldsPageSize = 100
)
