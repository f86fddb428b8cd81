package feishu

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// The batch permission endpoint accepts at most this many members per call.
const maxPermissionMembers = 10

// PermissionMember identifies one collaborator and, on grant, the permission
// role assigned to them.
type PermissionMember struct {
	// MemberType is the kind of identifier in MemberID, e.g. MemberTypeOpenID.
	MemberType string `json:"member_type"`
	// MemberID is the collaborator's identifier, matching MemberType.
	MemberID string `json:"member_id"`
	// Perm is the permission role to grant, e.g. PermView.
	Perm string `json:"perm,omitempty"`
}

// PermissionGrant is one applied grant as reported by the batch endpoint.
type PermissionGrant struct {
	Member PermissionMember `json:"member"`
	Perm   string           `json:"perm"`
}

// BatchCreatePermissions grants document permissions to up to ten
// collaborators in one call. token identifies the cloud document and must
// match docType; notify controls whether the new collaborators are informed.
func (c *Client) BatchCreatePermissions(ctx context.Context, token, docType string, members []PermissionMember, notify bool) ([]PermissionGrant, error) {
	if token == "" {
		return nil, &ValidationError{Param: "token", Msg: "must not be empty"}
	}
	if docType == "" {
		return nil, &ValidationError{Param: "doc_type", Msg: "must not be empty"}
	}
	if len(members) == 0 {
		return nil, &ValidationError{Param: "members", Msg: "must not be empty"}
	}
	if len(members) > maxPermissionMembers {
		return nil, &ValidationError{Param: "members", Msg: fmt.Sprintf("at most %d members per call", maxPermissionMembers)}
	}

	params := url.Values{}
	params.Set("type", docType)
	params.Set("need_notification", strconv.FormatBool(notify))
	apiPath := fmt.Sprintf(permissionsBatchCreateURI, token) + "?" + params.Encode()

	data, err := c.request(ctx, http.MethodPost, apiPath, map[string]any{"members": members})
	if err != nil {
		return nil, err
	}
	var out struct {
		Results []PermissionGrant `json:"results"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, &DecodeError{URL: apiPath, Err: err}
	}
	return out.Results, nil
}

// TransferOwnerOptions controls the ownership transfer endpoint. The zero
// value notifies the new owner, keeps the old owner with full access and
// moves the document into the new owner's space.
type TransferOwnerOptions struct {
	// SkipNotification suppresses the notification to the new owner.
	SkipNotification bool
	// RemoveOldOwner strips the previous owner's access entirely.
	RemoveOldOwner bool
	// StayPut keeps a personal-folder document in place instead of moving it
	// into the new owner's space.
	StayPut bool
	// OldOwnerPerm is the role the previous owner keeps; ignored when
	// RemoveOldOwner is set. Defaults to PermFullAccess.
	OldOwnerPerm string
}

// transferMemberTypes are the identifier kinds the transfer endpoint accepts.
var transferMemberTypes = map[string]bool{
	MemberTypeEmail:  true,
	MemberTypeOpenID: true,
	MemberTypeUserID: true,
}

var permissionRoles = map[string]bool{
	PermView:       true,
	PermEdit:       true,
	PermFullAccess: true,
}

// TransferOwner transfers ownership of a cloud document to the member
// identified by memberType/memberID. token must match docType.
func (c *Client) TransferOwner(ctx context.Context, token, docType, memberType, memberID string, opts TransferOwnerOptions) error {
	if token == "" {
		return &ValidationError{Param: "token", Msg: "must not be empty"}
	}
	if docType == "" {
		return &ValidationError{Param: "doc_type", Msg: "must not be empty"}
	}
	if memberID == "" {
		return &ValidationError{Param: "member_id", Msg: "must not be empty"}
	}
	if !transferMemberTypes[memberType] {
		return &ValidationError{Param: "member_type", Msg: "must be one of email, openid, userid"}
	}
	if opts.OldOwnerPerm == "" {
		opts.OldOwnerPerm = PermFullAccess
	}
	if !permissionRoles[opts.OldOwnerPerm] {
		return &ValidationError{Param: "old_owner_perm", Msg: "must be one of view, edit, full_access"}
	}

	params := url.Values{}
	params.Set("type", docType)
	params.Set("need_notification", strconv.FormatBool(!opts.SkipNotification))
	params.Set("remove_old_owner", strconv.FormatBool(opts.RemoveOldOwner))
	params.Set("stay_put", strconv.FormatBool(opts.StayPut))
	if !opts.RemoveOldOwner {
		params.Set("old_owner_perm", opts.OldOwnerPerm)
	}
	apiPath := fmt.Sprintf(transferOwnerURI, token) + "?" + params.Encode()

	body := map[string]string{"member_type": memberType, "member_id": memberID}
	_, err := c.request(ctx, http.MethodPost, apiPath, body)
	return err
}
