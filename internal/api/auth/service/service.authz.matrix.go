package authsvc

import (
	models "work_tracker/internal/api/auth/models"
	basemodels "work_tracker/internal/api/base/models"
)

// ResourceType loại tài nguyên trong bảng phân quyền.
// Ba loại task dùng chung một dòng Task — quyền không phân biệt theo taskType.
type ResourceType string

const (
	ResourceOrganization ResourceType = "Organization"
	ResourceDepartment   ResourceType = "Department"
	ResourceUser         ResourceType = "User"
	ResourceVendor       ResourceType = "Vendor"
	ResourceMaterial     ResourceType = "Material"
	ResourceTask         ResourceType = "Task"
	ResourceTaskActivity ResourceType = "TaskActivity"
	ResourceTaskComment  ResourceType = "TaskComment"
	ResourceAttachment   ResourceType = "Attachment"
)

// ResourceTypeOf map entity type sang resource type trong bảng phân quyền
func ResourceTypeOf(t basemodels.EntityType) ResourceType {
	if basemodels.IsTaskVariant(t) {
		return ResourceTask
	}
	return ResourceType(t)
}

// Operation thao tác được phân quyền
type Operation string

const (
	OpCreate  Operation = "create"
	OpRead    Operation = "read"
	OpUpdate  Operation = "update"
	OpDelete  Operation = "delete"
	OpRestore Operation = "restore"
)

// Scope phạm vi dữ liệu, từ rộng đến hẹp
type Scope string

const (
	ScopeCrossOrg  Scope = "crossOrg"  // Mọi organization
	ScopeCrossDept Scope = "crossDept" // Mọi department trong organization của actor
	ScopeOwnDept   Scope = "ownDept"   // Chỉ department của actor
	ScopeOwn       Scope = "own"       // Chỉ record actor tạo/sở hữu/được gán/được nhắc
)

// scopeRank dùng để so độ rộng scope (số nhỏ hơn là rộng hơn)
var scopeRank = map[Scope]int{
	ScopeCrossOrg:  0,
	ScopeCrossDept: 1,
	ScopeOwnDept:   2,
	ScopeOwn:       3,
}

// rolePlatform là dòng platform trong bảng phân quyền — không phải role gán cho user,
// chỉ được tra khi actor có cờ IsPlatformUser và tài nguyên là Organization.
const rolePlatform models.Role = "Platform"

// Matrix là bảng phân quyền tĩnh (resourceType, role, operation) → danh sách scope
// theo thứ tự từ rộng đến hẹp. Entry vắng mặt nghĩa là deny.
// Bảng được build một lần lúc khởi động và bất biến trong suốt vòng đời process.
type Matrix map[ResourceType]map[models.Role]map[Operation][]Scope

// ops build map operation → scopes cho một nhóm operation dùng chung scope list
func ops(scopes []Scope, operations ...Operation) map[Operation][]Scope {
	row := make(map[Operation][]Scope, len(operations))
	for _, op := range operations {
		row[op] = scopes
	}
	return row
}

// mergeOps gộp nhiều map operation → scopes thành một dòng role
func mergeOps(rows ...map[Operation][]Scope) map[Operation][]Scope {
	merged := make(map[Operation][]Scope)
	for _, row := range rows {
		for op, scopes := range row {
			merged[op] = scopes
		}
	}
	return merged
}

var allOperations = []Operation{OpCreate, OpRead, OpUpdate, OpDelete, OpRestore}

// NewDefaultMatrix build bảng phân quyền mặc định của hệ thống.
//
// Nguyên tắc:
//   - Platform user quản trị vòng đời Organization (crossOrg), mọi tài nguyên khác
//     vẫn resolve theo role trong organization của actor.
//   - Admin thao tác mọi tài nguyên trong organization của mình (crossDept).
//   - Manager thao tác trong department của mình (ownDept), đọc được danh mục
//     cấp organization.
//   - User chỉ thao tác trên record của mình (own), đọc được dữ liệu department.
func NewDefaultMatrix() Matrix {
	adminWide := []Scope{ScopeCrossDept, ScopeOwnDept, ScopeOwn}
	managerDept := []Scope{ScopeOwnDept, ScopeOwn}
	ownOnly := []Scope{ScopeOwn}

	return Matrix{
		ResourceOrganization: {
			rolePlatform:       ops([]Scope{ScopeCrossOrg}, allOperations...),
			models.RoleAdmin:   ops([]Scope{ScopeCrossDept}, OpRead, OpUpdate),
			models.RoleManager: ops([]Scope{ScopeCrossDept}, OpRead),
			models.RoleUser:    ops([]Scope{ScopeCrossDept}, OpRead),
		},
		ResourceDepartment: {
			models.RoleAdmin:   ops([]Scope{ScopeCrossDept}, allOperations...),
			models.RoleManager: ops([]Scope{ScopeCrossDept}, OpRead),
			models.RoleUser:    ops([]Scope{ScopeOwnDept}, OpRead),
		},
		ResourceUser: {
			models.RoleAdmin: ops([]Scope{ScopeCrossDept}, allOperations...),
			models.RoleManager: mergeOps(
				ops([]Scope{ScopeCrossDept}, OpRead),
				ops(ownOnly, OpUpdate),
			),
			models.RoleUser: mergeOps(
				ops([]Scope{ScopeOwnDept}, OpRead),
				ops(ownOnly, OpUpdate),
			),
		},
		ResourceVendor: {
			models.RoleAdmin:   ops([]Scope{ScopeCrossDept}, allOperations...),
			models.RoleManager: ops([]Scope{ScopeOwnDept}, allOperations...),
			models.RoleUser:    ops([]Scope{ScopeOwnDept}, OpRead),
		},
		ResourceMaterial: {
			models.RoleAdmin:   ops([]Scope{ScopeCrossDept}, allOperations...),
			models.RoleManager: ops([]Scope{ScopeOwnDept}, allOperations...),
			models.RoleUser:    ops([]Scope{ScopeOwnDept}, OpRead),
		},
		ResourceTask: {
			models.RoleAdmin:   ops(adminWide, allOperations...),
			models.RoleManager: ops(managerDept, allOperations...),
			models.RoleUser:    ops(ownOnly, OpCreate, OpRead, OpUpdate),
		},
		ResourceTaskActivity: {
			models.RoleAdmin:   ops(adminWide, allOperations...),
			models.RoleManager: ops(managerDept, allOperations...),
			models.RoleUser:    ops(ownOnly, OpCreate, OpRead, OpUpdate),
		},
		ResourceTaskComment: {
			models.RoleAdmin:   ops(adminWide, allOperations...),
			models.RoleManager: ops(managerDept, allOperations...),
			models.RoleUser:    ops(ownOnly, OpCreate, OpRead, OpUpdate, OpDelete),
		},
		ResourceAttachment: {
			models.RoleAdmin:   ops(adminWide, allOperations...),
			models.RoleManager: ops(managerDept, allOperations...),
			models.RoleUser:    ops(ownOnly, OpCreate, OpRead, OpUpdate, OpDelete),
		},
	}
}
