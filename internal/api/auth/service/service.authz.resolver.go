package authsvc

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	models "work_tracker/internal/api/auth/models"
	"work_tracker/internal/common"
)

// PermissionDecision là kết quả tra bảng phân quyền cho một thao tác
type PermissionDecision struct {
	Allowed bool    // Có được phép thực hiện không
	Scopes  []Scope // Danh sách scope được cấp, từ rộng đến hẹp
}

// AuthorizationService trả lời "actor A có được thao tác O trên loại tài nguyên R
// không, và với phạm vi dữ liệu nào". Service giữ bảng phân quyền được truyền vào
// lúc khởi tạo (không đọc global) nên test được với bảng thay thế.
type AuthorizationService struct {
	matrix Matrix
}

// NewAuthorizationService tạo service trên một bảng phân quyền bất biến
func NewAuthorizationService(matrix Matrix) *AuthorizationService {
	return &AuthorizationService{matrix: matrix}
}

// CheckPermission tra bảng phân quyền theo (resourceType, role của actor).
// Actor có cờ platform được tra dòng platform — chỉ với tài nguyên Organization;
// các loại tài nguyên khác vẫn resolve theo role của actor.
// Không có dòng hoặc scope list rỗng nghĩa là deny.
func (s *AuthorizationService) CheckPermission(actor models.Actor, resourceType ResourceType, operation Operation) PermissionDecision {
	role := actor.Role
	if actor.IsPlatformUser && resourceType == ResourceOrganization {
		role = rolePlatform
	}

	roleRows, ok := s.matrix[resourceType]
	if !ok {
		return PermissionDecision{}
	}
	opRows, ok := roleRows[role]
	if !ok {
		return PermissionDecision{}
	}
	scopes, ok := opRows[operation]
	if !ok || len(scopes) == 0 {
		return PermissionDecision{}
	}

	return PermissionDecision{Allowed: true, Scopes: scopes}
}

// ResolveScopeFilter dịch một scope tag thành filter cụ thể trên các field tenancy
// của tài nguyên. Trạng thái active/deleted không nằm ở đây — base service tự
// scope isDeleted theo context (withDeleted là opt-in được gate bằng quyền restore).
func (s *AuthorizationService) ResolveScopeFilter(actor models.Actor, scope Scope, resourceType ResourceType) bson.M {
	// Organization không có field tenancy — phạm vi trong-org nghĩa là chính org của actor
	if resourceType == ResourceOrganization {
		if scope == ScopeCrossOrg {
			return bson.M{}
		}
		return bson.M{"_id": actor.OrganizationID}
	}

	switch scope {
	case ScopeCrossOrg:
		return bson.M{}
	case ScopeCrossDept:
		return bson.M{"organizationId": actor.OrganizationID}
	case ScopeOwnDept:
		return bson.M{
			"organizationId": actor.OrganizationID,
			"departmentId":   actor.DepartmentID,
		}
	case ScopeOwn:
		return bson.M{
			"$and": []bson.M{
				{
					"organizationId": actor.OrganizationID,
					"departmentId":   actor.DepartmentID,
				},
				s.ownershipFilter(actor, resourceType),
			},
		}
	default:
		// Scope không nhận diện được: thu hẹp nhất có thể
		return bson.M{"_id": primitive.NilObjectID}
	}
}

// ownershipFilter build điều kiện sở hữu theo loại tài nguyên cho scope own
func (s *AuthorizationService) ownershipFilter(actor models.Actor, resourceType ResourceType) bson.M {
	switch resourceType {
	case ResourceTask:
		return bson.M{"$or": []bson.M{
			{"createdBy": actor.ID},
			{"assignees": actor.ID},
			{"watchers": actor.ID},
		}}
	case ResourceTaskActivity:
		return bson.M{"$or": []bson.M{
			{"createdBy": actor.ID},
			{"performedBy": actor.ID},
		}}
	case ResourceTaskComment:
		return bson.M{"$or": []bson.M{
			{"author": actor.ID},
			{"mentions": actor.ID},
		}}
	case ResourceAttachment:
		return bson.M{"uploadedBy": actor.ID}
	case ResourceUser:
		return bson.M{"_id": actor.ID}
	default:
		return bson.M{"createdBy": actor.ID}
	}
}

// CanAccessResource kiểm tra actor có được thao tác trên một document đã load không.
// Duyệt các scope được cấp từ rộng đến hẹp, match scope nào là cho qua ngay.
func (s *AuthorizationService) CanAccessResource(actor models.Actor, doc bson.M, operation Operation, resourceType ResourceType) bool {
	decision := s.CheckPermission(actor, resourceType, operation)
	if !decision.Allowed {
		return false
	}

	for _, scope := range decision.Scopes {
		if s.scopeMatchesDocument(actor, scope, resourceType, doc) {
			return true
		}
	}
	return false
}

// scopeMatchesDocument đánh giá một scope trên các field của document
func (s *AuthorizationService) scopeMatchesDocument(actor models.Actor, scope Scope, resourceType ResourceType, doc bson.M) bool {
	if resourceType == ResourceOrganization {
		if scope == ScopeCrossOrg {
			return true
		}
		return docFieldEquals(doc, "_id", actor.OrganizationID)
	}

	switch scope {
	case ScopeCrossOrg:
		return true
	case ScopeCrossDept:
		return docFieldEquals(doc, "organizationId", actor.OrganizationID)
	case ScopeOwnDept:
		return docFieldEquals(doc, "organizationId", actor.OrganizationID) &&
			docFieldEquals(doc, "departmentId", actor.DepartmentID)
	case ScopeOwn:
		if !docFieldEquals(doc, "organizationId", actor.OrganizationID) ||
			!docFieldEquals(doc, "departmentId", actor.DepartmentID) {
			return false
		}
		return s.documentOwnedByActor(actor, resourceType, doc)
	default:
		return false
	}
}

// documentOwnedByActor đánh giá điều kiện sở hữu trên document đã load
func (s *AuthorizationService) documentOwnedByActor(actor models.Actor, resourceType ResourceType, doc bson.M) bool {
	switch resourceType {
	case ResourceTask:
		return docFieldEquals(doc, "createdBy", actor.ID) ||
			docArrayContains(doc, "assignees", actor.ID) ||
			docArrayContains(doc, "watchers", actor.ID)
	case ResourceTaskActivity:
		return docFieldEquals(doc, "createdBy", actor.ID) ||
			docFieldEquals(doc, "performedBy", actor.ID)
	case ResourceTaskComment:
		return docFieldEquals(doc, "author", actor.ID) ||
			docArrayContains(doc, "mentions", actor.ID)
	case ResourceAttachment:
		return docFieldEquals(doc, "uploadedBy", actor.ID)
	case ResourceUser:
		return docFieldEquals(doc, "_id", actor.ID)
	default:
		return docFieldEquals(doc, "createdBy", actor.ID)
	}
}

// CheckScopeCeiling chặn create/update đặt tài nguyên ra ngoài scope rộng nhất
// actor được cấp cho thao tác đó — Manager scope department không thể gán task
// sang department khác.
func (s *AuthorizationService) CheckScopeCeiling(actor models.Actor, orgID primitive.ObjectID, deptID primitive.ObjectID, operation Operation, resourceType ResourceType) error {
	decision := s.CheckPermission(actor, resourceType, operation)
	if !decision.Allowed {
		return common.ErrNoPermission
	}

	// Scope list đã theo thứ tự rộng → hẹp, phần tử đầu là ceiling
	switch decision.Scopes[0] {
	case ScopeCrossOrg:
		return nil
	case ScopeCrossDept:
		if orgID != actor.OrganizationID {
			return common.ErrScopeCeiling
		}
		return nil
	case ScopeOwnDept, ScopeOwn:
		if orgID != actor.OrganizationID || deptID != actor.DepartmentID {
			return common.ErrScopeCeiling
		}
		return nil
	default:
		return common.ErrScopeCeiling
	}
}

// BroaderOrEqual so hai scope theo thứ tự rộng → hẹp
func BroaderOrEqual(a Scope, b Scope) bool {
	return scopeRank[a] <= scopeRank[b]
}

// docFieldEquals so một field ObjectID của document với giá trị cho trước
func docFieldEquals(doc bson.M, field string, want primitive.ObjectID) bool {
	value, exists := doc[field]
	if !exists {
		return false
	}
	id, ok := value.(primitive.ObjectID)
	return ok && id == want
}

// docArrayContains kiểm tra một field mảng ObjectID có chứa giá trị cho trước không
func docArrayContains(doc bson.M, field string, want primitive.ObjectID) bool {
	value, exists := doc[field]
	if !exists {
		return false
	}

	switch arr := value.(type) {
	case primitive.A:
		for _, item := range arr {
			if id, ok := item.(primitive.ObjectID); ok && id == want {
				return true
			}
		}
	case []primitive.ObjectID:
		for _, id := range arr {
			if id == want {
				return true
			}
		}
	case []interface{}:
		for _, item := range arr {
			if id, ok := item.(primitive.ObjectID); ok && id == want {
				return true
			}
		}
	}
	return false
}
