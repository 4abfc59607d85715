package tenantsvc

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	basesvc "work_tracker/internal/api/base/service"
	models "work_tracker/internal/api/tenant/models"
	"work_tracker/internal/common"
	"work_tracker/internal/global"
)

// DepartmentService là cấu trúc chứa các phương thức liên quan đến department
type DepartmentService struct {
	*basesvc.BaseServiceMongoImpl[models.Department]
}

// NewDepartmentService tạo mới DepartmentService
func NewDepartmentService() (*DepartmentService, error) {
	deptCollection, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.Departments)
	if !exist {
		return nil, fmt.Errorf("failed to get departments collection: %v", common.ErrNotFound)
	}

	return &DepartmentService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[models.Department](deptCollection),
	}, nil
}

// ValidateOrganizationActive kiểm tra organization đang tồn tại và active.
// Không cho tạo child dưới parent đã soft-delete.
func (s *DepartmentService) ValidateOrganizationActive(ctx context.Context, orgID primitive.ObjectID) error {
	orgCollection, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.Organizations)
	if !exist {
		return common.NewError(common.ErrCodeInternalServer, "Không tìm thấy collection organizations", common.StatusInternalServerError, nil)
	}

	count, err := orgCollection.CountDocuments(ctx, bson.M{"_id": orgID, "isDeleted": false})
	if err != nil {
		return common.NewError(common.ErrCodeDatabaseQuery, "Lỗi khi kiểm tra organization", common.StatusInternalServerError, err)
	}
	if count == 0 {
		return common.NewError(common.ErrCodeValidationReference, "Organization không tồn tại hoặc đã bị xóa", common.StatusBadRequest, nil)
	}
	return nil
}

// BelongsToOrganization kiểm tra department đang active và thuộc organization cho trước
func (s *DepartmentService) BelongsToOrganization(ctx context.Context, deptID primitive.ObjectID, orgID primitive.ObjectID) (bool, error) {
	count, err := s.BaseServiceMongoImpl.CountDocuments(ctx, bson.M{"_id": deptID, "organizationId": orgID})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
