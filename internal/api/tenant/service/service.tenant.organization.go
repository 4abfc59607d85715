// Package tenantsvc - service cho domain tenant (Organization, Department).
package tenantsvc

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"

	basesvc "work_tracker/internal/api/base/service"
	models "work_tracker/internal/api/tenant/models"
	"work_tracker/internal/common"
	"work_tracker/internal/global"
)

// OrganizationService là cấu trúc chứa các phương thức liên quan đến organization
type OrganizationService struct {
	*basesvc.BaseServiceMongoImpl[models.Organization]
}

// NewOrganizationService tạo mới OrganizationService
func NewOrganizationService() (*OrganizationService, error) {
	orgCollection, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.Organizations)
	if !exist {
		return nil, fmt.Errorf("failed to get organizations collection: %v", common.ErrNotFound)
	}

	return &OrganizationService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[models.Organization](orgCollection),
	}, nil
}

// FindByCode tìm organization đang active theo code nghiệp vụ
func (s *OrganizationService) FindByCode(ctx context.Context, code string) (*models.Organization, error) {
	org, err := s.BaseServiceMongoImpl.FindOne(ctx, bson.M{"code": code}, nil)
	if err != nil {
		return nil, err
	}
	return &org, nil
}
