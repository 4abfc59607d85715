// Package resourcesvc - service cho domain resource (Vendor, Material).
package resourcesvc

import (
	"fmt"

	basesvc "work_tracker/internal/api/base/service"
	models "work_tracker/internal/api/resource/models"
	"work_tracker/internal/common"
	"work_tracker/internal/global"
)

// VendorService là cấu trúc chứa các phương thức liên quan đến vendor
type VendorService struct {
	*basesvc.BaseServiceMongoImpl[models.Vendor]
}

// NewVendorService tạo mới VendorService
func NewVendorService() (*VendorService, error) {
	vendorCollection, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.Vendors)
	if !exist {
		return nil, fmt.Errorf("failed to get vendors collection: %v", common.ErrNotFound)
	}

	return &VendorService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[models.Vendor](vendorCollection),
	}, nil
}

// MaterialService là cấu trúc chứa các phương thức liên quan đến material
type MaterialService struct {
	*basesvc.BaseServiceMongoImpl[models.Material]
}

// NewMaterialService tạo mới MaterialService
func NewMaterialService() (*MaterialService, error) {
	materialCollection, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.Materials)
	if !exist {
		return nil, fmt.Errorf("failed to get materials collection: %v", common.ErrNotFound)
	}

	return &MaterialService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[models.Material](materialCollection),
	}, nil
}
