package tasksvc

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	basesvc "work_tracker/internal/api/base/service"
	models "work_tracker/internal/api/task/models"
	"work_tracker/internal/common"
	"work_tracker/internal/global"
)

// TaskActivityService là cấu trúc chứa các phương thức liên quan đến hoạt động trên task
type TaskActivityService struct {
	*basesvc.BaseServiceMongoImpl[models.TaskActivity]
}

// NewTaskActivityService tạo mới TaskActivityService
func NewTaskActivityService() (*TaskActivityService, error) {
	activityCollection, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.TaskActivities)
	if !exist {
		return nil, fmt.Errorf("failed to get task activities collection: %v", common.ErrNotFound)
	}

	return &TaskActivityService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[models.TaskActivity](activityCollection),
	}, nil
}

// materialPriceRow là phần material cần cho việc tính chi phí
type materialPriceRow struct {
	ID    primitive.ObjectID `bson:"_id"`
	Name  string             `bson:"name"`
	Unit  string             `bson:"unit"`
	Price float64            `bson:"price"`
}

// loadMaterialPrices load giá vật tư theo danh sách id.
// Đọc cả material đã soft-delete — chi phí lịch sử không biến mất khi vật tư bị xóa.
func loadMaterialPrices(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]materialPriceRow, error) {
	materialCollection, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.Materials)
	if !exist {
		return nil, common.NewError(common.ErrCodeInternalServer, "Không tìm thấy collection materials", common.StatusInternalServerError, nil)
	}

	cursor, err := materialCollection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, common.ConvertMongoError(err)
	}
	defer cursor.Close(ctx)

	prices := make(map[primitive.ObjectID]materialPriceRow)
	for cursor.Next(ctx) {
		var row materialPriceRow
		if err := cursor.Decode(&row); err != nil {
			return nil, common.ConvertMongoError(err)
		}
		prices[row.ID] = row
	}
	if err := cursor.Err(); err != nil {
		return nil, common.ConvertMongoError(err)
	}
	return prices, nil
}

// WithMaterialCosts derive chi phí vật tư cho một activity lúc đọc
// (price × quantity từng dòng). Chi phí không bao giờ được lưu.
func (s *TaskActivityService) WithMaterialCosts(ctx context.Context, activity models.TaskActivity) (*models.TaskActivityWithCost, error) {
	result := &models.TaskActivityWithCost{TaskActivity: activity}
	if len(activity.MaterialsUsed) == 0 {
		return result, nil
	}

	ids := make([]primitive.ObjectID, 0, len(activity.MaterialsUsed))
	for _, usage := range activity.MaterialsUsed {
		ids = append(ids, usage.MaterialID)
	}

	prices, err := loadMaterialPrices(ctx, ids)
	if err != nil {
		return nil, err
	}

	result.MaterialCosts = make([]models.MaterialCostLine, 0, len(activity.MaterialsUsed))
	for _, usage := range activity.MaterialsUsed {
		row, found := prices[usage.MaterialID]
		if !found {
			// Material đã bị xóa vật lý ngoài luồng: dòng chi phí giữ quantity, giá 0
			result.MaterialCosts = append(result.MaterialCosts, models.MaterialCostLine{
				MaterialID: usage.MaterialID,
				Quantity:   usage.Quantity,
			})
			continue
		}
		cost := row.Price * usage.Quantity
		result.MaterialCosts = append(result.MaterialCosts, models.MaterialCostLine{
			MaterialID: usage.MaterialID,
			Name:       row.Name,
			Unit:       row.Unit,
			Price:      row.Price,
			Quantity:   usage.Quantity,
			Cost:       cost,
		})
		result.TotalCost += cost
	}
	return result, nil
}

// ValidateMaterials kiểm tra mọi material đang active và thuộc đúng department của task
func (s *TaskActivityService) ValidateMaterials(ctx context.Context, orgID primitive.ObjectID, deptID primitive.ObjectID, usages []models.MaterialUsage) error {
	if len(usages) == 0 {
		return nil
	}

	materialCollection, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.Materials)
	if !exist {
		return common.NewError(common.ErrCodeInternalServer, "Không tìm thấy collection materials", common.StatusInternalServerError, nil)
	}

	ids := make([]primitive.ObjectID, 0, len(usages))
	for _, usage := range usages {
		ids = append(ids, usage.MaterialID)
	}

	count, err := materialCollection.CountDocuments(ctx, bson.M{
		"_id":            bson.M{"$in": ids},
		"organizationId": orgID,
		"departmentId":   deptID,
		"isDeleted":      false,
	})
	if err != nil {
		return common.ConvertMongoError(err)
	}
	if count != int64(len(ids)) {
		return common.NewError(common.ErrCodeValidationReference, "Material không tồn tại hoặc không thuộc department của task", common.StatusBadRequest, nil)
	}
	return nil
}
