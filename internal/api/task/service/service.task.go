// Package tasksvc - service cho domain task.
package tasksvc

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	basemodels "work_tracker/internal/api/base/models"
	basesvc "work_tracker/internal/api/base/service"
	models "work_tracker/internal/api/task/models"
	"work_tracker/internal/common"
	"work_tracker/internal/global"
)

// TaskService là cấu trúc chứa các phương thức liên quan đến task.
// Một instance phục vụ cả ba loại task (chung collection tasks);
// handler theo loại truyền taskType vào các phương thức cần phân biệt.
type TaskService struct {
	*basesvc.BaseServiceMongoImpl[models.Task]
}

// NewTaskService tạo mới TaskService
func NewTaskService() (*TaskService, error) {
	taskCollection, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.Tasks)
	if !exist {
		return nil, fmt.Errorf("failed to get tasks collection: %v", common.ErrNotFound)
	}

	return &TaskService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[models.Task](taskCollection),
	}, nil
}

// FindActiveVariant tìm task đang active theo đúng loại.
// Sai loại trả về NotFound — client không phân biệt được "sai loại" với "không tồn tại".
func (s *TaskService) FindActiveVariant(ctx context.Context, taskType basemodels.EntityType, id primitive.ObjectID) (*models.Task, error) {
	task, err := s.BaseServiceMongoImpl.FindOne(ctx, bson.M{"_id": id, "taskType": string(taskType)}, nil)
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// countActiveUsersIn đếm user đang active thuộc tenancy cho trước trong danh sách id
func countActiveUsersIn(ctx context.Context, filter bson.M, ids []primitive.ObjectID) (int64, error) {
	userCollection, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.Users)
	if !exist {
		return 0, common.NewError(common.ErrCodeInternalServer, "Không tìm thấy collection users", common.StatusInternalServerError, nil)
	}
	filter["_id"] = bson.M{"$in": ids}
	filter["isDeleted"] = false
	count, err := userCollection.CountDocuments(ctx, filter)
	if err != nil {
		return 0, common.ConvertMongoError(err)
	}
	return count, nil
}

// ValidateAssignees kiểm tra mọi assignee đang active và thuộc đúng department của task
func (s *TaskService) ValidateAssignees(ctx context.Context, orgID primitive.ObjectID, deptID primitive.ObjectID, assignees []primitive.ObjectID) error {
	if len(assignees) == 0 {
		return nil
	}
	if len(assignees) > models.MaxAssignees {
		return common.NewError(common.ErrCodeValidationInput, fmt.Sprintf("Số assignee tối đa là %d", models.MaxAssignees), common.StatusBadRequest, nil)
	}

	count, err := countActiveUsersIn(ctx, bson.M{"organizationId": orgID, "departmentId": deptID}, assignees)
	if err != nil {
		return err
	}
	if count != int64(len(assignees)) {
		return common.NewError(common.ErrCodeValidationReference, "Assignee không tồn tại hoặc không thuộc department của task", common.StatusBadRequest, nil)
	}
	return nil
}

// ValidateWatchers kiểm tra mọi watcher đang active và thuộc đúng organization của task
func (s *TaskService) ValidateWatchers(ctx context.Context, orgID primitive.ObjectID, watchers []primitive.ObjectID) error {
	if len(watchers) == 0 {
		return nil
	}

	count, err := countActiveUsersIn(ctx, bson.M{"organizationId": orgID}, watchers)
	if err != nil {
		return err
	}
	if count != int64(len(watchers)) {
		return common.NewError(common.ErrCodeValidationReference, "Watcher không tồn tại hoặc không thuộc organization của task", common.StatusBadRequest, nil)
	}
	return nil
}

// ValidateVendor kiểm tra vendor đang active và thuộc đúng department của task
func (s *TaskService) ValidateVendor(ctx context.Context, orgID primitive.ObjectID, deptID primitive.ObjectID, vendorID primitive.ObjectID) error {
	vendorCollection, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.Vendors)
	if !exist {
		return common.NewError(common.ErrCodeInternalServer, "Không tìm thấy collection vendors", common.StatusInternalServerError, nil)
	}

	count, err := vendorCollection.CountDocuments(ctx, bson.M{
		"_id":            vendorID,
		"organizationId": orgID,
		"departmentId":   deptID,
		"isDeleted":      false,
	})
	if err != nil {
		return common.ConvertMongoError(err)
	}
	if count == 0 {
		return common.NewError(common.ErrCodeValidationReference, "Vendor không tồn tại hoặc không thuộc department của task", common.StatusBadRequest, nil)
	}
	return nil
}
