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

// TaskCommentService là cấu trúc chứa các phương thức liên quan đến bình luận trên task
type TaskCommentService struct {
	*basesvc.BaseServiceMongoImpl[models.TaskComment]
}

// NewTaskCommentService tạo mới TaskCommentService
func NewTaskCommentService() (*TaskCommentService, error) {
	commentCollection, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.TaskComments)
	if !exist {
		return nil, fmt.Errorf("failed to get task comments collection: %v", common.ErrNotFound)
	}

	return &TaskCommentService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[models.TaskComment](commentCollection),
	}, nil
}

// ValidateMentions kiểm tra mọi người được nhắc đang active và thuộc đúng organization
func (s *TaskCommentService) ValidateMentions(ctx context.Context, orgID primitive.ObjectID, mentions []primitive.ObjectID) error {
	if len(mentions) == 0 {
		return nil
	}

	userCollection, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.Users)
	if !exist {
		return common.NewError(common.ErrCodeInternalServer, "Không tìm thấy collection users", common.StatusInternalServerError, nil)
	}

	count, err := userCollection.CountDocuments(ctx, bson.M{
		"_id":            bson.M{"$in": mentions},
		"organizationId": orgID,
		"isDeleted":      false,
	})
	if err != nil {
		return common.ConvertMongoError(err)
	}
	if count != int64(len(mentions)) {
		return common.NewError(common.ErrCodeValidationReference, "Người được nhắc không tồn tại hoặc không thuộc organization", common.StatusBadRequest, nil)
	}
	return nil
}
