package tasksvc

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	basemodels "work_tracker/internal/api/base/models"
	"work_tracker/internal/common"
	"work_tracker/internal/global"
)

// ParentTenancy là tenancy đọc từ parent document, child kế thừa nguyên vẹn
type ParentTenancy struct {
	OrganizationID primitive.ObjectID
	DepartmentID   primitive.ObjectID
}

// ResolveActiveParent kiểm tra parent tồn tại, đang active và đúng loại,
// trả về tenancy của parent để child kế thừa. Dùng khi tạo activity,
// comment và attachment — child không bao giờ nhận tenancy từ client.
func ResolveActiveParent(ctx context.Context, parentModel basemodels.EntityType, parentID primitive.ObjectID) (*ParentTenancy, error) {
	collectionName := basemodels.CollectionOf(parentModel)
	if collectionName == "" {
		return nil, common.NewError(common.ErrCodeValidationInput, "Loại parent không hợp lệ", common.StatusBadRequest, nil)
	}

	collection, exist := global.RegistryCollections.Get(collectionName)
	if !exist {
		return nil, common.NewError(common.ErrCodeInternalServer, "Không tìm thấy collection của parent", common.StatusInternalServerError, nil)
	}

	filter := bson.M{"_id": parentID, "isDeleted": false}
	if basemodels.IsTaskVariant(parentModel) {
		filter["taskType"] = string(parentModel)
	}

	var doc struct {
		OrganizationID primitive.ObjectID `bson:"organizationId"`
		DepartmentID   primitive.ObjectID `bson:"departmentId"`
	}
	if err := collection.FindOne(ctx, filter).Decode(&doc); err != nil {
		converted := common.ConvertMongoError(err)
		if errors.Is(converted, common.ErrNotFound) {
			return nil, common.NewError(common.ErrCodeValidationReference, "Parent không tồn tại hoặc đã bị xóa", common.StatusBadRequest, nil)
		}
		return nil, converted
	}

	return &ParentTenancy{
		OrganizationID: doc.OrganizationID,
		DepartmentID:   doc.DepartmentID,
	}, nil
}
