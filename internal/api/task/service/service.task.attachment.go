package tasksvc

import (
	"fmt"

	basesvc "work_tracker/internal/api/base/service"
	models "work_tracker/internal/api/task/models"
	"work_tracker/internal/common"
	"work_tracker/internal/global"
)

// AttachmentService là cấu trúc chứa các phương thức liên quan đến file đính kèm
type AttachmentService struct {
	*basesvc.BaseServiceMongoImpl[models.Attachment]
}

// NewAttachmentService tạo mới AttachmentService
func NewAttachmentService() (*AttachmentService, error) {
	attachmentCollection, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.Attachments)
	if !exist {
		return nil, fmt.Errorf("failed to get attachments collection: %v", common.ErrNotFound)
	}

	return &AttachmentService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[models.Attachment](attachmentCollection),
	}, nil
}
