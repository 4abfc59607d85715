package taskhdl

import (
	"fmt"

	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	authsvc "work_tracker/internal/api/auth/service"
	basehdl "work_tracker/internal/api/base/handler"
	basemodels "work_tracker/internal/api/base/models"
	basesvc "work_tracker/internal/api/base/service"
	taskdto "work_tracker/internal/api/task/dto"
	models "work_tracker/internal/api/task/models"
	tasksvc "work_tracker/internal/api/task/service"
	"work_tracker/internal/common"
)

// attachmentParentAllowed các loại entity được phép làm parent của attachment
func attachmentParentAllowed(t basemodels.EntityType) bool {
	return basemodels.IsTaskVariant(t) || t == basemodels.EntityTaskActivity || t == basemodels.EntityTaskComment
}

// AttachmentHandler xử lý các request quản lý file đính kèm
type AttachmentHandler struct {
	*basehdl.BaseHandler[models.Attachment, taskdto.AttachmentCreateInput, taskdto.AttachmentUpdateInput]
	attachmentService *tasksvc.AttachmentService
	authz             *authsvc.AuthorizationService
}

// NewAttachmentHandler tạo instance mới của AttachmentHandler
func NewAttachmentHandler() (*AttachmentHandler, error) {
	attachmentService, err := tasksvc.NewAttachmentService()
	if err != nil {
		return nil, fmt.Errorf("failed to create attachment service: %v", err)
	}
	baseHandler := basehdl.NewBaseHandler[models.Attachment, taskdto.AttachmentCreateInput, taskdto.AttachmentUpdateInput](attachmentService)
	baseHandler.Lifecycle = basesvc.NewDefaultEntityLifecycle(basemodels.EntityAttachment)
	return &AttachmentHandler{
		BaseHandler:       baseHandler,
		attachmentService: attachmentService,
		authz:             authsvc.DefaultAuthorization(),
	}, nil
}

// InsertOne override CRUD mặc định: attachment kế thừa tenancy từ parent
// (task, activity hoặc comment), người upload là actor.
func (h *AttachmentHandler) InsertOne(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		var input taskdto.AttachmentCreateInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		if err := h.ValidateInput(&input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		parentModel, ok := basemodels.ParseEntityType(input.ParentModel)
		if !ok || !attachmentParentAllowed(parentModel) {
			h.HandleResponse(c, nil, common.NewError(common.ErrCodeValidationInput, "Loại parent không hợp lệ", common.StatusBadRequest, nil))
			return nil
		}
		parentID, err := primitive.ObjectIDFromHex(input.Parent)
		if err != nil {
			h.HandleResponse(c, nil, common.NewError(common.ErrCodeValidationFormat, common.MsgInvalidFormat, common.StatusBadRequest, err))
			return nil
		}

		tenancy, err := tasksvc.ResolveActiveParent(c.Context(), parentModel, parentID)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		actor := h.GetActor(c)
		if err := h.authz.CheckScopeCeiling(actor, tenancy.OrganizationID, tenancy.DepartmentID, authsvc.OpCreate, authsvc.ResourceAttachment); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		model := models.Attachment{
			Parent:         parentID,
			ParentModel:    string(parentModel),
			OrganizationID: tenancy.OrganizationID,
			DepartmentID:   tenancy.DepartmentID,
			UploadedBy:     actor.ID,
			FileName:       input.FileName,
			FileType:       input.FileType,
			Size:           input.Size,
			URL:            input.URL,
		}
		attachment, err := h.attachmentService.InsertOne(h.RequestContext(c), model)
		h.HandleResponse(c, attachment, err)
		return nil
	})
}

// UpdateById override CRUD mặc định: chỉ đổi được tên hiển thị của file;
// parent, tenancy và nội dung file bất biến sau khi upload.
func (h *AttachmentHandler) UpdateById(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		id, err := h.ParseObjectID(c, "id")
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		var input taskdto.AttachmentUpdateInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		if err := h.ValidateInput(&input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		if input.FileName == "" {
			h.HandleResponse(c, nil, common.NewError(common.ErrCodeValidationInput, "Không có dữ liệu cập nhật", common.StatusBadRequest, nil))
			return nil
		}

		filter := h.ApplyScopeFilter(c, bson.M{"_id": id})
		updated, err := h.attachmentService.UpdateOne(h.RequestContext(c), filter, &basesvc.UpdateData{Set: map[string]interface{}{"fileName": input.FileName}}, nil)
		h.HandleResponse(c, updated, err)
		return nil
	})
}
