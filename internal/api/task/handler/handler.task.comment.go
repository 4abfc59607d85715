package taskhdl

import (
	"fmt"

	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	authmodels "work_tracker/internal/api/auth/models"
	authsvc "work_tracker/internal/api/auth/service"
	basehdl "work_tracker/internal/api/base/handler"
	basemodels "work_tracker/internal/api/base/models"
	basesvc "work_tracker/internal/api/base/service"
	taskdto "work_tracker/internal/api/task/dto"
	models "work_tracker/internal/api/task/models"
	tasksvc "work_tracker/internal/api/task/service"
	"work_tracker/internal/common"
)

// TaskCommentHandler xử lý các request quản lý bình luận trên task
type TaskCommentHandler struct {
	*basehdl.BaseHandler[models.TaskComment, taskdto.TaskCommentCreateInput, taskdto.TaskCommentUpdateInput]
	commentService *tasksvc.TaskCommentService
	authz          *authsvc.AuthorizationService
}

// NewTaskCommentHandler tạo instance mới của TaskCommentHandler
func NewTaskCommentHandler() (*TaskCommentHandler, error) {
	commentService, err := tasksvc.NewTaskCommentService()
	if err != nil {
		return nil, fmt.Errorf("failed to create task comment service: %v", err)
	}
	baseHandler := basehdl.NewBaseHandler[models.TaskComment, taskdto.TaskCommentCreateInput, taskdto.TaskCommentUpdateInput](commentService)
	baseHandler.Lifecycle = basesvc.NewDefaultEntityLifecycle(basemodels.EntityTaskComment)
	return &TaskCommentHandler{
		BaseHandler:    baseHandler,
		commentService: commentService,
		authz:          authsvc.DefaultAuthorization(),
	}, nil
}

// InsertOne override CRUD mặc định: comment kế thừa tenancy từ task cha,
// người được nhắc phải thuộc organization của task, author là actor.
func (h *TaskCommentHandler) InsertOne(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		var input taskdto.TaskCommentCreateInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		if err := h.ValidateInput(&input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		parentModel, ok := basemodels.ParseEntityType(input.ParentModel)
		if !ok || !basemodels.IsTaskVariant(parentModel) {
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
		if err := h.authz.CheckScopeCeiling(actor, tenancy.OrganizationID, tenancy.DepartmentID, authsvc.OpCreate, authsvc.ResourceTaskComment); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		mentions, err := parseObjectIDList(input.Mentions)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		if err := h.commentService.ValidateMentions(c.Context(), tenancy.OrganizationID, mentions); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		model := models.TaskComment{
			Parent:         parentID,
			ParentModel:    string(parentModel),
			OrganizationID: tenancy.OrganizationID,
			DepartmentID:   tenancy.DepartmentID,
			Author:         actor.ID,
			Content:        input.Content,
			Mentions:       mentions,
		}
		comment, err := h.commentService.InsertOne(h.RequestContext(c), model)
		h.HandleResponse(c, comment, err)
		return nil
	})
}

// UpdateById override CRUD mặc định: chỉ author được sửa nội dung comment của mình
func (h *TaskCommentHandler) UpdateById(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		id, err := h.ParseObjectID(c, "id")
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		var input taskdto.TaskCommentUpdateInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		if err := h.ValidateInput(&input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		if input.Content == "" {
			h.HandleResponse(c, nil, common.NewError(common.ErrCodeValidationInput, "Không có dữ liệu cập nhật", common.StatusBadRequest, nil))
			return nil
		}

		filter := h.ApplyScopeFilter(c, bson.M{"_id": id})
		comment, err := h.commentService.FindOne(h.RequestContext(c), filter, nil)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		actor := h.GetActor(c)
		if comment.Author != actor.ID && actor.Role != authmodels.RoleAdmin && !actor.IsPlatformUser {
			h.HandleResponse(c, nil, common.ErrNoPermission)
			return nil
		}

		updated, err := h.commentService.UpdateOne(h.RequestContext(c), filter, &basesvc.UpdateData{Set: map[string]interface{}{"content": input.Content}}, nil)
		h.HandleResponse(c, updated, err)
		return nil
	})
}
