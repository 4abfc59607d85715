package resourcehdl

import (
	"fmt"

	"github.com/gofiber/fiber/v3"

	authsvc "work_tracker/internal/api/auth/service"
	basehdl "work_tracker/internal/api/base/handler"
	basemodels "work_tracker/internal/api/base/models"
	basesvc "work_tracker/internal/api/base/service"
	resourcedto "work_tracker/internal/api/resource/dto"
	models "work_tracker/internal/api/resource/models"
	resourcesvc "work_tracker/internal/api/resource/service"
	tenantsvc "work_tracker/internal/api/tenant/service"
	"work_tracker/internal/common"
)

// MaterialHandler xử lý các request quản lý material
type MaterialHandler struct {
	*basehdl.BaseHandler[models.Material, resourcedto.MaterialCreateInput, resourcedto.MaterialUpdateInput]
	materialService *resourcesvc.MaterialService
	deptService     *tenantsvc.DepartmentService
	authz           *authsvc.AuthorizationService
}

// NewMaterialHandler tạo instance mới của MaterialHandler
func NewMaterialHandler() (*MaterialHandler, error) {
	materialService, err := resourcesvc.NewMaterialService()
	if err != nil {
		return nil, fmt.Errorf("failed to create material service: %v", err)
	}
	deptService, err := tenantsvc.NewDepartmentService()
	if err != nil {
		return nil, fmt.Errorf("failed to create department service: %v", err)
	}
	baseHandler := basehdl.NewBaseHandler[models.Material, resourcedto.MaterialCreateInput, resourcedto.MaterialUpdateInput](materialService)
	baseHandler.Lifecycle = basesvc.NewDefaultEntityLifecycle(basemodels.EntityMaterial)
	return &MaterialHandler{
		BaseHandler:     baseHandler,
		materialService: materialService,
		deptService:     deptService,
		authz:           authsvc.DefaultAuthorization(),
	}, nil
}

// InsertOne override CRUD mặc định: chặn tạo material ngoài phạm vi của actor
// và kiểm tra department thuộc đúng organization.
func (h *MaterialHandler) InsertOne(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		var input resourcedto.MaterialCreateInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		if err := h.ValidateInput(&input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		model, err := h.TransformCreateInputToModel(&input)
		if err != nil {
			h.HandleResponse(c, nil, common.NewError(common.ErrCodeValidationFormat, fmt.Sprintf("Lỗi transform dữ liệu: %v", err), common.StatusBadRequest, err))
			return nil
		}

		actor := h.GetActor(c)
		if err := h.authz.CheckScopeCeiling(actor, model.OrganizationID, model.DepartmentID, authsvc.OpCreate, authsvc.ResourceMaterial); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		ok, err := h.deptService.BelongsToOrganization(c.Context(), model.DepartmentID, model.OrganizationID)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		if !ok {
			h.HandleResponse(c, nil, common.NewError(common.ErrCodeValidationReference, "Department không tồn tại hoặc không thuộc organization", common.StatusBadRequest, nil))
			return nil
		}

		model.CreatedBy = actor.ID
		material, err := h.materialService.InsertOne(h.RequestContext(c), *model)
		h.HandleResponse(c, material, err)
		return nil
	})
}
