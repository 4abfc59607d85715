package tenanthdl

import (
	"fmt"

	"github.com/gofiber/fiber/v3"

	authsvc "work_tracker/internal/api/auth/service"
	basehdl "work_tracker/internal/api/base/handler"
	basemodels "work_tracker/internal/api/base/models"
	basesvc "work_tracker/internal/api/base/service"
	tenantdto "work_tracker/internal/api/tenant/dto"
	models "work_tracker/internal/api/tenant/models"
	tenantsvc "work_tracker/internal/api/tenant/service"
	"work_tracker/internal/common"
)

// DepartmentHandler xử lý các request quản lý department
type DepartmentHandler struct {
	*basehdl.BaseHandler[models.Department, tenantdto.DepartmentCreateInput, tenantdto.DepartmentUpdateInput]
	deptService *tenantsvc.DepartmentService
	authz       *authsvc.AuthorizationService
}

// NewDepartmentHandler tạo instance mới của DepartmentHandler
func NewDepartmentHandler() (*DepartmentHandler, error) {
	deptService, err := tenantsvc.NewDepartmentService()
	if err != nil {
		return nil, fmt.Errorf("failed to create department service: %v", err)
	}
	baseHandler := basehdl.NewBaseHandler[models.Department, tenantdto.DepartmentCreateInput, tenantdto.DepartmentUpdateInput](deptService)
	baseHandler.Lifecycle = basesvc.NewDefaultEntityLifecycle(basemodels.EntityDepartment)
	return &DepartmentHandler{
		BaseHandler: baseHandler,
		deptService: deptService,
		authz:       authsvc.DefaultAuthorization(),
	}, nil
}

// InsertOne override CRUD mặc định: chặn tạo department ngoài phạm vi của actor
// và kiểm tra organization cha đang active.
func (h *DepartmentHandler) InsertOne(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		var input tenantdto.DepartmentCreateInput
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
		// Department là tài nguyên cấp organization — ceiling chỉ xét org
		if err := h.authz.CheckScopeCeiling(actor, model.OrganizationID, actor.DepartmentID, authsvc.OpCreate, authsvc.ResourceDepartment); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		if err := h.deptService.ValidateOrganizationActive(c.Context(), model.OrganizationID); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		model.CreatedBy = actor.ID
		dept, err := h.deptService.InsertOne(h.RequestContext(c), *model)
		h.HandleResponse(c, dept, err)
		return nil
	})
}
