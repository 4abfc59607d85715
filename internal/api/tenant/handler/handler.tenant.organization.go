// Package tenanthdl - handler cho domain tenant (Organization, Department).
package tenanthdl

import (
	"fmt"

	"github.com/gofiber/fiber/v3"

	basehdl "work_tracker/internal/api/base/handler"
	basemodels "work_tracker/internal/api/base/models"
	basesvc "work_tracker/internal/api/base/service"
	tenantdto "work_tracker/internal/api/tenant/dto"
	models "work_tracker/internal/api/tenant/models"
	tenantsvc "work_tracker/internal/api/tenant/service"
	"work_tracker/internal/common"
)

// OrganizationHandler xử lý các request quản lý organization
type OrganizationHandler struct {
	*basehdl.BaseHandler[models.Organization, tenantdto.OrganizationCreateInput, tenantdto.OrganizationUpdateInput]
	orgService *tenantsvc.OrganizationService
}

// NewOrganizationHandler tạo instance mới của OrganizationHandler
func NewOrganizationHandler() (*OrganizationHandler, error) {
	orgService, err := tenantsvc.NewOrganizationService()
	if err != nil {
		return nil, fmt.Errorf("failed to create organization service: %v", err)
	}
	baseHandler := basehdl.NewBaseHandler[models.Organization, tenantdto.OrganizationCreateInput, tenantdto.OrganizationUpdateInput](orgService)
	baseHandler.Lifecycle = basesvc.NewDefaultEntityLifecycle(basemodels.EntityOrganization)
	return &OrganizationHandler{
		BaseHandler: baseHandler,
		orgService:  orgService,
	}, nil
}

// InsertOne override CRUD mặc định để gắn createdBy từ actor
func (h *OrganizationHandler) InsertOne(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		var input tenantdto.OrganizationCreateInput
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
		model.CreatedBy = h.GetActorID(c)

		org, err := h.orgService.InsertOne(h.RequestContext(c), *model)
		h.HandleResponse(c, org, err)
		return nil
	})
}

// Delete override: organization hệ thống không xóa được
func (h *OrganizationHandler) Delete(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		id, err := h.ParseObjectID(c, "id")
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		org, err := h.orgService.FindOneById(c.Context(), id)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		if org.IsSystem {
			h.HandleResponse(c, nil, common.NewError(common.ErrCodeBusinessOperation, "Không thể xóa organization hệ thống", common.StatusBadRequest, nil))
			return nil
		}

		return h.BaseHandler.Delete(c)
	})
}
