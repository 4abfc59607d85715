// Package authhdl - handler cho domain auth (đăng nhập, người dùng).
package authhdl

import (
	"fmt"

	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/bson/primitive"

	authdto "work_tracker/internal/api/auth/dto"
	models "work_tracker/internal/api/auth/models"
	authsvc "work_tracker/internal/api/auth/service"
	basehdl "work_tracker/internal/api/base/handler"
	basemodels "work_tracker/internal/api/base/models"
	basesvc "work_tracker/internal/api/base/service"
	"work_tracker/internal/common"
	"work_tracker/internal/logger"
)

// UserHandler xử lý các request xác thực và quản lý người dùng
type UserHandler struct {
	*basehdl.BaseHandler[models.User, authdto.UserCreateInput, authdto.UserUpdateInput]
	userService *authsvc.UserService
	authz       *authsvc.AuthorizationService
}

// NewUserHandler tạo instance mới của UserHandler
func NewUserHandler() (*UserHandler, error) {
	userService, err := authsvc.NewUserService()
	if err != nil {
		return nil, fmt.Errorf("failed to create user service: %v", err)
	}
	baseHandler := basehdl.NewBaseHandler[models.User, authdto.UserCreateInput, authdto.UserUpdateInput](userService)
	baseHandler.Lifecycle = basesvc.NewDefaultEntityLifecycle(basemodels.EntityUser)
	return &UserHandler{
		BaseHandler: baseHandler,
		userService: userService,
		authz:       authsvc.DefaultAuthorization(),
	}, nil
}

// sanitizeUser xóa các field nhạy cảm trước khi trả về client
func sanitizeUser(user *models.User) {
	user.Password = ""
	user.Salt = ""
	user.Tokens = nil
}

// HandleLogin xử lý đăng nhập bằng email + password
func (h *UserHandler) HandleLogin(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		var input authdto.UserLoginInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		if err := h.ValidateInput(&input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		user, err := h.userService.Login(c.Context(), &input)
		if err != nil {
			logger.LogAuth("login_failed", c, map[string]interface{}{"email": input.Email})
			h.HandleResponse(c, nil, err)
			return nil
		}
		logger.LogAuth("login", c, map[string]interface{}{"user_id": user.ID.Hex()})

		sanitizeUser(user)
		h.HandleResponse(c, user, nil)
		return nil
	})
}

// HandleLogout xử lý đăng xuất người dùng (thu hồi token của thiết bị)
func (h *UserHandler) HandleLogout(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		actorID := h.GetActorID(c)
		if actorID.IsZero() {
			h.HandleResponse(c, nil, common.NewError(common.ErrCodeAuthToken, common.MsgUnauthorized, common.StatusUnauthorized, nil))
			return nil
		}

		var input authdto.UserLogoutInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		if err := h.ValidateInput(&input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		err := h.userService.Logout(c.Context(), actorID, &input)
		if err == nil {
			logger.LogAuth("logout", c, nil)
		}
		h.HandleResponse(c, nil, err)
		return nil
	})
}

// HandleGetProfile lấy thông tin profile của người dùng đang đăng nhập
func (h *UserHandler) HandleGetProfile(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		actorID := h.GetActorID(c)
		if actorID.IsZero() {
			h.HandleResponse(c, nil, common.NewError(common.ErrCodeAuthToken, common.MsgUnauthorized, common.StatusUnauthorized, nil))
			return nil
		}

		user, err := h.userService.FindOneById(c.Context(), actorID)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		sanitizeUser(&user)
		h.HandleResponse(c, user, nil)
		return nil
	})
}

// HandleChangePassword đổi password của chính người dùng đang đăng nhập
func (h *UserHandler) HandleChangePassword(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		actorID := h.GetActorID(c)
		if actorID.IsZero() {
			h.HandleResponse(c, nil, common.NewError(common.ErrCodeAuthToken, common.MsgUnauthorized, common.StatusUnauthorized, nil))
			return nil
		}

		var input authdto.UserChangePasswordInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		if err := h.ValidateInput(&input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		err := h.userService.ChangePassword(c.Context(), actorID, &input)
		if err == nil {
			logger.LogAuth("change_password", c, nil)
		}
		h.HandleResponse(c, nil, err)
		return nil
	})
}

// InsertOne override CRUD mặc định: hash password trước khi lưu và chặn
// đặt user ra ngoài phạm vi của actor (scope ceiling).
func (h *UserHandler) InsertOne(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		var input authdto.UserCreateInput
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
		if err := h.authz.CheckScopeCeiling(actor, model.OrganizationID, model.DepartmentID, authsvc.OpCreate, authsvc.ResourceUser); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		// Chỉ Admin mới được gán role khác User
		if input.Role != "" {
			role, ok := models.ParseRole(input.Role)
			if !ok {
				h.HandleResponse(c, nil, common.NewError(common.ErrCodeValidationInput, "Role không hợp lệ", common.StatusBadRequest, nil))
				return nil
			}
			if role != models.RoleUser && actor.Role != models.RoleAdmin && !actor.IsPlatformUser {
				h.HandleResponse(c, nil, common.ErrNoPermission)
				return nil
			}
			model.Role = role
		}

		model.CreatedBy = actor.ID
		// Password trong model là plaintext copy từ input — service hash lại từ đầu
		model.Password = ""
		user, err := h.userService.CreateWithPassword(h.RequestContext(c), *model, input.Password)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		sanitizeUser(&user)
		h.HandleResponse(c, user, nil)
		return nil
	})
}

// UpdateById override CRUD mặc định: chuyển department phải qua kiểm tra
// scope ceiling + membership, đổi role chỉ dành cho Admin.
func (h *UserHandler) UpdateById(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		id, err := h.ParseObjectID(c, "id")
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		var input authdto.UserUpdateInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		if err := h.ValidateInput(&input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		actor := h.GetActor(c)
		updateSet := make(map[string]interface{})

		if input.DepartmentID != "" {
			deptID, err := primitive.ObjectIDFromHex(input.DepartmentID)
			if err != nil {
				h.HandleResponse(c, nil, common.NewError(common.ErrCodeValidationFormat, common.MsgInvalidFormat, common.StatusBadRequest, err))
				return nil
			}
			if err := h.authz.CheckScopeCeiling(actor, actor.OrganizationID, deptID, authsvc.OpUpdate, authsvc.ResourceUser); err != nil {
				h.HandleResponse(c, nil, err)
				return nil
			}
			if err := h.userService.ValidateMembership(c.Context(), actor.OrganizationID, deptID); err != nil {
				h.HandleResponse(c, nil, err)
				return nil
			}
			updateSet["departmentId"] = deptID
		}

		if input.Role != "" {
			role, ok := models.ParseRole(input.Role)
			if !ok {
				h.HandleResponse(c, nil, common.NewError(common.ErrCodeValidationInput, "Role không hợp lệ", common.StatusBadRequest, nil))
				return nil
			}
			if actor.Role != models.RoleAdmin && !actor.IsPlatformUser {
				h.HandleResponse(c, nil, common.ErrNoPermission)
				return nil
			}
			updateSet["role"] = string(role)
		}

		if input.FirstName != "" {
			updateSet["firstName"] = input.FirstName
		}
		if input.LastName != "" {
			updateSet["lastName"] = input.LastName
		}
		if input.Position != "" {
			updateSet["position"] = input.Position
		}

		if len(updateSet) == 0 {
			h.HandleResponse(c, nil, common.NewError(common.ErrCodeValidationInput, "Không có dữ liệu cập nhật", common.StatusBadRequest, nil))
			return nil
		}

		filter := h.ApplyScopeFilter(c, map[string]interface{}{"_id": id})
		user, err := h.userService.UpdateOne(h.RequestContext(c), filter, &basesvc.UpdateData{Set: updateSet}, nil)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		sanitizeUser(&user)
		h.HandleResponse(c, user, nil)
		return nil
	})
}
