package middleware

import (
	"errors"
	"strings"
	"sync"

	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"

	models "work_tracker/internal/api/auth/models"
	authsvc "work_tracker/internal/api/auth/service"
	"work_tracker/internal/common"
	"work_tracker/internal/global"
	"work_tracker/internal/utility"
)

// AuthManager giữ các service dùng chung cho mọi middleware xác thực/phân quyền.
// Khởi tạo một lần và tái sử dụng cho toàn bộ route.
type AuthManager struct {
	userService *authsvc.UserService
	authz       *authsvc.AuthorizationService
}

var (
	authManagerInstance *AuthManager
	authManagerOnce     sync.Once
	authManagerErr      error
)

// GetAuthManager trả về AuthManager singleton
func GetAuthManager() (*AuthManager, error) {
	authManagerOnce.Do(func() {
		userService, err := authsvc.NewUserService()
		if err != nil {
			authManagerErr = err
			return
		}
		authManagerInstance = &AuthManager{
			userService: userService,
			authz:       authsvc.DefaultAuthorization(),
		}
	})
	return authManagerInstance, authManagerErr
}

// extractBearerToken đọc JWT token từ header Authorization
func extractBearerToken(c fiber.Ctx) (string, error) {
	header := c.Get("Authorization")
	if header == "" {
		return "", common.ErrTokenMissing
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", common.ErrTokenInvalid
	}
	return parts[1], nil
}

// AuthMiddleware xác thực JWT token và gắn danh tính actor vào request.
// Token phải còn hạn, user phải đang active và token phải còn trong danh sách
// token đã cấp (logout hoặc đổi password thu hồi token cũ dù JWT chưa hết hạn).
func AuthMiddleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		manager, err := GetAuthManager()
		if err != nil {
			return HandleErrorResponse(c, common.NewError(common.ErrCodeInternalServer, "Không thể khởi tạo auth manager", common.StatusInternalServerError, err))
		}

		tokenStr, err := extractBearerToken(c)
		if err != nil {
			return HandleErrorResponse(c, err)
		}

		claims, err := utility.ParseToken(global.ServerConfig.JwtSecret, tokenStr)
		if err != nil {
			if errors.Is(err, utility.ErrTokenExpired) {
				return HandleErrorResponse(c, common.ErrTokenExpired)
			}
			return HandleErrorResponse(c, common.ErrTokenInvalid)
		}

		userID := utility.String2ObjectID(claims.UserID)
		if userID.IsZero() {
			return HandleErrorResponse(c, common.ErrTokenInvalid)
		}

		// FindOneById chỉ trả user đang active — user bị soft-delete coi như token thu hồi
		user, err := manager.userService.FindOneById(c.Context(), userID)
		if err != nil {
			return HandleErrorResponse(c, common.ErrTokenInvalid)
		}

		issued := user.Token == tokenStr
		if !issued {
			for _, t := range user.Tokens {
				if t.JwtToken == tokenStr {
					issued = true
					break
				}
			}
		}
		if !issued {
			logrus.WithField("user_id", user.ID.Hex()).Warn("AuthMiddleware: token hợp lệ nhưng đã bị thu hồi")
			return HandleErrorResponse(c, common.ErrTokenInvalid)
		}

		c.Locals("userID", user.ID.Hex())
		c.Locals("organizationID", user.OrganizationID.Hex())
		c.Locals("departmentID", user.DepartmentID.Hex())
		c.Locals("actor", models.ActorFromUser(&user))

		return c.Next()
	}
}

// RequirePermission tra bảng phân quyền cho (resourceType, operation) và resolve
// scope filter cho request. Deny trả 403 trước khi vào handler; allow gắn
// Locals "scopeFilter" để handler thu hẹp mọi truy vấn đọc/ghi.
// Phải đứng sau AuthMiddleware trong chain.
func RequirePermission(resourceType authsvc.ResourceType, operation authsvc.Operation) fiber.Handler {
	return func(c fiber.Ctx) error {
		manager, err := GetAuthManager()
		if err != nil {
			return HandleErrorResponse(c, common.NewError(common.ErrCodeInternalServer, "Không thể khởi tạo auth manager", common.StatusInternalServerError, err))
		}

		actor, ok := c.Locals("actor").(models.Actor)
		if !ok {
			return HandleErrorResponse(c, common.ErrTokenMissing)
		}

		decision := manager.authz.CheckPermission(actor, resourceType, operation)
		if !decision.Allowed {
			logrus.WithFields(logrus.Fields{
				"user_id":   actor.ID.Hex(),
				"role":      string(actor.Role),
				"resource":  string(resourceType),
				"operation": string(operation),
			}).Warn("RequirePermission: từ chối thao tác")
			return HandleErrorResponse(c, common.ErrNoPermission)
		}

		// Đọc cả document đã soft-delete là đặc quyền của người được restore
		if c.Query("withDeleted", "") == "true" {
			if restoreDecision := manager.authz.CheckPermission(actor, resourceType, authsvc.OpRestore); !restoreDecision.Allowed {
				return HandleErrorResponse(c, common.ErrNoPermission)
			}
		}

		// Scope đầu tiên là scope rộng nhất — filter theo nó đã bao trùm các scope hẹp hơn
		scopeFilter := manager.authz.ResolveScopeFilter(actor, decision.Scopes[0], resourceType)
		c.Locals("scopeFilter", scopeFilter)

		return c.Next()
	}
}
