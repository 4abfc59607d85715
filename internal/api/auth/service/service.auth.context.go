// Package authsvc - service xác thực và phân quyền.
package authsvc

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	models "work_tracker/internal/api/auth/models"
	basesvc "work_tracker/internal/api/base/service"
)

// contextKey kiểu riêng cho context key, tránh đụng key của package khác
type contextKey string

const userIDContextKey contextKey = "auth.userID"

// SetUserIDToContext gắn id của user đang thao tác vào context.
// Handler gọi hàm này trước khi đưa context xuống service layer.
func SetUserIDToContext(ctx context.Context, userID primitive.ObjectID) context.Context {
	return context.WithValue(ctx, userIDContextKey, userID)
}

// GetUserIDFromContext đọc id của user đang thao tác từ context
func GetUserIDFromContext(ctx context.Context) (primitive.ObjectID, bool) {
	userID, ok := ctx.Value(userIDContextKey).(primitive.ObjectID)
	return userID, ok
}

// RegisterAdminCheck đăng ký callback kiểm tra admin cho base service
// (base service không import được authsvc — tránh import cycle).
// User là admin khi có role Admin hoặc là platform user.
func RegisterAdminCheck(userService *UserService) {
	basesvc.SetIsAdminFromContextFunc(func(ctx context.Context) (bool, error) {
		userID, ok := GetUserIDFromContext(ctx)
		if !ok || userID.IsZero() {
			return false, nil
		}
		user, err := userService.FindOneById(ctx, userID)
		if err != nil {
			return false, nil
		}
		return user.Role == models.RoleAdmin || user.IsPlatformUser, nil
	})
}
