package authsvc

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	authdto "work_tracker/internal/api/auth/dto"
	models "work_tracker/internal/api/auth/models"
	basesvc "work_tracker/internal/api/base/service"
	"work_tracker/internal/common"
	"work_tracker/internal/global"
	"work_tracker/internal/utility"
)

// UserService là cấu trúc chứa các phương thức liên quan đến người dùng
type UserService struct {
	*basesvc.BaseServiceMongoImpl[models.User]
}

// NewUserService tạo mới UserService
func NewUserService() (*UserService, error) {
	userCollection, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.Users)
	if !exist {
		return nil, fmt.Errorf("failed to get users collection: %v", common.ErrNotFound)
	}

	return &UserService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[models.User](userCollection),
	}, nil
}

// GenerateSalt sinh salt ngẫu nhiên cho password hash
func GenerateSalt() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// HashPassword hash password với salt (sha256)
func HashPassword(password string, salt string) string {
	sum := sha256.Sum256([]byte(salt + password))
	return hex.EncodeToString(sum[:])
}

// ValidateMembership kiểm tra department đang active và thuộc đúng organization.
// Chặn từ service layer để invariant không phụ thuộc handler nào gọi vào.
func (s *UserService) ValidateMembership(ctx context.Context, orgID primitive.ObjectID, deptID primitive.ObjectID) error {
	deptCollection, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.Departments)
	if !exist {
		return common.NewError(common.ErrCodeInternalServer, "Không tìm thấy collection departments", common.StatusInternalServerError, nil)
	}

	count, err := deptCollection.CountDocuments(ctx, bson.M{
		"_id":            deptID,
		"organizationId": orgID,
		"isDeleted":      false,
	})
	if err != nil {
		return common.NewError(common.ErrCodeDatabaseQuery, "Lỗi khi kiểm tra department", common.StatusInternalServerError, err)
	}
	if count == 0 {
		return common.NewError(common.ErrCodeValidationReference, "Department không tồn tại hoặc không thuộc organization", common.StatusBadRequest, nil)
	}
	return nil
}

// CreateWithPassword tạo user mới với password đã được hash + salt.
// Password plaintext không bao giờ được lưu.
func (s *UserService) CreateWithPassword(ctx context.Context, user models.User, plainPassword string) (models.User, error) {
	if err := s.ValidateMembership(ctx, user.OrganizationID, user.DepartmentID); err != nil {
		return user, err
	}

	salt, err := GenerateSalt()
	if err != nil {
		return user, common.NewError(common.ErrCodeInternalServer, "Không thể sinh salt cho password", common.StatusInternalServerError, err)
	}
	user.Salt = salt
	user.Password = HashPassword(plainPassword, salt)

	return s.BaseServiceMongoImpl.InsertOne(ctx, user)
}

// Login xác thực email + password và cấp JWT token cho thiết bị (hwid).
// Token mới nhất được lưu vào field token; mỗi hwid giữ một token riêng trong tokens.
func (s *UserService) Login(ctx context.Context, input *authdto.UserLoginInput) (*models.User, error) {
	user, err := s.BaseServiceMongoImpl.FindOne(ctx, bson.M{"email": input.Email}, nil)
	if err != nil {
		// Không phân biệt "email không tồn tại" với "sai password" ra bên ngoài
		logrus.WithField("email", input.Email).Warn("Login: không tìm thấy user theo email")
		return nil, common.ErrInvalidCredentials
	}

	if user.Password == "" || HashPassword(input.Password, user.Salt) != user.Password {
		logrus.WithField("user_id", user.ID.Hex()).Warn("Login: sai password")
		return nil, common.ErrInvalidCredentials
	}

	tokenStr, err := utility.CreateToken(global.ServerConfig.JwtSecret, user.ID.Hex(), global.ServerConfig.JwtExpireHours)
	if err != nil {
		return nil, common.NewError(common.ErrCodeInternalServer, "Không thể tạo token", common.StatusInternalServerError, err)
	}

	user.Token = tokenStr
	idTokenExist := -1
	for i, token := range user.Tokens {
		if token.Hwid == input.Hwid {
			idTokenExist = i
			break
		}
	}
	if idTokenExist == -1 {
		user.Tokens = append(user.Tokens, models.Token{Hwid: input.Hwid, JwtToken: tokenStr})
	} else {
		user.Tokens[idTokenExist].JwtToken = tokenStr
	}

	updateData := &basesvc.UpdateData{
		Set: map[string]interface{}{
			"token":  user.Token,
			"tokens": user.Tokens,
		},
	}
	updatedUser, err := s.BaseServiceMongoImpl.UpdateById(ctx, user.ID, updateData)
	if err != nil {
		logrus.WithFields(logrus.Fields{"user_id": user.ID.Hex(), "error": err.Error()}).Error("Login: lỗi khi cập nhật token vào user")
		return nil, err
	}

	logrus.WithFields(logrus.Fields{"user_id": updatedUser.ID.Hex(), "email": updatedUser.Email}).Info("Login: đăng nhập thành công")
	return &updatedUser, nil
}

// Logout đăng xuất người dùng (xóa token theo hwid)
func (s *UserService) Logout(ctx context.Context, userID primitive.ObjectID, input *authdto.UserLogoutInput) error {
	user, err := s.BaseServiceMongoImpl.FindOneById(ctx, userID)
	if err != nil {
		return err
	}

	newTokens := make([]models.Token, 0)
	for _, t := range user.Tokens {
		if t.Hwid != input.Hwid {
			newTokens = append(newTokens, t)
		}
	}

	updateData := &basesvc.UpdateData{
		Set: map[string]interface{}{
			"tokens": newTokens,
			"token":  "",
		},
	}
	_, err = s.BaseServiceMongoImpl.UpdateById(ctx, userID, updateData)
	return err
}

// ChangePassword đổi password của chính user sau khi xác nhận password cũ.
// Đổi password thu hồi toàn bộ token đã cấp.
func (s *UserService) ChangePassword(ctx context.Context, userID primitive.ObjectID, input *authdto.UserChangePasswordInput) error {
	user, err := s.BaseServiceMongoImpl.FindOneById(ctx, userID)
	if err != nil {
		return err
	}

	if HashPassword(input.OldPassword, user.Salt) != user.Password {
		return common.ErrInvalidCredentials
	}

	salt, err := GenerateSalt()
	if err != nil {
		return common.NewError(common.ErrCodeInternalServer, "Không thể sinh salt cho password", common.StatusInternalServerError, err)
	}

	updateData := &basesvc.UpdateData{
		Set: map[string]interface{}{
			"salt":     salt,
			"password": HashPassword(input.NewPassword, salt),
			"token":    "",
			"tokens":   []models.Token{},
		},
	}
	_, err = s.BaseServiceMongoImpl.UpdateById(ctx, userID, updateData)
	return err
}

// FindActiveByToken tìm user đang active giữ token này (field token mới nhất
// hoặc trong danh sách tokens theo hwid).
func (s *UserService) FindActiveByToken(ctx context.Context, token string) (*models.User, error) {
	user, err := s.BaseServiceMongoImpl.FindOne(ctx, bson.M{"token": token}, nil)
	if err == nil {
		return &user, nil
	}

	user, err = s.BaseServiceMongoImpl.FindOne(ctx, bson.M{"tokens.jwtToken": token}, nil)
	if err != nil {
		return nil, err
	}
	return &user, nil
}
