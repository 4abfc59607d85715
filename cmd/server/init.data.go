package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"

	"go.mongodb.org/mongo-driver/bson"

	authmodels "work_tracker/internal/api/auth/models"
	authsvc "work_tracker/internal/api/auth/service"
	basesvc "work_tracker/internal/api/base/service"
	tenantmodels "work_tracker/internal/api/tenant/models"
	tenantsvc "work_tracker/internal/api/tenant/service"
	"work_tracker/internal/common"
	"work_tracker/internal/global"
	"work_tracker/internal/logger"
)

// systemDepartmentName tên department mặc định trong organization hệ thống
const systemDepartmentName = "System"

// InitDefaultData đăng ký admin check cho base service và seed dữ liệu hệ thống
// (organization + department + platform admin) khi chạy ở chế độ init.
func InitDefaultData() {
	log := logger.GetAppLogger()

	userService, err := authsvc.NewUserService()
	if err != nil {
		log.Fatalf("Failed to create user service: %v", err)
	}
	// Base service cần biết "user này có phải admin không" khi scope isDeleted;
	// đăng ký callback ở đây để tránh import cycle.
	authsvc.RegisterAdminCheck(userService)

	if !global.ServerConfig.InitMode {
		log.Info("InitMode tắt, bỏ qua seed dữ liệu hệ thống")
		return
	}

	orgService, err := tenantsvc.NewOrganizationService()
	if err != nil {
		log.Fatalf("Failed to create organization service: %v", err)
	}
	deptService, err := tenantsvc.NewDepartmentService()
	if err != nil {
		log.Fatalf("Failed to create department service: %v", err)
	}

	ctx := basesvc.WithSystemDataInsertAllowed(context.Background())
	cfg := global.ServerConfig

	// 1. Organization hệ thống
	org, err := orgService.FindByCode(ctx, cfg.SystemOrgCode)
	if err != nil {
		if !errors.Is(err, common.ErrNotFound) {
			log.Fatalf("Failed to look up system organization: %v", err)
		}
		created, err := orgService.InsertOne(ctx, tenantmodels.Organization{
			Name:     cfg.SystemOrgName,
			Code:     cfg.SystemOrgCode,
			IsSystem: true,
		})
		if err != nil {
			log.Fatalf("Failed to create system organization: %v", err)
		}
		org = &created
		log.Infof("Đã tạo system organization %s (%s)", org.Name, org.ID.Hex())
	}

	// 2. Department hệ thống
	dept, err := deptService.FindOne(ctx, bson.M{"organizationId": org.ID, "name": systemDepartmentName}, nil)
	if err != nil {
		if !errors.Is(err, common.ErrNotFound) {
			log.Fatalf("Failed to look up system department: %v", err)
		}
		dept, err = deptService.InsertOne(ctx, tenantmodels.Department{
			OrganizationID: org.ID,
			Name:           systemDepartmentName,
			Description:    "Department mặc định của organization hệ thống",
		})
		if err != nil {
			log.Fatalf("Failed to create system department: %v", err)
		}
		log.Infof("Đã tạo system department (%s)", dept.ID.Hex())
	}

	// 3. Platform admin
	_, err = userService.FindOne(ctx, bson.M{"email": cfg.SystemAdminEmail}, nil)
	if err == nil {
		log.Info("Platform admin đã tồn tại, bỏ qua seed")
		return
	}
	if !errors.Is(err, common.ErrNotFound) {
		log.Fatalf("Failed to look up platform admin: %v", err)
	}

	password, err := randomPassword()
	if err != nil {
		log.Fatalf("Failed to generate admin password: %v", err)
	}
	admin, err := userService.CreateWithPassword(ctx, authmodels.User{
		OrganizationID: org.ID,
		DepartmentID:   dept.ID,
		FirstName:      "System",
		LastName:       "Admin",
		Email:          cfg.SystemAdminEmail,
		Role:           authmodels.RoleAdmin,
		IsPlatformUser: true,
		IsSystem:       true,
	}, password)
	if err != nil {
		log.Fatalf("Failed to create platform admin: %v", err)
	}

	// Password chỉ log một lần lúc seed; admin phải đổi ngay sau lần login đầu
	log.Infof("Đã tạo platform admin %s (%s), password khởi tạo: %s", admin.Email, admin.ID.Hex(), password)
}

// randomPassword sinh password ngẫu nhiên cho platform admin lúc seed
func randomPassword() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	// Thêm hậu tố để thỏa validator strong_password khi admin được update về sau
	return hex.EncodeToString(buf) + "Aa1!", nil
}
