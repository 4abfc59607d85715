// Package router đăng ký các route thuộc domain tenant: Organization, Department.
package router

import (
	"fmt"

	"github.com/gofiber/fiber/v3"

	authsvc "work_tracker/internal/api/auth/service"
	apirouter "work_tracker/internal/api/router"
	tenanthdl "work_tracker/internal/api/tenant/handler"
)

// Register đăng ký tất cả route tenant lên v1.
func Register(v1 fiber.Router, r *apirouter.Router) error {
	orgHandler, err := tenanthdl.NewOrganizationHandler()
	if err != nil {
		return fmt.Errorf("failed to create organization handler: %w", err)
	}
	r.RegisterCRUDRoutes(v1, "/organization", orgHandler, apirouter.ReadWriteConfig, authsvc.ResourceOrganization)

	deptHandler, err := tenanthdl.NewDepartmentHandler()
	if err != nil {
		return fmt.Errorf("failed to create department handler: %w", err)
	}
	r.RegisterCRUDRoutes(v1, "/department", deptHandler, apirouter.ReadWriteConfig, authsvc.ResourceDepartment)

	return nil
}
