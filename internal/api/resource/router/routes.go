// Package router đăng ký các route thuộc domain resource: Vendor, Material.
package router

import (
	"fmt"

	"github.com/gofiber/fiber/v3"

	authsvc "work_tracker/internal/api/auth/service"
	resourcehdl "work_tracker/internal/api/resource/handler"
	apirouter "work_tracker/internal/api/router"
)

// Register đăng ký tất cả route resource lên v1.
func Register(v1 fiber.Router, r *apirouter.Router) error {
	vendorHandler, err := resourcehdl.NewVendorHandler()
	if err != nil {
		return fmt.Errorf("failed to create vendor handler: %w", err)
	}
	r.RegisterCRUDRoutes(v1, "/vendor", vendorHandler, apirouter.ReadWriteConfig, authsvc.ResourceVendor)

	materialHandler, err := resourcehdl.NewMaterialHandler()
	if err != nil {
		return fmt.Errorf("failed to create material handler: %w", err)
	}
	r.RegisterCRUDRoutes(v1, "/material", materialHandler, apirouter.ReadWriteConfig, authsvc.ResourceMaterial)

	return nil
}
