// Package middleware - xác thực token và phân quyền theo scope cho mỗi request.
package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"work_tracker/internal/common"
)

// HandleErrorResponse trả lỗi từ middleware theo đúng format response của handler
func HandleErrorResponse(c fiber.Ctx, err error) error {
	c.Set("Content-Type", "application/json; charset=utf-8")

	var customErr *common.Error
	if errors.As(err, &customErr) {
		return c.Status(customErr.StatusCode).JSON(fiber.Map{
			"code":    customErr.Code.Code,
			"message": customErr.Message,
			"details": customErr.Details,
			"status":  "error",
		})
	}

	return c.Status(common.StatusInternalServerError).JSON(fiber.Map{
		"code":    common.ErrCodeInternalServer.Code,
		"message": err.Error(),
		"status":  "error",
	})
}
