package basehdl

import (
	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/bson"

	basesvc "work_tracker/internal/api/base/service"
	"work_tracker/internal/common"
	"work_tracker/internal/logger"
)

// checkLifecycleScope kiểm tra document nằm trong phạm vi dữ liệu của actor
// trước khi chạy delete/restore. Đọc cả document đã soft-delete: delete lặp lại
// phải idempotent và target của restore luôn đang deleted. Ngoài phạm vi trả
// về NotFound — không để lộ sự tồn tại của document.
func (h *BaseHandler[T, CreateInput, UpdateInput]) checkLifecycleScope(c fiber.Ctx, id interface{}) error {
	ctx := basesvc.WithDeleted(h.RequestContext(c))
	filter := h.ApplyScopeFilter(c, bson.M{"_id": id})
	_, err := h.BaseService.FindOne(ctx, filter, nil)
	return err
}

// Delete soft-delete một document theo ID và cascade xuống toàn bộ descendant.
// ID được truyền qua URI params. Trả về số document bị ảnh hưởng.
func (h *BaseHandler[T, CreateInput, UpdateInput]) Delete(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		if h.Lifecycle == nil {
			h.HandleResponse(c, nil, common.NewError(
				common.ErrCodeInternalServer,
				"Resource này không hỗ trợ xóa",
				common.StatusInternalServerError,
				nil,
			))
			return nil
		}

		id, err := h.ParseObjectID(c, "id")
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		if err := h.checkLifecycleScope(c, id); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		result, err := h.Lifecycle.SoftDelete(h.RequestContext(c), id, h.GetActorID(c))
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		logger.LogCascade("delete", string(h.Lifecycle.EntityType()), id.Hex(), result.AffectedCount, c)
		h.HandleResponse(c, result, nil)
		return nil
	})
}

// Restore restore một document đã soft-delete theo ID (không cascade xuống descendant).
// Fail nếu có ancestor đang ở trạng thái deleted. Document đang active là no-op thành công.
func (h *BaseHandler[T, CreateInput, UpdateInput]) Restore(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		if h.Lifecycle == nil {
			h.HandleResponse(c, nil, common.NewError(
				common.ErrCodeInternalServer,
				"Resource này không hỗ trợ restore",
				common.StatusInternalServerError,
				nil,
			))
			return nil
		}

		id, err := h.ParseObjectID(c, "id")
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		if err := h.checkLifecycleScope(c, id); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		result, err := h.Lifecycle.Restore(h.RequestContext(c), id, h.GetActorID(c))
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		logger.LogCascade("restore", string(h.Lifecycle.EntityType()), id.Hex(), result.AffectedCount, c)
		h.HandleResponse(c, result, nil)
		return nil
	})
}
