package basesvc

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	basemodels "work_tracker/internal/api/base/models"
	"work_tracker/internal/api/events"
	"work_tracker/internal/global"
)

// EntityLifecycle gom cascade engine và mutation coordinator thành API
// soft-delete/restore cho một loại entity cụ thể. Mỗi domain service giữ
// một instance cho entity type của mình.
type EntityLifecycle struct {
	entityType  basemodels.EntityType
	engine      *CascadeEngine
	coordinator *MutationCoordinator
}

// NewEntityLifecycle tạo lifecycle cho một entity type
func NewEntityLifecycle(entityType basemodels.EntityType, engine *CascadeEngine, coordinator *MutationCoordinator) *EntityLifecycle {
	return &EntityLifecycle{
		entityType:  entityType,
		engine:      engine,
		coordinator: coordinator,
	}
}

// NewDefaultEntityLifecycle tạo lifecycle chạy trên MongoDB session toàn cục.
// Domain handler gọi hàm này trong constructor của mình.
func NewDefaultEntityLifecycle(entityType basemodels.EntityType) *EntityLifecycle {
	engine := NewCascadeEngine(NewMongoCascadeStore())
	timeout := time.Duration(global.ServerConfig.MongoDB_TxTimeoutSec) * time.Second
	coordinator := NewMutationCoordinator(NewMongoTxRunner(global.MongoDB_Session, timeout))
	return NewEntityLifecycle(entityType, engine, coordinator)
}

// EntityType trả về loại entity lifecycle này quản lý
func (l *EntityLifecycle) EntityType() basemodels.EntityType {
	return l.entityType
}

// SoftDelete cascade soft-delete entity và toàn bộ descendant trong một transaction.
// Root đã deleted sẵn: trả về AffectedCount 0 ngay, không mở transaction.
// Event chỉ được phát sau khi transaction commit thành công.
func (l *EntityLifecycle) SoftDelete(ctx context.Context, id primitive.ObjectID, actorID primitive.ObjectID) (*basemodels.CascadeResult, error) {
	// Fast-path idempotent: root đã deleted thì cả subtree đã deleted từ lần trước
	doc, err := l.engine.loadTypedDocument(ctx, l.entityType, id)
	if err != nil {
		return nil, err
	}
	if docIsDeleted(doc) {
		return &basemodels.CascadeResult{AffectedCount: 0}, nil
	}

	result, err := l.coordinator.Execute(ctx,
		func(sessCtx context.Context) (interface{}, error) {
			return l.engine.CascadeDelete(sessCtx, l.entityType, id, actorID)
		},
		func(result interface{}) {
			cascadeResult, ok := result.(*basemodels.CascadeResult)
			if !ok || cascadeResult.AffectedCount == 0 {
				return
			}
			events.EmitEntityChanged(ctx, events.EntityChangeEvent{
				EntityType:     string(l.entityType),
				CollectionName: basemodels.CollectionOf(l.entityType),
				Operation:      events.OpDelete,
				Document:       doc,
				ActorID:        actorID,
				AffectedIDs:    cascadeResult.AffectedIDs,
			})
		})
	if err != nil {
		return nil, err
	}
	return result.(*basemodels.CascadeResult), nil
}

// Restore restore entity (không cascade xuống descendant) trong một transaction,
// sau khi xác nhận chuỗi ancestor đang active. Root đang active là no-op thành công.
func (l *EntityLifecycle) Restore(ctx context.Context, id primitive.ObjectID, actorID primitive.ObjectID) (*basemodels.CascadeResult, error) {
	// Fast-path idempotent: root đang active thì restore là no-op, không mở transaction
	doc, err := l.engine.loadTypedDocument(ctx, l.entityType, id)
	if err != nil {
		return nil, err
	}
	if !docIsDeleted(doc) {
		return &basemodels.CascadeResult{AffectedCount: 0}, nil
	}

	result, err := l.coordinator.Execute(ctx,
		func(sessCtx context.Context) (interface{}, error) {
			return l.engine.CascadeRestore(sessCtx, l.entityType, id, actorID)
		},
		func(result interface{}) {
			cascadeResult, ok := result.(*basemodels.CascadeResult)
			if !ok || cascadeResult.AffectedCount == 0 {
				return
			}
			events.EmitEntityChanged(ctx, events.EntityChangeEvent{
				EntityType:     string(l.entityType),
				CollectionName: basemodels.CollectionOf(l.entityType),
				Operation:      events.OpRestore,
				Document:       doc,
				ActorID:        actorID,
				AffectedIDs:    cascadeResult.AffectedIDs,
			})
		})
	if err != nil {
		return nil, err
	}
	return result.(*basemodels.CascadeResult), nil
}
