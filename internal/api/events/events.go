// Package events cung cấp cơ chế event trung tâm khi dữ liệu thay đổi.
// Event CHỈ được phát sau khi transaction commit thành công (qua Mutation Coordinator),
// nên handler luôn quan sát trạng thái đã bền vững. Logic phản ứng (notification,
// cache invalidation, ...) đăng ký qua OnEntityChanged.
package events

import (
	"context"
	"reflect"
	"strings"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Các loại thao tác phát event.
const (
	OpInsert  = "insert"
	OpUpdate  = "update"
	OpDelete  = "delete"  // soft-delete (có thể cascade)
	OpRestore = "restore" // restore root
)

// EntityChangeEvent mô tả sự kiện thay đổi trên một entity.
// Document là bản ghi sau khi thay đổi (trạng thái đã commit).
// AffectedIDs chỉ có giá trị với delete/restore cascade — toàn bộ id bị ảnh hưởng,
// gồm cả root, để audience (watchers, assignees) được tính trên cả subtree.
type EntityChangeEvent struct {
	EntityType     string
	CollectionName string
	Operation      string
	Document       interface{}
	ActorID        primitive.ObjectID
	AffectedIDs    []primitive.ObjectID
}

// EntityChangeHandler xử lý sự kiện thay đổi entity.
type EntityChangeHandler func(ctx context.Context, e EntityChangeEvent)

var (
	handlers   []EntityChangeHandler
	handlersMu sync.RWMutex
)

// OnEntityChanged đăng ký handler. Gọi khi init (ví dụ từ notification dispatcher).
func OnEntityChanged(h EntityChangeHandler) {
	handlersMu.Lock()
	defer handlersMu.Unlock()
	handlers = append(handlers, h)
}

// EmitEntityChanged phát sự kiện. Caller phải đảm bảo chỉ gọi sau khi commit.
// Mỗi handler chạy trong goroutine riêng, panic được recover để không ảnh hưởng handler khác.
func EmitEntityChanged(ctx context.Context, e EntityChangeEvent) {
	handlersMu.RLock()
	list := make([]EntityChangeHandler, len(handlers))
	copy(list, handlers)
	handlersMu.RUnlock()

	for _, h := range list {
		go func(fn EntityChangeHandler) {
			defer func() {
				if r := recover(); r != nil {
					// Không làm sập app; logger có thể chưa init khi event chạy sớm
					_ = r
				}
			}()
			fn(ctx, e)
		}(h)
	}
}

// bsonKeyOf map tên field Go sang key bson (chữ đầu viết thường, quy ước model)
func bsonKeyOf(fieldName string) string {
	if fieldName == "" {
		return ""
	}
	return strings.ToLower(fieldName[:1]) + fieldName[1:]
}

// objectIDFromValue đọc một ObjectID từ giá trị raw của bson.M
func objectIDFromValue(value interface{}) primitive.ObjectID {
	switch v := value.(type) {
	case primitive.ObjectID:
		return v
	case *primitive.ObjectID:
		if v != nil {
			return *v
		}
	}
	return primitive.NilObjectID
}

// objectIDSliceFromValue đọc một mảng ObjectID từ giá trị raw của bson.M
func objectIDSliceFromValue(value interface{}) []primitive.ObjectID {
	switch arr := value.(type) {
	case []primitive.ObjectID:
		return arr
	case primitive.A:
		var ids []primitive.ObjectID
		for _, item := range arr {
			if id, ok := item.(primitive.ObjectID); ok {
				ids = append(ids, id)
			}
		}
		return ids
	case []interface{}:
		var ids []primitive.ObjectID
		for _, item := range arr {
			if id, ok := item.(primitive.ObjectID); ok {
				ids = append(ids, id)
			}
		}
		return ids
	}
	return nil
}

// GetObjectIDField lấy giá trị ObjectID của field từ document.
// Document có thể là struct model (tra theo tên field Go, dùng reflection)
// hoặc bson.M raw (tra theo key bson) — delete/restore phát raw document.
// Trả về NilObjectID nếu document không có field hoặc field không phải ObjectID.
func GetObjectIDField(doc interface{}, fieldName string) primitive.ObjectID {
	if doc == nil {
		return primitive.NilObjectID
	}
	if m, ok := doc.(bson.M); ok {
		return objectIDFromValue(m[bsonKeyOf(fieldName)])
	}
	val := reflect.ValueOf(doc)
	if val.Kind() == reflect.Ptr {
		if val.IsNil() {
			return primitive.NilObjectID
		}
		val = val.Elem()
	}
	if val.Kind() != reflect.Struct {
		return primitive.NilObjectID
	}
	f := val.FieldByName(fieldName)
	if !f.IsValid() {
		return primitive.NilObjectID
	}
	switch f.Kind() {
	case reflect.Array, reflect.Struct:
		// primitive.ObjectID là [12]byte
		if obj, ok := f.Interface().(primitive.ObjectID); ok {
			return obj
		}
		return primitive.NilObjectID
	case reflect.Ptr:
		if f.IsNil() {
			return primitive.NilObjectID
		}
		if ptr, ok := f.Interface().(*primitive.ObjectID); ok && ptr != nil {
			return *ptr
		}
		return primitive.NilObjectID
	default:
		return primitive.NilObjectID
	}
}

// GetObjectIDSliceField lấy giá trị []ObjectID của field từ document
// (struct model hoặc bson.M raw, như GetObjectIDField).
// Dùng để lấy watchers/assignees cho audience của notification.
func GetObjectIDSliceField(doc interface{}, fieldName string) []primitive.ObjectID {
	if doc == nil {
		return nil
	}
	if m, ok := doc.(bson.M); ok {
		return objectIDSliceFromValue(m[bsonKeyOf(fieldName)])
	}
	val := reflect.ValueOf(doc)
	if val.Kind() == reflect.Ptr {
		if val.IsNil() {
			return nil
		}
		val = val.Elem()
	}
	if val.Kind() != reflect.Struct {
		return nil
	}
	f := val.FieldByName(fieldName)
	if !f.IsValid() || f.Kind() != reflect.Slice {
		return nil
	}
	if ids, ok := f.Interface().([]primitive.ObjectID); ok {
		return ids
	}
	return nil
}
