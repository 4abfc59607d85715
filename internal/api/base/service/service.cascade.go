package basesvc

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	basemodels "work_tracker/internal/api/base/models"
	"work_tracker/internal/common"
	"work_tracker/internal/global"
	"work_tracker/internal/utility"
)

// CascadeStore là cửa truy cập dữ liệu tối thiểu của cascade engine.
// Tách interface để engine chạy được trên in-memory store trong unit test.
// Mọi method nhận ctx của caller — khi chạy trong transaction, ctx là session context
// nên toàn bộ traversal nằm trong cùng transaction.
type CascadeStore interface {
	// FindIDs trả về _id của các document match filter
	FindIDs(ctx context.Context, collection string, filter bson.M) ([]primitive.ObjectID, error)
	// UpdateMany áp update document lên các document match filter, trả về số document bị sửa
	UpdateMany(ctx context.Context, collection string, filter bson.M, update bson.M) (int64, error)
	// FindDocument trả về document theo id (cả deleted), ErrNotFound nếu không tồn tại
	FindDocument(ctx context.Context, collection string, id primitive.ObjectID) (bson.M, error)
}

// MongoCascadeStore là implementation CascadeStore trên registry collection toàn cục.
type MongoCascadeStore struct{}

// NewMongoCascadeStore tạo store mới
func NewMongoCascadeStore() *MongoCascadeStore {
	return &MongoCascadeStore{}
}

func (s *MongoCascadeStore) getCollection(name string) (*mongo.Collection, error) {
	collection, exists := global.RegistryCollections.Get(name)
	if !exists {
		return nil, common.NewError(
			common.ErrCodeInternalServer,
			fmt.Sprintf("Collection %s chưa được đăng ký", name),
			common.StatusInternalServerError,
			nil,
		)
	}
	return collection, nil
}

// FindIDs trả về _id của các document match filter (projection chỉ lấy _id)
func (s *MongoCascadeStore) FindIDs(ctx context.Context, collectionName string, filter bson.M) ([]primitive.ObjectID, error) {
	collection, err := s.getCollection(collectionName)
	if err != nil {
		return nil, err
	}

	opts := options.Find().SetProjection(bson.M{"_id": 1})
	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, common.ConvertMongoError(err)
	}
	defer cursor.Close(ctx)

	var docs []struct {
		ID primitive.ObjectID `bson:"_id"`
	}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, common.ConvertMongoError(err)
	}

	ids := make([]primitive.ObjectID, 0, len(docs))
	for _, doc := range docs {
		ids = append(ids, doc.ID)
	}
	return ids, nil
}

// UpdateMany áp update lên các document match filter
func (s *MongoCascadeStore) UpdateMany(ctx context.Context, collectionName string, filter bson.M, update bson.M) (int64, error) {
	collection, err := s.getCollection(collectionName)
	if err != nil {
		return 0, err
	}

	result, err := collection.UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, common.ConvertMongoError(err)
	}
	return result.ModifiedCount, nil
}

// FindDocument trả về document theo id, cả document đã soft-delete
func (s *MongoCascadeStore) FindDocument(ctx context.Context, collectionName string, id primitive.ObjectID) (bson.M, error) {
	collection, err := s.getCollection(collectionName)
	if err != nil {
		return nil, err
	}

	var doc bson.M
	err = collection.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err != nil {
		return nil, common.ConvertMongoError(err)
	}
	return doc, nil
}

// CascadeEngine thực hiện cascade delete và restore trên đồ thị entity.
// Engine không phát event và không tự mở transaction — caller (Mutation Coordinator)
// quyết định ranh giới transaction và phát event sau khi commit.
type CascadeEngine struct {
	store CascadeStore
}

// NewCascadeEngine tạo engine mới trên store
func NewCascadeEngine(store CascadeStore) *CascadeEngine {
	return &CascadeEngine{store: store}
}

// workItem là một mục trong worklist BFS: một nhóm id cùng loại entity
type workItem struct {
	entityType basemodels.EntityType
	ids        []primitive.ObjectID
}

// CascadeDelete soft-delete root và toàn bộ descendant theo BFS trên bảng cạnh.
// Chỉ document còn active bị đánh dấu deleted (idempotent — lần gọi thứ hai affect 0),
// nhưng traversal vẫn đi tiếp qua document đã deleted để sửa inconsistency out-of-band
// (con active dưới cha đã deleted vẫn bị quét xuống).
func (e *CascadeEngine) CascadeDelete(ctx context.Context, rootType basemodels.EntityType, rootID primitive.ObjectID, actorID primitive.ObjectID) (*basemodels.CascadeResult, error) {
	if _, err := e.loadTypedDocument(ctx, rootType, rootID); err != nil {
		return nil, err
	}

	now := utility.CurrentTimeInMilli()
	markDeleted := basemodels.MarkDeleted(actorID, now)

	var affectedIDs []primitive.ObjectID
	queue := []workItem{{entityType: rootType, ids: []primitive.ObjectID{rootID}}}

	for len(queue) > 0 {
		item := queue[0]
		queue = queue[1:]

		collectionName := basemodels.CollectionOf(item.entityType)

		// Đánh dấu deleted các thành viên còn active trong nhóm
		activeFilter := bson.M{"_id": bson.M{"$in": item.ids}, "isDeleted": bson.M{"$ne": true}}
		activeIDs, err := e.store.FindIDs(ctx, collectionName, activeFilter)
		if err != nil {
			return nil, err
		}
		if len(activeIDs) > 0 {
			if _, err := e.store.UpdateMany(ctx, collectionName, bson.M{"_id": bson.M{"$in": activeIDs}}, markDeleted); err != nil {
				return nil, err
			}
			affectedIDs = append(affectedIDs, activeIDs...)
		}

		// Đi tiếp xuống con của TẤT CẢ thành viên (kể cả đã deleted trước đó)
		for _, edge := range basemodels.ChildTypesOf(item.entityType) {
			childFilter := bson.M{edge.ForeignKey: bson.M{"$in": item.ids}}
			for k, v := range edge.Discriminator {
				childFilter[k] = v
			}
			childIDs, err := e.store.FindIDs(ctx, edge.Collection, childFilter)
			if err != nil {
				return nil, err
			}
			if len(childIDs) > 0 {
				queue = append(queue, workItem{entityType: edge.ChildType, ids: childIDs})
			}
		}
	}

	return &basemodels.CascadeResult{
		AffectedCount: int64(len(affectedIDs)),
		AffectedIDs:   affectedIDs,
	}, nil
}

// CascadeRestore restore root (KHÔNG cascade xuống descendant) sau khi xác nhận
// toàn bộ chuỗi ancestor tới Organization đang active. Gặp ancestor deleted thì
// fail không mutate, error nêu rõ ancestor chặn (loại + id).
// Root đang active là no-op thành công với AffectedCount 0.
func (e *CascadeEngine) CascadeRestore(ctx context.Context, rootType basemodels.EntityType, rootID primitive.ObjectID, actorID primitive.ObjectID) (*basemodels.CascadeResult, error) {
	rootDoc, err := e.loadTypedDocument(ctx, rootType, rootID)
	if err != nil {
		return nil, err
	}

	// Kiểm tra chuỗi ancestor trước khi mutate
	if err := e.checkAncestorsActive(ctx, rootType, rootDoc); err != nil {
		return nil, err
	}

	// Root đang active: idempotent no-op
	if !docIsDeleted(rootDoc) {
		return &basemodels.CascadeResult{AffectedCount: 0, AffectedIDs: nil}, nil
	}

	now := utility.CurrentTimeInMilli()
	collectionName := basemodels.CollectionOf(rootType)
	modified, err := e.store.UpdateMany(ctx, collectionName,
		bson.M{"_id": rootID, "isDeleted": true},
		basemodels.MarkRestored(actorID, now))
	if err != nil {
		return nil, err
	}

	result := &basemodels.CascadeResult{AffectedCount: modified}
	if modified > 0 {
		result.AffectedIDs = []primitive.ObjectID{rootID}
	}
	return result, nil
}

// checkAncestorsActive đi ngược từ entity lên Organization, fail tại ancestor deleted đầu tiên.
func (e *CascadeEngine) checkAncestorsActive(ctx context.Context, entityType basemodels.EntityType, doc bson.M) error {
	curType := entityType
	curDoc := doc

	for {
		ref, hasParent := basemodels.ParentRefOf(curType)
		if !hasParent {
			return nil // Đã tới gốc (Organization)
		}

		parentID, ok := docObjectID(curDoc, ref.IDField)
		if !ok {
			return common.NewError(
				common.ErrCodeBusinessCascade,
				fmt.Sprintf("Document %s thiếu tham chiếu parent (%s)", curType, ref.IDField),
				common.StatusConflict,
				nil,
			)
		}

		parentType := ref.FixedType
		if ref.TypeField != "" {
			raw, _ := curDoc[ref.TypeField].(string)
			parsed, valid := basemodels.ParseEntityType(raw)
			if !valid {
				return common.NewError(
					common.ErrCodeBusinessCascade,
					fmt.Sprintf("Document %s có %s không hợp lệ: %q", curType, ref.TypeField, raw),
					common.StatusConflict,
					nil,
				)
			}
			parentType = parsed
		}

		parentDoc, err := e.store.FindDocument(ctx, basemodels.CollectionOf(parentType), parentID)
		if err != nil {
			return err
		}

		if docIsDeleted(parentDoc) {
			return common.NewAncestorDeletedError(string(parentType), parentID.Hex())
		}

		curType = parentType
		curDoc = parentDoc
	}
}

// loadTypedDocument load document theo loại, ErrNotFound nếu không tồn tại
// hoặc taskType không khớp loại yêu cầu (id của variant khác không được nhận).
func (e *CascadeEngine) loadTypedDocument(ctx context.Context, entityType basemodels.EntityType, id primitive.ObjectID) (bson.M, error) {
	doc, err := e.store.FindDocument(ctx, basemodels.CollectionOf(entityType), id)
	if err != nil {
		return nil, err
	}
	if basemodels.IsTaskVariant(entityType) {
		taskType, _ := doc["taskType"].(string)
		if taskType != string(entityType) {
			return nil, common.ErrNotFound
		}
	}
	return doc, nil
}

// docIsDeleted đọc cờ isDeleted từ raw document
func docIsDeleted(doc bson.M) bool {
	deleted, _ := doc["isDeleted"].(bool)
	return deleted
}

// docObjectID đọc một field ObjectID từ raw document
func docObjectID(doc bson.M, field string) (primitive.ObjectID, bool) {
	value, exists := doc[field]
	if !exists {
		return primitive.NilObjectID, false
	}
	id, ok := value.(primitive.ObjectID)
	if !ok || id == primitive.NilObjectID {
		return primitive.NilObjectID, false
	}
	return id, true
}
