package basesvc

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	basemodels "work_tracker/internal/api/base/models"
	"work_tracker/internal/common"
	"work_tracker/internal/global"
)

func init() {
	// CollectionOf đọc từ global — test chạy không qua cmd/server nên gán trực tiếp
	global.MongoDB_ColNames.Organizations = "organizations"
	global.MongoDB_ColNames.Departments = "departments"
	global.MongoDB_ColNames.Users = "users"
	global.MongoDB_ColNames.Vendors = "vendors"
	global.MongoDB_ColNames.Materials = "materials"
	global.MongoDB_ColNames.Tasks = "tasks"
	global.MongoDB_ColNames.TaskActivities = "task_activities"
	global.MongoDB_ColNames.TaskComments = "task_comments"
	global.MongoDB_ColNames.Attachments = "attachments"
}

// fakeCascadeStore là CascadeStore in-memory, chỉ hỗ trợ các dạng filter engine dùng
// ($in trên _id/FK, $ne trên isDeleted, so sánh bằng trên discriminator).
type fakeCascadeStore struct {
	collections map[string][]bson.M
}

func newFakeCascadeStore() *fakeCascadeStore {
	return &fakeCascadeStore{collections: make(map[string][]bson.M)}
}

func (s *fakeCascadeStore) add(collection string, doc bson.M) {
	s.collections[collection] = append(s.collections[collection], doc)
}

func (s *fakeCascadeStore) get(collection string, id primitive.ObjectID) bson.M {
	for _, doc := range s.collections[collection] {
		if doc["_id"] == id {
			return doc
		}
	}
	return nil
}

func matchCondition(docValue interface{}, condition interface{}) bool {
	ops, isOps := condition.(bson.M)
	if !isOps {
		return reflect.DeepEqual(docValue, condition)
	}
	for op, arg := range ops {
		switch op {
		case "$in":
			ids, ok := arg.([]primitive.ObjectID)
			if !ok {
				return false
			}
			id, ok := docValue.(primitive.ObjectID)
			if !ok {
				return false
			}
			found := false
			for _, candidate := range ids {
				if candidate == id {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		case "$ne":
			if reflect.DeepEqual(docValue, arg) {
				return false
			}
		default:
			return false
		}
	}
	return true
}

func matchFilter(doc bson.M, filter bson.M) bool {
	for field, condition := range filter {
		if !matchCondition(doc[field], condition) {
			return false
		}
	}
	return true
}

func (s *fakeCascadeStore) FindIDs(_ context.Context, collection string, filter bson.M) ([]primitive.ObjectID, error) {
	var ids []primitive.ObjectID
	for _, doc := range s.collections[collection] {
		if matchFilter(doc, filter) {
			ids = append(ids, doc["_id"].(primitive.ObjectID))
		}
	}
	return ids, nil
}

func (s *fakeCascadeStore) UpdateMany(_ context.Context, collection string, filter bson.M, update bson.M) (int64, error) {
	var modified int64
	for _, doc := range s.collections[collection] {
		if !matchFilter(doc, filter) {
			continue
		}
		if set, ok := update["$set"].(bson.M); ok {
			for k, v := range set {
				doc[k] = v
			}
		}
		if unset, ok := update["$unset"].(bson.M); ok {
			for k := range unset {
				delete(doc, k)
			}
		}
		modified++
	}
	return modified, nil
}

func (s *fakeCascadeStore) FindDocument(_ context.Context, collection string, id primitive.ObjectID) (bson.M, error) {
	if doc := s.get(collection, id); doc != nil {
		return doc, nil
	}
	return nil, common.ErrNotFound
}

// cascadeFixture dựng một cây tenant đầy đủ hai chuỗi cha-con:
// org → dept → {user, vendor, material, task} → activity/comment → attachment.
type cascadeFixture struct {
	store  *fakeCascadeStore
	engine *CascadeEngine
	actor  primitive.ObjectID

	org, dept, user, vendor, material primitive.ObjectID
	task, activity, comment           primitive.ObjectID
	taskAttachment, commentAttachment primitive.ObjectID
}

func newCascadeFixture() *cascadeFixture {
	f := &cascadeFixture{
		store:             newFakeCascadeStore(),
		actor:             primitive.NewObjectID(),
		org:               primitive.NewObjectID(),
		dept:              primitive.NewObjectID(),
		user:              primitive.NewObjectID(),
		vendor:            primitive.NewObjectID(),
		material:          primitive.NewObjectID(),
		task:              primitive.NewObjectID(),
		activity:          primitive.NewObjectID(),
		comment:           primitive.NewObjectID(),
		taskAttachment:    primitive.NewObjectID(),
		commentAttachment: primitive.NewObjectID(),
	}
	f.engine = NewCascadeEngine(f.store)

	f.store.add("organizations", bson.M{"_id": f.org, "name": "Org A"})
	f.store.add("departments", bson.M{"_id": f.dept, "organizationId": f.org, "name": "Kỹ thuật"})
	f.store.add("users", bson.M{"_id": f.user, "organizationId": f.org, "departmentId": f.dept})
	f.store.add("vendors", bson.M{"_id": f.vendor, "organizationId": f.org, "departmentId": f.dept})
	f.store.add("materials", bson.M{"_id": f.material, "organizationId": f.org, "departmentId": f.dept})
	f.store.add("tasks", bson.M{
		"_id": f.task, "organizationId": f.org, "departmentId": f.dept,
		"taskType": string(basemodels.EntityProjectTask), "createdBy": f.user,
	})
	f.store.add("task_activities", bson.M{
		"_id": f.activity, "organizationId": f.org, "departmentId": f.dept,
		"parent": f.task, "parentModel": string(basemodels.EntityProjectTask),
	})
	f.store.add("task_comments", bson.M{
		"_id": f.comment, "organizationId": f.org, "departmentId": f.dept,
		"parent": f.task, "parentModel": string(basemodels.EntityProjectTask),
	})
	f.store.add("attachments", bson.M{
		"_id": f.taskAttachment, "organizationId": f.org, "departmentId": f.dept,
		"parent": f.task, "parentModel": string(basemodels.EntityProjectTask),
	})
	f.store.add("attachments", bson.M{
		"_id": f.commentAttachment, "organizationId": f.org, "departmentId": f.dept,
		"parent": f.comment, "parentModel": string(basemodels.EntityTaskComment),
	})
	return f
}

func (f *cascadeFixture) assertDeleted(t *testing.T, collection string, id primitive.ObjectID, want bool) {
	t.Helper()
	doc := f.store.get(collection, id)
	if doc == nil {
		t.Fatalf("Không tìm thấy document %s trong %s", id.Hex(), collection)
	}
	deleted, _ := doc["isDeleted"].(bool)
	if deleted != want {
		t.Errorf("Document %s/%s có isDeleted = %v, muốn %v", collection, id.Hex(), deleted, want)
	}
}

func TestCascadeDeleteTraversesSubtree(t *testing.T) {
	f := newCascadeFixture()

	result, err := f.engine.CascadeDelete(context.Background(), basemodels.EntityOrganization, f.org, f.actor)
	if err != nil {
		t.Fatalf("CascadeDelete trả về lỗi: %v", err)
	}

	// Toàn bộ cây: org, dept, user, vendor, material, task, activity, comment, 2 attachment
	if result.AffectedCount != 10 {
		t.Errorf("AffectedCount = %d, muốn 10", result.AffectedCount)
	}
	if len(result.AffectedIDs) != 10 {
		t.Errorf("len(AffectedIDs) = %d, muốn 10", len(result.AffectedIDs))
	}

	f.assertDeleted(t, "organizations", f.org, true)
	f.assertDeleted(t, "departments", f.dept, true)
	f.assertDeleted(t, "users", f.user, true)
	f.assertDeleted(t, "vendors", f.vendor, true)
	f.assertDeleted(t, "materials", f.material, true)
	f.assertDeleted(t, "tasks", f.task, true)
	f.assertDeleted(t, "task_activities", f.activity, true)
	f.assertDeleted(t, "task_comments", f.comment, true)
	f.assertDeleted(t, "attachments", f.taskAttachment, true)
	f.assertDeleted(t, "attachments", f.commentAttachment, true)

	// Audit field được set đúng actor
	doc := f.store.get("departments", f.dept)
	if doc["deletedBy"] != f.actor {
		t.Errorf("deletedBy = %v, muốn %v", doc["deletedBy"], f.actor)
	}
	if _, has := doc["deletedAt"]; !has {
		t.Error("Document deleted phải có deletedAt")
	}
}

func TestCascadeDeleteIdempotent(t *testing.T) {
	f := newCascadeFixture()
	ctx := context.Background()

	if _, err := f.engine.CascadeDelete(ctx, basemodels.EntityDepartment, f.dept, f.actor); err != nil {
		t.Fatalf("CascadeDelete lần đầu trả về lỗi: %v", err)
	}

	result, err := f.engine.CascadeDelete(ctx, basemodels.EntityDepartment, f.dept, f.actor)
	if err != nil {
		t.Fatalf("CascadeDelete lần hai trả về lỗi: %v", err)
	}
	if result.AffectedCount != 0 {
		t.Errorf("Delete lần hai AffectedCount = %d, muốn 0", result.AffectedCount)
	}

	// Org không nằm trong subtree của dept — vẫn active
	f.assertDeleted(t, "organizations", f.org, false)
}

func TestCascadeDeleteRepairsInconsistentSubtree(t *testing.T) {
	f := newCascadeFixture()
	ctx := context.Background()

	// Giả lập inconsistency out-of-band: dept đã deleted nhưng user bên dưới còn active
	deptDoc := f.store.get("departments", f.dept)
	deptDoc["isDeleted"] = true

	result, err := f.engine.CascadeDelete(ctx, basemodels.EntityOrganization, f.org, f.actor)
	if err != nil {
		t.Fatalf("CascadeDelete trả về lỗi: %v", err)
	}

	// Dept đã deleted không được đếm lại, nhưng traversal vẫn xuống tới user
	f.assertDeleted(t, "users", f.user, true)
	for _, id := range result.AffectedIDs {
		if id == f.dept {
			t.Error("Department đã deleted không được xuất hiện trong AffectedIDs")
		}
	}
}

func TestCascadeDeleteRootNotFound(t *testing.T) {
	f := newCascadeFixture()

	_, err := f.engine.CascadeDelete(context.Background(), basemodels.EntityUser, primitive.NewObjectID(), f.actor)
	if !errors.Is(err, common.ErrNotFound) {
		t.Errorf("Delete root không tồn tại trả về %v, muốn ErrNotFound", err)
	}
}

func TestCascadeDeleteTaskVariantMismatch(t *testing.T) {
	f := newCascadeFixture()

	// Task trong fixture là ProjectTask — id không được nhận qua loại RoutineTask
	_, err := f.engine.CascadeDelete(context.Background(), basemodels.EntityRoutineTask, f.task, f.actor)
	if !errors.Is(err, common.ErrNotFound) {
		t.Errorf("Delete với taskType không khớp trả về %v, muốn ErrNotFound", err)
	}
	f.assertDeleted(t, "tasks", f.task, false)
}

func TestCascadeRestoreDoesNotCascade(t *testing.T) {
	f := newCascadeFixture()
	ctx := context.Background()

	if _, err := f.engine.CascadeDelete(ctx, basemodels.EntityProjectTask, f.task, f.actor); err != nil {
		t.Fatalf("CascadeDelete trả về lỗi: %v", err)
	}

	result, err := f.engine.CascadeRestore(ctx, basemodels.EntityProjectTask, f.task, f.actor)
	if err != nil {
		t.Fatalf("CascadeRestore trả về lỗi: %v", err)
	}
	if result.AffectedCount != 1 {
		t.Errorf("Restore AffectedCount = %d, muốn 1 (chỉ root)", result.AffectedCount)
	}

	// Chỉ root được restore, descendant giữ nguyên trạng thái deleted
	f.assertDeleted(t, "tasks", f.task, false)
	f.assertDeleted(t, "task_activities", f.activity, true)
	f.assertDeleted(t, "task_comments", f.comment, true)
	f.assertDeleted(t, "attachments", f.taskAttachment, true)

	// Invariant exactly-one-state: field delete bị unset, field restore được set
	doc := f.store.get("tasks", f.task)
	if _, has := doc["deletedAt"]; has {
		t.Error("Document restored không được còn deletedAt")
	}
	if doc["restoredBy"] != f.actor {
		t.Errorf("restoredBy = %v, muốn %v", doc["restoredBy"], f.actor)
	}
}

func TestCascadeRestoreBlockedByDeletedAncestor(t *testing.T) {
	f := newCascadeFixture()
	ctx := context.Background()

	if _, err := f.engine.CascadeDelete(ctx, basemodels.EntityOrganization, f.org, f.actor); err != nil {
		t.Fatalf("CascadeDelete trả về lỗi: %v", err)
	}

	// Restore task khi dept (ancestor gần nhất) vẫn deleted phải fail, không mutate
	_, err := f.engine.CascadeRestore(ctx, basemodels.EntityProjectTask, f.task, f.actor)
	if err == nil {
		t.Fatal("Restore dưới ancestor deleted phải trả về lỗi")
	}
	var appErr *common.Error
	if !errors.As(err, &appErr) {
		t.Fatalf("Lỗi trả về không phải *common.Error: %v", err)
	}
	if appErr.Code != common.ErrCodeBusinessCascade {
		t.Errorf("Mã lỗi = %s, muốn %s", appErr.Code.Code, common.ErrCodeBusinessCascade.Code)
	}
	details, ok := appErr.Details.(map[string]interface{})
	if !ok {
		t.Fatalf("Details không phải map: %v", appErr.Details)
	}
	if details["ancestorType"] != string(basemodels.EntityDepartment) {
		t.Errorf("ancestorType = %v, muốn %s", details["ancestorType"], basemodels.EntityDepartment)
	}
	if details["ancestorId"] != f.dept.Hex() {
		t.Errorf("ancestorId = %v, muốn %s", details["ancestorId"], f.dept.Hex())
	}
	f.assertDeleted(t, "tasks", f.task, true)
}

func TestCascadeRestoreWalksPolymorphicChain(t *testing.T) {
	f := newCascadeFixture()
	ctx := context.Background()

	if _, err := f.engine.CascadeDelete(ctx, basemodels.EntityProjectTask, f.task, f.actor); err != nil {
		t.Fatalf("CascadeDelete trả về lỗi: %v", err)
	}

	// Attachment → comment (parentModel) → task: comment deleted chặn restore attachment
	_, err := f.engine.CascadeRestore(ctx, basemodels.EntityAttachment, f.commentAttachment, f.actor)
	if err == nil {
		t.Fatal("Restore attachment dưới comment deleted phải trả về lỗi")
	}
	var appErr *common.Error
	if !errors.As(err, &appErr) {
		t.Fatalf("Lỗi trả về không phải *common.Error: %v", err)
	}
	details, _ := appErr.Details.(map[string]interface{})
	if details["ancestorType"] != string(basemodels.EntityTaskComment) {
		t.Errorf("ancestorType = %v, muốn %s", details["ancestorType"], basemodels.EntityTaskComment)
	}

	// Restore comment trước rồi attachment sau — theo đúng thứ tự từ trên xuống
	if _, err := f.engine.CascadeRestore(ctx, basemodels.EntityProjectTask, f.task, f.actor); err != nil {
		t.Fatalf("Restore task trả về lỗi: %v", err)
	}
	if _, err := f.engine.CascadeRestore(ctx, basemodels.EntityTaskComment, f.comment, f.actor); err != nil {
		t.Fatalf("Restore comment trả về lỗi: %v", err)
	}
	result, err := f.engine.CascadeRestore(ctx, basemodels.EntityAttachment, f.commentAttachment, f.actor)
	if err != nil {
		t.Fatalf("Restore attachment trả về lỗi: %v", err)
	}
	if result.AffectedCount != 1 {
		t.Errorf("Restore attachment AffectedCount = %d, muốn 1", result.AffectedCount)
	}
	f.assertDeleted(t, "attachments", f.commentAttachment, false)
}

func TestCascadeRestoreActiveRootIsNoop(t *testing.T) {
	f := newCascadeFixture()

	result, err := f.engine.CascadeRestore(context.Background(), basemodels.EntityDepartment, f.dept, f.actor)
	if err != nil {
		t.Fatalf("Restore root active trả về lỗi: %v", err)
	}
	if result.AffectedCount != 0 {
		t.Errorf("Restore root active AffectedCount = %d, muốn 0", result.AffectedCount)
	}
	if result.AffectedIDs != nil {
		t.Errorf("Restore root active AffectedIDs = %v, muốn nil", result.AffectedIDs)
	}
}
