package authsvc

import (
	"errors"
	"reflect"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	models "work_tracker/internal/api/auth/models"
	basemodels "work_tracker/internal/api/base/models"
	"work_tracker/internal/common"
)

func testActor(role models.Role) models.Actor {
	return models.Actor{
		ID:             primitive.NewObjectID(),
		Role:           role,
		OrganizationID: primitive.NewObjectID(),
		DepartmentID:   primitive.NewObjectID(),
	}
}

func TestCheckPermissionMatrixLookup(t *testing.T) {
	svc := NewAuthorizationService(NewDefaultMatrix())

	cases := []struct {
		name      string
		actor     models.Actor
		resource  ResourceType
		operation Operation
		allowed   bool
		ceiling   Scope
	}{
		{"Admin xóa task trong org", testActor(models.RoleAdmin), ResourceTask, OpDelete, true, ScopeCrossDept},
		{"Manager xóa task trong dept", testActor(models.RoleManager), ResourceTask, OpDelete, true, ScopeOwnDept},
		{"User không được xóa task", testActor(models.RoleUser), ResourceTask, OpDelete, false, ""},
		{"User được xóa comment của mình", testActor(models.RoleUser), ResourceTaskComment, OpDelete, true, ScopeOwn},
		{"User không được tạo vendor", testActor(models.RoleUser), ResourceVendor, OpCreate, false, ""},
		{"Manager không được xóa organization", testActor(models.RoleManager), ResourceOrganization, OpDelete, false, ""},
		{"Admin không được tạo organization", testActor(models.RoleAdmin), ResourceOrganization, OpCreate, false, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			decision := svc.CheckPermission(tc.actor, tc.resource, tc.operation)
			if decision.Allowed != tc.allowed {
				t.Fatalf("Allowed = %v, muốn %v", decision.Allowed, tc.allowed)
			}
			if tc.allowed && decision.Scopes[0] != tc.ceiling {
				t.Errorf("Scope rộng nhất = %s, muốn %s", decision.Scopes[0], tc.ceiling)
			}
		})
	}
}

func TestCheckPermissionPlatformRowOnlyForOrganization(t *testing.T) {
	svc := NewAuthorizationService(NewDefaultMatrix())
	platformAdmin := testActor(models.RoleAdmin)
	platformAdmin.IsPlatformUser = true

	// Dòng platform chỉ áp dụng cho Organization — được tạo/xóa/restore crossOrg
	decision := svc.CheckPermission(platformAdmin, ResourceOrganization, OpCreate)
	if !decision.Allowed {
		t.Fatal("Platform user phải được tạo organization")
	}
	if decision.Scopes[0] != ScopeCrossOrg {
		t.Errorf("Scope = %s, muốn %s", decision.Scopes[0], ScopeCrossOrg)
	}

	// Tài nguyên khác vẫn resolve theo role — Admin crossDept, không crossOrg
	decision = svc.CheckPermission(platformAdmin, ResourceTask, OpDelete)
	if !decision.Allowed {
		t.Fatal("Platform admin phải được xóa task theo role Admin")
	}
	if decision.Scopes[0] != ScopeCrossDept {
		t.Errorf("Scope = %s, muốn %s (cờ platform không nâng scope tài nguyên khác)", decision.Scopes[0], ScopeCrossDept)
	}

	// User thường có cờ platform vẫn không được xóa task
	platformUser := testActor(models.RoleUser)
	platformUser.IsPlatformUser = true
	if svc.CheckPermission(platformUser, ResourceTask, OpDelete).Allowed {
		t.Error("Cờ platform không được cấp quyền ngoài dòng Organization")
	}
}

func TestResolveScopeFilter(t *testing.T) {
	svc := NewAuthorizationService(NewDefaultMatrix())
	actor := testActor(models.RoleUser)

	if got := svc.ResolveScopeFilter(actor, ScopeCrossOrg, ResourceTask); len(got) != 0 {
		t.Errorf("Filter crossOrg = %v, muốn rỗng", got)
	}

	want := bson.M{"organizationId": actor.OrganizationID}
	if got := svc.ResolveScopeFilter(actor, ScopeCrossDept, ResourceTask); !reflect.DeepEqual(got, want) {
		t.Errorf("Filter crossDept = %v, muốn %v", got, want)
	}

	want = bson.M{"organizationId": actor.OrganizationID, "departmentId": actor.DepartmentID}
	if got := svc.ResolveScopeFilter(actor, ScopeOwnDept, ResourceTask); !reflect.DeepEqual(got, want) {
		t.Errorf("Filter ownDept = %v, muốn %v", got, want)
	}

	// Organization không có field tenancy — scope trong-org match theo _id
	want = bson.M{"_id": actor.OrganizationID}
	if got := svc.ResolveScopeFilter(actor, ScopeCrossDept, ResourceOrganization); !reflect.DeepEqual(got, want) {
		t.Errorf("Filter organization = %v, muốn %v", got, want)
	}
}

func TestResolveScopeFilterOwnership(t *testing.T) {
	svc := NewAuthorizationService(NewDefaultMatrix())
	actor := testActor(models.RoleUser)

	cases := []struct {
		resource  ResourceType
		ownership bson.M
	}{
		{ResourceTask, bson.M{"$or": []bson.M{
			{"createdBy": actor.ID}, {"assignees": actor.ID}, {"watchers": actor.ID},
		}}},
		{ResourceTaskActivity, bson.M{"$or": []bson.M{
			{"createdBy": actor.ID}, {"performedBy": actor.ID},
		}}},
		{ResourceTaskComment, bson.M{"$or": []bson.M{
			{"author": actor.ID}, {"mentions": actor.ID},
		}}},
		{ResourceAttachment, bson.M{"uploadedBy": actor.ID}},
		{ResourceUser, bson.M{"_id": actor.ID}},
	}
	for _, tc := range cases {
		t.Run(string(tc.resource), func(t *testing.T) {
			want := bson.M{"$and": []bson.M{
				{"organizationId": actor.OrganizationID, "departmentId": actor.DepartmentID},
				tc.ownership,
			}}
			got := svc.ResolveScopeFilter(actor, ScopeOwn, tc.resource)
			if !reflect.DeepEqual(got, want) {
				t.Errorf("Filter own = %v, muốn %v", got, want)
			}
		})
	}
}

func TestCanAccessResourceOwnership(t *testing.T) {
	svc := NewAuthorizationService(NewDefaultMatrix())
	actor := testActor(models.RoleUser)

	ownTask := bson.M{
		"organizationId": actor.OrganizationID,
		"departmentId":   actor.DepartmentID,
		"createdBy":      actor.ID,
	}
	if !svc.CanAccessResource(actor, ownTask, OpUpdate, ResourceTask) {
		t.Error("User phải được update task mình tạo")
	}

	assignedTask := bson.M{
		"organizationId": actor.OrganizationID,
		"departmentId":   actor.DepartmentID,
		"createdBy":      primitive.NewObjectID(),
		"assignees":      primitive.A{actor.ID},
	}
	if !svc.CanAccessResource(actor, assignedTask, OpRead, ResourceTask) {
		t.Error("User phải được đọc task được gán cho mình")
	}

	otherTask := bson.M{
		"organizationId": actor.OrganizationID,
		"departmentId":   actor.DepartmentID,
		"createdBy":      primitive.NewObjectID(),
	}
	if svc.CanAccessResource(actor, otherTask, OpUpdate, ResourceTask) {
		t.Error("User không được update task không thuộc sở hữu")
	}

	// Cùng department nhưng khác organization: không match scope nào
	crossOrgTask := bson.M{
		"organizationId": primitive.NewObjectID(),
		"departmentId":   actor.DepartmentID,
		"createdBy":      actor.ID,
	}
	if svc.CanAccessResource(actor, crossOrgTask, OpRead, ResourceTask) {
		t.Error("Scope own không được vượt biên organization")
	}

	// Manager match ngay scope ownDept, không cần sở hữu
	manager := testActor(models.RoleManager)
	deptTask := bson.M{
		"organizationId": manager.OrganizationID,
		"departmentId":   manager.DepartmentID,
		"createdBy":      primitive.NewObjectID(),
	}
	if !svc.CanAccessResource(manager, deptTask, OpDelete, ResourceTask) {
		t.Error("Manager phải được xóa task trong department của mình")
	}
}

func TestCheckScopeCeiling(t *testing.T) {
	svc := NewAuthorizationService(NewDefaultMatrix())

	admin := testActor(models.RoleAdmin)
	otherDept := primitive.NewObjectID()
	otherOrg := primitive.NewObjectID()

	// Admin ceiling crossDept: dept khác trong cùng org thì được, org khác thì không
	if err := svc.CheckScopeCeiling(admin, admin.OrganizationID, otherDept, OpCreate, ResourceTask); err != nil {
		t.Errorf("Admin tạo task ở dept khác cùng org bị chặn: %v", err)
	}
	if err := svc.CheckScopeCeiling(admin, otherOrg, otherDept, OpCreate, ResourceTask); !errors.Is(err, common.ErrScopeCeiling) {
		t.Errorf("Admin tạo task ở org khác trả về %v, muốn ErrScopeCeiling", err)
	}

	// Manager ceiling ownDept: không được đặt task sang dept khác
	manager := testActor(models.RoleManager)
	if err := svc.CheckScopeCeiling(manager, manager.OrganizationID, manager.DepartmentID, OpCreate, ResourceTask); err != nil {
		t.Errorf("Manager tạo task trong dept của mình bị chặn: %v", err)
	}
	if err := svc.CheckScopeCeiling(manager, manager.OrganizationID, otherDept, OpCreate, ResourceTask); !errors.Is(err, common.ErrScopeCeiling) {
		t.Errorf("Manager tạo task ở dept khác trả về %v, muốn ErrScopeCeiling", err)
	}

	// Thao tác bị deny hoàn toàn trả về ErrNoPermission, không phải ceiling
	user := testActor(models.RoleUser)
	if err := svc.CheckScopeCeiling(user, user.OrganizationID, user.DepartmentID, OpCreate, ResourceVendor); !errors.Is(err, common.ErrNoPermission) {
		t.Errorf("User tạo vendor trả về %v, muốn ErrNoPermission", err)
	}
}

func TestBroaderOrEqual(t *testing.T) {
	ordered := []Scope{ScopeCrossOrg, ScopeCrossDept, ScopeOwnDept, ScopeOwn}
	for i, broad := range ordered {
		for j, narrow := range ordered {
			got := BroaderOrEqual(broad, narrow)
			want := i <= j
			if got != want {
				t.Errorf("BroaderOrEqual(%s, %s) = %v, muốn %v", broad, narrow, got, want)
			}
		}
	}
}

func TestResourceTypeOf(t *testing.T) {
	for _, variant := range basemodels.TaskVariants {
		if got := ResourceTypeOf(variant); got != ResourceTask {
			t.Errorf("ResourceTypeOf(%s) = %s, muốn %s", variant, got, ResourceTask)
		}
	}
	if got := ResourceTypeOf(basemodels.EntityTaskComment); got != ResourceTaskComment {
		t.Errorf("ResourceTypeOf(TaskComment) = %s, muốn %s", got, ResourceTaskComment)
	}
}
