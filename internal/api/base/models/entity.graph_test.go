package models

import (
	"testing"

	"work_tracker/internal/global"
)

func init() {
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

func TestParseEntityType(t *testing.T) {
	for _, known := range AllEntityTypes {
		parsed, ok := ParseEntityType(string(known))
		if !ok || parsed != known {
			t.Errorf("ParseEntityType(%q) = (%s, %v), muốn (%s, true)", known, parsed, ok, known)
		}
	}
	for _, invalid := range []string{"", "Task", "organization", "Project"} {
		if _, ok := ParseEntityType(invalid); ok {
			t.Errorf("ParseEntityType(%q) phải trả về ok=false", invalid)
		}
	}
}

func TestIsTaskVariant(t *testing.T) {
	for _, variant := range TaskVariants {
		if !IsTaskVariant(variant) {
			t.Errorf("IsTaskVariant(%s) = false, muốn true", variant)
		}
	}
	for _, other := range []EntityType{EntityOrganization, EntityTaskActivity, EntityTaskComment, EntityAttachment} {
		if IsTaskVariant(other) {
			t.Errorf("IsTaskVariant(%s) = true, muốn false", other)
		}
	}
}

func TestCollectionOf(t *testing.T) {
	// Ba loại task dùng chung collection tasks
	for _, variant := range TaskVariants {
		if got := CollectionOf(variant); got != "tasks" {
			t.Errorf("CollectionOf(%s) = %q, muốn tasks", variant, got)
		}
	}
	if got := CollectionOf(EntityTaskActivity); got != "task_activities" {
		t.Errorf("CollectionOf(TaskActivity) = %q, muốn task_activities", got)
	}
	for _, entityType := range AllEntityTypes {
		if CollectionOf(entityType) == "" {
			t.Errorf("CollectionOf(%s) trả về chuỗi rỗng", entityType)
		}
	}
}

func TestChildTypesOfEdges(t *testing.T) {
	// Organization chỉ có một con: Department qua organizationId
	orgEdges := ChildTypesOf(EntityOrganization)
	if len(orgEdges) != 1 || orgEdges[0].ChildType != EntityDepartment || orgEdges[0].ForeignKey != "organizationId" {
		t.Fatalf("Cạnh con của Organization = %+v, muốn [Department qua organizationId]", orgEdges)
	}

	// Department có 6 con: user, vendor, material và 3 loại task
	deptEdges := ChildTypesOf(EntityDepartment)
	if len(deptEdges) != 6 {
		t.Fatalf("Department có %d cạnh con, muốn 6", len(deptEdges))
	}
	for _, edge := range deptEdges {
		if edge.ForeignKey != "departmentId" {
			t.Errorf("Cạnh %s dùng FK %q, muốn departmentId", edge.ChildType, edge.ForeignKey)
		}
		if IsTaskVariant(edge.ChildType) {
			if edge.Discriminator["taskType"] != string(edge.ChildType) {
				t.Errorf("Cạnh task %s thiếu discriminator taskType", edge.ChildType)
			}
		} else if edge.Discriminator != nil {
			t.Errorf("Cạnh %s không được có discriminator", edge.ChildType)
		}
	}

	// Mỗi loại task có 3 con qua FK đa hình parent + parentModel theo đúng variant
	for _, variant := range TaskVariants {
		edges := ChildTypesOf(variant)
		if len(edges) != 3 {
			t.Fatalf("%s có %d cạnh con, muốn 3", variant, len(edges))
		}
		for _, edge := range edges {
			if edge.ForeignKey != "parent" {
				t.Errorf("Cạnh %s→%s dùng FK %q, muốn parent", variant, edge.ChildType, edge.ForeignKey)
			}
			if edge.Discriminator["parentModel"] != string(variant) {
				t.Errorf("Cạnh %s→%s có parentModel %v, muốn %s", variant, edge.ChildType, edge.Discriminator["parentModel"], variant)
			}
		}
	}

	// Activity và comment chỉ có attachment là con; các loại còn lại là lá
	for _, parent := range []EntityType{EntityTaskActivity, EntityTaskComment} {
		edges := ChildTypesOf(parent)
		if len(edges) != 1 || edges[0].ChildType != EntityAttachment {
			t.Fatalf("Cạnh con của %s = %+v, muốn [Attachment]", parent, edges)
		}
		if edges[0].Discriminator["parentModel"] != string(parent) {
			t.Errorf("Cạnh %s→Attachment có parentModel %v, muốn %s", parent, edges[0].Discriminator["parentModel"], parent)
		}
	}
	for _, leaf := range []EntityType{EntityUser, EntityVendor, EntityMaterial, EntityAttachment} {
		if edges := ChildTypesOf(leaf); edges != nil {
			t.Errorf("%s là lá nhưng có cạnh con %+v", leaf, edges)
		}
	}
}

func TestParentRefOf(t *testing.T) {
	if _, hasParent := ParentRefOf(EntityOrganization); hasParent {
		t.Error("Organization là gốc, không được có parent ref")
	}

	ref, ok := ParentRefOf(EntityDepartment)
	if !ok || ref.IDField != "organizationId" || ref.FixedType != EntityOrganization {
		t.Errorf("ParentRefOf(Department) = %+v, muốn organizationId → Organization", ref)
	}

	for _, child := range []EntityType{EntityUser, EntityVendor, EntityMaterial, EntityProjectTask, EntityRoutineTask, EntityAssignedTask} {
		ref, ok := ParentRefOf(child)
		if !ok || ref.IDField != "departmentId" || ref.FixedType != EntityDepartment {
			t.Errorf("ParentRefOf(%s) = %+v, muốn departmentId → Department", child, ref)
		}
	}

	// Con của task dùng FK đa hình: loại parent đọc từ parentModel
	for _, child := range []EntityType{EntityTaskActivity, EntityTaskComment, EntityAttachment} {
		ref, ok := ParentRefOf(child)
		if !ok || ref.IDField != "parent" || ref.TypeField != "parentModel" {
			t.Errorf("ParentRefOf(%s) = %+v, muốn parent + parentModel", child, ref)
		}
	}
}

// Bảng cạnh và bảng parent ref phải nghịch đảo của nhau trên các cạnh FK cố định
func TestGraphEdgesConsistentWithParentRefs(t *testing.T) {
	for _, parent := range AllEntityTypes {
		for _, edge := range ChildTypesOf(parent) {
			ref, ok := ParentRefOf(edge.ChildType)
			if !ok {
				t.Errorf("%s là con của %s nhưng không có parent ref", edge.ChildType, parent)
				continue
			}
			if ref.IDField != edge.ForeignKey {
				t.Errorf("Cạnh %s→%s dùng FK %s nhưng parent ref dùng %s", parent, edge.ChildType, edge.ForeignKey, ref.IDField)
			}
			if ref.TypeField == "" && ref.FixedType != parent {
				t.Errorf("Parent ref của %s trỏ về %s, nhưng có cạnh từ %s", edge.ChildType, ref.FixedType, parent)
			}
		}
	}
}
