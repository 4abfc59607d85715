package models

import (
	"work_tracker/internal/global"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// EntityType định danh loại entity trong đồ thị parent/child.
// Ba loại task dùng chung collection tasks, phân biệt bằng field taskType;
// giá trị discriminator trùng với EntityType để edge không phải suy diễn kiểu.
type EntityType string

const (
	EntityOrganization EntityType = "Organization"
	EntityDepartment   EntityType = "Department"
	EntityUser         EntityType = "User"
	EntityVendor       EntityType = "Vendor"
	EntityMaterial     EntityType = "Material"
	EntityProjectTask  EntityType = "ProjectTask"
	EntityRoutineTask  EntityType = "RoutineTask"
	EntityAssignedTask EntityType = "AssignedTask"
	EntityTaskActivity EntityType = "TaskActivity"
	EntityTaskComment  EntityType = "TaskComment"
	EntityAttachment   EntityType = "Attachment"
)

// TaskVariants liệt kê ba loại task theo thứ tự cố định (traversal xác định).
var TaskVariants = []EntityType{EntityProjectTask, EntityRoutineTask, EntityAssignedTask}

// AllEntityTypes liệt kê toàn bộ entity types theo thứ tự topo từ gốc.
var AllEntityTypes = []EntityType{
	EntityOrganization,
	EntityDepartment,
	EntityUser,
	EntityVendor,
	EntityMaterial,
	EntityProjectTask,
	EntityRoutineTask,
	EntityAssignedTask,
	EntityTaskActivity,
	EntityTaskComment,
	EntityAttachment,
}

// IsTaskVariant cho biết entity type có phải một loại task không.
func IsTaskVariant(t EntityType) bool {
	return t == EntityProjectTask || t == EntityRoutineTask || t == EntityAssignedTask
}

// ParseEntityType validate chuỗi entity type từ bên ngoài (route param, parentModel).
func ParseEntityType(s string) (EntityType, bool) {
	t := EntityType(s)
	for _, known := range AllEntityTypes {
		if t == known {
			return t, true
		}
	}
	return "", false
}

// CollectionOf trả về tên collection chứa entity type.
// Đọc từ global.MongoDB_ColNames nên phải gọi sau khi init đã gán tên collection.
func CollectionOf(t EntityType) string {
	switch t {
	case EntityOrganization:
		return global.MongoDB_ColNames.Organizations
	case EntityDepartment:
		return global.MongoDB_ColNames.Departments
	case EntityUser:
		return global.MongoDB_ColNames.Users
	case EntityVendor:
		return global.MongoDB_ColNames.Vendors
	case EntityMaterial:
		return global.MongoDB_ColNames.Materials
	case EntityProjectTask, EntityRoutineTask, EntityAssignedTask:
		return global.MongoDB_ColNames.Tasks
	case EntityTaskActivity:
		return global.MongoDB_ColNames.TaskActivities
	case EntityTaskComment:
		return global.MongoDB_ColNames.TaskComments
	case EntityAttachment:
		return global.MongoDB_ColNames.Attachments
	default:
		return ""
	}
}

// ChildEdge mô tả một cạnh parent → child trong đồ thị entity.
// Discriminator thu hẹp child theo giá trị field (taskType, parentModel);
// nil nghĩa là mọi document match ForeignKey đều là child.
type ChildEdge struct {
	ChildType     EntityType // Loại entity con
	Collection    string     // Collection chứa entity con
	ForeignKey    string     // Field trên document con trỏ về parent id
	Discriminator bson.M     // Điều kiện lọc thêm (nil nếu không cần)
}

// ChildTypesOf trả về danh sách cạnh con của một entity type, theo thứ tự cố định.
// Bảng cạnh là exhaustive trên hai chuỗi:
// Organization → Department → {User, Vendor, Material, task variants} → {TaskActivity, TaskComment, Attachment}
// và TaskActivity|TaskComment → Attachment.
func ChildTypesOf(t EntityType) []ChildEdge {
	switch t {
	case EntityOrganization:
		return []ChildEdge{
			{ChildType: EntityDepartment, Collection: CollectionOf(EntityDepartment), ForeignKey: "organizationId"},
		}
	case EntityDepartment:
		edges := []ChildEdge{
			{ChildType: EntityUser, Collection: CollectionOf(EntityUser), ForeignKey: "departmentId"},
			{ChildType: EntityVendor, Collection: CollectionOf(EntityVendor), ForeignKey: "departmentId"},
			{ChildType: EntityMaterial, Collection: CollectionOf(EntityMaterial), ForeignKey: "departmentId"},
		}
		for _, variant := range TaskVariants {
			edges = append(edges, ChildEdge{
				ChildType:     variant,
				Collection:    CollectionOf(variant),
				ForeignKey:    "departmentId",
				Discriminator: bson.M{"taskType": string(variant)},
			})
		}
		return edges
	case EntityProjectTask, EntityRoutineTask, EntityAssignedTask:
		// Con của task được nối qua FK đa hình parent + parentModel
		return []ChildEdge{
			{ChildType: EntityTaskActivity, Collection: CollectionOf(EntityTaskActivity), ForeignKey: "parent", Discriminator: bson.M{"parentModel": string(t)}},
			{ChildType: EntityTaskComment, Collection: CollectionOf(EntityTaskComment), ForeignKey: "parent", Discriminator: bson.M{"parentModel": string(t)}},
			{ChildType: EntityAttachment, Collection: CollectionOf(EntityAttachment), ForeignKey: "parent", Discriminator: bson.M{"parentModel": string(t)}},
		}
	case EntityTaskActivity:
		return []ChildEdge{
			{ChildType: EntityAttachment, Collection: CollectionOf(EntityAttachment), ForeignKey: "parent", Discriminator: bson.M{"parentModel": string(EntityTaskActivity)}},
		}
	case EntityTaskComment:
		return []ChildEdge{
			{ChildType: EntityAttachment, Collection: CollectionOf(EntityAttachment), ForeignKey: "parent", Discriminator: bson.M{"parentModel": string(EntityTaskComment)}},
		}
	default:
		// User, Vendor, Material, Attachment là lá
		return nil
	}
}

// ParentRef mô tả cách tìm parent của một entity type khi đi ngược lên gốc.
// Nếu TypeField khác rỗng, loại parent đọc từ document (FK đa hình);
// ngược lại loại parent cố định theo FixedType.
type ParentRef struct {
	IDField   string     // Field trên document chứa id của parent
	TypeField string     // Field chứa loại parent (FK đa hình), rỗng nếu cố định
	FixedType EntityType // Loại parent cố định (khi TypeField rỗng)
}

// ParentRefOf trả về tham chiếu parent của entity type.
// Organization là gốc — trả về ok=false.
func ParentRefOf(t EntityType) (ParentRef, bool) {
	switch t {
	case EntityOrganization:
		return ParentRef{}, false
	case EntityDepartment:
		return ParentRef{IDField: "organizationId", FixedType: EntityOrganization}, true
	case EntityUser, EntityVendor, EntityMaterial:
		return ParentRef{IDField: "departmentId", FixedType: EntityDepartment}, true
	case EntityProjectTask, EntityRoutineTask, EntityAssignedTask:
		return ParentRef{IDField: "departmentId", FixedType: EntityDepartment}, true
	case EntityTaskActivity, EntityTaskComment, EntityAttachment:
		return ParentRef{IDField: "parent", TypeField: "parentModel"}, true
	default:
		return ParentRef{}, false
	}
}

// CascadeResult là kết quả của một lần cascade delete hoặc restore.
type CascadeResult struct {
	AffectedCount int64                `json:"affectedCount"` // Số document chuyển trạng thái
	AffectedIDs   []primitive.ObjectID `json:"affectedIds"`   // Id của các document đó (gồm cả root)
}
