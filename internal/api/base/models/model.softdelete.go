package models

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SoftDeleteFields là trait soft-delete được embed (inline) vào mọi entity model.
// Invariant: một document chỉ ở đúng một trạng thái —
// active  => isDeleted=false, không có deletedAt/deletedBy
// deleted => isDeleted=true,  có deletedAt/deletedBy, không có restoredAt/restoredBy
// Các field audit dùng pointer để $unset xóa hẳn field thay vì lưu zero value.
type SoftDeleteFields struct {
	IsDeleted  bool                `json:"isDeleted" bson:"isDeleted" index:"single:1"` // Trạng thái soft-delete
	DeletedAt  *int64              `json:"deletedAt,omitempty" bson:"deletedAt,omitempty"`   // Thời điểm xóa (unix milli)
	DeletedBy  *primitive.ObjectID `json:"deletedBy,omitempty" bson:"deletedBy,omitempty"`   // User thực hiện xóa
	RestoredAt *int64              `json:"restoredAt,omitempty" bson:"restoredAt,omitempty"` // Thời điểm restore gần nhất
	RestoredBy *primitive.ObjectID `json:"restoredBy,omitempty" bson:"restoredBy,omitempty"` // User thực hiện restore
}

// MarkDeleted build update document chuyển entity sang trạng thái deleted.
// Set đủ bộ field xóa và unset bộ field restore để giữ invariant exactly-one-state.
func MarkDeleted(actorID primitive.ObjectID, now int64) bson.M {
	return bson.M{
		"$set": bson.M{
			"isDeleted": true,
			"deletedAt": now,
			"deletedBy": actorID,
			"updatedAt": now,
		},
		"$unset": bson.M{
			"restoredAt": "",
			"restoredBy": "",
		},
	}
}

// MarkRestored build update document chuyển entity về trạng thái active.
func MarkRestored(actorID primitive.ObjectID, now int64) bson.M {
	return bson.M{
		"$set": bson.M{
			"isDeleted":  false,
			"restoredAt": now,
			"restoredBy": actorID,
			"updatedAt":  now,
		},
		"$unset": bson.M{
			"deletedAt": "",
			"deletedBy": "",
		},
	}
}

// ActiveFilter trả về filter chỉ match document đang active.
// Dùng $ne true thay vì false để match cả document cũ chưa có field isDeleted.
func ActiveFilter() bson.M {
	return bson.M{"isDeleted": bson.M{"$ne": true}}
}

// DeletedFilter trả về filter chỉ match document đang deleted.
func DeletedFilter() bson.M {
	return bson.M{"isDeleted": true}
}
