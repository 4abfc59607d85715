package utility

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// String2ObjectID chuyển đổi chuỗi thành ObjectID
// @params - chuỗi cần chuyển đổi
// @returns - ObjectID (NilObjectID nếu chuỗi không hợp lệ)
func String2ObjectID(id string) primitive.ObjectID {
	objectId, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID
	}
	return objectId
}

// CurrentTimeInMilli trả về thời gian hiện tại theo Unix millisecond.
// Toàn bộ timestamp trong hệ thống lưu theo đơn vị này.
func CurrentTimeInMilli() int64 {
	return time.Now().UnixMilli()
}
