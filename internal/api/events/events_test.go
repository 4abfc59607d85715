package events

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type eventDoc struct {
	CreatedBy primitive.ObjectID
	VendorID  *primitive.ObjectID
	Watchers  []primitive.ObjectID
	Title     string
}

func TestGetObjectIDField(t *testing.T) {
	id := primitive.NewObjectID()
	vendor := primitive.NewObjectID()
	doc := eventDoc{CreatedBy: id, VendorID: &vendor}

	if got := GetObjectIDField(doc, "CreatedBy"); got != id {
		t.Errorf("CreatedBy = %s, muốn %s", got.Hex(), id.Hex())
	}
	// Đọc được cả qua pointer document và field pointer
	if got := GetObjectIDField(&doc, "VendorID"); got != vendor {
		t.Errorf("VendorID = %s, muốn %s", got.Hex(), vendor.Hex())
	}

	if got := GetObjectIDField(doc, "Missing"); got != primitive.NilObjectID {
		t.Errorf("Field không tồn tại trả về %s, muốn NilObjectID", got.Hex())
	}
	if got := GetObjectIDField(doc, "Title"); got != primitive.NilObjectID {
		t.Errorf("Field sai kiểu trả về %s, muốn NilObjectID", got.Hex())
	}
	if got := GetObjectIDField(nil, "CreatedBy"); got != primitive.NilObjectID {
		t.Error("Document nil phải trả về NilObjectID")
	}
	if got := GetObjectIDField((*eventDoc)(nil), "CreatedBy"); got != primitive.NilObjectID {
		t.Error("Pointer nil phải trả về NilObjectID")
	}
}

func TestGetObjectIDSliceField(t *testing.T) {
	watchers := []primitive.ObjectID{primitive.NewObjectID(), primitive.NewObjectID()}
	doc := eventDoc{Watchers: watchers}

	got := GetObjectIDSliceField(doc, "Watchers")
	if len(got) != 2 || got[0] != watchers[0] || got[1] != watchers[1] {
		t.Errorf("Watchers = %v, muốn %v", got, watchers)
	}

	if got := GetObjectIDSliceField(doc, "CreatedBy"); got != nil {
		t.Errorf("Field không phải slice trả về %v, muốn nil", got)
	}
	if got := GetObjectIDSliceField(nil, "Watchers"); got != nil {
		t.Error("Document nil phải trả về nil")
	}
}

// Delete/restore phát raw bson.M thay vì struct model — audience phải đọc được từ đó.
func TestGetObjectIDFieldFromRawDocument(t *testing.T) {
	id := primitive.NewObjectID()
	vendor := primitive.NewObjectID()
	doc := bson.M{
		"createdBy": id,
		"vendorId":  &vendor,
		"title":     "báo giá",
	}

	if got := GetObjectIDField(doc, "CreatedBy"); got != id {
		t.Errorf("CreatedBy = %s, muốn %s", got.Hex(), id.Hex())
	}
	if got := GetObjectIDField(doc, "VendorID"); got != vendor {
		t.Errorf("VendorID = %s, muốn %s", got.Hex(), vendor.Hex())
	}
	if got := GetObjectIDField(doc, "Missing"); got != primitive.NilObjectID {
		t.Errorf("Key không tồn tại trả về %s, muốn NilObjectID", got.Hex())
	}
	if got := GetObjectIDField(doc, "Title"); got != primitive.NilObjectID {
		t.Errorf("Key sai kiểu trả về %s, muốn NilObjectID", got.Hex())
	}
}

func TestGetObjectIDSliceFieldFromRawDocument(t *testing.T) {
	watchers := []primitive.ObjectID{primitive.NewObjectID(), primitive.NewObjectID()}

	// Driver decode mảng thành primitive.A
	raw := bson.M{"watchers": primitive.A{watchers[0], watchers[1]}}
	got := GetObjectIDSliceField(raw, "Watchers")
	if len(got) != 2 || got[0] != watchers[0] || got[1] != watchers[1] {
		t.Errorf("Watchers từ primitive.A = %v, muốn %v", got, watchers)
	}

	typed := bson.M{"watchers": watchers}
	got = GetObjectIDSliceField(typed, "Watchers")
	if len(got) != 2 || got[0] != watchers[0] {
		t.Errorf("Watchers từ []ObjectID = %v, muốn %v", got, watchers)
	}

	if got := GetObjectIDSliceField(bson.M{}, "Watchers"); got != nil {
		t.Errorf("Key không tồn tại trả về %v, muốn nil", got)
	}
}
