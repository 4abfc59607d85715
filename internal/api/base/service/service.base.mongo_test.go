package basesvc

import (
	"testing"
)

func TestStripEmptyStrings(t *testing.T) {
	dataMap := map[string]interface{}{
		"name":   "Phòng Kỹ Thuật",
		"email":  "",
		"phone":  "",
		"count":  0,
		"active": false,
		"note":   " ",
	}

	stripEmptyStrings(dataMap)

	if _, ok := dataMap["email"]; ok {
		t.Error("Field email rỗng phải bị loại khỏi map")
	}
	if _, ok := dataMap["phone"]; ok {
		t.Error("Field phone rỗng phải bị loại khỏi map")
	}
	// Giá trị không phải string hoặc string không rỗng phải giữ nguyên
	if dataMap["name"] != "Phòng Kỹ Thuật" {
		t.Errorf("name = %v, muốn giữ nguyên", dataMap["name"])
	}
	if dataMap["count"] != 0 {
		t.Errorf("count = %v, muốn giữ nguyên", dataMap["count"])
	}
	if dataMap["active"] != false {
		t.Errorf("active = %v, muốn giữ nguyên", dataMap["active"])
	}
	if dataMap["note"] != " " {
		t.Errorf("note = %v, muốn giữ nguyên (chỉ loại chuỗi rỗng đúng nghĩa)", dataMap["note"])
	}
	if len(dataMap) != 4 {
		t.Errorf("len(dataMap) = %d, muốn 4", len(dataMap))
	}
}
