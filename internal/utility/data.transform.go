package utility

import (
	"fmt"
	"reflect"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TransformTagConfig chứa cấu hình được parse từ tag transform trên DTO field
type TransformTagConfig struct {
	Type     string // Transform type: str_objectid, str_objectid_ptr, str_objectid_slice
	Optional bool   // Không có giá trị thì bỏ qua field
	Required bool   // Bắt buộc phải có giá trị
	MapTo    string // Map sang field khác tên trong Model (ví dụ: map=DepartmentID)
}

// ParseTransformTag parse tag transform thành config.
// Format: "[type][,optional|required][,map=<field_name>]"
// Naming convention: <input_type>_<output_type>
// Ví dụ:
//   - transform:"str_objectid" - Convert string → primitive.ObjectID
//   - transform:"str_objectid_ptr" - Convert string → *primitive.ObjectID
//   - transform:"str_objectid_slice" - Convert []string → []primitive.ObjectID
//   - transform:"str_objectid,map=ParentID" - Convert và gán vào field ParentID
func ParseTransformTag(tag string) (*TransformTagConfig, error) {
	config := &TransformTagConfig{}
	if tag == "" {
		return config, nil
	}

	parts := strings.Split(tag, ",")
	config.Type = strings.TrimSpace(parts[0])

	for i := 1; i < len(parts); i++ {
		part := strings.TrimSpace(parts[i])
		switch {
		case part == "optional":
			config.Optional = true
		case part == "required":
			config.Required = true
		case strings.HasPrefix(part, "map="):
			config.MapTo = strings.TrimPrefix(part, "map=")
		}
	}

	return config, nil
}

// TransformFieldValue transform giá trị từ DTO field sang Model field theo config.
// Dùng trong TransformCreateInputToModel và TransformUpdateInputToModel.
func TransformFieldValue(value interface{}, config *TransformTagConfig, targetFieldType reflect.Type) (interface{}, error) {
	if isEmptyTransformValue(value) {
		if config.Required {
			return nil, fmt.Errorf("field là required nhưng không có giá trị")
		}
		// Optional hoặc không bắt buộc: bỏ qua, giữ zero value trong Model
		return nil, nil
	}

	switch config.Type {
	case "str_objectid":
		return transformToObjectID(value)
	case "str_objectid_ptr":
		return transformToObjectIDPtr(value)
	case "str_objectid_slice":
		return transformToObjectIDSlice(value)
	case "":
		return value, nil
	default:
		return nil, fmt.Errorf("transform type không được hỗ trợ: %s", config.Type)
	}
}

// isEmptyTransformValue kiểm tra giá trị đầu vào có rỗng không (nil, chuỗi rỗng, slice rỗng)
func isEmptyTransformValue(value interface{}) bool {
	if value == nil {
		return true
	}
	switch v := value.(type) {
	case string:
		return v == ""
	case []string:
		return len(v) == 0
	case []interface{}:
		return len(v) == 0
	}
	return false
}

// transformToObjectID convert string → primitive.ObjectID
func transformToObjectID(value interface{}) (primitive.ObjectID, error) {
	strValue, ok := value.(string)
	if !ok {
		return primitive.NilObjectID, fmt.Errorf("giá trị không phải là string: %T", value)
	}

	objID, err := primitive.ObjectIDFromHex(strValue)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("không thể convert string '%s' sang ObjectID: %w", strValue, err)
	}
	return objID, nil
}

// transformToObjectIDPtr convert string → *primitive.ObjectID
func transformToObjectIDPtr(value interface{}) (*primitive.ObjectID, error) {
	objID, err := transformToObjectID(value)
	if err != nil {
		return nil, err
	}
	return &objID, nil
}

// transformToObjectIDSlice convert []string (hoặc []interface{} từ JSON) → []primitive.ObjectID
func transformToObjectIDSlice(value interface{}) ([]primitive.ObjectID, error) {
	var strValues []string
	switch v := value.(type) {
	case []string:
		strValues = v
	case []interface{}:
		for i, item := range v {
			strItem, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("phần tử %d không phải là string: %T", i, item)
			}
			strValues = append(strValues, strItem)
		}
	default:
		return nil, fmt.Errorf("giá trị không phải là mảng string: %T", value)
	}

	ids := make([]primitive.ObjectID, 0, len(strValues))
	for _, s := range strValues {
		objID, err := primitive.ObjectIDFromHex(s)
		if err != nil {
			return nil, fmt.Errorf("không thể convert string '%s' sang ObjectID: %w", s, err)
		}
		ids = append(ids, objID)
	}
	return ids, nil
}
