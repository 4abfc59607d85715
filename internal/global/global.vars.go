package global

import (
	"work_tracker/config"
	"work_tracker/internal/registry"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoDB_CollectionName chứa tên các collection trong MongoDB
type MongoDB_CollectionName struct {
	Organizations  string // Tên collection cho tổ chức
	Departments    string // Tên collection cho phòng ban
	Users          string // Tên collection cho người dùng
	Vendors        string // Tên collection cho nhà cung cấp
	Materials      string // Tên collection cho vật tư
	Tasks          string // Tên collection cho công việc (3 loại, phân biệt bằng taskType)
	TaskActivities string // Tên collection cho hoạt động trên công việc
	TaskComments   string // Tên collection cho bình luận trên công việc
	Attachments    string // Tên collection cho file đính kèm
}

// Các biến toàn cục
var Validate *validator.Validate                                            // Biến để xác thực dữ liệu
var MongoDB_Session *mongo.Client                                           // Phiên kết nối tới MongoDB
var ServerConfig *config.Configuration                                      // Cấu hình của server
var MongoDB_ColNames MongoDB_CollectionName = *new(MongoDB_CollectionName)  // Tên các collection

// Các Registry
var RegistryCollections = registry.NewRegistry[*mongo.Collection]() // Registry chứa các collections
var RegistryDatabase = registry.NewRegistry[*mongo.Database]()      // Registry chứa các databases
