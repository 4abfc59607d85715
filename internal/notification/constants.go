package notification

// Domain constants - Phân loại theo chức năng/lĩnh vực
const (
	DomainSystem   = "system"   // Hệ thống, database, API errors
	DomainTenant   = "tenant"   // Organization, department
	DomainUser     = "user"     // User management, authentication
	DomainResource = "resource" // Vendor, material
	DomainTask     = "task"     // Task, activity, comment, attachment
)

// Severity constants - Mức độ nghiêm trọng
const (
	SeverityCritical = "critical" // Cực kỳ nghiêm trọng - xử lý ngay
	SeverityHigh     = "high"     // Cao - xử lý sớm
	SeverityMedium   = "medium"   // Trung bình - xử lý trong giờ làm việc
	SeverityLow      = "low"      // Thấp - xử lý khi có thời gian
	SeverityInfo     = "info"     // Thông tin - chỉ log/ghi nhận
)

// Cấu hình mặc định của dispatcher
const (
	DefaultQueueSize     = 1024 // Kích thước buffer của queue
	DefaultWorkers       = 4    // Số worker giao thông báo song song
	DeliveryTimeoutSec   = 10   // Timeout giao một thông báo (giây)
	EmailCacheCleanupMin = 5    // Chu kỳ dọn cache email của audience (phút)
)
