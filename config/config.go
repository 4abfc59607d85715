package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env"
	"github.com/joho/godotenv"
)

// Configuration chứa thông tin tĩnh cần thiết để chạy ứng dụng.
// Cấu hình được đọc từ file env theo môi trường (GO_ENV) và parse bằng struct tag.
type Configuration struct {
	InitMode              bool   `env:"INITMODE" envDefault:"false"`               // Chế độ khởi tạo dữ liệu hệ thống
	Address               string `env:"ADDRESS" envDefault:":8080"`                // Địa chỉ server
	JwtSecret             string `env:"JWT_SECRET,required"`                       // Bí mật ký JWT
	JwtExpireHours        int    `env:"JWT_EXPIRE_HOURS" envDefault:"72"`          // Thời gian sống của token (giờ)
	MongoDB_ConnectionURI string `env:"MONGODB_CONNECTION_URI,required"`           // URI kết nối MongoDB (replica set, bắt buộc cho transaction)
	MongoDB_DBName        string `env:"MONGODB_DBNAME,required"`                   // Tên database chính
	MongoDB_TxTimeoutSec  int    `env:"MONGODB_TX_TIMEOUT_SEC" envDefault:"15"`    // Timeout cho một transaction (giây)
	CORS_Origins          string `env:"CORS_ORIGINS" envDefault:"*"`               // Các origins được phép (phân cách bởi dấu phẩy, * = tất cả)
	CORS_AllowCredentials bool   `env:"CORS_ALLOW_CREDENTIALS" envDefault:"false"` // Cho phép gửi credentials
	RateLimit_Max         int    `env:"RATE_LIMIT_MAX" envDefault:"100"`           // Số request tối đa trong window (0 = disable rate limit)
	RateLimit_Window      int    `env:"RATE_LIMIT_WINDOW" envDefault:"60"`         // Thời gian window (giây)
	RateLimit_Enabled     bool   `env:"RATE_LIMIT_ENABLED" envDefault:"true"`      // Bật/tắt rate limiting
	// Cấu hình notification (optional - dùng cho dispatcher post-commit)
	SMTP_Host     string `env:"SMTP_HOST"`                                       // SMTP host cho email channel
	SMTP_Port     int    `env:"SMTP_PORT" envDefault:"587"`                      // SMTP port
	SMTP_User     string `env:"SMTP_USER"`                                       // SMTP user
	SMTP_Password string `env:"SMTP_PASSWORD"`                                   // SMTP password
	SMTP_From     string `env:"SMTP_FROM"`                                       // Địa chỉ gửi
	Webhook_URL   string `env:"NOTIFY_WEBHOOK_URL"`                              // Webhook URL nhận event (optional)
	FrontendURL   string `env:"FRONTEND_URL" envDefault:"http://localhost:3000"` // URL frontend (render link trong email)
	// Seed dữ liệu hệ thống (init.data)
	SystemOrgName    string `env:"SYSTEM_ORG_NAME" envDefault:"System"`                      // Tên organization hệ thống
	SystemOrgCode    string `env:"SYSTEM_ORG_CODE" envDefault:"SYSTEM"`                      // Code organization hệ thống
	SystemAdminEmail string `env:"SYSTEM_ADMIN_EMAIL" envDefault:"admin@work-tracker.local"` // Email platform admin mặc định
}

// getEnvPath trả về đường dẫn đến file env dựa trên môi trường
func getEnvPath() string {
	// Mặc định sử dụng môi trường development
	env := os.Getenv("GO_ENV")
	if env == "" {
		env = "development"
	}

	// Tìm thư mục config
	currentDir, err := os.Getwd()
	if err != nil {
		// Sử dụng fmt.Printf vì logger có thể chưa được init ở đây
		fmt.Printf("Không thể lấy được thư mục hiện tại: %v\n", err)
		return ""
	}

	// Tìm thư mục config/env
	for {
		envDir := filepath.Join(currentDir, "config", "env")
		if _, err := os.Stat(envDir); err == nil {
			// Tìm thấy thư mục config/env
			envPath := filepath.Join(envDir, fmt.Sprintf("%s.env", env))
			return envPath
		}

		// Đi lên thư mục cha
		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			return ""
		}
		currentDir = parentDir
	}
}

// NewConfig sẽ đọc dữ liệu cấu hình từ file env được cung cấp
func NewConfig(files ...string) *Configuration {
	envPath := getEnvPath()
	if envPath == "" {
		// Sử dụng fmt.Printf vì logger có thể chưa được init ở đây
		fmt.Printf("Không tìm thấy thư mục config/env\n")
		return nil
	}

	err := godotenv.Load(envPath)
	if err != nil {
		// Sử dụng fmt.Printf vì logger có thể chưa được init ở đây
		fmt.Printf("Không thể load file env tại %s: %v\n", envPath, err)
		return nil
	}

	cfg := Configuration{}
	err = env.Parse(&cfg)
	if err != nil {
		fmt.Printf("Lỗi khi parse config: %+v\n", err)
		return nil
	}

	return &cfg
}
