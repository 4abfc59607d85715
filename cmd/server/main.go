package main

import (
	"fmt"

	"github.com/gofiber/fiber/v3"

	"work_tracker/internal/global"
	"work_tracker/internal/logger"
	"work_tracker/internal/notification"
)

// initLogger khởi tạo và cấu hình logger cho toàn bộ ứng dụng
func initLogger() {
	// Logger tự đọc environment variables để cấu hình
	if err := logger.Init(nil); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}

	logger.GetAppLogger().Info("Logger system initialized successfully")
}

// main_thread khởi tạo và chạy Fiber server
func main_thread() {
	app := InitFiberApp()

	address := global.ServerConfig.Address
	log := logger.GetAppLogger()
	log.WithFields(map[string]interface{}{
		"address": address,
	}).Info("Starting Fiber server")

	if err := app.Listen(address, fiber.ListenConfig{}); err != nil {
		log.Fatalf("Error in Fiber Listen: %v", err)
	}
}

// Hàm main
func main() {
	// Khởi tạo logger
	initLogger()

	// Khởi tạo các biến toàn cục
	InitGlobal()

	// Khởi tạo registry
	InitRegistry()

	// Khởi tạo dữ liệu mặc định
	InitDefaultData()

	// Khởi động notification dispatcher (đăng ký vào event bus, giao sau commit)
	dispatcher := notification.NewDispatcher()
	dispatcher.Start()
	defer dispatcher.Stop()

	// Chạy Fiber server trên main thread
	main_thread()
}
