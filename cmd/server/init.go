package main

import (
	"context"

	"github.com/sirupsen/logrus"

	"work_tracker/config"
	authmodels "work_tracker/internal/api/auth/models"
	resourcemodels "work_tracker/internal/api/resource/models"
	taskmodels "work_tracker/internal/api/task/models"
	tenantmodels "work_tracker/internal/api/tenant/models"
	"work_tracker/internal/database"
	"work_tracker/internal/global"
)

// Hàm khởi tạo các biến toàn cục
func InitGlobal() {
	initColNames()         // Khởi tạo tên các collection trong database
	initValidator()        // Khởi tạo validator
	initConfig()           // Khởi tạo cấu hình server
	initDatabase_MongoDB() // Khởi tạo kết nối database
}

// Hàm khởi tạo tên các collection trong database
func initColNames() {
	global.MongoDB_ColNames.Organizations = "organizations"
	global.MongoDB_ColNames.Departments = "departments"
	global.MongoDB_ColNames.Users = "users"
	global.MongoDB_ColNames.Vendors = "vendors"
	global.MongoDB_ColNames.Materials = "materials"
	global.MongoDB_ColNames.Tasks = "tasks"
	global.MongoDB_ColNames.TaskActivities = "task_activities"
	global.MongoDB_ColNames.TaskComments = "task_comments"
	global.MongoDB_ColNames.Attachments = "attachments"

	logrus.Info("Initialized collection names")
}

// Hàm khởi tạo validator (dùng global.InitValidator để đăng ký custom validators: no_xss, strong_password, exists)
func initValidator() {
	global.InitValidator()
	logrus.Info("Initialized validator")
}

// Hàm khởi tạo cấu hình server
func initConfig() {
	global.ServerConfig = config.NewConfig()
	if global.ServerConfig == nil {
		logrus.Fatalf("Failed to initialize config: config is nil")
	}
	logrus.Info("Initialized server config")
}

// Hàm khởi tạo kết nối database
func initDatabase_MongoDB() {
	var err error
	global.MongoDB_Session, err = database.GetInstance(global.ServerConfig)
	if err != nil {
		logrus.Fatalf("Failed to get database instance: %v", err)
	}
	logrus.Info("Connected to MongoDB")

	// Transaction yêu cầu collection tồn tại trước, tạo hết trong init
	if err := database.EnsureDatabaseAndCollections(global.MongoDB_Session); err != nil {
		logrus.Fatalf("Failed to ensure database and collections: %v", err)
	}
	logrus.Info("Ensured database and collections")

	// Khởi tạo các index cho các collection theo struct tag `index`
	dbName := global.ServerConfig.MongoDB_DBName
	db := global.MongoDB_Session.Database(dbName)
	indexTargets := []struct {
		collection string
		model      interface{}
	}{
		{global.MongoDB_ColNames.Organizations, tenantmodels.Organization{}},
		{global.MongoDB_ColNames.Departments, tenantmodels.Department{}},
		{global.MongoDB_ColNames.Users, authmodels.User{}},
		{global.MongoDB_ColNames.Vendors, resourcemodels.Vendor{}},
		{global.MongoDB_ColNames.Materials, resourcemodels.Material{}},
		{global.MongoDB_ColNames.Tasks, taskmodels.Task{}},
		{global.MongoDB_ColNames.TaskActivities, taskmodels.TaskActivity{}},
		{global.MongoDB_ColNames.TaskComments, taskmodels.TaskComment{}},
		{global.MongoDB_ColNames.Attachments, taskmodels.Attachment{}},
	}
	for _, target := range indexTargets {
		if err := database.CreateIndexes(context.TODO(), db.Collection(target.collection), target.model); err != nil {
			logrus.Errorf("Failed to create indexes for %s: %v", target.collection, err)
		}
	}
}
