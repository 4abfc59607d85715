package taskdto

// StatusChangeInput một lần chuyển trạng thái của task cha
type StatusChangeInput struct {
	From string `json:"from" validate:"required"`
	To   string `json:"to" validate:"required"`
}

// MaterialUsageInput một dòng vật tư sử dụng trong hoạt động
type MaterialUsageInput struct {
	MaterialID string  `json:"materialId" validate:"required,len=24,exists=materials"`
	Quantity   float64 `json:"quantity" validate:"gt=0"`
}

// TaskActivityCreateInput đầu vào tạo hoạt động trên task.
// Tenancy kế thừa từ task cha, không nhận từ client.
type TaskActivityCreateInput struct {
	Parent        string               `json:"parent" validate:"required,len=24"`
	ParentModel   string               `json:"parentModel" validate:"required,oneof=ProjectTask RoutineTask AssignedTask"`
	Description   string               `json:"description" validate:"required,no_xss"`
	StatusChange  *StatusChangeInput   `json:"statusChange" validate:"omitempty"`
	MaterialsUsed []MaterialUsageInput `json:"materialsUsed" validate:"omitempty,dive"`
}

// TaskActivityUpdateInput đầu vào cập nhật hoạt động
type TaskActivityUpdateInput struct {
	Description   string               `json:"description" validate:"omitempty,no_xss"`
	MaterialsUsed []MaterialUsageInput `json:"materialsUsed" validate:"omitempty,dive"`
}

// TaskCommentCreateInput đầu vào tạo bình luận trên task
type TaskCommentCreateInput struct {
	Parent      string   `json:"parent" validate:"required,len=24"`
	ParentModel string   `json:"parentModel" validate:"required,oneof=ProjectTask RoutineTask AssignedTask"`
	Content     string   `json:"content" validate:"required,no_xss"`
	Mentions    []string `json:"mentions" validate:"omitempty,dive,len=24"`
}

// TaskCommentUpdateInput đầu vào cập nhật bình luận
type TaskCommentUpdateInput struct {
	Content string `json:"content" validate:"omitempty,no_xss"`
}

// AttachmentCreateInput đầu vào tạo file đính kèm.
// Parent có thể là một loại task, TaskActivity hoặc TaskComment.
type AttachmentCreateInput struct {
	Parent      string `json:"parent" validate:"required,len=24"`
	ParentModel string `json:"parentModel" validate:"required,oneof=ProjectTask RoutineTask AssignedTask TaskActivity TaskComment"`
	FileName    string `json:"fileName" validate:"required,no_xss"`
	FileType    string `json:"fileType"`
	Size        int64  `json:"size" validate:"gte=0"`
	URL         string `json:"url" validate:"required,url"`
}

// AttachmentUpdateInput đầu vào cập nhật file đính kèm (đổi tên hiển thị)
type AttachmentUpdateInput struct {
	FileName string `json:"fileName" validate:"omitempty,no_xss"`
}
