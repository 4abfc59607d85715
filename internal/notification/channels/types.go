package channels

// Message là nội dung thông báo đã render, sẵn sàng giao cho một channel
type Message struct {
	EventName string                 // Tên event, dạng "<EntityType>.<operation>"
	Severity  string                 // Mức độ nghiêm trọng
	Subject   string                 // Tiêu đề (email subject)
	Content   string                 // Nội dung hiển thị
	Link      string                 // Link mở resource trên frontend
	Payload   map[string]interface{} // Dữ liệu thô cho webhook consumer
}
