package channels

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"
)

// EmailConfig cấu hình SMTP cho email channel
type EmailConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

// Configured cho biết email channel có đủ cấu hình để gửi không
func (c EmailConfig) Configured() bool {
	return c.Host != "" && c.From != ""
}

// SendEmail gửi một thông báo qua email đến danh sách người nhận
func SendEmail(ctx context.Context, cfg EmailConfig, recipients []string, message *Message) error {
	if len(recipients) == 0 {
		return nil
	}

	htmlContent := fmt.Sprintf("<p>%s</p>", message.Content)
	if message.Link != "" {
		htmlContent += fmt.Sprintf(`<div style='margin-top:20px;'><a href="%s" style="display:inline-block;padding:10px 20px;text-decoration:none;border-radius:5px;background-color:#007bff;color:#fff;">Xem chi tiết</a></div>`,
			message.Link)
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", cfg.From)
	msg.SetHeader("To", recipients...)
	msg.SetHeader("Subject", message.Subject)
	msg.SetBody("text/html", htmlContent)

	dialer := gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password)
	return dialer.DialAndSend(msg)
}
