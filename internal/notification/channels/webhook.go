package channels

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// SendWebhook POST thông báo dạng JSON đến webhook URL đã cấu hình.
// Timeout do caller kiểm soát qua context.
func SendWebhook(ctx context.Context, url string, message *Message) error {
	body := map[string]interface{}{
		"event":    message.EventName,
		"severity": message.Severity,
		"subject":  message.Subject,
		"content":  message.Content,
		"link":     message.Link,
		"data":     message.Payload,
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("lỗi marshal webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("webhook trả về status %d", resp.StatusCode)
	}
	return nil
}
