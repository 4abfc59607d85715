// Package notification giao thông báo cho audience của entity khi dữ liệu
// thay đổi. Dispatcher đăng ký vào event bus (event chỉ phát sau khi
// transaction commit) nên thông báo không bao giờ mô tả trạng thái bị rollback.
package notification

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"work_tracker/internal/api/events"
	"work_tracker/internal/global"
	"work_tracker/internal/notification/channels"
	"work_tracker/internal/utility"
)

// Notification là một thông báo đã build, chờ giao qua các channel
type Notification struct {
	Message  channels.Message
	Audience []primitive.ObjectID
}

// Dispatcher nhận event thay đổi entity, build thông báo và giao qua các
// channel đã cấu hình. Queue có buffer — enqueue không bao giờ block request
// path; queue đầy thì drop và ghi log.
type Dispatcher struct {
	queue      chan Notification
	workers    int
	wg         sync.WaitGroup
	cancel     context.CancelFunc
	once       sync.Once
	emailCache *utility.Cache
}

// NewDispatcher tạo dispatcher với cấu hình mặc định
func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		queue:   make(chan Notification, DefaultQueueSize),
		workers: DefaultWorkers,
		// Cùng một audience nhận nhiều thông báo liên tiếp — cache email lookup
		emailCache: utility.NewCache(EmailCacheCleanupMin * time.Minute),
	}
}

// Start chạy các worker và đăng ký dispatcher vào event bus. Gọi một lần lúc init.
func (d *Dispatcher) Start() {
	d.once.Do(func() {
		ctx, cancel := context.WithCancel(context.Background())
		d.cancel = cancel

		for i := 0; i < d.workers; i++ {
			d.wg.Add(1)
			go d.worker(ctx)
		}

		events.OnEntityChanged(d.handleEntityChange)
		logrus.WithField("workers", d.workers).Info("Notification dispatcher đã khởi động")
	})
}

// Stop dừng các worker. Thông báo còn trong queue bị bỏ qua.
func (d *Dispatcher) Stop() {
	if d.cancel != nil {
		d.cancel()
	}
	d.wg.Wait()
	d.emailCache.Stop()
}

// domainOf map entity type sang domain của thông báo
func domainOf(entityType string) string {
	switch entityType {
	case "Organization", "Department":
		return DomainTenant
	case "User":
		return DomainUser
	case "Vendor", "Material":
		return DomainResource
	case "ProjectTask", "RoutineTask", "AssignedTask", "TaskActivity", "TaskComment", "Attachment":
		return DomainTask
	default:
		return DomainSystem
	}
}

// severityOf map loại thao tác sang mức độ nghiêm trọng
func severityOf(operation string) string {
	switch operation {
	case events.OpDelete, events.OpRestore:
		return SeverityMedium
	default:
		return SeverityInfo
	}
}

// describeOperation render nội dung thông báo theo loại thao tác
func describeOperation(e events.EntityChangeEvent) string {
	switch e.Operation {
	case events.OpDelete:
		return fmt.Sprintf("%s đã bị xóa, %d document bị ảnh hưởng (gồm cả descendant)", e.EntityType, len(e.AffectedIDs))
	case events.OpRestore:
		return fmt.Sprintf("%s đã được khôi phục", e.EntityType)
	case events.OpInsert:
		return fmt.Sprintf("%s mới đã được tạo", e.EntityType)
	default:
		return fmt.Sprintf("%s đã được cập nhật", e.EntityType)
	}
}

// collectAudience gom audience từ document: người tạo, người thực hiện,
// watchers, assignees, mentions. Actor gây ra thay đổi bị loại khỏi audience.
func collectAudience(e events.EntityChangeEvent) []primitive.ObjectID {
	seen := make(map[primitive.ObjectID]bool)
	audience := make([]primitive.ObjectID, 0, 8)

	add := func(id primitive.ObjectID) {
		if id.IsZero() || id == e.ActorID || seen[id] {
			return
		}
		seen[id] = true
		audience = append(audience, id)
	}

	for _, field := range []string{"CreatedBy", "PerformedBy", "UploadedBy", "Author"} {
		add(events.GetObjectIDField(e.Document, field))
	}
	for _, field := range []string{"Watchers", "Assignees", "Mentions"} {
		for _, id := range events.GetObjectIDSliceField(e.Document, field) {
			add(id)
		}
	}

	return audience
}

// handleEntityChange build thông báo từ event và enqueue (không block)
func (d *Dispatcher) handleEntityChange(_ context.Context, e events.EntityChangeEvent) {
	// Update quá ồn để notify từng thay đổi — chỉ insert/delete/restore
	if e.Operation == events.OpUpdate {
		return
	}

	audience := collectAudience(e)
	webhookURL := global.ServerConfig.Webhook_URL
	if len(audience) == 0 && webhookURL == "" {
		return
	}

	eventName := fmt.Sprintf("%s.%s", e.EntityType, e.Operation)
	notification := Notification{
		Message: channels.Message{
			EventName: eventName,
			Severity:  severityOf(e.Operation),
			Subject:   fmt.Sprintf("[Work Tracker] %s", eventName),
			Content:   describeOperation(e),
			Link:      global.ServerConfig.FrontendURL,
			Payload: map[string]interface{}{
				"domain":      domainOf(e.EntityType),
				"entityType":  e.EntityType,
				"operation":   e.Operation,
				"actorId":     e.ActorID.Hex(),
				"affectedIds": hexIDs(e.AffectedIDs),
			},
		},
		Audience: audience,
	}

	select {
	case d.queue <- notification:
	default:
		logrus.WithField("event", eventName).Warn("Notification queue đầy, drop thông báo")
	}
}

// worker lấy thông báo từ queue và giao lần lượt
func (d *Dispatcher) worker(ctx context.Context) {
	defer d.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case notification := <-d.queue:
			d.deliver(ctx, notification)
		}
	}
}

// deliver giao một thông báo qua các channel đã cấu hình
func (d *Dispatcher) deliver(ctx context.Context, notification Notification) {
	deliverCtx, cancel := context.WithTimeout(ctx, DeliveryTimeoutSec*time.Second)
	defer cancel()

	emailCfg := channels.EmailConfig{
		Host:     global.ServerConfig.SMTP_Host,
		Port:     global.ServerConfig.SMTP_Port,
		User:     global.ServerConfig.SMTP_User,
		Password: global.ServerConfig.SMTP_Password,
		From:     global.ServerConfig.SMTP_From,
	}
	if emailCfg.Configured() && len(notification.Audience) > 0 {
		recipients, err := d.resolveEmails(deliverCtx, notification.Audience)
		if err != nil {
			logrus.WithError(err).Warn("Không resolve được email của audience")
		} else if err := channels.SendEmail(deliverCtx, emailCfg, recipients, &notification.Message); err != nil {
			logrus.WithError(err).WithField("event", notification.Message.EventName).Warn("Gửi email thất bại")
		}
	}

	if url := global.ServerConfig.Webhook_URL; url != "" {
		if err := channels.SendWebhook(deliverCtx, url, &notification.Message); err != nil {
			logrus.WithError(err).WithField("event", notification.Message.EventName).Warn("Gửi webhook thất bại")
		}
	}
}

// resolveEmails load email của các user đang active trong audience.
// Kết quả được cache theo user id; cache tự xóa định kỳ nên email đổi
// hoặc user bị soft-delete chỉ trễ tối đa một chu kỳ dọn dẹp.
func (d *Dispatcher) resolveEmails(ctx context.Context, ids []primitive.ObjectID) ([]string, error) {
	var emails []string
	var missing []primitive.ObjectID
	for _, id := range ids {
		if cached, ok := d.emailCache.Get(id.Hex()); ok {
			if email, _ := cached.(string); email != "" {
				emails = append(emails, email)
			}
			continue
		}
		missing = append(missing, id)
	}
	if len(missing) == 0 {
		return emails, nil
	}

	userCollection, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.Users)
	if !exist {
		return nil, fmt.Errorf("không tìm thấy collection users")
	}

	cursor, err := userCollection.Find(ctx, bson.M{
		"_id":       bson.M{"$in": missing},
		"isDeleted": false,
	})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var row struct {
			ID    primitive.ObjectID `bson:"_id"`
			Email string             `bson:"email"`
		}
		if err := cursor.Decode(&row); err != nil {
			return nil, err
		}
		d.emailCache.Set(row.ID.Hex(), row.Email)
		if row.Email != "" {
			emails = append(emails, row.Email)
		}
	}
	return emails, cursor.Err()
}

// hexIDs chuyển danh sách ObjectID sang hex string cho payload JSON
func hexIDs(ids []primitive.ObjectID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.Hex())
	}
	return out
}
