package basesvc

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readconcern"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"

	"work_tracker/internal/common"
)

// TxRunner chạy một hàm trong ranh giới transaction.
// Tách interface để Mutation Coordinator test được thứ tự commit-before-notify
// trên implementation in-memory.
type TxRunner interface {
	// WithTransaction chạy fn trong transaction; fn nhận session context,
	// mọi thao tác db trong fn phải dùng context đó.
	// Trả về giá trị fn trả về sau khi commit thành công.
	WithTransaction(ctx context.Context, fn func(sessCtx context.Context) (interface{}, error)) (interface{}, error)
}

// MongoTxRunner là TxRunner trên MongoDB session (yêu cầu replica set).
type MongoTxRunner struct {
	client  *mongo.Client
	timeout time.Duration
}

// NewMongoTxRunner tạo runner mới.
// timeout chặn transaction chạy quá lâu (cascade trên subtree lớn).
func NewMongoTxRunner(client *mongo.Client, timeout time.Duration) *MongoTxRunner {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &MongoTxRunner{client: client, timeout: timeout}
}

// WithTransaction mở session và chạy fn trong transaction với snapshot isolation.
// Write conflict giữa hai cascade chồng lấn khiến một bên abort — lỗi được map sang
// TransactionConflictError (retryable) qua ConvertMongoError.
func (r *MongoTxRunner) WithTransaction(ctx context.Context, fn func(sessCtx context.Context) (interface{}, error)) (interface{}, error) {
	txCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	session, err := r.client.StartSession()
	if err != nil {
		return nil, common.ConvertMongoError(err)
	}
	defer session.EndSession(txCtx)

	txnOpts := options.Transaction().
		SetReadConcern(readconcern.Snapshot()).
		SetWriteConcern(writeconcern.Majority())

	result, err := session.WithTransaction(txCtx, func(sessCtx mongo.SessionContext) (interface{}, error) {
		return fn(sessCtx)
	}, txnOpts)
	if err != nil {
		return nil, common.ConvertMongoError(err)
	}

	return result, nil
}

// MutationCoordinator là điểm vào duy nhất cho mutation nhiều document.
// Bất biến commit-before-notify: eventsFn chỉ chạy sau khi transaction commit thành công;
// opFn lỗi → abort, không side effect, không event nào được phát.
type MutationCoordinator struct {
	runner TxRunner
}

// NewMutationCoordinator tạo coordinator trên runner
func NewMutationCoordinator(runner TxRunner) *MutationCoordinator {
	return &MutationCoordinator{runner: runner}
}

// Execute chạy opFn trong transaction rồi gọi eventsFn với kết quả sau khi commit.
// eventsFn nhận kết quả của opFn; nil eventsFn nghĩa là mutation không phát event.
func (c *MutationCoordinator) Execute(
	ctx context.Context,
	opFn func(sessCtx context.Context) (interface{}, error),
	eventsFn func(result interface{}),
) (interface{}, error) {
	result, err := c.runner.WithTransaction(ctx, opFn)
	if err != nil {
		return nil, err
	}

	// Transaction đã commit — giờ mới được phát event
	if eventsFn != nil {
		eventsFn(result)
	}

	return result, nil
}
