package basesvc

import (
	"context"
	"errors"
	"testing"
)

// fakeTxRunner chạy fn trực tiếp, ghi lại thứ tự commit để kiểm tra commit-before-notify.
type fakeTxRunner struct {
	commits int
	failTx  error
}

func (r *fakeTxRunner) WithTransaction(ctx context.Context, fn func(sessCtx context.Context) (interface{}, error)) (interface{}, error) {
	if r.failTx != nil {
		return nil, r.failTx
	}
	result, err := fn(ctx)
	if err != nil {
		// Abort — không có gì được commit
		return nil, err
	}
	r.commits++
	return result, nil
}

func TestMutationCoordinatorCommitBeforeNotify(t *testing.T) {
	runner := &fakeTxRunner{}
	coordinator := NewMutationCoordinator(runner)

	var order []string
	result, err := coordinator.Execute(context.Background(),
		func(sessCtx context.Context) (interface{}, error) {
			order = append(order, "op")
			return "done", nil
		},
		func(result interface{}) {
			if runner.commits != 1 {
				t.Error("eventsFn chạy trước khi transaction commit")
			}
			order = append(order, "events")
			if result != "done" {
				t.Errorf("eventsFn nhận kết quả %v, muốn done", result)
			}
		})
	if err != nil {
		t.Fatalf("Execute trả về lỗi: %v", err)
	}
	if result != "done" {
		t.Errorf("Execute trả về %v, muốn done", result)
	}
	if len(order) != 2 || order[0] != "op" || order[1] != "events" {
		t.Errorf("Thứ tự thực thi = %v, muốn [op events]", order)
	}
}

func TestMutationCoordinatorAbortSuppressesEvents(t *testing.T) {
	runner := &fakeTxRunner{}
	coordinator := NewMutationCoordinator(runner)

	opErr := errors.New("op thất bại")
	eventsCalled := false
	_, err := coordinator.Execute(context.Background(),
		func(sessCtx context.Context) (interface{}, error) {
			return nil, opErr
		},
		func(result interface{}) {
			eventsCalled = true
		})
	if !errors.Is(err, opErr) {
		t.Errorf("Execute trả về %v, muốn lỗi của opFn", err)
	}
	if eventsCalled {
		t.Error("opFn lỗi nhưng eventsFn vẫn được gọi")
	}
	if runner.commits != 0 {
		t.Errorf("Transaction bị abort nhưng commits = %d", runner.commits)
	}
}

func TestMutationCoordinatorTransactionErrorSuppressesEvents(t *testing.T) {
	txErr := errors.New("không mở được transaction")
	runner := &fakeTxRunner{failTx: txErr}
	coordinator := NewMutationCoordinator(runner)

	eventsCalled := false
	_, err := coordinator.Execute(context.Background(),
		func(sessCtx context.Context) (interface{}, error) {
			t.Error("opFn không được chạy khi transaction không mở được")
			return nil, nil
		},
		func(result interface{}) {
			eventsCalled = true
		})
	if !errors.Is(err, txErr) {
		t.Errorf("Execute trả về %v, muốn lỗi transaction", err)
	}
	if eventsCalled {
		t.Error("Transaction lỗi nhưng eventsFn vẫn được gọi")
	}
}

func TestMutationCoordinatorNilEventsFn(t *testing.T) {
	coordinator := NewMutationCoordinator(&fakeTxRunner{})

	result, err := coordinator.Execute(context.Background(),
		func(sessCtx context.Context) (interface{}, error) {
			return 42, nil
		}, nil)
	if err != nil {
		t.Fatalf("Execute với eventsFn nil trả về lỗi: %v", err)
	}
	if result != 42 {
		t.Errorf("Execute trả về %v, muốn 42", result)
	}
}
