package basesvc

import (
	"context"
	"testing"
	"time"

	basemodels "work_tracker/internal/api/base/models"
	"work_tracker/internal/api/events"
)

func newTestLifecycle(f *cascadeFixture, entityType basemodels.EntityType, runner *fakeTxRunner) *EntityLifecycle {
	return NewEntityLifecycle(entityType, f.engine, NewMutationCoordinator(runner))
}

func TestSoftDeleteEmitsEventAfterCommit(t *testing.T) {
	f := newCascadeFixture()
	runner := &fakeTxRunner{}
	lifecycle := newTestLifecycle(f, basemodels.EntityDepartment, runner)

	received := make(chan events.EntityChangeEvent, 4)
	events.OnEntityChanged(func(_ context.Context, e events.EntityChangeEvent) {
		received <- e
	})

	result, err := lifecycle.SoftDelete(context.Background(), f.dept, f.actor)
	if err != nil {
		t.Fatalf("SoftDelete trả về lỗi: %v", err)
	}
	// Subtree của dept: dept, user, vendor, material, task, activity, comment, 2 attachment
	if result.AffectedCount != 9 {
		t.Errorf("AffectedCount = %d, muốn 9", result.AffectedCount)
	}
	if runner.commits != 1 {
		t.Errorf("commits = %d, muốn 1", runner.commits)
	}

	select {
	case e := <-received:
		if e.Operation != events.OpDelete {
			t.Errorf("Operation = %s, muốn %s", e.Operation, events.OpDelete)
		}
		if e.EntityType != string(basemodels.EntityDepartment) {
			t.Errorf("EntityType = %s, muốn Department", e.EntityType)
		}
		if len(e.AffectedIDs) != 9 {
			t.Errorf("len(AffectedIDs) = %d, muốn 9", len(e.AffectedIDs))
		}
		if e.ActorID != f.actor {
			t.Errorf("ActorID = %s, muốn %s", e.ActorID.Hex(), f.actor.Hex())
		}
	case <-time.After(time.Second):
		t.Fatal("Không nhận được event sau khi delete commit")
	}
}

func TestSoftDeleteFastPathSkipsTransaction(t *testing.T) {
	f := newCascadeFixture()
	runner := &fakeTxRunner{}
	lifecycle := newTestLifecycle(f, basemodels.EntityDepartment, runner)
	ctx := context.Background()

	if _, err := lifecycle.SoftDelete(ctx, f.dept, f.actor); err != nil {
		t.Fatalf("SoftDelete lần đầu trả về lỗi: %v", err)
	}

	// Root đã deleted: trả về ngay, không mở transaction mới
	result, err := lifecycle.SoftDelete(ctx, f.dept, f.actor)
	if err != nil {
		t.Fatalf("SoftDelete lần hai trả về lỗi: %v", err)
	}
	if result.AffectedCount != 0 {
		t.Errorf("Delete lần hai AffectedCount = %d, muốn 0", result.AffectedCount)
	}
	if runner.commits != 1 {
		t.Errorf("commits = %d, muốn 1 (fast-path không mở transaction)", runner.commits)
	}
}

func TestRestoreEmitsEvent(t *testing.T) {
	f := newCascadeFixture()
	runner := &fakeTxRunner{}
	lifecycle := newTestLifecycle(f, basemodels.EntityProjectTask, runner)
	ctx := context.Background()

	if _, err := lifecycle.SoftDelete(ctx, f.task, f.actor); err != nil {
		t.Fatalf("SoftDelete trả về lỗi: %v", err)
	}

	received := make(chan events.EntityChangeEvent, 4)
	events.OnEntityChanged(func(_ context.Context, e events.EntityChangeEvent) {
		if e.Operation == events.OpRestore {
			received <- e
		}
	})

	result, err := lifecycle.Restore(ctx, f.task, f.actor)
	if err != nil {
		t.Fatalf("Restore trả về lỗi: %v", err)
	}
	if result.AffectedCount != 1 {
		t.Errorf("Restore AffectedCount = %d, muốn 1", result.AffectedCount)
	}

	select {
	case e := <-received:
		if e.EntityType != string(basemodels.EntityProjectTask) {
			t.Errorf("EntityType = %s, muốn ProjectTask", e.EntityType)
		}
		if len(e.AffectedIDs) != 1 || e.AffectedIDs[0] != f.task {
			t.Errorf("AffectedIDs = %v, muốn [%s]", e.AffectedIDs, f.task.Hex())
		}
		// Event restore phải mang document để dispatcher tính được audience
		if e.Document == nil {
			t.Fatal("Event restore thiếu Document")
		}
		if got := events.GetObjectIDField(e.Document, "CreatedBy"); got != f.user {
			t.Errorf("CreatedBy từ Document = %s, muốn %s", got.Hex(), f.user.Hex())
		}
	case <-time.After(time.Second):
		t.Fatal("Không nhận được event sau khi restore commit")
	}
}

func TestRestoreActiveRootSkipsTransaction(t *testing.T) {
	f := newCascadeFixture()
	runner := &fakeTxRunner{}
	lifecycle := newTestLifecycle(f, basemodels.EntityDepartment, runner)

	// Root đang active: restore là no-op, không mở transaction mới
	result, err := lifecycle.Restore(context.Background(), f.dept, f.actor)
	if err != nil {
		t.Fatalf("Restore root active trả về lỗi: %v", err)
	}
	if result.AffectedCount != 0 {
		t.Errorf("Restore root active AffectedCount = %d, muốn 0", result.AffectedCount)
	}
	if runner.commits != 0 {
		t.Errorf("commits = %d, muốn 0 (fast-path không mở transaction)", runner.commits)
	}
}
