package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	commonerrors "github.com/semenovda/todo-vault/internal/common/errors"
	"github.com/semenovda/todo-vault/internal/common/logger"
	"github.com/semenovda/todo-vault/internal/todo/domain"
	userdomain "github.com/semenovda/todo-vault/internal/user/domain"
)

// memTodoRepo mirrors the store contract: ids unique store-wide, every
// lookup filtered by owner.
type memTodoRepo struct {
	mu    sync.Mutex
	todos map[domain.ID]domain.Todo
	err   error
}

func newMemTodoRepo() *memTodoRepo {
	return &memTodoRepo{todos: make(map[domain.ID]domain.Todo)}
}

func (m *memTodoRepo) Create(ctx context.Context, todo domain.Todo) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if _, exists := m.todos[todo.ID]; exists {
		return commonerrors.ErrTodoIDExists
	}
	m.todos[todo.ID] = todo
	return nil
}

func (m *memTodoRepo) ListByOwner(ctx context.Context, ownerID userdomain.ID) ([]domain.Todo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	out := make([]domain.Todo, 0)
	for _, t := range m.todos {
		if t.OwnerID == ownerID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m *memTodoRepo) SetCompleted(ctx context.Context, id domain.ID, ownerID userdomain.ID, completed bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	t, exists := m.todos[id]
	if !exists || t.OwnerID != ownerID {
		return commonerrors.ErrTodoNotFound
	}
	t.Completed = completed
	m.todos[id] = t
	return nil
}

func (m *memTodoRepo) Delete(ctx context.Context, id domain.ID, ownerID userdomain.ID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	t, exists := m.todos[id]
	if !exists || t.OwnerID != ownerID {
		return commonerrors.ErrTodoNotFound
	}
	delete(m.todos, id)
	return nil
}

func setupTodoService(t *testing.T) (*TodoService, *memTodoRepo) {
	t.Helper()

	log, err := logger.New("", "test", "ERROR")
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}

	repo := newMemTodoRepo()
	return NewTodoService(repo, log), repo
}

func TestTodoService_CreateAndListScopedToOwner(t *testing.T) {
	svc, _ := setupTodoService(t)
	ctx := context.Background()

	createdAt := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	err := svc.Create(ctx, "user-a", CreateInput{
		ID:        "t1",
		Text:      "buy milk",
		Completed: false,
		CreatedAt: createdAt,
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	listA, err := svc.List(ctx, "user-a")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(listA) != 1 {
		t.Fatalf("expected 1 todo for owner, got %d", len(listA))
	}
	got := listA[0]
	if got.ID != "t1" || got.Text != "buy milk" || got.Completed || !got.CreatedAt.Equal(createdAt) {
		t.Errorf("unexpected todo: %+v", got)
	}

	listB, err := svc.List(ctx, "user-b")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(listB) != 0 {
		t.Errorf("expected empty list for another user, got %d items", len(listB))
	}
}

func TestTodoService_DuplicateIDIsGlobal(t *testing.T) {
	svc, _ := setupTodoService(t)
	ctx := context.Background()
	createdAt := time.Now()

	if err := svc.Create(ctx, "user-a", CreateInput{ID: "t1", Text: "first", CreatedAt: createdAt}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	// Same id from a different owner still collides: ids are store-wide.
	err := svc.Create(ctx, "user-b", CreateInput{ID: "t1", Text: "second", CreatedAt: createdAt})
	if !errors.Is(err, commonerrors.ErrTodoIDExists) {
		t.Errorf("expected ErrTodoIDExists, got %v", err)
	}
}

func TestTodoService_SetCompletedByNonOwner(t *testing.T) {
	svc, repo := setupTodoService(t)
	ctx := context.Background()

	if err := svc.Create(ctx, "user-b", CreateInput{ID: "t1", Text: "theirs", CreatedAt: time.Now()}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	err := svc.SetCompleted(ctx, "t1", "user-a", true)
	if !errors.Is(err, commonerrors.ErrTodoNotFound) {
		t.Errorf("expected ErrTodoNotFound for foreign todo, got %v", err)
	}

	if repo.todos["t1"].Completed {
		t.Error("foreign update must leave the todo unchanged")
	}
}

func TestTodoService_SetCompletedByOwner(t *testing.T) {
	svc, repo := setupTodoService(t)
	ctx := context.Background()

	if err := svc.Create(ctx, "user-a", CreateInput{ID: "t1", Text: "mine", CreatedAt: time.Now()}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if err := svc.SetCompleted(ctx, "t1", "user-a", true); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !repo.todos["t1"].Completed {
		t.Error("expected todo to be completed")
	}
}

func TestTodoService_DeleteByNonOwner(t *testing.T) {
	svc, repo := setupTodoService(t)
	ctx := context.Background()

	if err := svc.Create(ctx, "user-b", CreateInput{ID: "t1", Text: "theirs", CreatedAt: time.Now()}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	err := svc.Delete(ctx, "t1", "user-a")
	if !errors.Is(err, commonerrors.ErrTodoNotFound) {
		t.Errorf("expected ErrTodoNotFound for foreign todo, got %v", err)
	}

	if _, exists := repo.todos["t1"]; !exists {
		t.Error("foreign delete must leave the todo in place")
	}
}

func TestTodoService_DeleteIsIdempotentFromCallerView(t *testing.T) {
	svc, _ := setupTodoService(t)
	ctx := context.Background()

	if err := svc.Create(ctx, "user-a", CreateInput{ID: "t1", Text: "mine", CreatedAt: time.Now()}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if err := svc.Delete(ctx, "t1", "user-a"); err != nil {
		t.Fatalf("expected first delete to succeed, got %v", err)
	}

	err := svc.Delete(ctx, "t1", "user-a")
	if !errors.Is(err, commonerrors.ErrTodoNotFound) {
		t.Errorf("expected ErrTodoNotFound on second delete, got %v", err)
	}

	list, err := svc.List(ctx, "user-a")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(list) != 0 {
		t.Errorf("expected no todos after delete, got %d", len(list))
	}
}

func TestTodoService_ListOrderIsDeterministic(t *testing.T) {
	svc, _ := setupTodoService(t)
	ctx := context.Background()

	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	for i, id := range []domain.ID{"t3", "t1", "t2"} {
		err := svc.Create(ctx, "user-a", CreateInput{
			ID:        id,
			Text:      "item",
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	}

	list, err := svc.List(ctx, "user-a")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	want := []domain.ID{"t3", "t1", "t2"}
	for i, w := range want {
		if list[i].ID != w {
			t.Errorf("position %d: expected %s, got %s", i, w, list[i].ID)
		}
	}
}

func TestTodoService_StorageErrorClassification(t *testing.T) {
	svc, repo := setupTodoService(t)
	ctx := context.Background()

	repo.err = errors.New("connection refused")

	_, err := svc.List(ctx, "user-a")
	domainErr, ok := commonerrors.AsDomainError(err)
	if !ok || domainErr.Code() != "STORAGE_UNAVAILABLE" {
		t.Errorf("expected STORAGE_UNAVAILABLE, got %v", err)
	}
}
