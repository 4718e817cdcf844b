package service

import (
	"context"
	"time"

	commonerrors "github.com/semenovda/todo-vault/internal/common/errors"
	"github.com/semenovda/todo-vault/internal/common/logger"
	"github.com/semenovda/todo-vault/internal/todo/domain"
	"github.com/semenovda/todo-vault/internal/todo/repository"
	userdomain "github.com/semenovda/todo-vault/internal/user/domain"
)

type TodoService struct {
	repo repository.Repository
	log  *logger.Logger
}

func NewTodoService(repo repository.Repository, log *logger.Logger) *TodoService {
	return &TodoService{repo: repo, log: log}
}

type CreateInput struct {
	ID        domain.ID
	Text      string
	Completed bool
	CreatedAt time.Time
}

func (s *TodoService) List(ctx context.Context, ownerID userdomain.ID) ([]domain.Todo, error) {
	todos, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"owner_id": string(ownerID),
			"action":   "list_todos_failed",
		}).Errorf("list todos failed: %v", err)
		return nil, s.classify(err)
	}
	return todos, nil
}

func (s *TodoService) Create(ctx context.Context, ownerID userdomain.ID, input CreateInput) error {
	todo := domain.Todo{
		ID:        input.ID,
		OwnerID:   ownerID,
		Text:      input.Text,
		Completed: input.Completed,
		CreatedAt: input.CreatedAt,
	}

	if err := s.repo.Create(ctx, todo); err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"owner_id": string(ownerID),
			"todo_id":  string(input.ID),
			"action":   "create_todo_failed",
		}).Warnf("create todo failed: %v", err)
		return s.classify(err)
	}

	s.log.WithFields(ctx, logger.Fields{
		"owner_id": string(ownerID),
		"todo_id":  string(input.ID),
		"action":   "create_todo_success",
	}).Info("todo created")
	return nil
}

func (s *TodoService) SetCompleted(ctx context.Context, id domain.ID, ownerID userdomain.ID, completed bool) error {
	if err := s.repo.SetCompleted(ctx, id, ownerID, completed); err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"owner_id": string(ownerID),
			"todo_id":  string(id),
			"action":   "update_todo_failed",
		}).Warnf("update todo failed: %v", err)
		return s.classify(err)
	}
	return nil
}

func (s *TodoService) Delete(ctx context.Context, id domain.ID, ownerID userdomain.ID) error {
	if err := s.repo.Delete(ctx, id, ownerID); err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"owner_id": string(ownerID),
			"todo_id":  string(id),
			"action":   "delete_todo_failed",
		}).Warnf("delete todo failed: %v", err)
		return s.classify(err)
	}
	return nil
}

// classify keeps domain errors intact and folds anything else (connectivity,
// corruption) into a single storage failure kind.
func (s *TodoService) classify(err error) error {
	if _, ok := commonerrors.AsDomainError(err); ok {
		return err
	}
	return commonerrors.ErrStorageUnavailable.WithCause(err)
}
