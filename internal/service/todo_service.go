package service

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/taskhive/taskhive/internal/domain"
	"github.com/taskhive/taskhive/internal/repository"
)

// TodoInput is the validated create/update payload for a todo.
type TodoInput struct {
	Name       string
	Amount     int64
	CategoryID int64
}

// TodoService manages todos and enforces ownership on mutation. Reads are
// deliberately unguarded.
type TodoService struct {
	todos      repository.TodoRepository
	categories repository.CategoryRepository
	cache      repository.TodoCache
	cacheTTL   time.Duration
	node       *snowflake.Node
	logger     *zap.Logger
	tracer     trace.Tracer
}

// NewTodoService wires dependencies. cache may be nil, in which case every
// listing hits the database.
func NewTodoService(todos repository.TodoRepository, categories repository.CategoryRepository, cache repository.TodoCache, cacheTTL time.Duration, node *snowflake.Node, logger *zap.Logger) *TodoService {
	return &TodoService{
		todos:      todos,
		categories: categories,
		cache:      cache,
		cacheTTL:   cacheTTL,
		node:       node,
		logger:     logger,
		tracer:     otel.Tracer("github.com/taskhive/taskhive/internal/service"),
	}
}

// Create inserts a todo owned by userID.
func (s *TodoService) Create(ctx context.Context, userID int64, input TodoInput) (domain.Todo, error) {
	ctx, span := s.startSpan(ctx, "TodoService.Create")
	defer span.End()

	if _, err := s.categories.GetByID(ctx, input.CategoryID); err != nil {
		span.RecordError(err)
		if errors.Is(err, repository.ErrNotFound) {
			return domain.Todo{}, domain.ErrNotFound("Category not found")
		}
		return domain.Todo{}, domain.ErrTransient("Database unavailable")
	}

	todo := domain.Todo{
		ID:         s.node.Generate().Int64(),
		Name:       input.Name,
		Amount:     input.Amount,
		CategoryID: input.CategoryID,
		UserID:     userID,
	}

	created, err := s.todos.Create(ctx, todo)
	if err != nil {
		span.RecordError(err)
		return domain.Todo{}, domain.ErrTransient("Database unavailable")
	}

	s.invalidate(ctx)
	return created, nil
}

// List returns every todo, serving from the cache when it is warm.
func (s *TodoService) List(ctx context.Context) ([]domain.Todo, error) {
	ctx, span := s.startSpan(ctx, "TodoService.List")
	defer span.End()

	if s.cache != nil {
		if todos, ok := s.cache.GetList(ctx); ok {
			return todos, nil
		}
	}

	todos, err := s.todos.List(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, domain.ErrTransient("Database unavailable")
	}

	if s.cache != nil {
		s.cache.SetList(ctx, todos, s.cacheTTL)
	}
	return todos, nil
}

// ListByUser returns the todos owned by userID.
func (s *TodoService) ListByUser(ctx context.Context, userID int64) ([]domain.Todo, error) {
	ctx, span := s.startSpan(ctx, "TodoService.ListByUser")
	defer span.End()

	todos, err := s.todos.ListByUser(ctx, userID)
	if err != nil {
		span.RecordError(err)
		return nil, domain.ErrTransient("Database unavailable")
	}
	return todos, nil
}

// ListByCategory returns the todos in a category.
func (s *TodoService) ListByCategory(ctx context.Context, categoryID int64) ([]domain.Todo, error) {
	ctx, span := s.startSpan(ctx, "TodoService.ListByCategory")
	defer span.End()

	todos, err := s.todos.ListByCategory(ctx, categoryID)
	if err != nil {
		span.RecordError(err)
		return nil, domain.ErrTransient("Database unavailable")
	}
	return todos, nil
}

// Update modifies a todo after the ownership check. The existence check runs
// first so an absent id is NotFound for every caller; only then is ownership
// compared.
func (s *TodoService) Update(ctx context.Context, callerID, todoID int64, input TodoInput) (domain.Todo, error) {
	ctx, span := s.startSpan(ctx, "TodoService.Update")
	defer span.End()

	existing, err := s.loadOwned(ctx, callerID, todoID)
	if err != nil {
		span.RecordError(err)
		return domain.Todo{}, err
	}

	existing.Name = input.Name
	existing.Amount = input.Amount
	if input.CategoryID != 0 {
		existing.CategoryID = input.CategoryID
	}

	updated, err := s.todos.Update(ctx, existing)
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, repository.ErrNotFound) {
			return domain.Todo{}, domain.ErrNotFound("Todo not found")
		}
		return domain.Todo{}, domain.ErrTransient("Database unavailable")
	}

	s.invalidate(ctx)
	s.audit("todo.updated", "todo_id", todoID, "user_id", callerID)
	return updated, nil
}

// Delete removes a todo after the ownership check.
func (s *TodoService) Delete(ctx context.Context, callerID, todoID int64) error {
	ctx, span := s.startSpan(ctx, "TodoService.Delete")
	defer span.End()

	if _, err := s.loadOwned(ctx, callerID, todoID); err != nil {
		span.RecordError(err)
		return err
	}

	if err := s.todos.Delete(ctx, todoID); err != nil {
		span.RecordError(err)
		if errors.Is(err, repository.ErrNotFound) {
			return domain.ErrNotFound("Todo not found")
		}
		return domain.ErrTransient("Database unavailable")
	}

	s.invalidate(ctx)
	s.audit("todo.deleted", "todo_id", todoID, "user_id", callerID)
	return nil
}

// loadOwned fetches the todo and applies the ownership guard: NotFound when
// the id does not exist, Forbidden when it exists but belongs to another
// user. The order is load-bearing.
func (s *TodoService) loadOwned(ctx context.Context, callerID, todoID int64) (domain.Todo, error) {
	todo, err := s.todos.GetByID(ctx, todoID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.Todo{}, domain.ErrNotFound("Todo not found")
		}
		return domain.Todo{}, domain.ErrTransient("Database unavailable")
	}
	if todo.UserID != callerID {
		return domain.Todo{}, domain.ErrForbidden("Access denied, user not allowed")
	}
	return todo, nil
}

func (s *TodoService) invalidate(ctx context.Context) {
	if s.cache != nil {
		s.cache.Invalidate(ctx)
	}
}

func (s *TodoService) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	if s == nil || s.tracer == nil {
		return ctx, trace.SpanFromContext(ctx)
	}
	return s.tracer.Start(ctx, name)
}

func (s *TodoService) audit(event string, attrs ...any) {
	logger := s.logger
	if logger == nil {
		logger = zap.L()
	}
	fields := make([]zap.Field, 0, len(attrs)/2+1)
	fields = append(fields, zap.String("event", event))
	for i := 0; i+1 < len(attrs); i += 2 {
		key, ok := attrs[i].(string)
		if !ok {
			continue
		}
		fields = append(fields, zap.Any(key, attrs[i+1]))
	}
	logger.Info("audit", fields...)
}
