package repository

import (
	"context"
	"errors"
	"time"

	"github.com/taskhive/taskhive/internal/domain"
)

// Sentinel errors the repositories translate driver failures into. Anything
// else that comes back is a transport or database fault and should be
// treated as transient by callers.
var (
	ErrNotFound       = errors.New("repository: not found")
	ErrDuplicateEmail = errors.New("repository: email already used")
	ErrDuplicatePhone = errors.New("repository: phone already used")
)

// UserRepository exposes persistence for accounts.
type UserRepository interface {
	Create(ctx context.Context, user domain.User) (domain.User, error)
	GetByEmail(ctx context.Context, email string) (domain.User, error)
	GetByID(ctx context.Context, id int64) (domain.User, error)
}

// CategoryRepository exposes persistence for shared categories.
type CategoryRepository interface {
	Create(ctx context.Context, category domain.Category) (domain.Category, error)
	GetByID(ctx context.Context, id int64) (domain.Category, error)
	List(ctx context.Context) ([]domain.Category, error)
	Update(ctx context.Context, category domain.Category) (domain.Category, error)
	Delete(ctx context.Context, id int64) error
}

// TodoRepository exposes persistence for owned todos.
type TodoRepository interface {
	Create(ctx context.Context, todo domain.Todo) (domain.Todo, error)
	GetByID(ctx context.Context, id int64) (domain.Todo, error)
	List(ctx context.Context) ([]domain.Todo, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Todo, error)
	ListByCategory(ctx context.Context, categoryID int64) ([]domain.Todo, error)
	Update(ctx context.Context, todo domain.Todo) (domain.Todo, error)
	Delete(ctx context.Context, id int64) error
}

// TodoCache fronts the public todo listing. Implementations are best-effort;
// a miss and a backend failure look the same to callers.
type TodoCache interface {
	GetList(ctx context.Context) ([]domain.Todo, bool)
	SetList(ctx context.Context, todos []domain.Todo, ttl time.Duration)
	Invalidate(ctx context.Context)
}
