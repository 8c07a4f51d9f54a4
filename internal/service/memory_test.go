package service_test

import (
	"context"
	"sync"
	"time"

	"github.com/taskhive/taskhive/internal/domain"
	"github.com/taskhive/taskhive/internal/repository"
)

// In-memory repository fakes, mutex-guarded so router-level tests can hit
// them concurrently.

type memoryUserRepo struct {
	mu    sync.Mutex
	users map[int64]domain.User
	// when set, every call fails with this error to simulate an outage
	failWith error
}

func newMemoryUserRepo() *memoryUserRepo {
	return &memoryUserRepo{users: make(map[int64]domain.User)}
}

func (m *memoryUserRepo) Create(ctx context.Context, user domain.User) (domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return domain.User{}, m.failWith
	}
	for _, existing := range m.users {
		if existing.Email == user.Email {
			return domain.User{}, repository.ErrDuplicateEmail
		}
		if existing.Phone == user.Phone {
			return domain.User{}, repository.ErrDuplicatePhone
		}
	}
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now
	m.users[user.ID] = user
	return user, nil
}

func (m *memoryUserRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return domain.User{}, m.failWith
	}
	for _, user := range m.users {
		if user.Email == email {
			return user, nil
		}
	}
	return domain.User{}, repository.ErrNotFound
}

func (m *memoryUserRepo) GetByID(ctx context.Context, id int64) (domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return domain.User{}, m.failWith
	}
	user, ok := m.users[id]
	if !ok {
		return domain.User{}, repository.ErrNotFound
	}
	return user, nil
}

func (m *memoryUserRepo) delete(id int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.users, id)
}

type memoryCategoryRepo struct {
	mu         sync.Mutex
	categories map[int64]domain.Category
}

func newMemoryCategoryRepo() *memoryCategoryRepo {
	return &memoryCategoryRepo{categories: make(map[int64]domain.Category)}
}

func (m *memoryCategoryRepo) Create(ctx context.Context, category domain.Category) (domain.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now().UTC()
	category.CreatedAt = now
	category.UpdatedAt = now
	m.categories[category.ID] = category
	return category, nil
}

func (m *memoryCategoryRepo) GetByID(ctx context.Context, id int64) (domain.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	category, ok := m.categories[id]
	if !ok {
		return domain.Category{}, repository.ErrNotFound
	}
	return category, nil
}

func (m *memoryCategoryRepo) List(ctx context.Context) ([]domain.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var categories []domain.Category
	for _, category := range m.categories {
		categories = append(categories, category)
	}
	return categories, nil
}

func (m *memoryCategoryRepo) Update(ctx context.Context, category domain.Category) (domain.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.categories[category.ID]
	if !ok {
		return domain.Category{}, repository.ErrNotFound
	}
	existing.Name = category.Name
	existing.UpdatedAt = time.Now().UTC()
	m.categories[category.ID] = existing
	return existing, nil
}

func (m *memoryCategoryRepo) Delete(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.categories[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.categories, id)
	return nil
}

type memoryTodoRepo struct {
	mu    sync.Mutex
	todos map[int64]domain.Todo
}

func newMemoryTodoRepo() *memoryTodoRepo {
	return &memoryTodoRepo{todos: make(map[int64]domain.Todo)}
}

func (m *memoryTodoRepo) Create(ctx context.Context, todo domain.Todo) (domain.Todo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now().UTC()
	todo.CreatedAt = now
	todo.UpdatedAt = now
	m.todos[todo.ID] = todo
	return todo, nil
}

func (m *memoryTodoRepo) GetByID(ctx context.Context, id int64) (domain.Todo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	todo, ok := m.todos[id]
	if !ok {
		return domain.Todo{}, repository.ErrNotFound
	}
	return todo, nil
}

func (m *memoryTodoRepo) List(ctx context.Context) ([]domain.Todo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var todos []domain.Todo
	for _, todo := range m.todos {
		todos = append(todos, todo)
	}
	return todos, nil
}

func (m *memoryTodoRepo) ListByUser(ctx context.Context, userID int64) ([]domain.Todo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var todos []domain.Todo
	for _, todo := range m.todos {
		if todo.UserID == userID {
			todos = append(todos, todo)
		}
	}
	return todos, nil
}

func (m *memoryTodoRepo) ListByCategory(ctx context.Context, categoryID int64) ([]domain.Todo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var todos []domain.Todo
	for _, todo := range m.todos {
		if todo.CategoryID == categoryID {
			todos = append(todos, todo)
		}
	}
	return todos, nil
}

func (m *memoryTodoRepo) Update(ctx context.Context, todo domain.Todo) (domain.Todo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.todos[todo.ID]
	if !ok {
		return domain.Todo{}, repository.ErrNotFound
	}
	existing.Name = todo.Name
	existing.Amount = todo.Amount
	existing.CategoryID = todo.CategoryID
	existing.UpdatedAt = time.Now().UTC()
	m.todos[todo.ID] = existing
	return existing, nil
}

func (m *memoryTodoRepo) Delete(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.todos[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.todos, id)
	return nil
}

type memoryTodoCache struct {
	mu          sync.Mutex
	todos       []domain.Todo
	warm        bool
	invalidated int
}

func (m *memoryTodoCache) GetList(ctx context.Context) ([]domain.Todo, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.warm {
		return nil, false
	}
	return m.todos, true
}

func (m *memoryTodoCache) SetList(ctx context.Context, todos []domain.Todo, ttl time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.todos = todos
	m.warm = true
}

func (m *memoryTodoCache) Invalidate(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.todos = nil
	m.warm = false
	m.invalidated++
}
