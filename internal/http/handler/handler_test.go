package handler_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/taskhive/taskhive/internal/config"
	"github.com/taskhive/taskhive/internal/domain"
	httptransport "github.com/taskhive/taskhive/internal/http"
	"github.com/taskhive/taskhive/internal/http/handler"
	httpmiddleware "github.com/taskhive/taskhive/internal/http/middleware"
	"github.com/taskhive/taskhive/internal/password"
	"github.com/taskhive/taskhive/internal/repository"
	"github.com/taskhive/taskhive/internal/service"
)

type testEnv struct {
	router *gin.Engine
	users  *fakeUserRepo
	cats   *fakeCategoryRepo
	todos  *fakeTodoRepo
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.Config{
		AccessTokenKey:     "access-secret",
		RefreshTokenKey:    "refresh-secret",
		AccessTokenTTL:     15 * time.Minute,
		RefreshTokenTTL:    15 * 24 * time.Hour,
		ServiceName:        "taskhive-test",
		CORSAllowedOrigins: []string{"*"},
		CORSAllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		CORSAllowedHeaders: []string{"Authorization", "Content-Type"},
	}

	node, err := snowflake.NewNode(3)
	require.NoError(t, err)

	users := &fakeUserRepo{users: map[int64]domain.User{}}
	cats := &fakeCategoryRepo{categories: map[int64]domain.Category{}}
	todos := &fakeTodoRepo{todos: map[int64]domain.Todo{}}

	logger := zap.NewNop()
	auth := service.NewAuthService(users, password.NewHasher(), cfg, node, logger)
	todoSvc := service.NewTodoService(todos, cats, nil, time.Second, node, logger)
	catSvc := service.NewCategoryService(cats, node, logger)

	router := httptransport.NewRouter(
		cfg,
		logger,
		handler.NewAuthHandler(auth, cfg),
		handler.NewCategoryHandler(catSvc),
		handler.NewTodoHandler(todoSvc),
		&httpmiddleware.Session{Auth: auth},
		nil,
	)

	return &testEnv{router: router, users: users, cats: cats, todos: todos}
}

func (e *testEnv) do(t *testing.T, method, path, body string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// login registers when needed and returns the auth cookies for the user.
func (e *testEnv) login(t *testing.T, email, phone, pass string) []*http.Cookie {
	t.Helper()
	body := `{"firstName":"Test","lastName":"User","email":"` + email + `","phone":"` + phone + `","password":"` + pass + `"}`
	w := e.do(t, http.MethodPost, "/api/register", body, nil)
	if w.Code != http.StatusOK && w.Code != http.StatusConflict {
		t.Fatalf("register failed: %d %s", w.Code, w.Body.String())
	}

	w = e.do(t, http.MethodPost, "/api/login", `{"email":"`+email+`","password":"`+pass+`"}`, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)
	return cookies
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

func cookieByName(t *testing.T, cookies []*http.Cookie, name string) *http.Cookie {
	t.Helper()
	for _, cookie := range cookies {
		if cookie.Name == name {
			return cookie
		}
	}
	t.Fatalf("cookie %q not set", name)
	return nil
}

// Fakes. Single-goroutine test use only.

type fakeUserRepo struct {
	users map[int64]domain.User
}

func (f *fakeUserRepo) Create(ctx context.Context, user domain.User) (domain.User, error) {
	for _, existing := range f.users {
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
	f.users[user.ID] = user
	return user, nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			return user, nil
		}
	}
	return domain.User{}, repository.ErrNotFound
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id int64) (domain.User, error) {
	user, ok := f.users[id]
	if !ok {
		return domain.User{}, repository.ErrNotFound
	}
	return user, nil
}

type fakeCategoryRepo struct {
	categories map[int64]domain.Category
}

func (f *fakeCategoryRepo) Create(ctx context.Context, category domain.Category) (domain.Category, error) {
	f.categories[category.ID] = category
	return category, nil
}

func (f *fakeCategoryRepo) GetByID(ctx context.Context, id int64) (domain.Category, error) {
	category, ok := f.categories[id]
	if !ok {
		return domain.Category{}, repository.ErrNotFound
	}
	return category, nil
}

func (f *fakeCategoryRepo) List(ctx context.Context) ([]domain.Category, error) {
	var categories []domain.Category
	for _, category := range f.categories {
		categories = append(categories, category)
	}
	return categories, nil
}

func (f *fakeCategoryRepo) Update(ctx context.Context, category domain.Category) (domain.Category, error) {
	existing, ok := f.categories[category.ID]
	if !ok {
		return domain.Category{}, repository.ErrNotFound
	}
	existing.Name = category.Name
	f.categories[category.ID] = existing
	return existing, nil
}

func (f *fakeCategoryRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := f.categories[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.categories, id)
	return nil
}

type fakeTodoRepo struct {
	todos map[int64]domain.Todo
}

func (f *fakeTodoRepo) Create(ctx context.Context, todo domain.Todo) (domain.Todo, error) {
	f.todos[todo.ID] = todo
	return todo, nil
}

func (f *fakeTodoRepo) GetByID(ctx context.Context, id int64) (domain.Todo, error) {
	todo, ok := f.todos[id]
	if !ok {
		return domain.Todo{}, repository.ErrNotFound
	}
	return todo, nil
}

func (f *fakeTodoRepo) List(ctx context.Context) ([]domain.Todo, error) {
	var todos []domain.Todo
	for _, todo := range f.todos {
		todos = append(todos, todo)
	}
	return todos, nil
}

func (f *fakeTodoRepo) ListByUser(ctx context.Context, userID int64) ([]domain.Todo, error) {
	var todos []domain.Todo
	for _, todo := range f.todos {
		if todo.UserID == userID {
			todos = append(todos, todo)
		}
	}
	return todos, nil
}

func (f *fakeTodoRepo) ListByCategory(ctx context.Context, categoryID int64) ([]domain.Todo, error) {
	var todos []domain.Todo
	for _, todo := range f.todos {
		if todo.CategoryID == categoryID {
			todos = append(todos, todo)
		}
	}
	return todos, nil
}

func (f *fakeTodoRepo) Update(ctx context.Context, todo domain.Todo) (domain.Todo, error) {
	existing, ok := f.todos[todo.ID]
	if !ok {
		return domain.Todo{}, repository.ErrNotFound
	}
	existing.Name = todo.Name
	existing.Amount = todo.Amount
	existing.CategoryID = todo.CategoryID
	f.todos[todo.ID] = existing
	return existing, nil
}

func (f *fakeTodoRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := f.todos[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.todos, id)
	return nil
}
