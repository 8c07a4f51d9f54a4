package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taskhive/taskhive/internal/domain"
)

// Compile-time interface assertions.
var (
	_ UserRepository     = (*PostgresUserRepo)(nil)
	_ CategoryRepository = (*PostgresCategoryRepo)(nil)
	_ TodoRepository     = (*PostgresTodoRepo)(nil)
)

const uniqueViolation = "23505"

// PostgresUserRepo implements UserRepository on pgx.
type PostgresUserRepo struct {
	db *pgxpool.Pool
}

func NewPostgresUserRepo(pool *pgxpool.Pool) *PostgresUserRepo {
	return &PostgresUserRepo{db: pool}
}

const insertUserSQL = `INSERT INTO users (id, first_name, last_name, email, phone, password_hash)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id, first_name, last_name, email, phone, password_hash, created_at, updated_at`

func (r *PostgresUserRepo) Create(ctx context.Context, user domain.User) (domain.User, error) {
	row := r.db.QueryRow(ctx, insertUserSQL,
		user.ID,
		user.FirstName,
		user.LastName,
		user.Email,
		user.Phone,
		user.PasswordHash,
	)

	created, err := scanUser(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			if strings.Contains(pgErr.ConstraintName, "phone") {
				return domain.User{}, ErrDuplicatePhone
			}
			return domain.User{}, ErrDuplicateEmail
		}
		return domain.User{}, fmt.Errorf("create user: %w", err)
	}
	return created, nil
}

const selectUserSQL = `SELECT id, first_name, last_name, email, phone, password_hash, created_at, updated_at FROM users`

func (r *PostgresUserRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	row := r.db.QueryRow(ctx, selectUserSQL+` WHERE email = $1`, email)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, ErrNotFound
		}
		return domain.User{}, fmt.Errorf("get user by email: %w", err)
	}
	return user, nil
}

func (r *PostgresUserRepo) GetByID(ctx context.Context, id int64) (domain.User, error) {
	row := r.db.QueryRow(ctx, selectUserSQL+` WHERE id = $1`, id)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, ErrNotFound
		}
		return domain.User{}, fmt.Errorf("get user by id: %w", err)
	}
	return user, nil
}

func scanUser(row pgx.Row) (domain.User, error) {
	var u domain.User
	err := row.Scan(
		&u.ID,
		&u.FirstName,
		&u.LastName,
		&u.Email,
		&u.Phone,
		&u.PasswordHash,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	return u, err
}

// PostgresCategoryRepo implements CategoryRepository.
type PostgresCategoryRepo struct {
	db *pgxpool.Pool
}

func NewPostgresCategoryRepo(pool *pgxpool.Pool) *PostgresCategoryRepo {
	return &PostgresCategoryRepo{db: pool}
}

const selectCategorySQL = `SELECT id, name, created_at, updated_at FROM categories`

func (r *PostgresCategoryRepo) Create(ctx context.Context, category domain.Category) (domain.Category, error) {
	row := r.db.QueryRow(ctx,
		`INSERT INTO categories (id, name) VALUES ($1, $2) RETURNING id, name, created_at, updated_at`,
		category.ID, category.Name,
	)
	created, err := scanCategory(row)
	if err != nil {
		return domain.Category{}, fmt.Errorf("create category: %w", err)
	}
	return created, nil
}

func (r *PostgresCategoryRepo) GetByID(ctx context.Context, id int64) (domain.Category, error) {
	row := r.db.QueryRow(ctx, selectCategorySQL+` WHERE id = $1`, id)
	category, err := scanCategory(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Category{}, ErrNotFound
		}
		return domain.Category{}, fmt.Errorf("get category: %w", err)
	}
	return category, nil
}

func (r *PostgresCategoryRepo) List(ctx context.Context) ([]domain.Category, error) {
	rows, err := r.db.Query(ctx, selectCategorySQL+` ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var categories []domain.Category
	for rows.Next() {
		category, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, category)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

func (r *PostgresCategoryRepo) Update(ctx context.Context, category domain.Category) (domain.Category, error) {
	row := r.db.QueryRow(ctx,
		`UPDATE categories SET name = $2, updated_at = now() WHERE id = $1 RETURNING id, name, created_at, updated_at`,
		category.ID, category.Name,
	)
	updated, err := scanCategory(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Category{}, ErrNotFound
		}
		return domain.Category{}, fmt.Errorf("update category: %w", err)
	}
	return updated, nil
}

func (r *PostgresCategoryRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanCategory(row pgx.Row) (domain.Category, error) {
	var c domain.Category
	err := row.Scan(&c.ID, &c.Name, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

// PostgresTodoRepo implements TodoRepository.
type PostgresTodoRepo struct {
	db *pgxpool.Pool
}

func NewPostgresTodoRepo(pool *pgxpool.Pool) *PostgresTodoRepo {
	return &PostgresTodoRepo{db: pool}
}

const selectTodoSQL = `SELECT id, name, amount, category_id, user_id, created_at, updated_at FROM todos`

func (r *PostgresTodoRepo) Create(ctx context.Context, todo domain.Todo) (domain.Todo, error) {
	row := r.db.QueryRow(ctx,
		`INSERT INTO todos (id, name, amount, category_id, user_id)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, name, amount, category_id, user_id, created_at, updated_at`,
		todo.ID, todo.Name, todo.Amount, todo.CategoryID, todo.UserID,
	)
	created, err := scanTodo(row)
	if err != nil {
		return domain.Todo{}, fmt.Errorf("create todo: %w", err)
	}
	return created, nil
}

func (r *PostgresTodoRepo) GetByID(ctx context.Context, id int64) (domain.Todo, error) {
	row := r.db.QueryRow(ctx, selectTodoSQL+` WHERE id = $1`, id)
	todo, err := scanTodo(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Todo{}, ErrNotFound
		}
		return domain.Todo{}, fmt.Errorf("get todo: %w", err)
	}
	return todo, nil
}

func (r *PostgresTodoRepo) List(ctx context.Context) ([]domain.Todo, error) {
	return r.queryTodos(ctx, selectTodoSQL+` ORDER BY id`)
}

func (r *PostgresTodoRepo) ListByUser(ctx context.Context, userID int64) ([]domain.Todo, error) {
	return r.queryTodos(ctx, selectTodoSQL+` WHERE user_id = $1 ORDER BY id`, userID)
}

func (r *PostgresTodoRepo) ListByCategory(ctx context.Context, categoryID int64) ([]domain.Todo, error) {
	return r.queryTodos(ctx, selectTodoSQL+` WHERE category_id = $1 ORDER BY id`, categoryID)
}

func (r *PostgresTodoRepo) Update(ctx context.Context, todo domain.Todo) (domain.Todo, error) {
	row := r.db.QueryRow(ctx,
		`UPDATE todos SET name = $2, amount = $3, category_id = $4, updated_at = now()
WHERE id = $1
RETURNING id, name, amount, category_id, user_id, created_at, updated_at`,
		todo.ID, todo.Name, todo.Amount, todo.CategoryID,
	)
	updated, err := scanTodo(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Todo{}, ErrNotFound
		}
		return domain.Todo{}, fmt.Errorf("update todo: %w", err)
	}
	return updated, nil
}

func (r *PostgresTodoRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM todos WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete todo: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresTodoRepo) queryTodos(ctx context.Context, sql string, args ...any) ([]domain.Todo, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query todos: %w", err)
	}
	defer rows.Close()

	var todos []domain.Todo
	for rows.Next() {
		todo, err := scanTodo(rows)
		if err != nil {
			return nil, fmt.Errorf("scan todo: %w", err)
		}
		todos = append(todos, todo)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query todos: %w", err)
	}
	return todos, nil
}

func scanTodo(row pgx.Row) (domain.Todo, error) {
	var t domain.Todo
	err := row.Scan(
		&t.ID,
		&t.Name,
		&t.Amount,
		&t.CategoryID,
		&t.UserID,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	return t, err
}
