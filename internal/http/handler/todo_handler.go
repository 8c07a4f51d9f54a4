package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/taskhive/taskhive/internal/domain"
	"github.com/taskhive/taskhive/internal/http/middleware"
	"github.com/taskhive/taskhive/internal/service"
)

// TodoHandler serves the todo CRUD surface.
type TodoHandler struct {
	todos *service.TodoService
}

func NewTodoHandler(todos *service.TodoService) *TodoHandler {
	return &TodoHandler{todos: todos}
}

type todoView struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Amount     int64     `json:"amount"`
	CategoryID int64     `json:"categoryId"`
	UserID     int64     `json:"userId"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func newTodoView(t domain.Todo) todoView {
	return todoView{
		ID:         t.ID,
		Name:       t.Name,
		Amount:     t.Amount,
		CategoryID: t.CategoryID,
		UserID:     t.UserID,
		CreatedAt:  t.CreatedAt,
		UpdatedAt:  t.UpdatedAt,
	}
}

func newTodoViews(todos []domain.Todo) []todoView {
	views := make([]todoView, 0, len(todos))
	for _, t := range todos {
		views = append(views, newTodoView(t))
	}
	return views
}

// List handles GET /todos. No session required.
func (h *TodoHandler) List(c *gin.Context) {
	todos, err := h.todos.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	if len(todos) == 0 {
		respond(c, http.StatusNotFound, "Todos not found", nil)
		return
	}
	respond(c, http.StatusOK, "Todos found", newTodoViews(todos))
}

// ListByUser handles GET /todouser: the session user's todos.
func (h *TodoHandler) ListByUser(c *gin.Context) {
	userID, ok := middleware.GetSessionUserID(c)
	if !ok {
		respond(c, http.StatusUnauthorized, "Access denied, no session", nil)
		return
	}

	todos, err := h.todos.ListByUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	if len(todos) == 0 {
		respond(c, http.StatusNotFound, "Todo not found", nil)
		return
	}
	respond(c, http.StatusOK, "Todo found", newTodoViews(todos))
}

// ListByCategory handles GET /todocategory?categoryId=N.
func (h *TodoHandler) ListByCategory(c *gin.Context) {
	categoryID, err := strconv.ParseInt(c.Query("categoryId"), 10, 64)
	if err != nil {
		respond(c, http.StatusBadRequest, "Parameter invalid", nil)
		return
	}

	todos, err := h.todos.ListByCategory(c.Request.Context(), categoryID)
	if err != nil {
		respondError(c, err)
		return
	}
	if len(todos) == 0 {
		respond(c, http.StatusNotFound, "Todo not found", nil)
		return
	}
	respond(c, http.StatusOK, "Todo found", newTodoViews(todos))
}

// Create handles POST /todo.
func (h *TodoHandler) Create(c *gin.Context) {
	userID, ok := middleware.GetSessionUserID(c)
	if !ok {
		respond(c, http.StatusUnauthorized, "Access denied, no session", nil)
		return
	}

	var req struct {
		Name       string `json:"name" binding:"required"`
		Amount     int64  `json:"amount" binding:"required"`
		CategoryID int64  `json:"categoryId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respond(c, http.StatusBadRequest, "Parameter invalid", nil)
		return
	}

	created, err := h.todos.Create(c.Request.Context(), userID, service.TodoInput{
		Name:       req.Name,
		Amount:     req.Amount,
		CategoryID: req.CategoryID,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "Todo created successfully", newTodoView(created))
}

// Update handles PUT /todo/:id. Ownership is enforced in the service.
func (h *TodoHandler) Update(c *gin.Context) {
	userID, ok := middleware.GetSessionUserID(c)
	if !ok {
		respond(c, http.StatusUnauthorized, "Access denied, no session", nil)
		return
	}

	todoID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respond(c, http.StatusBadRequest, "Parameter invalid", nil)
		return
	}

	var req struct {
		Name       string `json:"name" binding:"required"`
		Amount     int64  `json:"amount" binding:"required"`
		CategoryID int64  `json:"categoryId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respond(c, http.StatusBadRequest, "Parameter invalid", nil)
		return
	}

	updated, err := h.todos.Update(c.Request.Context(), userID, todoID, service.TodoInput{
		Name:       req.Name,
		Amount:     req.Amount,
		CategoryID: req.CategoryID,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "Todo updated successfully", newTodoView(updated))
}

// Delete handles DELETE /todo/:id. Ownership is enforced in the service.
func (h *TodoHandler) Delete(c *gin.Context) {
	userID, ok := middleware.GetSessionUserID(c)
	if !ok {
		respond(c, http.StatusUnauthorized, "Access denied, no session", nil)
		return
	}

	todoID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respond(c, http.StatusBadRequest, "Parameter invalid", nil)
		return
	}

	if err := h.todos.Delete(c.Request.Context(), userID, todoID); err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "Todo deleted successfully", nil)
}
