package controller

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"todo-api/internal/application/middleware"
	"todo-api/internal/domain/entity"
	"todo-api/internal/domain/model"
	"todo-api/internal/domain/usecase/todo"
	"todo-api/pkg/log"
	"todo-api/pkg/msg"
	"todo-api/pkg/util/numberutils"
)

type TodoController struct {
	api     *echo.Group
	useCase todo.UseCase
}

func NewTodoController(api *echo.Group, useCase todo.UseCase) *TodoController {
	return &TodoController{api: api, useCase: useCase}
}

// InitTodoRoutes initializes todo routes. Every route requires a resolved owner.
func (controller *TodoController) InitTodoRoutes(middlewares ...echo.MiddlewareFunc) {
	todos := controller.api.Group("/todos", middlewares...)

	todos.GET("", controller.List)
	todos.GET("/stats", controller.Stats)
	todos.GET("/overdue", controller.Overdue)
	todos.POST("", controller.Create)
	todos.GET("/:id", controller.Get)
	todos.PUT("/:id", controller.Update)
	todos.PATCH("/:id", controller.Update)
	todos.DELETE("/:id", controller.Delete)
	todos.PATCH("/:id/toggle", controller.Toggle)
}

// List godoc
// @Summary List todos
// @Description Filter, search, sort and paginate the caller's todos
// @Tags todos
// @Produce json
// @Security BearerAuth
// @Param status query string false "Status filter" Enums(active, completed, overdue)
// @Param priority query string false "Priority filter" Enums(low, medium, high)
// @Param search query string false "Case-insensitive match on title or description"
// @Param sortBy query string false "Sort key" Enums(createdAt, updatedAt, dueDate, title, priority, status) default(createdAt)
// @Param sortOrder query string false "Sort direction" Enums(asc, desc) default(desc)
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(10)
// @Success 200 {object} model.Page[model.TodoResponse]
// @Failure 401 {object} model.ErrorResponse
// @Failure 503 {object} model.ErrorResponse
// @Router /todos [get]
func (controller *TodoController) List(c echo.Context) error {
	criteria := model.NewTodoCriteria(model.TodoQuery{
		Status:    c.QueryParam("status"),
		Priority:  c.QueryParam("priority"),
		Search:    c.QueryParam("search"),
		SortBy:    c.QueryParam("sortBy"),
		SortOrder: c.QueryParam("sortOrder"),
		Page:      numberutils.ToIntWithDefault(c.QueryParam("page"), model.DefaultPage),
		Limit:     numberutils.ToIntWithDefault(c.QueryParam("limit"), model.DefaultLimit),
	})

	page, err := controller.useCase.List(c.Request().Context(), middleware.OwnerID(c), criteria)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, page)
}

// Get godoc
// @Summary Get a todo
// @Tags todos
// @Produce json
// @Security BearerAuth
// @Param id path string true "Todo ID (UUID)"
// @Success 200 {object} model.DataResponse[model.TodoResponse]
// @Failure 400 {object} model.ErrorResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /todos/{id} [get]
func (controller *TodoController) Get(c echo.Context) error {
	response, err := controller.useCase.Get(c.Request().Context(), middleware.OwnerID(c), c.Param("id"))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, model.DataResponse[model.TodoResponse]{Data: *response})
}

// Create godoc
// @Summary Create a todo
// @Description Priority defaults to medium. dueDate accepts YYYY-MM-DD or RFC3339 and must be in the future.
// @Tags todos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param todo body model.CreateTodoDTO true "Todo to create"
// @Success 201 {object} model.DataResponse[model.TodoResponse]
// @Failure 400 {object} model.ErrorResponse
// @Failure 503 {object} model.ErrorResponse
// @Router /todos [post]
func (controller *TodoController) Create(c echo.Context) error {
	var dto model.CreateTodoDTO
	if err := c.Bind(&dto); err != nil {
		return invalidBody(c)
	}

	response, err := controller.useCase.Create(c.Request().Context(), middleware.OwnerID(c), dto)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusCreated, model.DataResponse[model.TodoResponse]{Data: *response})
}

// Update godoc
// @Summary Update a todo
// @Description Partial update. Absent fields are left untouched and a null dueDate clears it.
// @Tags todos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Todo ID (UUID)"
// @Param todo body model.UpdateTodoDTO true "Fields to change"
// @Success 200 {object} model.DataResponse[model.TodoResponse]
// @Failure 400 {object} model.ErrorResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /todos/{id} [put]
// @Router /todos/{id} [patch]
func (controller *TodoController) Update(c echo.Context) error {
	var dto model.UpdateTodoDTO
	if err := c.Bind(&dto); err != nil {
		return invalidBody(c)
	}

	response, err := controller.useCase.Update(c.Request().Context(), middleware.OwnerID(c), c.Param("id"), dto)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, model.DataResponse[model.TodoResponse]{Data: *response})
}

// Delete godoc
// @Summary Delete a todo
// @Tags todos
// @Produce json
// @Security BearerAuth
// @Param id path string true "Todo ID (UUID)"
// @Success 200 {object} model.MessageResponse
// @Failure 400 {object} model.ErrorResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /todos/{id} [delete]
func (controller *TodoController) Delete(c echo.Context) error {
	if err := controller.useCase.Delete(c.Request().Context(), middleware.OwnerID(c), c.Param("id")); err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, model.MessageResponse{Message: msg.GetMessage("todo.deleted")})
}

// Toggle godoc
// @Summary Toggle completion
// @Description Completes an open todo or reopens a completed one
// @Tags todos
// @Produce json
// @Security BearerAuth
// @Param id path string true "Todo ID (UUID)"
// @Success 200 {object} model.DataResponse[model.TodoResponse]
// @Failure 400 {object} model.ErrorResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /todos/{id}/toggle [patch]
func (controller *TodoController) Toggle(c echo.Context) error {
	response, err := controller.useCase.Toggle(c.Request().Context(), middleware.OwnerID(c), c.Param("id"))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, model.DataResponse[model.TodoResponse]{
		Data:    *response,
		Message: msg.GetMessage("todo.toggled", response.Status),
	})
}

// Stats godoc
// @Summary Todo statistics
// @Description Live counters; overdue is derived from the due date at request time
// @Tags todos
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.DataResponse[model.TodoStats]
// @Failure 503 {object} model.ErrorResponse
// @Router /todos/stats [get]
func (controller *TodoController) Stats(c echo.Context) error {
	stats, err := controller.useCase.Stats(c.Request().Context(), middleware.OwnerID(c))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, model.DataResponse[model.TodoStats]{Data: stats})
}

// Overdue godoc
// @Summary Overdue todos
// @Description Open todos whose due date has passed, oldest due date first
// @Tags todos
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.DataResponse[[]model.TodoResponse]
// @Failure 503 {object} model.ErrorResponse
// @Router /todos/overdue [get]
func (controller *TodoController) Overdue(c echo.Context) error {
	todos, err := controller.useCase.Overdue(c.Request().Context(), middleware.OwnerID(c))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, model.DataResponse[[]model.TodoResponse]{Data: todos})
}

func invalidBody(c echo.Context) error {
	return c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: msg.GetMessage("todo.error.invalid-body")})
}

// errorResponse maps use case errors to their HTTP status.
func errorResponse(c echo.Context, err error) error {
	var validationErr *entity.ValidationError
	switch {
	case errors.As(err, &validationErr):
		return c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Error:  msg.GetMessage("todo.error.validation"),
			Errors: validationErr.Messages(),
		})
	case errors.Is(err, todo.ErrMalformedID):
		return c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: msg.GetMessage("todo.error.invalid-id")})
	case errors.Is(err, todo.ErrNotFound):
		return c.JSON(http.StatusNotFound, model.ErrorResponse{Error: msg.GetMessage("todo.error.not-found")})
	case errors.Is(err, todo.ErrStorageUnavailable):
		log.Error(err.Error(), zap.String("uri", c.Request().RequestURI), zap.Error(err))
		return c.JSON(http.StatusServiceUnavailable, model.ErrorResponse{Error: msg.GetMessage("todo.error.storage")})
	default:
		log.Error(err.Error(), zap.String("uri", c.Request().RequestURI), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, model.ErrorResponse{Error: msg.GetMessage("todo.error.internal")})
	}
}
