package handler

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"moey-backend/internal/domain"
	"moey-backend/internal/middleware"
	"moey-backend/internal/service"
)

type Handlers struct {
	Auth         *AuthHandler
	User         *UserHandler
	Notification *NotificationHandler
	StageRequest *StageRequestHandler
	TaskResponse *TaskResponseHandler
	Workplan     *WorkplanHandler
	Audit        *AuditHandler
	Dashboard    *DashboardHandler
	Export       *ExportHandler
}

func NewHandlers(services *service.Services) *Handlers {
	return &Handlers{
		Auth:         NewAuthHandler(services.Auth),
		User:         NewUserHandler(services.Push),
		Notification: NewNotificationHandler(services.Notification, services.Stage),
		StageRequest: NewStageRequestHandler(services.Notification),
		TaskResponse: NewTaskResponseHandler(services.Deadline),
		Workplan:     NewWorkplanHandler(services.Workplan),
		Audit:        NewAuditHandler(services.Audit),
		Dashboard:    NewDashboardHandler(services.Dashboard),
		Export:       NewExportHandler(services.Export),
	}
}

var validate = validator.New()

// bindAndValidate parses the JSON body into out and runs its validate tags.
func bindAndValidate(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		return middleware.BadRequest("Invalid request body")
	}
	if err := validate.Struct(out); err != nil {
		return middleware.Unprocessable(validationMessage(err))
	}
	return nil
}

func validationMessage(err error) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err.Error()
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		if fe.Param() != "" {
			msgs = append(msgs, fmt.Sprintf("%s must satisfy %s=%s", strings.ToLower(fe.Field()), fe.Tag(), fe.Param()))
			continue
		}
		msgs = append(msgs, fmt.Sprintf("%s is %s", strings.ToLower(fe.Field()), fe.Tag()))
	}
	return strings.Join(msgs, "; ")
}

func parseID(c *fiber.Ctx, param, label string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(param))
	if err != nil {
		return uuid.Nil, middleware.BadRequest("Invalid " + label + " ID")
	}
	return id, nil
}

func currentUser(c *fiber.Ctx) (*domain.User, error) {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		return nil, middleware.Unauthorized("User not found")
	}
	return user, nil
}

func getPaginationParams(c *fiber.Ctx) domain.PaginationParams {
	params := domain.DefaultPagination()

	if page := c.QueryInt("page", 1); page > 0 {
		params.Page = page
	}
	if perPage := c.QueryInt("per_page", 20); perPage > 0 {
		params.PageSize = perPage
	}

	params.Validate()
	return params
}
