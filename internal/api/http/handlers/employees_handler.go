package handlers

import (
	"context"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/employee-service/internal/api/dto"
	"github.com/spec-kit/employee-service/internal/auth"
	"github.com/spec-kit/employee-service/internal/events"
	"github.com/spec-kit/employee-service/internal/observability"
	"github.com/spec-kit/employee-service/internal/service"
	apperrors "github.com/spec-kit/employee-service/pkg/util/errorutil"
)

// EmployeesHandler exposes the employee CRUD endpoints.
type EmployeesHandler struct {
	service *service.EmployeeService
}

// NewEmployeesHandler constructs handler.
func NewEmployeesHandler(employeeService *service.EmployeeService) *EmployeesHandler {
	return &EmployeesHandler{service: employeeService}
}

// CreateEmployee POST /employees.
func (h *EmployeesHandler) CreateEmployee(c *fiber.Ctx) error {
	input, err := parseEmployeeRequest(c)
	if err != nil {
		return err
	}
	emp, err := h.service.CreateEmployee(requestContext(c), input)
	if err != nil {
		return err
	}
	c.Location("/employees/" + strconv.FormatInt(emp.ID, 10))
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.NewEmployeeResponse(emp)})
}

// ListEmployees GET /employees.
func (h *EmployeesHandler) ListEmployees(c *fiber.Ctx) error {
	list, err := h.service.ListEmployees(requestContext(c))
	if err != nil {
		return err
	}
	items := make([]dto.EmployeeResponse, 0, len(list))
	for i := range list {
		items = append(items, dto.NewEmployeeResponse(&list[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// GetEmployee GET /employees/:id.
func (h *EmployeesHandler) GetEmployee(c *fiber.Ctx) error {
	id, err := service.ParseEmployeeID(c.Params("id"))
	if err != nil {
		return err
	}
	emp, err := h.service.GetEmployee(requestContext(c), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewEmployeeResponse(emp)})
}

// UpdateEmployee PUT /employees/:id.
func (h *EmployeesHandler) UpdateEmployee(c *fiber.Ctx) error {
	id, err := service.ParseEmployeeID(c.Params("id"))
	if err != nil {
		return err
	}
	input, err := parseEmployeeRequest(c)
	if err != nil {
		return err
	}
	if err := h.service.UpdateEmployee(requestContext(c), id, input); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// DeleteEmployee DELETE /employees/:id.
func (h *EmployeesHandler) DeleteEmployee(c *fiber.Ctx) error {
	id, err := service.ParseEmployeeID(c.Params("id"))
	if err != nil {
		return err
	}
	if err := h.service.DeleteEmployee(requestContext(c), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func parseEmployeeRequest(c *fiber.Ctx) (service.EmployeeInput, error) {
	var req dto.EmployeeRequest
	if err := c.BodyParser(&req); err != nil {
		return service.EmployeeInput{}, apperrors.NewValidationError("invalid payload", nil)
	}
	dob, ok := dto.ParseDate(req.DateOfBirth)
	if !ok {
		return service.EmployeeInput{}, apperrors.NewValidationError("invalid date_of_birth", map[string]any{
			"date_of_birth": req.DateOfBirth,
			"expected":      "YYYY-MM-DD",
		})
	}
	return service.EmployeeInput{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		DateOfBirth: dob,
		Position:    req.Position,
	}, nil
}

func requestContext(c *fiber.Ctx) context.Context {
	actor := events.Actor{RequestID: observability.RequestID(c)}
	if principal, ok := auth.PrincipalFromContext(c); ok {
		actor.Subject = principal.Subject
	}
	return service.WithActor(c.UserContext(), actor)
}
