package handler

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/student-management-api/internal/dto"
	"github.com/noah-isme/student-management-api/internal/models"
	"github.com/noah-isme/student-management-api/internal/service"
	"github.com/noah-isme/student-management-api/internal/utils"
)

// StudentHandler exposes the student CRUD and search endpoints.
type StudentHandler struct {
	service service.StudentService
	logger  zerolog.Logger
}

// NewStudentHandler constructs the handler.
func NewStudentHandler(service service.StudentService, logger zerolog.Logger) *StudentHandler {
	return &StudentHandler{
		service: service,
		logger:  logger.With().Str("component", "student_handler").Logger(),
	}
}

// Register attaches student routes to the router group. Search routes are
// registered ahead of /:id so they are not captured as identifiers.
func (h *StudentHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Post("", h.create)
	router.Get("/search", h.search)
	router.Get("/search/name", h.searchByName)
	router.Get("/search/phone", h.searchByPhone)
	router.Get("/:id", h.get)
	router.Put("/:id", h.update)
	router.Delete("/:id", h.delete)
}

func (h *StudentHandler) list(c *fiber.Ctx) error {
	page, size, err := parsePaging(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page or size")
	}

	sortField := strings.TrimSpace(c.Query("sort", "id"))
	if _, ok := models.StudentSortColumn(sortField); !ok {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid sort field")
	}

	pageable := models.Pageable{
		Page:           page,
		Size:           size,
		SortField:      sortField,
		SortDescending: strings.EqualFold(strings.TrimSpace(c.Query("order", "asc")), "desc"),
	}

	response, err := h.service.List(c.UserContext(), pageable)
	if err != nil {
		return h.fail(c, err, "failed to list students")
	}

	return c.Status(fiber.StatusOK).JSON(response)
}

func (h *StudentHandler) get(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	student, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return h.fail(c, err, "failed to fetch student")
	}

	return c.Status(fiber.StatusOK).JSON(student)
}

func (h *StudentHandler) create(c *fiber.Ctx) error {
	var payload dto.StudentRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	student, err := h.service.Create(c.UserContext(), payload)
	if err != nil {
		return h.fail(c, err, "failed to create student")
	}

	return c.Status(fiber.StatusCreated).JSON(student)
}

func (h *StudentHandler) update(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	var payload dto.StudentRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	student, err := h.service.Update(c.UserContext(), id, payload)
	if err != nil {
		return h.fail(c, err, "failed to update student")
	}

	return c.Status(fiber.StatusOK).JSON(student)
}

func (h *StudentHandler) delete(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	if err := h.service.Delete(c.UserContext(), id); err != nil {
		return h.fail(c, err, "failed to delete student")
	}

	return utils.SendEmpty(c, fiber.StatusNoContent)
}

func (h *StudentHandler) search(c *fiber.Ctx) error {
	return h.searchBy(c, "keyword", h.service.Search)
}

func (h *StudentHandler) searchByName(c *fiber.Ctx) error {
	return h.searchBy(c, "name", h.service.SearchByName)
}

func (h *StudentHandler) searchByPhone(c *fiber.Ctx) error {
	return h.searchBy(c, "phone", h.service.SearchByPhone)
}

type searchFunc func(ctx context.Context, query string, page models.Pageable) (dto.StudentPageResponse, error)

// searchBy serves the search routes. The query parameter must be present but
// may be empty; results are ordered by id ascending.
func (h *StudentHandler) searchBy(c *fiber.Ctx, param string, find searchFunc) error {
	query, ok := requiredQuery(c, param)
	if !ok {
		return utils.SendError(c, fiber.StatusBadRequest, "missing "+param+" parameter")
	}

	page, size, err := parsePaging(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page or size")
	}

	response, err := find(c.UserContext(), query, models.Pageable{Page: page, Size: size, SortField: "id"})
	if err != nil {
		return h.fail(c, err, "failed to search students")
	}

	return c.Status(fiber.StatusOK).JSON(response)
}

func (h *StudentHandler) fail(c *fiber.Ctx, err error, message string) error {
	var validationErr *service.ValidationError
	switch {
	case errors.As(err, &validationErr):
		return utils.SendValidationError(c, validationErr.Fields)
	case errors.Is(err, service.ErrStudentNotFound):
		return utils.SendEmpty(c, fiber.StatusNotFound)
	case errors.Is(err, service.ErrUnsupportedSort):
		return utils.SendError(c, fiber.StatusBadRequest, "invalid sort field")
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg(message)
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
