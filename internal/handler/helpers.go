package handler

import (
	"errors"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/student-management-api/internal/middleware"
	"github.com/noah-isme/student-management-api/internal/models"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

var errInvalidPaging = errors.New("invalid paging parameters")

func parseQueryInt(c *fiber.Ctx, key string, fallback int) (int, error) {
	value := strings.TrimSpace(c.Query(key))
	if value == "" {
		return fallback, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}
	return parsed, nil
}

// parsePaging reads page and size. page must be >= 0 and size >= 1; larger
// sizes are clamped to maxPageSize. Pages whose row offset overflows int are
// rejected.
func parsePaging(c *fiber.Ctx) (int, int, error) {
	page, err := parseQueryInt(c, "page", 0)
	if err != nil || page < 0 {
		return 0, 0, errInvalidPaging
	}

	size, err := parseQueryInt(c, "size", defaultPageSize)
	if err != nil || size < 1 {
		return 0, 0, errInvalidPaging
	}
	if size > maxPageSize {
		size = maxPageSize
	}

	if !(models.Pageable{Page: page, Size: size}).FitsOffset() {
		return 0, 0, errInvalidPaging
	}

	return page, size, nil
}

func parseIDParam(c *fiber.Ctx, key string) (int64, error) {
	return strconv.ParseInt(strings.TrimSpace(c.Params(key)), 10, 64)
}

// requiredQuery reports the raw value of key and whether the client sent it at
// all. An empty value still counts as present.
func requiredQuery(c *fiber.Ctx, key string) (string, bool) {
	if !c.Context().QueryArgs().Has(key) {
		return "", false
	}
	return c.Query(key), true
}

func requestLogger(base zerolog.Logger, c *fiber.Ctx) *zerolog.Logger {
	logger := base
	if c != nil {
		if correlation := middleware.GetCorrelationID(c); correlation != "" {
			logger = base.With().Str("correlation_id", correlation).Logger()
		}
	}
	return &logger
}

func isValidationError(err error) bool {
	var validationErrors validator.ValidationErrors
	return errors.As(err, &validationErrors)
}
