package service

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"

	"github.com/noah-isme/student-management-api/internal/dto"
)

// ValidationError lists every rejected field of a student payload.
type ValidationError struct {
	Fields []dto.FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, field := range e.Fields {
		parts = append(parts, field.Field+": "+field.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// studentMessages holds the client facing message per field and rule.
var studentMessages = map[string]map[string]string{
	"name": {
		"notblank": "Name is required",
		"max":      "Name must be less than 64 characters",
	},
	"gender": {
		"notblank": "Gender is required",
		"max":      "Gender must be less than 8 characters",
	},
	"phone": {
		"notblank": "Phone is required",
		"max":      "Phone must be less than 16 characters",
	},
	"age": {
		"required": "Age is required",
		"min":      "Age must be a positive number",
	},
	"nativePlace": {
		"max": "Native place must be less than 64 characters",
	},
	"major": {
		"notblank": "Major is required",
		"max":      "Major must be less than 128 characters",
	},
	"email": {
		"email": "Email should be valid",
		"max":   "Email must be less than 32 characters",
	},
	"tag": {
		"max": "Tag must be less than 512 characters",
	},
	"remark": {
		"max": "Remark must be less than 512 characters",
	},
}

// NewValidator returns a validator that reports fields by their JSON name and
// understands the notblank rule used by student payloads.
func NewValidator() *validator.Validate {
	validate := validator.New(validator.WithRequiredStructEnabled())
	registerStudentRules(validate)
	return validate
}

func registerStudentRules(validate *validator.Validate) {
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})
	_ = validate.RegisterValidation("notblank", validators.NotBlank)
}

// ValidateStudent checks a create or update payload. It returns a
// *ValidationError describing every failed field, or nil.
func ValidateStudent(validate *validator.Validate, req dto.StudentRequest) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return err
	}

	result := &ValidationError{Fields: make([]dto.FieldError, 0, len(fieldErrors))}
	for _, fieldErr := range fieldErrors {
		result.Fields = append(result.Fields, dto.FieldError{
			Field:   fieldErr.Field(),
			Message: studentMessage(fieldErr.Field(), fieldErr.Tag()),
		})
	}
	return result
}

func studentMessage(field, tag string) string {
	if messages, ok := studentMessages[field]; ok {
		if message, ok := messages[tag]; ok {
			return message
		}
	}
	return field + " is invalid"
}
