package service

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/student-management-api/internal/dto"
)

func TestValidateStudentMessages(t *testing.T) {
	validate := NewValidator()

	cases := []struct {
		name    string
		mutate  func(*dto.StudentRequest)
		field   string
		message string
	}{
		{"blank name", func(r *dto.StudentRequest) { r.Name = "  " }, "name", "Name is required"},
		{"long name", func(r *dto.StudentRequest) { r.Name = strings.Repeat("a", 65) }, "name", "Name must be less than 64 characters"},
		{"missing gender", func(r *dto.StudentRequest) { r.Gender = "" }, "gender", "Gender is required"},
		{"long phone", func(r *dto.StudentRequest) { r.Phone = strings.Repeat("1", 17) }, "phone", "Phone must be less than 16 characters"},
		{"missing age", func(r *dto.StudentRequest) { r.Age = nil }, "age", "Age is required"},
		{"negative age", func(r *dto.StudentRequest) { r.Age = intPtr(-1) }, "age", "Age must be a positive number"},
		{"long native place", func(r *dto.StudentRequest) { r.NativePlace = strings.Repeat("p", 65) }, "nativePlace", "Native place must be less than 64 characters"},
		{"missing major", func(r *dto.StudentRequest) { r.Major = "" }, "major", "Major is required"},
		{"bad email", func(r *dto.StudentRequest) { r.Email = "not-an-email" }, "email", "Email should be valid"},
		{"long tag", func(r *dto.StudentRequest) { r.Tag = strings.Repeat("t", 513) }, "tag", "Tag must be less than 512 characters"},
		{"long remark", func(r *dto.StudentRequest) { r.Remark = strings.Repeat("r", 513) }, "remark", "Remark must be less than 512 characters"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validRequest("Alice")
			tc.mutate(&req)

			err := ValidateStudent(validate, req)
			var validationErr *ValidationError
			require.True(t, errors.As(err, &validationErr))
			require.Len(t, validationErr.Fields, 1)
			require.Equal(t, tc.field, validationErr.Fields[0].Field)
			require.Equal(t, tc.message, validationErr.Fields[0].Message)
		})
	}
}

func TestValidateStudentAcceptsBoundaryValues(t *testing.T) {
	validate := NewValidator()

	req := validRequest(strings.Repeat("a", 64))
	req.Age = intPtr(0)
	req.Email = "a@b.co"
	req.Tag = strings.Repeat("t", 512)
	require.NoError(t, ValidateStudent(validate, req))

	req.Email = ""
	require.NoError(t, ValidateStudent(validate, req), "email is optional")
}

func TestValidateStudentCollectsEveryField(t *testing.T) {
	err := ValidateStudent(NewValidator(), dto.StudentRequest{})

	var validationErr *ValidationError
	require.True(t, errors.As(err, &validationErr))

	fields := make([]string, 0, len(validationErr.Fields))
	for _, field := range validationErr.Fields {
		fields = append(fields, field.Field)
	}
	require.Equal(t, []string{"name", "gender", "phone", "age", "major"}, fields)
	require.Contains(t, validationErr.Error(), "Name is required")
}
