package dto

import (
	"time"

	"github.com/noah-isme/student-management-api/internal/models"
)

// StudentRequest is the body accepted by create and update. Server-owned
// fields (id, timestamps, isDelete, creator) are ignored when present.
type StudentRequest struct {
	UserID      *int64 `json:"userId"`
	Name        string `json:"name" validate:"notblank,max=64"`
	Gender      string `json:"gender" validate:"notblank,max=8"`
	Phone       string `json:"phone" validate:"notblank,max=16"`
	Age         *int   `json:"age" validate:"required,min=0"`
	NativePlace string `json:"nativePlace" validate:"omitempty,max=64"`
	Major       string `json:"major" validate:"notblank,max=128"`
	Email       string `json:"email" validate:"omitempty,max=32,email"`
	Tag         string `json:"tag" validate:"omitempty,max=512"`
	Remark      string `json:"remark" validate:"omitempty,max=512"`
}

// ApplyTo copies the editable fields onto student. Empty optional text is
// stored as NULL.
func (r StudentRequest) ApplyTo(student *models.Student) {
	student.UserID = r.UserID
	student.Name = r.Name
	student.Gender = r.Gender
	student.Phone = r.Phone
	if r.Age != nil {
		student.Age = *r.Age
	}
	student.NativePlace = optionalText(r.NativePlace)
	student.Major = r.Major
	student.Email = optionalText(r.Email)
	student.Tag = optionalText(r.Tag)
	student.Remark = optionalText(r.Remark)
}

func optionalText(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}

// StudentResponse serializes a student record.
type StudentResponse struct {
	ID          int64     `json:"id"`
	UserID      *int64    `json:"userId"`
	Name        string    `json:"name"`
	Gender      string    `json:"gender"`
	Phone       string    `json:"phone"`
	Age         int       `json:"age"`
	NativePlace *string   `json:"nativePlace"`
	Major       string    `json:"major"`
	Email       *string   `json:"email"`
	Tag         *string   `json:"tag"`
	Remark      *string   `json:"remark"`
	CreateTime  time.Time `json:"createTime"`
	ModifyTime  time.Time `json:"modifyTime"`
	IsDelete    int       `json:"isDelete"`
	Creator     int64     `json:"creator"`
}

// StudentPageResponse is the envelope of every list and search route.
type StudentPageResponse struct {
	Students    []StudentResponse `json:"students"`
	CurrentPage int               `json:"currentPage"`
	TotalItems  int64             `json:"totalItems"`
	TotalPages  int               `json:"totalPages"`
}

// FieldError names one rejected input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// NewStudentResponse converts a model into its response form.
func NewStudentResponse(student models.Student) StudentResponse {
	return StudentResponse{
		ID:          student.ID,
		UserID:      student.UserID,
		Name:        student.Name,
		Gender:      student.Gender,
		Phone:       student.Phone,
		Age:         student.Age,
		NativePlace: student.NativePlace,
		Major:       student.Major,
		Email:       student.Email,
		Tag:         student.Tag,
		Remark:      student.Remark,
		CreateTime:  student.CreateTime,
		ModifyTime:  student.ModifyTime,
		IsDelete:    student.IsDelete,
		Creator:     student.Creator,
	}
}

// NewStudentPageResponse builds the page envelope for students.
func NewStudentPageResponse(students []models.Student, total int64, page models.Pageable) StudentPageResponse {
	items := make([]StudentResponse, 0, len(students))
	for _, student := range students {
		items = append(items, NewStudentResponse(student))
	}

	return StudentPageResponse{
		Students:    items,
		CurrentPage: page.Page,
		TotalItems:  total,
		TotalPages:  page.TotalPages(total),
	}
}
