package models

import "time"

// Soft-delete flag values stored in is_delete.
const (
	StudentActive  = 0
	StudentDeleted = 1
)

// DefaultCreatorID stands in for the authenticated user that creates a record.
// It is replaced once requests carry a real identity.
const DefaultCreatorID int64 = 1

// Student is the only entity managed by the service. Rows are never removed;
// deletion flips IsDelete.
type Student struct {
	ID          int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	UserID      *int64    `gorm:"column:user_id" json:"userId"`
	Name        string    `gorm:"column:name;size:64;not null" json:"name"`
	Gender      string    `gorm:"column:gender;size:8;not null" json:"gender"`
	Phone       string    `gorm:"column:phone;size:16;not null" json:"phone"`
	Age         int       `gorm:"column:age;not null" json:"age"`
	NativePlace *string   `gorm:"column:native_place;size:64" json:"nativePlace"`
	Major       string    `gorm:"column:major;size:128;not null" json:"major"`
	Email       *string   `gorm:"column:email;size:32" json:"email"`
	Tag         *string   `gorm:"column:tag;size:512" json:"tag"`
	Remark      *string   `gorm:"column:remark;size:512" json:"remark"`
	CreateTime  time.Time `gorm:"column:create_time" json:"createTime"`
	ModifyTime  time.Time `gorm:"column:modify_time" json:"modifyTime"`
	IsDelete    int       `gorm:"column:is_delete;not null;default:0;index" json:"isDelete"`
	Creator     int64     `gorm:"column:creator" json:"creator"`
}

// TableName pins the table name used by every driver.
func (Student) TableName() string {
	return "students"
}

// IsDeleted reports whether the record was soft-deleted.
func (s Student) IsDeleted() bool {
	return s.IsDelete == StudentDeleted
}

// studentSortColumns maps the accepted sort keys, JSON property names and raw
// column names alike, to their column.
var studentSortColumns = map[string]string{
	"id":           "id",
	"userId":       "user_id",
	"user_id":      "user_id",
	"name":         "name",
	"gender":       "gender",
	"phone":        "phone",
	"age":          "age",
	"nativePlace":  "native_place",
	"native_place": "native_place",
	"major":        "major",
	"email":        "email",
	"tag":          "tag",
	"remark":       "remark",
	"createTime":   "create_time",
	"create_time":  "create_time",
	"modifyTime":   "modify_time",
	"modify_time":  "modify_time",
	"isDelete":     "is_delete",
	"is_delete":    "is_delete",
	"creator":      "creator",
}

// StudentSortColumn resolves a client supplied sort key to a column name.
func StudentSortColumn(field string) (string, bool) {
	column, ok := studentSortColumns[field]
	return column, ok
}
