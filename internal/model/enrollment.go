package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Enrollment 选课记录，(user_id, course_id) 唯一；存在即代表拥有课程访问权
// swagger:model Enrollment
type Enrollment struct {
	ID            uint            `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID        uint            `gorm:"uniqueIndex:uq_enrollments_user_course,priority:1;not null" json:"userId"`
	CourseID      uint            `gorm:"uniqueIndex:uq_enrollments_user_course,priority:2;not null" json:"courseId"`
	PaymentStatus string          `gorm:"size:20;not null" json:"paymentStatus"`
	AmountPaid    decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"amountPaid"`
	EnrolledAt    time.Time       `gorm:"index;not null" json:"enrolledAt"`
	ModifiedAt    time.Time       `gorm:"autoUpdateTime" json:"modifiedAt"`

	User   *User   `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Course *Course `gorm:"foreignKey:CourseID" json:"course,omitempty"`
}

func (Enrollment) TableName() string {
	return "enrollments"
}
