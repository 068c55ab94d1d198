package model

import "github.com/shopspring/decimal"

// swagger:model Course
type Course struct {
	BaseModel
	Title         string          `gorm:"size:200;not null" json:"title"`
	Description   string          `gorm:"type:text" json:"description"`
	Price         decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	AverageRating *float64        `json:"averageRating"`
	ImageURL      string          `gorm:"size:500" json:"imageUrl"`
	CategoryID    uint            `gorm:"index;not null" json:"categoryId"`
	InstructorID  uint            `gorm:"index;not null" json:"instructorId"`

	Category   *Category          `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Instructor *InstructorProfile `gorm:"foreignKey:InstructorID" json:"instructor,omitempty"`
	Lectures   []Lecture          `gorm:"foreignKey:CourseID" json:"lectures,omitempty"`
}

func (Course) TableName() string {
	return "courses"
}
