package model

// swagger:model Review
type Review struct {
	BaseModel
	CourseID uint   `gorm:"uniqueIndex:uq_reviews_course_user,priority:1;not null" json:"courseId"`
	UserID   uint   `gorm:"uniqueIndex:uq_reviews_course_user,priority:2;not null" json:"userId"`
	Rating   int    `gorm:"not null" json:"rating"`
	Comment  string `gorm:"type:text" json:"comment"`

	User   *User   `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Course *Course `gorm:"foreignKey:CourseID" json:"course,omitempty"`
}

func (Review) TableName() string {
	return "reviews"
}
