package model

// InstructorProfile 讲师资料，用户以 instructor 角色注册时自动创建
// swagger:model Instructor
type InstructorProfile struct {
	BaseModel
	UserID          uint   `gorm:"uniqueIndex;not null" json:"userId"`
	Bio             string `gorm:"size:500" json:"bio"`
	ExperienceYears int    `json:"experienceYears"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (InstructorProfile) TableName() string {
	return "instructors"
}
