package model

type UserRole string

const (
	Student    UserRole = "student"
	Instructor UserRole = "instructor"
	Admin      UserRole = "admin"
)

// swagger:model User
type User struct {
	BaseModel
	Name     string   `gorm:"size:100;not null" json:"name"`
	Email    string   `gorm:"size:150;uniqueIndex;not null" json:"email"`
	Password string   `gorm:"size:255;not null" json:"-"`
	Role     UserRole `gorm:"size:20;not null;default:'student'" json:"role"`

	InstructorProfile *InstructorProfile `gorm:"foreignKey:UserID" json:"instructor,omitempty"`
}

func (User) TableName() string {
	return "users"
}
