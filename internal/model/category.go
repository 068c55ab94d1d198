package model

// swagger:model Category
type Category struct {
	BaseModel
	Name     string `gorm:"size:100;uniqueIndex;not null" json:"name"`
	ImageURL string `gorm:"size:500" json:"imageUrl"`
}

func (Category) TableName() string {
	return "categories"
}
