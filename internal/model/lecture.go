package model

// swagger:model Lecture
type Lecture struct {
	BaseModel
	CourseID        uint    `gorm:"index;not null" json:"courseId"`
	Title           string  `gorm:"size:200;not null" json:"title"`
	VideoURL        string  `gorm:"size:500" json:"videoUrl"`
	ContentText     string  `gorm:"type:text" json:"contentText"`
	Order           int     `gorm:"column:display_order;not null" json:"order"`
	IsPreview       bool    `json:"isPreview"`
	DurationSeconds float64 `json:"durationSeconds"` // 上传视频时由 ffprobe 解析

	Course *Course `gorm:"foreignKey:CourseID" json:"-"`
}

func (Lecture) TableName() string {
	return "lectures"
}
