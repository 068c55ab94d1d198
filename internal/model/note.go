package model

import "time"

// Note 每个用户在每个课时下最多一条笔记
// swagger:model Note
type Note struct {
	ID         uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID     uint      `gorm:"uniqueIndex:uq_notes_user_lecture,priority:1;not null" json:"userId"`
	LectureID  uint      `gorm:"uniqueIndex:uq_notes_user_lecture,priority:2;not null" json:"lectureId"`
	Content    string    `gorm:"type:text" json:"content"`
	CreatedAt  time.Time `json:"createdAt"`
	ModifiedAt time.Time `gorm:"index" json:"modifiedAt"`
}

func (Note) TableName() string {
	return "notes"
}

// NoteSummary “我的笔记”列表行，连表带出课时与课程信息
type NoteSummary struct {
	ID              uint      `json:"id"`
	Content         string    `json:"content"`
	ModifiedAt      time.Time `json:"modifiedAt"`
	LectureID       uint      `json:"lectureId"`
	LectureTitle    string    `json:"lectureTitle"`
	CourseID        uint      `json:"courseId"`
	CourseTitle     string    `json:"courseTitle"`
	CourseThumbnail string    `json:"courseThumbnail"`
}
