package model

// Quiz 测验聚合根：题目与选项只随测验一起创建和删除
// swagger:model Quiz
type Quiz struct {
	BaseModel
	CourseID     uint           `gorm:"index;not null" json:"courseId"`
	Title        string         `gorm:"size:200;not null" json:"title"`
	Order        int            `gorm:"column:display_order;not null" json:"order"`
	PassingScore int            `gorm:"not null" json:"passingScore"`
	Questions    []QuizQuestion `gorm:"foreignKey:QuizID" json:"questions,omitempty"`
}

func (Quiz) TableName() string {
	return "quizzes"
}

// swagger:model QuizQuestion
type QuizQuestion struct {
	ID       uint         `gorm:"primaryKey;autoIncrement" json:"id"`
	QuizID   uint         `gorm:"index;not null" json:"quizId"`
	Text     string       `gorm:"type:text;not null" json:"text"`
	Position int          `json:"position"`
	Options  []QuizOption `gorm:"foreignKey:QuestionID" json:"options"`
}

func (QuizQuestion) TableName() string {
	return "quiz_questions"
}

// swagger:model QuizOption
type QuizOption struct {
	ID         uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	QuestionID uint   `gorm:"index;not null" json:"questionId"`
	Text       string `gorm:"type:text;not null" json:"text"`
	IsCorrect  bool   `json:"isCorrect"`
	Position   int    `json:"position"`
}

func (QuizOption) TableName() string {
	return "quiz_options"
}
