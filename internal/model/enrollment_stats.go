package model

import "github.com/shopspring/decimal"

// InstructorStats 讲师名下课程的选课汇总
type InstructorStats struct {
	InstructorID    uint            `json:"instructorId"`
	EnrollmentCount int64           `json:"enrollmentCount"`
	UniqueStudents  int64           `json:"uniqueStudents"`
	TotalRevenue    decimal.Decimal `json:"totalRevenue"`
}
