package model

import (
	"time"
)

// BaseModel 通用主键与时间戳，所有删除均为物理删除
// swagger:model
type BaseModel struct {
	ID         uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt  time.Time `json:"createdAt"`
	ModifiedAt time.Time `gorm:"autoUpdateTime" json:"modifiedAt"`
}
