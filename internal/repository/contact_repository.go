package repository

import (
	"context"
	"coursehub_backend/internal/model"

	"gorm.io/gorm"
)

type ContactRepository struct {
	DB *gorm.DB
}

func NewContactRepository(db *gorm.DB) *ContactRepository {
	return &ContactRepository{DB: db}
}

func (r *ContactRepository) Create(ctx context.Context, msg *model.ContactMessage) error {
	return r.DB.WithContext(ctx).Create(msg).Error
}

func (r *ContactRepository) List(ctx context.Context, page, limit int) ([]model.ContactMessage, int64, error) {
	var total int64
	query := r.DB.WithContext(ctx).Model(&model.ContactMessage{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	list := make([]model.ContactMessage, 0)
	offset := (page - 1) * limit
	err := query.Order("created_at desc, id desc").Offset(offset).Limit(limit).Find(&list).Error
	return list, total, err
}
