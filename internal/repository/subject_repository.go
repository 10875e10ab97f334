package repository

import (
	"context"

	"subject_recommender/internal/model"

	"gorm.io/gorm"
)

// SubjectRepository 课程目录（只读）
type SubjectRepository struct {
	DB *gorm.DB
}

func NewSubjectRepository(db *gorm.DB) *SubjectRepository {
	return &SubjectRepository{DB: db}
}

func (r *SubjectRepository) listQuery(ctx context.Context) *gorm.DB {
	return r.DB.WithContext(ctx).Preload("Info").Order("id asc")
}

// ListWithInfo returns the whole catalog ordered by id, each subject with its info.
func (r *SubjectRepository) ListWithInfo(ctx context.Context) ([]model.Subject, error) {
	var subjects []model.Subject
	err := r.listQuery(ctx).Find(&subjects).Error
	return subjects, err
}
