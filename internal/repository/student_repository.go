package repository

import (
	"context"
	"errors"

	"subject_recommender/internal/model"
	"subject_recommender/internal/util"

	"gorm.io/gorm"
)

// StudentRepository 学生档案（只读）
type StudentRepository struct {
	DB *gorm.DB
}

func NewStudentRepository(db *gorm.DB) *StudentRepository {
	return &StudentRepository{DB: db}
}

func (r *StudentRepository) FindByID(ctx context.Context, id uint) (*model.Student, error) {
	var student model.Student
	err := r.DB.WithContext(ctx).First(&student, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrStudentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &student, nil
}
