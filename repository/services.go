package repository

import (
	"context"

	"studiojb-backend/models"

	"gorm.io/gorm"
)

type gormServices struct{ db *gorm.DB }

func (r *gormServices) Create(ctx context.Context, s *models.Service) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *gormServices) FindByID(ctx context.Context, id uint) (*models.Service, error) {
	var s models.Service
	if err := r.db.WithContext(ctx).First(&s, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &s, nil
}

func (r *gormServices) List(ctx context.Context, category string, activeOnly bool) ([]models.Service, error) {
	q := r.db.WithContext(ctx).Model(&models.Service{})
	if category != "" {
		q = q.Where("category = ?", category).Order("name ASC")
	} else {
		q = q.Order("category ASC").Order("name ASC")
	}
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	var services []models.Service
	if err := q.Find(&services).Error; err != nil {
		return nil, err
	}
	return services, nil
}

func (r *gormServices) Save(ctx context.Context, s *models.Service) error {
	return r.db.WithContext(ctx).Save(s).Error
}

func (r *gormServices) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Service{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
