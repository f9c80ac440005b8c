package repository

import (
	"context"

	"studiojb-backend/models"

	"gorm.io/gorm"
)

type gormClients struct{ db *gorm.DB }

func (r *gormClients) Create(ctx context.Context, c *models.Client) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *gormClients) FindByID(ctx context.Context, id uint) (*models.Client, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *gormClients) FindByPhone(ctx context.Context, phone string) (*models.Client, error) {
	return r.first(ctx, "phone = ?", phone)
}

func (r *gormClients) FindByCPF(ctx context.Context, cpf string) (*models.Client, error) {
	return r.first(ctx, "cpf = ?", cpf)
}

func (r *gormClients) first(ctx context.Context, query string, arg interface{}) (*models.Client, error) {
	var c models.Client
	if err := r.db.WithContext(ctx).Where(query, arg).First(&c).Error; err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

func (r *gormClients) List(ctx context.Context) ([]models.Client, error) {
	var clients []models.Client
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&clients).Error; err != nil {
		return nil, err
	}
	return clients, nil
}

func (r *gormClients) Save(ctx context.Context, c *models.Client) error {
	return r.db.WithContext(ctx).Save(c).Error
}
