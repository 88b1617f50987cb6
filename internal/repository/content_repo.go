package repository

import (
	"context"
	"fmt"

	"github.com/ahmetcoskunkizilkaya/intelligent-content-api/internal/models"
	"gorm.io/gorm"
)

type ContentRepository struct {
	db *gorm.DB
}

func NewContentRepository(db *gorm.DB) *ContentRepository {
	return &ContentRepository{db: db}
}

func (r *ContentRepository) Create(ctx context.Context, content *models.Content) error {
	if err := r.db.WithContext(ctx).Create(content).Error; err != nil {
		return fmt.Errorf("create content: %w", err)
	}
	return nil
}

// UpdateAnalysis patches the enrichment columns of an existing row. It
// returns ErrNotFound if the row vanished in the meantime.
func (r *ContentRepository) UpdateAnalysis(ctx context.Context, id uint, summary, sentiment string) error {
	result := r.db.WithContext(ctx).
		Model(&models.Content{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"summary":   summary,
			"sentiment": sentiment,
		})
	if result.Error != nil {
		return fmt.Errorf("update content analysis: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListByOwner returns the {id, text} projection of every row owned by
// ownerID, oldest first.
func (r *ContentRepository) ListByOwner(ctx context.Context, ownerID uint) ([]models.ContentItem, error) {
	items := make([]models.ContentItem, 0)
	err := r.db.WithContext(ctx).
		Model(&models.Content{}).
		Scopes(OwnedBy(ownerID)).
		Select("id", "text").
		Order("id").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("list contents: %w", err)
	}
	return items, nil
}

// GetByOwner loads one row. Rows of other owners are reported as ErrNotFound.
func (r *ContentRepository) GetByOwner(ctx context.Context, id, ownerID uint) (*models.Content, error) {
	var content models.Content
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		Scopes(OwnedBy(ownerID)).
		First(&content).Error
	if err != nil {
		return nil, translate(err)
	}
	return &content, nil
}

// DeleteByOwner removes one row owned by ownerID, or returns ErrNotFound.
func (r *ContentRepository) DeleteByOwner(ctx context.Context, id, ownerID uint) error {
	result := r.db.WithContext(ctx).
		Where("id = ?", id).
		Scopes(OwnedBy(ownerID)).
		Delete(&models.Content{})
	if result.Error != nil {
		return fmt.Errorf("delete content: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
