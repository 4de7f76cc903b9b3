package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/analoghub/backend/internal/domain"
)

// createBatchSize bounds the rows per INSERT statement
const createBatchSize = 500

// ToolRepository is a domain.ToolRepository on GORM
type ToolRepository struct {
	db *gorm.DB
}

// NewToolRepository creates a new tool repository
func NewToolRepository(db *gorm.DB) *ToolRepository {
	return &ToolRepository{db: db}
}

// Create inserts tools in one transaction
func (r *ToolRepository) Create(ctx context.Context, tools []domain.Tool) error {
	err := r.db.WithContext(ctx).CreateInBatches(&tools, createBatchSize).Error
	return translate(err)
}

// List returns a page of tools ordered by title
func (r *ToolRepository) List(ctx context.Context, offset, limit int) ([]domain.Tool, error) {
	var tools []domain.Tool
	err := r.db.WithContext(ctx).
		Order("title").Order("manufacturer").
		Offset(offset).Limit(limit).
		Find(&tools).Error
	if err != nil {
		return nil, fmt.Errorf("list tools: %w", err)
	}
	return tools, nil
}

// GetByTitle finds a tool by normalized title and manufacturer
func (r *ToolRepository) GetByTitle(ctx context.Context, baseTitle, manufacturer string) (*domain.Tool, error) {
	var tool domain.Tool
	err := r.db.WithContext(ctx).
		Where("base_title = ? AND manufacturer = ?", baseTitle, manufacturer).
		First(&tool).Error
	if err != nil {
		return nil, translate(err)
	}
	return &tool, nil
}

// Update overwrites the editable fields of each tool, located by base title
// and manufacturer. All updates share one transaction; a missing tool rolls
// back the whole batch with ErrNotFound.
func (r *ToolRepository) Update(ctx context.Context, tools []domain.Tool) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		for _, t := range tools {
			res := tx.Model(&domain.Tool{}).
				Where("base_title = ? AND manufacturer = ?", t.BaseTitle, t.Manufacturer).
				Updates(map[string]interface{}{
					"article":     t.Article,
					"title":       t.Title,
					"description": t.Description,
					"price":       t.Price,
					"currency":    t.Currency,
					"updated_at":  now,
				})
			if res.Error != nil {
				return translate(res.Error)
			}
			if res.RowsAffected == 0 {
				return fmt.Errorf("%w: tool %q of %s", domain.ErrNotFound, t.Title, t.Manufacturer)
			}
		}
		return nil
	})
}

// Delete removes tools by id. Deleting nothing is ErrNotFound.
func (r *ToolRepository) Delete(ctx context.Context, ids []string) error {
	res := r.db.WithContext(ctx).Where("id IN ?", ids).Delete(&domain.Tool{})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// translate maps driver errors to domain errors
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return domain.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %v", domain.ErrDuplicateTool, err)
	default:
		return err
	}
}
