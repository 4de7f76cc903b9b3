package usecase

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/analoghub/backend/internal/domain"
	"github.com/analoghub/backend/internal/textnorm"
)

// Default page size of tool listings
const DefaultToolPageSize = 10

// ToolService manages priced tool records
type ToolService struct {
	repo domain.ToolRepository
}

// NewToolService creates a new tool service with dependencies
func NewToolService(repo domain.ToolRepository) *ToolService {
	return &ToolService{repo: repo}
}

// List returns one page of tools
func (s *ToolService) List(ctx context.Context, pageNum, pageSize int) ([]domain.Tool, error) {
	if pageNum < 0 || pageSize < 1 {
		return nil, fmt.Errorf("%w: page_num must be >= 0 and page_size >= 1", domain.ErrInvalidRequest)
	}
	return s.repo.List(ctx, pageNum*pageSize, pageSize)
}

// Get finds a tool by title and manufacturer. Titles match after normalization.
func (s *ToolService) Get(ctx context.Context, title, manufacturer string) (*domain.Tool, error) {
	if title == "" || manufacturer == "" {
		return nil, fmt.Errorf("%w: title and manufacturer are required", domain.ErrInvalidRequest)
	}
	return s.repo.GetByTitle(ctx, textnorm.Normalize(title), manufacturer)
}

// Create stores new tools; a duplicate title and manufacturer rejects the whole batch
func (s *ToolService) Create(ctx context.Context, inputs []domain.ToolInput) error {
	tools := make([]domain.Tool, 0, len(inputs))
	for _, in := range inputs {
		t := toolFromInput(in)
		t.ID = uuid.NewString()
		tools = append(tools, t)
	}
	return s.repo.Create(ctx, tools)
}

// Update overwrites existing tools located by title and manufacturer
func (s *ToolService) Update(ctx context.Context, inputs []domain.ToolInput) error {
	tools := make([]domain.Tool, 0, len(inputs))
	for _, in := range inputs {
		tools = append(tools, toolFromInput(in))
	}
	return s.repo.Update(ctx, tools)
}

// Delete removes tools by id
func (s *ToolService) Delete(ctx context.Context, ids []string) error {
	for _, id := range ids {
		if _, err := uuid.Parse(id); err != nil {
			return fmt.Errorf("%w: bad tool id %q", domain.ErrInvalidRequest, id)
		}
	}
	return s.repo.Delete(ctx, ids)
}

// toolFromInput derives the stored tool, recomputing the normalized title
func toolFromInput(in domain.ToolInput) domain.Tool {
	return domain.Tool{
		Article:      in.Article,
		Title:        in.Title,
		BaseTitle:    textnorm.Normalize(in.Title),
		Manufacturer: in.Manufacturer,
		Description:  in.Description,
		Price:        in.Price,
		Currency:     in.Currency,
	}
}
