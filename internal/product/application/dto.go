package application

import (
	"time"

	"github.com/cristianortiz/bidmarket/internal/product/domain"
	"github.com/cristianortiz/bidmarket/internal/shared/pagination"
	"github.com/google/uuid"
)

type CreateProductDTO struct {
	Name          string
	Description   *string
	StockQuantity int
	CategoryIDs   []uuid.UUID
}

// UpdateProductDTO is a partial update. Empty CategoryIDs or no images keep
// the current ones.
type UpdateProductDTO struct {
	ProductID     uuid.UUID
	Name          *string
	Description   *string
	StockQuantity *int
	Status        *domain.Status
	CategoryIDs   []uuid.UUID
}

type ListProductsDTO struct {
	SellerID   uuid.UUID
	Name       string
	CategoryID *uuid.UUID
	Status     *domain.Status
	Page       pagination.Params
}

type CategoryDTO struct {
	CategoryID uuid.UUID `json:"categoryId"`
	Name       string    `json:"name"`
}

type ImageDTO struct {
	ImageID   uuid.UUID `json:"imageId"`
	ImageURL  string    `json:"imageUrl"`
	IsPrimary bool      `json:"isPrimary"`
}

type SellerDTO struct {
	UserID   uuid.UUID `json:"userId"`
	Username string    `json:"username"`
}

type ProductDTO struct {
	ProductID     uuid.UUID     `json:"productId"`
	Name          string        `json:"name"`
	Description   *string       `json:"description,omitempty"`
	StockQuantity int           `json:"stockQuantity"`
	Status        domain.Status `json:"status"`
	Seller        *SellerDTO    `json:"seller,omitempty"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
	Categories    []CategoryDTO `json:"categories"`
	Images        []ImageDTO    `json:"images"`
}

type CreatedProductDTO struct {
	ProductID uuid.UUID `json:"productId"`
}

func toCategoryDTOs(categories []domain.Category) []CategoryDTO {
	out := make([]CategoryDTO, 0, len(categories))
	for _, c := range categories {
		out = append(out, CategoryDTO{CategoryID: c.ID, Name: c.Name})
	}
	return out
}

func toProductDTO(p *domain.Product, urls URLResolver) ProductDTO {
	images := make([]ImageDTO, 0, len(p.Images))
	for _, img := range p.Images {
		images = append(images, ImageDTO{ImageID: img.ID, ImageURL: resolveURL(urls, img.Key), IsPrimary: img.IsPrimary})
	}
	return ProductDTO{
		ProductID:     p.ID,
		Name:          p.Name,
		Description:   p.Description,
		StockQuantity: p.StockQuantity,
		Status:        p.Status,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
		Categories:    toCategoryDTOs(p.Categories),
		Images:        images,
	}
}

func resolveURL(urls URLResolver, key string) string {
	if urls == nil {
		return key
	}
	return urls.URL(key)
}
