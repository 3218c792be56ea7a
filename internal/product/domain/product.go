package domain

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusActive   Status = "ACTIVE"
	StatusInactive Status = "INACTIVE"
	StatusSold     Status = "SOLD"
)

func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusInactive, StatusSold:
		return true
	}
	return false
}

type Category struct {
	ID   uuid.UUID
	Name string
}

// Image points at a stored object. Key is resolved to a URL on output.
type Image struct {
	ID        uuid.UUID
	Key       string
	IsPrimary bool
}

type Product struct {
	ID            uuid.UUID
	SellerID      uuid.UUID
	SellerName    string
	Name          string
	Description   *string
	StockQuantity int
	Status        Status
	CreatedAt     time.Time
	UpdatedAt     time.Time
	Categories    []Category
	Images        []Image
}

// NewProduct builds an INACTIVE product. The first image is the primary one.
func NewProduct(sellerID uuid.UUID, name string, description *string, stock int, categoryIDs []uuid.UUID, imageKeys []string) *Product {
	p := &Product{
		ID:            uuid.New(),
		SellerID:      sellerID,
		Name:          name,
		Description:   description,
		StockQuantity: stock,
		Status:        StatusInactive,
	}
	for _, id := range categoryIDs {
		p.Categories = append(p.Categories, Category{ID: id})
	}
	p.Images = NewImages(imageKeys)
	return p
}

func NewImages(keys []string) []Image {
	images := make([]Image, 0, len(keys))
	for i, key := range keys {
		images = append(images, Image{ID: uuid.New(), Key: key, IsPrimary: i == 0})
	}
	return images
}

// VisibleTo hides SOLD and INACTIVE products from everyone but their seller.
func (p *Product) VisibleTo(viewer uuid.UUID) bool {
	if p.SellerID == viewer {
		return true
	}
	return p.Status == StatusActive
}

// Edit is a partial update. Nil fields are left unchanged.
type Edit struct {
	Name          *string
	Description   *string
	StockQuantity *int
	Status        *Status
}

// Apply checks the SOLD rules before mutating.
func (p *Product) Apply(e Edit) error {
	if p.Status == StatusSold {
		return ErrCannotUpdateSoldProduct
	}
	if e.Status != nil && *e.Status == StatusSold {
		return ErrCannotSetStatusSold
	}
	if e.Name != nil {
		p.Name = *e.Name
	}
	if e.Description != nil {
		p.Description = e.Description
	}
	if e.StockQuantity != nil {
		p.StockQuantity = *e.StockQuantity
	}
	if e.Status != nil {
		p.Status = *e.Status
	}
	return nil
}
