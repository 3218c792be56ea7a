package application

import (
	"context"

	"github.com/cristianortiz/bidmarket/internal/shared/identity"
	"github.com/cristianortiz/bidmarket/internal/shared/pagination"
	"github.com/cristianortiz/bidmarket/internal/shared/storage"
	"github.com/google/uuid"
)

type GetProductDTO struct {
	ProductID uuid.UUID
}

type ProductService interface {
	CreateProduct(ctx context.Context, actor identity.Actor, in CreateProductDTO, images []storage.File) (*CreatedProductDTO, error)
	UpdateProduct(ctx context.Context, actor identity.Actor, in UpdateProductDTO, images []storage.File) error
	GetProduct(ctx context.Context, viewer identity.Actor, productID uuid.UUID) (*ProductDTO, error)
	ListSellerProducts(ctx context.Context, viewer identity.Actor, in ListProductsDTO) (pagination.Result[ProductDTO], error)
	DeleteProducts(ctx context.Context, actor identity.Actor, ids []uuid.UUID) error
	ListCategories(ctx context.Context) ([]CategoryDTO, error)
}

type productService struct {
	createUC     *CreateProductUseCase
	updateUC     *UpdateProductUseCase
	getUC        *GetProductUseCase
	listUC       *ListProductsUseCase
	deleteUC     *DeleteProductsUseCase
	categoriesUC *ListCategoriesUseCase
}

func NewProductService(
	createUC *CreateProductUseCase,
	updateUC *UpdateProductUseCase,
	getUC *GetProductUseCase,
	listUC *ListProductsUseCase,
	deleteUC *DeleteProductsUseCase,
	categoriesUC *ListCategoriesUseCase,
) ProductService {
	return &productService{
		createUC:     createUC,
		updateUC:     updateUC,
		getUC:        getUC,
		listUC:       listUC,
		deleteUC:     deleteUC,
		categoriesUC: categoriesUC,
	}
}

func (s *productService) CreateProduct(ctx context.Context, actor identity.Actor, in CreateProductDTO, images []storage.File) (*CreatedProductDTO, error) {
	return s.createUC.Execute(ctx, actor, in, images)
}

func (s *productService) UpdateProduct(ctx context.Context, actor identity.Actor, in UpdateProductDTO, images []storage.File) error {
	return s.updateUC.Execute(ctx, actor, in, images)
}

func (s *productService) GetProduct(ctx context.Context, viewer identity.Actor, productID uuid.UUID) (*ProductDTO, error) {
	return s.getUC.Execute(ctx, viewer, GetProductDTO{ProductID: productID})
}

func (s *productService) ListSellerProducts(ctx context.Context, viewer identity.Actor, in ListProductsDTO) (pagination.Result[ProductDTO], error) {
	return s.listUC.Execute(ctx, viewer, in)
}

func (s *productService) DeleteProducts(ctx context.Context, actor identity.Actor, ids []uuid.UUID) error {
	return s.deleteUC.Execute(ctx, actor, ids)
}

func (s *productService) ListCategories(ctx context.Context) ([]CategoryDTO, error) {
	return s.categoriesUC.Execute(ctx)
}
