package domain

import (
	"net/http"

	"github.com/cristianortiz/bidmarket/internal/shared/apperror"
)

var (
	ErrProductNotFound         = apperror.New(http.StatusNotFound, "PRODUCT_NOT_FOUND", "Product not found")
	ErrNoProductsProvided      = apperror.New(http.StatusBadRequest, "NO_PRODUCTS_PROVIDED", "No products provided")
	ErrCategoriesNotFound      = apperror.New(http.StatusBadRequest, "CATEGORIES_NOT_FOUND", "One or more categories do not exist")
	ErrCannotUpdateSoldProduct = apperror.New(http.StatusBadRequest, "CANNOT_UPDATE_SOLD_PRODUCT", "Cannot update a sold product")
	ErrCannotSetStatusSold     = apperror.New(http.StatusBadRequest, "CANNOT_SET_STATUS_SOLD", "Cannot manually set status to SOLD")
	ErrInsufficientStock       = apperror.New(http.StatusBadRequest, "INSUFFICIENT_STOCK", "Not enough stock for the requested quantity")
)
