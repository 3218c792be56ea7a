package rest

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/cristianortiz/bidmarket/internal/product/application"
	"github.com/cristianortiz/bidmarket/internal/product/domain"
	"github.com/cristianortiz/bidmarket/internal/shared/apperror"
	"github.com/cristianortiz/bidmarket/internal/shared/httpserver"
	"github.com/cristianortiz/bidmarket/internal/shared/identity"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const imagesField = "images"

// productForm holds the multipart text fields of create and update. Values
// are read by hand since categoryIds may repeat.
type productForm struct {
	ProductID     string   `json:"productId" validate:"omitempty,uuid"`
	Name          string   `json:"name" validate:"omitempty,max=255"`
	Description   *string  `json:"description"`
	StockQuantity *int     `json:"stockQuantity" validate:"omitempty,min=0"`
	Status        string   `json:"status" validate:"omitempty,oneof=ACTIVE INACTIVE SOLD"`
	CategoryIDs   []string `json:"categoryIds" validate:"dive,uuid"`
}

func readProductForm(c *fiber.Ctx) (productForm, error) {
	f := productForm{
		ProductID:   c.FormValue("productId"),
		Name:        strings.TrimSpace(c.FormValue("name")),
		Status:      c.FormValue("status"),
		CategoryIDs: httpserver.FormValues(c, "categoryIds"),
	}
	if raw := c.FormValue("description"); raw != "" {
		f.Description = &raw
	}
	if raw := c.FormValue("stockQuantity"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return f, apperror.ErrValidation.WithMessage("stockQuantity must be an integer")
		}
		f.StockQuantity = &n
	}
	return f, httpserver.Validate(f)
}

func parseIDs(raw []string) []uuid.UUID {
	ids := make([]uuid.UUID, len(raw))
	for i, s := range raw {
		// already validated as uuid
		ids[i] = uuid.MustParse(s)
	}
	return ids
}

type ProductHandler struct {
	service application.ProductService
	auth    *httpserver.Authenticator
}

func NewProductHandler(service application.ProductService, auth *httpserver.Authenticator) *ProductHandler {
	return &ProductHandler{service: service, auth: auth}
}

func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/categories", h.categories)

	g := router.Group("/products")
	g.Get("/user/:userId", h.auth.Optional(), h.listBySeller)
	g.Get("/:id", h.auth.Optional(), h.get)
	g.Post("/", h.auth.Required(), httpserver.RequireRoles(identity.RoleSeller), h.create)
	g.Put("/", h.auth.Required(), httpserver.RequireRoles(identity.RoleSeller), h.update)
	g.Delete("/:ids", h.auth.Required(), httpserver.RequireRoles(identity.RoleSeller), h.delete)
}

func (h *ProductHandler) create(c *fiber.Ctx) error {
	form, err := readProductForm(c)
	if err != nil {
		return err
	}
	if form.Name == "" {
		return apperror.ErrValidation.WithMessage("name is required")
	}
	if form.StockQuantity == nil {
		return apperror.ErrValidation.WithMessage("stockQuantity is required")
	}
	if len(form.CategoryIDs) == 0 {
		return apperror.ErrValidation.WithMessage("categoryIds must contain at least one category")
	}

	images, release, err := httpserver.FormFiles(c, imagesField)
	if err != nil {
		return err
	}
	defer release()

	in := application.CreateProductDTO{
		Name:          form.Name,
		Description:   form.Description,
		StockQuantity: *form.StockQuantity,
		CategoryIDs:   parseIDs(form.CategoryIDs),
	}
	out, err := h.service.CreateProduct(c.UserContext(), httpserver.ActorFrom(c), in, images)
	if err != nil {
		return err
	}
	return httpserver.Respond(c, http.StatusCreated, "Product created successfully", out)
}

func (h *ProductHandler) update(c *fiber.Ctx) error {
	form, err := readProductForm(c)
	if err != nil {
		return err
	}
	if form.ProductID == "" {
		return apperror.ErrValidation.WithMessage("productId is required")
	}

	in := application.UpdateProductDTO{
		ProductID:     uuid.MustParse(form.ProductID),
		Description:   form.Description,
		StockQuantity: form.StockQuantity,
		CategoryIDs:   parseIDs(form.CategoryIDs),
	}
	if form.Name != "" {
		in.Name = &form.Name
	}
	if form.Status != "" {
		status := domain.Status(form.Status)
		in.Status = &status
	}

	images, release, err := httpserver.FormFiles(c, imagesField)
	if err != nil {
		return err
	}
	defer release()

	if err := h.service.UpdateProduct(c.UserContext(), httpserver.ActorFrom(c), in, images); err != nil {
		return err
	}
	return httpserver.Respond(c, http.StatusOK, "Product updated successfully", httpserver.Empty())
}

func (h *ProductHandler) get(c *fiber.Ctx) error {
	id, err := httpserver.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	out, err := h.service.GetProduct(c.UserContext(), httpserver.ActorFrom(c), id)
	if err != nil {
		return err
	}
	return httpserver.Respond(c, http.StatusOK, "Product fetched successfully", out)
}

func (h *ProductHandler) listBySeller(c *fiber.Ctx) error {
	sellerID, err := httpserver.ParamUUID(c, "userId")
	if err != nil {
		return err
	}
	in := application.ListProductsDTO{SellerID: sellerID, Name: c.Query("name")}
	if in.Page, err = httpserver.QueryPage(c); err != nil {
		return err
	}
	if in.CategoryID, err = httpserver.QueryUUID(c, "categoryId"); err != nil {
		return err
	}
	if raw := c.Query("status"); raw != "" {
		status := domain.Status(raw)
		if !status.Valid() {
			return apperror.ErrValidation.WithMessage("status must be one of ACTIVE, INACTIVE, SOLD")
		}
		in.Status = &status
	}

	out, err := h.service.ListSellerProducts(c.UserContext(), httpserver.ActorFrom(c), in)
	if err != nil {
		return err
	}
	return httpserver.Respond(c, http.StatusOK, "Products fetched successfully", out)
}

func (h *ProductHandler) delete(c *fiber.Ctx) error {
	var ids []uuid.UUID
	for _, raw := range strings.Split(c.Params("ids"), ",") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			return apperror.ErrValidation.WithMessage("ids must be comma separated UUIDs")
		}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return domain.ErrNoProductsProvided
	}
	if err := h.service.DeleteProducts(c.UserContext(), httpserver.ActorFrom(c), ids); err != nil {
		return err
	}
	return httpserver.Respond(c, http.StatusOK, "Products deleted successfully", httpserver.Empty())
}

func (h *ProductHandler) categories(c *fiber.Ctx) error {
	out, err := h.service.ListCategories(c.UserContext())
	if err != nil {
		return err
	}
	return httpserver.Respond(c, http.StatusOK, "Categories fetched successfully", out)
}
