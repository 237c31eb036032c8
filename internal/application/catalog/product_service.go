package catalog

import (
	"context"
	"errors"
	"strings"

	"github.com/smarthomes/backend/internal/domain/catalog"
	"github.com/smarthomes/backend/internal/domain/shared"
	"github.com/smarthomes/backend/internal/domain/shared/valueobject"
	"github.com/smarthomes/backend/internal/infrastructure/telemetry"
)

// errUnchanged aborts a repository update that found nothing to change,
// so the document is not rewritten.
var errUnchanged = errors.New("catalog unchanged")

// ProductService handles catalog reads and store-manager edits
type ProductService struct {
	repo catalog.Repository
}

// NewProductService creates a new ProductService
func NewProductService(repo catalog.Repository) *ProductService {
	return &ProductService{repo: repo}
}

// ListProducts returns the whole catalog, keyed by category
func (s *ProductService) ListProducts(ctx context.Context) (*catalog.Catalog, error) {
	return s.repo.Load(ctx)
}

// ListCategory returns the products of one category
func (s *ProductService) ListCategory(ctx context.Context, category string) ([]ProductResponse, error) {
	c, err := s.repo.Load(ctx)
	if err != nil {
		return nil, err
	}
	products, ok := c.Products(category)
	if !ok {
		return nil, shared.NewNotFoundError("Category %s not found", category)
	}
	return ToProductResponses(products), nil
}

// GetProduct returns a product looked up within its category
func (s *ProductService) GetProduct(ctx context.Context, category string, id int64) (*ProductResponse, error) {
	c, err := s.repo.Load(ctx)
	if err != nil {
		return nil, err
	}
	p, ok := c.Find(category, id)
	if !ok {
		return nil, shared.NewNotFoundError("Product not found")
	}
	resp := ToProductResponse(p)
	return &resp, nil
}

// FindProduct returns a product from any category
func (s *ProductService) FindProduct(ctx context.Context, id int64) (catalog.Product, error) {
	c, err := s.repo.Load(ctx)
	if err != nil {
		return catalog.Product{}, err
	}
	p, ok := c.FindByID(id)
	if !ok {
		return catalog.Product{}, shared.NewNotFoundError("Product not found")
	}
	return p, nil
}

// LookupProduct returns a product from the given category, or from any
// category when category is empty
func (s *ProductService) LookupProduct(ctx context.Context, category string, id int64) (catalog.Product, error) {
	if category == "" {
		return s.FindProduct(ctx, id)
	}
	c, err := s.repo.Load(ctx)
	if err != nil {
		return catalog.Product{}, err
	}
	p, ok := c.Find(category, id)
	if !ok {
		return catalog.Product{}, shared.NewNotFoundError("Product not found")
	}
	return p, nil
}

// Categories lists every category with its display title and size
func (s *ProductService) Categories(ctx context.Context) ([]CategoryResponse, error) {
	c, err := s.repo.Load(ctx)
	if err != nil {
		return nil, err
	}
	return ToCategoryResponses(c.CategoryInfos()), nil
}

// Accessories returns the fixed accessory table
func (s *ProductService) Accessories() []AccessoryResponse {
	return ToAccessoryResponses(catalog.Accessories())
}

// ProductAccessories resolves the accessories listed by a product
func (s *ProductService) ProductAccessories(ctx context.Context, category string, id int64) ([]AccessoryResponse, error) {
	c, err := s.repo.Load(ctx)
	if err != nil {
		return nil, err
	}
	p, ok := c.Find(category, id)
	if !ok {
		return nil, shared.NewNotFoundError("Product not found")
	}
	return ToAccessoryResponses(catalog.AccessoriesFor(p)), nil
}

// AddProduct adds a product, minting an id one above the largest id in
// any category. An unknown category is created.
func (s *ProductService) AddProduct(ctx context.Context, req AddProductRequest) (*ProductResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "catalog", "add_product",
		telemetry.WithAttribute(telemetry.SpanAttrCategory, req.Category),
	)
	defer span.End()

	if req.Price == nil || strings.TrimSpace(req.Category) == "" || strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Description) == "" {
		return nil, shared.NewValidationError("All product fields are required")
	}
	price, err := valueobject.ParseMoney(req.Price)
	if err != nil {
		return nil, shared.NewValidationError("Product price must be a number")
	}

	var added catalog.Product
	err = s.repo.Update(ctx, func(c *catalog.Catalog) error {
		p, err := c.Add(req.Category, req.Name, price, req.Description, req.Accessories)
		if err != nil {
			return err
		}
		added = p
		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	telemetry.SetAttribute(span, telemetry.SpanAttrProductID, added.ID)
	resp := ToProductResponse(added)
	return &resp, nil
}

// DeleteProduct removes a product from one category. A product or
// category that does not exist is not an error; deleted reports whether
// anything was removed.
func (s *ProductService) DeleteProduct(ctx context.Context, category string, id int64) (deleted bool, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "catalog", "delete_product",
		telemetry.WithAttribute(telemetry.SpanAttrCategory, category),
		telemetry.WithAttribute(telemetry.SpanAttrProductID, id),
	)
	defer span.End()

	err = s.repo.Update(ctx, func(c *catalog.Catalog) error {
		if !c.Delete(category, id) {
			return errUnchanged
		}
		return nil
	})
	if errors.Is(err, errUnchanged) {
		return false, nil
	}
	if err != nil {
		telemetry.RecordError(span, err)
		return false, err
	}
	return true, nil
}

// UpdateProduct shallow-merges patch onto a product of one category. The
// id and category keys are ignored. An absent product is not an error;
// the returned product is nil in that case.
func (s *ProductService) UpdateProduct(ctx context.Context, category string, id int64, patch map[string]any) (*ProductResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "catalog", "update_product",
		telemetry.WithAttribute(telemetry.SpanAttrCategory, category),
		telemetry.WithAttribute(telemetry.SpanAttrProductID, id),
	)
	defer span.End()

	var updated catalog.Product
	err := s.repo.Update(ctx, func(c *catalog.Catalog) error {
		p, found, err := c.Update(category, id, patch)
		if err != nil {
			return err
		}
		if !found {
			return errUnchanged
		}
		updated = p
		return nil
	})
	if errors.Is(err, errUnchanged) {
		return nil, nil
	}
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	resp := ToProductResponse(updated)
	return &resp, nil
}
