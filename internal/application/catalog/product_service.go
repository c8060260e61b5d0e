package catalog

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/icepoint/backend/internal/domain/catalog"
	"github.com/icepoint/backend/internal/domain/shared"
)

// ImageStorage stores product and profile images and serves public URLs
type ImageStorage interface {
	// UploadImage processes and stores the image, returning its public URL
	UploadImage(ctx context.Context, key string, data []byte) (string, error)
	DeleteImage(ctx context.Context, key string) error
}

// ProductService manages the product catalog
type ProductService struct {
	productRepo  catalog.ProductRepository
	categoryRepo catalog.CategoryRepository
	storage      ImageStorage
	logger       *zap.Logger
}

// NewProductService creates a new ProductService
func NewProductService(productRepo catalog.ProductRepository, categoryRepo catalog.CategoryRepository, storage ImageStorage, logger *zap.Logger) *ProductService {
	return &ProductService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		storage:      storage,
		logger:       logger,
	}
}

// List returns a paginated catalog page. Staff sees everything; the
// storefront only sees available products.
func (s *ProductService) List(ctx context.Context, filter shared.Filter, includeUnavailable bool) (*shared.Paginated[ProductResponse], error) {
	var (
		products []catalog.Product
		total    int64
		err      error
	)
	if includeUnavailable {
		products, total, err = s.productRepo.FindAll(ctx, filter)
	} else {
		products, total, err = s.productRepo.FindAvailable(ctx, filter)
	}
	if err != nil {
		return nil, err
	}

	views := make([]ProductResponse, 0, len(products))
	for i := range products {
		views = append(views, ToProductResponse(&products[i]))
	}
	page := shared.NewPaginated(views, total, filter.Page, filter.PageSize)
	return &page, nil
}

// ListHighlighted returns the storefront highlight shelf
func (s *ProductService) ListHighlighted(ctx context.Context) ([]ProductResponse, error) {
	products, err := s.productRepo.FindHighlighted(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]ProductResponse, 0, len(products))
	for i := range products {
		views = append(views, ToProductResponse(&products[i]))
	}
	return views, nil
}

// Get returns one product by id
func (s *ProductService) Get(ctx context.Context, id int64) (*ProductResponse, error) {
	p, err := s.findProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToProductResponse(p)
	return &resp, nil
}

// Create creates a new catalog product
func (s *ProductService) Create(ctx context.Context, req CreateProductRequest) (*ProductResponse, error) {
	p, err := catalog.NewProduct(req.Name, req.Description, req.Price)
	if err != nil {
		return nil, err
	}
	if req.Available != nil {
		p.SetAvailability(*req.Available)
	}
	p.SetHighlight(req.Highlight)
	p.Ingredients = req.Ingredients
	p.Allergens = req.Allergens
	p.Nutrition = req.Nutrition.toDomain()

	if req.CategoryID != nil {
		if err := s.checkCategory(ctx, *req.CategoryID); err != nil {
			return nil, err
		}
		p.AssignCategory(*req.CategoryID)
	}

	if err := s.productRepo.Save(ctx, p); err != nil {
		return nil, err
	}

	s.logger.Info("product created", zap.Int64("product_id", p.ID), zap.String("name", p.Name))
	resp := ToProductResponse(p)
	return &resp, nil
}

// Update applies a partial update to a product
func (s *ProductService) Update(ctx context.Context, id int64, req UpdateProductRequest) (*ProductResponse, error) {
	p, err := s.findProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if *req.Name == "" {
			return nil, shared.NewValidationError("Product name cannot be empty")
		}
		p.Name = *req.Name
	}
	if req.Description != nil {
		p.Description = *req.Description
	}
	if req.Price != nil {
		if err := p.UpdatePrice(*req.Price); err != nil {
			return nil, err
		}
	}
	if req.Available != nil {
		p.SetAvailability(*req.Available)
	}
	if req.Highlight != nil {
		p.SetHighlight(*req.Highlight)
	}
	if req.Ingredients != nil {
		p.Ingredients = *req.Ingredients
	}
	if req.Allergens != nil {
		p.Allergens = *req.Allergens
	}
	if req.Nutrition != nil {
		p.Nutrition = req.Nutrition.toDomain()
	}
	if req.CategoryID != nil {
		if *req.CategoryID == 0 {
			p.ClearCategory()
		} else {
			if err := s.checkCategory(ctx, *req.CategoryID); err != nil {
				return nil, err
			}
			p.AssignCategory(*req.CategoryID)
		}
	}

	if err := s.productRepo.Save(ctx, p); err != nil {
		return nil, err
	}
	resp := ToProductResponse(p)
	return &resp, nil
}

// Delete removes a product and its stored image
func (s *ProductService) Delete(ctx context.Context, id int64) error {
	p, err := s.findProduct(ctx, id)
	if err != nil {
		return err
	}
	if err := s.productRepo.Delete(ctx, id); err != nil {
		return err
	}
	if p.ImageURL != "" {
		if err := s.storage.DeleteImage(ctx, productImageKey(id)); err != nil {
			s.logger.Warn("failed to delete product image", zap.Int64("product_id", id), zap.Error(err))
		}
	}
	return nil
}

// UploadImage stores the product photo and records its public URL.
// The key is stable per product, so re-uploads overwrite in place.
func (s *ProductService) UploadImage(ctx context.Context, id int64, data []byte) (*ProductResponse, error) {
	p, err := s.findProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	url, err := s.storage.UploadImage(ctx, productImageKey(id), data)
	if err != nil {
		return nil, err
	}

	p.SetImage(url)
	if err := s.productRepo.Save(ctx, p); err != nil {
		return nil, err
	}

	resp := ToProductResponse(p)
	return &resp, nil
}

func (s *ProductService) findProduct(ctx context.Context, id int64) (*catalog.Product, error) {
	p, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewNotFoundError("Product not found")
		}
		return nil, err
	}
	return p, nil
}

func (s *ProductService) checkCategory(ctx context.Context, id int64) error {
	if _, err := s.categoryRepo.FindByID(ctx, id); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewValidationError("Category does not exist")
		}
		return err
	}
	return nil
}

func productImageKey(id int64) string {
	return fmt.Sprintf("products/%d.jpg", id)
}
