package catalog

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/icepoint/backend/internal/domain/catalog"
	"github.com/icepoint/backend/internal/domain/shared"
)

// MockProductRepository is a mock implementation of catalog.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByID(ctx context.Context, id int64) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByIDs(ctx context.Context, ids []int64) ([]catalog.Product, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Product, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]catalog.Product), args.Get(1).(int64), args.Error(2)
}

func (m *MockProductRepository) FindAvailable(ctx context.Context, filter shared.Filter) ([]catalog.Product, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]catalog.Product), args.Get(1).(int64), args.Error(2)
}

func (m *MockProductRepository) FindHighlighted(ctx context.Context) ([]catalog.Product, error) {
	args := m.Called(ctx)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockCategoryRepository is a mock implementation of catalog.CategoryRepository
type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) FindByID(ctx context.Context, id int64) (*catalog.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Category), args.Error(1)
}

func (m *MockCategoryRepository) FindAll(ctx context.Context) ([]catalog.Category, error) {
	args := m.Called(ctx)
	return args.Get(0).([]catalog.Category), args.Error(1)
}

func (m *MockCategoryRepository) Save(ctx context.Context, category *catalog.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockCategoryRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockImageStorage is a mock implementation of ImageStorage
type MockImageStorage struct {
	mock.Mock
}

func (m *MockImageStorage) UploadImage(ctx context.Context, key string, data []byte) (string, error) {
	args := m.Called(ctx, key, data)
	return args.String(0), args.Error(1)
}

func (m *MockImageStorage) DeleteImage(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func newProductFixture() (*MockProductRepository, *MockCategoryRepository, *MockImageStorage, *ProductService) {
	productRepo := new(MockProductRepository)
	categoryRepo := new(MockCategoryRepository)
	storage := new(MockImageStorage)
	svc := NewProductService(productRepo, categoryRepo, storage, zap.NewNop())
	return productRepo, categoryRepo, storage, svc
}

func storedProduct(id int64, name, price string) *catalog.Product {
	p, _ := catalog.NewProduct(name, "", decimal.RequireFromString(price))
	p.ID = id
	return p
}

func TestProductService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a product with a valid category", func(t *testing.T) {
		productRepo, categoryRepo, _, svc := newProductFixture()
		category, _ := catalog.NewCategory("Picolés", "")
		category.ID = 3
		categoryRepo.On("FindByID", mock.Anything, int64(3)).Return(category, nil)
		productRepo.On("Save", mock.Anything, mock.AnythingOfType("*catalog.Product")).Return(nil)

		categoryID := int64(3)
		resp, err := svc.Create(ctx, CreateProductRequest{
			Name:       "Picolé de manga",
			Price:      decimal.RequireFromString("8.50"),
			Highlight:  true,
			CategoryID: &categoryID,
		})
		require.NoError(t, err)
		assert.Equal(t, "Picolé de manga", resp.Name)
		assert.True(t, resp.Available, "products default to available")
		assert.True(t, resp.Highlight)
		require.NotNil(t, resp.CategoryID)
		assert.Equal(t, int64(3), *resp.CategoryID)
	})

	t.Run("rejects an unknown category", func(t *testing.T) {
		productRepo, categoryRepo, _, svc := newProductFixture()
		categoryRepo.On("FindByID", mock.Anything, int64(99)).Return(nil, shared.ErrNotFound)

		categoryID := int64(99)
		_, err := svc.Create(ctx, CreateProductRequest{
			Name:       "Picolé de manga",
			Price:      decimal.RequireFromString("8.50"),
			CategoryID: &categoryID,
		})
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, shared.CodeValidation, domainErr.Code)
		productRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("rejects a negative price", func(t *testing.T) {
		_, _, _, svc := newProductFixture()
		_, err := svc.Create(ctx, CreateProductRequest{
			Name:  "Picolé",
			Price: decimal.RequireFromString("-1.00"),
		})
		require.Error(t, err)
	})
}

func TestProductService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("applies only the provided fields", func(t *testing.T) {
		productRepo, _, _, svc := newProductFixture()
		p := storedProduct(1, "Picolé de uva", "7.00")
		productRepo.On("FindByID", mock.Anything, int64(1)).Return(p, nil)
		productRepo.On("Save", mock.Anything, p).Return(nil)

		newPrice := decimal.RequireFromString("7.50")
		unavailable := false
		resp, err := svc.Update(ctx, 1, UpdateProductRequest{
			Price:     &newPrice,
			Available: &unavailable,
		})
		require.NoError(t, err)
		assert.Equal(t, "Picolé de uva", resp.Name, "name must be untouched")
		assert.True(t, resp.Price.Equal(newPrice))
		assert.False(t, resp.Available)
	})

	t.Run("category zero detaches the product", func(t *testing.T) {
		productRepo, _, _, svc := newProductFixture()
		p := storedProduct(1, "Picolé de uva", "7.00")
		p.AssignCategory(3)
		productRepo.On("FindByID", mock.Anything, int64(1)).Return(p, nil)
		productRepo.On("Save", mock.Anything, p).Return(nil)

		var none int64
		resp, err := svc.Update(ctx, 1, UpdateProductRequest{CategoryID: &none})
		require.NoError(t, err)
		assert.Nil(t, resp.CategoryID)
	})

	t.Run("missing product maps to not found", func(t *testing.T) {
		productRepo, _, _, svc := newProductFixture()
		productRepo.On("FindByID", mock.Anything, int64(9)).Return(nil, shared.ErrNotFound)

		_, err := svc.Update(ctx, 9, UpdateProductRequest{})
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, shared.CodeNotFound, domainErr.Code)
	})
}

func TestProductService_UploadImage(t *testing.T) {
	ctx := context.Background()

	productRepo, _, storage, svc := newProductFixture()
	p := storedProduct(5, "Picolé de coco", "9.00")
	productRepo.On("FindByID", mock.Anything, int64(5)).Return(p, nil)
	storage.On("UploadImage", mock.Anything, "products/5.jpg", []byte{1, 2, 3}).
		Return("https://cdn.example.com/products/5.jpg", nil)
	productRepo.On("Save", mock.Anything, p).Return(nil)

	resp, err := svc.UploadImage(ctx, 5, []byte{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/products/5.jpg", resp.ImageURL)
}

func TestProductService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("removes the stored image alongside the product", func(t *testing.T) {
		productRepo, _, storage, svc := newProductFixture()
		p := storedProduct(5, "Picolé de coco", "9.00")
		p.SetImage("https://cdn.example.com/products/5.jpg")
		productRepo.On("FindByID", mock.Anything, int64(5)).Return(p, nil)
		productRepo.On("Delete", mock.Anything, int64(5)).Return(nil)
		storage.On("DeleteImage", mock.Anything, "products/5.jpg").Return(nil)

		require.NoError(t, svc.Delete(ctx, 5))
		storage.AssertCalled(t, "DeleteImage", mock.Anything, "products/5.jpg")
	})

	t.Run("image-less product skips storage", func(t *testing.T) {
		productRepo, _, storage, svc := newProductFixture()
		p := storedProduct(6, "Picolé de limão", "6.00")
		productRepo.On("FindByID", mock.Anything, int64(6)).Return(p, nil)
		productRepo.On("Delete", mock.Anything, int64(6)).Return(nil)

		require.NoError(t, svc.Delete(ctx, 6))
		storage.AssertNotCalled(t, "DeleteImage", mock.Anything, mock.Anything)
	})
}

func TestCategoryService(t *testing.T) {
	ctx := context.Background()

	t.Run("create and rename", func(t *testing.T) {
		categoryRepo := new(MockCategoryRepository)
		svc := NewCategoryService(categoryRepo, zap.NewNop())
		categoryRepo.On("Save", mock.Anything, mock.AnythingOfType("*catalog.Category")).Return(nil)

		created, err := svc.Create(ctx, CreateCategoryRequest{Name: "Picolés"})
		require.NoError(t, err)
		assert.True(t, created.Active)

		stored, _ := catalog.NewCategory("Picolés", "")
		stored.ID = 1
		categoryRepo.On("FindByID", mock.Anything, int64(1)).Return(stored, nil)

		name := "Paletas"
		updated, err := svc.Update(ctx, 1, UpdateCategoryRequest{Name: &name})
		require.NoError(t, err)
		assert.Equal(t, "Paletas", updated.Name)
	})

	t.Run("delete maps missing category to not found", func(t *testing.T) {
		categoryRepo := new(MockCategoryRepository)
		svc := NewCategoryService(categoryRepo, zap.NewNop())
		categoryRepo.On("Delete", mock.Anything, int64(9)).Return(shared.ErrNotFound)

		err := svc.Delete(ctx, 9)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, shared.CodeNotFound, domainErr.Code)
	})
}
