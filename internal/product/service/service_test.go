package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	producterrors "github.com/viniduminsara/ClearLens-Backend/internal/product/errors"
	"github.com/viniduminsara/ClearLens-Backend/internal/product/store"
)

// mockProductStore is a mock implementation of the ProductStore interface
type mockProductStore struct {
	product      *store.Product
	products     *[]store.Product
	count        int64
	error        error
	trendingArg  int32
	deletedID    uuid.UUID
	createParams *store.CreateProductParams
	updateParams *store.UpdateProductParams
}

func (m *mockProductStore) FindByID(_ context.Context, _ uuid.UUID) (*store.Product, error) {
	if m.error != nil {
		return nil, m.error
	}
	return m.product, nil
}

func (m *mockProductStore) FindAll(_ context.Context, _, _ int32) (*[]store.Product, error) {
	if m.error != nil {
		return nil, m.error
	}
	return m.products, nil
}

func (m *mockProductStore) CountAll(_ context.Context) (int64, error) {
	return m.count, nil
}

func (m *mockProductStore) FindTrending(_ context.Context, limit int32) (*[]store.Product, error) {
	m.trendingArg = limit
	if m.error != nil {
		return nil, m.error
	}
	return m.products, nil
}

func (m *mockProductStore) Create(_ context.Context, params *store.CreateProductParams) (*store.Product, error) {
	m.createParams = params
	if m.error != nil {
		return nil, m.error
	}
	return m.product, nil
}

func (m *mockProductStore) Update(_ context.Context, params *store.UpdateProductParams) (*store.Product, error) {
	m.updateParams = params
	if m.error != nil {
		return nil, m.error
	}
	return m.product, nil
}

func (m *mockProductStore) DeleteByID(_ context.Context, id uuid.UUID) error {
	m.deletedID = id
	return m.error
}

func Test_ProductService_RetrieveProducts(t *testing.T) {
	products := []store.Product{
		{ID: uuid.New(), Name: "Aviator Classic", Price: 2000, CreatedAt: time.Now()},
		{ID: uuid.New(), Name: "Round Metal", Price: 1800, CreatedAt: time.Now()},
	}
	mockStore := &mockProductStore{products: &products, count: 20}
	service := NewService(mockStore)

	page, err := service.RetrieveProducts(context.Background(), 2, 9)

	require.NoError(t, err)
	require.Len(t, page.Docs, 2)
	assert.Equal(t, "Aviator Classic", page.Docs[0].Name)
	assert.Equal(t, int64(20), page.TotalDocs)
	assert.Equal(t, int32(3), page.TotalPages)
	assert.Equal(t, int32(2), page.Page)
}

func Test_ProductService_RetrieveProductByID(t *testing.T) {
	mockProductID, _ := uuid.Parse("123e4567-e89b-12d3-a456-426614174000")

	testCases := []struct {
		name        string
		mockStore   *mockProductStore
		expectError error
	}{
		{
			name: "Success - product found",
			mockStore: &mockProductStore{
				product: &store.Product{ID: mockProductID, Name: "Aviator Classic", Price: 2000, NewPrice: 1500.5},
			},
		},
		{
			name:        "Error - product not found",
			mockStore:   &mockProductStore{error: producterrors.ErrProductNotFound},
			expectError: producterrors.ErrProductNotFound,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			service := NewService(tc.mockStore)
			// when
			result, err := service.RetrieveProductByID(context.Background(), mockProductID)
			// then
			if tc.expectError != nil {
				assert.ErrorIs(t, err, tc.expectError)
				assert.Nil(t, result)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, result)
			assert.Equal(t, mockProductID, result.ID)
			assert.InDelta(t, 1500.5, result.NewPrice, 0.001)
		})
	}
}

func Test_ProductService_RetrieveTrendingProducts(t *testing.T) {
	products := []store.Product{
		{ID: uuid.New(), Name: "Aviator Classic", Trending: true},
	}
	mockStore := &mockProductStore{products: &products}
	service := NewService(mockStore)

	result, err := service.RetrieveTrendingProducts(context.Background())

	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.True(t, result[0].Trending)
	// trending is capped, never the whole catalog
	assert.Equal(t, int32(trendingLimit), mockStore.trendingArg)
}

func Test_ProductService_CreateNewProduct(t *testing.T) {
	mockProductID, _ := uuid.Parse("123e4567-e89b-12d3-a456-426614174000")
	dto := ProductCreateDto{
		Name:     "Aviator Classic",
		Brand:    "Ray-Ban",
		Category: "Sunglasses",
		Quantity: 10,
		Image:    "https://cdn.example.com/aviator.jpg",
		Rating:   4.5,
		Price:    2000,
		NewPrice: 1500.5,
		Trending: true,
	}

	testCases := []struct {
		name        string
		mockStore   *mockProductStore
		expectError error
	}{
		{
			name: "Success - product created",
			mockStore: &mockProductStore{
				product: &store.Product{ID: mockProductID, Name: "Aviator Classic", Price: 2000, NewPrice: 1500.5, Trending: true},
			},
		},
		{
			name:        "Error - duplicate name",
			mockStore:   &mockProductStore{error: producterrors.ErrDuplicateProduct},
			expectError: producterrors.ErrDuplicateProduct,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			service := NewService(tc.mockStore)
			// when
			result, err := service.CreateNewProduct(context.Background(), dto)
			// then
			if tc.expectError != nil {
				assert.ErrorIs(t, err, tc.expectError)
				assert.Nil(t, result)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, result)
			assert.Equal(t, mockProductID, result.ID)
			require.NotNil(t, tc.mockStore.createParams)
			assert.Equal(t, "Ray-Ban", tc.mockStore.createParams.Brand)
			assert.True(t, tc.mockStore.createParams.Trending)
		})
	}
}

func Test_ProductService_UpdateProduct(t *testing.T) {
	mockProductID, _ := uuid.Parse("123e4567-e89b-12d3-a456-426614174000")
	dto := ProductCreateDto{Name: "Aviator Updated", Image: "https://cdn.example.com/aviator.jpg", Price: 2100}

	mockStore := &mockProductStore{
		product: &store.Product{ID: mockProductID, Name: "Aviator Updated", Price: 2100},
	}
	service := NewService(mockStore)

	result, err := service.UpdateProduct(context.Background(), mockProductID, dto)

	require.NoError(t, err)
	assert.Equal(t, "Aviator Updated", result.Name)
	require.NotNil(t, mockStore.updateParams)
	assert.Equal(t, mockProductID, mockStore.updateParams.ID)
}

func Test_ProductService_DeleteProduct(t *testing.T) {
	mockProductID, _ := uuid.Parse("123e4567-e89b-12d3-a456-426614174000")

	testCases := []struct {
		name        string
		mockStore   *mockProductStore
		expectError error
	}{
		{
			name:      "Success - product deleted",
			mockStore: &mockProductStore{},
		},
		{
			name:        "Error - product not found",
			mockStore:   &mockProductStore{error: producterrors.ErrProductNotFound},
			expectError: producterrors.ErrProductNotFound,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			service := NewService(tc.mockStore)
			// when
			err := service.DeleteProduct(context.Background(), mockProductID)
			// then
			if tc.expectError != nil {
				assert.ErrorIs(t, err, tc.expectError)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, mockProductID, tc.mockStore.deletedID)
		})
	}
}
