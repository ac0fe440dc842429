package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zenithretail/storefront/pkg/database"
	apperrors "github.com/zenithretail/storefront/pkg/errors"
	"github.com/zenithretail/storefront/pkg/pagination"

	"github.com/zenithretail/storefront/internal/domain"
	"github.com/zenithretail/storefront/internal/repository"
)

var productCols = []string{
	"id", "name", "description", "price", "original_price", "category",
	"subsidiary", "image_url", "in_stock", "created_at", "updated_at",
}

func sampleProduct() *domain.Product {
	orig := int64(1100000)
	return &domain.Product{
		ID:            "prod-001",
		Name:          "ThinkPad X1 Carbon",
		Description:   "14-inch business ultrabook",
		Price:         950000,
		OriginalPrice: &orig,
		Category:      "laptops",
		Subsidiary:    domain.SubsidiaryComputers,
		ImageURL:      "https://img.example.com/x1.jpg",
		InStock:       true,
		CreatedAt:     time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC),
		UpdatedAt:     time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC),
	}
}

func productRow(p *domain.Product) *pgxmock.Rows {
	return pgxmock.NewRows(productCols).AddRow(
		p.ID, p.Name, p.Description, p.Price, p.OriginalPrice, p.Category,
		p.Subsidiary, p.ImageURL, p.InStock, p.CreatedAt, p.UpdatedAt,
	)
}

func TestProductRepository_GetByID(t *testing.T) {
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewProductRepository(mock)
	p := sampleProduct()

	mock.ExpectQuery("SELECT (.+) FROM products WHERE id").
		WithArgs(p.ID).
		WillReturnRows(productRow(p))

	got, err := repo.GetByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.Name, got.Name)
	assert.Equal(t, int64(950000), got.Price)
	require.NotNil(t, got.OriginalPrice)
	assert.Equal(t, int64(1100000), *got.OriginalPrice)
	assert.Equal(t, domain.SubsidiaryComputers, got.Subsidiary)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_GetByID_NotFound(t *testing.T) {
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewProductRepository(mock)

	mock.ExpectQuery("SELECT (.+) FROM products WHERE id").
		WithArgs("nonexistent").
		WillReturnRows(pgxmock.NewRows(productCols))

	got, err := repo.GetByID(context.Background(), "nonexistent")
	assert.Nil(t, got)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestProductRepository_Create(t *testing.T) {
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewProductRepository(mock)
	p := sampleProduct()

	mock.ExpectExec("INSERT INTO products").
		WithArgs(
			p.ID, p.Name, p.Description, p.Price, p.OriginalPrice,
			p.Category, p.Subsidiary, p.ImageURL, p.InStock,
			p.CreatedAt, p.UpdatedAt,
		).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, repo.Create(context.Background(), p))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_List_FiltersAndCount(t *testing.T) {
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewProductRepository(mock)
	p := sampleProduct()

	inStock := true
	minPrice := int64(100000)
	filter := repository.ProductFilter{
		Subsidiary: "computers",
		InStock:    &inStock,
		MinPrice:   &minPrice,
		Sort:       repository.SortPriceAsc,
	}
	params := pagination.Params{Page: 1, PerPage: 20, Offset: 0}

	rows := pgxmock.NewRows(append(productCols, "total_count")).AddRow(
		p.ID, p.Name, p.Description, p.Price, p.OriginalPrice, p.Category,
		p.Subsidiary, p.ImageURL, p.InStock, p.CreatedAt, p.UpdatedAt, 42,
	)

	mock.ExpectQuery("SELECT (.+) FROM products WHERE subsidiary = (.+) ORDER BY price ASC").
		WithArgs("computers", true, minPrice, 20, 0).
		WillReturnRows(rows)

	products, total, err := repo.List(context.Background(), filter, params)
	require.NoError(t, err)
	assert.Equal(t, 42, total)
	require.Len(t, products, 1)
	assert.Equal(t, p.ID, products[0].ID)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_List_Empty(t *testing.T) {
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewProductRepository(mock)

	mock.ExpectQuery("SELECT (.+) FROM products").
		WithArgs(20, 0).
		WillReturnRows(pgxmock.NewRows(append(productCols, "total_count")))

	products, total, err := repo.List(context.Background(), repository.ProductFilter{}, pagination.DefaultParams())
	require.NoError(t, err)
	assert.Equal(t, 0, total)
	assert.NotNil(t, products)
	assert.Empty(t, products)
}

func TestProductRepository_List_QueryError(t *testing.T) {
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewProductRepository(mock)

	mock.ExpectQuery("SELECT (.+) FROM products").
		WithArgs(20, 0).
		WillReturnError(errors.New("connection refused"))

	_, _, err = repo.List(context.Background(), repository.ProductFilter{}, pagination.DefaultParams())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "list products")
}
