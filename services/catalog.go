package services

import (
	"context"
	"sort"
	"strings"

	"retrack-app/models"
	"retrack-app/repositories"

	"gorm.io/gorm"
)

// ProductCatalog is the read-only product lookup built once at startup.
type ProductCatalog struct {
	byCode map[string]models.Product
	byID   map[uint]models.Product
}

func NewProductCatalog(products []models.Product) *ProductCatalog {
	c := &ProductCatalog{
		byCode: make(map[string]models.Product, len(products)),
		byID:   make(map[uint]models.Product, len(products)),
	}
	for _, p := range products {
		c.byCode[strings.ToUpper(p.ProductID)] = p
		c.byID[p.ID] = p
	}
	return c
}

func LoadProductCatalog(ctx context.Context, db *gorm.DB) (*ProductCatalog, error) {
	products, err := repositories.NewProductRepository(db).All(ctx)
	if err != nil {
		return nil, err
	}
	return NewProductCatalog(products), nil
}

func (c *ProductCatalog) Get(productID string) (models.Product, bool) {
	p, ok := c.byCode[strings.ToUpper(strings.TrimSpace(productID))]
	return p, ok
}

func (c *ProductCatalog) GetByID(id uint) (models.Product, bool) {
	p, ok := c.byID[id]
	return p, ok
}

func (c *ProductCatalog) All() []models.Product {
	out := make([]models.Product, 0, len(c.byCode))
	for _, p := range c.byCode {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out
}
