package usecase

import (
	"github.com/mitech808/phone-price-bot/internal/domain/entity"
)

type staticSnapshot struct {
	catalog *entity.Catalog
}

func (s staticSnapshot) Snapshot() *entity.Catalog { return s.catalog }

func testRows() []entity.PriceRow {
	return []entity.PriceRow{
		{Name: "Galaxy S23", Capacity: "128GB", Price: "900000"},
		{Name: "Galaxy S23 Ultra", Capacity: "256GB", Price: "1200000"},
		{Name: "Galaxy S23 Ultra", Capacity: "512GB", Price: "1,450,000"},
		{Name: "Galaxy S23 FE", Capacity: "128GB", Price: "650٬000"},
		{Name: "iPhone 15 Pro Max", Capacity: "256GB", Price: "1250000"},
		{Name: "iPhone 15", Capacity: "128GB", Price: "call us"},
		{Name: "Redmi Note 13 Pro", Capacity: "256GB", Price: "420000"},
		{Name: "Galaxy A54", Capacity: "128GB", Price: "380000"},
	}
}

func testLinks() entity.LinkTable {
	return entity.LinkTable{
		"Galaxy S23 Ultra":  "https://example.com/s23-ultra",
		"iPhone 15 Pro Max": "https://example.com/iphone-15-pro-max",
		"Redmi Note 13 Pro": entity.LinkUnavailable,
	}
}

func testCatalog() *entity.Catalog {
	return entity.NewCatalog(testRows(), testLinks(), 1)
}
