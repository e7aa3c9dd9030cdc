package app

import (
	"github.com/brianvoe/gofakeit/v7"

	"github.com/vladislavdragonenkov/shop/internal/domain"
)

var fakeCategories = []domain.Category{
	domain.CategoryVegetable,
	domain.CategoryCrisps,
	domain.CategoryToiletry,
}

// FakeSeed генерирует демо-каталог. При одинаковом seed (кроме 0) результат повторяется.
func FakeSeed(productCount, orderCount int, seed int64) Seed {
	faker := gofakeit.New(uint64(seed))

	out := Seed{
		Products: make([]SeedProduct, 0, max(productCount, 0)),
	}
	for i := 0; i < productCount; i++ {
		category := fakeCategories[i%len(fakeCategories)]
		out.Products = append(out.Products, SeedProduct{
			ID:       faker.UUID(),
			Name:     fakeName(faker, category),
			Category: string(category),
		})
	}

	// без товаров заказы собрать не из чего
	if len(out.Products) == 0 {
		return out
	}

	for i := 0; i < orderCount; i++ {
		n := faker.Number(1, 3)
		ids := make([]string, 0, n)
		for j := 0; j < n; j++ {
			ids = append(ids, out.Products[faker.Number(0, len(out.Products)-1)].ID)
		}
		out.Orders = append(out.Orders, SeedOrder{ID: faker.UUID(), Products: ids})
	}

	return out
}

func fakeName(faker *gofakeit.Faker, category domain.Category) string {
	switch category {
	case domain.CategoryVegetable:
		return faker.Vegetable()
	case domain.CategoryCrisps:
		return faker.Snack()
	default:
		return faker.ProductName()
	}
}
