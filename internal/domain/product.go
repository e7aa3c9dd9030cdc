package domain

import (
	"fmt"
	"strings"
)

// Category описывает вариант товара в каталоге.
type Category string

const (
	// CategoryVegetable — овощи.
	CategoryVegetable Category = "vegetable"
	// CategoryCrisps — чипсы и снеки.
	CategoryCrisps Category = "crisps"
	// CategoryToiletry — средства гигиены.
	CategoryToiletry Category = "toiletry"
)

// Valid проверяет, что категория относится к поддерживаемым значениям.
func (c Category) Valid() bool {
	switch c {
	case CategoryVegetable, CategoryCrisps, CategoryToiletry:
		return true
	default:
		return false
	}
}

// ParseCategory разбирает название категории без учёта регистра.
func ParseCategory(raw string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(raw)))
	if !c.Valid() {
		return "", fmt.Errorf("%w: unknown category %q", ErrInvalidArgument, raw)
	}
	return c, nil
}

// Product — неизменяемая карточка товара. Сравнивается по значению.
type Product struct {
	id       string
	name     string
	category Category
}

// NewProduct создаёт товар указанной категории.
func NewProduct(id, name string, category Category) Product {
	return Product{id: id, name: name, category: category}
}

// NewVegetable создаёт товар категории CategoryVegetable.
func NewVegetable(id, name string) Product {
	return NewProduct(id, name, CategoryVegetable)
}

// NewCrisps создаёт товар категории CategoryCrisps.
func NewCrisps(id, name string) Product {
	return NewProduct(id, name, CategoryCrisps)
}

// NewToiletry создаёт товар категории CategoryToiletry.
func NewToiletry(id, name string) Product {
	return NewProduct(id, name, CategoryToiletry)
}

// ID возвращает уникальный идентификатор товара.
func (p Product) ID() string { return p.id }

// Name возвращает название товара.
func (p Product) Name() string { return p.name }

// Category возвращает вариант товара.
func (p Product) Category() Category { return p.category }

func (p Product) String() string {
	return fmt.Sprintf("%s(%s, %s)", p.category, p.id, p.name)
}
