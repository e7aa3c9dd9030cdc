package app

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vladislavdragonenkov/shop/internal/domain"
)

// SeedProduct — описание товара в файле каталога.
type SeedProduct struct {
	ID       string `yaml:"id"`
	Name     string `yaml:"name"`
	Category string `yaml:"category"`
}

// SeedOrder — описание заказа в файле каталога; Products ссылаются на ID товаров.
type SeedOrder struct {
	ID       string   `yaml:"id"`
	Products []string `yaml:"products"`
}

// Seed — начальное содержимое репозиториев.
type Seed struct {
	Products []SeedProduct `yaml:"products"`
	Orders   []SeedOrder   `yaml:"orders"`
}

// LoadSeed читает каталог из YAML-файла.
func LoadSeed(path string) (Seed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Seed{}, fmt.Errorf("read seed file %s: %w", path, err)
	}
	seed, err := ParseSeed(data)
	if err != nil {
		return Seed{}, fmt.Errorf("parse seed file %s: %w", path, err)
	}
	return seed, nil
}

// ParseSeed разбирает YAML-документ каталога. Неизвестные поля считаются ошибкой.
func ParseSeed(data []byte) (Seed, error) {
	var seed Seed
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&seed); err != nil && !errors.Is(err, io.EOF) {
		return Seed{}, err
	}
	return seed, nil
}

// Build превращает описание каталога в доменные сущности.
func (s Seed) Build() ([]domain.Product, []domain.Order, error) {
	products := make([]domain.Product, 0, len(s.Products))
	byID := make(map[string]domain.Product, len(s.Products))
	for i, sp := range s.Products {
		id := strings.TrimSpace(sp.ID)
		if id == "" {
			return nil, nil, fmt.Errorf("%w: products[%d].id is required", domain.ErrInvalidArgument, i)
		}
		if _, dup := byID[id]; dup {
			return nil, nil, fmt.Errorf("%w: products[%d].id %q is duplicated", domain.ErrInvalidArgument, i, id)
		}
		category, err := domain.ParseCategory(sp.Category)
		if err != nil {
			return nil, nil, fmt.Errorf("products[%d]: %w", i, err)
		}
		p := domain.NewProduct(id, sp.Name, category)
		byID[id] = p
		products = append(products, p)
	}

	orders := make([]domain.Order, 0, len(s.Orders))
	seen := make(map[string]struct{}, len(s.Orders))
	for i, so := range s.Orders {
		id := strings.TrimSpace(so.ID)
		if id == "" {
			return nil, nil, fmt.Errorf("%w: orders[%d].id is required", domain.ErrInvalidArgument, i)
		}
		if _, dup := seen[id]; dup {
			return nil, nil, fmt.Errorf("orders[%d]: %w: id=%s", i, domain.ErrOrderAlreadyExists, id)
		}
		seen[id] = struct{}{}

		items := make([]domain.Product, 0, len(so.Products))
		for j, pid := range so.Products {
			p, ok := byID[strings.TrimSpace(pid)]
			if !ok {
				return nil, nil, fmt.Errorf("%w: orders[%d].products[%d] references unknown product %q", domain.ErrInvalidArgument, i, j, pid)
			}
			items = append(items, p)
		}
		orders = append(orders, domain.NewOrder(id, items...))
	}

	return products, orders, nil
}
