package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// DB関数 generate_order_number() で採番する（シーケンスなので一意）
type OrderNumberGormGenerator struct {
	db *gorm.DB
}

func NewOrderNumberGormGenerator(db *gorm.DB) *OrderNumberGormGenerator {
	return &OrderNumberGormGenerator{db: db}
}

func (g *OrderNumberGormGenerator) Next(ctx context.Context) (string, error) {
	var number string
	if err := g.db.WithContext(ctx).Raw("SELECT generate_order_number()").Scan(&number).Error; err != nil {
		return "", translateError(err)
	}
	if number == "" {
		return "", errors.New("generate_order_number returned empty")
	}
	return number, nil
}
