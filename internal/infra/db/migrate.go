package db

import (
	"storefront/internal/domain/model"

	"gorm.io/gorm"
)

const orderNumberSeqSQL = `CREATE SEQUENCE IF NOT EXISTS order_number_seq`

// 注文番号: ORD-YYYYMMDD-NNNNNN（シーケンスで一意）
const orderNumberFuncSQL = `
CREATE OR REPLACE FUNCTION generate_order_number() RETURNS text AS $$
BEGIN
	RETURN 'ORD-' || to_char(now(), 'YYYYMMDD') || '-' || lpad(nextval('order_number_seq')::text, 6, '0');
END;
$$ LANGUAGE plpgsql;
`

// Migrate はテーブルと採番関数を作る。
func Migrate(gormDB *gorm.DB) error {
	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Category{},
		&model.Product{},
		&model.CartItem{},
		&model.Order{},
		&model.OrderItem{},
		&model.BlogPost{},
		&model.AuditLog{},
	); err != nil {
		return err
	}

	if err := gormDB.Exec(orderNumberSeqSQL).Error; err != nil {
		return err
	}
	return gormDB.Exec(orderNumberFuncSQL).Error
}
