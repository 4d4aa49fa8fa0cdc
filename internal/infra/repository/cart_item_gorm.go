package repository

import (
	"app/internal/domain/model"
	repo "app/internal/repository"
	"context"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"
)

type CartItemGormRepository struct {
	db *gorm.DB
}

// DI
func NewCartItemGormRepository(db *gorm.DB) *CartItemGormRepository {
	return &CartItemGormRepository{db: db}
}

// join結果の受け皿
type cartItemProductRow struct {
	ID             int64
	CartID         int64
	ProductID      int64
	Quantity       int64
	Customizations json.RawMessage
	Name           string
	Price          int64
	ImageURL       string
}

// カート明細を商品スナップショットつきで一覧取得
func (r *CartItemGormRepository) ListByCartID(ctx context.Context, cartID int64) ([]repo.CartItemWithProduct, error) {
	var rows []cartItemProductRow

	err := r.db.WithContext(ctx).
		Table("cart_items").
		Select("cart_items.id, cart_items.cart_id, cart_items.product_id, cart_items.quantity, cart_items.customizations, products.name, products.price, products.image_url").
		Joins("join products on products.id = cart_items.product_id").
		Where("cart_items.cart_id = ?", cartID).
		Order("cart_items.id asc").
		Scan(&rows).Error
	if err != nil {
		return []repo.CartItemWithProduct{}, err
	}

	items := make([]repo.CartItemWithProduct, 0, len(rows))
	for _, row := range rows {
		items = append(items, repo.CartItemWithProduct{
			Item: model.CartItem{
				ID:             row.ID,
				CartID:         row.CartID,
				ProductID:      row.ProductID,
				Quantity:       row.Quantity,
				Customizations: row.Customizations,
			},
			Name:     row.Name,
			Price:    row.Price,
			ImageURL: row.ImageURL,
		})
	}

	return items, nil
}

// 同一商品の既存明細を取得
func (r *CartItemGormRepository) FindByCartAndProduct(ctx context.Context, cartID int64, productID int64) (model.CartItem, error) {
	var item model.CartItem

	err := r.db.WithContext(ctx).
		Where("cart_id = ? AND product_id = ?", cartID, productID).
		First(&item).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.CartItem{}, repo.ErrNotFound
	}
	if err != nil {
		return model.CartItem{}, err
	}
	return item, nil
}

// 明細を新規作成
func (r *CartItemGormRepository) Insert(ctx context.Context, item model.CartItem) (model.CartItem, error) {
	now := time.Now()
	item.CreatedAt = now
	item.UpdatedAt = now

	if err := r.db.WithContext(ctx).Create(&item).Error; err != nil {
		return model.CartItem{}, err
	}
	return item, nil
}

// 明細の数量を更新
func (r *CartItemGormRepository) UpdateQuantity(ctx context.Context, cartItemID int64, qty int64) error {
	res := r.db.WithContext(ctx).
		Model(&model.CartItem{}).
		Where("id = ?", cartItemID).
		Update("quantity", qty)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// 数量とcustomizationsをまとめて更新（マージ時のローカル優先上書き）
func (r *CartItemGormRepository) UpdateQuantityAndCustomizations(ctx context.Context, cartItemID int64, qty int64, customizations json.RawMessage) error {
	res := r.db.WithContext(ctx).
		Model(&model.CartItem{}).
		Where("id = ?", cartItemID).
		Updates(map[string]interface{}{
			"quantity":       qty,
			"customizations": customizations,
		})

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// 明細を削除
func (r *CartItemGormRepository) DeleteByID(ctx context.Context, cartItemID int64) error {
	res := r.db.WithContext(ctx).Delete(&model.CartItem{}, cartItemID)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
