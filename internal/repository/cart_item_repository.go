package repository

import (
	"context"
	"encoding/json"

	"app/internal/domain/model"
)

// 明細＋商品スナップショットのjoin結果
type CartItemWithProduct struct {
	Item     model.CartItem
	Name     string
	Price    int64
	ImageURL string
}

type CartItemRepository interface {
	// 商品情報つきで明細を一覧（id昇順）
	ListByCartID(ctx context.Context, cartID int64) ([]CartItemWithProduct, error)
	FindByCartAndProduct(ctx context.Context, cartID int64, productID int64) (model.CartItem, error)
	Insert(ctx context.Context, item model.CartItem) (model.CartItem, error)
	UpdateQuantity(ctx context.Context, cartItemID int64, qty int64) error
	UpdateQuantityAndCustomizations(ctx context.Context, cartItemID int64, qty int64, customizations json.RawMessage) error
	DeleteByID(ctx context.Context, cartItemID int64) error
}
