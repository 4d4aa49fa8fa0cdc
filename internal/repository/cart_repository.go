package repository

import (
	"context"

	"app/internal/domain/model"
)

type CartRepository interface {
	// 無ければ作成（初回書き込みの遅延作成）
	GetOrCreateByUserID(ctx context.Context, userID int64) (model.Cart, error)
	FindByUserID(ctx context.Context, userID int64) (model.Cart, error)
	// 明細の一括削除（カート行自体は残す）
	DeleteItems(ctx context.Context, cartID int64) error
}
