package repository

import (
	"app/internal/domain/model"
	"context"
	"errors"
)

var ErrNotFound = errors.New("not found")

// 商品の参照だけを約束（カート側はカタログを所有しない）。
type ProductRepository interface {
	FindByID(ctx context.Context, id int64) (model.Product, error)
}
