package repository

import (
	"context"

	"app/internal/domain/model"
)

// LocalCartStore はゲストカートの保存先。
// セッションID1つに紐づくスロットを読み書きする。
// GetCart は「無い・壊れている・保存先に届かない」をすべて空として扱い、失敗しない。
type LocalCartStore interface {
	GetCart(ctx context.Context) []model.CartLine
	SaveCart(ctx context.Context, lines []model.CartLine) error
	Clear(ctx context.Context) error
	SessionID() string
}
