package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strconv"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/google/uuid"
)

// CartUsecase はカートの業務ロジック。
// 未ログインならLocalCartStore、ログイン済みならDBを読み書き先にする。
// ゲスト→ログインの遷移を観測した時点でローカルカートをDBへマージする。
// 1リクエスト＝1インスタンスで使う前提で、並行アクセスは同期しない。
type CartUsecase struct {
	localStore   repo.LocalCartStore
	cartRepo     repo.CartRepository
	cartItemRepo repo.CartItemRepository
	productRepo  repo.ProductRepository

	userID    int64 // 0 = ゲスト
	cart      []model.CartLine
	isLoading bool
}

// DI
func NewCartUsecase(
	localStore repo.LocalCartStore,
	cartRepo repo.CartRepository,
	cartItemRepo repo.CartItemRepository,
	productRepo repo.ProductRepository,
) *CartUsecase {
	return &CartUsecase{
		localStore:   localStore,
		cartRepo:     cartRepo,
		cartItemRepo: cartItemRepo,
		productRepo:  productRepo,
		cart:         []model.CartLine{},
	}
}

type AddToCartInput struct {
	ProductID      int64
	Name           string
	Price          int64
	ImageURL       string
	Quantity       int64
	Customizations json.RawMessage
}

// SetSubject は認証状態の観測点。
// ゲストからログイン済みへ変わった瞬間だけマージが走る。
// ログアウト方向は単に読み書き先が切り替わるだけ。
func (u *CartUsecase) SetSubject(ctx context.Context, userID int64) {
	prev := u.userID
	u.userID = userID

	if prev == 0 && userID > 0 {
		u.mergeLocalCart(ctx)
	}

	if err := u.Refresh(ctx); err != nil {
		slog.Error("cart load failed", "user_id", userID, "err", err)
	}
}

// Refresh は今の読み書き先からカートを再取得する。
func (u *CartUsecase) Refresh(ctx context.Context) error {
	u.isLoading = true
	defer func() { u.isLoading = false }()

	if u.userID == 0 {
		u.cart = u.localStore.GetCart(ctx)
		return nil
	}

	cart, err := u.cartRepo.FindByUserID(ctx, u.userID)
	if errors.Is(err, repo.ErrNotFound) {
		// まだ一度も書き込んでいないユーザー
		u.cart = []model.CartLine{}
		return nil
	}
	if err != nil {
		return err
	}

	return u.loadRemote(ctx, cart.ID)
}

// AddToCart は明細を追加する。同一商品は数量加算。
// DB側のエラーはログして false を返すだけで、呼び出し側には投げない。
func (u *CartUsecase) AddToCart(ctx context.Context, in AddToCartInput) bool {
	if in.ProductID <= 0 || in.Quantity < 1 {
		return false
	}

	if u.userID == 0 {
		return u.addToLocalCart(ctx, in)
	}

	cart, err := u.cartRepo.GetOrCreateByUserID(ctx, u.userID)
	if err != nil {
		slog.Error("cart resolve failed", "user_id", u.userID, "err", err)
		return false
	}

	existing, err := u.cartItemRepo.FindByCartAndProduct(ctx, cart.ID, in.ProductID)
	switch {
	case err == nil:
		// 既存明細は数量加算し、customizationsは新しい値で上書き
		newQty := existing.Quantity + in.Quantity
		if err := u.cartItemRepo.UpdateQuantityAndCustomizations(ctx, existing.ID, newQty, in.Customizations); err != nil {
			slog.Error("cart item update failed", "cart_item_id", existing.ID, "err", err)
			return false
		}
	case errors.Is(err, repo.ErrNotFound):
		//追加前に商品の実在を確認する（スキーマはFKを張らないのでここで守る）
		if _, err := u.productRepo.FindByID(ctx, in.ProductID); err != nil {
			slog.Error("product lookup failed", "product_id", in.ProductID, "err", err)
			return false
		}
		item := model.CartItem{
			CartID:         cart.ID,
			ProductID:      in.ProductID,
			Quantity:       in.Quantity,
			Customizations: in.Customizations,
		}
		if _, err := u.cartItemRepo.Insert(ctx, item); err != nil {
			slog.Error("cart item insert failed", "product_id", in.ProductID, "err", err)
			return false
		}
	default:
		slog.Error("cart item lookup failed", "product_id", in.ProductID, "err", err)
		return false
	}

	//書き込み後は必ずDBから取り直す（楽観的な差分適用はしない）
	return u.reloadAuthenticated(ctx)
}

// UpdateQuantity は数量をその値に設定する（加算ではない）。
// 0以下は削除として扱う。
func (u *CartUsecase) UpdateQuantity(ctx context.Context, itemID string, quantity int64) bool {
	if quantity <= 0 {
		return u.RemoveFromCart(ctx, itemID)
	}

	if u.userID == 0 {
		lines := u.localStore.GetCart(ctx)
		for i := range lines {
			if lines[i].ID == itemID {
				lines[i].Quantity = quantity
				u.cart = lines
				u.saveLocalCart(ctx, lines)
				return true
			}
		}
		// 見つからなければ何も変更しない
		return false
	}

	id, err := strconv.ParseInt(itemID, 10, 64)
	if err != nil {
		return false
	}

	if err := u.cartItemRepo.UpdateQuantity(ctx, id, quantity); err != nil {
		slog.Error("cart item quantity update failed", "cart_item_id", id, "err", err)
		return false
	}

	return u.reloadAuthenticated(ctx)
}

// RemoveFromCart は明細を削除する。
// ゲスト側のフィルタは冪等で、存在しないIDでも成功扱い。
func (u *CartUsecase) RemoveFromCart(ctx context.Context, itemID string) bool {
	if u.userID == 0 {
		lines := u.localStore.GetCart(ctx)
		kept := make([]model.CartLine, 0, len(lines))
		for _, line := range lines {
			if line.ID != itemID {
				kept = append(kept, line)
			}
		}
		u.cart = kept
		u.saveLocalCart(ctx, kept)
		return true
	}

	id, err := strconv.ParseInt(itemID, 10, 64)
	if err != nil {
		return false
	}

	if err := u.cartItemRepo.DeleteByID(ctx, id); err != nil && !errors.Is(err, repo.ErrNotFound) {
		slog.Error("cart item delete failed", "cart_item_id", id, "err", err)
		return false
	}

	return u.reloadAuthenticated(ctx)
}

// ClearCart は全明細を消す。
func (u *CartUsecase) ClearCart(ctx context.Context) bool {
	if u.userID == 0 {
		u.cart = []model.CartLine{}
		if err := u.localStore.Clear(ctx); err != nil {
			// メモリ上は空にしたまま継続（リロードで復活するのは許容）
			slog.Warn("guest cart clear failed", "session_id", u.localStore.SessionID(), "err", err)
		}
		return true
	}

	cart, err := u.cartRepo.FindByUserID(ctx, u.userID)
	if errors.Is(err, repo.ErrNotFound) {
		u.cart = []model.CartLine{}
		return true
	}
	if err != nil {
		slog.Error("cart resolve failed", "user_id", u.userID, "err", err)
		return false
	}

	if err := u.cartRepo.DeleteItems(ctx, cart.ID); err != nil {
		slog.Error("cart clear failed", "cart_id", cart.ID, "err", err)
		return false
	}

	//成功した場合だけメモリ上も空にする
	u.cart = []model.CartLine{}
	return true
}

// CartTotal は Σ price×quantity。丸めはしない（表示側の責務）。
func (u *CartUsecase) CartTotal() int64 {
	var total int64 = 0
	for _, line := range u.cart {
		total += line.Price * line.Quantity
	}
	return total
}

// CartItemCount は数量の合計（明細数ではない）。
func (u *CartUsecase) CartItemCount() int64 {
	var count int64 = 0
	for _, line := range u.cart {
		count += line.Quantity
	}
	return count
}

func (u *CartUsecase) Items() []model.CartLine {
	return u.cart
}

func (u *CartUsecase) IsLoading() bool {
	return u.isLoading
}

// ゲストカートへの追加。同一商品は数量だけ加算し、
// customizationsは最初に追加したものを残す。
func (u *CartUsecase) addToLocalCart(ctx context.Context, in AddToCartInput) bool {
	lines := u.localStore.GetCart(ctx)

	merged := false
	for i := range lines {
		if lines[i].ProductID == in.ProductID {
			lines[i].Quantity += in.Quantity
			merged = true
			break
		}
	}

	if !merged {
		lines = append(lines, model.CartLine{
			ID:             uuid.NewString(),
			ProductID:      in.ProductID,
			Name:           in.Name,
			Price:          in.Price,
			ImageURL:       in.ImageURL,
			Quantity:       in.Quantity,
			Customizations: in.Customizations,
		})
	}

	u.cart = lines
	u.saveLocalCart(ctx, lines)
	return true
}

// ローカル保存の失敗はログだけしてメモリ上の状態を優先する。
// 永続化できなかった分はリロードで消えるが、それは許容済み。
func (u *CartUsecase) saveLocalCart(ctx context.Context, lines []model.CartLine) {
	if err := u.localStore.SaveCart(ctx, lines); err != nil {
		slog.Warn("guest cart save failed", "session_id", u.localStore.SessionID(), "err", err)
	}
}

// ログイン時のワンショットマージ。
// 明細単位で失敗してもロールバックや再試行はせず、
// 二重マージを避けるため最後にローカルカートを必ず破棄する。
func (u *CartUsecase) mergeLocalCart(ctx context.Context) {
	lines := u.localStore.GetCart(ctx)
	if len(lines) == 0 {
		return
	}

	cart, err := u.cartRepo.GetOrCreateByUserID(ctx, u.userID)
	if err != nil {
		// カート自体を解決できなければローカルは残す（次の観測でやり直し）
		slog.Error("cart merge aborted", "user_id", u.userID, "err", err)
		return
	}

	for _, line := range lines {
		//商品がカタログから消えていたらこの明細だけスキップ
		if _, err := u.productRepo.FindByID(ctx, line.ProductID); err != nil {
			slog.Warn("cart merge skipped missing product", "product_id", line.ProductID, "err", err)
			continue
		}

		existing, err := u.cartItemRepo.FindByCartAndProduct(ctx, cart.ID, line.ProductID)
		switch {
		case err == nil:
			// 数量は加算、customizationsはローカル優先で上書き
			newQty := existing.Quantity + line.Quantity
			if err := u.cartItemRepo.UpdateQuantityAndCustomizations(ctx, existing.ID, newQty, line.Customizations); err != nil {
				slog.Error("cart merge update failed", "cart_item_id", existing.ID, "err", err)
			}
		case errors.Is(err, repo.ErrNotFound):
			item := model.CartItem{
				CartID:         cart.ID,
				ProductID:      line.ProductID,
				Quantity:       line.Quantity,
				Customizations: line.Customizations,
			}
			if _, err := u.cartItemRepo.Insert(ctx, item); err != nil {
				slog.Error("cart merge insert failed", "product_id", line.ProductID, "err", err)
			}
		default:
			slog.Error("cart merge lookup failed", "product_id", line.ProductID, "err", err)
		}
	}

	// 部分失敗していてもローカルは破棄する（再試行時の二重加算より消失を選ぶ）
	if err := u.localStore.Clear(ctx); err != nil {
		slog.Warn("guest cart clear failed", "session_id", u.localStore.SessionID(), "err", err)
	}
}

// 書き込み後の取り直し。ユーザーのカートを解決してDBの内容で置き換える。
func (u *CartUsecase) reloadAuthenticated(ctx context.Context) bool {
	if err := u.Refresh(ctx); err != nil {
		slog.Error("cart reload failed", "user_id", u.userID, "err", err)
		return false
	}
	return true
}

// 明細＋商品スナップショットをCartLineに写す
func (u *CartUsecase) loadRemote(ctx context.Context, cartID int64) error {
	items, err := u.cartItemRepo.ListByCartID(ctx, cartID)
	if err != nil {
		return err
	}

	lines := make([]model.CartLine, 0, len(items))
	for _, it := range items {
		lines = append(lines, model.CartLine{
			ID:             strconv.FormatInt(it.Item.ID, 10),
			ProductID:      it.Item.ProductID,
			Name:           it.Name,
			Price:          it.Price,
			ImageURL:       it.ImageURL,
			Quantity:       it.Item.Quantity,
			Customizations: it.Item.Customizations,
		})
	}

	u.cart = lines
	return nil
}
