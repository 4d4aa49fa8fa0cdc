package model

import "encoding/json"

// CartLine はエンジンが保持するカート1行のビュー。
// ゲストカートではこの形のままJSONで永続化する。
// IDはゲスト行ならローカル生成のUUID、DB行なら採番IDの文字列表現。
// name/price/image_url は追加時点の商品スナップショット。
type CartLine struct {
	ID             string          `json:"id"`
	ProductID      int64           `json:"product_id"`
	Name           string          `json:"name"`
	Price          int64           `json:"price"`
	ImageURL       string          `json:"image_url,omitempty"`
	Quantity       int64           `json:"quantity"`
	Customizations json.RawMessage `json:"customizations,omitempty"`
}
