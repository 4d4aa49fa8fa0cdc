package model

import (
	"encoding/json"
	"time"
)

// カートの明細。
// customizations は自由形式のJSON（選択した機能・技術など）で、中身には触らない。
type CartItem struct {
	ID             int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	CartID         int64           `gorm:"not null;index" json:"cart_id"`
	ProductID      int64           `gorm:"not null;index" json:"product_id"`
	Quantity       int64           `gorm:"not null" json:"quantity"`
	Customizations json.RawMessage `gorm:"type:jsonb" json:"customizations"`
	CreatedAt      time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time       `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
