package models

import "time"

type Bag struct {
	ID            uint          `json:"bagId" gorm:"primaryKey"`
	BagCode       string        `json:"bagCode" gorm:"size:30;uniqueIndex;not null"`
	PickupAgentID uint          `json:"pickupAgentId" gorm:"index"`
	WarehouseID   *uint         `json:"warehouseId" gorm:"index"`
	Status        BagStatus     `json:"status" gorm:"size:20;index"`
	SealIntegrity SealIntegrity `json:"sealIntegrity" gorm:"size:20"`
	CreatedAt     time.Time     `json:"createdAt"`
	SealedAt      *time.Time    `json:"sealedAt"`
	Items         []BagItem     `json:"items,omitempty" gorm:"foreignKey:BagID"`
}

// BagItem links a Return to a Bag. A Return appears in at most one BagItem,
// enforced by the unique index on return_id.
type BagItem struct {
	ID          uint       `json:"bagItemId" gorm:"primaryKey"`
	BagID       uint       `json:"bagId" gorm:"index;not null"`
	ReturnID    uint       `json:"returnId" gorm:"uniqueIndex;not null"`
	Return      *Return    `json:"return,omitempty" gorm:"foreignKey:ReturnID"`
	ProductID   string     `json:"productId" gorm:"size:20"`
	ProductName string     `json:"productName"`
	ProductType string     `json:"productType"`
	Expected    *Expected  `json:"expected" gorm:"size:10"`
	Status      ItemStatus `json:"status" gorm:"size:10"`
}
