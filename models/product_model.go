package models

type Product struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	ProductID   string `json:"productId" gorm:"size:20;uniqueIndex"`
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl"`
}
