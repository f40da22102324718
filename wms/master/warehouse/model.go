package warehouse

type Warehouse struct {
	ID         uint   `json:"id" gorm:"primaryKey"`
	WCode      string `json:"wCode" gorm:"size:20;unique"`
	Address    string `json:"address"`
	PostalCode string `json:"postalCode"`
	City       string `json:"city"`
	Country    string `json:"country"`
}
