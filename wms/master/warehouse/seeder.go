package warehouse

import (
	"errors"

	"gorm.io/gorm"
)

func SeedWarehouses(db *gorm.DB) error {
	warehouses := []Warehouse{
		{WCode: "WH-BLR", Address: "12 Peenya Industrial Area", PostalCode: "560058", City: "Bangalore", Country: "India"},
		{WCode: "WH-CHN", Address: "4 Ambattur Estate", PostalCode: "600058", City: "Chennai", Country: "India"},
		{WCode: "WH-MUM", Address: "88 Bhiwandi Road", PostalCode: "421302", City: "Mumbai", Country: "India"},
	}

	for _, w := range warehouses {
		var existing Warehouse
		err := db.Where("w_code = ?", w.WCode).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if err := db.Create(&w).Error; err != nil {
				return err
			}
			continue
		}
		if err != nil {
			return err
		}
	}
	return nil
}
