package database

import (
	"errors"
	"fmt"
	"time"

	"retrack-app/logger"
	"retrack-app/models"
	"retrack-app/wms/master/warehouse"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// seedPassword is the initial password of the demo accounts.
const seedPassword = "retrack123"

func RunSeeders(db *gorm.DB) error {
	if err := warehouse.SeedWarehouses(db); err != nil {
		return fmt.Errorf("seed warehouses: %w", err)
	}
	if err := SeedProducts(db); err != nil {
		return fmt.Errorf("seed products: %w", err)
	}
	if err := SeedUsers(db); err != nil {
		return fmt.Errorf("seed users: %w", err)
	}
	if err := SeedReturns(db); err != nil {
		return fmt.Errorf("seed returns: %w", err)
	}
	return nil
}

func SeedProducts(db *gorm.DB) error {
	catalog := []struct{ name, typ string }{
		{"Smartwatch Ultra", "Electronics"},
		{"Wireless Earbuds X", "Electronics"},
		{"Ergonomic Office Chair", "Furniture"},
		{"Organic Cotton T-Shirt", "Apparel"},
		{"Stainless Steel Water Bottle", "Home Goods"},
		{"Portable Bluetooth Speaker", "Electronics"},
		{"4K LED Monitor 32-inch", "Electronics"},
		{"Yoga Mat Pro", "Sports & Outdoors"},
		{"Espresso Machine Deluxe", "Home Appliances"},
		{"Running Shoes Airflow", "Apparel"},
		{"Digital Drawing Tablet", "Electronics"},
		{"Weighted Blanket 15lb", "Home Goods"},
		{"Fiction Novel: The Silent Coast", "Books"},
		{"Multi-tool Camping Set", "Sports & Outdoors"},
		{"Duffel Bag Traveler", "Apparel"},
		{"Robot Vacuum Cleaner", "Home Appliances"},
		{"External SSD 1TB", "Electronics"},
		{"Wooden Dining Table 6-Seater", "Furniture"},
		{"Face Serum Vitamin C", "Beauty & Personal Care"},
		{"Beginner's Guitar Kit", "Music Instruments"},
		{"Air Fryer XL", "Home Appliances"},
		{"Hiking Backpack 50L", "Sports & Outdoors"},
		{"Laptop Stand Aluminum", "Electronics Accessories"},
		{"Hand Mixer Pro", "Home Appliances"},
		{"Scented Candle - Lavender", "Home Goods"},
	}

	for i, c := range catalog {
		p := models.Product{
			ProductID: fmt.Sprintf("PROD-%03d", i+1),
			Name:      c.name,
			Type:      c.typ,
		}
		var existing models.Product
		err := db.Where("product_id = ?", p.ProductID).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if err := db.Create(&p).Error; err != nil {
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

func SeedUsers(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.User{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(seedPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	var chennai warehouse.Warehouse
	if err := db.Where("w_code = ?", "WH-CHN").First(&chennai).Error; err != nil {
		return err
	}

	now := time.Now().UTC()
	users := []models.User{
		{Name: "Admin User", Email: "admin@retrack.com", Role: models.RoleAdmin, Phone: "9999999999", City: "Chennai"},
		{Name: "Agent One", Email: "agent1@retrack.com", Role: models.RolePickupAgent, Phone: "9876543210", City: "Chennai", WarehouseID: &chennai.ID},
		{Name: "Agent Two", Email: "agent2@retrack.com", Role: models.RolePickupAgent, Phone: "9876543211", City: "Chennai", WarehouseID: &chennai.ID},
		{Name: "Warehouse One", Email: "warehouse1@retrack.com", Role: models.RoleWarehouseStaff, Phone: "9876543212", City: "Chennai", Shift: "Morning", WarehouseID: &chennai.ID},
		{Name: "QC One", Email: "qc1@retrack.com", Role: models.RoleQCStaff, Phone: "9876543213", City: "Chennai", Shift: "Morning", WarehouseID: &chennai.ID},
	}

	return db.Transaction(func(tx *gorm.DB) error {
		for i := range users {
			u := &users[i]
			u.Status = models.UserActive
			u.PasswordHash = string(hash)
			u.EmploymentDate = &now
			if err := tx.Create(u).Error; err != nil {
				return err
			}
			// public id butuh ID dari database
			u.UserID = fmt.Sprintf("%s%04d", u.Role.IDPrefix(), u.ID)
			if err := tx.Model(u).Update("user_id", u.UserID).Error; err != nil {
				return err
			}
		}
		logger.L().Info("demo users seeded", zap.Int("count", len(users)))
		return nil
	})
}

func SeedReturns(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Return{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	var products []models.Product
	if err := db.Order("product_id").Limit(3).Find(&products).Error; err != nil {
		return err
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)
	returns := []models.Return{
		{ReturnCode: "RET0100", CustomerName: "Aditi Sharma", CustomerPhone: "9000000001",
			Location: "Ritchie Street, Chintadripet, Chennai", PickupTime: timePtr(today.Add(11 * time.Hour))},
		{ReturnCode: "RET0101", CustomerName: "Priya Sharma", CustomerPhone: "9000000002",
			Location: "Besant Nagar, Chennai", PickupTime: timePtr(today.Add(12*time.Hour + 30*time.Minute))},
		{ReturnCode: "RET0102", CustomerName: "Chaitanya Reddy", CustomerPhone: "9000000003",
			Location: "Mylapore, Chennai", PickupTime: timePtr(today.Add(14 * time.Hour))},
	}
	for i := range returns {
		returns[i].PickupStatus = models.PickupPending
		returns[i].CreatedAt = time.Now().UTC()
		if i < len(products) {
			returns[i].ProductID = &products[i].ID
			returns[i].ProductCategory = products[i].Type
		}
	}
	return db.Create(&returns).Error
}

func timePtr(t time.Time) *time.Time { return &t }
