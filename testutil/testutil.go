package testutil

import (
	"path/filepath"
	"testing"
	"time"

	"retrack-app/database"
	"retrack-app/migration"
	"retrack-app/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupTestDB opens a migrated SQLite database in a per-test temp dir.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "retrack_test.db")
	db, err := gorm.Open(sqlite.Open(database.SQLiteDSN(path)), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, migration.Migrate(db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func uintPtr(v uint) *uint { return &v }

// CreateAgent inserts an active pickup agent based in city.
func CreateAgent(t *testing.T, db *gorm.DB, name, city string) *models.User {
	t.Helper()
	u := &models.User{
		Name:   name,
		City:   city,
		Email:  name + "@retrack.test",
		Role:   models.RolePickupAgent,
		Status: models.UserActive,
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

// CreateUser inserts a user with the given role.
func CreateUser(t *testing.T, db *gorm.DB, name string, role models.Role, warehouseID *uint) *models.User {
	t.Helper()
	u := &models.User{
		Name:        name,
		Email:       name + "@retrack.test",
		Role:        role,
		Status:      models.UserPending,
		WarehouseID: warehouseID,
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

// CreateProduct inserts a catalog product.
func CreateProduct(t *testing.T, db *gorm.DB, productID, name, typ string) *models.Product {
	t.Helper()
	p := &models.Product{ProductID: productID, Name: name, Type: typ}
	require.NoError(t, db.Create(p).Error)
	return p
}

// CreateReturn inserts a return in the given status.
func CreateReturn(t *testing.T, db *gorm.DB, code, location string, status models.PickupStatus, product *models.Product) *models.Return {
	t.Helper()
	r := &models.Return{
		ReturnCode:    code,
		CustomerName:  "Customer " + code,
		CustomerPhone: "0800000000",
		Location:      location,
		PickupStatus:  status,
		CreatedAt:     time.Now().UTC(),
	}
	if product != nil {
		r.ProductID = uintPtr(product.ID)
		r.ProductCategory = product.Type
	}
	require.NoError(t, db.Create(r).Error)
	r.Product = product
	return r
}

// CreateBag inserts a bag directly in the given state.
func CreateBag(t *testing.T, db *gorm.DB, code string, agentID uint, status models.BagStatus) *models.Bag {
	t.Helper()
	b := &models.Bag{
		BagCode:       code,
		PickupAgentID: agentID,
		Status:        status,
		SealIntegrity: models.SealIntact,
		CreatedAt:     time.Now().UTC(),
	}
	require.NoError(t, db.Create(b).Error)
	return b
}

// CreateBagItem links ret to bag with an optional scan result.
func CreateBagItem(t *testing.T, db *gorm.DB, bag *models.Bag, ret *models.Return, expected *models.Expected, status models.ItemStatus) *models.BagItem {
	t.Helper()
	item := &models.BagItem{
		BagID:    bag.ID,
		ReturnID: ret.ID,
		Expected: expected,
		Status:   status,
	}
	if ret.Product != nil {
		item.ProductID = ret.Product.ProductID
		item.ProductName = ret.Product.Name
		item.ProductType = ret.Product.Type
	}
	require.NoError(t, db.Create(item).Error)
	return item
}

func ExpectedPtr(e models.Expected) *models.Expected { return &e }
