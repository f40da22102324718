package migration

import (
	"retrack-app/models"
	"retrack-app/wms/master/warehouse"

	"gorm.io/gorm"
)

// Models lists every table owned by the service, in dependency order.
func Models() []interface{} {
	return []interface{}{
		&warehouse.Warehouse{},
		&models.User{},
		&models.Product{},
		&models.Return{},
		&models.Bag{},
		&models.BagItem{},
		&models.QCTask{},
		&models.QCReport{},
		&models.Notification{},
		&models.AuditLog{},
		&models.IssueReport{},
		&models.AgentReport{},
		&models.FileLog{},
	}
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}
