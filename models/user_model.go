package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	UserID            string     `json:"userId" gorm:"size:20;index"`
	Name              string     `json:"name"`
	Dob               *time.Time `json:"dob"`
	State             string     `json:"state"`
	City              string     `json:"city"`
	Address           string     `json:"address"`
	Phone             string     `json:"phone"`
	Email             string     `json:"email" gorm:"unique"`
	PasswordHash      string     `json:"-"`
	IdentityDocPath   string     `json:"identityDocPath"`
	QCCertificatePath string     `json:"qcCertificatePath"`
	Role              Role       `json:"role" gorm:"size:30"`
	Shift             string     `json:"shift"`
	WarehouseID       *uint      `json:"warehouseId" gorm:"index"`
	Status            UserStatus `json:"status" gorm:"size:20;default:Pending"`
	EmploymentDate    *time.Time `json:"employmentDate"`
}
