package database

import (
	"log"

	"farmops/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// NewConnection initializes a new connection pool using GORM
func NewConnection(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	// Auto-migrate core models
	err = db.AutoMigrate(
		&model.User{},
		&model.RefreshToken{},
		&model.CostCenter{},
		&model.Campaign{},
		&model.Machinery{},
		&model.Input{},
		&model.Work{},
		&model.WorkInputLine{},
		&model.WorkMachineryLine{},
		&model.WorkLaborLine{},
		&model.StockMovement{},
		&model.AuditLog{},
	)
	if err != nil {
		log.Println("WARNING: Failed to auto-migrate models:", err)
	}

	return db, nil
}
