package database

import (
	"fmt"
	"log"

	"langit/config"
	"langit/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// DbInstance struct holds the platform database connection instance
type DbInstance struct {
	Db *gorm.DB
}

// Database is the global platform database instance (tenant directory only;
// tenant-scoped data always goes through the per-request pool, see tenant.go)
var Database DbInstance

// ConnectDb establishes a connection to the platform PostgreSQL database
func ConnectDb() {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		config.AppConfig.DBHost,
		config.AppConfig.DBUser,
		config.AppConfig.DBPassword,
		config.AppConfig.DBName,
		config.AppConfig.DBPort,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to PostgreSQL: %v", err)
	}

	// Set up connection pooling
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Failed to get database instance: %v", err)
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(0)

	runPlatformMigrations(db)

	Database = DbInstance{Db: db}
}

// runPlatformMigrations migrates the platform-scoped tables
func runPlatformMigrations(db *gorm.DB) {
	log.Println("Running platform migrations...")

	if err := db.AutoMigrate(&models.Tenant{}); err != nil {
		log.Fatalf("Platform migration failed: %v", err)
	}

	log.Println("Platform migrations completed successfully.")
}
