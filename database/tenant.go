package database

import (
	"fmt"
	"log"
	"sync"

	"langit/models"
	courseModels "langit/models/course"
	mockTestModels "langit/models/mocktest"
	testModels "langit/models/test"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// tenantPool caches one GORM handle per tenant id. Connection parameters are
// baked in at open time, so concurrent requests for different tenants never
// share mutable connection configuration.
var tenantPool = struct {
	sync.RWMutex
	pools map[uint]*gorm.DB
}{pools: make(map[uint]*gorm.DB)}

// openDialector builds the driver-specific dialector for a tenant row.
// Overridable in tests to swap in an in-memory database.
var openDialector = func(tenant *models.Tenant) gorm.Dialector {
	switch tenant.DBDriver {
	case "mysql":
		dsn := fmt.Sprintf(
			"%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			tenant.DBUsername, tenant.DBPassword, tenant.DBHost, tenant.DBPort, tenant.DBDatabase,
		)
		return mysql.Open(dsn)
	default:
		dsn := fmt.Sprintf(
			"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
			tenant.DBHost, tenant.DBUsername, tenant.DBPassword, tenant.DBDatabase, tenant.DBPort,
		)
		return postgres.Open(dsn)
	}
}

// TenantDb returns the connection pool for the given tenant, opening and
// migrating it on first use.
func TenantDb(tenant *models.Tenant) (*gorm.DB, error) {
	tenantPool.RLock()
	db, ok := tenantPool.pools[tenant.ID]
	tenantPool.RUnlock()
	if ok {
		return db, nil
	}

	tenantPool.Lock()
	defer tenantPool.Unlock()

	// Another request may have opened the pool while we waited for the lock
	if db, ok := tenantPool.pools[tenant.ID]; ok {
		return db, nil
	}

	db, err := gorm.Open(openDialector(tenant), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect tenant %q database: %w", tenant.Subdomain, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get tenant %q database instance: %w", tenant.Subdomain, err)
	}
	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)

	if err := RunTenantMigrations(db); err != nil {
		return nil, fmt.Errorf("tenant %q migration failed: %w", tenant.Subdomain, err)
	}

	tenantPool.pools[tenant.ID] = db
	log.Printf("Opened tenant database pool (tenant=%s driver=%s db=%s)",
		tenant.Subdomain, tenant.DBDriver, tenant.DBDatabase)

	return db, nil
}

// TenantPools snapshots the currently opened tenant pools. Used by the
// reconciliation scheduler to walk every active tenant.
func TenantPools() map[uint]*gorm.DB {
	tenantPool.RLock()
	defer tenantPool.RUnlock()

	out := make(map[uint]*gorm.DB, len(tenantPool.pools))
	for id, db := range tenantPool.pools {
		out[id] = db
	}
	return out
}

// RunTenantMigrations migrates all tenant-scoped tables
func RunTenantMigrations(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.LoginHistory{},
		&courseModels.Course{},
		&courseModels.Chapter{},
		&courseModels.Video{},
		&courseModels.Progress{},
		&courseModels.UserCourse{},
		&courseModels.CoursePath{},
		&testModels.Test{},
		&testModels.TestQuestion{},
		&testModels.TestChoice{},
		&testModels.QuestionTag{},
		&testModels.TestResult{},
		&testModels.TestAnswerDetail{},
		&mockTestModels.MockTest{},
		&mockTestModels.MockTestQuestion{},
		&mockTestModels.MockTestChoice{},
		&mockTestModels.MockTestResult{},
		&mockTestModels.MockTestResultDetail{},
	)
}
