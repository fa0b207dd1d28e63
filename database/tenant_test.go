package database

import (
	"testing"

	"langit/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// useSqlitePools swaps the dialector factory for isolated in-memory databases
// and clears the pool cache for the duration of one test.
func useSqlitePools(t *testing.T) {
	t.Helper()

	prevDialector := openDialector
	openDialector = func(tenant *models.Tenant) gorm.Dialector {
		return sqlite.Open("file:" + tenant.Subdomain + "?mode=memory&cache=shared")
	}

	tenantPool.Lock()
	prevPools := tenantPool.pools
	tenantPool.pools = make(map[uint]*gorm.DB)
	tenantPool.Unlock()

	t.Cleanup(func() {
		openDialector = prevDialector
		tenantPool.Lock()
		tenantPool.pools = prevPools
		tenantPool.Unlock()
	})
}

func TestTenantDbPooling(t *testing.T) {
	useSqlitePools(t)

	tenant := &models.Tenant{Subdomain: "alpha"}
	tenant.ID = 1

	first, err := TenantDb(tenant)
	require.NoError(t, err)
	require.NotNil(t, first)

	// Same tenant returns the cached handle
	second, err := TenantDb(tenant)
	require.NoError(t, err)
	assert.Same(t, first, second)

	pools := TenantPools()
	require.Len(t, pools, 1)
	assert.Same(t, first, pools[tenant.ID])
}

func TestTenantDbIsolation(t *testing.T) {
	useSqlitePools(t)

	alpha := &models.Tenant{Subdomain: "alpha"}
	alpha.ID = 1
	beta := &models.Tenant{Subdomain: "beta"}
	beta.ID = 2

	alphaDb, err := TenantDb(alpha)
	require.NoError(t, err)
	betaDb, err := TenantDb(beta)
	require.NoError(t, err)
	require.NotSame(t, alphaDb, betaDb)

	// A user written to one tenant database must not appear in the other
	require.NoError(t, alphaDb.Create(&models.User{
		Email:    "student@alpha.test",
		Password: "hashed",
	}).Error)

	var alphaCount, betaCount int64
	require.NoError(t, alphaDb.Model(&models.User{}).Count(&alphaCount).Error)
	require.NoError(t, betaDb.Model(&models.User{}).Count(&betaCount).Error)
	assert.EqualValues(t, 1, alphaCount)
	assert.EqualValues(t, 0, betaCount)
}
