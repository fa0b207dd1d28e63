package services

import (
	"errors"
	"strings"

	"langit/models"

	"gorm.io/gorm"
)

// ExtractSubdomain pulls the subdomain out of a request host.
// "demo.langit.local" with base "langit.local" yields "demo"; the base domain
// itself, loopback aliases and unrelated hosts yield "".
func ExtractSubdomain(host, baseDomain string) string {
	// Strip a port if present (fiber hands through the raw Host header)
	if i := strings.IndexByte(host, ':'); i >= 0 {
		host = host[:i]
	}

	if host == baseDomain || host == "localhost" || host == "127.0.0.1" {
		return ""
	}

	if strings.HasSuffix(host, "."+baseDomain) {
		return strings.TrimSuffix(host, "."+baseDomain)
	}

	return ""
}

// ResolveTenantFromHost maps a request host to a tenant directory record.
// A platform host (base domain, loopback) resolves to nil without error;
// an unknown subdomain fails with ErrTenantNotFound.
func ResolveTenantFromHost(platformDb *gorm.DB, host, baseDomain string) (*models.Tenant, error) {
	subdomain := ExtractSubdomain(host, baseDomain)
	if subdomain == "" {
		return nil, nil
	}

	var tenant models.Tenant
	if err := platformDb.Where("subdomain = ?", subdomain).First(&tenant).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTenantNotFound
		}
		return nil, err
	}

	return &tenant, nil
}
