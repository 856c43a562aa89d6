package config

import (
	"time"

	pkgcfg "github.com/Skotchmaster/storefront/pkg/config"
)

type Config struct {
	pkgcfg.Config

	// CatalogTimeout bounds one call to the catalog; LoadWait bounds how long
	// a page request waits for the listing before rendering without it.
	CatalogTimeout time.Duration
	LoadWait       time.Duration

	SecureCookies bool
}

func Load() Config {
	base := pkgcfg.Load()
	if base.ServiceName == "" {
		base.ServiceName = "storefront"
	}

	pkgcfg.MustNonEmpty(map[string]string{
		"CATALOG_URL": base.CatalogHTTPURL,
		"AUTH_URL":    base.AuthHTTPURL,
		"JWT_SECRET":  string(base.JWTAccessSecret),
	})

	catalogTimeout := pkgcfg.EnvDurationDefault("CATALOG_TIMEOUT", 5*time.Second)
	return Config{
		Config:         base,
		CatalogTimeout: catalogTimeout,
		LoadWait:       pkgcfg.EnvDurationDefault("LOAD_WAIT", catalogTimeout+time.Second),
		SecureCookies:  pkgcfg.EnvDefault("COOKIE_SECURE", "false") == "true",
	}
}
