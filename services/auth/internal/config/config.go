package config

import (
	pkgcfg "github.com/Skotchmaster/storefront/pkg/config"
)

type Config struct {
	pkgcfg.Config

	// AdminUsername and AdminPassword, when both set, bootstrap an
	// administrator at startup.
	AdminUsername string
	AdminPassword string
}

func Load() Config {
	base := pkgcfg.Load()
	if base.ServiceName == "" {
		base.ServiceName = "auth"
	}

	pkgcfg.MustNonEmpty(map[string]string{
		"DATABASE_URL": base.DatabaseURL,
		"JWT_SECRET":   string(base.JWTAccessSecret),
	})

	return Config{
		Config:        base,
		AdminUsername: pkgcfg.EnvDefault("ADMIN_USERNAME", ""),
		AdminPassword: pkgcfg.EnvDefault("ADMIN_PASSWORD", ""),
	}
}
