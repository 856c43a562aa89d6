package config

import (
	pkgcfg "github.com/Skotchmaster/storefront/pkg/config"
	"github.com/Skotchmaster/storefront/services/catalog/internal/search"
)

type Config struct {
	pkgcfg.Config

	Search search.Config
}

func Load() Config {
	base := pkgcfg.Load()
	if base.ServiceName == "" {
		base.ServiceName = "catalog"
	}

	pkgcfg.MustNonEmpty(map[string]string{
		"DATABASE_URL": base.DatabaseURL,
		"JWT_SECRET":   string(base.JWTAccessSecret),
	})

	return Config{
		Config: base,
		Search: search.Config{
			URL:      pkgcfg.EnvDefault("ES_URL", ""),
			Username: pkgcfg.EnvDefault("ES_USER", ""),
			Password: pkgcfg.EnvDefault("ES_PASSWORD", ""),
			Index:    pkgcfg.EnvDefault("ES_INDEX", search.DefaultIndex),
		},
	}
}
