package app

import (
	"strings"
	"time"

	"github.com/questcoder/questcoder-backend/internal/logger"
	"github.com/questcoder/questcoder-backend/internal/utils"
)

type Config struct {
	Port             string
	JWTSecretKey     string
	AccessTokenTTL   time.Duration
	RefreshTokenTTL  time.Duration
	BadgeCatalogPath string
	AllowOrigins     []string
	RedisEnabled     bool
	Environment      string
	Version          string
}

func LoadConfig(log *logger.Logger) Config {
	jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
	accessTokenTTLSeconds := utils.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)
	refreshTokenTTLSeconds := utils.GetEnvAsInt("REFRESH_TOKEN_TTL", 86400, log)
	port := utils.GetEnv("PORT", "8080", log)
	badgeCatalogPath := utils.GetEnv("BADGE_CATALOG_PATH", "configs/badges.yaml", log)
	redisEnabled := utils.GetEnvAsBool("REDIS_ENABLED", false, log)
	environment := utils.GetEnv("ENVIRONMENT", "development", log)
	version := utils.GetEnv("SERVICE_VERSION", "dev", log)

	var origins []string
	rawOrigins := utils.GetEnv("CORS_ALLOW_ORIGINS", "", log)
	for _, o := range strings.Split(rawOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}

	return Config{
		Port:             port,
		JWTSecretKey:     jwtSecretKey,
		AccessTokenTTL:   time.Duration(accessTokenTTLSeconds) * time.Second,
		RefreshTokenTTL:  time.Duration(refreshTokenTTLSeconds) * time.Second,
		BadgeCatalogPath: badgeCatalogPath,
		AllowOrigins:     origins,
		RedisEnabled:     redisEnabled,
		Environment:      environment,
		Version:          version,
	}
}
