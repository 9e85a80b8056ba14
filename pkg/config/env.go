package config

// EnvPrefix scopes all envconfig lookups; individual fields carry explicit
// SHAREHUB_ tags so the prefix stays empty.
const EnvPrefix = ""

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

// Environment variable names referenced outside struct tags.
const (
	EnvAppEnv    = "SHAREHUB_APP_ENV"
	EnvPort      = "SHAREHUB_APP_PORT"
	EnvDBDSN     = "SHAREHUB_DB_DSN"
	EnvDBHost    = "SHAREHUB_DB_HOST"
	EnvDBUser    = "SHAREHUB_DB_USER"
	EnvDBName    = "SHAREHUB_DB_NAME"
	EnvRedisURL  = "SHAREHUB_REDIS_URL"
	EnvJWTSecret = "SHAREHUB_JWT_SECRET"
	EnvJWTIssuer = "SHAREHUB_JWT_ISSUER"
	EnvJWTExpMins = "SHAREHUB_JWT_EXPIRATION_MINUTES"
	EnvRefreshTokenTTLMinutes = "SHAREHUB_REFRESH_TOKEN_TTL_MINUTES"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
