package config

// EnvPrefix is the envconfig prefix shared by every binary.
const EnvPrefix = "CAMPUSEATS"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

const (
	EnvAppEnv     = "CAMPUSEATS_APP_ENV"
	EnvPort       = "CAMPUSEATS_APP_PORT"
	EnvDBDSN      = "CAMPUSEATS_DB_DSN"
	EnvDBHost     = "CAMPUSEATS_DB_HOST"
	EnvDBUser     = "CAMPUSEATS_DB_USER"
	EnvDBName     = "CAMPUSEATS_DB_NAME"
	EnvRedisURL   = "CAMPUSEATS_REDIS_URL"
	EnvJWTSecret  = "CAMPUSEATS_JWT_SECRET"
	EnvJWTIssuer  = "CAMPUSEATS_JWT_ISSUER"
	EnvJWTExpMins = "CAMPUSEATS_JWT_EXPIRATION_MINUTES"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
