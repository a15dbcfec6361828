package config

// EnvPrefix is the envconfig prefix shared by every binary.
const EnvPrefix = "SOLIDMARKET"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

const (
	EnvAppEnv = "SOLIDMARKET_APP_ENV"
	EnvPort   = "SOLIDMARKET_APP_PORT"
	EnvDBDSN  = "SOLIDMARKET_DB_DSN"
	EnvDBHost = "SOLIDMARKET_DB_HOST"
	EnvDBUser = "SOLIDMARKET_DB_USER"
	EnvDBName = "SOLIDMARKET_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
