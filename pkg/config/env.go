package config

// EnvPrefix namespaces every environment variable read by Load.
const EnvPrefix = ""

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

const (
	EnvDBDSN  = "MODAVILLE_DB_DSN"
	EnvDBHost = "MODAVILLE_DB_HOST"
	EnvDBUser = "MODAVILLE_DB_USER"
	EnvDBName = "MODAVILLE_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
