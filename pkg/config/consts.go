package config

const EnvPrefix = "LAVANDERIA"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvDBDSN  = "LAVANDERIA_DB_DSN"
	EnvDBHost = "LAVANDERIA_DB_HOST"
	EnvDBUser = "LAVANDERIA_DB_USER"
	EnvDBName = "LAVANDERIA_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
