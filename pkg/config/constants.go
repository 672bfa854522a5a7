package config

const EnvPrefix = "CIVIC"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	StoreDriverPostgres = "postgres"
	StoreDriverMongo    = "mongo"

	DefaultSQLiteDSN = "file:civic.db?cache=shared&_fk=1"
)

const (
	EnvAppEnv      = "CIVIC_APP_ENV"
	EnvPort        = "CIVIC_APP_PORT"
	EnvLogLevel    = "CIVIC_LOG_LEVEL"
	EnvStoreDriver = "CIVIC_STORE_DRIVER"

	EnvDBDSN  = "CIVIC_DB_DSN"
	EnvDBHost = "CIVIC_DB_HOST"
	EnvDBUser = "CIVIC_DB_USER"
	EnvDBName = "CIVIC_DB_NAME"

	EnvMongoURI  = "CIVIC_MONGO_URI"
	EnvRedisURL  = "CIVIC_REDIS_URL"
	EnvUseSQLite = "CIVIC_USE_SQLITE"

	EnvJWTSecret  = "CIVIC_JWT_SECRET"
	EnvJWTIssuer  = "CIVIC_JWT_ISSUER"
	EnvJWTExpMins = "CIVIC_JWT_EXPIRATION_MINUTES"

	EnvGoogleClientID = "CIVIC_GOOGLE_CLIENT_ID"
	EnvAdminEmails    = "CIVIC_ADMIN_EMAILS"
	EnvGCSBucket      = "CIVIC_GCS_BUCKET_NAME"
	EnvMaxUploadMB    = "CIVIC_MAX_UPLOAD_MB"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
