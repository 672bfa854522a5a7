package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	Store        StoreConfig
	DB           DBConfig
	Mongo        MongoConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Identity     IdentityConfig
	FeatureFlags FeatureFlagsConfig
	GCP          GCPConfig
	GCS          GCSConfig
	Media        MediaConfig
	CORS         CORSConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Store.validate(); err != nil {
		return nil, err
	}
	switch {
	case cfg.Store.UsesMongo():
		if strings.TrimSpace(cfg.Mongo.URI) == "" {
			return nil, fmt.Errorf("%s is required when %s=%s", EnvMongoURI, EnvStoreDriver, StoreDriverMongo)
		}
	case cfg.FeatureFlags.UseSQLite:
		if cfg.DB.DSN == "" {
			cfg.DB.DSN = DefaultSQLiteDSN
		}
	default:
		if err := cfg.DB.ensureDSN(); err != nil {
			return nil, err
		}
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"CIVIC_APP_ENV" required:"true"`
	Port         string `envconfig:"CIVIC_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"CIVIC_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"CIVIC_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// StoreConfig selects the persistence backend shared by users, complaints and alerts.
type StoreConfig struct {
	Driver string `envconfig:"CIVIC_STORE_DRIVER" default:"postgres"`
}

func (s StoreConfig) UsesMongo() bool {
	return strings.EqualFold(strings.TrimSpace(s.Driver), StoreDriverMongo)
}

func (s StoreConfig) validate() error {
	switch strings.ToLower(strings.TrimSpace(s.Driver)) {
	case StoreDriverPostgres, StoreDriverMongo:
		return nil
	}
	return fmt.Errorf("unsupported %s %q", EnvStoreDriver, s.Driver)
}

type DBConfig struct {
	DSN string `envconfig:"CIVIC_DB_DSN"`

	LegacyHost     string `envconfig:"CIVIC_DB_HOST"`
	LegacyPort     int    `envconfig:"CIVIC_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"CIVIC_DB_USER"`
	LegacyPassword string `envconfig:"CIVIC_DB_PASSWORD"`
	LegacyName     string `envconfig:"CIVIC_DB_NAME"`
	LegacySSLMode  string `envconfig:"CIVIC_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"CIVIC_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"CIVIC_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"CIVIC_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"CIVIC_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type MongoConfig struct {
	URI            string        `envconfig:"CIVIC_MONGO_URI"`
	Database       string        `envconfig:"CIVIC_MONGO_DATABASE" default:"halisahar_connect"`
	ConnectTimeout time.Duration `envconfig:"CIVIC_MONGO_CONNECT_TIMEOUT" default:"10s"`
}

// RedisConfig is optional; an empty URL and address disables session tracking.
type RedisConfig struct {
	URL          string        `envconfig:"CIVIC_REDIS_URL"`
	Address      string        `envconfig:"CIVIC_REDIS_ADDR"`
	Password     string        `envconfig:"CIVIC_REDIS_PASSWORD"`
	DB           int           `envconfig:"CIVIC_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"CIVIC_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"CIVIC_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"CIVIC_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"CIVIC_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"CIVIC_REDIS_WRITE_TIMEOUT" default:"5s"`
}

func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.URL) != "" || strings.TrimSpace(r.Address) != ""
}

type JWTConfig struct {
	Secret            string `envconfig:"CIVIC_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"CIVIC_JWT_ISSUER" default:"halisahar-connect"`
	ExpirationMinutes int    `envconfig:"CIVIC_JWT_EXPIRATION_MINUTES" default:"10080"`
}

// TTL returns the access token lifetime.
func (j JWTConfig) TTL() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type IdentityConfig struct {
	GoogleClientID string   `envconfig:"CIVIC_GOOGLE_CLIENT_ID"`
	AdminEmails    []string `envconfig:"CIVIC_ADMIN_EMAILS" default:"theshubhamchowdhury01@gmail.com,jyotishyadavcse@gmail.com"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"CIVIC_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"CIVIC_AUTO_MIGRATE" default:"false"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"CIVIC_GCP_PROJECT_ID"`
	CredentialsJSON        string `envconfig:"CIVIC_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"CIVIC_GOOGLE_APPLICATION_CREDENTIALS"`
}

type GCSConfig struct {
	BucketName    string        `envconfig:"CIVIC_GCS_BUCKET_NAME"`
	Folder        string        `envconfig:"CIVIC_GCS_FOLDER" default:"halisahar-connect"`
	PublicBaseURL string        `envconfig:"CIVIC_GCS_PUBLIC_BASE_URL" default:"https://storage.googleapis.com"`
	UploadTimeout time.Duration `envconfig:"CIVIC_GCS_UPLOAD_TIMEOUT" default:"0s"`
}

type MediaConfig struct {
	MaxUploadMB int `envconfig:"CIVIC_MAX_UPLOAD_MB" default:"5"`
}

// MaxUploadBytes converts the configured megabyte limit into bytes.
func (m MediaConfig) MaxUploadBytes() int64 {
	if m.MaxUploadMB <= 0 {
		return 0
	}
	return int64(m.MaxUploadMB) * 1024 * 1024
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"CIVIC_CORS_ALLOWED_ORIGINS" default:"http://localhost:5173,http://localhost:3000"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
