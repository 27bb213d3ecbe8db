package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	Checkout      CheckoutConfig
	Paystack      PaystackConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if _, err := cfg.Checkout.TaxRateDecimal(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"MODAVILLE_APP_ENV" required:"true"`
	Port         string `envconfig:"MODAVILLE_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"MODAVILLE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"MODAVILLE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"MODAVILLE_DB_DSN"`
	Driver string `envconfig:"MODAVILLE_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"MODAVILLE_DB_HOST"`
	LegacyPort     int    `envconfig:"MODAVILLE_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"MODAVILLE_DB_USER"`
	LegacyPassword string `envconfig:"MODAVILLE_DB_PASSWORD"`
	LegacyName     string `envconfig:"MODAVILLE_DB_NAME"`
	LegacySSLMode  string `envconfig:"MODAVILLE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"MODAVILLE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"MODAVILLE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"MODAVILLE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"MODAVILLE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"MODAVILLE_REDIS_URL" required:"true"`
	Address      string        `envconfig:"MODAVILLE_REDIS_ADDR"`
	Password     string        `envconfig:"MODAVILLE_REDIS_PASSWORD"`
	DB           int           `envconfig:"MODAVILLE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"MODAVILLE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"MODAVILLE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"MODAVILLE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"MODAVILLE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"MODAVILLE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"MODAVILLE_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"MODAVILLE_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"MODAVILLE_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"MODAVILLE_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"MODAVILLE_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"MODAVILLE_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"MODAVILLE_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"MODAVILLE_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"MODAVILLE_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"MODAVILLE_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"MODAVILLE_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"MODAVILLE_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"MODAVILLE_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"MODAVILLE_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"MODAVILLE_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"MODAVILLE_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"MODAVILLE_AUTO_MIGRATE" default:"false"`
}

// CheckoutConfig governs the pending-order hand-off and surcharge math.
type CheckoutConfig struct {
	TaxRate     string        `envconfig:"MODAVILLE_CHECKOUT_TAX_RATE" default:"0.05"`
	Currency    string        `envconfig:"MODAVILLE_CHECKOUT_CURRENCY" default:"NGN"`
	PendingTTL  time.Duration `envconfig:"MODAVILLE_CHECKOUT_PENDING_TTL" default:"24h"`
	CallbackURL string        `envconfig:"MODAVILLE_CHECKOUT_CALLBACK_URL" default:"https://shop.modaville.com/checkout/success"`
}

// TaxRateDecimal parses the configured surcharge rate.
func (c CheckoutConfig) TaxRateDecimal() (decimal.Decimal, error) {
	rate, err := decimal.NewFromString(strings.TrimSpace(c.TaxRate))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid checkout tax rate %q: %w", c.TaxRate, err)
	}
	if rate.IsNegative() {
		return decimal.Zero, fmt.Errorf("checkout tax rate must be non-negative")
	}
	return rate, nil
}

type PaystackConfig struct {
	SecretKey string `envconfig:"MODAVILLE_PAYSTACK_SECRET_KEY"`
	PublicKey string `envconfig:"MODAVILLE_PAYSTACK_PUBLIC_KEY"`
	BaseURL   string `envconfig:"MODAVILLE_PAYSTACK_BASE_URL"`
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
