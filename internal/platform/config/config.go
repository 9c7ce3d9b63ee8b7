package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL    string
	Port           string
	IsProduction   bool
	EnableDBCheck  bool
	MigrationsPath string
	TxMaxRetries   int

	JWTSecret         string
	JWTIssuer         string
	JWTExpiryDuration time.Duration
	// OperatorAPIKeyHash is a bcrypt hash; batch jobs present the plain key in x-api-key.
	OperatorAPIKeyHash string

	Ledger LedgerConfig

	DocumentStore     string // "local" or "gdrive"
	DocumentDir       string
	DocumentIndexPath string
	GDrive            GDriveConfig

	LotRegistryURL     string
	RateLimit          string // ulule/limiter formatted rate, e.g. "100-M"
	CORSAllowedOrigins []string
	PosthogAPIKey      string
}

// LedgerConfig holds the designated accounts and period rules of the closing
// and billing algorithms.
type LedgerConfig struct {
	ResultAccountCode           string `mapstructure:"RESULT_ACCOUNT_CODE"`
	RetainedEarningsAccountCode string `mapstructure:"RETAINED_EARNINGS_ACCOUNT_CODE"`
	ReceivableAccountCode       string `mapstructure:"RECEIVABLE_ACCOUNT_CODE"`
	BillingRevenueAccountCode   string `mapstructure:"BILLING_REVENUE_ACCOUNT_CODE"`
	SuccessorPeriodDays         int    `mapstructure:"SUCCESSOR_PERIOD_DAYS"`
}

// GDriveConfig holds the OAuth client used by the Drive document store.
type GDriveConfig struct {
	ClientID     string `mapstructure:"GDRIVE_CLIENT_ID"`
	ClientSecret string `mapstructure:"GDRIVE_CLIENT_SECRET"`
	RefreshToken string `mapstructure:"GDRIVE_REFRESH_TOKEN"`
	FolderID     string `mapstructure:"GDRIVE_FOLDER_ID"`
}

// DefaultLedgerConfig returns the chart codes used by the trust.
func DefaultLedgerConfig() LedgerConfig {
	return LedgerConfig{
		ResultAccountCode:           "890",
		RetainedEarningsAccountCode: "119",
		ReceivableAccountCode:       "3421",
		BillingRevenueAccountCode:   "7111",
		SuccessorPeriodDays:         365,
	}
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	ledger := DefaultLedgerConfig()
	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("MIGRATIONS_PATH", "file://migrations")
	viper.SetDefault("TX_MAX_RETRIES", 3)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_ISSUER", "copro-ledger")
	viper.SetDefault("JWT_EXPIRY_DURATION", "1h")
	viper.SetDefault("OPERATOR_API_KEY_HASH", "")
	viper.SetDefault("RESULT_ACCOUNT_CODE", ledger.ResultAccountCode)
	viper.SetDefault("RETAINED_EARNINGS_ACCOUNT_CODE", ledger.RetainedEarningsAccountCode)
	viper.SetDefault("RECEIVABLE_ACCOUNT_CODE", ledger.ReceivableAccountCode)
	viper.SetDefault("BILLING_REVENUE_ACCOUNT_CODE", ledger.BillingRevenueAccountCode)
	viper.SetDefault("SUCCESSOR_PERIOD_DAYS", ledger.SuccessorPeriodDays)
	viper.SetDefault("DOCUMENT_STORE", "local")
	viper.SetDefault("DOCUMENT_DIR", "./documents")
	viper.SetDefault("DOCUMENT_INDEX_PATH", "./documents/index.db")
	viper.SetDefault("LOT_REGISTRY_URL", "")
	viper.SetDefault("RATE_LIMIT", "300-M")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"})
	viper.SetDefault("POSTHOG_API_KEY", "")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")
	cfg.MigrationsPath = viper.GetString("MIGRATIONS_PATH")

	cfg.TxMaxRetries = viper.GetInt("TX_MAX_RETRIES")
	if cfg.TxMaxRetries < 1 {
		log.Printf("Warning: Invalid value for TX_MAX_RETRIES (%d). Defaulting to 1.\n", cfg.TxMaxRetries)
		cfg.TxMaxRetries = 1
	}

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "a-very-secret-key-should-be-longer-and-random" // !! CHANGE IN PRODUCTION !!
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}
	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")

	jwtExpiryStr := viper.GetString("JWT_EXPIRY_DURATION")
	jwtExpiryDuration, err := time.ParseDuration(jwtExpiryStr)
	if err != nil {
		jwtExpiryDuration = time.Hour
		log.Printf("Warning: Invalid value for JWT_EXPIRY_DURATION ('%s'). Defaulting to %s.\n", jwtExpiryStr, jwtExpiryDuration)
	}
	cfg.JWTExpiryDuration = jwtExpiryDuration

	cfg.OperatorAPIKeyHash = viper.GetString("OPERATOR_API_KEY_HASH")
	if cfg.OperatorAPIKeyHash == "" {
		log.Println("Warning: OPERATOR_API_KEY_HASH not set. API key authentication is disabled.")
	}

	cfg.Ledger = LedgerConfig{
		ResultAccountCode:           viper.GetString("RESULT_ACCOUNT_CODE"),
		RetainedEarningsAccountCode: viper.GetString("RETAINED_EARNINGS_ACCOUNT_CODE"),
		ReceivableAccountCode:       viper.GetString("RECEIVABLE_ACCOUNT_CODE"),
		BillingRevenueAccountCode:   viper.GetString("BILLING_REVENUE_ACCOUNT_CODE"),
		SuccessorPeriodDays:         viper.GetInt("SUCCESSOR_PERIOD_DAYS"),
	}
	if cfg.Ledger.SuccessorPeriodDays < 1 {
		log.Printf("Warning: Invalid value for SUCCESSOR_PERIOD_DAYS (%d). Defaulting to %d.\n", cfg.Ledger.SuccessorPeriodDays, ledger.SuccessorPeriodDays)
		cfg.Ledger.SuccessorPeriodDays = ledger.SuccessorPeriodDays
	}

	cfg.DocumentStore = viper.GetString("DOCUMENT_STORE")
	cfg.DocumentDir = viper.GetString("DOCUMENT_DIR")
	cfg.DocumentIndexPath = viper.GetString("DOCUMENT_INDEX_PATH")
	cfg.GDrive = GDriveConfig{
		ClientID:     viper.GetString("GDRIVE_CLIENT_ID"),
		ClientSecret: viper.GetString("GDRIVE_CLIENT_SECRET"),
		RefreshToken: viper.GetString("GDRIVE_REFRESH_TOKEN"),
		FolderID:     viper.GetString("GDRIVE_FOLDER_ID"),
	}
	if cfg.DocumentStore == "gdrive" && (cfg.GDrive.ClientID == "" || cfg.GDrive.RefreshToken == "") {
		log.Println("Warning: DOCUMENT_STORE=gdrive but GDRIVE_CLIENT_ID or GDRIVE_REFRESH_TOKEN not set. Uploads will fail.")
	}

	cfg.LotRegistryURL = viper.GetString("LOT_REGISTRY_URL")
	if cfg.LotRegistryURL == "" {
		log.Println("Warning: LOT_REGISTRY_URL not set. Every lot reference is assumed to exist.")
	}

	cfg.RateLimit = viper.GetString("RATE_LIMIT")
	cfg.CORSAllowedOrigins = viper.GetStringSlice("CORS_ALLOWED_ORIGINS")
	cfg.PosthogAPIKey = viper.GetString("POSTHOG_API_KEY")

	return cfg, nil
}
