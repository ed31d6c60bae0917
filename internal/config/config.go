package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	App       App       `mapstructure:",squash"`
	Server    Server    `mapstructure:",squash"`
	Database  Database  `mapstructure:",squash"`
	Shopify   Shopify   `mapstructure:",squash"`
	Meta      Meta      `mapstructure:",squash"`
	Auth      Auth      `mapstructure:",squash"`
	TaskQueue TaskQueue `mapstructure:",squash"`
	Schedules Schedules `mapstructure:",squash"`
	Analytics Analytics `mapstructure:",squash"`
}

type App struct {
	LogLevel string `mapstructure:"log_level"`
}

type Server struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
}

type Database struct {
	DSN      string `mapstructure:"-"`
	Driver   string `mapstructure:"database_driver"`
	Password string `mapstructure:"database_password"`
	URL      string `mapstructure:"database_url"`
	User     string `mapstructure:"database_user"`
}

type Shopify struct {
	APIVersion    string `mapstructure:"shopify_api_version"`
	APIKey        string `mapstructure:"shopify_api_key"`
	APISecret     string `mapstructure:"shopify_api_secret"`
	WebhookSecret string `mapstructure:"shopify_webhook_secret"`
	PageSize      int    `mapstructure:"shopify_page_size"`
	MaxRetries    int    `mapstructure:"shopify_max_retries"`
}

type Meta struct {
	BaseURL       string `mapstructure:"meta_base_url"`
	URL           string `mapstructure:"-"`
	Version       string `mapstructure:"meta_version"`
	AppSecret     string `mapstructure:"meta_app_secret"`
	WebhookSecret string `mapstructure:"meta_webhook_secret"`
	PageSize      int    `mapstructure:"meta_page_size"`
	MaxRetries    int    `mapstructure:"meta_max_retries"`
}

type Auth struct {
	Secret string `mapstructure:"auth_secret"`
}

// TaskQueue controla o despachador de jobs: tamanho dos pools por fila,
// política de retry e limites de tempo por execução.
type TaskQueue struct {
	WorkersSetup       int           `mapstructure:"queue_workers_setup"`
	WorkersTrends      int           `mapstructure:"queue_workers_trends"`
	WorkersAnalysis    int           `mapstructure:"queue_workers_analysis"`
	WorkersAI          int           `mapstructure:"queue_workers_ai"`
	WorkersMaintenance int           `mapstructure:"queue_workers_maintenance"`
	WorkersWebhooks    int           `mapstructure:"queue_workers_webhooks"`
	WorkersSync        int           `mapstructure:"queue_workers_sync"`
	BufferSize         int           `mapstructure:"queue_buffer_size"`
	MaxAttempts        int           `mapstructure:"queue_max_attempts"`
	BackoffBase        time.Duration `mapstructure:"queue_backoff_base"`
	BackoffCap         time.Duration `mapstructure:"queue_backoff_cap"`
	SoftTimeLimit      time.Duration `mapstructure:"queue_soft_time_limit"`
	HardTimeLimit      time.Duration `mapstructure:"queue_hard_time_limit"`
}

// Schedules é a tabela de recorrência dos jobs periódicos, carregada na
// subida do processo e imutável em runtime.
type Schedules struct {
	DetectTrendsCron   string `mapstructure:"detect_trends_cron"`
	RunDiagnosticsCron string `mapstructure:"run_diagnostics_cron"`
	TrainAIModelsCron  string `mapstructure:"train_ai_models_cron"`
	CleanupOldDataCron string `mapstructure:"cleanup_old_data_cron"`
	PeriodicEnabled    bool   `mapstructure:"periodic_jobs_enabled"`
	OverlapPolicy      string `mapstructure:"schedule_overlap_policy"`
}

type Analytics struct {
	FatigueCTRThreshold  float64 `mapstructure:"fatigue_ctr_threshold"`
	HighInventoryMinimum int     `mapstructure:"high_inventory_minimum"`
	OrderRetentionDays   int     `mapstructure:"order_retention_days"`
	TrendRetentionDays   int     `mapstructure:"trend_retention_days"`
}

func SetDefaults() {
	viper.SetDefault("HOST", "localhost")
	viper.SetDefault("PORT", 8000)

	viper.SetDefault("DATABASE_DRIVER", "postgres")
	viper.SetDefault("DATABASE_URL", "localhost:5432/klyq")
	viper.SetDefault("DATABASE_USER", "postgres")
	viper.SetDefault("DATABASE_PASSWORD", "root")

	viper.SetDefault("SHOPIFY_API_VERSION", "2023-10")
	viper.SetDefault("SHOPIFY_API_KEY", "your_api_key")
	viper.SetDefault("SHOPIFY_API_SECRET", "your_api_secret")
	viper.SetDefault("SHOPIFY_WEBHOOK_SECRET", "your_webhook_secret")
	viper.SetDefault("SHOPIFY_PAGE_SIZE", 250) // Limite da Admin API
	viper.SetDefault("SHOPIFY_MAX_RETRIES", 3)

	viper.SetDefault("META_BASE_URL", "https://graph.facebook.com")
	viper.SetDefault("META_VERSION", "v18.0")
	viper.SetDefault("META_APP_SECRET", "your_app_secret")
	viper.SetDefault("META_WEBHOOK_SECRET", "your_webhook_secret")
	viper.SetDefault("META_PAGE_SIZE", 100)
	viper.SetDefault("META_MAX_RETRIES", 3)

	viper.SetDefault("AUTH_SECRET", "your_auth_secret")

	// Defaults das filas de jobs. Um pool por fila, para que backlog em uma
	// fila não atrase as demais.
	viper.SetDefault("QUEUE_WORKERS_SETUP", 2)
	viper.SetDefault("QUEUE_WORKERS_TRENDS", 2)
	viper.SetDefault("QUEUE_WORKERS_ANALYSIS", 2)
	viper.SetDefault("QUEUE_WORKERS_AI", 1)
	viper.SetDefault("QUEUE_WORKERS_MAINTENANCE", 1)
	viper.SetDefault("QUEUE_WORKERS_WEBHOOKS", 4)
	viper.SetDefault("QUEUE_WORKERS_SYNC", 2)
	viper.SetDefault("QUEUE_BUFFER_SIZE", 1024)
	viper.SetDefault("QUEUE_MAX_ATTEMPTS", 3)
	viper.SetDefault("QUEUE_BACKOFF_BASE", "5s")
	viper.SetDefault("QUEUE_BACKOFF_CAP", "5m")
	viper.SetDefault("QUEUE_SOFT_TIME_LIMIT", "25m")
	viper.SetDefault("QUEUE_HARD_TIME_LIMIT", "30m")

	// Tabela de recorrência dos jobs periódicos
	viper.SetDefault("DETECT_TRENDS_CRON", "*/15 * * * *")  // A cada 15 minutos
	viper.SetDefault("RUN_DIAGNOSTICS_CRON", "0 */2 * * *") // A cada 2 horas
	viper.SetDefault("TRAIN_AI_MODELS_CRON", "0 2 * * *")   // Todos os dias às 2h
	viper.SetDefault("CLEANUP_OLD_DATA_CRON", "0 3 * * 0")  // Domingos às 3h
	viper.SetDefault("PERIODIC_JOBS_ENABLED", false)
	viper.SetDefault("SCHEDULE_OVERLAP_POLICY", "skip") // skip | allow

	viper.SetDefault("FATIGUE_CTR_THRESHOLD", 0.01)
	viper.SetDefault("HIGH_INVENTORY_MINIMUM", 50)
	viper.SetDefault("ORDER_RETENTION_DAYS", 365)
	viper.SetDefault("TREND_RETENTION_DAYS", 30)

	viper.SetDefault("LOG_LEVEL", "debug")
}

func NewConfig() (*Config, error) {
	// Carrega o arquivo .env antes do viper para ambiente local
	loadEnvFile()

	config := &Config{}

	SetDefaults()

	viper.SetConfigType("env")
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		logrus.Info("Usando variáveis carregadas pelo godotenv (viper não conseguiu ler .env):", err)
	}

	err := viper.Unmarshal(&config, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return nil, err
	}

	config.Meta.URL = fmt.Sprintf("%s/%s", config.Meta.BaseURL, config.Meta.Version)

	config.Database.DSN = fmt.Sprintf(
		"%s://%s:%s@%s",
		config.Database.Driver,
		config.Database.User,
		config.Database.Password,
		config.Database.URL,
	)

	return config, nil
}

// loadEnvFile tenta carregar o .env de localizações conhecidas
func loadEnvFile() {
	cwd, err := os.Getwd()
	if err != nil {
		logrus.Warn("Não foi possível obter o diretório atual:", err)
		return
	}

	locations := []string{
		filepath.Join(cwd, ".env"),
		filepath.Join(filepath.Dir(cwd), ".env"),
		filepath.Join(cwd, "../../.env"),
	}

	for _, location := range locations {
		if err := godotenv.Load(location); err == nil {
			logrus.Info("Arquivo .env carregado de:", location)
			return
		}
	}

	logrus.Info("Nenhum arquivo .env encontrado, usando variáveis de ambiente")
}
