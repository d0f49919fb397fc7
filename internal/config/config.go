package config

import (
	"log"
	"os"
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	App      AppConfig
	Policy   PolicyConfig
	Cache    CacheConfig
	Snapshot SnapshotConfig
}

type ServerConfig struct {
	Port           string
	Mode           string
	ReadTimeout    int
	WriteTimeout   int
	AllowedOrigins []string
}

type AppConfig struct {
	UploadDir     string
	OutputDir     string
	ReorderPolicy string // "coverage" or "reorder_point"
	RulesFile     string // SS/EOQ table, required for reorder_point
}

// PolicyConfig carries the business rules the engine is built with. Values
// here are read once at startup; the engine itself never touches viper.
type PolicyConfig struct {
	PriceLimit          float64
	NormalCoverMonths   float64
	CampaignFamily      int
	CampaignCoverMonths float64
	CampaignStart       string // MM-DD
	CampaignEnd         string // MM-DD
	ExceptionFamilies   []int
	StockBasis          string // "effective" or "on_hand_only"
}

type CacheConfig struct {
	Enabled       bool
	RedisURL      string
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	RunTTLSeconds int
}

// SnapshotConfig controls the monthly snapshot directory and the optional
// mirror to an S3-compatible bucket.
type SnapshotConfig struct {
	Dir           string
	MirrorEnabled bool
	Endpoint      string
	AccessKey     string
	SecretKey     string
	Bucket        string
	UseSSL        bool
}

var (
	once     sync.Once
	instance *Config
)

func Load() *Config {
	once.Do(func() {
		// Load .env file if it exists
		_ = godotenv.Load()

		viper.SetDefault("SERVER_PORT", "8080")
		viper.SetDefault("SERVER_MODE", "debug")
		viper.SetDefault("SERVER_READ_TIMEOUT", 30)
		viper.SetDefault("SERVER_WRITE_TIMEOUT", 30)
		viper.SetDefault("SERVER_ALLOWED_ORIGINS", []string{"*"})
		viper.SetDefault("APP_UPLOAD_DIR", "./data/uploads")
		viper.SetDefault("APP_OUTPUT_DIR", "./data/output")
		viper.SetDefault("APP_REORDER_POLICY", "coverage")
		viper.SetDefault("APP_RULES_FILE", "")
		viper.SetDefault("POLICY_PRICE_LIMIT", 1500.0)
		viper.SetDefault("POLICY_NORMAL_COVER_MONTHS", 2.0)
		viper.SetDefault("POLICY_CAMPAIGN_FAMILY", 11)
		viper.SetDefault("POLICY_CAMPAIGN_COVER_MONTHS", 9.0)
		viper.SetDefault("POLICY_CAMPAIGN_START", "09-16")
		viper.SetDefault("POLICY_CAMPAIGN_END", "11-22")
		viper.SetDefault("POLICY_EXCEPTION_FAMILIES", []int{17, 18, 21, 42})
		viper.SetDefault("POLICY_STOCK_BASIS", "effective")
		viper.SetDefault("CACHE_ENABLED", false)
		viper.SetDefault("REDIS_URL", "")
		viper.SetDefault("REDIS_HOST", "127.0.0.1")
		viper.SetDefault("REDIS_PORT", "6379")
		viper.SetDefault("REDIS_PASSWORD", "")
		viper.SetDefault("REDIS_DB", 0)
		viper.SetDefault("CACHE_RUN_TTL_SECONDS", 3600)
		viper.SetDefault("SNAPSHOT_DIR", "./data/historico")
		viper.SetDefault("SNAPSHOT_MIRROR_ENABLED", false)
		viper.SetDefault("SNAPSHOT_ENDPOINT", "")
		viper.SetDefault("SNAPSHOT_ACCESS_KEY", "")
		viper.SetDefault("SNAPSHOT_SECRET_KEY", "")
		viper.SetDefault("SNAPSHOT_BUCKET", "")
		viper.SetDefault("SNAPSHOT_USE_SSL", true)

		viper.AutomaticEnv()

		ensureDir(viper.GetString("APP_UPLOAD_DIR"))
		ensureDir(viper.GetString("APP_OUTPUT_DIR"))
		ensureDir(viper.GetString("SNAPSHOT_DIR"))

		instance = &Config{
			Server: ServerConfig{
				Port:           viper.GetString("SERVER_PORT"),
				Mode:           viper.GetString("SERVER_MODE"),
				ReadTimeout:    viper.GetInt("SERVER_READ_TIMEOUT"),
				WriteTimeout:   viper.GetInt("SERVER_WRITE_TIMEOUT"),
				AllowedOrigins: viper.GetStringSlice("SERVER_ALLOWED_ORIGINS"),
			},
			App: AppConfig{
				UploadDir:     viper.GetString("APP_UPLOAD_DIR"),
				OutputDir:     viper.GetString("APP_OUTPUT_DIR"),
				ReorderPolicy: viper.GetString("APP_REORDER_POLICY"),
				RulesFile:     viper.GetString("APP_RULES_FILE"),
			},
			Policy: PolicyConfig{
				PriceLimit:          viper.GetFloat64("POLICY_PRICE_LIMIT"),
				NormalCoverMonths:   viper.GetFloat64("POLICY_NORMAL_COVER_MONTHS"),
				CampaignFamily:      viper.GetInt("POLICY_CAMPAIGN_FAMILY"),
				CampaignCoverMonths: viper.GetFloat64("POLICY_CAMPAIGN_COVER_MONTHS"),
				CampaignStart:       viper.GetString("POLICY_CAMPAIGN_START"),
				CampaignEnd:         viper.GetString("POLICY_CAMPAIGN_END"),
				ExceptionFamilies:   viper.GetIntSlice("POLICY_EXCEPTION_FAMILIES"),
				StockBasis:          viper.GetString("POLICY_STOCK_BASIS"),
			},
			Cache: CacheConfig{
				Enabled:       viper.GetBool("CACHE_ENABLED"),
				RedisURL:      viper.GetString("REDIS_URL"),
				RedisHost:     viper.GetString("REDIS_HOST"),
				RedisPort:     viper.GetString("REDIS_PORT"),
				RedisPassword: viper.GetString("REDIS_PASSWORD"),
				RedisDB:       viper.GetInt("REDIS_DB"),
				RunTTLSeconds: viper.GetInt("CACHE_RUN_TTL_SECONDS"),
			},
			Snapshot: SnapshotConfig{
				Dir:           viper.GetString("SNAPSHOT_DIR"),
				MirrorEnabled: viper.GetBool("SNAPSHOT_MIRROR_ENABLED"),
				Endpoint:      viper.GetString("SNAPSHOT_ENDPOINT"),
				AccessKey:     viper.GetString("SNAPSHOT_ACCESS_KEY"),
				SecretKey:     viper.GetString("SNAPSHOT_SECRET_KEY"),
				Bucket:        viper.GetString("SNAPSHOT_BUCKET"),
				UseSSL:        viper.GetBool("SNAPSHOT_USE_SSL"),
			},
		}
	})

	return instance
}

func ensureDir(dir string) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Fatalf("Failed to create directory %s: %v", dir, err)
		}
	}
}
