package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Backend names resolved by the storage cascade.
const (
	BackendMongo  = "mongo"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

type Config struct {
	Port         string
	MongoURI     string
	MongoDBName  string
	SQLitePath   string
	RedisAddr    string
	GeminiAPIKey string
	UploadDir    string
}

// Load reads .env if present and assembles the runtime configuration.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found; using system environment")
	}

	cfg := Config{
		Port:         os.Getenv("PORT"),
		MongoURI:     os.Getenv("MONGODB_URI"),
		MongoDBName:  os.Getenv("MONGODB_DB_NAME"),
		SQLitePath:   os.Getenv("SQLITE_PATH"),
		RedisAddr:    os.Getenv("REDIS_ADDR"),
		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
		UploadDir:    os.Getenv("UPLOAD_DIR"),
	}
	if cfg.GeminiAPIKey == "" {
		cfg.GeminiAPIKey = os.Getenv("API_KEY")
	}
	if cfg.Port == "" {
		cfg.Port = ":8080"
	} else if cfg.Port[0] != ':' {
		cfg.Port = ":" + cfg.Port
	}
	if cfg.MongoDBName == "" {
		cfg.MongoDBName = "eventdb"
	}
	if cfg.UploadDir == "" {
		cfg.UploadDir = "./static"
	}
	return cfg
}

// Backend picks the storage backend. Precedence: Mongo > SQLite > memory.
// SQLite wins over memory whenever a path is set or the default data file is
// usable, so a bare deployment still persists across restarts.
func (c Config) Backend() string {
	if c.MongoURI != "" {
		return BackendMongo
	}
	if c.SQLitePath != "" {
		return BackendSQLite
	}
	if os.Getenv("EVENTHORIZON_EPHEMERAL") != "" {
		return BackendMemory
	}
	return BackendSQLite
}

// ResolvedSQLitePath returns the configured path or the default data file.
func (c Config) ResolvedSQLitePath() string {
	if c.SQLitePath != "" {
		return c.SQLitePath
	}
	return "./data/eventhorizon.db"
}
