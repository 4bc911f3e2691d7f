package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds application configuration
type Config struct {
	DB     DBConfig     `yaml:"db"`
	Server ServerConfig `yaml:"server"`
	Seeder SeederConfig `yaml:"seeder"`
	Log    LogConfig    `yaml:"log"`
}

// DBType represents database type
type DBType string

const (
	DBTypePostgreSQL DBType = "postgres"
	DBTypeMemory     DBType = "memory"
)

// DBConfig holds database configuration
type DBConfig struct {
	Type     DBType `yaml:"type"`
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"sslmode"`
}

// SeederConfig holds settings for the GeoNames import
type SeederConfig struct {
	DataDir       string `yaml:"data_dir"`
	CitiesFile    string `yaml:"cities_file"`
	MinPopulation int    `yaml:"min_population"`
	AutoSeed      bool   `yaml:"auto_seed"`
}

// LogConfig holds logger settings
type LogConfig struct {
	Level string `yaml:"level"`
}

// DSN returns the database connection string
func (c DBConfig) DSN() string {
	if c.Type == DBTypeMemory {
		// SQLite in-memory database
		if c.Name != "" && c.Name != "geotemp" {
			return fmt.Sprintf("file:%s?mode=memory&cache=shared", c.Name)
		}
		return "file::memory:?cache=shared"
	}
	// PostgreSQL connection string
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Name, c.SSLMode,
	)
}

// IsMemory returns true if using in-memory database
func (c DBConfig) IsMemory() bool {
	return c.Type == DBTypeMemory
}

// MigrationsPath returns the golang-migrate source for the configured backend
func (c DBConfig) MigrationsPath(root string) string {
	if c.IsMemory() {
		return "file://" + root + "/sqlite"
	}
	return "file://" + root + "/postgres"
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port string `yaml:"port"`
}

// Default returns the configuration used when neither a file nor the environment say otherwise
func Default() *Config {
	return &Config{
		DB: DBConfig{
			Type:     DBTypeMemory,
			Host:     "localhost",
			Port:     "5432",
			User:     "geotemp",
			Password: "geotemp_password",
			Name:     "geotemp",
			SSLMode:  "disable",
		},
		Server: ServerConfig{
			Port: "8080",
		},
		Seeder: SeederConfig{
			DataDir:       "data",
			CitiesFile:    "cities15000.txt",
			MinPopulation: 15000,
			AutoSeed:      true,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from an optional YAML file (CONFIG_FILE) and environment variables.
// Environment variables take precedence over the file.
func Load() (*Config, error) {
	_ = godotenv.Load()

	config := Default()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	dbType := DBType(getEnv("DB_TYPE", string(config.DB.Type)))
	if dbType != DBTypePostgreSQL && dbType != DBTypeMemory {
		dbType = DBTypeMemory
	}

	config.DB = DBConfig{
		Type:     dbType,
		Host:     getEnv("DB_HOST", config.DB.Host),
		Port:     getEnv("DB_PORT", config.DB.Port),
		User:     getEnv("DB_USER", config.DB.User),
		Password: getEnv("DB_PASSWORD", config.DB.Password),
		Name:     getEnv("DB_NAME", config.DB.Name),
		SSLMode:  getEnv("DB_SSLMODE", config.DB.SSLMode),
	}
	config.Server.Port = getEnv("APP_PORT", config.Server.Port)
	config.Seeder = SeederConfig{
		DataDir:       getEnv("SEEDER_DATA_DIR", config.Seeder.DataDir),
		CitiesFile:    getEnv("SEEDER_CITIES_FILE", config.Seeder.CitiesFile),
		MinPopulation: getEnvAsInt("SEEDER_MIN_POPULATION", config.Seeder.MinPopulation),
		AutoSeed:      getEnvAsBool("SEEDER_AUTO_SEED", config.Seeder.AutoSeed),
	}
	config.Log.Level = strings.ToLower(getEnv("LOG_LEVEL", config.Log.Level))

	return config, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
