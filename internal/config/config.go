package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DriverSQLite   = "sqlite"
	DriverMariaDB  = "mariadb"
	DriverOracle   = "oracle"
	DriverPostgres = "postgres"
)

type Config struct {
	Logger LoggerConfig   `yaml:"logger"`
	Store  DatabaseConfig `yaml:"store"`
	Forms  FormsConfig    `yaml:"forms"`
}

type LoggerConfig struct {
	Level    string `yaml:"level"`
	Target   string `yaml:"target"` // "console", "file" или "both"
	Filename string `yaml:"filename"`
}

type DatabaseConfig struct {
	Driver   string `yaml:"driver" env:"DB_FORMS_DRIVER" default:"sqlite"`
	Path     string `yaml:"path" env:"DB_FORMS_PATH" default:"database.db"` // Только для sqlite
	Host     string `yaml:"host" env:"DB_FORMS_HOST"`
	Port     int    `yaml:"port" env:"DB_FORMS_PORT"`
	User     string `yaml:"user" env:"DB_FORMS_USER"`
	Password string `yaml:"password" env:"DB_FORMS_PASSWORD"`
	DBName   string `yaml:"dbname" env:"DB_FORMS_DBNAME"`
	Timeout  int    `yaml:"timeout" default:"5"` // in seconds
}

type FormsConfig struct {
	// Проверять тип каждого поля, а не только первичного ключа
	StrictFields bool `yaml:"strict_fields"`
}

func Default() *Config {
	return &Config{
		Logger: LoggerConfig{Level: "info", Target: "console"},
		Store:  DatabaseConfig{Driver: DriverSQLite, Path: "database.db", Timeout: 5},
	}
}

func (c *DatabaseConfig) Validate() error {
	switch c.Driver {
	case DriverSQLite:
		if c.Path == "" {
			return errors.New("store path cannot be empty")
		}
		return nil
	case DriverMariaDB, DriverOracle, DriverPostgres:
	default:
		return fmt.Errorf("store driver must be one of 'sqlite', 'mariadb', 'oracle' or 'postgres', got %q", c.Driver)
	}
	if c.Host == "" {
		return errors.New("store host cannot be empty")
	}
	if c.Port <= 0 {
		return errors.New("store port must be positive")
	}
	if c.DBName == "" {
		return errors.New("store dbname cannot be empty")
	}
	return nil
}

func (c *Config) Validate() error {
	switch c.Logger.Target {
	case "", "console", "file", "both":
	default:
		return fmt.Errorf("logger target must be 'console', 'file' or 'both', got %q", c.Logger.Target)
	}
	if (c.Logger.Target == "file" || c.Logger.Target == "both") && c.Logger.Filename == "" {
		return errors.New("logger filename cannot be empty for file target")
	}
	if err := c.Store.Validate(); err != nil {
		return fmt.Errorf("invalid store config: %w", err)
	}
	return nil
}

// GetConfig читает YAML файл поверх значений по умолчанию.
// Отсутствующий файл не ошибка: используются значения по умолчанию и окружение.
func GetConfig(filename string) (*Config, error) {
	cfg := Default()

	f, err := os.Open(filename)
	switch {
	case err == nil:
		defer f.Close()
		decoder := yaml.NewDecoder(f)
		if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("error decoding YAML: %w", err)
		}
	case errors.Is(err, fs.ErrNotExist):
	default:
		return nil, fmt.Errorf("error opening config file: %w", err)
	}

	if err := loadEnv(&cfg.Store); err != nil {
		return nil, err
	}
	if cfg.Store.Timeout <= 0 {
		cfg.Store.Timeout = 5
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadEnv подгружает .env (если есть) и переопределяет параметры хранилища
func loadEnv(db *DatabaseConfig) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("error loading .env: %w", err)
	}

	strs := map[string]*string{
		"DB_FORMS_DRIVER":   &db.Driver,
		"DB_FORMS_PATH":     &db.Path,
		"DB_FORMS_HOST":     &db.Host,
		"DB_FORMS_USER":     &db.User,
		"DB_FORMS_PASSWORD": &db.Password,
		"DB_FORMS_DBNAME":   &db.DBName,
	}
	for key, dst := range strs {
		if v, ok := os.LookupEnv(key); ok {
			*dst = v
		}
	}
	if v, ok := os.LookupEnv("DB_FORMS_PORT"); ok {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("DB_FORMS_PORT must be a number: %w", err)
		}
		db.Port = port
	}
	return nil
}
