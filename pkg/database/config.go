// -----------------------------------------------------------------------------
// Database Configuration
// -----------------------------------------------------------------------------
// Bağlantı yapılandırması YAML dosyasından okunur. Eksik alanlar makul
// varsayılanlarla doldurulur; sadece driver ve database zorunludur.
//
// Örnek database.yaml:
//
//	driver: postgres
//	host: localhost
//	port: 5432
//	username: app
//	password: secret
//	database: app_production
//	sslmode: disable
// -----------------------------------------------------------------------------

package database

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config, veritabanı bağlantı yapılandırmasını taşır.
type Config struct {
	Driver   string `yaml:"driver"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Database string `yaml:"database"` // sqlite için dosya yolu veya ":memory:"
	SSLMode  string `yaml:"sslmode"`

	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
}

// applyDefaults, boş bırakılan alanları varsayılan değerlerle doldurur.
func (c *Config) applyDefaults() {
	if c.Host == "" {
		c.Host = "localhost"
	}
	if c.Port == 0 {
		switch c.Driver {
		case "mysql":
			c.Port = 3306
		case "postgres":
			c.Port = 5432
		}
	}
	if c.SSLMode == "" {
		c.SSLMode = "disable"
	}
	if c.MaxOpenConns == 0 {
		c.MaxOpenConns = 25
	}
	if c.MaxIdleConns == 0 {
		c.MaxIdleConns = 25
	}
	if c.ConnMaxLifetime == 0 {
		c.ConnMaxLifetime = 5 * time.Minute
	}
}

// validate, zorunlu alanları kontrol eder.
func (c *Config) validate() error {
	if c.Driver == "" {
		return fmt.Errorf("config: driver is required")
	}
	if c.Database == "" {
		return fmt.Errorf("config: database is required")
	}
	return nil
}

// LoadConfig, YAML yapılandırma dosyasını okur, doğrular ve varsayılanları
// uygular.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: failed to read %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse %s: %w", path, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	return &cfg, nil
}
