package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Host         string
	Port         int
	AllowOrigins []string
	LogLevel     string
	LogFile      string
	MaxUploadMB  int

	CatalogFile  string
	TestFeesFile string
	TopK         int
}

// Load reads the environment. A .env in the working directory is applied
// first; variables already set in the process win.
func Load() Config {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv reads the environment without touching .env files.
func FromEnv() Config {
	return Config{
		Host:         getenv("HOST", "127.0.0.1"),
		Port:         getint("PORT", 8082),
		AllowOrigins: splitList(getenv("ALLOW_ORIGINS", "*")),
		LogLevel:     getenv("LOG_LEVEL", "info"),
		LogFile:      getenv("LOG_FILE", "logs/rfp-service.log"),
		MaxUploadMB:  getint("MAX_UPLOAD_MB", 16),
		CatalogFile:  getenv("CATALOG_FILE", "data/products/product_catalog.csv"),
		TestFeesFile: getenv("TEST_FEES_FILE", "data/pricing/test_prices.csv"),
		TopK:         getint("TOP_K", 3),
	}
}

func (c Config) Addr() string { return fmt.Sprintf("%s:%d", c.Host, c.Port) }

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getint(k string, def int) int {
	n, err := strconv.Atoi(getenv(k, ""))
	if err != nil {
		return def
	}
	return n
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
