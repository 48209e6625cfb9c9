package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Defaults for the two mutating reports.
const (
	DefaultPriceIncrement        = 5.0
	DefaultPriceCutoffYear       = 2010
	DefaultRemoveCopiesThreshold = 4200
)

type Config struct {
	Port           string
	DBDriver       string // sqlite | pgx
	DBDSN          string
	LogFile        string
	AdminTokenHash string // bcrypt; empty disables /admin
	Mutations      Mutations
}

// Mutations holds the parameters used when increase-prices or
// remove-books are run without explicit arguments.
type Mutations struct {
	PriceIncrement        float64
	PriceCutoffYear       int
	RemoveCopiesThreshold int
}

func DefaultMutations() Mutations {
	return Mutations{
		PriceIncrement:        DefaultPriceIncrement,
		PriceCutoffYear:       DefaultPriceCutoffYear,
		RemoveCopiesThreshold: DefaultRemoveCopiesThreshold,
	}
}

func Load() Config {
	// Values already in the environment win over the files.
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	cfg := Config{
		Port:           get("PORT", "8080"),
		DBDriver:       get("DB_DRIVER", "sqlite"),
		DBDSN:          get("DB_DSN", "bookshop.db"), // sqlite file in working dir
		LogFile:        os.Getenv("LOG_FILE"),
		AdminTokenHash: os.Getenv("ADMIN_TOKEN_HASH"),
		Mutations: Mutations{
			PriceIncrement:        getFloat("PRICE_INCREMENT", DefaultPriceIncrement),
			PriceCutoffYear:       getInt("PRICE_CUTOFF_YEAR", DefaultPriceCutoffYear),
			RemoveCopiesThreshold: getInt("REMOVE_COPIES_THRESHOLD", DefaultRemoveCopiesThreshold),
		},
	}
	log.Printf("[config] DB_DRIVER=%s DB_DSN=%s PORT=%s LOG_FILE=%s admin=%t",
		cfg.DBDriver, cfg.DBDSN, cfg.Port, cfg.LogFile, cfg.AdminTokenHash != "")
	return cfg
}

func get(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("[warn] %s=%q is not an integer, using %d", key, v, def)
		return def
	}
	return n
}

func getFloat(key string, def float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		log.Printf("[warn] %s=%q is not a number, using %g", key, v, def)
		return def
	}
	return f
}
