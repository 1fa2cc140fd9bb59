package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config конфигурация приложения
type Config struct {
	DBDSN         string
	HTTPAddr      string
	Environment   string
	MigrationsDir string

	// Время жизни токена посещения (отсчитывается от момента выдачи)
	TokenTTL time.Duration

	// Вместимость слота по умолчанию
	SlotCapacity int

	// Диапазоны часов по сменам: слоты генерируются для часов [start, end)
	MorningStartHour int
	MorningEndHour   int
	EveningStartHour int
	EveningEndHour   int
}

func Load() (*Config, error) {
	// Пытаемся загрузить .env файл (игнорируем ошибку, если файла нет)
	if err := godotenv.Load(".env"); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		DBDSN:         os.Getenv("DB_DSN"),
		HTTPAddr:      os.Getenv("HTTP_ADDR"),
		Environment:   os.Getenv("ENV"),
		MigrationsDir: os.Getenv("MIGRATIONS_DIR"),

		TokenTTL:     time.Duration(envInt("TOKEN_TTL_HOURS", 6)) * time.Hour,
		SlotCapacity: envInt("SLOT_CAPACITY", 5),

		MorningStartHour: envInt("MORNING_START_HOUR", 6),
		MorningEndHour:   envInt("MORNING_END_HOUR", 14),
		EveningStartHour: envInt("EVENING_START_HOUR", 15),
		EveningEndHour:   envInt("EVENING_END_HOUR", 22),
	}

	// Устанавливаем дефолтные значения
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = ":8080"
	}
	if cfg.MigrationsDir == "" {
		cfg.MigrationsDir = "migrations"
	}

	// Проверяем обязательные поля
	if cfg.DBDSN == "" {
		return nil, fmt.Errorf("DB_DSN is required but not set")
	}
	if cfg.MorningStartHour >= cfg.MorningEndHour || cfg.EveningStartHour >= cfg.EveningEndHour {
		return nil, fmt.Errorf("turn hour ranges are invalid")
	}

	return cfg, nil
}

// TurnHours возвращает диапазон часов [start, end) для смены
func (c *Config) TurnHours(turn string) (int, int) {
	if turn == "MORNING" {
		return c.MorningStartHour, c.MorningEndHour
	}
	return c.EveningStartHour, c.EveningEndHour
}

func envInt(key string, def int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		log.Printf("invalid %s=%q, using default %d", key, raw, def)
		return def
	}
	return v
}
