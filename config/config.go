package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App        AppConfig
	DB         DBConfig
	Redis      RedisConfig
	JWT        JWTConfig
	Scheduling SchedulingConfig
}

type AppConfig struct {
	Port string
	Env  string
}

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret        string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
}

// SchedulingConfig carries the booking engine constants. The default working
// window applies to doctors without a working-hours record of their own; it
// is explicit here so clinics override it in configuration instead of the
// engine silently inventing one.
type SchedulingConfig struct {
	SlotMinutes      int
	DefaultDays      []string
	DefaultStartTime string
	DefaultEndTime   string
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	viper.SetDefault("SLOT_MINUTES", 30)
	viper.SetDefault("DEFAULT_WORKING_DAYS", "Monday Tuesday Wednesday Thursday Friday")
	viper.SetDefault("DEFAULT_WORKING_START", "08:00")
	viper.SetDefault("DEFAULT_WORKING_END", "16:00")

	accessExpiry, err := time.ParseDuration(viper.GetString("JWT_ACCESS_EXPIRY"))
	if err != nil {
		accessExpiry = 15 * time.Minute
	}

	refreshExpiry, err := time.ParseDuration(viper.GetString("JWT_REFRESH_EXPIRY"))
	if err != nil {
		refreshExpiry = 7 * 24 * time.Hour
	}

	config := &Config{
		App: AppConfig{
			Port: viper.GetString("APP_PORT"),
			Env:  viper.GetString("APP_ENV"),
		},
		DB: DBConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			Name:     viper.GetString("DB_NAME"),
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetString("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		JWT: JWTConfig{
			Secret:        viper.GetString("JWT_SECRET"),
			AccessExpiry:  accessExpiry,
			RefreshExpiry: refreshExpiry,
		},
		Scheduling: SchedulingConfig{
			SlotMinutes:      viper.GetInt("SLOT_MINUTES"),
			DefaultDays:      viper.GetStringSlice("DEFAULT_WORKING_DAYS"),
			DefaultStartTime: viper.GetString("DEFAULT_WORKING_START"),
			DefaultEndTime:   viper.GetString("DEFAULT_WORKING_END"),
		},
	}

	return config, nil
}
