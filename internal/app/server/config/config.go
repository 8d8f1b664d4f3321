package config

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	envPath  = "../../.env"
	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"

	defaultRunAddress = "localhost:8080"
	defaultBucket     = "leafwise-photos"
)

type Config struct {
	Env     string
	DB      db
	Server  server
	Logger  logger
	Objects objects
	AI      ai
}

type db struct {
	DatabaseURI string `env:"DATABASE_URI"`
	Migrations  string `env:"MIGRATIONS_PATH"`
}

type server struct {
	RunAddress string `env:"RUN_ADDRESS"`
}

type logger struct {
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// objects — настройки объектного хранилища для фотографий роста
type objects struct {
	Endpoint  string `env:"OBJECTS_ENDPOINT"`
	AccessKey string `env:"OBJECTS_ACCESS_KEY"`
	SecretKey string `env:"OBJECTS_SECRET_KEY"`
	Bucket    string `env:"OBJECTS_BUCKET"`
	UseTLS    bool   `env:"OBJECTS_USE_TLS"`
}

// ai — настройки Gemini для распознавания растений и сезонных прогнозов
type ai struct {
	APIKey string `env:"GENAI_API_KEY"`
	Model  string `env:"GENAI_MODEL"`
}

func MustLoad() *Config {
	if err := godotenv.Load(envPath); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	viper.AutomaticEnv()

	viper.SetDefault("RUN_ADDRESS", defaultRunAddress)
	viper.SetDefault("OBJECTS_BUCKET", defaultBucket)
	viper.SetDefault("GENAI_MODEL", "gemini-2.0-flash")
	viper.SetDefault("APP_ENV", EnvLocal)

	config := Config{
		Env: viper.GetString("app_env"),
		DB: db{
			DatabaseURI: viper.GetString("database_uri"),
			Migrations:  viper.GetString("migrations_path"),
		},
		Server: server{RunAddress: viper.GetString("run_address")},
		Logger: logger{LogLevel: viper.GetString("log_level")},
		Objects: objects{
			Endpoint:  viper.GetString("objects_endpoint"),
			AccessKey: viper.GetString("objects_access_key"),
			SecretKey: viper.GetString("objects_secret_key"),
			Bucket:    viper.GetString("objects_bucket"),
			UseTLS:    viper.GetBool("objects_use_tls"),
		},
		AI: ai{
			APIKey: viper.GetString("genai_api_key"),
			Model:  viper.GetString("genai_model"),
		},
	}

	return &config
}
