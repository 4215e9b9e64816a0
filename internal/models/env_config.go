package models

import (
	"os"
)

type EnvConfig struct {
	DatabaseURL string
	Port        string
	Debug       bool
}

func ReadEnvConfig() EnvConfig {
	port := os.Getenv("OPENPOLL_PORT")
	if port == "" {
		port = "8080"
	}
	return EnvConfig{
		DatabaseURL: os.Getenv("OPENPOLL_DATABASE_URL"),
		Port:        port,
		Debug:       os.Getenv("OPENPOLL_DEBUG") == "true",
	}
}
