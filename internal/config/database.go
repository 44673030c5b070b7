package config

import (
	"os"
)

const (
	databasePathEnv = "DATABASE_PATH"

	defaultDatabasePath = "./agrotask.db"
)

type DatabaseConfig struct {
	Path string
}

func LoadDatabaseConfig() *DatabaseConfig {
	path := os.Getenv(databasePathEnv)
	if path == "" {
		path = defaultDatabasePath
	}

	return &DatabaseConfig{
		Path: path,
	}
}
