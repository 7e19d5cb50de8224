package database

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/training-registration-api/pkg/config"
)

func TestDSN(t *testing.T) {
	dsn := DSN(config.DatabaseConfig{
		Host:     "db",
		Port:     5432,
		User:     "rh",
		Password: "secret",
		Name:     "training_registrations",
		SSLMode:  "disable",
	})
	assert.Equal(t, "host=db port=5432 user=rh password=secret dbname=training_registrations sslmode=disable", dsn)
}
