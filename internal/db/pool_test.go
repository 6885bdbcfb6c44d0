package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConnString(t *testing.T) {
	assert.Equal(t,
		"postgres://pushups@localhost:5432/pushups",
		connString(NewDBPoolParams{
			DBHost: "localhost",
			DBPort: "5432",
			DBName: "pushups",
			DBUser: "pushups",
		}),
	)

	// no user configured falls back to the postgres superuser
	assert.Equal(t,
		"postgres://postgres@db:5432/pushups",
		connString(NewDBPoolParams{
			DBHost: "db",
			DBPort: "5432",
			DBName: "pushups",
		}),
	)
}
