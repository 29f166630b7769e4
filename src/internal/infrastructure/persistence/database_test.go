package persistence

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeMySQLDSN_ForcesParseTimeAndUTC(t *testing.T) {
	dsn, err := normalizeMySQLDSN("user:pass@tcp(localhost:3306)/greenevents")

	require.NoError(t, err)
	assert.Contains(t, dsn, "parseTime=true")
	assert.Contains(t, dsn, "charset=utf8mb4")
}

func TestNormalizeMySQLDSN_Invalid(t *testing.T) {
	_, err := normalizeMySQLDSN("user:pass@tcp(localhost:3306")

	assert.Error(t, err)
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := Open(Options{Driver: "oracle", DSN: "x"})

	assert.ErrorContains(t, err, "unsupported database driver")
}

func TestOpen_InvalidPostgresDSN(t *testing.T) {
	_, err := Open(Options{Driver: DriverPostgres, DSN: "postgres://%zz"})

	assert.ErrorContains(t, err, "invalid postgres DSN")
}
