package conf

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validBootstrap() *Bootstrap {
	b := &Bootstrap{
		Server: &Server{},
		Data:   &Data{},
		Client: &Client{Pagarme: &Pagarme{ApiKey: "sk_test"}},
		Log:    &Log{Level: "info"},
	}
	b.Server.Http.Addr = "0.0.0.0:8000"
	b.Data.Database.Source = "root:pass@tcp(localhost:3306)/billing"
	return b
}

func TestValidate(t *testing.T) {
	require.NoError(t, validBootstrap().Validate())

	b := validBootstrap()
	b.Server = nil
	assert.Error(t, b.Validate())

	b = validBootstrap()
	b.Server.Http.Addr = ""
	assert.Error(t, b.Validate())

	b = validBootstrap()
	b.Data.Database.Source = ""
	assert.Error(t, b.Validate())

	b = validBootstrap()
	b.Client.Pagarme.ApiKey = ""
	assert.Error(t, b.Validate())

	b = validBootstrap()
	b.Log = nil
	assert.Error(t, b.Validate())
}

func TestParseDuration(t *testing.T) {
	assert.Equal(t, 15*time.Second, ParseDuration("15s", time.Minute))
	assert.Equal(t, time.Minute, ParseDuration("", time.Minute))
	assert.Equal(t, time.Minute, ParseDuration("not-a-duration", time.Minute))
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
server:
  http:
    addr: 0.0.0.0:8000
    timeout: 10s
data:
  database:
    source: root:pass@tcp(localhost:3306)/billing
  redis:
    addr: localhost:6379
client:
  pagarme:
    api_url: https://api.pagar.me/core/v5
    api_key: sk_test
    timeout: 15s
payment:
  pending_ttl: 30m
  reconcile_grace: 10m
  reconcile_batch_size: 50
log:
  level: info
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	bc, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, bc.Validate())
	assert.Equal(t, "0.0.0.0:8000", bc.Server.Http.Addr)
	assert.Equal(t, "30m", bc.Payment.PendingTtl)
	assert.Equal(t, 50, bc.Payment.ReconcileBatchSize)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}
