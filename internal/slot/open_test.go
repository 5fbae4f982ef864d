package slot

import (
	"context"
	"io"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andreasstove999/ecommerce-system/storefront-order-service-go/internal/config"
)

func TestOpen_File(t *testing.T) {
	cfg := config.Config{StoreBackend: config.BackendFile, StorePath: t.TempDir(), StoreKey: "orders"}

	s, closeFn, err := Open(context.Background(), cfg, log.New(io.Discard, "", 0))
	require.NoError(t, err)
	defer closeFn()

	require.NoError(t, s.Save(context.Background(), []byte(`[]`)))
	data, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(data))
}

func TestOpen_UnknownBackend(t *testing.T) {
	_, closeFn, err := Open(context.Background(), config.Config{StoreBackend: "redis"}, log.New(io.Discard, "", 0))
	require.Error(t, err)
	assert.NotNil(t, closeFn)
}
