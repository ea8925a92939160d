package persistence

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/aarushkx/speak-free/internal/config"
)

func TestMongo_FailedConnectIsNotMemoized(t *testing.T) {
	gateway := NewMongo(config.MongoConfig{URI: "not-a-mongo-uri", Database: "speakfree"}, zap.NewNop())

	_, err := gateway.Users(context.Background())
	require.Error(t, err)
	assert.Nil(t, gateway.client)

	_, err = gateway.Client(context.Background())
	assert.Error(t, err)
	assert.NoError(t, gateway.Disconnect(context.Background()))
}

func TestMongo_NilGateway(t *testing.T) {
	var gateway *Mongo
	_, err := gateway.Client(context.Background())
	assert.Error(t, err)
	assert.NoError(t, gateway.Disconnect(context.Background()))
}

func TestRedis_DisabledWithoutAddr(t *testing.T) {
	r := NewRedis(config.RedisConfig{}, zap.NewNop())
	assert.Nil(t, r)
	assert.Error(t, r.Ping(context.Background()))
	assert.Error(t, r.Publish(context.Background(), "ch", []byte("x")))
	r.Close()
}

func TestPostgres_NilPool(t *testing.T) {
	var pg *Postgres
	assert.Error(t, pg.Ping(context.Background()))
	assert.Nil(t, pg.PoolHandle())
	pg.Close()
}
