package factory

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/kafanski-duel/internal/model"
	"github.com/mcoot/kafanski-duel/internal/storage/memory"
	redisstorage "github.com/mcoot/kafanski-duel/internal/storage/redis"
	sqlstorage "github.com/mcoot/kafanski-duel/internal/storage/sql"
)

func TestNewDefaultsToMemory(t *testing.T) {
	app, err := New(Config{})
	require.NoError(t, err)
	defer func() { _ = app.Close() }()

	assert.IsType(t, &memory.Storage{}, app.Storage)
	assert.Nil(t, app.Sweeper)
	assert.Equal(t, model.DefaultRules(), app.Engine.Rules())
}

func TestNewRejectsUnknownStorage(t *testing.T) {
	_, err := New(Config{StorageType: "etcd"})
	assert.Error(t, err)

	_, err = New(Config{StorageType: StorageTypeRedis})
	assert.Error(t, err)
}

func TestNewWithRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	redisCfg := redisstorage.DefaultConfig()
	redisCfg.URL = "redis://" + mr.Addr()

	app, err := New(Config{StorageType: StorageTypeRedis, RedisConfig: &redisCfg})
	require.NoError(t, err)
	defer func() { _ = app.Close() }()

	assert.IsType(t, &redisstorage.Storage{}, app.Storage)
}

func TestNewWithSQL(t *testing.T) {
	sqlCfg := sqlstorage.DefaultConfig()
	sqlCfg.DSN = filepath.Join(t.TempDir(), "duel.db")

	app, err := New(Config{StorageType: StorageTypeSQL, SQLConfig: &sqlCfg})
	require.NoError(t, err)
	defer func() { _ = app.Close() }()

	assert.IsType(t, &sqlstorage.Storage{}, app.Storage)
}

func TestNewWithRulesAndSweeper(t *testing.T) {
	rules := model.DefaultRules()
	rules.ChallengeTTL = time.Hour

	app, err := New(Config{Rules: &rules, SweepInterval: time.Minute})
	require.NoError(t, err)
	defer func() { _ = app.Close() }()

	assert.Equal(t, time.Hour, app.Engine.Rules().ChallengeTTL)
	assert.NotNil(t, app.Sweeper)
}
