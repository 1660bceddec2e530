package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omeyang/mealkit/pkg/config/xconf"
	"github.com/omeyang/mealkit/pkg/observability/xlog"
	"github.com/omeyang/mealkit/pkg/util/xjson"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mealadmin.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func runArgs(t *testing.T, ctx context.Context, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(ctx, append([]string{"mealadmin"}, args...), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRun_Version(t *testing.T) {
	code, out, _ := runArgs(t, context.Background(), "version")
	assert.Equal(t, 0, code)
	assert.Contains(t, out, Version)
}

func TestRun_UnknownFlag(t *testing.T) {
	code, _, _ := runArgs(t, context.Background(), "stats", "--nope")
	assert.Equal(t, 2, code)
}

func TestRun_StatsDemo(t *testing.T) {
	code, out, errOut := runArgs(t, context.Background(), "stats", "--demo", "--limit", "3")
	require.Equal(t, 0, code, errOut)

	var report statsReport
	require.NoError(t, xjson.DecodeStrict(bytes.NewBufferString(out), &report))
	assert.Equal(t, int64(28), report.Dashboard.RemainingPackMeals)
	assert.Equal(t, int64(3), report.Dashboard.ActivePacks)
	assert.Equal(t, 5, report.Menu.Total)
	assert.Empty(t, report.RecentOrders)
}

func TestRun_StatsWithoutMongo(t *testing.T) {
	code, _, errOut := runArgs(t, context.Background(), "stats")
	assert.Equal(t, 2, code)
	assert.Contains(t, errOut, "mongo.uri")
}

func TestRun_ServeRequiresToken(t *testing.T) {
	t.Setenv(envAdminToken, "")
	code, _, errOut := runArgs(t, context.Background(), "serve", "--demo")
	assert.Equal(t, 2, code)
	assert.Contains(t, errOut, "admin_token")
}

func TestRun_ServeDemoStopsOnCancel(t *testing.T) {
	path := writeConfig(t, `
http:
  addr: "127.0.0.1:0"
  admin_token: test-token
  shutdown_timeout: 1s
log:
  level: warn
`)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	time.AfterFunc(300*time.Millisecond, cancel)
	code, _, errOut := runArgs(t, ctx, "serve", "--demo", "--config", path)
	assert.Equal(t, 0, code, errOut)
}

func TestLoadConfig(t *testing.T) {
	t.Setenv(envAdminToken, "")
	cfg, src, err := loadConfig("")
	require.NoError(t, err)
	assert.Nil(t, src)
	assert.Equal(t, defaultAppConfig(), cfg)

	path := writeConfig(t, `
cache:
  max_size: 50
  default_ttl: 30s
stats:
  timezone: Asia/Shanghai
redis:
  addr: "localhost:6379"
  rate_limit_per_minute: 120
`)
	cfg, src, err = loadConfig(path)
	require.NoError(t, err)
	require.NotNil(t, src)
	assert.Equal(t, 50, cfg.Cache.MaxSize)
	assert.Equal(t, 30*time.Second, cfg.Cache.DefaultTTL)
	assert.Equal(t, "@every 1m", cfg.Cache.CleanupSchedule)
	assert.Equal(t, "Asia/Shanghai", cfg.location().String())
	assert.Equal(t, "mealkit:stats:invalidate", cfg.Redis.Channel)
	assert.Equal(t, 120, cfg.Redis.RateLimitPerMinute)

	t.Setenv(envAdminToken, "from-env")
	cfg, _, err = loadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.HTTP.AdminToken)
}

func TestLoadConfig_Invalid(t *testing.T) {
	for name, content := range map[string]string{
		"level":    "log: {level: loud}",
		"format":   "log: {format: xml}",
		"size":     "cache: {max_size: 0}",
		"ttl":      "cache: {default_ttl: -1s}",
		"stats":    "stats: {ttl: 0s}",
		"timezone": "stats: {timezone: Mars/Olympus}",
		"limit":    "redis: {rate_limit_per_minute: -1}",
		"parse":    "cache: [",
	} {
		t.Run(name, func(t *testing.T) {
			_, _, err := loadConfig(writeConfig(t, content))
			var ue *usageError
			assert.ErrorAs(t, err, &ue)
		})
	}

	_, _, err := loadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	var ue *usageError
	assert.ErrorAs(t, err, &ue)
}

func TestLevelReloader(t *testing.T) {
	logger, closeLog, err := buildLogger(LogConfig{Level: "info", Format: "json"}, &bytes.Buffer{})
	require.NoError(t, err)
	defer func() { _ = closeLog() }()

	reload := levelReloader(logger)
	cfg, err := xconf.NewFromBytes([]byte("log: {level: debug}"), xconf.FormatYAML)
	require.NoError(t, err)
	reload(cfg, nil)
	assert.Equal(t, xlog.LevelDebug, logger.GetLevel())

	bad, err := xconf.NewFromBytes([]byte("log: {level: loud}"), xconf.FormatYAML)
	require.NoError(t, err)
	reload(bad, nil)
	assert.Equal(t, xlog.LevelDebug, logger.GetLevel())
}

func TestIsCLIUsageError(t *testing.T) {
	assert.True(t, isCLIUsageError(errors.New("flag provided but not defined: -nope")))
	assert.False(t, isCLIUsageError(errors.New("connect mongo: timeout")))
}
