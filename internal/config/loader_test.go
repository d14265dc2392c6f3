package config_test

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/smartystreets/goconvey/convey"

	"github.com/anxo/convoca/internal/config"
)

func clearConfigEnvVars() {
	for _, key := range []string{
		"CONVOCA_CONFIG",
		"CONVOCA_LOG_LEVEL",
		"CONVOCA_ADDR",
		"CONVOCA_QUEUE_SIZE",
		"CONVOCA_WORKER_COUNT",
		"CONVOCA_MEMO_SIZE",
		"CONVOCA_STORE",
		"CONVOCA_SQLITE_PATH",
		"CONVOCA_MAX_ROSTER_SIZE",
	} {
		_ = os.Unsetenv(key)
	}
}

func createTempConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()

		convey.Convey("When loading config with defaults only", func() {
			clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
				convey.So(cfg.QueueSize, convey.ShouldEqual, 10_000)
				convey.So(cfg.WorkerCount, convey.ShouldEqual, runtime.NumCPU())
				convey.So(cfg.MemoSize, convey.ShouldEqual, 16)
				convey.So(cfg.Store, convey.ShouldEqual, config.StoreMemory)
				convey.So(cfg.MaxRosterSize, convey.ShouldEqual, 200)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			clearConfigEnvVars()
			_ = os.Setenv("CONVOCA_ADDR", ":8080")
			_ = os.Setenv("CONVOCA_QUEUE_SIZE", "5000")
			_ = os.Setenv("CONVOCA_WORKER_COUNT", "3")
			_ = os.Setenv("CONVOCA_STORE", "sqlite")
			_ = os.Setenv("CONVOCA_SQLITE_PATH", "/tmp/convoca-test.db")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.QueueSize, convey.ShouldEqual, 5000)
				convey.So(cfg.WorkerCount, convey.ShouldEqual, 3)
				convey.So(cfg.Store, convey.ShouldEqual, config.StoreSQLite)
				convey.So(cfg.SQLitePath, convey.ShouldEqual, "/tmp/convoca-test.db")
			})
		})

		convey.Convey("When loading config with a YAML file", func() {
			clearConfigEnvVars()
			yamlContent := `
addr: ":9090"
queue_size: 2000
memo_size: 8
max_roster_size: 30
`
			tmpFile := createTempConfigFile(t, yamlContent)
			_ = os.Setenv("CONVOCA_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then file values override defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.QueueSize, convey.ShouldEqual, 2000)
				convey.So(cfg.MemoSize, convey.ShouldEqual, 8)
				convey.So(cfg.MaxRosterSize, convey.ShouldEqual, 30)
			})

			convey.Convey("And env vars override the file", func() {
				_ = os.Setenv("CONVOCA_ADDR", ":7070")
				cfg, err := config.Load(ctx)
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":7070")
				convey.So(cfg.QueueSize, convey.ShouldEqual, 2000)
			})
		})

		convey.Convey("When the store backend is unknown", func() {
			clearConfigEnvVars()
			_ = os.Setenv("CONVOCA_STORE", "papyrus")
			defer clearConfigEnvVars()

			_, err := config.Load(ctx)
			convey.So(err, convey.ShouldWrap, config.ErrInvalidConfig)
		})

		convey.Convey("When the config file does not exist", func() {
			clearConfigEnvVars()
			_ = os.Setenv("CONVOCA_CONFIG", "/nonexistent/config.yaml")
			defer clearConfigEnvVars()

			_, err := config.Load(ctx)
			convey.So(err, convey.ShouldWrap, config.ErrLoadConfig)
		})
	})
}
