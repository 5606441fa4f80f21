package config_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/okian/classplay/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()
		clearConfigEnvVars()
		convey.Reset(clearConfigEnvVars)

		convey.Convey("When loading config with defaults only", func() {
			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
				convey.So(cfg.SpinDurationMS, convey.ShouldEqual, 3000)
				convey.So(cfg.MoodPollEnabled, convey.ShouldBeFalse)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("CLASSPLAY_ADDR", ":8080")
			_ = os.Setenv("CLASSPLAY_SPIN_TURNS", "7")
			_ = os.Setenv("CLASSPLAY_MOOD_POLL_ENABLED", "true")
			_ = os.Setenv("CLASSPLAY_FLASHCARD_DIFFICULTY", "hard")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.SpinTurns, convey.ShouldEqual, 7)
				convey.So(cfg.MoodPollEnabled, convey.ShouldBeTrue)
				convey.So(cfg.FlashcardDifficulty, convey.ShouldEqual, "hard")
			})
		})

		convey.Convey("When loading config with a YAML file", func() {
			tmpFile := createTempConfigFile(t, `
# classroom overrides
addr: ":9090"
spin_duration_ms: 1000
wrong_flash_ms: 250
mood_vote_ttl_ms: 1500
`)
			_ = os.Setenv("CLASSPLAY_CONFIG", tmpFile)

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from YAML and keep other defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.SpinDurationMS, convey.ShouldEqual, 1000)
				convey.So(cfg.WrongFlashMS, convey.ShouldEqual, 250)
				convey.So(cfg.MoodVoteTTLMS, convey.ShouldEqual, 1500)
				convey.So(cfg.SpinTurns, convey.ShouldEqual, 5)
			})
		})

		convey.Convey("When both file and environment variables are set", func() {
			tmpFile := createTempConfigFile(t, `
addr: ":9090"
spin_turns: 3
`)
			_ = os.Setenv("CLASSPLAY_CONFIG", tmpFile)
			_ = os.Setenv("CLASSPLAY_ADDR", ":8080")

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.SpinTurns, convey.ShouldEqual, 3)
			})
		})

		convey.Convey("When loading config with invalid YAML", func() {
			tmpFile := createTempConfigFile(t, `invalid: yaml: content: [`)
			_ = os.Setenv("CLASSPLAY_CONFIG", tmpFile)

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(cfg, convey.ShouldBeNil)
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the config file does not exist", func() {
			_ = os.Setenv("CLASSPLAY_CONFIG", "/non/existent/file.yaml")

			cfg, err := config.Load(ctx)

			convey.So(err, convey.ShouldNotBeNil)
			convey.So(cfg, convey.ShouldBeNil)
		})

		convey.Convey("When addr is empty", func() {
			_ = os.Setenv("CLASSPLAY_ADDR", "")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(cfg, convey.ShouldBeNil)
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "addr must not be empty")
			})
		})

		convey.Convey("When a numeric variable is not a number", func() {
			_ = os.Setenv("CLASSPLAY_SPIN_TURNS", "lots")

			cfg, err := config.Load(ctx)

			convey.So(err, convey.ShouldNotBeNil)
			convey.So(cfg, convey.ShouldBeNil)
		})
	})
}

func clearConfigEnvVars() {
	for _, envVar := range []string{
		"CLASSPLAY_CONFIG",
		"CLASSPLAY_ADDR",
		"CLASSPLAY_SPIN_TURNS",
		"CLASSPLAY_MOOD_POLL_ENABLED",
		"CLASSPLAY_FLASHCARD_DIFFICULTY",
	} {
		_ = os.Unsetenv(envVar)
	}
}

func createTempConfigFile(t *testing.T, content string) string {
	t.Helper()
	tmpFile, err := os.CreateTemp(t.TempDir(), "classplay-config-*.yaml")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := tmpFile.WriteString(content); err != nil {
		t.Fatal(err)
	}
	if err := tmpFile.Close(); err != nil {
		t.Fatal(err)
	}
	return tmpFile.Name()
}
