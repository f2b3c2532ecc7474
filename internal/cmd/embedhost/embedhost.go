package embedhost

import (
	"context"
	"io"
	"log"

	"github.com/louisbranch/embedhost/internal/host"
	entrypoint "github.com/louisbranch/embedhost/internal/platform/cmd"
	"github.com/louisbranch/embedhost/internal/script"
)

// Config holds embed host configuration. The host defines no flags of its
// own; everything here comes from the environment.
type Config struct {
	Script  string `env:"EMBEDHOST_SCRIPT_FILE" envDefault:"embed.lua"`
	Verbose bool   `env:"EMBEDHOST_VERBOSE"`
}

// ParseConfig loads Config from the environment.
func ParseConfig() (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	if cfg.Script == "" {
		cfg.Script = script.DefaultPath
	}
	return cfg, nil
}

// Run executes the configured script once with args forwarded to the
// engine. Script failure is reported on out and does not produce an error;
// only engine acquisition failures do.
func Run(ctx context.Context, cfg Config, args []string, out io.Writer, errOut io.Writer) error {
	if out == nil {
		out = io.Discard
	}
	if errOut == nil {
		errOut = io.Discard
	}

	logger := log.New(io.Discard, "", 0)
	if cfg.Verbose {
		logger = log.New(errOut, "embedhost: ", 0)
	}

	return entrypoint.RunWithTelemetryAndOptions(ctx, entrypoint.ServiceEmbedHost, entrypoint.RunOptions{Logger: logger}, func(ctx context.Context) error {
		_, err := host.Run(ctx, host.Config{
			ScriptPath: cfg.Script,
			Args:       args,
			Stdout:     out,
			Logger:     logger,
		})
		return err
	})
}
