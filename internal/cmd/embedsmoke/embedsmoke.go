package embedsmoke

import (
	"context"
	"errors"
	"flag"
	"io"
	"log"
	"time"

	entrypoint "github.com/louisbranch/embedhost/internal/platform/cmd"
	"github.com/louisbranch/embedhost/internal/tools/embedsmoke"
)

// Config holds smoke command configuration.
type Config struct {
	Binary  string        `env:"EMBEDSMOKE_BINARY"  envDefault:"./embedhost"`
	Dir     string        `env:"EMBEDSMOKE_DIR"`
	Timeout time.Duration `env:"EMBEDSMOKE_TIMEOUT" envDefault:"30s"`
}

// ParseConfig parses env defaults and then flags into a Config. Flags are
// bound before env is read, so only flags present in args override env.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	fs.StringVar(&cfg.Binary, "binary", "", "path to the embed host binary (env EMBEDSMOKE_BINARY, default ./embedhost)")
	fs.StringVar(&cfg.Dir, "dir", "", "work dir for the sample script, temporary if empty (env EMBEDSMOKE_DIR)")
	fs.DurationVar(&cfg.Timeout, "timeout", 0, "timeout for the host run (env EMBEDSMOKE_TIMEOUT, default 30s)")
	if err := entrypoint.ParseConfigFromArgs(&cfg, fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run executes the smoke command.
func Run(ctx context.Context, cfg Config, out io.Writer, errOut io.Writer) error {
	if out == nil {
		out = io.Discard
	}
	if errOut == nil {
		errOut = io.Discard
	}
	if cfg.Binary == "" {
		return errors.New("binary path is required")
	}

	logger := log.New(errOut, "", 0)
	return entrypoint.RunWithTelemetryAndOptions(ctx, entrypoint.ServiceEmbedSmoke, entrypoint.RunOptions{Logger: logger}, func(ctx context.Context) error {
		if err := embedsmoke.Run(ctx, embedsmoke.Config{
			Binary:  cfg.Binary,
			Dir:     cfg.Dir,
			Timeout: cfg.Timeout,
			Logger:  logger,
		}); err != nil {
			return err
		}
		_, err := io.WriteString(out, "ok\n")
		return err
	})
}
