package cli

import (
	"log/slog"

	"github.com/alecthomas/kong"

	"github.com/weavetpl/weave/internal/wlog"
)

// logConfig exposes wlog's configuration as Kong flags, grouped under
// "log" the way aenv groups its own logger flags.
type logConfig struct {
	Level  string `default:"info" enum:"debug,info,warn,error" help:"Set log level."`
	Format string `default:"json" enum:"json,text"              help:"Set log output format."`
}

func (*logConfig) group() kong.Group {
	var group kong.Group
	group.Key = "log"
	group.Title = "Logging options"
	return group
}

func (f *logConfig) start() {
	wlog.Config(
		wlog.WithLevel(wlog.ParseLevel(f.Level)),
		wlog.WithFormat(wlog.ParseFormat(f.Format)),
	)
	wlog.Debug("logger initialized", slog.String("level", f.Level), slog.String("format", f.Format))
}
