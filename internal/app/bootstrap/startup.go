// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/peopledir/internal/app/resources"
	"github.com/dalemusser/peopledir/internal/app/system/timeouts"
	"github.com/dalemusser/peopledir/internal/app/system/viewstate"
	"github.com/dalemusser/peopledir/internal/app/system/workers"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// states holds every visitor's directory workspace for the life of the
// process. The directory handler and the sweep worker share it.
var states = viewstate.NewRegistry()

var stateSweep *workers.StateSweep

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if n := timeouts.ConfigureFromEnv(); n > 0 {
		t := timeouts.Current()
		logger.Info("timeouts overridden from environment",
			zap.Duration("ping", t.Ping),
			zap.Duration("fetch", t.Fetch),
			zap.Duration("write", t.Write),
			zap.Duration("upload", t.Upload))
	}

	resources.LoadSharedTemplates()

	stateSweep = workers.NewStateSweep(states, logger, appCfg.StateSweepInterval, appCfg.StateIdleTTL)
	stateSweep.Start()
	return nil
}
