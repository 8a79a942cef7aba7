package app

import (
	"github.com/tphakala/pokedex-go/internal/buildinfo"
	"github.com/tphakala/pokedex-go/internal/conf"
	"github.com/tphakala/pokedex-go/internal/logger"
)

// Context carries state from the root command into subcommands. Settings
// is populated by the root command's pre-run hook.
type Context struct {
	ConfigFile string
	Settings   *conf.Settings
	Build      *buildinfo.Context

	logger *logger.CentralLogger
}

// NewContext returns an empty Context for build.
func NewContext(build *buildinfo.Context) *Context {
	return &Context{Build: build}
}

// Initialize loads settings and installs the global logger.
func (c *Context) Initialize() error {
	settings, err := conf.Load(c.ConfigFile)
	if err != nil {
		return err
	}
	if settings.Debug {
		settings.Logging.DefaultLevel = "debug"
		settings.Logging.Console.Level = "debug"
	}

	cl, err := logger.NewCentralLogger(&settings.Logging)
	if err != nil {
		return err
	}
	logger.SetGlobal(cl)

	c.Settings = settings
	c.logger = cl
	return nil
}

// Close flushes the log file opened by Initialize.
func (c *Context) Close() error {
	if c.logger == nil {
		return nil
	}
	return c.logger.Close()
}
