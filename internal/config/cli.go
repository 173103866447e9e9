// Package config declares the flag surface for cmd/shapeutil, in the style
// of _examples/crazy-max-undock/pkg/config.Cli.
package config

import "github.com/alecthomas/kong"

// Cli is the top-level flag/argument set for the shapeutil sample program.
type Cli struct {
	Version kong.VersionFlag `kong:"help='Print version and exit.'"`

	LogLevel string `kong:"name=log-level,env=LOG_LEVEL,default=info,help='Set log level (debug, info, warn, error).'"`
	LogJSON  bool   `kong:"name=log-json,env=LOG_JSON,default=false,help='Emit JSON logs instead of console output.'"`

	OutDir string `kong:"name=outdir,type=path,default='.',help='Directory to write world-cities.dbf/.shp/.shx into.'"`
}
