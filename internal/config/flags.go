package config

import "flag"

// ParseFlags overrides base with command-line flags. Positional arguments
// replace the configured profile list.
func ParseFlags(base Config, args []string) (Config, error) {
	flags := flag.NewFlagSet("profview", flag.ContinueOnError)
	demo := flags.Bool("demo", base.Demo, "Open a generated demo profile")
	seed := flags.Int64("seed", base.Seed, "Seed for the demo profile")
	logFile := flags.String("log-file", base.LogFile, "Write logs to this file")
	logLevel := flags.String("log-level", base.LogLevel, "Log level (debug, info, warn, error)")
	theme := flags.String("theme", base.Theme, "Color theme (dark, light)")
	exportPNG := flags.String("export-png", base.ExportPNG, "Write utilization charts of the profiles to this PNG path and exit")
	if err := flags.Parse(args); err != nil {
		return base, err
	}

	base.Demo = *demo
	base.Seed = *seed
	base.LogFile = *logFile
	base.LogLevel = *logLevel
	base.Theme = *theme
	base.ExportPNG = *exportPNG
	if flags.NArg() > 0 {
		base.Profiles = flags.Args()
	}
	return base, nil
}
