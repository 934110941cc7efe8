package notegraph

import "github.com/goliatone/go-notegraph/internal/runtimeconfig"

var (
	ErrRootRequired           = runtimeconfig.ErrRootRequired
	ErrWorkersInvalid         = runtimeconfig.ErrWorkersInvalid
	ErrStalenessInvalid       = runtimeconfig.ErrStalenessInvalid
	ErrSecretPatternInvalid   = runtimeconfig.ErrSecretPatternInvalid
	ErrExcludeGlobInvalid     = runtimeconfig.ErrExcludeGlobInvalid
	ErrBacklinkPairIncomplete = runtimeconfig.ErrBacklinkPairIncomplete
	ErrLoggingProviderUnknown = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid    = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid   = runtimeconfig.ErrLoggingFormatInvalid
)

type (
	Config        = runtimeconfig.Config
	RulesConfig   = runtimeconfig.RulesConfig
	BacklinkPair  = runtimeconfig.BacklinkPair
	LoggingConfig = runtimeconfig.LoggingConfig
)

// DefaultConfig returns the settings a bare lint run starts from.
func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}

// LoadConfig reads a YAML configuration file layered over DefaultConfig.
func LoadConfig(path string) (Config, error) {
	return runtimeconfig.Load(path)
}
