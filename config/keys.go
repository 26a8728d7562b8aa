package config

const (
	delimiter = "_"

	EnvPrefix = "TRAPH"

	// EnvMode selects the evaluation mode. "development" installs the input guard.
	EnvMode = EnvPrefix + delimiter + "ENV"
)
