package config

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	return &Config{
		Verbose:     BoolPtr(false),
		NoColor:     BoolPtr(false),
		Bail:        BoolPtr(false),
		Parallel:    BoolPtr(false),
		Concurrency: 5,
		MaxDepth:    5,
		MaxLength:   0,
		Reporter:    "console",
		Messages:    nil,
	}
}

// IsDefault returns true if the config matches defaults
func (c *Config) IsDefault() bool {
	defaults := DefaultConfig()
	return c.GetVerbose() == defaults.GetVerbose() &&
		c.GetNoColor() == defaults.GetNoColor() &&
		c.GetBail() == defaults.GetBail() &&
		c.GetParallel() == defaults.GetParallel() &&
		c.Concurrency == defaults.Concurrency &&
		c.MaxDepth == defaults.MaxDepth &&
		c.MaxLength == defaults.MaxLength &&
		c.Reporter == defaults.Reporter &&
		len(c.Messages) == 0
}
