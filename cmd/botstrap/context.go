package main

import (
	"sync"

	"botstrap/internal/config"
	"botstrap/internal/workspace"
)

// commandContext carries the resolved installation directory and the lazily
// loaded configuration shared by all subcommands.
type commandContext struct {
	dirFlag *string

	base string

	configOnce   sync.Once
	config       *config.Config
	configExists bool
	configErr    error
}

func newCommandContext(dirFlag *string) *commandContext {
	return &commandContext{dirFlag: dirFlag}
}

// resolveBase expands the --dir flag into an absolute installation directory.
func (c *commandContext) resolveBase() error {
	var dir string
	if c.dirFlag != nil {
		dir = *c.dirFlag
	}
	resolved, err := config.ResolveBase(dir)
	if err != nil {
		return err
	}
	c.base = resolved
	return nil
}

func (c *commandContext) layout() workspace.Layout {
	return workspace.New(c.base)
}

// ensureConfig loads and validates the installation's .env once. The boolean
// reports whether the env file existed at all.
func (c *commandContext) ensureConfig() (*config.Config, bool, error) {
	c.configOnce.Do(func() {
		c.config, c.configExists, c.configErr = config.Load(c.base)
	})
	return c.config, c.configExists, c.configErr
}
