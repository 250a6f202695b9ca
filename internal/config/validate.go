package config

import (
	"errors"
	"fmt"
)

var validPolicies = map[string]struct{}{
	"always":      {},
	"if-absent":   {},
	"if-negative": {},
	"if-positive": {},
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateSources(); err != nil {
		return err
	}
	if err := c.validateVerify(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateSources() error {
	if len(c.Sources.Priority) == 0 {
		return errors.New("sources.priority must list at least one source")
	}
	seen := map[string]struct{}{}
	enabled := 0
	for _, id := range c.Sources.Priority {
		if _, dup := seen[id]; dup {
			return fmt.Errorf("sources.priority lists %q more than once", id)
		}
		seen[id] = struct{}{}
		src, known := c.SourceByID(id)
		if !known {
			return fmt.Errorf("sources.priority references unknown source %q", id)
		}
		if src.Enabled {
			enabled++
		}
	}
	if enabled == 0 {
		return errors.New("at least one source in sources.priority must be enabled")
	}
	return nil
}

func (c *Config) validateVerify() error {
	if _, ok := validPolicies[c.Verify.Policy]; !ok {
		return fmt.Errorf("verify.policy: unsupported value %q (expected always, if-absent, if-negative, or if-positive)", c.Verify.Policy)
	}
	for _, id := range c.Verify.ForceIDs {
		if id <= 0 {
			return fmt.Errorf("verify.force_ids contains non-positive id %d", id)
		}
	}
	return nil
}
