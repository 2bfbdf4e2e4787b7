//nolint:varnamelen // Test files use idiomatic short variable names (t, g)
package config_test

import (
	"testing"

	. "github.com/onsi/gomega" //nolint:revive // Dot import is idiomatic for Gomega matchers

	"github.com/tomn/supercopy/internal/config"
)

func validConfig() *config.Config {
	return &config.Config{
		Source:  "/tmp/src",
		Dest:    "/tmp/dst",
		Workers: 4,
		Buffer:  config.DefaultBufferSize,
	}
}

func TestValidateAcceptsDefaults(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	g.Expect(validConfig().Validate()).To(Succeed())
}

func TestValidateRejectsBadValues(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	cases := []struct {
		name   string
		mutate func(*config.Config)
		errSub string
	}{
		{"zero workers", func(c *config.Config) { c.Workers = 0 }, "workers"},
		{"negative workers", func(c *config.Config) { c.Workers = -2 }, "workers"},
		{"zero buffer", func(c *config.Config) { c.Buffer = 0 }, "buffer"},
		{"bad pattern", func(c *config.Config) { c.Pattern = "[unclosed" }, "glob pattern"},
	}

	for _, tc := range cases {
		cfg := validConfig()
		tc.mutate(cfg)

		err := cfg.Validate()
		g.Expect(err).Should(HaveOccurred(), tc.name)
		g.Expect(err.Error()).To(ContainSubstring(tc.errSub), tc.name)
	}
}

func TestValidateAcceptsPatterns(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	for _, pattern := range []string{"", "*.txt", "**/*.{jpg,png}", "media/**"} {
		cfg := validConfig()
		cfg.Pattern = pattern

		g.Expect(cfg.Validate()).To(Succeed(), "pattern %q", pattern)
	}
}
