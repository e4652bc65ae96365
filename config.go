package spadeploy

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"
)

// Config is everything a run needs besides the descriptor itself. It is
// built once, by the command line, and not changed afterwards.
type Config struct {
	DeployFile string // Deployment descriptor, YAML or JSON.
	AppDir     string // Built web app.
	OutDir     string // Cleared and refilled on every run.
	DryRun     bool   // Stop before the deploy tool.
	ListFiles  bool   // Report every app file.
	Install    string // Package installer command line.
	Deployer   string // Deploy tool command line.
	Messages   Messages
}

// DefaultConfig returns a Config with everything but the descriptor and
// the app directory filled in.
func DefaultConfig() Config {
	return Config{
		OutDir:    filepath.Join(os.TempDir(), "spadeploy"),
		ListFiles: true,
		Install:   "npm install",
		Deployer:  "npx serverless deploy",
		Messages:  DefaultMessages(),
	}
}

// Validate checks the values a run can't do without.
func (c Config) Validate() error {
	switch {
	case c.DeployFile == "":
		return errors.Wrap(ErrUsage, "--deploy is required")
	case c.AppDir == "":
		return errors.Wrap(ErrUsage, "--app is required")
	case c.OutDir == "":
		return errors.Wrap(ErrUsage, "--out is required")
	case strings.TrimSpace(c.Install) == "":
		return errors.Wrap(ErrUsage, "--install is required")
	case !c.DryRun && strings.TrimSpace(c.Deployer) == "":
		return errors.Wrap(ErrUsage, "--deployer is required")
	}

	app, err := filepath.Abs(c.AppDir)
	if err != nil {
		return errors.Wrap(err, "resolving app directory")
	}
	out, err := filepath.Abs(c.OutDir)
	if err != nil {
		return errors.Wrap(err, "resolving output directory")
	}
	if within(out, app) || within(app, out) {
		return errors.Wrapf(ErrUsage, "--out %s and --app %s must not contain each other", c.OutDir, c.AppDir)
	}

	deploy, err := filepath.Abs(c.DeployFile)
	if err != nil {
		return errors.Wrap(err, "resolving deployment descriptor")
	}
	if within(deploy, out) {
		return errors.Wrapf(ErrUsage, "--deploy %s must not be inside --out %s", c.DeployFile, c.OutDir)
	}
	return nil
}

// ExpandHome replaces a leading ~ in the path settings, which arrive
// unexpanded from environment variables and quoted flags.
func (c *Config) ExpandHome() error {
	for _, path := range []*string{&c.DeployFile, &c.AppDir, &c.OutDir} {
		expanded, err := homedir.Expand(*path)
		if err != nil {
			return errors.Wrapf(err, "expanding %s", *path)
		}
		*path = expanded
	}
	return nil
}

// within reports whether path is dir or below it.
func within(path, dir string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}
