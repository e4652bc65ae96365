package spadeploy

import (
	"path/filepath"
	"testing"

	"github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"
)

func TestConfigValidate(t *testing.T) {
	valid := func() Config {
		conf := DefaultConfig()
		conf.DeployFile = "testdata/deploy/aws.json"
		conf.AppDir = "testdata/app"
		conf.OutDir = "/tmp/spadeploy-out"
		return conf
	}

	tt := []struct {
		name  string
		edit  func(*Config)
		usage bool // Expect ErrUsage.
	}{
		{"valid", func(c *Config) {}, false},
		{"no deploy", func(c *Config) { c.DeployFile = "" }, true},
		{"no app", func(c *Config) { c.AppDir = "" }, true},
		{"no out", func(c *Config) { c.OutDir = "" }, true},
		{"blank install", func(c *Config) { c.Install = "  " }, true},
		{"no deployer", func(c *Config) { c.Deployer = "" }, true},
		{"no deployer on dry run", func(c *Config) { c.Deployer = ""; c.DryRun = true }, false},
		{"out inside app", func(c *Config) { c.OutDir = "testdata/app/dist" }, true},
		{"app inside out", func(c *Config) { c.OutDir = "testdata" }, true},
		{"out is app", func(c *Config) { c.OutDir = "testdata/app/" }, true},
		{"out next to app", func(c *Config) { c.OutDir = "testdata/app-out" }, false},
		{"deploy inside out", func(c *Config) { c.OutDir = "testdata/deploy" }, true},
		{"deploy is out", func(c *Config) { c.OutDir = c.DeployFile }, true},
	}

	for _, tc := range tt {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			conf := valid()
			tc.edit(&conf)
			err := conf.Validate()
			if tc.usage {
				if errors.Cause(err) != ErrUsage {
					t.Errorf("expected ErrUsage, got %v", err)
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestWithin(t *testing.T) {
	root := filepath.FromSlash("/srv/app")

	tt := []struct {
		path string
		want bool
	}{
		{"/srv/app", true},
		{"/srv/app/dist", true},
		{"/srv/app/dist/assets", true},
		{"/srv", false},
		{"/srv/app-out", false},
		{"/srv/other", false},
		{"/srv/app/..data", true},
	}

	for _, tc := range tt {
		if got := within(filepath.FromSlash(tc.path), root); got != tc.want {
			t.Errorf("within(%q, %q) = %v, want %v", tc.path, root, got, tc.want)
		}
	}
}

func TestConfigExpandHome(t *testing.T) {
	home, err := homedir.Dir()
	if err != nil {
		t.Skipf("no home directory: %v", err)
	}

	conf := DefaultConfig()
	conf.DeployFile = "~/deploy.yml"
	conf.AppDir = "dist"
	conf.OutDir = "~"
	if err := conf.ExpandHome(); err != nil {
		t.Fatal(err)
	}

	if want := filepath.Join(home, "deploy.yml"); conf.DeployFile != want {
		t.Errorf("DeployFile = %q, want %q", conf.DeployFile, want)
	}
	if conf.AppDir != "dist" {
		t.Errorf("AppDir = %q, want it unchanged", conf.AppDir)
	}
	if conf.OutDir != home {
		t.Errorf("OutDir = %q, want %q", conf.OutDir, home)
	}
}
