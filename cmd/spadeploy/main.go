package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/adamwasila/spadeploy"
)

const stampMilliTZ = "Jan _2 15:04:05.000 MST"

// newClient is replaced by tests.
var newClient = func() spadeploy.Client {
	return &spadeploy.LocalhostClient{}
}

func newCommand(stderr io.Writer) *cobra.Command {
	v := viper.New()
	defaults := spadeploy.DefaultConfig()

	cmd := &cobra.Command{
		Use:           "spadeploy --deploy <file> --app <dir>",
		Short:         "Package a single-page app and deploy it to a serverless platform",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := cmd.Flags()
	flags.String("deploy", "", "deployment descriptor, YAML or JSON")
	flags.String("app", "", "directory of the built app, with index.html at the top")
	flags.Bool("dryrun", false, "assemble and install, but don't deploy")
	flags.String("out", defaults.OutDir, "output directory, cleared on every run")
	flags.String("install", defaults.Install, "package installer command")
	flags.String("deployer", defaults.Deployer, "deploy tool command")
	flags.Bool("list-files", defaults.ListFiles, "log every file found in the app")
	flags.BoolP("verbose", "v", false, "debug logging")

	v.SetEnvPrefix("SPADEPLOY")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(flags); err != nil {
		panic(err)
	}

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		conf := defaults
		conf.DeployFile = v.GetString("deploy")
		conf.AppDir = v.GetString("app")
		conf.DryRun = v.GetBool("dryrun")
		conf.OutDir = v.GetString("out")
		conf.Install = v.GetString("install")
		conf.Deployer = v.GetString("deployer")
		conf.ListFiles = v.GetBool("list-files")

		if err := conf.ExpandHome(); err != nil {
			return err
		}
		if err := conf.Validate(); err != nil {
			fmt.Fprintf(stderr, "%v\n\n", err)
			cmd.SetOut(stderr)
			cmd.Usage()
			return err
		}

		log := newLogger(stderr, v.GetBool("verbose"))
		p := spadeploy.NewPipeline(conf, newClient(), log)
		if err := p.Run(); err != nil {
			if errors.Cause(err) != spadeploy.ErrValidation {
				log.Error().Err(err).Msg("deploy failed")
			}
			return err
		}
		return nil
	}

	return cmd
}

// newLogger writes human-readable logs, coloured when w is a terminal.
func newLogger(w io.Writer, verbose bool) zerolog.Logger {
	color := false
	if f, ok := w.(*os.File); ok {
		color = term.IsTerminal(int(f.Fd()))
	}

	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}

	out := zerolog.ConsoleWriter{Out: w, TimeFormat: stampMilliTZ, NoColor: !color}
	return zerolog.New(out).Level(level).With().Timestamp().Str("run", uuid.NewString()).Logger()
}

// exitCode maps a run error onto the process exit status.
func exitCode(err error) int {
	var task spadeploy.ErrTask
	if errors.As(err, &task) {
		return task.ExitCode()
	}
	return 1
}

func main() {
	if err := newCommand(os.Stderr).Execute(); err != nil {
		os.Exit(exitCode(err))
	}
}
