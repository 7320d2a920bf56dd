package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/chainkit-labs/hardhat-create-app/internal/branding"
	"github.com/chainkit-labs/hardhat-create-app/internal/config"
	"github.com/chainkit-labs/hardhat-create-app/internal/pipeline"
	"github.com/chainkit-labs/hardhat-create-app/internal/preflight"
	"github.com/chainkit-labs/hardhat-create-app/internal/runner"
	"github.com/chainkit-labs/hardhat-create-app/internal/ux"
	"github.com/spf13/cobra"
)

var (
	flagVariant       string
	flagYarn          bool
	flagYarnVersion   string
	flagTemplateDir   string
	flagStrictPatches bool
	flagSkipPreflight bool
	flagDryRun        bool
	flagVerbose       bool

	flagDoctor    bool
	flagConfigGet string
	flagConfigSet string
)

// newCommandRunner builds the runner used for generation. Tests replace it.
var newCommandRunner = func(stdout, stderr io.Writer) runner.Runner {
	return &runner.ExecRunner{Stdout: stdout, Stderr: stderr}
}

// newVersionRunner builds the quiet runner used for "--version" checks.
var newVersionRunner = func() runner.Runner {
	return &runner.ExecRunner{Stdout: io.Discard, Stderr: io.Discard, Stdin: strings.NewReader("")}
}

// lookPath resolves tools for preflight checks. Tests replace it.
var lookPath func(string) (string, error)

func init() {
	f := rootCmd.Flags()
	f.StringVar(&flagVariant, "variant", "", "Package manager to use: npm or yarn")
	f.BoolVar(&flagYarn, "yarn", false, "Shorthand for --variant yarn")
	f.StringVar(&flagYarnVersion, "yarn-version", "", "Version passed to \"yarn set version\"")
	f.StringVar(&flagTemplateDir, "template-dir", "", "Copy templates from this directory instead of the built-in set")
	f.BoolVar(&flagStrictPatches, "strict-patches", false, "Fail when hardhat.config.ts does not contain an expected anchor")
	f.BoolVar(&flagSkipPreflight, "skip-preflight", false, "Do not check for node and the package manager first")
	f.BoolVar(&flagDryRun, "dry-run", false, "Print the steps and commands without running them")
	f.BoolVar(&flagDoctor, "doctor", false, "Check that the tools needed to create a project are installed")
	f.StringVar(&flagConfigGet, "config-get", "", "Print a stored setting (`key`)")
	f.StringVar(&flagConfigSet, "config-set", "", "Store a setting, given as `key=value`")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.MarkFlagsMutuallyExclusive("variant", "yarn")
	rootCmd.MarkFlagsMutuallyExclusive("doctor", "config-get", "config-set", "dry-run")
	rootCmd.SetVersionTemplate("{{.Name}} version {{.Version}}\n")
}

var rootCmd = &cobra.Command{
	Use:   branding.CLIName() + " <project-name>",
	Short: branding.Description(),
	Long: branding.DisplayName() + ` creates a Hardhat TypeScript project with deployment,
gas reporting, contract sizing and a sample contract already wired in.

The project directory is created if it does not exist. npm is used unless
--yarn (or the "variant" setting) selects yarn.

The root command has no subcommands, so any name, including "help" or
"version", is taken as the project to create. Tool checks and settings are
reached through --doctor, --config-get and --config-set.`,
	Example:       "  " + branding.CLIName() + " my-dapp\n  " + branding.CLIName() + " my-dapp --yarn",
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	// "completion" is a valid project name.
	CompletionOptions: cobra.CompletionOptions{DisableDefaultCmd: true},
	RunE:              runCreate,
}

// Execute runs the root command with build info injected via ldflags.
func Execute(version, commit, date string) error {
	setBuildInfo(version, commit, date)
	return rootCmd.Execute()
}

// setBuildInfo fills the text printed by --version.
func setBuildInfo(version, commit, date string) {
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date)
}

func runCreate(cmd *cobra.Command, args []string) error {
	if utility := utilityFlag(cmd); utility != "" {
		if len(args) > 0 {
			return fmt.Errorf("--%s does not take a project name (got %q)", utility, args[0])
		}
		switch utility {
		case "doctor":
			return runDoctor(cmd)
		case "config-get":
			return runConfigGet(cmd, flagConfigGet)
		default:
			return runConfigSet(cmd, flagConfigSet)
		}
	}

	if len(args) == 0 || strings.TrimSpace(args[0]) == "" {
		return errors.New("No project name specified")
	}
	name := args[0]

	settings := resolveSettings(cmd)
	variant, err := pipeline.ParseVariant(settings.Variant)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	logger := newLogger(cmd.ErrOrStderr())

	in := &pipeline.Initializer{
		Runner: newCommandRunner(out, cmd.ErrOrStderr()),
		Out:    out,
		Logger: logger,
		Options: pipeline.Options{
			Variant:       variant,
			YarnVersion:   settings.YarnVersion,
			TemplateDir:   settings.TemplateDir,
			StrictPatches: settings.StrictPatches,
		},
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if flagDryRun {
		plan, err := in.Plan(ctx, name)
		if err != nil {
			return err
		}
		pipeline.WritePlan(out, plan)
		return nil
	}

	if !settings.SkipPreflight {
		if err := runPreflight(ctx, out, variant.String(), false); err != nil {
			return err
		}
	}

	outcome, err := in.Run(ctx, name)
	if err != nil {
		return err
	}
	pipeline.WriteSummary(out, outcome)
	return nil
}

// utilityFlag returns the name of the set flag that replaces project
// creation, or "".
func utilityFlag(cmd *cobra.Command) string {
	for _, name := range []string{"doctor", "config-get", "config-set"} {
		if cmd.Flags().Changed(name) {
			return name
		}
	}
	return ""
}

// resolveSettings layers explicitly set flags over the config file and
// environment.
func resolveSettings(cmd *cobra.Command) config.Settings {
	config.Load()
	s := config.Current()

	flags := cmd.Flags()
	if flags.Changed("variant") {
		s.Variant = flagVariant
	}
	if flagYarn {
		s.Variant = pipeline.Yarn.String()
	}
	if flags.Changed("yarn-version") {
		s.YarnVersion = flagYarnVersion
	}
	if flags.Changed("template-dir") {
		s.TemplateDir = flagTemplateDir
	}
	if flags.Changed("strict-patches") {
		s.StrictPatches = flagStrictPatches
	}
	if flags.Changed("skip-preflight") {
		s.SkipPreflight = flagSkipPreflight
	}
	return s
}

func newLogger(w io.Writer) *slog.Logger {
	level := slog.LevelWarn
	if flagVerbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// runPreflight checks the tools for variant. In quiet mode only failures are
// printed.
func runPreflight(ctx context.Context, w io.Writer, variant string, verbose bool) error {
	checker := &preflight.Checker{Runner: newVersionRunner(), LookPath: lookPath}
	if wd, err := os.Getwd(); err == nil {
		checker.Dir = wd
	}

	rep, err := checker.Check(ctx, variant)
	if err != nil {
		return err
	}
	for _, res := range rep.Results {
		if res.OK && !verbose {
			continue
		}
		detail := res.Version
		if !res.OK {
			detail = res.Message
		}
		ux.Status(w, res.OK, res.Tool, detail)
	}
	return rep.Err()
}
