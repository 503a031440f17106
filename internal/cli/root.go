package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/avail-project/create-liquid-apps/internal/gitutil"
	"github.com/avail-project/create-liquid-apps/internal/runner"
	"github.com/avail-project/create-liquid-apps/internal/template"
	"github.com/avail-project/create-liquid-apps/internal/version"
)

// fetcher materializes a template source into a directory.
type fetcher interface {
	Fetch(ctx context.Context, src template.Source, dest string) error
}

// deps are the side-effecting collaborators of a scaffold run.
type deps struct {
	fetcher fetcher
	runner  runner.Runner
	initGit func(dir, message string) error
}

func defaultDeps() deps {
	return deps{
		fetcher: template.NewFetcher(),
		runner:  runner.New(),
		initGit: gitutil.InitRepository,
	}
}

type options struct {
	framework  string
	widgets    string
	auth       string
	yes        bool
	noInstall  bool
	noGit      bool
	configPath string
}

func Execute() error {
	return newRootCommand().Execute()
}

func newRootCommand() *cobra.Command {
	return newRootCommandWithDeps(defaultDeps())
}

func newRootCommandWithDeps(d deps) *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:           "create-liquid-apps [dir]",
		Short:         "Scaffold an Avail Nexus demo app with your preferences",
		Args:          cobra.MaximumNArgs(1),
		Version:       version.String(),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScaffold(cmd, args, opts, d)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.framework, "framework", "", "framework to scaffold (next, react-vite)")
	flags.StringVar(&opts.widgets, "widgets", "", "Nexus integration (nexus-core, nexus-elements)")
	flags.StringVar(&opts.auth, "auth", "", "auth provider (wagmi-familyconnect)")
	flags.BoolVarP(&opts.yes, "yes", "y", false, "accept defaults for every unanswered question")
	flags.BoolVar(&opts.noInstall, "no-install", false, "skip dependency installation")
	flags.BoolVar(&opts.noGit, "no-git", false, "skip git repository initialization")
	flags.StringVar(&opts.configPath, "config", "", "path to the user config file")

	return cmd
}
