package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/avail-project/create-liquid-apps/internal/config"
	"github.com/avail-project/create-liquid-apps/internal/customize"
	"github.com/avail-project/create-liquid-apps/internal/gitutil"
	"github.com/avail-project/create-liquid-apps/internal/pkgmgr"
	"github.com/avail-project/create-liquid-apps/internal/selection"
	"github.com/avail-project/create-liquid-apps/internal/template"
	"github.com/avail-project/create-liquid-apps/internal/version"
)

const defaultDir = "liquid-app"

// userError is a fatal error whose message is shown to the user verbatim.
type userError struct {
	msg string
	err error
}

func (e *userError) Error() string { return e.msg }

func (e *userError) Unwrap() error { return e.err }

func runScaffold(cmd *cobra.Command, args []string, opts *options, d deps) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	errOut := cmd.ErrOrStderr()
	pal := newPalette(out)

	printBanner(out, pal)

	cfgPath, err := config.Path(opts.configPath)
	if err != nil {
		return err
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	p := newPrompter(cmd.InOrStdin(), out)
	sel, err := collectAnswers(p, args, opts, cfg)
	if err != nil {
		return err
	}

	sel, warnings := selection.Repair(sel)
	for _, w := range warnings {
		fmt.Fprintln(out, pal.warn(w.String()))
	}
	if err := selection.Validate(sel); err != nil {
		return err
	}

	target, err := selection.CheckTarget(sel.Dir)
	if err != nil {
		if errors.Is(err, selection.ErrDirectoryExists) {
			return &userError{
				msg: fmt.Sprintf("Directory %q already exists. Choose another name or remove it.", sel.Dir),
				err: err,
			}
		}
		return err
	}
	if err := os.MkdirAll(target, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", sel.Dir, err)
	}

	src, err := template.Resolve(sel.Framework, cfg.Sources())
	if err != nil {
		return err
	}
	fmt.Fprintln(out, pal.info(fmt.Sprintf("Cloning %s template...", sel.Framework)))
	if err := d.fetcher.Fetch(ctx, src, target); err != nil {
		fmt.Fprintln(out, pal.fatal("Failed to clone template."))
		return fmt.Errorf("clone %s: %w", src, err)
	}
	_ = template.RemoveVCS(target)
	fmt.Fprintln(out, pal.success("Template cloned."))

	report, err := customize.Apply(target, sel)
	if err != nil {
		return fmt.Errorf("customize template: %w", err)
	}
	for _, step := range report.Steps {
		fmt.Fprintln(out, pal.muted(step.Message))
	}
	fmt.Fprintln(out, pal.success(report.Summary()))

	manager, err := pkgmgr.Resolve(ctx, d.runner, cfg.PackageManager)
	if err != nil {
		return err
	}
	if opts.noInstall {
		fmt.Fprintln(out, pal.muted("Skipping dependency installation."))
	} else {
		fmt.Fprintln(out, pal.info(fmt.Sprintf("Installing dependencies with %s...", manager.Name)))
		if err := manager.Install(ctx, d.runner, target, out, errOut); err != nil {
			fmt.Fprintln(out, pal.fatal("Failed to install dependencies."))
			fmt.Fprintln(errOut, err)
			fmt.Fprintln(out, pal.warn("You can manually run installation later."))
		} else {
			fmt.Fprintln(out, pal.success("Dependencies installed."))
		}
	}

	if !opts.noGit {
		if err := d.initGit(target, gitutil.InitialCommitMessage); err != nil {
			fmt.Fprintln(out, pal.warn("Git init failed or git is not available. Skipping."))
		}
	}

	printNextSteps(out, pal, sel, report.Profile, manager)
	return nil
}

func printBanner(out io.Writer, pal palette) {
	fmt.Fprintln(out, pal.banner("create-liquid-apps "+version.String()))
	fmt.Fprintln(out, pal.muted("Scaffold an Avail Nexus demo app with your preferences"))
	fmt.Fprintln(out)
}

// collectAnswers fills the selection from flags first. The remaining
// answers come from config defaults under --yes, otherwise from prompts
// whose empty answer is the same default.
func collectAnswers(p *prompter, args []string, opts *options, cfg config.Config) (selection.Selection, error) {
	var sel selection.Selection

	dir, err := answer(firstArg(args), opts.yes, defaultDir, func(def string) (string, error) {
		return p.input("Project directory name:", def)
	})
	if err != nil {
		return sel, err
	}
	sel.Dir = strings.TrimSpace(dir)

	framework, err := answer(opts.framework, opts.yes, orDefault(cfg.Defaults.Framework, string(selection.DefaultFramework)), func(def string) (string, error) {
		return p.selectOne("Choose a framework:", selection.FrameworkChoices(), def)
	})
	if err != nil {
		return sel, err
	}
	sel.Framework = selection.Framework(framework)

	widgetChoices := selection.WidgetChoices(sel.Framework)
	widgets, err := answer(opts.widgets, opts.yes, orDefault(cfg.Defaults.Widgets, firstEnabled(widgetChoices)), func(def string) (string, error) {
		return p.selectOne("Choose Nexus's Iteration to use", widgetChoices, def)
	})
	if err != nil {
		return sel, err
	}
	sel.Widgets = selection.WidgetFlavor(widgets)

	auth, err := answer(opts.auth, opts.yes, orDefault(cfg.Defaults.Auth, string(selection.DefaultAuth)), func(def string) (string, error) {
		return p.selectOne("Choose auth/provider:", selection.AuthChoices(), def)
	})
	if err != nil {
		return sel, err
	}
	sel.Auth = selection.AuthProvider(auth)

	return sel, nil
}

func answer(flag string, yes bool, def string, ask func(def string) (string, error)) (string, error) {
	if flag != "" {
		return flag, nil
	}
	if yes {
		return def, nil
	}
	return ask(def)
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func firstEnabled(choices []selection.Choice) string {
	for _, c := range choices {
		if !c.Disabled {
			return c.Value
		}
	}
	return ""
}

func printNextSteps(out io.Writer, pal palette, sel selection.Selection, profile customize.Profile, manager pkgmgr.Manager) {
	envFile := strings.TrimSuffix(profile.EnvFile, ".example")

	fmt.Fprintln(out)
	fmt.Fprintln(out, pal.bold(fmt.Sprintf("Success! Created %s using %s.", sel.Dir, sel.Framework)))
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Next steps:")
	fmt.Fprintf(out, "  1. cd %s\n", cdTarget(sel.Dir))
	fmt.Fprintf(out, "  2. Set env in %s (see %s)\n", envFile, profile.EnvFile)
	fmt.Fprintf(out, "  3. %s\n", manager.RunScript("dev"))
	fmt.Fprintln(out)
	fmt.Fprintln(out, pal.muted(fmt.Sprintf("Scaffolded with choices: %s, %s", sel.Widgets, sel.Auth)))
}

func cdTarget(dir string) string {
	if strings.ContainsAny(dir, " \t") {
		return fmt.Sprintf("%q", filepath.Clean(dir))
	}
	return filepath.Clean(dir)
}
