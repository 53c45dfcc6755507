package cli

import (
	"fmt"
	"os"
	"os/signal"

	"cmdref/logger"
	"cmdref/runner"
	"cmdref/ui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

func (a *app) runCmd() *cobra.Command {
	var params []string
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "run <id>",
		Short: "Run a stored command",
		Long: `Run a stored command through your shell. {{name}} placeholders are
filled from --param flags, and asked for when missing.

Example:
  cmdref run 9f86d081 --param host=db1`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := a.store.Resolve(args[0])
			if err != nil {
				return err
			}
			values, err := runner.ParseParams(params)
			if err != nil {
				return err
			}

			p := newPrompter(cmd.InOrStdin(), cmd.ErrOrStderr())
			for _, name := range runner.ExtractParams(l.Command()) {
				if _, ok := values[name]; ok {
					continue
				}
				if values[name], err = p.ask(fmt.Sprintf("Value for {{%s}}", name), false); err != nil {
					return err
				}
			}
			final := runner.SubstituteParams(l.Command(), values)

			if dryRun {
				return outputHuman(cmd.OutOrStdout(), final+"\n")
			}
			a.log.Info("running listing", logger.String("key", l.HashID()))
			return a.execute(cmd, final)
		},
	}
	cmd.Flags().StringArrayVarP(&params, "param", "p", nil, "placeholder value as name=value (repeatable)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the final command instead of running it")
	return cmd
}

func (a *app) execute(cmd *cobra.Command, command string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	out := make(chan runner.OutputMsg)
	go runner.Run(ctx, a.cfg.Shell, command, out)

	var failure string
	for msg := range out {
		switch {
		case msg.Done:
			failure = msg.ErrMsg
		case msg.IsErr:
			fmt.Fprintln(cmd.ErrOrStderr(), msg.Line)
		default:
			fmt.Fprintln(cmd.OutOrStdout(), msg.Line)
		}
	}
	if failure != "" {
		return fmt.Errorf("command failed: %s", failure)
	}
	return nil
}

func (a *app) browseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Browse, search and run listings in a terminal UI",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p := tea.NewProgram(ui.NewApp(a.store, a.cfg.Shell), tea.WithAltScreen(),
				tea.WithContext(cmd.Context()))
			_, err := p.Run()
			return err
		},
	}
}
