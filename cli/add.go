package cli

import (
	"fmt"

	"cmdref/model"
	"cmdref/ui"

	"github.com/spf13/cobra"
)

func (a *app) addCmd() *cobra.Command {
	var command, desc, tags string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a command listing",
		Long: `Add a command with a description and space-separated tags.
Values not given as flags are asked for on the terminal.

Example:
  cmdref add -c 'ls -la' -d 'lists files in long format' -t 'dir list'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p := newPrompter(cmd.InOrStdin(), cmd.ErrOrStderr())
			var err error
			if !cmd.Flags().Changed("command") {
				if command, err = p.ask("Command", false); err != nil {
					return err
				}
			}
			if !cmd.Flags().Changed("desc") {
				if desc, err = p.ask("Description", false); err != nil {
					return err
				}
			}
			if !cmd.Flags().Changed("tags") {
				if tags, err = p.ask("Tags", true); err != nil {
					return err
				}
			}

			l, err := model.NewListing(command, desc, splitTags(tags))
			if err != nil {
				return err
			}
			if err := a.store.Add(l); err != nil {
				return err
			}

			if a.jsonOut {
				return outputJSON(cmd.OutOrStdout(), toJSON(l))
			}
			return outputHuman(cmd.OutOrStdout(),
				ui.RenderStatus(fmt.Sprintf("Added %s", ui.ShortID(l.HashID())))+"\n")
		},
	}

	cmd.Flags().StringVarP(&command, "command", "c", "", "the shell command")
	cmd.Flags().StringVarP(&desc, "desc", "d", "", "what the command does")
	cmd.Flags().StringVarP(&tags, "tags", "t", "", "space-separated tags")
	return cmd
}
