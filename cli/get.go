package cli

import (
	"errors"
	"fmt"
	"strings"

	"cmdref/model"
	"cmdref/ui"

	"github.com/spf13/cobra"
)

func (a *app) getCmd() *cobra.Command {
	var command string

	cmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Show one listing",
		Long: `Show one listing by id, id prefix, or exact command.

Examples:
  cmdref get 3a7bd3e2
  cmdref get --command 'ls -la'`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var l *model.Listing
			var err error
			switch {
			case command != "":
				l, err = a.store.Get(model.HashCommand(command))
			case len(args) == 1:
				l, err = a.store.Resolve(args[0])
			default:
				return errors.New("provide a listing id or --command")
			}
			if err != nil {
				return err
			}

			if a.jsonOut {
				return outputJSON(cmd.OutOrStdout(), toJSON(l))
			}
			return outputHuman(cmd.OutOrStdout(), ui.RenderListing(l))
		},
	}
	cmd.Flags().StringVarP(&command, "command", "c", "", "look the listing up by its command text")
	return cmd
}

func (a *app) updateCmd() *cobra.Command {
	var desc, tags string

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change the description or tags of a listing",
		Long: `Change the description and/or tags of a listing. The command itself
cannot be changed: it is the listing's identity. Delete and add instead.

Example:
  cmdref update 3a7bd3e2 --desc 'long listing, hidden files too' --tags 'dir ls'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			descSet, tagsSet := cmd.Flags().Changed("desc"), cmd.Flags().Changed("tags")
			if !descSet && !tagsSet {
				return outputHuman(cmd.ErrOrStderr(), "Nothing to update: pass --desc and/or --tags.\n")
			}

			l, err := a.store.Resolve(args[0])
			if err != nil {
				return err
			}
			if descSet {
				if err := l.SetDescription(desc); err != nil {
					return err
				}
			}
			if tagsSet {
				l.SetTags(splitTags(tags))
			}
			if err := a.store.Update(l); err != nil {
				return err
			}

			if a.jsonOut {
				return outputJSON(cmd.OutOrStdout(), toJSON(l))
			}
			return outputHuman(cmd.OutOrStdout(),
				ui.RenderStatus(fmt.Sprintf("Updated %s", ui.ShortID(l.HashID())))+"\n")
		},
	}
	cmd.Flags().StringVarP(&desc, "desc", "d", "", "new description")
	cmd.Flags().StringVarP(&tags, "tags", "t", "", "new space-separated tags, replacing the old ones")
	return cmd
}

func (a *app) deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a listing",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := a.store.Resolve(args[0])
			if err != nil {
				return err
			}
			if err := a.store.Delete(l.HashID()); err != nil {
				return err
			}

			if a.jsonOut {
				return outputJSON(cmd.OutOrStdout(), StatusResponse{Status: "deleted", HashID: l.HashID()})
			}
			return outputHuman(cmd.OutOrStdout(),
				ui.RenderStatus(fmt.Sprintf("Deleted %s (%s)", ui.ShortID(l.HashID()), l.Command()))+"\n")
		},
	}
}

func joinArgs(args []string) string {
	return strings.Join(args, " ")
}
