package cli

import (
	"cmdref/model"
	"cmdref/ui"

	"github.com/spf13/cobra"
)

func (a *app) listCmd() *cobra.Command {
	var tag string

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List all listings in the order they were added",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var ls []*model.Listing
			if tag != "" {
				ls = a.store.WithTag(tag)
			} else {
				ls = a.store.List()
			}
			return a.printListings(cmd, ls)
		},
	}
	cmd.Flags().StringVar(&tag, "tag", "", "only listings carrying this tag")
	return cmd
}

func (a *app) searchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>...",
		Short: "Fuzzy search commands, descriptions and tags",
		Long: `Fuzzy search over each listing's command, description and tags.
Best matches come first.

Example:
  cmdref search dkr ps`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.printListings(cmd, a.store.Search(joinArgs(args)))
		},
	}
}

func (a *app) tagsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tags",
		Short: "Show every tag with the number of listings carrying it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tags := a.store.Tags()
			if a.jsonOut {
				return outputJSON(cmd.OutOrStdout(), tags)
			}
			return outputHuman(cmd.OutOrStdout(), ui.RenderTagCounts(tags))
		},
	}
}

func (a *app) printListings(cmd *cobra.Command, ls []*model.Listing) error {
	if a.jsonOut {
		return outputJSON(cmd.OutOrStdout(), toJSONList(ls))
	}
	return outputHuman(cmd.OutOrStdout(), ui.RenderList(ls))
}
