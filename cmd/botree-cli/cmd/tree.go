package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"botree/internal/application/commands"
)

var (
	treeExpand  int
	treeDisplay int
	treeRoot    string
	treeHide    []string
	treeAll     bool
	treeStats   bool
)

var treeCmd = &cobra.Command{
	Use:   "tree",
	Short: "Display the graph as a tree",
	Long: `Display the object graph as an indented tree.

--expand sets how many levels are built up front and --display how many
levels show their relationships; -1 means no limit. Collapsed nodes are
marked with + and their children are only printed with --all.

Examples:
  botree-cli tree
  botree-cli tree --expand -1
  botree-cli tree --root acme --display 1
  botree-cli tree --hide bob --stats`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		s := GetSession()

		load := commands.NewLoadTreeCommand(s.Graph, s.Tree, treeRoot, treeExpand, treeDisplay)
		result, err := load.Execute(ctx)
		if err != nil {
			return err
		}
		for _, id := range treeHide {
			if _, err := commands.NewSetVisibilityCommand(s.Graph, s.Tree, id, false).Execute(ctx); err != nil {
				return err
			}
		}

		if len(view.TopLevel()) == 0 {
			fmt.Println("(empty tree)")
			return nil
		}
		if err := view.Render(os.Stdout, treeAll); err != nil {
			return err
		}

		if treeStats {
			stats := s.Tree.Stats()
			fmt.Printf("\n%s\n", result.Message)
			fmt.Printf("objects: %d  relationships: %d  collections: %d  subscriptions: %d  hidden: %d\n",
				stats.Objects, stats.Relationships, stats.Collections, stats.Subscriptions, stats.Hidden)
		}
		return nil
	},
}

func init() {
	treeCmd.Flags().IntVarP(&treeExpand, "expand", "e", cfg.Tree.Expand, "levels built up front, -1 for all")
	treeCmd.Flags().IntVarP(&treeDisplay, "display", "d", cfg.Tree.Display, "levels that show relationships, -1 for all")
	treeCmd.Flags().StringVarP(&treeRoot, "root", "r", "", "show only the object with this ID")
	treeCmd.Flags().StringSliceVar(&treeHide, "hide", nil, "IDs of objects to leave out")
	treeCmd.Flags().BoolVarP(&treeAll, "all", "a", false, "print the children of collapsed nodes")
	treeCmd.Flags().BoolVar(&treeStats, "stats", false, "print what the tree tracks")
	rootCmd.AddCommand(treeCmd)
}
