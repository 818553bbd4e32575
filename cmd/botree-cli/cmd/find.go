package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"botree/internal/application/commands"
)

var findLimit int

var findCmd = &cobra.Command{
	Use:   "find <query>",
	Short: "Find objects",
	Long: `Find objects by ID, class or property value.

Results are ranked by relevance using fuzzy matching.

Examples:
  botree-cli find alice
  botree-cli find Address --limit 5`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		find := commands.NewFindObjectsCommand(GetSession().Graph, args[0])
		find.Limit = findLimit
		results, err := find.Execute(context.Background())
		if err != nil {
			return err
		}

		if len(results) == 0 {
			fmt.Println("No results found")
			return nil
		}

		for _, r := range results {
			fmt.Printf("[%s] %s  %s\n", strings.ToLower(r.Object.Class), r.Object.ID, strings.Join(r.Path, " > "))
		}
		return nil
	},
}

func init() {
	findCmd.Flags().IntVarP(&findLimit, "limit", "n", 20, "maximum number of results, 0 for all")
	rootCmd.AddCommand(findCmd)
}
