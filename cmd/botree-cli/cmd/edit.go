package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"botree/internal/application/commands"
)

var removeCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Remove an object",
	Long: `Remove an object from the relationship that holds it, or from the roots.

Objects that were reachable only through it leave the graph too.

Example:
  botree-cli remove bob-work`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		s := GetSession()

		result, err := commands.NewRemoveObjectCommand(s.Graph, args[0]).Execute(ctx)
		if err != nil {
			return err
		}
		return save(ctx, result.Message)
	},
}

var moveCmd = &cobra.Command{
	Use:   "move <id> <new-owner-id> <relationship>",
	Short: "Move an object",
	Long: `Move an object into a relationship of another object.

An object cannot be moved below itself, and a single relationship that
already holds an object is not overwritten.

Example:
  botree-cli move carol acme ContactPeople`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		s := GetSession()

		result, err := commands.NewMoveObjectCommand(s.Graph, args[0], args[1], args[2]).Execute(ctx)
		if err != nil {
			return err
		}
		return save(ctx, result.Message)
	},
}

var renameCmd = &cobra.Command{
	Use:   "rename <id> <name>",
	Short: "Rename an object",
	Long: `Set the display property of an object.

Example:
  botree-cli rename alice "Alice Adams"`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		s := GetSession()

		result, err := commands.NewRenameObjectCommand(s.Graph, args[0], args[1]).Execute(ctx)
		if err != nil {
			return err
		}
		return save(ctx, result.Message)
	},
}

func save(ctx context.Context, message string) error {
	if err := GetSession().Save(ctx); err != nil {
		return err
	}
	fmt.Println(message)
	return nil
}

func init() {
	rootCmd.AddCommand(removeCmd)
	rootCmd.AddCommand(moveCmd)
	rootCmd.AddCommand(renameCmd)
}
