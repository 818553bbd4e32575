package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"botree/internal/application/commands"
)

var (
	addRoot  bool
	addRels  []string
	addIndex int
)

var addCmd = &cobra.Command{
	Use:   "add <owner-id> <relationship> <class> <name>",
	Short: "Add an object",
	Long: `Add a new object to a relationship of an existing object, or as a new
root with --root.

The new object's display property is Name. --rel declares empty
relationships on it so children can be added later.

Examples:
  botree-cli add acme ContactPeople ContactPerson "Dave Diaz" --rel Addresses
  botree-cli add --root Organisation "Initech"`,
	Args: func(cmd *cobra.Command, args []string) error {
		if addRoot {
			return cobra.ExactArgs(2)(cmd, args)
		}
		return cobra.ExactArgs(4)(cmd, args)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		s := GetSession()

		var ownerID, relationship, class, name string
		if addRoot {
			class, name = args[0], args[1]
		} else {
			ownerID, relationship, class, name = args[0], args[1], args[2], args[3]
		}

		add := commands.NewAddObjectCommand(s.Graph, ownerID, relationship, class, name)
		add.Relationships = addRels
		add.Index = addIndex
		result, err := add.Execute(ctx)
		if err != nil {
			return err
		}
		if err := s.Save(ctx); err != nil {
			return err
		}
		fmt.Println(result.Message)
		return nil
	},
}

func init() {
	addCmd.Flags().BoolVar(&addRoot, "root", false, "add a root object")
	addCmd.Flags().StringSliceVar(&addRels, "rel", nil, "relationships to declare on the new object")
	addCmd.Flags().IntVar(&addIndex, "at", -1, "position in the collection, -1 appends")
	rootCmd.AddCommand(addCmd)
}
