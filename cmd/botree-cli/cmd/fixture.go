package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"botree/internal/adapters/fixture"
	"botree/internal/domain"
)

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Replace the graph with a YAML fixture",
	Long: `Replace the stored graph with the one described by a YAML fixture.

Example:
  botree-cli import contacts.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		g, err := fixture.Load(args[0])
		if err != nil {
			return err
		}
		return replace(g, args[0])
	},
}

var exportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Write the graph to a YAML fixture",
	Long: `Write the stored graph to a YAML fixture. Shared objects are written
once and referenced by ID afterwards.

Example:
  botree-cli export contacts.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		g := GetSession().Graph
		if err := fixture.Write(args[0], g); err != nil {
			return err
		}
		fmt.Printf("Exported %d objects to %s\n", g.Count(), args[0])
		return nil
	},
}

var sampleCmd = &cobra.Command{
	Use:   "sample",
	Short: "Replace the graph with the built-in sample",
	Long: `Replace the stored graph with two organisations, their contact
people and addresses.

Example:
  botree-cli sample && botree-cli tree --expand -1`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return replace(fixture.Sample(), "the sample")
	},
}

func replace(g *domain.Graph, from string) error {
	ctx := context.Background()
	s := GetSession()
	s.SetGraph(g)
	if err := s.Save(ctx); err != nil {
		return err
	}
	fmt.Printf("Imported %d objects from %s\n", g.Count(), from)
	return nil
}

func init() {
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(sampleCmd)
}
