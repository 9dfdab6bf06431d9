package main

import (
	"fmt"
	"regexp"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cwbudde/pixelparity/internal/autotest"
)

var listFilter string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered tests",
	RunE:  runList,
}

func init() {
	listCmd.Flags().StringVar(&listFilter, "filter", "", "Regular expression selecting tests by name or family")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	var re *regexp.Regexp
	if listFilter != "" {
		var err error
		if re, err = regexp.Compile(listFilter); err != nil {
			return fmt.Errorf("invalid filter: %w", err)
		}
	}
	suite := autotest.Default().Filter(re)

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tFAMILY")
	for _, t := range suite.Tests() {
		fmt.Fprintf(w, "%s\t%s\n", t.Name, t.Family)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "\nTotal tests: %d\n", suite.Len())
	return nil
}
