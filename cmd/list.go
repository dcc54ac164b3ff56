package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/KaramelBytes/radioscope-cli/internal/dataset"
	"github.com/spf13/cobra"
)

var (
	listDir     string
	listPattern string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List candidate data files, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := currentConfig()
		dir, pattern := c.DataDir, c.DataPattern
		if cmd.Flags().Changed("dir") {
			dir = listDir
		}
		if cmd.Flags().Changed("pattern") {
			pattern = listPattern
		}
		cands, err := dataset.Resolver{Fs: appFs}.Candidates(dir, pattern)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(cands) == 0 {
			fmt.Fprintf(out, "(no files matching %s in %s)\n", pattern, dir)
			return nil
		}
		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		for i, cand := range cands {
			marker := " "
			if i == 0 {
				marker = "*"
			}
			fmt.Fprintf(tw, "%s %s\t%d bytes\t%s\n", marker, cand.Path, cand.Size, cand.ModTime.Format("2006-01-02 15:04:05"))
		}
		return tw.Flush()
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().StringVar(&listDir, "dir", "", "directory to search (overrides config)")
	listCmd.Flags().StringVar(&listPattern, "pattern", "", "file name pattern (overrides config)")
}
