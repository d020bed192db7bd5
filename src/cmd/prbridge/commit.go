package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hv-doan/prbridge/src/internal/ui"
	"github.com/hv-doan/prbridge/src/pkg/github"
)

func newCommitCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "commit",
		Short: "Inspect commits and file contents",
	}

	cmd.AddCommand(newCommitFilesCommand(opts))
	cmd.AddCommand(newCommitCatCommand(opts))

	return cmd
}

func newCommitFilesCommand(opts *rootOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "files <sha>",
		Short: "List the files a commit touched",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd.Context(), opts)
			if err != nil {
				return err
			}

			commit, err := client.GetCommit(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			files, err := client.GetCommitFiles(commit)
			if err != nil {
				return err
			}

			if asJSON {
				return printJSON(files)
			}

			fmt.Printf("%s %s (@%s)\n", github.ShortSHA(commit.SHA), ui.Truncate(ui.Oneline(commit.Message), 70), commit.Author)
			if len(files) == 0 {
				fmt.Println("No files changed.")
				return nil
			}
			fmt.Printf("%s %s %s %s\n",
				ui.PadRight("STATUS", 10), ui.PadRight("+", 6), ui.PadRight("-", 6), "FILE")
			for _, file := range files {
				fmt.Printf("%s %s %s %s\n",
					ui.PadRight(file.Status, 10),
					ui.PadRight(fmt.Sprintf("%d", file.Additions), 6),
					ui.PadRight(fmt.Sprintf("%d", file.Deletions), 6),
					file.Filename,
				)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")

	return cmd
}

func newCommitCatCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cat <ref> <path>",
		Short: "Print a file's content at the given ref",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd.Context(), opts)
			if err != nil {
				return err
			}

			content, err := client.GetFileContent(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}

			fmt.Print(content)
			return nil
		},
	}

	return cmd
}
