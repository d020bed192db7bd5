package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/hv-doan/prbridge/src/internal/ui"
)

func newCommentsCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "comments",
		Short: "Read and write pull request comments",
	}

	cmd.AddCommand(newCommentsListCommand(opts))
	cmd.AddCommand(newCommentsPostCommand(opts))

	return cmd
}

func newCommentsListCommand(opts *rootOptions) *cobra.Command {
	var asJSON bool
	var full bool

	cmd := &cobra.Command{
		Use:   "list <number>",
		Short: "List comments on a pull request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			number, err := parsePRNumber(args[0])
			if err != nil {
				return err
			}

			client, err := newClient(cmd.Context(), opts)
			if err != nil {
				return err
			}

			if full {
				comments, err := client.GetPRComments(cmd.Context(), number)
				if err != nil {
					return err
				}
				if asJSON {
					return printJSON(comments)
				}
				if len(comments) == 0 {
					fmt.Println("No comments.")
					return nil
				}
				fmt.Printf("%s %s %s %s\n",
					ui.PadRight("ID", 12), ui.PadRight("AUTHOR", 16), ui.PadRight("UPDATED", 17), "BODY")
				for _, comment := range comments {
					fmt.Printf("%s %s %s %s\n",
						ui.PadRight(fmt.Sprintf("%d", comment.ID), 12),
						ui.PadRight("@"+comment.User, 16),
						ui.PadRight(comment.UpdatedAt.Format("2006-01-02 15:04"), 17),
						ui.Truncate(ui.Oneline(comment.Body), 60),
					)
				}
				return nil
			}

			comments, err := client.GetComments(cmd.Context(), number)
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(comments)
			}
			if len(comments) == 0 {
				fmt.Println("No comments.")
				return nil
			}
			fmt.Printf("%s %s\n", ui.PadRight("ID", 12), "BODY")
			for _, comment := range comments {
				fmt.Printf("%s %s\n",
					ui.PadRight(fmt.Sprintf("%d", comment.ID), 12),
					ui.Truncate(ui.Oneline(comment.Body), 80),
				)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	cmd.Flags().BoolVar(&full, "full", false, "Include author and timestamps")

	return cmd
}

func newCommentsPostCommand(opts *rootOptions) *cobra.Command {
	var body string
	var bodyFile string

	cmd := &cobra.Command{
		Use:   "post <number>",
		Short: "Post a comment on a pull request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			number, err := parsePRNumber(args[0])
			if err != nil {
				return err
			}

			text, err := resolveBody(body, bodyFile)
			if err != nil {
				return err
			}

			client, err := newClient(cmd.Context(), opts)
			if err != nil {
				return err
			}

			created, err := client.PostComment(cmd.Context(), number, text)
			if err != nil {
				return err
			}

			fmt.Printf("Comment %d posted on PR #%d\n", created.ID, number)
			return nil
		},
	}

	cmd.Flags().StringVar(&body, "body", "", "Comment body")
	cmd.Flags().StringVar(&bodyFile, "body-file", "", "Read the comment body from a file (- for stdin)")

	return cmd
}

// resolveBody reads the text to post from --body or --body-file,
// exactly one of which must be given.
func resolveBody(body, bodyFile string) (string, error) {
	if body != "" && bodyFile != "" {
		return "", fmt.Errorf("--body and --body-file are mutually exclusive")
	}
	if body != "" {
		return body, nil
	}
	if bodyFile == "" {
		return "", fmt.Errorf("one of --body or --body-file is required")
	}

	if bodyFile == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read body from stdin: %w", err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(bodyFile)
	if err != nil {
		return "", fmt.Errorf("failed to read body file: %w", err)
	}
	return string(data), nil
}
