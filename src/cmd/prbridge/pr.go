package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/hv-doan/prbridge/src/pkg/github"
)

func newPRCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pr",
		Short: "Inspect pull requests",
	}

	cmd.AddCommand(newPRShowCommand(opts))
	cmd.AddCommand(newPRPatchCommand(opts))

	return cmd
}

func newPRShowCommand(opts *rootOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show <number>",
		Short: "Show pull request details",
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

			pr, err := client.GetPR(cmd.Context(), number)
			if err != nil {
				return err
			}

			if asJSON {
				return printJSON(pr)
			}

			state := pr.State
			if pr.Draft {
				state += " (draft)"
			}
			if pr.Merged {
				state += " (merged)"
			}

			fmt.Printf("#%d %s\n", pr.Number, pr.Title)
			fmt.Printf("Author:  @%s\n", pr.Author)
			fmt.Printf("State:   %s\n", state)
			fmt.Printf("Base:    %s (%s)\n", pr.BaseRef, github.ShortSHA(pr.BaseSHA))
			fmt.Printf("Head:    %s (%s)\n", pr.HeadRef, github.ShortSHA(pr.HeadSHA))
			fmt.Printf("Created: %s\n", pr.CreatedAt.Format(time.RFC3339))
			fmt.Printf("Updated: %s\n", pr.UpdatedAt.Format(time.RFC3339))
			if pr.Body != "" {
				fmt.Printf("\n%s\n", pr.Body)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")

	return cmd
}

func newPRPatchCommand(opts *rootOptions) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "patch <number>",
		Short: "Print the unified diff of a pull request",
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

			patch, err := client.GetPRPatch(cmd.Context(), number)
			if err != nil {
				return err
			}

			if output != "" {
				if err := os.WriteFile(output, []byte(patch), 0644); err != nil {
					return fmt.Errorf("failed to write patch: %w", err)
				}
				fmt.Printf("Patch written to %s\n", output)
				return nil
			}

			fmt.Print(patch)
			return nil
		},
	}

	cmd.Flags().StringVar(&output, "output", "", "Write the patch to a file instead of stdout")

	return cmd
}

func parsePRNumber(arg string) (int, error) {
	number, err := strconv.Atoi(arg)
	if err != nil || number <= 0 {
		return 0, fmt.Errorf("invalid pull request number: %s", arg)
	}
	return number, nil
}
