package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hv-doan/prbridge/src/internal/ui"
	"github.com/hv-doan/prbridge/src/pkg/models"
)

func newReviewsCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reviews",
		Short: "Read, submit and dismiss pull request reviews",
	}

	cmd.AddCommand(newReviewsListCommand(opts))
	cmd.AddCommand(newReviewsPostCommand(opts))
	cmd.AddCommand(newReviewsDismissCommand(opts))

	return cmd
}

func newReviewsListCommand(opts *rootOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list <number>",
		Short: "List reviews on a pull request",
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

			reviews, err := client.GetReviews(cmd.Context(), number)
			if err != nil {
				return err
			}

			if asJSON {
				return printJSON(reviews)
			}
			if len(reviews) == 0 {
				fmt.Println("No reviews.")
				return nil
			}

			fmt.Printf("%s %s %s %s %s\n",
				ui.PadRight("ID", 12), ui.PadRight("REVIEWER", 16), ui.PadRight("STATE", 18),
				ui.PadRight("SUBMITTED", 17), "BODY")
			for _, review := range reviews {
				fmt.Printf("%s %s %s %s %s\n",
					ui.PadRight(fmt.Sprintf("%d", review.ID), 12),
					ui.PadRight("@"+review.User, 16),
					ui.PadRight(review.State, 18),
					ui.PadRight(review.SubmittedAt.Format("2006-01-02 15:04"), 17),
					ui.Truncate(ui.Oneline(review.Body), 50),
				)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")

	return cmd
}

func newReviewsPostCommand(opts *rootOptions) *cobra.Command {
	var body string
	var event string

	cmd := &cobra.Command{
		Use:   "post <number>",
		Short: "Submit a review on a pull request",
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

			review, err := client.PostReview(cmd.Context(), number, body, models.ReviewEvent(event))
			if err != nil {
				return err
			}

			fmt.Printf("Review %d (%s) submitted on PR #%d\n", review.ID, review.State, number)
			return nil
		},
	}

	cmd.Flags().StringVar(&body, "body", "", "Review body")
	cmd.Flags().StringVar(&event, "event", "", "Review event: APPROVE, REQUEST_CHANGES or COMMENT (default COMMENT)")

	return cmd
}

func newReviewsDismissCommand(opts *rootOptions) *cobra.Command {
	var reviewID int64
	var reason string
	var yes bool

	cmd := &cobra.Command{
		Use:   "dismiss <number>",
		Short: "Dismiss a review on a pull request",
		Long: `Dismiss a review on a pull request. Without --review the command
lists the pull request's reviews and prompts for one.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			number, err := parsePRNumber(args[0])
			if err != nil {
				return err
			}

			client, err := newClient(cmd.Context(), opts)
			if err != nil {
				return err
			}

			if reviewID == 0 {
				reviews, err := client.GetReviews(cmd.Context(), number)
				if err != nil {
					return err
				}
				reviewID, err = ui.SelectReview(reviews)
				if err != nil {
					return err
				}
			}

			if !yes {
				ok, err := ui.Confirm(fmt.Sprintf("Dismiss review %d on PR #%d?", reviewID, number))
				if err != nil {
					return err
				}
				if !ok {
					fmt.Println("Aborted.")
					return nil
				}
			}

			if !client.DismissReview(cmd.Context(), number, reviewID, models.DismissalReason(reason)) {
				return fmt.Errorf("failed to dismiss review %d on PR #%d", reviewID, number)
			}

			fmt.Printf("Review %d dismissed on PR #%d\n", reviewID, number)
			return nil
		},
	}

	cmd.Flags().Int64Var(&reviewID, "review", 0, "Review ID to dismiss (prompts when omitted)")
	cmd.Flags().StringVar(&reason, "reason", "", "Dismissal reason (default OUT_OF_DATE)")
	cmd.Flags().BoolVar(&yes, "yes", false, "Skip the confirmation prompt")

	return cmd
}
