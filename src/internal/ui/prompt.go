package ui

import (
	"fmt"
	"strings"

	"github.com/manifoldco/promptui"

	"github.com/hv-doan/prbridge/src/pkg/models"
)

// SelectReview shows an interactive picker over a pull request's
// reviews and returns the chosen review's ID.
func SelectReview(reviews []*models.Review) (int64, error) {
	if len(reviews) == 0 {
		return 0, fmt.Errorf("no reviews to select from")
	}

	items := make([]string, len(reviews))
	for i, review := range reviews {
		items[i] = fmt.Sprintf(
			"%s %s %s %s",
			PadRight(fmt.Sprintf("%d", review.ID), 12),
			PadRight("@"+review.User, 16),
			PadRight(review.State, 18),
			Truncate(Oneline(review.Body), 60),
		)
	}

	prompt := promptui.Select{
		Label: "Select review",
		Items: items,
		Size:  12,
		Searcher: func(input string, index int) bool {
			return strings.Contains(strings.ToLower(items[index]), input)
		},
		StartInSearchMode: true,
	}

	idx, _, err := prompt.Run()
	if err != nil {
		return 0, fmt.Errorf("prompt failed: %w", err)
	}
	return reviews[idx].ID, nil
}

// Confirm asks for user confirmation
func Confirm(question string) (bool, error) {
	var answer string
	for {
		fmt.Printf("%s (y/n): ", question)
		if _, err := fmt.Scan(&answer); err != nil {
			return false, fmt.Errorf("failed to read confirmation: %w", err)
		}
		switch strings.ToLower(answer) {
		case "yes", "y":
			return true, nil
		case "no", "n":
			return false, nil
		default:
			fmt.Println("Please enter 'y' or 'n'.")
		}
	}
}
