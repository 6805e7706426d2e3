package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	moodsCmd := &cobra.Command{Use: "moods", Short: "Mood check-in operations"}

	var mood, note string
	var intensity int
	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Record a mood check-in",
		RunE: func(cmd *cobra.Command, args []string) error {
			payload := map[string]interface{}{"mood": mood, "intensity": intensity}
			if note != "" {
				payload["note"] = note
			}
			body, err := expectOK(apiClient().R().
				SetBody(payload).
				Post(fmt.Sprintf("/api/users/%s/moods", userFlag)))
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(body))
			return nil
		},
	}
	addCmd.Flags().StringVarP(&mood, "mood", "m", "", "Mood label (required)")
	addCmd.Flags().IntVarP(&intensity, "intensity", "i", 5, "Intensity 1-10")
	addCmd.Flags().StringVarP(&note, "note", "n", "", "Optional note")
	_ = addCmd.MarkFlagRequired("mood")
	moodsCmd.AddCommand(addCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List mood check-ins for a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := expectOK(apiClient().R().
				Get(fmt.Sprintf("/api/users/%s/moods", userFlag)))
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(body))
			return nil
		},
	}
	moodsCmd.AddCommand(listCmd)
	rootCmd.AddCommand(moodsCmd)

	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Show streak and XP stats for a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := expectOK(apiClient().R().
				Get(fmt.Sprintf("/api/users/%s/stats", userFlag)))
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(body))
			return nil
		},
	}
	rootCmd.AddCommand(statsCmd)
}
