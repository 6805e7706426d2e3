package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	callsCmd := &cobra.Command{Use: "calls", Short: "Call record operations"}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List call records for a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := expectOK(apiClient().R().
				Get(fmt.Sprintf("/api/users/%s/calls", userFlag)))
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(body))
			return nil
		},
	}
	callsCmd.AddCommand(listCmd)

	getCmd := &cobra.Command{
		Use:   "get CALL_ID",
		Short: "Get one call record by ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := expectOK(apiClient().R().
				Get(fmt.Sprintf("/api/users/%s/calls/%s", userFlag, args[0])))
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(body))
			return nil
		},
	}
	callsCmd.AddCommand(getCmd)

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every stored call record (requires HAVEN_ALLOW_DESTRUCTIVE_OPS on the server)",
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := expectOK(apiClient().R().Delete("/api/calls"))
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(body))
			return nil
		},
	}
	callsCmd.AddCommand(clearCmd)

	rootCmd.AddCommand(callsCmd)
}
