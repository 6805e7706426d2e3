package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	contactsCmd := &cobra.Command{Use: "contacts", Short: "Safety contact operations"}

	var name, phone, relationship string
	var priority int
	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Add a safety contact",
		RunE: func(cmd *cobra.Command, args []string) error {
			payload := map[string]interface{}{"name": name, "phone": phone}
			if relationship != "" {
				payload["relationship"] = relationship
			}
			if priority != 0 {
				payload["priority"] = priority
			}
			body, err := expectOK(apiClient().R().
				SetBody(payload).
				Post(fmt.Sprintf("/api/users/%s/contacts", userFlag)))
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(body))
			return nil
		},
	}
	addCmd.Flags().StringVarP(&name, "name", "n", "", "Contact name (required)")
	addCmd.Flags().StringVarP(&phone, "phone", "p", "", "Contact phone (required)")
	addCmd.Flags().StringVarP(&relationship, "relationship", "r", "", "Relationship to the user")
	addCmd.Flags().IntVar(&priority, "priority", 0, "Contact priority")
	_ = addCmd.MarkFlagRequired("name")
	_ = addCmd.MarkFlagRequired("phone")
	contactsCmd.AddCommand(addCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List safety contacts for a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := expectOK(apiClient().R().
				Get(fmt.Sprintf("/api/users/%s/contacts", userFlag)))
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(body))
			return nil
		},
	}
	contactsCmd.AddCommand(listCmd)

	removeCmd := &cobra.Command{
		Use:   "remove CONTACT_ID",
		Short: "Remove a safety contact",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := expectOK(apiClient().R().
				Delete(fmt.Sprintf("/api/users/%s/contacts/%s", userFlag, args[0])))
			return err
		},
	}
	contactsCmd.AddCommand(removeCmd)

	rootCmd.AddCommand(contactsCmd)
}
