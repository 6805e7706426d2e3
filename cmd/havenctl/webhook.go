package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	webhookCmd := &cobra.Command{Use: "webhook", Short: "Webhook operations"}

	var transcript, summary, emotion, secret string
	sendCmd := &cobra.Command{
		Use:   "send",
		Short: "Post a synthetic call-ended webhook",
		RunE: func(cmd *cobra.Command, args []string) error {
			data := map[string]interface{}{}
			if emotion != "" {
				data["ground_emotion"] = emotion
			}
			rawData, _ := json.Marshal(data)
			payload := map[string]interface{}{
				"type": "call-ended",
				"analysis": map[string]interface{}{
					"transcript": transcript,
					"summary":    summary,
					"Data":       string(rawData),
				},
			}
			req := apiClient().R().SetBody(payload)
			if secret != "" {
				req.SetHeader("X-Webhook-Secret", secret)
			}
			body, err := expectOK(req.Post("/api/webhooks/voice"))
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(body))
			return nil
		},
	}
	sendCmd.Flags().StringVarP(&transcript, "transcript", "t", "synthetic test call", "Call transcript")
	sendCmd.Flags().StringVarP(&summary, "summary", "s", "", "Call summary")
	sendCmd.Flags().StringVarP(&emotion, "emotion", "e", "", "Ground emotion for the annotation payload")
	sendCmd.Flags().StringVar(&secret, "secret", "", "Webhook shared secret")
	webhookCmd.AddCommand(sendCmd)

	rootCmd.AddCommand(webhookCmd)
}
