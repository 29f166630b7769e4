package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jackyeh168/green_events/src/internal/domain/checkin"
	"github.com/jackyeh168/green_events/src/internal/infrastructure/qrimage"
)

func (c *cli) qrCommand() *cobra.Command {
	var (
		attendee string
		eventID  string
		output   string
		size     int
	)

	cmd := &cobra.Command{
		Use:   "qr",
		Short: "Render an attendee's check-in QR code as PNG",
		RunE: func(cmd *cobra.Command, _ []string) error {
			payload, err := checkin.NewPayload(attendee, eventID)
			if err != nil {
				return err
			}
			png, err := qrimage.Render(payload.Encode(), size)
			if err != nil {
				return err
			}

			if output == "" || output == "-" {
				_, err = cmd.OutOrStdout().Write(png)
				return err
			}
			if err := os.WriteFile(output, png, 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", output, err)
			}
			c.logger.Info("qr code written", "path", output, "attendee_id", attendee, "event_id", eventID)
			return nil
		},
	}
	cmd.Flags().StringVar(&attendee, "attendee", "", "attendee ID")
	cmd.Flags().StringVar(&eventID, "event", "", "event ID")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().IntVar(&size, "size", qrimage.DefaultSize, "image size in pixels")
	_ = cmd.MarkFlagRequired("attendee")
	_ = cmd.MarkFlagRequired("event")
	return cmd
}
