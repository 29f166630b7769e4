package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	appcheckin "github.com/jackyeh168/green_events/src/internal/application/checkin"
	"github.com/jackyeh168/green_events/src/internal/domain/checkin"
	"github.com/jackyeh168/green_events/src/internal/scan"
)

func (c *cli) scanCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Check attendees in and out by scanning their QR codes",
	}
	cmd.AddCommand(c.scanFileCommand(), c.scanCameraCommand())
	return cmd
}

func (c *cli) scanFileCommand() *cobra.Command {
	var eventID, path string

	cmd := &cobra.Command{
		Use:   "file",
		Short: "Scan a QR code from an image file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			container, err := c.container()
			if err != nil {
				return err
			}
			defer container.Close()

			uc, err := container.NewScanner(eventID)
			if err != nil {
				return err
			}

			f, err := os.Open(path)
			if err != nil {
				return err
			}
			defer f.Close()

			text, err := scan.ScanFile(f)
			if err != nil {
				return err
			}

			result, err := uc.Execute(cmd.Context(), appcheckin.ScanCommand{
				Text:     text,
				Prompter: stdinPrompter(cmd.InOrStdin(), cmd.OutOrStdout()),
			})
			if err != nil {
				return err
			}
			printResult(cmd.OutOrStdout(), result)
			return nil
		},
	}
	cmd.Flags().StringVar(&eventID, "event", "", "event this scanner is bound to")
	cmd.Flags().StringVar(&path, "path", "", "PNG, JPEG or GIF image containing the QR code")
	_ = cmd.MarkFlagRequired("event")
	_ = cmd.MarkFlagRequired("path")
	return cmd
}

func (c *cli) scanCameraCommand() *cobra.Command {
	var (
		eventID  string
		source   string
		once     bool
		cooldown time.Duration
	)

	cmd := &cobra.Command{
		Use:   "camera",
		Short: "Poll an MJPEG camera stream until interrupted",
		RunE: func(cmd *cobra.Command, _ []string) error {
			container, err := c.container()
			if err != nil {
				return err
			}
			defer container.Close()

			uc, err := container.NewScanner(eventID)
			if err != nil {
				return err
			}

			camera := &scan.Camera{
				Decoder:  scan.NewDecoder(),
				Interval: c.cfg.ScanInterval,
				Lease:    container.Lease,
				Device:   source,
				Logger:   c.logger,
			}
			prompter := stdinPrompter(cmd.InOrStdin(), cmd.OutOrStdout())
			out := cmd.OutOrStdout()
			ctx := cmd.Context()

			for {
				stream, err := scan.OpenMJPEG(ctx, nil, source)
				if err != nil {
					return err
				}

				err = camera.Run(ctx, stream, func(ctx context.Context, payload checkin.Payload) error {
					result, err := uc.ExecutePayload(ctx, payload, prompter)
					if err != nil {
						return err
					}
					printResult(out, result)
					return nil
				})

				switch {
				case ctx.Err() != nil:
					return nil
				case errors.Is(err, scan.ErrCameraUnavailable):
					return err
				case err != nil:
					// 單次掃描失敗不結束輪詢
					fmt.Fprintln(out, "scan rejected:", err)
				}
				if once {
					return err
				}

				// 同一張 QR 仍在鏡頭前，暫停後再繼續
				select {
				case <-ctx.Done():
					return nil
				case <-time.After(cooldown):
				}
			}
		},
	}
	cmd.Flags().StringVar(&eventID, "event", "", "event this scanner is bound to")
	cmd.Flags().StringVar(&source, "source", "", "MJPEG stream URL")
	cmd.Flags().BoolVar(&once, "once", false, "stop after the first scan")
	cmd.Flags().DurationVar(&cooldown, "cooldown", 2*time.Second, "pause between scans")
	_ = cmd.MarkFlagRequired("event")
	_ = cmd.MarkFlagRequired("source")
	return cmd
}

// stdinPrompter 簽退時在終端機詢問積分
//
// 讀取在背景進行，ctx 取消時立即返回
func stdinPrompter(in io.Reader, out io.Writer) appcheckin.PointsPrompter {
	reader := bufio.NewReader(in)

	type line struct {
		text string
		err  error
	}

	return appcheckin.PromptFunc(func(ctx context.Context, req appcheckin.PromptRequest) (string, error) {
		fmt.Fprintf(out, "Checking out %s from %q. Points to award (0-%d): ",
			req.AttendeeID, req.EventTitle, req.Ceiling.Max().Value())

		ch := make(chan line, 1)
		go func() {
			text, err := reader.ReadString('\n')
			ch <- line{text: text, err: err}
		}()

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case l := <-ch:
			if l.err != nil && !(errors.Is(l.err, io.EOF) && l.text != "") {
				return "", fmt.Errorf("failed to read points: %w", l.err)
			}
			return strings.TrimSpace(l.text), nil
		}
	})
}

func printResult(w io.Writer, r *appcheckin.ScanResult) {
	switch r.Outcome {
	case appcheckin.OutcomeCheckedIn:
		fmt.Fprintf(w, "checked in: attendee=%s event=%s at=%s\n",
			r.AttendeeID, r.EventID, r.CheckInTime.Format("2006-01-02 15:04:05"))
	case appcheckin.OutcomeCheckedOut:
		fmt.Fprintf(w, "checked out: attendee=%s event=%s points=%d total=%d\n",
			r.AttendeeID, r.EventID, *r.PointsAwarded, *r.ParticipantTotal)
	}
}
