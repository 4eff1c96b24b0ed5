package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/nasagas/website/internal/application/services"
	"github.com/nasagas/website/internal/application/startup"
	"github.com/nasagas/website/internal/domain/gallery"
	"github.com/nasagas/website/pkg/config"
	"github.com/nasagas/website/pkg/enquiryclient"
	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:   "site",
		Short: "Nasa Gas website backend",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve()
		},
		SilenceUsage: true,
	}

	root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve()
		},
	})

	galleryCmd := &cobra.Command{
		Use:   "gallery",
		Short: "Print the gallery manifest as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := startup.NewLogger()
			if err != nil {
				return err
			}
			defer logger.Close()

			svc := services.NewGalleryService(services.NewGalleryConfig(), logger)
			manifest, err := svc.Manifest(cmd.Context())
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(manifest)
		},
	}
	galleryCmd.AddCommand(previewCommand())
	root.AddCommand(galleryCmd)

	root.AddCommand(enquireCommand())

	if err := root.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func serve() error {
	if err := startup.Initialize(context.Background()); err != nil {
		log.Printf("Application startup failed: %v", err)
		return err
	}
	log.Println("Application has shut down gracefully.")
	return nil
}

func previewCommand() *cobra.Command {
	var frames int

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Run the gallery rotation and print each frame",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := startup.NewLogger()
			if err != nil {
				return err
			}
			defer logger.Close()

			cfg := services.NewGalleryConfig()
			svc := services.NewGalleryService(cfg, logger)

			ticks := make(chan struct{}, 1)
			autoplay := gallery.Observe(gallery.NewTickerAutoplay(cfg.RotateInterval), func() {
				select {
				case ticks <- struct{}{}:
				default:
				}
			})
			widget, err := svc.Widget(cmd.Context(), autoplay)
			if err != nil {
				return err
			}
			defer autoplay.Stop()

			out := cmd.OutOrStdout()
			view := widget.View()
			if view.PlaceholderVisible {
				fmt.Fprintln(out, "No gallery images found.")
				return nil
			}
			fmt.Fprintf(out, "%d\t%s\t%s\n", view.Current, view.FrameSrc, view.FrameAlt)
			for i := 0; i < frames; i++ {
				select {
				case <-cmd.Context().Done():
					return nil
				case <-ticks:
				}
				view = widget.View()
				fmt.Fprintf(out, "%d\t%s\t%s\n", view.Current, view.FrameSrc, view.FrameAlt)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&frames, "frames", 5, "number of rotations to print")
	return cmd
}

func enquireCommand() *cobra.Command {
	var (
		endpoint string
		form     enquiryclient.Form
		delay    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "enquire",
		Short: "Submit a contact enquiry to a running server",
		RunE: func(cmd *cobra.Command, args []string) error {
			submitter := &enquiryclient.Submitter{
				Endpoint: endpoint,
				LoadedAt: time.Now().Add(-delay),
				Phone:    config.ContactPhone,
				Email:    config.ContactEmail,
			}
			status := submitter.Submit(cmd.Context(), form)

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, status.Message)
			for field, msg := range status.FieldErrors {
				if msg != "" {
					fmt.Fprintf(out, "  %s: %s\n", field, msg)
				}
			}
			if status.Err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "error: %v\n", status.Err)
			}
			if status.Kind != enquiryclient.StatusSent {
				return fmt.Errorf("enquiry not sent (%s)", status.Kind)
			}
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&endpoint, "endpoint", "http://localhost:"+config.Port+"/api/contact", "contact endpoint URL")
	flags.StringVar(&form.Name, "name", "", "your name")
	flags.StringVar(&form.Phone, "phone", "", "phone number")
	flags.StringVar(&form.Email, "email", "", "email address (optional)")
	flags.StringVar(&form.Postcode, "postcode", "", "postcode")
	flags.StringVar(&form.Message, "message", "", "what you need help with")
	flags.StringVar(&form.PreferredContact, "preferred-contact", "", "phone, email or text")
	flags.BoolVar(&form.Consent, "consent", false, "agree to be contacted")
	flags.BoolVar(&form.Emergency, "emergency", false, "request an emergency call-out")
	flags.DurationVar(&delay, "delay", 5*time.Second, "time the form was open before sending")
	return cmd
}
