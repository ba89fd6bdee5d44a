package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/relaydrop/cli/pkg/monitor"
	"github.com/relaydrop/cli/pkg/notify"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Run the folder monitor and transfer new files",
	Long: `Watch all enabled folders and automatically transfer new or changed
files to their configured loopback ports.

The monitor polls each folder on a fixed cadence, diffing directory listings
against a (size, lastModified) snapshot. Qualifying files are held briefly
until their size stops changing, then sent concurrently while the scan moves
on. Failed transfers are retried on a later scan.

Options:
  --stats             Print a summary line after every stats interval
  --no-history        Do not record transfers in the local database

Examples:
  relaydrop watch
  relaydrop watch --stats`,
	Args: cobra.NoArgs,
	Run:  runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().Bool("stats", false, "Periodically print activity counters")
	watchCmd.Flags().Bool("no-history", false, "Skip the transfer history database")
}

func runWatch(cmd *cobra.Command, args []string) {
	showStats, _ := cmd.Flags().GetBool("stats")
	noHistory, _ := cmd.Flags().GetBool("no-history")

	store := settingsStore()
	settings := store.Load()

	enabled := 0
	for _, folder := range settings.Folders {
		if folder.Enabled {
			enabled++
		}
	}
	if enabled == 0 {
		fmt.Println("No enabled folders. Add one with 'relaydrop folders add <path>'.")
		os.Exit(1)
	}

	var hist monitor.History
	if !noHistory {
		h, err := openHistory()
		if err != nil {
			fmt.Printf("Error: failed to open history db: %v\n", err)
			os.Exit(1)
		}
		defer h.Close()
		hist = h
	}

	notifier := buildNotifier(settings.Monitor.WebhookURL)
	sharer := notify.NewSharer(settings.Monitor.ShareCommand)
	m := monitor.New(store, notifier, sharer, hist)

	fmt.Printf("Monitoring %d folder(s), poll interval %s\n", enabled, settings.Monitor.PollInterval())
	for _, folder := range settings.Folders {
		if !folder.Enabled {
			continue
		}
		fmt.Printf("  %s → port %d (%s)\n", folder.Name(), folderPort(folder, &settings.Monitor), folder.Action)
	}
	fmt.Println("\nPress Ctrl+C to stop watching...")

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	if showStats {
		go func() {
			ticker := time.NewTicker(30 * time.Second)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					fmt.Println(m.Stats().Render())
				}
			}
		}()
	}

	done := make(chan error, 1)
	go func() {
		done <- m.Run(ctx)
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	fmt.Println("\nShutting down monitor...")
	cancel()
	if err := <-done; err != nil {
		fmt.Printf("Warning: %v\n", err)
	}

	fmt.Println(m.Stats().Render())
	fmt.Println("Watch stopped")
}

func buildNotifier(webhookURL string) notify.Notifier {
	notifiers := notify.Multi{notify.Console{}}
	if webhookURL != "" {
		notifiers = append(notifiers, notify.NewWebhook(webhookURL))
	}
	return notifiers
}
