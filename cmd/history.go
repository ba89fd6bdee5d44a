package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/relaydrop/cli/pkg/model"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent transfers",
	Args:  cobra.NoArgs,
	Run:   runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().Int("limit", 20, "Maximum number of records to show")
}

func runHistory(cmd *cobra.Command, args []string) {
	limit, _ := cmd.Flags().GetInt("limit")

	store, err := openHistory()
	if err != nil {
		fmt.Printf("Error: failed to open history db: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	records, err := store.RecentTransfers(limit)
	if err != nil {
		fmt.Printf("Error: failed to read history: %v\n", err)
		os.Exit(1)
	}
	if len(records) == 0 {
		fmt.Println("No transfers recorded yet.")
		return
	}

	total, _ := store.TransferCount()
	fmt.Printf("Showing %d of %d transfer(s)\n\n", len(records), total)

	for _, record := range records {
		when := time.UnixMicro(record.StartedAt).Format("2006-01-02 15:04:05")
		status := color.GreenString("sent")
		if record.Status == model.TransferStatusFailed {
			status = color.RedString("failed")
		}
		fmt.Printf("%s  %s  %s (%d bytes) → port %d [%s]\n",
			when, status, record.Name, record.Size, record.Port, record.Action)
		if record.Message != "" && record.Status == model.TransferStatusFailed {
			fmt.Printf("    %s\n", record.Message)
		}
	}
}
