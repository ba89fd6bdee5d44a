package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/relaydrop/cli/pkg/model"
	"github.com/relaydrop/cli/pkg/source"
	"github.com/relaydrop/cli/pkg/transfer"
	"github.com/spf13/cobra"
)

var sendCmd = &cobra.Command{
	Use:   "send <file>",
	Short: "Send a single file to a loopback receiver",
	Long: `Send one file to a receiver on 127.0.0.1 without running the monitor.

Options:
  --port <n>     Target port (default: configured default port)
  --move         Delete the file after a confirmed transfer

Examples:
  relaydrop send report.pdf --port 9000
  relaydrop send /tmp/export.csv --move`,
	Args: cobra.ExactArgs(1),
	Run:  runSend,
}

func init() {
	rootCmd.AddCommand(sendCmd)
	sendCmd.Flags().Int("port", 0, "Target loopback port")
	sendCmd.Flags().Bool("move", false, "Delete the source after a confirmed transfer")
}

func runSend(cmd *cobra.Command, args []string) {
	absPath, err := filepath.Abs(args[0])
	if err != nil {
		fmt.Printf("Error: invalid path '%s': %v\n", args[0], err)
		os.Exit(1)
	}

	port, _ := cmd.Flags().GetInt("port")
	if port == 0 {
		port = settingsStore().Load().Monitor.DefaultPort
	}
	move, _ := cmd.Flags().GetBool("move")
	action := model.ActionCopy
	if move {
		action = model.ActionMove
	}

	src := source.NewLocalDir(filepath.Dir(absPath))
	entry, err := src.Stat(absPath)
	if err != nil {
		fmt.Printf("Error: cannot read '%s': %v\n", absPath, err)
		os.Exit(1)
	}

	result := transfer.NewClient().Send(cmd.Context(), src, entry, port, action)
	if !result.Success() {
		fmt.Printf("✗ Transfer failed: %v\n", result.Err)
		os.Exit(1)
	}
	fmt.Printf("✓ Sent %s (%d bytes) to port %d: %s\n", entry.Name, entry.Size, port, result.Response.Message)

	if action == model.ActionMove {
		if err := src.Delete(entry.Key); err != nil {
			fmt.Printf("Warning: failed to delete source: %v\n", err)
		} else {
			fmt.Printf("○ Deleted source %s\n", entry.Name)
		}
	}
}
