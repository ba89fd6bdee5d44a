package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/relaydrop/cli/pkg/transfer"
	"github.com/spf13/cobra"
)

var recvCmd = &cobra.Command{
	Use:   "recv <directory>",
	Short: "Receive files on a loopback port",
	Long: `Listen on 127.0.0.1 and store every received file in the target
directory. Name collisions get a numeric suffix instead of overwriting.

Options:
  --port <n>     Port to listen on (default: configured default port)

Example:
  relaydrop recv ~/Received --port 9000`,
	Args: cobra.ExactArgs(1),
	Run:  runRecv,
}

func init() {
	rootCmd.AddCommand(recvCmd)
	recvCmd.Flags().Int("port", 0, "Port to listen on")
}

func runRecv(cmd *cobra.Command, args []string) {
	dir, err := filepath.Abs(args[0])
	if err != nil {
		fmt.Printf("Error: invalid path '%s': %v\n", args[0], err)
		os.Exit(1)
	}

	port, _ := cmd.Flags().GetInt("port")
	if port == 0 {
		port = settingsStore().Load().Monitor.DefaultPort
	}

	srv := transfer.NewServer(dir)
	srv.OnReceive = func(name string, size int64, path string) {
		fmt.Printf("✓ Received %s (%d bytes) → %s\n", name, size, path)
	}
	if err := srv.Listen(port); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Receiving on 127.0.0.1:%d into %s\n", srv.Port(), dir)
	fmt.Println("Press Ctrl+C to stop...")

	ctx, cancel := context.WithCancel(cmd.Context())
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan
		cancel()
	}()

	if err := srv.Serve(ctx); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("Receiver stopped")
}
