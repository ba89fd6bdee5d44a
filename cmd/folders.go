package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/relaydrop/cli/pkg/model"
	"github.com/spf13/cobra"
)

var foldersCmd = &cobra.Command{
	Use:   "folders",
	Short: "Manage monitored folders",
}

var foldersAddCmd = &cobra.Command{
	Use:   "add <path>",
	Short: "Add a folder to the monitor configuration",
	Long: `Add a folder to the monitor configuration.

Options:
  --name <name>        Display name (default: folder base name)
  --port <n>           Target loopback port (default: global default port)
  --action <a>         copy or move (default: copy)
  --delay <seconds>    Per-folder scan delay, clamped to [0, 60]
  --auto-share         Run the share command for new files
  --profile <p>        Filter profile: media, general (default: general)
  --ext <list>         Allowed extensions, e.g. --ext .txt --ext .pdf
  --pattern <glob>     File name glob, e.g. --pattern "IMG_*.jpg"
  --min-size <bytes>   Minimum file size
  --max-size <bytes>   Maximum file size

Examples:
  relaydrop folders add ~/Downloads --profile media
  relaydrop folders add /data/inbox --port 9000 --action move --ext .txt`,
	Args: cobra.ExactArgs(1),
	Run:  runFoldersAdd,
}

var foldersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List configured folders",
	Args:  cobra.NoArgs,
	Run:   runFoldersList,
}

var foldersRemoveCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Remove a folder from the configuration",
	Args:  cobra.ExactArgs(1),
	Run:   runFoldersRemove,
}

var foldersEnableCmd = &cobra.Command{
	Use:   "enable <id>",
	Short: "Enable a folder",
	Args:  cobra.ExactArgs(1),
	Run:   func(cmd *cobra.Command, args []string) { setFolderEnabled(args[0], true) },
}

var foldersDisableCmd = &cobra.Command{
	Use:   "disable <id>",
	Short: "Disable a folder without removing it",
	Args:  cobra.ExactArgs(1),
	Run:   func(cmd *cobra.Command, args []string) { setFolderEnabled(args[0], false) },
}

func init() {
	rootCmd.AddCommand(foldersCmd)
	foldersCmd.AddCommand(foldersAddCmd, foldersListCmd, foldersRemoveCmd, foldersEnableCmd, foldersDisableCmd)

	foldersAddCmd.Flags().String("name", "", "Display name")
	foldersAddCmd.Flags().Int("port", 0, "Target loopback port (0 = global default)")
	foldersAddCmd.Flags().String("action", "copy", "copy or move")
	foldersAddCmd.Flags().Int("delay", 0, "Per-folder scan delay in seconds")
	foldersAddCmd.Flags().Bool("auto-share", false, "Run the share command for new files")
	foldersAddCmd.Flags().String("profile", "general", "Filter profile: media, general")
	foldersAddCmd.Flags().StringArray("ext", nil, "Allowed extension (repeatable)")
	foldersAddCmd.Flags().StringArray("pattern", nil, "File name glob (repeatable)")
	foldersAddCmd.Flags().Int64("min-size", 0, "Minimum file size in bytes")
	foldersAddCmd.Flags().Int64("max-size", 0, "Maximum file size in bytes")
}

func runFoldersAdd(cmd *cobra.Command, args []string) {
	absPath, err := filepath.Abs(args[0])
	if err != nil {
		fmt.Printf("Error: invalid path '%s': %v\n", args[0], err)
		os.Exit(1)
	}
	info, err := os.Stat(absPath)
	if err != nil {
		fmt.Printf("Error: path '%s' does not exist: %v\n", absPath, err)
		os.Exit(1)
	}
	if !info.IsDir() {
		fmt.Printf("Error: path '%s' is not a directory\n", absPath)
		os.Exit(1)
	}

	name, _ := cmd.Flags().GetString("name")
	if name == "" {
		name = filepath.Base(absPath)
	}
	action, _ := cmd.Flags().GetString("action")
	if !model.TransferAction(action).Valid() {
		fmt.Printf("Error: unknown action '%s' (use copy or move)\n", action)
		os.Exit(1)
	}

	profile, _ := cmd.Flags().GetString("profile")
	var filter model.AutoDetectSettings
	switch profile {
	case "media":
		filter = model.MediaOnlyProfile()
	case "general":
		filter = model.GeneralProfile()
	default:
		fmt.Printf("Error: unknown profile '%s' (use media or general)\n", profile)
		os.Exit(1)
	}

	if exts, _ := cmd.Flags().GetStringArray("ext"); len(exts) > 0 {
		filter.Extensions = exts
	}
	if patterns, _ := cmd.Flags().GetStringArray("pattern"); len(patterns) > 0 {
		filter.Patterns = patterns
	}
	if minSize, _ := cmd.Flags().GetInt64("min-size"); minSize > 0 {
		filter.MinSize = minSize
	}
	if maxSize, _ := cmd.Flags().GetInt64("max-size"); maxSize > 0 {
		filter.MaxSize = maxSize
	}

	port, _ := cmd.Flags().GetInt("port")
	delay, _ := cmd.Flags().GetInt("delay")
	autoShare, _ := cmd.Flags().GetBool("auto-share")

	store := settingsStore()
	settings := store.Load()

	for _, existing := range settings.Folders {
		if existing.Path == absPath {
			fmt.Printf("Error: '%s' is already configured (id %s)\n", absPath, existing.ID)
			os.Exit(1)
		}
	}

	folder := model.FolderConfig{
		ID:           uuid.NewString(),
		Path:         absPath,
		DisplayName:  name,
		Enabled:      true,
		ScanDelaySec: model.ClampScanDelay(delay),
		Port:         port,
		Action:       model.TransferAction(action),
		AutoShare:    autoShare,
		Filter:       filter,
	}
	settings.Folders = append(settings.Folders, folder)

	if err := store.Save(settings); err != nil {
		fmt.Printf("Error: failed to save settings: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("✓ Added folder %s (id %s)\n", folder.Name(), folder.ID)
}

func runFoldersList(cmd *cobra.Command, args []string) {
	settings := settingsStore().Load()
	if len(settings.Folders) == 0 {
		fmt.Println("No folders configured. Add one with 'relaydrop folders add <path>'.")
		return
	}

	for _, folder := range settings.Folders {
		state := color.GreenString("enabled")
		if !folder.Enabled {
			state = color.YellowString("disabled")
		}
		fmt.Printf("%s  %s [%s]\n", folder.ID, folder.Name(), state)
		fmt.Printf("    path:   %s\n", folder.Path)
		fmt.Printf("    target: port %d, action %s, delay %ds, auto-share %v\n",
			folderPort(folder, &settings.Monitor), folder.Action, folder.ScanDelaySec, folder.AutoShare)
		if len(folder.Filter.Extensions) > 0 {
			fmt.Printf("    filter: %v\n", folder.Filter.Extensions)
		}
	}
}

func runFoldersRemove(cmd *cobra.Command, args []string) {
	store := settingsStore()
	settings := store.Load()

	for i, folder := range settings.Folders {
		if folder.ID == args[0] {
			settings.Folders = append(settings.Folders[:i], settings.Folders[i+1:]...)
			if err := store.Save(settings); err != nil {
				fmt.Printf("Error: failed to save settings: %v\n", err)
				os.Exit(1)
			}
			fmt.Printf("✓ Removed folder %s\n", folder.Name())
			return
		}
	}
	fmt.Printf("Error: no folder with id '%s'\n", args[0])
	os.Exit(1)
}

func setFolderEnabled(id string, enabled bool) {
	store := settingsStore()
	settings := store.Load()

	folder := settings.FolderByID(id)
	if folder == nil {
		fmt.Printf("Error: no folder with id '%s'\n", id)
		os.Exit(1)
	}
	folder.Enabled = enabled
	if err := store.Save(settings); err != nil {
		fmt.Printf("Error: failed to save settings: %v\n", err)
		os.Exit(1)
	}
	if enabled {
		fmt.Printf("✓ Enabled %s\n", folder.Name())
	} else {
		fmt.Printf("○ Disabled %s\n", folder.Name())
	}
}

// folderPort resolves the effective port for display.
func folderPort(folder model.FolderConfig, global *model.MonitorSettings) int {
	if folder.Port != 0 {
		return folder.Port
	}
	return global.DefaultPort
}
