package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/tessro/strum/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long:  `Commands for viewing and editing strum configuration.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  `Display the current configuration values.`,
	RunE:  runConfigShow,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show configuration file location",
	RunE:  runConfigPath,
}

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit configuration file",
	Long:  `Open the configuration file in your default editor.`,
	RunE:  runConfigEdit,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	Long:  `Create a new configuration file with default values.`,
	RunE:  runConfigInit,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value.

Supported keys:
  library.paths      Library roots, comma separated
  library.ignore     Directory names to skip, comma separated
  library.cache      Cache scan results (true/false)
  playback.volume    Startup volume (0-120)
  playback.seek_step Seek step in seconds
  playback.gapless   Gapless playback (true/false)
  theme.flavor       Color flavor (latte/frappe/macchiato/mocha)
  log.level          Log level (debug/info/warn/error)
  keys.<action>      Key bindings, comma separated

Examples:
  strum config set library.paths ~/Music
  strum config set playback.volume 80
  strum config set keys.next "j,n,down"`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

var configSetLibraryCmd = &cobra.Command{
	Use:   "set-library [path]",
	Short: "Pick the music library root",
	Long:  `Set the library root, interactively when no path is given.`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runConfigSetLibrary,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configEditCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configSetLibraryCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	if JSONOutput() {
		return json.NewEncoder(os.Stdout).Encode(cfg)
	}

	// Pretty print as TOML
	encoder := toml.NewEncoder(os.Stdout)
	encoder.Indent = "  "
	return encoder.Encode(cfg)
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	path := getConfigPath()
	if JSONOutput() {
		return json.NewEncoder(os.Stdout).Encode(map[string]string{"path": path})
	}
	fmt.Println(path)
	return nil
}

func runConfigEdit(cmd *cobra.Command, args []string) error {
	configPath := getConfigPath()

	// Check if file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return fmt.Errorf("config file not found at %s. Run 'strum config init' first", configPath)
	}

	// Find editor
	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = os.Getenv("VISUAL")
	}
	if editor == "" {
		// Try common editors
		for _, e := range []string{"nano", "vim", "vi", "notepad"} {
			if _, err := exec.LookPath(e); err == nil {
				editor = e
				break
			}
		}
	}
	if editor == "" {
		return fmt.Errorf("no editor found. Set EDITOR environment variable")
	}

	// Open editor
	editorCmd := exec.Command(editor, configPath)
	editorCmd.Stdin = os.Stdin
	editorCmd.Stdout = os.Stdout
	editorCmd.Stderr = os.Stderr

	return editorCmd.Run()
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	configPath := getConfigPath()

	// Check if file already exists
	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("config file already exists at %s", configPath)
	}

	// Ensure directory exists
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Create default config
	defaultCfg := config.Default()

	// Write to file
	f, err := os.Create(configPath)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer func() { _ = f.Close() }()

	// Write header comment
	_, _ = fmt.Fprintln(f, "# Strum Configuration")
	_, _ = fmt.Fprintln(f, "# https://github.com/tessro/strum")
	_, _ = fmt.Fprintln(f, "")

	// Write config
	encoder := toml.NewEncoder(f)
	encoder.Indent = "  "
	if err := encoder.Encode(defaultCfg); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	if JSONOutput() {
		_ = json.NewEncoder(os.Stdout).Encode(map[string]string{
			"status": "created",
			"path":   configPath,
		})
	} else {
		fmt.Printf("Created config file: %s\n", configPath)
		fmt.Println("\nNext steps:")
		fmt.Println("  1. Point strum at your music: 'strum config set-library'")
		fmt.Println("  2. Scan it: 'strum library scan'")
	}

	return nil
}

func getConfigPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	return config.Path()
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key := args[0]
	value := args[1]

	configPath := getConfigPath()

	// Check if file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return fmt.Errorf("config file not found at %s. Run 'strum config init' first", configPath)
	}

	// Read the current config file as raw TOML
	data, err := os.ReadFile(configPath)
	if err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}

	// Parse and update based on key
	var rawConfig map[string]interface{}
	if _, err := toml.Decode(string(data), &rawConfig); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}

	// Parse the key (e.g., "playback.volume" -> ["playback", "volume"])
	parts := strings.Split(key, ".")
	if len(parts) != 2 {
		return fmt.Errorf("invalid key format. Use 'section.key' (e.g., playback.volume)")
	}

	section, field := parts[0], parts[1]

	// Get or create the section
	sectionMap, ok := rawConfig[section].(map[string]interface{})
	if !ok {
		sectionMap = make(map[string]interface{})
		rawConfig[section] = sectionMap
	}

	// Convert value to appropriate type based on field
	var typedValue interface{}
	switch {
	case key == "playback.volume" || key == "playback.seek_step":
		var intVal int
		if n, err := fmt.Sscanf(value, "%d", &intVal); err != nil || n != 1 {
			return fmt.Errorf("value must be an integer for %s", key)
		}
		typedValue = intVal
	case key == "playback.gapless" || key == "library.cache":
		typedValue = value == "true" || value == "1" || value == "yes"
	case key == "library.paths" || key == "library.ignore" || section == "keys":
		items := strings.Split(value, ",")
		list := make([]string, 0, len(items))
		for _, item := range items {
			if item = strings.TrimSpace(item); item != "" {
				list = append(list, item)
			}
		}
		typedValue = list
	default:
		typedValue = value
	}

	sectionMap[field] = typedValue

	// Write back to file
	f, err := os.Create(configPath)
	if err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	defer func() { _ = f.Close() }()

	// Write header comment
	_, _ = fmt.Fprintln(f, "# Strum Configuration")
	_, _ = fmt.Fprintln(f, "# https://github.com/tessro/strum")
	_, _ = fmt.Fprintln(f, "")

	encoder := toml.NewEncoder(f)
	encoder.Indent = "  "
	if err := encoder.Encode(rawConfig); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	if JSONOutput() {
		_ = json.NewEncoder(os.Stdout).Encode(map[string]string{
			"status": "updated",
			"key":    key,
			"value":  value,
		})
	} else {
		fmt.Printf("Set %s = %s\n", key, value)
	}

	return nil
}

// customLibrary is the select sentinel for typing a path by hand.
const customLibrary = "\x00custom"

func runConfigSetLibrary(cmd *cobra.Command, args []string) error {
	var path string
	if len(args) == 1 {
		path = args[0]
	} else {
		options := libraryOptions()
		options = append(options, huh.NewOption("Somewhere else...", customLibrary))

		form := huh.NewForm(
			huh.NewGroup(
				huh.NewSelect[string]().
					Title("Music library").
					Description("Albums are directories of audio files under this root").
					Options(options...).
					Value(&path),
			),
		)
		if err := form.Run(); err != nil {
			return fmt.Errorf("selection cancelled: %w", err)
		}

		if path == customLibrary {
			input := huh.NewForm(
				huh.NewGroup(
					huh.NewInput().
						Title("Library path").
						Placeholder("~/Music").
						Value(&path),
				),
			)
			if err := input.Run(); err != nil {
				return fmt.Errorf("selection cancelled: %w", err)
			}
		}
	}

	if strings.HasPrefix(path, "~") {
		home, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("invalid path: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return fmt.Errorf("cannot use %s: %w", abs, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", abs)
	}

	return runConfigSet(cmd, []string{"library.paths", abs})
}

// libraryOptions lists the music directories that actually exist under
// the home directory.
func libraryOptions() []huh.Option[string] {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}

	var options []huh.Option[string]
	for _, dir := range []string{
		filepath.Join(home, "Music"),
		filepath.Join(home, "music"),
		filepath.Join(home, "Audio"),
	} {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			options = append(options, huh.NewOption(dir, dir))
		}
	}
	return options
}
