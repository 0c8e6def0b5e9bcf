package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/sagarc03/workspaced/client"
)

var configureCmd = &cobra.Command{
	Use:   "configure",
	Short: "Manage server profiles",
	Long: `Manage server profiles in the configuration file.

A profile stores a server endpoint together with the API key and secret of
one workspace. Switch between them with --profile or WORKSPACED_PROFILE.

Configuration is stored in ~/.workspaced/config.yaml`,
}

var configureListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all configured profiles",
	Long: `List all profiles configured in the config file.

The default profile is marked with an asterisk (*).`,
	RunE: runConfigureList,
}

var configureAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a new profile",
	Long: `Add a new profile interactively.

You will be prompted for:
  - Endpoint URL, including any base path
  - API key
  - API secret
  - Whether to set as default

The endpoint is probed before saving.`,
	Args: cobra.ExactArgs(1),
	RunE: runConfigureAdd,
}

var configureRemoveCmd = &cobra.Command{
	Use:     "remove <name>",
	Aliases: []string{"rm"},
	Short:   "Remove a profile",
	Args:    cobra.ExactArgs(1),
	RunE:    runConfigureRemove,
}

var configureSetDefaultCmd = &cobra.Command{
	Use:   "set-default <name>",
	Short: "Set the default profile",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigureSetDefault,
}

var configureShowCmd = &cobra.Command{
	Use:   "show [name]",
	Short: "Show profile details",
	Long: `Show details for a profile, or the default one when no name is given.

Secrets are masked unless --show-secrets is set.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConfigureShow,
}

var showSecrets bool

func init() {
	configureCmd.AddCommand(configureListCmd)
	configureCmd.AddCommand(configureAddCmd)
	configureCmd.AddCommand(configureRemoveCmd)
	configureCmd.AddCommand(configureSetDefaultCmd)
	configureCmd.AddCommand(configureShowCmd)

	configureShowCmd.Flags().BoolVar(&showSecrets, "show-secrets", false, "show secret values")
	configureListCmd.Flags().BoolVar(&showSecrets, "show-secrets", false, "show secret values")
}

func printNoProfiles() {
	fmt.Println("No profiles configured.")
	fmt.Println("Run 'workspace-cli configure add <name>' to create one.")
}

func runConfigureList(_ *cobra.Command, _ []string) error {
	cfg, err := client.LoadConfigFile(getConfigPath())
	if errors.Is(err, os.ErrNotExist) {
		printNoProfiles()
		return nil
	}
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	def, err := cfg.GetDefaultProfile()
	if errors.Is(err, client.ErrNoProfiles) {
		printNoProfiles()
		return nil
	}

	return getFormatter().FormatProfileList(os.Stdout, cfg.Profiles, def.Name, showSecrets)
}

func validateEndpoint(input string) error {
	if input == "" {
		return errors.New("endpoint URL is required")
	}
	u, err := url.Parse(input)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return errors.New("URL must start with http:// or https://")
	}
	return nil
}

func confirm(label string) bool {
	p := promptui.Prompt{Label: label, IsConfirm: true}
	_, err := p.Run()
	return err == nil
}

func runConfigureAdd(_ *cobra.Command, args []string) error {
	name := args[0]
	configPath := getConfigPath()

	cfg, err := client.LoadConfigFile(configPath)
	switch {
	case errors.Is(err, os.ErrNotExist):
		cfg = &client.ConfigFile{}
	case err != nil:
		return fmt.Errorf("load config: %w", err)
	}

	existing, _ := cfg.GetProfile(name)
	if existing != nil && !confirm(fmt.Sprintf("Profile '%s' already exists. Update it", name)) {
		fmt.Println("Cancelled.")
		return nil
	}

	endpointPrompt := promptui.Prompt{
		Label:    "Endpoint URL",
		Default:  client.DefaultEndpoint,
		Validate: validateEndpoint,
	}
	endpointURL, err := endpointPrompt.Run()
	if err != nil {
		return handlePromptError(err)
	}

	keyPrompt := promptui.Prompt{Label: "API Key"}
	keyVal, err := keyPrompt.Run()
	if err != nil {
		return handlePromptError(err)
	}

	secretPrompt := promptui.Prompt{Label: "API Secret", Mask: '*'}
	secretVal, err := secretPrompt.Run()
	if err != nil {
		return handlePromptError(err)
	}

	// The first profile is always the default.
	setAsDefault := len(cfg.Profiles) == 0 || confirm("Set as default profile")

	fmt.Print("Testing connection... ")
	if connErr := testServerConnection(endpointURL); connErr != nil {
		fmt.Println("FAILED")
		fmt.Printf("Warning: Could not connect to server: %v\n", connErr)
		if !confirm("Save profile anyway") {
			fmt.Println("Cancelled.")
			return nil
		}
	} else {
		fmt.Println("OK")
	}

	if setAsDefault {
		for i := range cfg.Profiles {
			cfg.Profiles[i].Default = false
		}
	}

	p := client.Profile{
		Name:      name,
		Endpoint:  strings.TrimSuffix(endpointURL, "/"),
		APIKey:    keyVal,
		APISecret: secretVal,
		Default:   setAsDefault,
	}
	if existing != nil {
		err = cfg.UpdateProfile(p)
	} else {
		err = cfg.AddProfile(p)
	}
	if err != nil {
		return fmt.Errorf("save profile: %w", err)
	}

	if err := cfg.Save(configPath); err != nil {
		return fmt.Errorf("save config: %w", err)
	}

	verb := "added"
	if existing != nil {
		verb = "updated"
	}
	fmt.Printf("Profile '%s' %s.\n", name, verb)
	if setAsDefault {
		fmt.Println("Set as default profile.")
	}

	return nil
}

func runConfigureRemove(_ *cobra.Command, args []string) error {
	name := args[0]
	configPath := getConfigPath()

	cfg, err := client.LoadConfigFile(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if _, err = cfg.GetProfile(name); err != nil {
		return err
	}

	if !confirm(fmt.Sprintf("Remove profile '%s'", name)) {
		fmt.Println("Cancelled.")
		return nil
	}

	if err := cfg.RemoveProfile(name); err != nil {
		return fmt.Errorf("remove profile: %w", err)
	}
	if err := cfg.Save(configPath); err != nil {
		return fmt.Errorf("save config: %w", err)
	}

	fmt.Printf("Profile '%s' removed.\n", name)
	return nil
}

func runConfigureSetDefault(_ *cobra.Command, args []string) error {
	configPath := getConfigPath()

	cfg, err := client.LoadConfigFile(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if err := cfg.SetDefault(args[0]); err != nil {
		return err
	}
	if err := cfg.Save(configPath); err != nil {
		return fmt.Errorf("save config: %w", err)
	}

	fmt.Printf("Default profile set to '%s'.\n", args[0])
	return nil
}

func runConfigureShow(_ *cobra.Command, args []string) error {
	cfg, err := client.LoadConfigFile(getConfigPath())
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	name := ""
	if len(args) > 0 {
		name = args[0]
	}

	p, err := cfg.GetProfile(name)
	if err != nil {
		return err
	}

	// An empty name resolved to the default profile.
	return getFormatter().FormatProfileShow(os.Stdout, *p, p.Default || name == "", showSecrets)
}

// testServerConnection probes the server's CORS preflight, which answers
// without credentials. Any HTTP response means the server is reachable.
func testServerConnection(endpointURL string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	target := strings.TrimSuffix(endpointURL, "/") + "/workspace/1"
	req, err := http.NewRequestWithContext(ctx, http.MethodOptions, target, http.NoBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := (&http.Client{Timeout: 5 * time.Second}).Do(req)
	if err != nil {
		return fmt.Errorf("connection failed: %w", err)
	}
	_ = resp.Body.Close()

	return nil
}

func handlePromptError(err error) error {
	switch {
	case errors.Is(err, promptui.ErrInterrupt):
		fmt.Println("\nCancelled.")
		os.Exit(0)
	case errors.Is(err, promptui.ErrAbort):
		fmt.Println("Cancelled.")
		return nil
	}
	return err
}
