package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/sagarc03/workspaced"
	"github.com/sagarc03/workspaced/config"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List provisioned workspaces",
	Long: `List every workspace known to the configured backend, with whether
its key, secret and document are present. Credentials are never printed.`,
	RunE: runList,
}

var listJSON bool

func init() {
	listCmd.Flags().BoolVar(&listJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, _ []string) error {
	cfg, err := config.FromContext(cmd.Context())
	if err != nil {
		return err
	}

	st, err := openStores(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer st.close()

	service, err := workspaced.NewWorkspaceService(st.workspaces, st.images)
	if err != nil {
		return fmt.Errorf("create service: %w", err)
	}

	summaries, err := service.ListWorkspaces(cmd.Context())
	if err != nil {
		return err
	}

	if listJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(summaries)
	}

	if len(summaries) == 0 {
		fmt.Println("No workspaces.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tKEY\tSECRET\tDATA\tUPDATED")
	for _, s := range summaries {
		updated := "-"
		if !s.UpdatedAt.IsZero() {
			updated = s.UpdatedAt.Local().Format(time.DateTime)
		}
		_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", s.ID, yesNo(s.HasKey), yesNo(s.HasSecret), yesNo(s.HasData), updated)
	}
	return w.Flush()
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
