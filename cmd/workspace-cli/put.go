package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/sagarc03/workspaced/client"
)

var putCmd = &cobra.Command{
	Use:   "put <workspace-id> <file>",
	Short: "Upload a workspace",
	Long: `Replace a workspace document with the contents of a file.

Use "-" to read the document from stdin. The document is stored verbatim.

Examples:
  workspace-cli put 1 workspace.json
  cat workspace.json | workspace-cli put 1 -`,
	Args: cobra.ExactArgs(2),
	RunE: runPut,
}

func runPut(cmd *cobra.Command, args []string) error {
	id, err := parseWorkspaceID(args[0])
	if err != nil {
		return err
	}

	c, err := getClient()
	if err != nil {
		return err
	}

	result, err := c.Put(cmd.Context(), client.PutOptions{WorkspaceID: id, LocalPath: args[1]}, os.Stdin)
	if err != nil {
		return handleError(os.Stderr, err)
	}

	return getFormatter().FormatPut(os.Stdout, result)
}
