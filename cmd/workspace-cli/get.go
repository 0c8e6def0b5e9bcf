package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sagarc03/workspaced/client"
)

var (
	getOutput string
	getImage  string
)

var getCmd = &cobra.Command{
	Use:   "get <workspace-id>",
	Short: "Download a workspace",
	Long: `Download a workspace document, or one of its images with --image.

The document is written to stdout unless --output is given.

Examples:
  workspace-cli get 1
  workspace-cli get 1 -o workspace.json
  workspace-cli get 1 --image context.png -o context.png
  workspace-cli --profile prod get 42 | jq .name`,
	Args: cobra.ExactArgs(1),
	RunE: runGet,
}

func init() {
	getCmd.Flags().StringVarP(&getOutput, "output", "o", "", "output file path (default: stdout)")
	getCmd.Flags().StringVar(&getImage, "image", "", "download the named image instead of the document")
}

func runGet(cmd *cobra.Command, args []string) error {
	id, err := parseWorkspaceID(args[0])
	if err != nil {
		return err
	}

	c, err := getClient()
	if err != nil {
		return err
	}

	if getImage != "" {
		return runGetImage(cmd, c, id)
	}

	result, err := c.Get(cmd.Context(), client.GetOptions{WorkspaceID: id, LocalPath: getOutput}, os.Stdout)
	if err != nil {
		return handleError(os.Stderr, err)
	}
	if result.LocalPath == "-" {
		return nil
	}

	return getFormatter().FormatGet(os.Stdout, result)
}

func runGetImage(cmd *cobra.Command, c *client.Client, id int64) error {
	data, _, err := c.GetImage(cmd.Context(), id, getImage)
	if err != nil {
		return handleError(os.Stderr, err)
	}

	if getOutput == "" || getOutput == "-" {
		_, err = os.Stdout.Write(data)
		return err
	}

	if err := os.WriteFile(getOutput, data, 0o600); err != nil {
		return fmt.Errorf("write file: %w", err)
	}

	return getFormatter().FormatGet(os.Stdout, &client.TransferResult{
		WorkspaceID: id,
		LocalPath:   getOutput,
		Size:        int64(len(data)),
	})
}
