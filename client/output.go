package client

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// Formatter formats results for output.
type Formatter interface {
	FormatGet(w io.Writer, result *TransferResult) error
	FormatPut(w io.Writer, result *TransferResult) error
	FormatError(w io.Writer, err error) error
	FormatProfileList(w io.Writer, profiles []Profile, defaultName string, showSecrets bool) error
	FormatProfileShow(w io.Writer, profile Profile, isDefault, showSecrets bool) error
}

// NewFormatter returns the appropriate formatter based on flags.
func NewFormatter(jsonOutput, quiet bool) Formatter {
	if jsonOutput {
		return &JSONFormatter{}
	}
	return &HumanFormatter{Quiet: quiet}
}

// HumanFormatter outputs human-readable text.
type HumanFormatter struct {
	Quiet bool
}

// FormatGet reports a download. Nothing is printed when the document went to
// stdout, so the output stays pipeable.
func (f *HumanFormatter) FormatGet(w io.Writer, result *TransferResult) error {
	if f.Quiet || result.LocalPath == "-" {
		return nil
	}
	_, _ = fmt.Fprintf(w, "Downloaded: workspace %d -> %s (%s)\n", result.WorkspaceID, result.LocalPath, formatSize(result.Size))
	return nil
}

func (f *HumanFormatter) FormatPut(w io.Writer, result *TransferResult) error {
	if f.Quiet {
		return nil
	}
	source := result.LocalPath
	if source == "-" {
		source = "stdin"
	}
	_, _ = fmt.Fprintf(w, "Uploaded: %s -> workspace %d (%s)\n", source, result.WorkspaceID, formatSize(result.Size))
	return nil
}

func (f *HumanFormatter) FormatError(w io.Writer, err error) error {
	_, _ = fmt.Fprintf(w, "Error: %v\n", err)
	return nil
}

// FormatProfileList formats a list of profiles as human-readable text.
func (f *HumanFormatter) FormatProfileList(w io.Writer, profiles []Profile, defaultName string, showSecrets bool) error {
	maxNameLen := 4     // "NAME"
	maxEndpointLen := 8 // "ENDPOINT"
	for i := range profiles {
		if len(profiles[i].Name) > maxNameLen {
			maxNameLen = len(profiles[i].Name)
		}
		if len(profiles[i].Endpoint) > maxEndpointLen {
			maxEndpointLen = len(profiles[i].Endpoint)
		}
	}
	maxNameLen = min(maxNameLen, 20)
	maxEndpointLen = min(maxEndpointLen, 50)

	_, _ = fmt.Fprintf(w, "  %-*s  %-*s  %s\n", maxNameLen, "NAME", maxEndpointLen, "ENDPOINT", "API KEY")
	_, _ = fmt.Fprintf(w, "  %s  %s  %s\n", strings.Repeat("-", maxNameLen), strings.Repeat("-", maxEndpointLen), strings.Repeat("-", 20))

	for i := range profiles {
		p := &profiles[i]
		marker := " "
		if p.Name == defaultName {
			marker = "*"
		}

		_, _ = fmt.Fprintf(w, "%s %-*s  %-*s  %s\n",
			marker,
			maxNameLen, truncate(p.Name, maxNameLen),
			maxEndpointLen, truncate(p.Endpoint, maxEndpointLen),
			maskSecret(p.APIKey, showSecrets),
		)
	}

	return nil
}

// FormatProfileShow formats a single profile as human-readable text.
func (f *HumanFormatter) FormatProfileShow(w io.Writer, profile Profile, isDefault, showSecrets bool) error {
	_, _ = fmt.Fprintf(w, "Name:       %s", profile.Name)
	if isDefault {
		_, _ = fmt.Fprintf(w, " (default)")
	}
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintf(w, "Endpoint:   %s\n", profile.Endpoint)
	_, _ = fmt.Fprintf(w, "API Key:    %s\n", maskSecret(profile.APIKey, showSecrets))
	_, _ = fmt.Fprintf(w, "API Secret: %s\n", maskSecret(profile.APISecret, showSecrets))
	return nil
}

// JSONFormatter outputs JSON.
type JSONFormatter struct{}

func (f *JSONFormatter) FormatGet(w io.Writer, result *TransferResult) error {
	if result.LocalPath == "-" {
		return nil
	}
	return writeJSON(w, result)
}

func (f *JSONFormatter) FormatPut(w io.Writer, result *TransferResult) error {
	return writeJSON(w, result)
}

func (f *JSONFormatter) FormatError(w io.Writer, err error) error {
	output := struct {
		Error string `json:"error"`
	}{
		Error: err.Error(),
	}
	return writeJSON(w, output)
}

type jsonProfile struct {
	Name      string `json:"name"`
	Endpoint  string `json:"endpoint"`
	APIKey    string `json:"api_key"`
	APISecret string `json:"api_secret"`
	Default   bool   `json:"default"`
}

func newJSONProfile(p Profile, isDefault, showSecrets bool) jsonProfile {
	return jsonProfile{
		Name:      p.Name,
		Endpoint:  p.Endpoint,
		APIKey:    maskSecret(p.APIKey, showSecrets),
		APISecret: maskSecret(p.APISecret, showSecrets),
		Default:   isDefault,
	}
}

func (f *JSONFormatter) FormatProfileList(w io.Writer, profiles []Profile, defaultName string, showSecrets bool) error {
	output := struct {
		Profiles []jsonProfile `json:"profiles"`
	}{
		Profiles: make([]jsonProfile, len(profiles)),
	}

	for i := range profiles {
		output.Profiles[i] = newJSONProfile(profiles[i], profiles[i].Name == defaultName, showSecrets)
	}

	return writeJSON(w, output)
}

func (f *JSONFormatter) FormatProfileShow(w io.Writer, profile Profile, isDefault, showSecrets bool) error {
	return writeJSON(w, newJSONProfile(profile, isDefault, showSecrets))
}

// writeJSON writes a value as indented JSON.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// formatSize formats bytes as human-readable size.
func formatSize(bytes int64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
	)

	switch {
	case bytes >= GB:
		return fmt.Sprintf("%.1f GB", float64(bytes)/GB)
	case bytes >= MB:
		return fmt.Sprintf("%.1f MB", float64(bytes)/MB)
	case bytes >= KB:
		return fmt.Sprintf("%.1f KB", float64(bytes)/KB)
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n-3] + "..."
	}
	return s
}

// maskSecret shows only the first and last 4 characters of a secret unless
// showSecrets is set.
func maskSecret(secret string, showSecrets bool) string {
	if showSecrets {
		return secret
	}
	if secret == "" {
		return "(not set)"
	}
	if len(secret) <= 8 {
		return "********"
	}
	return secret[:4] + "..." + secret[len(secret)-4:]
}
