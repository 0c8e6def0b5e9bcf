package workspaced

import (
	"path"
	"strconv"
	"strings"
)

// InvalidWorkspaceIDError reports a workspace id that is not a positive integer.
type InvalidWorkspaceIDError struct {
	Value  string
	Reason string
}

func (e *InvalidWorkspaceIDError) Error() string {
	return e.Reason
}

func (e *InvalidWorkspaceIDError) Unwrap() error {
	return ErrInvalidInput
}

// ResolveAddress parses the part of a request path after "/workspace/", e.g.
// "1" or "1/diagram.png". A leading slash is tolerated.
func ResolveAddress(p string) (Address, error) {
	p = strings.TrimPrefix(p, "/")
	idPart, resource, _ := strings.Cut(p, "/")

	id, err := ParseWorkspaceID(idPart)
	if err != nil {
		return Address{}, err
	}

	addr := Address{WorkspaceID: id}
	if strings.TrimSpace(resource) != "" {
		addr.Resource = resource
	}
	return addr, nil
}

// ParseWorkspaceID parses a positive workspace id.
func ParseWorkspaceID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, &InvalidWorkspaceIDError{Value: s, Reason: "Workspace ID must be a number"}
	}
	if id < 1 {
		return 0, &InvalidWorkspaceIDError{Value: s, Reason: "Workspace ID must be greater than 1"}
	}
	return id, nil
}

var imageContentTypes = map[string]string{
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"gif":  "image/gif",
}

// ImageContentType returns the MIME type for an image resource name, matching
// the extension case-insensitively. ok is false for anything that is not an image.
func ImageContentType(name string) (contentType string, ok bool) {
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(name), "."))
	contentType, ok = imageContentTypes[ext]
	return contentType, ok
}
