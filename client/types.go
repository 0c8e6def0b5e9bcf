package client

// GetOptions configures a workspace download.
type GetOptions struct {
	WorkspaceID int64
	LocalPath   string // empty or "-" = stdout
}

// PutOptions configures a workspace upload.
type PutOptions struct {
	WorkspaceID int64
	LocalPath   string // "-" = stdin
}

// TransferResult describes a completed get or put.
type TransferResult struct {
	WorkspaceID int64  `json:"workspace_id"`
	LocalPath   string `json:"local_path,omitempty"`
	Size        int64  `json:"size_bytes"`
	Message     string `json:"message,omitempty"`
}

// messageResponse mirrors the {"message": ...} body the server returns for
// everything except documents and images.
type messageResponse struct {
	Message string `json:"message"`
}
