// Package client provides a client library for workspaced servers.
//
// Requests are signed with workspaced.Signer: every GET and PUT carries the
// Content-MD5, Nonce and Authorization headers the server verifies. The
// endpoint may include a base path, which becomes part of the signed path.
//
// # Basic Usage
//
//	cfg := &client.Config{
//		Endpoint:  "http://localhost:8080",
//		APIKey:    "8c3e7b0a-6a55-4e4f-9d0e-0b7d0c7f6e21",
//		APISecret: "1f2d3c4b-5a69-4788-97a6-b5c4d3e2f101",
//	}
//
//	c, err := client.New(cfg)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	document, err := c.GetWorkspace(ctx, 1)
//
// # Profile Configuration
//
// Profiles for several servers live in ~/.workspaced/config.yaml:
//
//	configFile, err := client.LoadConfigFile(client.DefaultConfigPath())
//	profile, err := configFile.GetProfile("production")
//	c, err := client.New(client.ConfigFromProfile(profile))
//
// Environment variables (WORKSPACED_ENDPOINT, WORKSPACED_API_KEY,
// WORKSPACED_API_SECRET) override profile values through MergeConfig.
package client
