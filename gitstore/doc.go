// Package gitstore provides a [webasset.Provider] serving assets committed to
// a git repository. Asset pipelines often keep textures, models and level data
// in a dedicated repository; this provider reads a branch or tag of such a
// repository without needing a local checkout.
//
// The repository is cloned into memory on first use, with a shallow clone
// where the transport allows it. Only committed content is visible: modified
// or untracked files in a local repository are not. Watching for changes is
// not supported.
//
// # URL Format
//
// Stores are opened from URLs with the schemes "git", "git+file",
// "git+http", "git+https" and "git+ssh". The "git+" prefix is dropped to find
// the transport, so "git+ssh://" clones over SSH and "git://" uses the git
// daemon protocol.
//
// A "//" in the path separates the repository from a directory within it,
// which becomes the root of the store. The fragment names a branch
// ("#develop" or "#refs/heads/develop") or a tag ("#refs/tags/v1.2.0"). With
// no fragment, the remote's default branch is used.
//
//	git+https://github.com/example/game-assets.git//textures#refs/tags/v3
//	git+file:///srv/repos/assets
//	git+ssh://git@github.com/example/game-assets.git//models#release
//
// # Authentication
//
// Credentials are chosen by an [Authenticator]. The default,
// [AutoAuthenticator], tries HTTP basic and token authentication for HTTP
// transports, and key or ssh-agent authentication for SSH, reading secrets
// from these environment variables (each also accepts a _FILE variant naming
// a file holding the value):
//
//   - GIT_HTTP_PASSWORD: HTTP basic authentication password
//   - GIT_HTTP_TOKEN: HTTP bearer token
//   - GIT_SSH_KEY: PEM-encoded SSH private key, optionally base64-encoded
package gitstore
