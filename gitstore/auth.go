package gitstore

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"slices"

	"github.com/hairyhenderson/go-git/v5/plumbing/transport"
	githttp "github.com/hairyhenderson/go-git/v5/plumbing/transport/http"
	"github.com/hairyhenderson/go-git/v5/plumbing/transport/ssh"
	"github.com/hairyhenderson/go-webasset/internal/env"
)

// AuthMethod is an HTTP or SSH authentication method understood by go-git.
// A nil AuthMethod means no authentication.
type AuthMethod = transport.AuthMethod

// Authenticator chooses the AuthMethod for a repository URL. It fails when it
// can't authenticate to that kind of URL.
type Authenticator interface {
	Authenticate(u *url.URL) (AuthMethod, error)
}

// AuthenticatorFunc adapts an ordinary function to the Authenticator
// interface.
type AuthenticatorFunc func(u *url.URL) (AuthMethod, error)

func (f AuthenticatorFunc) Authenticate(u *url.URL) (AuthMethod, error) {
	return f(u)
}

func checkScheme(method string, u *url.URL, supported ...string) error {
	if slices.Contains(supported, u.Scheme) {
		return nil
	}

	return fmt.Errorf("%s authentication not supported for scheme %q", method, u.Scheme)
}

// AutoAuthenticator uses the first of these that can authenticate to the URL:
//
//	BasicAuthenticator("", "")
//	TokenAuthenticator("")
//	PublicKeyAuthenticator("", nil, "")
//	SSHAgentAuthenticator("")
//	NoopAuthenticator()
func AutoAuthenticator() Authenticator {
	chain := []Authenticator{
		BasicAuthenticator("", ""),
		TokenAuthenticator(""),
		PublicKeyAuthenticator("", nil, ""),
		SSHAgentAuthenticator(""),
		NoopAuthenticator(),
	}

	return AuthenticatorFunc(func(u *url.URL) (AuthMethod, error) {
		errs := make([]error, 0, len(chain))

		for _, a := range chain {
			method, err := a.Authenticate(u)
			if err == nil {
				return method, nil
			}

			errs = append(errs, err)
		}

		return nil, fmt.Errorf("no authentication method available for %s: %w", u.Redacted(), errors.Join(errs...))
	})
}

// NoopAuthenticator never authenticates. It suits public repositories and
// local ones, and so works only with the git, file, http and https schemes.
func NoopAuthenticator() Authenticator {
	return AuthenticatorFunc(func(u *url.URL) (AuthMethod, error) {
		if err := checkScheme("no-op", u, "git", "file", "http", "https"); err != nil {
			return nil, err
		}

		return nil, nil
	})
}

// BasicAuthenticator uses HTTP basic authentication. Credentials in the URL
// take precedence over username and password. An empty password is read
// from GIT_HTTP_PASSWORD (or the file named by GIT_HTTP_PASSWORD_FILE).
//
// With no credentials at all, no authentication is used, which suits public
// repositories. Hosts like GitHub accept an access token as the password.
func BasicAuthenticator(username, password string) Authenticator {
	return &basicAuthenticator{envfsys: os.DirFS("/"), username: username, password: password}
}

type basicAuthenticator struct {
	envfsys  fs.FS
	username string
	password string
}

func (a *basicAuthenticator) Authenticate(u *url.URL) (AuthMethod, error) {
	if err := checkScheme("basic", u, "http", "https"); err != nil {
		return nil, err
	}

	username := firstNonEmpty(u.User.Username(), a.username)

	urlPassword, _ := u.User.Password()
	password := firstNonEmpty(urlPassword, a.password, env.GetenvFS(a.envfsys, "GIT_HTTP_PASSWORD"))

	if username == "" && password == "" {
		return nil, nil
	}

	return &githttp.BasicAuth{Username: username, Password: password}, nil
}

// TokenAuthenticator uses HTTP bearer token authentication. An empty token is
// read from GIT_HTTP_TOKEN (or the file named by GIT_HTTP_TOKEN_FILE).
func TokenAuthenticator(token string) Authenticator {
	return &tokenAuthenticator{envfsys: os.DirFS("/"), token: token}
}

type tokenAuthenticator struct {
	envfsys fs.FS
	token   string
}

func (a *tokenAuthenticator) Authenticate(u *url.URL) (AuthMethod, error) {
	if err := checkScheme("token", u, "http", "https"); err != nil {
		return nil, err
	}

	token := firstNonEmpty(a.token, env.GetenvFS(a.envfsys, "GIT_HTTP_TOKEN"))
	if token == "" {
		return nil, errors.New("token authentication needs a token")
	}

	return &githttp.TokenAuth{Token: token}, nil
}

// PublicKeyAuthenticator uses SSH public key authentication with the
// PEM-encoded privKey, decrypted with keyPass if it's encrypted. An empty
// privKey is read from GIT_SSH_KEY (or the file named by GIT_SSH_KEY_FILE),
// which may be base64-encoded.
func PublicKeyAuthenticator(username string, privKey []byte, keyPass string) Authenticator {
	return &publicKeyAuthenticator{envfsys: os.DirFS("/"), username: username, privKey: privKey, keyPass: keyPass}
}

type publicKeyAuthenticator struct {
	envfsys  fs.FS
	username string
	keyPass  string
	privKey  []byte
}

func (a *publicKeyAuthenticator) Authenticate(u *url.URL) (AuthMethod, error) {
	if err := checkScheme("public key", u, "ssh"); err != nil {
		return nil, err
	}

	key := a.privKey
	if len(key) == 0 {
		key = decodeKey(env.GetenvFS(a.envfsys, "GIT_SSH_KEY"))
	}

	if len(key) == 0 {
		return nil, errors.New("public key authentication needs a private key")
	}

	return ssh.NewPublicKeys(firstNonEmpty(u.User.Username(), a.username), key, a.keyPass)
}

// decodeKey accepts a PEM key either as-is or base64-encoded.
func decodeKey(s string) []byte {
	if b, err := base64.StdEncoding.DecodeString(s); err == nil {
		return b
	}

	return []byte(s)
}

// SSHAgentAuthenticator authenticates with the keys held by the SSH agent
// listening on SSH_AUTH_SOCK. The username defaults to the current user.
func SSHAgentAuthenticator(username string) Authenticator {
	return AuthenticatorFunc(func(u *url.URL) (AuthMethod, error) {
		if err := checkScheme("ssh-agent", u, "ssh"); err != nil {
			return nil, err
		}

		return ssh.NewSSHAgentAuth(firstNonEmpty(u.User.Username(), username))
	})
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}

	return ""
}
