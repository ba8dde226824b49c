// Package credential resolves the TMDB API read access token.
package credential

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/zalando/go-keyring"
)

const (
	// EnvVar is checked first
	EnvVar = "TMDB_KEY"
	// DotFile is read from the working directory when EnvVar is unset
	DotFile = ".TMDB_KEY"

	keyringService = "postarr"
	keyringUser    = "tmdb"
)

// ErrMissing is returned when no token could be found anywhere
var ErrMissing = errors.New("TMDB_KEY not provided. Set TMDB_KEY or create a .TMDB_KEY file in current working directory")

// Origin names where a token was found
type Origin string

const (
	OriginEnv     Origin = "environment"
	OriginDotFile Origin = "dotfile"
	OriginKeyring Origin = "keyring"
)

// Provider looks the token up once and caches it for the rest of the process.
// Failed lookups are not cached.
type Provider struct {
	mu     sync.Mutex
	token  string
	origin Origin

	lookupEnv  func(string) (string, bool)
	dir        string
	useKeyring bool
	logger     zerolog.Logger
}

// Option configures a Provider
type Option func(*Provider)

// WithDir sets the directory searched for DotFile (default: working directory)
func WithDir(dir string) Option {
	return func(p *Provider) {
		p.dir = dir
	}
}

// WithLookupEnv replaces os.LookupEnv
func WithLookupEnv(lookup func(string) (string, bool)) Option {
	return func(p *Provider) {
		p.lookupEnv = lookup
	}
}

// WithoutKeyring disables the OS keyring fallback
func WithoutKeyring() Option {
	return func(p *Provider) {
		p.useKeyring = false
	}
}

// NewProvider creates a Provider. Nothing is read until Token is called.
func NewProvider(logger zerolog.Logger, opts ...Option) *Provider {
	p := &Provider{
		lookupEnv:  os.LookupEnv,
		dir:        ".",
		useKeyring: true,
		logger:     logger,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Token returns the cached token, resolving it on first use from the
// environment, then the dotfile, then the OS keyring.
func (p *Provider) Token() (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.token != "" {
		return p.token, nil
	}

	token, origin, err := p.load()
	if err != nil {
		return "", err
	}

	p.token = token
	p.origin = origin
	p.logger.Debug().Str("origin", string(origin)).Msg("Loaded TMDB token")
	return token, nil
}

// Origin reports where the cached token came from, "" before a successful Token call
func (p *Provider) Origin() Origin {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.origin
}

func (p *Provider) load() (string, Origin, error) {
	if value, ok := p.lookupEnv(EnvVar); ok {
		if token := strings.TrimSpace(value); token != "" {
			return token, OriginEnv, nil
		}
	}

	path := filepath.Join(p.dir, DotFile)
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if token := strings.TrimSpace(string(data)); token != "" {
			return token, OriginDotFile, nil
		}
	case !errors.Is(err, fs.ErrNotExist):
		return "", "", fmt.Errorf("failed to read %s: %w", path, err)
	}

	if p.useKeyring {
		token, err := keyring.Get(keyringService, keyringUser)
		switch {
		case err == nil:
			if token = strings.TrimSpace(token); token != "" {
				return token, OriginKeyring, nil
			}
		case !errors.Is(err, keyring.ErrNotFound):
			// No keyring daemon is common on servers
			p.logger.Debug().Err(err).Msg("Keyring unavailable")
		}
	}

	return "", "", ErrMissing
}

// Store saves token in the OS keyring
func Store(token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return fmt.Errorf("empty token")
	}
	if err := keyring.Set(keyringService, keyringUser, token); err != nil {
		return fmt.Errorf("failed to store token in keyring: %w", err)
	}
	return nil
}

// Clear removes the token from the OS keyring; a missing entry is not an error
func Clear() error {
	if err := keyring.Delete(keyringService, keyringUser); err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("failed to remove token from keyring: %w", err)
	}
	return nil
}
