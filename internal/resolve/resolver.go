// Package resolve determines the latest upstream version of installed packages.
package resolve

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/cenk/backoff"

	"github.com/conn-castle/cargo-install-upgrade/internal/inventory"
	"github.com/conn-castle/cargo-install-upgrade/internal/logging"
	"github.com/conn-castle/cargo-install-upgrade/internal/messages"
	"github.com/conn-castle/cargo-install-upgrade/internal/runner"
)

// commitHashLength is the length of a full git object name.
const commitHashLength = 40

// Options configures a Resolver.
type Options struct {
	Runner        runner.Runner
	Manifests     ManifestReader
	Logger        *slog.Logger
	Warn          io.Writer
	SearchRetries int
}

// Resolver fills in RemoteVersion (and RemoteCommit for git packages).
type Resolver struct {
	runner        runner.Runner
	manifests     ManifestReader
	logger        *slog.Logger
	warn          io.Writer
	searchRetries int

	newBackOff func() backoff.BackOff
	mkdirTemp  func(dir string, pattern string) (string, error)
	removeAll  func(path string) error
}

// New returns a Resolver. A nil Manifests uses CargoManifest on the same runner.
func New(opts Options) *Resolver {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	warn := opts.Warn
	if warn == nil {
		warn = io.Discard
	}
	manifests := opts.Manifests
	if manifests == nil {
		manifests = &CargoManifest{Runner: opts.Runner, Logger: logger}
	}
	retries := opts.SearchRetries
	if retries < 0 {
		retries = 0
	}
	return &Resolver{
		runner:        opts.Runner,
		manifests:     manifests,
		logger:        logger,
		warn:          warn,
		searchRetries: retries,
		newBackOff:    defaultBackOff,
		mkdirTemp:     os.MkdirTemp,
		removeAll:     os.RemoveAll,
	}
}

func defaultBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 500 * time.Millisecond
	b.MaxInterval = 5 * time.Second
	b.MaxElapsedTime = 30 * time.Second
	b.Reset()
	return b
}

// Resolve updates pkg with the upstream version. Failures are reported on the
// warning writer and leave pkg unchanged.
func (r *Resolver) Resolve(ctx context.Context, pkg *inventory.Package) {
	if err := r.Check(ctx, pkg); err != nil {
		var resErr *ResolutionError
		if errors.As(err, &resErr) {
			r.logger.Warn("resolution failed", "package", pkg.Name, "error", resErr.Err)
			_, _ = fmt.Fprintf(r.warn, messages.ResolveUnavailableFmt, pkg.Name, resErr.Err)
		}
	}
}

// Check is Resolve without reporting. The returned error is always a
// *ResolutionError.
func (r *Resolver) Check(ctx context.Context, pkg *inventory.Package) error {
	if err := r.resolve(ctx, pkg); err != nil {
		return &ResolutionError{Package: pkg.Name, Err: err}
	}
	return nil
}

func (r *Resolver) resolve(ctx context.Context, pkg *inventory.Package) error {
	switch src := pkg.Source.(type) {
	case *inventory.Registry:
		raw, err := r.searchVersion(ctx, pkg.Name)
		if err != nil {
			return err
		}
		v, err := parseRemote(raw)
		if err != nil {
			return err
		}
		pkg.RemoteVersion = v
		return nil
	case *inventory.Git:
		raw, commit, err := r.gitHead(ctx, src.URL)
		if err != nil {
			return err
		}
		v, err := parseRemote(raw)
		if err != nil {
			return err
		}
		pkg.RemoteVersion = v
		src.RemoteCommit = commit
		return nil
	case *inventory.Local:
		raw, err := r.manifests.Field(ctx, src.Path, "version")
		if err != nil {
			return err
		}
		v, err := parseRemote(raw)
		if err != nil {
			return err
		}
		pkg.RemoteVersion = v
		return nil
	default:
		return fmt.Errorf(messages.ResolveUnsupportedSourceFmt, pkg.Source)
	}
}

func parseRemote(raw string) (*semver.Version, error) {
	v, err := inventory.ParseVersion(raw)
	if err != nil {
		return nil, fmt.Errorf(messages.ResolveInvalidRemoteFmt, raw, err)
	}
	return v, nil
}

// searchVersion runs `cargo search` and returns the quoted version of name.
// Only process failures are retried.
func (r *Resolver) searchVersion(ctx context.Context, name string) (string, error) {
	var out string
	attempt := 0
	op := func() error {
		attempt++
		var err error
		out, err = r.runner.Output(ctx, []string{"cargo", "search", name})
		if err != nil && ctx.Err() == nil {
			r.logger.Debug("cargo search failed", "package", name, "attempt", attempt, "error", err)
			return err
		}
		return nil
	}
	if err := backoff.Retry(op, backoff.WithContext(backoff.WithMaxRetries(r.newBackOff(), uint64(r.searchRetries)), ctx)); err != nil {
		return "", fmt.Errorf(messages.ResolveSearchFailedFmt, name, err)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return parseSearchOutput(out, name)
}

// parseSearchOutput picks the first line naming the crate and returns the
// token between its first pair of double quotes.
func parseSearchOutput(out string, name string) (string, error) {
	prefix := name + " "
	for _, line := range strings.Split(out, "\n") {
		if !strings.HasPrefix(line, prefix) {
			continue
		}
		_, rest, ok := strings.Cut(line, `"`)
		if !ok {
			return "", fmt.Errorf(messages.ResolveSearchNoVersionFmt, name, line)
		}
		version, _, ok := strings.Cut(rest, `"`)
		if !ok {
			return "", fmt.Errorf(messages.ResolveSearchNoVersionFmt, name, line)
		}
		return version, nil
	}
	return "", fmt.Errorf(messages.ResolveCrateNotListedFmt, name)
}

// gitHead shallow-clones url and returns the manifest version and HEAD commit.
func (r *Resolver) gitHead(ctx context.Context, url string) (version string, commit string, err error) {
	dir, err := r.mkdirTemp("", "cargo-install-upgrade-git-")
	if err != nil {
		return "", "", fmt.Errorf(messages.ResolveTempDirFailedFmt, err)
	}
	defer func() {
		if rmErr := r.removeAll(dir); rmErr != nil {
			r.logger.Warn("remove clone directory", "dir", dir, "error", rmErr)
		}
	}()

	if err := r.runner.Run(ctx, []string{"git", "clone", "--depth=1", url, dir}); err != nil {
		return "", "", fmt.Errorf(messages.ResolveCloneFailedFmt, url, err)
	}
	version, err = r.manifests.Field(ctx, dir, "version")
	if err != nil {
		return "", "", err
	}
	out, err := r.runner.Output(ctx, []string{"git", "ls-remote", dir, "HEAD"})
	if err != nil {
		return "", "", fmt.Errorf(messages.ResolveLsRemoteFailedFmt, url, err)
	}
	out = strings.TrimSpace(out)
	if len(out) < commitHashLength {
		return "", "", fmt.Errorf(messages.ResolveCommitTooShortFmt, out)
	}
	return version, out[:commitHashLength], nil
}
