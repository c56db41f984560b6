package bridge

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pithecene-io/msdev/toolchain"
)

// Installer provides the bridge executable.
type Installer interface {
	// EnsureBinary returns the path of a runnable bridge executable.
	EnsureBinary(ctx context.Context) (string, error)
}

// ToolResolver resolves tool identifiers. *toolchain.Resolver satisfies it.
type ToolResolver interface {
	Resolve(id string) (string, error)
}

// LocalInstaller finds an already installed bridge: an explicit path from
// configuration first, then the tool resolver. Downloading releases is left
// to workspace setup.
type LocalInstaller struct {
	// Executable is an explicit bridge path. Empty means resolve.
	Executable string
	// Root anchors a relative Executable, normally the workspace root.
	Root  string
	Tools ToolResolver
}

// EnsureBinary implements Installer.
func (i LocalInstaller) EnsureBinary(_ context.Context) (string, error) {
	if i.Executable != "" {
		path := i.Executable
		if !filepath.IsAbs(path) && i.Root != "" {
			path = filepath.Join(i.Root, path)
		}
		info, err := os.Stat(path)
		if err != nil {
			return "", fmt.Errorf("configured bridge executable: %w", err)
		}
		if info.IsDir() {
			return "", fmt.Errorf("configured bridge executable %s is a directory", path)
		}
		return path, nil
	}
	if i.Tools == nil {
		return "", fmt.Errorf("no tool resolver for %s", toolchain.Bridge)
	}
	return i.Tools.Resolve(toolchain.Bridge)
}
