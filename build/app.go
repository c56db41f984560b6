// Package build drives native and WebAssembly simulator builds: app
// resolution, prerequisite checks, CMake configure and Ninja compile.
package build

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pithecene-io/msdev/types"
)

const (
	// StudioDir holds the application checkouts inside the workspace.
	StudioDir = "midi-studio"
	// CoreApp is the application living at midi-studio/core.
	CoreApp = "core"
	// PluginPrefix prefixes plugin application directories.
	PluginPrefix = "plugin-"
	// SdlDir is the SDL simulator source directory inside an app root.
	SdlDir = "sdl"
	// FirmwareProjectFile marks an app that also builds firmware.
	FirmwareProjectFile = "platformio.ini"
)

// App describes a resolvable application.
type App struct {
	Name string
	Root string
	// SdlSource is the SDL directory, empty when HasSdlSources is false.
	SdlSource                string
	HasNativeFirmwareProject bool
	HasSdlSources            bool
}

// appRoot maps an app name to its directory. Names that could escape the
// studio directory map to "".
func appRoot(ws types.Workspace, name string) string {
	if name == "" || strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return ""
	}
	if name == CoreApp {
		return ws.Path(StudioDir, CoreApp)
	}
	return ws.Path(StudioDir, PluginPrefix+name)
}

// ResolveApp resolves name to an App. Unknown names fail with AppNotFound
// carrying the ListApps result for the same workspace.
func ResolveApp(ws types.Workspace, name string) types.Outcome[App, Error] {
	root := appRoot(ws, name)
	if root == "" || !isDir(root) {
		return types.Failure[App, Error](AppNotFound{Name: name, Available: ListApps(ws)})
	}

	app := App{
		Name:                     name,
		Root:                     root,
		HasNativeFirmwareProject: isFile(filepath.Join(root, FirmwareProjectFile)),
	}
	if sdl := filepath.Join(root, SdlDir); isDir(sdl) {
		app.SdlSource = sdl
		app.HasSdlSources = true
	}
	return types.Success[App, Error](app)
}

// ListApps returns the sorted names of all applications in the workspace.
func ListApps(ws types.Workspace) []string {
	entries, err := os.ReadDir(ws.Path(StudioDir))
	if err != nil {
		return []string{}
	}
	names := []string{}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		switch {
		case e.Name() == CoreApp:
			names = append(names, CoreApp)
		case e.Name() == PluginPrefix+CoreApp:
			// core always resolves to midi-studio/core.
		case strings.HasPrefix(e.Name(), PluginPrefix) && len(e.Name()) > len(PluginPrefix):
			names = append(names, strings.TrimPrefix(e.Name(), PluginPrefix))
		}
	}
	sort.Strings(names)
	return names
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
