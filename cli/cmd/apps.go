package cmd

import (
	"github.com/urfave/cli/v2"

	"github.com/pithecene-io/msdev/build"
)

// AppInfo describes one app for the apps listing.
type AppInfo struct {
	Name            string `json:"name" yaml:"name"`
	Root            string `json:"root" yaml:"root"`
	SdlSources      bool   `json:"sdl_sources" yaml:"sdl_sources"`
	FirmwareProject bool   `json:"firmware_project" yaml:"firmware_project"`
	AppID           string `json:"app_id,omitempty" yaml:"app_id,omitempty"`
	NativePort      int    `json:"native_port" yaml:"native_port"`
	WasmPort        int    `json:"wasm_port" yaml:"wasm_port"`
	HostPort        int    `json:"host_port" yaml:"host_port"`
}

// AppsCommand returns the apps command.
func AppsCommand() *cli.Command {
	return &cli.Command{
		Name:   "apps",
		Usage:  "List the apps found in the workspace",
		Action: appsAction,
	}
}

func appsAction(c *cli.Context) error {
	s, err := newSession(c, "apps", "", "")
	if err != nil {
		return err
	}
	defer s.close(c)

	names := build.ListApps(s.ws)
	infos := make([]AppInfo, 0, len(names))
	for _, name := range names {
		app, ok := build.ResolveApp(s.ws, name).Value()
		if !ok {
			continue
		}
		ports := s.cfg.PortsFor(name)
		info := AppInfo{
			Name:            app.Name,
			Root:            app.Root,
			SdlSources:      app.HasSdlSources,
			FirmwareProject: app.HasNativeFirmwareProject,
			NativePort:      ports.Native,
			WasmPort:        ports.Wasm,
			HostPort:        ports.Host,
		}
		if app.HasSdlSources {
			if appCfg, cfgErr := build.ReadAppConfig(app.SdlSource); cfgErr == nil {
				info.AppID = appCfg.AppID
			}
		}
		infos = append(infos, info)
	}
	return s.renderer.Render(infos)
}
