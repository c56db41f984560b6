package cmd

import (
	"runtime"

	"github.com/urfave/cli/v2"

	"github.com/pithecene-io/msdev/cli/render"
	"github.com/pithecene-io/msdev/types"
)

// VersionResponse is the response for the version command.
type VersionResponse struct {
	Version             string `json:"version" yaml:"version"`
	Commit              string `json:"commit" yaml:"commit"`
	NotificationVersion string `json:"notification_version" yaml:"notification_version"`
	GoVersion           string `json:"go_version" yaml:"go_version"`
	Platform            string `json:"platform" yaml:"platform"`
}

// VersionCommand returns the version command. It needs no workspace.
func VersionCommand(commit string) *cli.Command {
	return &cli.Command{
		Name:   "version",
		Usage:  "Show version information",
		Action: versionAction(commit),
	}
}

func versionAction(commit string) cli.ActionFunc {
	return func(c *cli.Context) error {
		r, err := render.NewRenderer(c)
		if err != nil {
			return err
		}
		return r.Render(VersionResponse{
			Version:             types.Version,
			Commit:              commit,
			NotificationVersion: types.NotificationVersion,
			GoVersion:           runtime.Version(),
			Platform:            types.DetectPlatform().String(),
		})
	}
}
