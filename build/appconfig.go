package build

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
)

// AppConfigFile is the build-description file inside the SDL directory.
const AppConfigFile = "app.cmake"

// AppConfig holds the fields msdev needs from app.cmake.
type AppConfig struct {
	AppID   string
	ExeName string
}

var (
	// KEY="value"
	assignLine = regexp.MustCompile(`^\s*([A-Za-z_][A-Za-z0-9_]*)\s*=\s*"([^"]*)"\s*$`)
	// set(KEY "value")
	setLine = regexp.MustCompile(`^\s*set\s*\(\s*([A-Za-z_][A-Za-z0-9_]*)\s+"([^"]*)"\s*\)\s*$`)
)

// ReadAppConfig parses <sdlDir>/app.cmake.
func ReadAppConfig(sdlDir string) (AppConfig, Error) {
	path := filepath.Join(sdlDir, AppConfigFile)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return AppConfig{}, AppConfigInvalid{Path: path, Reason: "file not found"}
		}
		return AppConfig{}, AppConfigInvalid{Path: path, Reason: err.Error()}
	}
	return ParseAppConfig(path, data)
}

// ParseAppConfig extracts APP_ID and APP_EXE_NAME. Lines that are neither
// KEY="value" nor set(KEY "value") are ignored; the last assignment wins.
func ParseAppConfig(path string, data []byte) (AppConfig, Error) {
	values := make(map[string]string)
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := scanner.Text()
		m := assignLine.FindStringSubmatch(line)
		if m == nil {
			m = setLine.FindStringSubmatch(line)
		}
		if m != nil {
			values[m[1]] = m[2]
		}
	}
	if err := scanner.Err(); err != nil {
		return AppConfig{}, AppConfigInvalid{Path: path, Reason: err.Error()}
	}

	for _, key := range []string{"APP_ID", "APP_EXE_NAME"} {
		if values[key] == "" {
			return AppConfig{}, AppConfigInvalid{Path: path, Reason: fmt.Sprintf("missing %s", key)}
		}
	}
	return AppConfig{AppID: values["APP_ID"], ExeName: values["APP_EXE_NAME"]}, nil
}
