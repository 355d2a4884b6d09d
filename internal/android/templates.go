// SPDX-License-Identifier: MPL-2.0

package android

import (
	"embed"
	"os"
	"text/template"

	"github.com/urhonet/cooker/internal/build"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var templates = template.Must(template.New("android").ParseFS(templateFS, "templates/*.tmpl"))

type (
	// gradleData feeds build.gradle.tmpl.
	gradleData struct {
		UUID         string
		VersionCode  string
		VersionName  string
		Dependencies []string
		NDKVersion   string
	}

	// manifestData feeds AndroidManifest.xml.tmpl.
	manifestData struct {
		UUID             string
		Permissions      []string
		ExtraManifest    string
		GADApplicationID string
		IntentFilters    string
	}
)

func renderTo(path, name string, data any) error {
	return build.RenderTo(templates, path, name, data)
}

// readOptional returns the content of path, or "" when it does not exist.
func readOptional(path string) (string, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return "", nil
	}
	return string(data), err
}
