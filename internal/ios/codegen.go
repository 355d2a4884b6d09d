// SPDX-License-Identifier: MPL-2.0

package ios

import (
	"embed"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/urhonet/cooker/internal/build"
	"github.com/urhonet/cooker/internal/project"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var templates = template.Must(template.New("ios").ParseFS(templateFS, "templates/*.tmpl"))

// Generated sources written into the iOS tree.
const (
	AOTModulesHeader = "ios_aot_modules.h"
	AOTModulesSource = "ios_aot_modules.mm"
	PluginsSource    = "register_plugins.cpp"
)

type (
	aotData struct {
		// Symbols are the AOT symbol stems of the dependencies, in link order.
		Symbols []string
		Entry   string
	}

	pluginsData struct {
		Plugins []string
	}
)

// AOTSymbol returns the stem mono uses for a module's AOT info symbol:
// the file name without .dll, with dots replaced by underscores.
func AOTSymbol(file string) string {
	stem := strings.TrimSuffix(filepath.Base(file), ".dll")
	return strings.ReplaceAll(stem, ".", "_")
}

// WriteAOTRegistration writes the header and source that register every AOT
// module with the runtime. modules lists the dependencies; the entry module
// is always registered last.
func WriteAOTRegistration(dir string, modules []string) error {
	data := aotData{Entry: AOTSymbol(project.EntryModuleName)}
	for _, m := range modules {
		data.Symbols = append(data.Symbols, AOTSymbol(m))
	}
	if err := build.RenderTo(templates, filepath.Join(dir, AOTModulesHeader), AOTModulesHeader+".tmpl", data); err != nil {
		return err
	}
	return build.RenderTo(templates, filepath.Join(dir, AOTModulesSource), AOTModulesSource+".tmpl", data)
}

// WritePluginRegistration writes the native plugin registration unit.
func WritePluginRegistration(dir string, plugins []string) error {
	return build.RenderTo(templates, filepath.Join(dir, PluginsSource), PluginsSource+".tmpl", pluginsData{Plugins: plugins})
}
