// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"cmp"
	"maps"
	"slices"
	"strings"

	"github.com/charmbracelet/glamour"
)

const docsBase = "https://github.com/urhonet/cooker/blob/main/docs/"

const (
	HomeNotFoundId Id = iota + 1
	ProjectVarsNotFoundId
	ProjectVarsInvalidId
	EntryModuleNotFoundId
	ToolNotFoundId
	XcodeNotFoundId
	HostNotSupportedId
	CommandFailedId
	ConfigLoadFailedId
	KeystoreInvalidId
	TemplateMissingId
	DotnetTooOldId
)

type (
	Id int

	MarkdownMsg string

	HttpLink string

	Renderer interface {
		Render(in string, stylePath string) (string, error)
	}

	Issue struct {
		id       Id          // ID used to lookup the issue
		mdMsg    MarkdownMsg // Markdown text that will be rendered
		docLinks []HttpLink  // must never be empty, every issue has a docs page
		extLinks []HttpLink  // external links that might be useful for the user
	}
)

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

// Render renders the issue guide as terminal Markdown using the named glamour
// style ("dark", "light", "notty", ...).
func (i *Issue) Render(stylePath string) (string, error) {
	var md strings.Builder
	md.WriteString(string(i.mdMsg))
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		md.WriteString("\n\n## See also\n")
		for _, link := range i.docLinks {
			md.WriteString("- <" + string(link) + ">\n")
		}
		for _, link := range i.extLinks {
			md.WriteString("- <" + string(link) + ">\n")
		}
	}
	return render(md.String(), stylePath)
}

var (
	render = glamour.Render

	homeNotFoundIssue = &Issue{
		id: HomeNotFoundId,
		mdMsg: `
# URHONET home not found

cooker needs the URHONET SDK directory (it contains ` + "`template/`" + ` and ` + "`tools/`" + `).

## Lookup order
1. ` + "`--home`" + ` flag
2. ` + "`home`" + ` in the cooker config file
3. ` + "`URHONET_HOME`" + ` environment variable
4. first existing directory listed in ` + "`~/.urhonet_config/urhonethome`" + `

## Things you can try
~~~
$ cooker config set home /path/to/Urho.Net
~~~`,
		docLinks: []HttpLink{docsBase + "configuration.md"},
	}

	projectVarsNotFoundIssue = &Issue{
		id: ProjectVarsNotFoundId,
		mdMsg: `
# Project variables not found

Every project carries ` + "`script/project_vars.sh`" + ` with its name, UUID and packaging options.

## Things you can try
- Run cooker from the project root, or pass ` + "`--path`" + `
- Create the file from the SDK template:
~~~
export PROJECT_UUID='com.example.mygame'
export PROJECT_NAME='MyGame'
export JAVA_PACKAGE_PATH='com/example/mygame'
~~~`,
		docLinks: []HttpLink{docsBase + "project.md"},
	}

	projectVarsInvalidIssue = &Issue{
		id: ProjectVarsInvalidId,
		mdMsg: `
# Project variables are incomplete

` + "`PROJECT_UUID`" + `, ` + "`PROJECT_NAME`" + ` and (for Android) ` + "`JAVA_PACKAGE_PATH`" + ` must all be set in ` + "`script/project_vars.sh`" + `.`,
		docLinks: []HttpLink{docsBase + "project.md"},
	}

	entryModuleNotFoundIssue = &Issue{
		id: EntryModuleNotFoundId,
		mdMsg: `
# Game.dll not found

The managed entry module is produced by ` + "`dotnet build`" + ` into ` + "`Intermediate/Game.dll`" + `.

## Things you can try
~~~
$ dotnet build --configuration Release -p:DefineConstants=_MOBILE_
$ cooker deps --path .
~~~`,
		docLinks: []HttpLink{docsBase + "dependencies.md"},
	}

	toolNotFoundIssue = &Issue{
		id: ToolNotFoundId,
		mdMsg: `
# Required tool not found

A build step needs an external tool that is not installed or not on ` + "`PATH`" + `.

## Things you can try
- Install the missing tool and open a new terminal
- Override its location in the cooker config (` + "`tools.dotnet`" + `, ` + "`tools.java`" + `, ...)
- Run with ` + "`--verbose`" + ` to see which tool was looked up`,
		docLinks: []HttpLink{docsBase + "toolchain.md"},
	}

	xcodeNotFoundIssue = &Issue{
		id: XcodeNotFoundId,
		mdMsg: `
# Xcode not found

iOS builds need Xcode and its command line tools.

## Things you can try
~~~
$ xcode-select --install
$ sudo xcode-select --switch /Applications/Xcode.app
~~~`,
		docLinks: []HttpLink{docsBase + "ios.md"},
		extLinks: []HttpLink{"https://developer.apple.com/xcode/"},
	}

	hostNotSupportedIssue = &Issue{
		id: HostNotSupportedId,
		mdMsg: `
# Host not supported

iOS packaging only runs on macOS. Android packaging runs on Linux, macOS and Windows.`,
		docLinks: []HttpLink{docsBase + "ios.md"},
	}

	commandFailedIssue = &Issue{
		id: CommandFailedId,
		mdMsg: `
# External command failed

One of the build tools exited with an error. Its last output lines are shown above.

## Things you can try
- Re-run with ` + "`--verbose`" + ` to stream the full tool output
- Run ` + "`cooker clean --path .`" + ` and build again`,
		docLinks: []HttpLink{docsBase + "troubleshooting.md"},
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration

Your cooker configuration file could not be loaded. cooker continues with defaults.

## Things you can try
~~~
$ cooker config path
$ cooker config show
$ cooker config init
~~~`,
		docLinks: []HttpLink{docsBase + "configuration.md"},
	}

	keystoreInvalidIssue = &Issue{
		id: KeystoreInvalidId,
		mdMsg: `
# Keystore problem

The release bundle could not be signed.

## Things you can try
- Pass ` + "`--keystore .`" + ` to generate ` + "`android-release-key.jks`" + ` in the project root
- Pass ` + "`--keystore path/to/key.jks`" + ` to sign with an existing key`,
		docLinks: []HttpLink{docsBase + "android.md"},
		extLinks: []HttpLink{"https://developer.android.com/studio/publish/app-signing"},
	}

	templateMissingIssue = &Issue{
		id: TemplateMissingId,
		mdMsg: `
# SDK template missing

The URHONET home does not contain the platform template this build needs
(` + "`template/Android`" + `, ` + "`template/IOS`" + ` or ` + "`template/libs/dotnet`" + `). Reinstall or update the SDK.`,
		docLinks: []HttpLink{docsBase + "configuration.md"},
	}

	dotnetTooOldIssue = &Issue{
		id: DotnetTooOldId,
		mdMsg: `
# dotnet SDK too old

Game projects target .NET 6 or newer and ` + "`dotnet --version`" + ` reported an older SDK.

## Things you can try
- Install a current SDK and make sure it comes first on ` + "`PATH`" + `
- Point cooker at a specific binary with ` + "`cooker config set tools.dotnet /path/to/dotnet`" + `
- Check for a ` + "`global.json`" + ` in the project that pins an old SDK`,
		docLinks: []HttpLink{docsBase + "configuration.md"},
		extLinks: []HttpLink{"https://dotnet.microsoft.com/download"},
	}

	issues = map[Id]*Issue{
		homeNotFoundIssue.id:        homeNotFoundIssue,
		projectVarsNotFoundIssue.id: projectVarsNotFoundIssue,
		projectVarsInvalidIssue.id:  projectVarsInvalidIssue,
		entryModuleNotFoundIssue.id: entryModuleNotFoundIssue,
		toolNotFoundIssue.id:        toolNotFoundIssue,
		xcodeNotFoundIssue.id:       xcodeNotFoundIssue,
		hostNotSupportedIssue.id:    hostNotSupportedIssue,
		commandFailedIssue.id:       commandFailedIssue,
		configLoadFailedIssue.id:    configLoadFailedIssue,
		keystoreInvalidIssue.id:     keystoreInvalidIssue,
		templateMissingIssue.id:     templateMissingIssue,
		dotnetTooOldIssue.id:        dotnetTooOldIssue,
	}
)

// Values returns every registered issue ordered by Id.
func Values() []*Issue {
	return slices.SortedFunc(maps.Values(issues), func(a, b *Issue) int {
		return cmp.Compare(a.id, b.id)
	})
}

// Get returns the issue registered under id, or nil.
func Get(id Id) *Issue {
	return issues[id]
}
