// SPDX-License-Identifier: MPL-2.0

package ios

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/urhonet/cooker/internal/assembly"
	"github.com/urhonet/cooker/internal/build"
	"github.com/urhonet/cooker/internal/platform"
	"github.com/urhonet/cooker/internal/project"
	"github.com/urhonet/cooker/internal/shell"
	"github.com/urhonet/cooker/internal/stage"
	"github.com/urhonet/cooker/internal/testutil"
	"github.com/urhonet/cooker/internal/toolchain"
)

const projectVars = `export PROJECT_UUID='com.elix22.game'
export PROJECT_NAME='Game'
export PLUGINS=('Admob')
export GAD_APPLICATION_ID='ca-app-pub-1~2'
`

const envVarsTemplate = `export DEVELOPMENT_TEAM='T_DEVELOPMENT_TEAM'
export CODE_SIGN_IDENTITY='T_CODE_SIGN_IDENTITY'
export PROVISIONING_PROFILE_SPECIFIER='T_PROVISIONING_PROFILE_SPECIFIER'
`

type fixture struct {
	home   string
	xcode  Xcode
	proj   *project.Project
	runner *testutil.FakeRunner
	env    *build.Env
}

// newFixture lays out an SDK home, an Xcode install and a game project.
// The fake runner creates the files the AOT compiler and ar would write.
func newFixture(t *testing.T, opts build.Options) *fixture {
	t.Helper()
	home := t.TempDir()
	tmpl := func(rel, content string) {
		testutil.MustWriteFile(t, filepath.Join(home, "template", filepath.FromSlash(rel)), content)
	}
	tmpl("IOS/CMakeLists.txt", "project(TEMPLATE_PROJECT_NAME)\n")
	tmpl("IOS/script/cmake_ios_dotnet.sh", "#!/bin/sh\n")
	tmpl("IOS/script/.bash_helpers.sh", "#!/bin/sh\n")
	tmpl("IOS/script/ios_env_vars.sh", envVarsTemplate)
	tmpl("IOS/script/ios.entitlements", "<string>T_DEVELOPER_ID.T_UUID</string>\n")
	tmpl("IOS/CMake/Modules/iOSBundleInfo.plist.template", "<plist/>\n")
	tmpl("libs/ios/README", "ios libs\n")
	tmpl("libs/ios/urho3d/gles/debug/libUrho3D.split.aa", "part")
	tmpl("libs/ios/urho3d/gles/release/libUrho3D.a", "gles-release")
	tmpl("libs/ios/urho3d/metal/release/libUrho3D.a", "metal-release")
	tmpl("libs/dotnet/urho/mobile/ios/UrhoDotNet.dll", "urho")
	tmpl("libs/dotnet/bcl/ios/mscorlib.dll", "corlib")
	tmpl("Plugins/Admob/Admob.mm", "// admob\n")

	xdir := t.TempDir()
	x := NewXcode(xdir)
	for _, tool := range []string{x.Clang, x.Ar, x.Lipo} {
		testutil.MustWriteFile(t, tool, "")
	}
	testutil.MustMkdirAll(t, x.SDK)

	dir := t.TempDir()
	testutil.MustWriteFile(t, project.VarsPath(dir), projectVars)
	testutil.MustWriteFile(t, filepath.Join(dir, "Intermediate", "Game.dll"), "game")
	proj, err := project.Load(dir, "")
	if err != nil {
		t.Fatalf("project.Load() error: %v", err)
	}

	runner := &testutil.FakeRunner{}
	runner.Respond("xcode-select", &shell.Result{Output: xdir + "\n"}, nil)
	runner.OnRun = fakeTools(t)

	graph := map[string][]string{
		"Game.dll":       {"mscorlib", "UrhoDotNet", "System.Missing"},
		"UrhoDotNet.dll": {"mscorlib"},
	}
	env := &build.Env{
		Project: proj,
		Tools:   toolchain.NewTools(home, "darwin", toolchain.Env{}, toolchain.Overrides{}),
		Runner:  runner,
		Options: opts,
		GOOS:    "darwin",
		LookPath: func(name string) (string, error) {
			return "/usr/bin/" + name, nil
		},
		Reader: assembly.ReaderFunc(func(_ context.Context, p string) ([]string, error) {
			return graph[filepath.Base(p)], nil
		}),
	}
	return &fixture{home: home, xcode: x, proj: proj, runner: runner, env: env}
}

// fakeTools writes the outputs of clang and ar.
func fakeTools(t *testing.T) func(shell.Command) {
	return func(cmd shell.Command) {
		switch cmd.Label {
		case "aot-object":
			if i := slices.Index(cmd.Args, "-o"); i >= 0 {
				testutil.MustWriteFile(t, cmd.Args[i+1], "obj")
			}
		case "ar-objects":
			testutil.MustWriteFile(t, filepath.Join(cmd.Dir, cmd.Args[1]), "archive")
		}
	}
}

func countLabel(calls []shell.Command, label string) int {
	n := 0
	for _, c := range calls {
		if c.Label == label {
			n++
		}
	}
	return n
}

func TestBuild_Debug(t *testing.T) {
	t.Parallel()

	f := newFixture(t, build.Options{Type: build.Debug, DeveloperID: " TEAM42 ", AOTJobs: 1})
	b := New(f.env)
	res, err := b.Build(context.Background())
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	l := b.Layout()

	t.Run("xcode project", func(t *testing.T) {
		if got := testutil.MustReadFile(t, l.Join("CMakeLists.txt")); got != "project(Game)\n" {
			t.Errorf("CMakeLists.txt = %q", got)
		}
		info, err := os.Stat(l.Script("cmake_ios_dotnet.sh"))
		if err != nil || info.Mode()&0o100 == 0 {
			t.Errorf("cmake script not executable: %v", err)
		}
		if !testutil.Exists(filepath.Join(l.ProjectLibs, "README")) {
			t.Error("libs/ios not copied from the SDK")
		}
		if !testutil.Exists(l.Join("Plugins", "Admob", "Admob.mm")) {
			t.Error("plugin not copied")
		}
	})

	t.Run("signing", func(t *testing.T) {
		vars := testutil.MustReadFile(t, l.EnvVars())
		if !strings.Contains(vars, "DEVELOPMENT_TEAM='TEAM42'") || strings.Contains(vars, "T_CODE_SIGN_IDENTITY") {
			t.Errorf("ios_env_vars.sh = %q", vars)
		}
		if got := testutil.MustReadFile(t, l.Build("ios.entitlements")); got != "<string>TEAM42.com.elix22.game</string>\n" {
			t.Errorf("entitlements = %q", got)
		}
	})

	t.Run("commands", func(t *testing.T) {
		for _, want := range []string{
			"plutil -remove NSUserTrackingUsageDescription " + l.Plist(),
			`plutil -replace NSUserTrackingUsageDescription -string "` + trackingUsage + `"`,
			"plutil -replace GADIsAdManagerApp -bool true",
			"plutil -replace GADApplicationIdentifier -string ca-app-pub-1~2",
			"cat libUrho3D.split.?? > ",
			"dotnet build --configuration Debug",
			"-DDEVELOPMENT_TEAM=TEAM42 -DCODE_SIGN_IDENTITY= -DPROVISIONING_PROFILE_SPECIFIER=",
			"xcodebuild -project " + l.XcodeProject("Game") + " -configuration Debug",
		} {
			if !f.runner.Ran(want) {
				t.Errorf("missing command %q", want)
			}
		}
		if f.runner.Ran("ios-deploy") {
			t.Error("deployed without --install or --debug")
		}
		calls := f.runner.Calls()
		if n := countLabel(calls, "aot-assembler"); n != 3 {
			t.Errorf("aot-assembler ran %d times, want 3", n)
		}
		for _, c := range calls {
			if c.Label == "aot-assembler" && c.Env["MONO_PATH"] != l.DotNet("ios") {
				t.Errorf("MONO_PATH = %q", c.Env["MONO_PATH"])
			}
			if c.Label == "aot-object" && !slices.Contains(c.Args, "-miphoneos-version-min="+DefaultMinIOSVersion) {
				t.Errorf("clang args = %v", c.Args)
			}
			if c.Label == "ar-objects" && c.Name != f.xcode.Ar {
				t.Errorf("ar = %q, want %q", c.Name, f.xcode.Ar)
			}
		}
	})

	t.Run("modules", func(t *testing.T) {
		if want := []string{"mscorlib", "UrhoDotNet"}; !slices.Equal(res.Closure.Names(), want) {
			t.Errorf("closure = %v, want %v", res.Closure.Names(), want)
		}
		for _, p := range []string{
			l.DotNet("ios", "mscorlib.dll"),
			l.DotNet("ios", "UrhoDotNet.dll"),
			l.DotNet("Game.dll"),
			l.Intermediate("Game.dll.o"),
			filepath.Join(l.ProjectLibs, aotArchive),
		} {
			if !testutil.Exists(p) {
				t.Errorf("missing %s", p)
			}
		}
	})

	t.Run("generated sources", func(t *testing.T) {
		header := "#ifndef IOS_AOT_MODULES_H\n#define IOS_AOT_MODULES_H\n \nextern \"C\" {\n" +
			"  extern void * mono_aot_module_mscorlib_info;\n" +
			"  extern void * mono_aot_module_UrhoDotNet_info;\n" +
			" extern void * mono_aot_module_Game_info;\n" +
			"} // extern \"C\"\n \nvoid ios_aot_register_modules();\n \n#endif\n"
		if got := testutil.MustReadFile(t, l.Join(AOTModulesHeader)); got != header {
			t.Errorf("header =\n%s\nwant\n%s", got, header)
		}
		source := testutil.MustReadFile(t, l.Join(AOTModulesSource))
		if !strings.HasSuffix(source, "  mono_aot_register_module((void **)mono_aot_module_UrhoDotNet_info);\n"+
			"  mono_aot_register_module((void **)mono_aot_module_Game_info);\n}\n") {
			t.Errorf("source =\n%s", source)
		}
		plugins := testutil.MustReadFile(t, l.Join(PluginsSource))
		for _, want := range []string{"void RegisterAdmob(Context * context);\n", "{\n  RegisterAdmob(context);\n}\n"} {
			if !strings.Contains(plugins, want) {
				t.Errorf("%s missing %q:\n%s", PluginsSource, want, plugins)
			}
		}
	})

	if want := []string{l.App("Game")}; !slices.Equal(res.Artifacts, want) {
		t.Errorf("artifacts = %v, want %v", res.Artifacts, want)
	}
}

func TestBuild_SkipsUpToDateObjects(t *testing.T) {
	t.Parallel()

	f := newFixture(t, build.Options{Type: build.Debug, DeveloperID: "TEAM42"})
	if _, err := New(f.env).Build(context.Background()); err != nil {
		t.Fatalf("first Build() error: %v", err)
	}

	second := &testutil.FakeRunner{}
	second.Respond("xcode-select", &shell.Result{Output: f.xcode.Dir}, nil)
	second.OnRun = fakeTools(t)
	f.env.Runner = second
	if _, err := New(f.env).Build(context.Background()); err != nil {
		t.Fatalf("second Build() error: %v", err)
	}
	calls := second.Calls()
	if n := countLabel(calls, "aot-assembler"); n != 0 {
		t.Errorf("aot-assembler ran %d times for unchanged modules", n)
	}
	if n := countLabel(calls, "ar-objects"); n != 1 {
		t.Errorf("ar ran %d times, want 1", n)
	}
}

func TestBuild_ReleaseMetalInstall(t *testing.T) {
	t.Parallel()

	f := newFixture(t, build.Options{Type: build.Release, DeveloperID: "TEAM42", Graphics: "metal", Install: true})
	b := New(f.env)
	if _, err := b.Build(context.Background()); err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	l := b.Layout()
	if got := testutil.MustReadFile(t, l.Join("lib", engineLib)); got != "metal-release" {
		t.Errorf("libUrho3D.a = %q", got)
	}
	if f.runner.Ran("cat libUrho3D.split") {
		t.Error("release build concatenated debug parts")
	}
	if !f.runner.Ran("ios-deploy --justlaunch --debug --bundle " + l.App("Game")) {
		t.Errorf("install missing: %v", f.runner.Lines())
	}
}

func TestBuild_TeamFromPreviousBuild(t *testing.T) {
	t.Parallel()

	f := newFixture(t, build.Options{Type: build.Debug, Debug: true})
	l := NewLayout(f.proj)
	if _, err := stage.CopyDir(filepath.Join(f.home, "template", "IOS"), l.Root, stage.Options{}); err != nil {
		t.Fatal(err)
	}
	testutil.MustWriteFile(t, l.EnvVars(),
		"export DEVELOPMENT_TEAM='ABC'\nexport CODE_SIGN_IDENTITY='iPhone Developer'\nexport PROVISIONING_PROFILE_SPECIFIER='Dev'\n")

	if _, err := New(f.env).Build(context.Background()); err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	var cmake shell.Command
	for _, c := range f.runner.Calls() {
		if c.Label == "cmake-ios" {
			cmake = c
		}
	}
	want := []string{l.Build(), "-DDEVELOPMENT_TEAM=ABC", "-DCODE_SIGN_IDENTITY=iPhone Developer", "-DPROVISIONING_PROFILE_SPECIFIER=Dev"}
	if !slices.Equal(cmake.Args, want) {
		t.Errorf("cmake args = %v, want %v", cmake.Args, want)
	}
	if !f.runner.Ran("ios-deploy --debug --bundle") || f.runner.Ran("--justlaunch") {
		t.Errorf("debug deploy missing: %v", f.runner.Lines())
	}
}

func TestBuild_Failures(t *testing.T) {
	t.Parallel()

	t.Run("host", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, build.Options{Type: build.Debug, DeveloperID: "T"})
		f.env.GOOS = "linux"
		_, err := New(f.env).Build(context.Background())
		var he *platform.HostNotSupportedError
		if !errors.As(err, &he) || he.Host != "linux" {
			t.Errorf("error = %v, want HostNotSupportedError", err)
		}
		if len(f.runner.Calls()) != 0 {
			t.Error("commands ran on an unsupported host")
		}
	})

	t.Run("no team", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, build.Options{Type: build.Debug})
		if _, err := New(f.env).Build(context.Background()); !errors.Is(err, ErrNoDevelopmentTeam) {
			t.Errorf("error = %v, want ErrNoDevelopmentTeam", err)
		}
	})

	t.Run("missing tools", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, build.Options{Type: build.Debug, DeveloperID: "T"})
		f.env.LookPath = func(name string) (string, error) {
			if name == "ios-deploy" || name == "cmake" {
				return "", errors.New("not found")
			}
			return "/usr/bin/" + name, nil
		}
		_, err := New(f.env).Build(context.Background())
		var me *shell.MissingToolsError
		if !errors.As(err, &me) || !slices.Equal(me.Tools, []string{"cmake", "ios-deploy"}) {
			t.Errorf("error = %v, want cmake and ios-deploy missing", err)
		}
	})

	t.Run("clang missing", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, build.Options{Type: build.Debug, DeveloperID: "T"})
		testutil.MustRemoveAll(t, f.xcode.Clang)
		_, err := New(f.env).Build(context.Background())
		var xe *XcodeToolError
		if !errors.As(err, &xe) || xe.Tool != "clang" || !errors.Is(err, ErrXcodeNotFound) {
			t.Errorf("error = %v, want missing clang", err)
		}
	})

	t.Run("aot failure", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, build.Options{Type: build.Debug, DeveloperID: "T"})
		f.runner.Respond("UrhoDotNet.dll.s", &shell.Result{ExitCode: 1, Output: "Mono Warning: unsupported"}, nil)
		_, err := New(f.env).Build(context.Background())
		if !errors.Is(err, shell.ErrCommandFailed) || !strings.Contains(err.Error(), "aot UrhoDotNet.dll") {
			t.Errorf("error = %v, want AOT failure for UrhoDotNet.dll", err)
		}
		if f.runner.Ran("xcodebuild") {
			t.Error("xcodebuild ran after AOT failed")
		}
	})
}

func TestCompile_KeepsModuleOrder(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	var modules []string
	for _, name := range []string{"a.dll", "b.dll", "c.dll", "d.dll", "e.dll"} {
		p := filepath.Join(dir, name)
		testutil.MustWriteFile(t, p, name)
		modules = append(modules, p)
	}
	proj := project.New(dir, dir, project.NewVars())
	runner := &testutil.FakeRunner{OnRun: fakeTools(t)}
	c := &Compiler{
		env:   &build.Env{Project: proj, Tools: &toolchain.Tools{AOTCompiler: "mono-sgen"}, Runner: runner},
		xcode: NewXcode("/xcode"),
		Dir:   filepath.Join(dir, "obj"),
		Jobs:  3,
	}
	objs, err := c.Compile(context.Background(), modules)
	if err != nil {
		t.Fatalf("Compile() error: %v", err)
	}
	for i, o := range objs {
		if o.Module != modules[i] || o.Path != c.ObjectPath(modules[i]) || o.Skipped {
			t.Errorf("objs[%d] = %+v", i, o)
		}
	}
	if n := countLabel(runner.Calls(), "aot-object"); n != len(modules) {
		t.Errorf("clang ran %d times, want %d", n, len(modules))
	}
}

func TestAOTSymbol(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"mscorlib.dll":             "mscorlib",
		"/x/System.Runtime.dll":    "System_Runtime",
		"Game.dll":                 "Game",
		"Newtonsoft.Json":          "Newtonsoft_Json",
		"Microsoft.CSharp.dll":     "Microsoft_CSharp",
		"System.Net.Http.Json.dll": "System_Net_Http_Json",
	}
	for in, want := range tests {
		if got := AOTSymbol(in); got != want {
			t.Errorf("AOTSymbol(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestResolveTeam(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "ios_env_vars.sh")

	if _, err := ResolveTeam("", path); !errors.Is(err, ErrNoDevelopmentTeam) {
		t.Errorf("missing file: error = %v", err)
	}
	got, err := ResolveTeam(" XYZ ", path)
	if err != nil || got != (Team{DevelopmentTeam: "XYZ"}) {
		t.Errorf("explicit id = %+v, %v", got, err)
	}

	testutil.MustWriteFile(t, path, "export DEVELOPMENT_TEAM=''\n")
	if _, err := ResolveTeam("", path); !errors.Is(err, ErrNoDevelopmentTeam) {
		t.Errorf("empty team: error = %v", err)
	}

	testutil.MustWriteFile(t, path, "export DEVELOPMENT_TEAM='ABC'\nexport PROVISIONING_PROFILE_SPECIFIER='Dev'\n")
	got, err = ResolveTeam("", path)
	if err != nil || got != (Team{DevelopmentTeam: "ABC", ProvisioningProfile: "Dev"}) {
		t.Errorf("from file = %+v, %v", got, err)
	}
}
