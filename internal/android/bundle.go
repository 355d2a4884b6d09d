// SPDX-License-Identifier: MPL-2.0

package android

import (
	"context"
	"os"
	"path/filepath"

	"github.com/urhonet/cooker/internal/shell"
	"github.com/urhonet/cooker/internal/stage"
)

// bundle runs gradle and collects the bundle into <project>/output/Android.
func (b *Builder) bundle(ctx context.Context) error {
	t := b.env.Options.Type
	gradlew := filepath.Join(b.layout.Root, "gradlew")
	if err := os.Chmod(gradlew, 0o755); err != nil && !os.IsNotExist(err) {
		return err
	}
	args := append([]string{t.Gradle()}, b.env.Options.GradleArgs...)
	if _, err := b.env.Run(ctx, shell.Command{
		Label: "gradle",
		Name:  gradlew,
		Args:  args,
		Dir:   b.layout.Root,
	}); err != nil {
		return err
	}

	if err := stage.MkdirAll(b.layout.ProjectOutput); err != nil {
		return err
	}
	for _, signed := range []bool{false, true} {
		name := BundleName(t, signed)
		for _, ext := range []string{".aab", ".apks"} {
			if err := stage.RemoveFile(filepath.Join(b.layout.ProjectOutput, name+ext)); err != nil {
				return err
			}
		}
	}
	dst := filepath.Join(b.layout.ProjectOutput, BundleName(t, false)+".aab")
	if err := stage.CopyFile(b.layout.GradleBundle(t), dst); err != nil {
		return err
	}
	b.result.Artifacts = append(b.result.Artifacts, dst)
	b.env.Log().Info("bundle ready", "path", dst)
	return nil
}

// sign signs the collected bundle with jarsigner, generating the keystore
// with keytool when it does not exist yet.
func (b *Builder) sign(ctx context.Context) error {
	p := b.env.Project
	ks, err := ResolveKeystore(p.Path, b.env.Options.KeyStore)
	if err != nil {
		return err
	}
	if err := stage.MkdirAll(ks.Dir); err != nil {
		return err
	}
	if !stage.Exists(ks.Path()) {
		b.env.Log().Info("generating keystore", "path", ks.Path())
		if _, err := b.env.Run(ctx, shell.Command{
			Label: "keytool",
			Name:  b.env.Tools.Keytool,
			Args: []string{
				"-genkey", "-v",
				"-storepass", KeystorePassword,
				"-keypass", KeystorePassword,
				"-keystore", ks.Name,
				"-keyalg", "RSA",
				"-keysize", "2048",
				"-validity", "10000",
				"-alias", KeyAlias,
				"-dname", "CN=" + p.Name,
			},
			Dir: ks.Dir,
		}); err != nil {
			return err
		}
	}

	t := b.env.Options.Type
	in := filepath.Join(b.layout.ProjectOutput, BundleName(t, false)+".aab")
	out := filepath.Join(b.layout.ProjectOutput, BundleName(t, true)+".aab")
	if _, err := b.env.Run(ctx, shell.Command{
		Label: "jarsigner",
		Name:  b.env.Tools.Jarsigner,
		Args:  []string{"-keystore", ks.Path(), "-storepass", KeystorePassword, in, "-signedjar", out, KeyAlias},
		Dir:   ks.Dir,
	}); err != nil {
		return err
	}
	b.signed = true
	b.result.Artifacts = append(b.result.Artifacts, out)
	return nil
}

// install builds device-specific APKs with bundletool, replaces any
// installed copy and launches the game.
func (b *Builder) install(ctx context.Context) error {
	p := b.env.Project
	tools := b.env.Tools
	name := BundleName(b.env.Options.Type, b.signed)
	bundle := filepath.ToSlash(filepath.Join("output", "Android", name+".aab"))
	apks := filepath.ToSlash(filepath.Join("output", "Android", name+".apks"))

	buildArgs := []string{"-jar", tools.Bundletool, "build-apks", "--connected-device", "--bundle=" + bundle, "--output=" + apks}
	if b.signed {
		ks, err := ResolveKeystore(p.Path, b.env.Options.KeyStore)
		if err != nil {
			return err
		}
		buildArgs = append(buildArgs,
			"--ks="+ks.Path(),
			"--ks-pass=pass:"+KeystorePassword,
			"--ks-key-alias="+KeyAlias,
			"--key-pass=pass:"+KeystorePassword,
		)
	}
	if _, err := b.env.Run(ctx, shell.Command{Label: "bundletool", Name: tools.Java, Args: buildArgs, Dir: p.Path}); err != nil {
		return err
	}

	// Either may fail when the game is not installed yet.
	b.env.Try(ctx, shell.Command{Label: "adb", Name: tools.Adb, Args: []string{"shell", "am", "force-stop", p.UUID}, Dir: p.Path})
	b.env.Try(ctx, shell.Command{Label: "adb", Name: tools.Adb, Args: []string{"uninstall", p.UUID}, Dir: p.Path})

	if _, err := b.env.Run(ctx, shell.Command{
		Label: "bundletool",
		Name:  tools.Java,
		Args:  []string{"-jar", tools.Bundletool, "install-apks", "--apks=" + apks},
		Dir:   p.Path,
	}); err != nil {
		return err
	}
	_, err := b.env.Run(ctx, shell.Command{
		Label: "adb",
		Name:  tools.Adb,
		Args:  []string{"shell", "am", "start", "-n", p.UUID + "/.MainActivity"},
		Dir:   p.Path,
	})
	return err
}
