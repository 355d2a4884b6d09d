// SPDX-License-Identifier: MPL-2.0

package ios

import (
	"errors"
	"fmt"
	"strings"

	"github.com/urhonet/cooker/internal/project"
	"github.com/urhonet/cooker/internal/stage"
)

// Keys of ios_env_vars.sh.
const (
	KeyDevelopmentTeam     = "DEVELOPMENT_TEAM"
	KeyCodeSignIdentity    = "CODE_SIGN_IDENTITY"
	KeyProvisioningProfile = "PROVISIONING_PROFILE_SPECIFIER"
)

// Team is the code signing configuration handed to cmake.
type Team struct {
	DevelopmentTeam     string
	CodeSignIdentity    string
	ProvisioningProfile string
}

// ResolveTeam returns the signing settings. An explicit developer ID wins;
// otherwise envVarsPath, written by an earlier build, is read.
func ResolveTeam(developerID, envVarsPath string) (Team, error) {
	if id := strings.TrimSpace(developerID); id != "" {
		return Team{DevelopmentTeam: id}, nil
	}
	if !stage.Exists(envVarsPath) {
		return Team{}, ErrNoDevelopmentTeam
	}
	vars, err := project.LoadVars(envVarsPath)
	if err != nil {
		if errors.Is(err, project.ErrVarsNotFound) {
			return Team{}, ErrNoDevelopmentTeam
		}
		return Team{}, err
	}
	t := Team{
		DevelopmentTeam:     vars.Get(KeyDevelopmentTeam),
		CodeSignIdentity:    vars.Get(KeyCodeSignIdentity),
		ProvisioningProfile: vars.Get(KeyProvisioningProfile),
	}
	if t.DevelopmentTeam == "" {
		return Team{}, fmt.Errorf("%w: %s has no %s", ErrNoDevelopmentTeam, envVarsPath, KeyDevelopmentTeam)
	}
	return t, nil
}

// CMakeArgs returns the -D definitions for cmake_ios_dotnet.sh.
func (t Team) CMakeArgs() []string {
	return []string{
		"-D" + KeyDevelopmentTeam + "=" + t.DevelopmentTeam,
		"-D" + KeyCodeSignIdentity + "=" + t.CodeSignIdentity,
		"-D" + KeyProvisioningProfile + "=" + t.ProvisioningProfile,
	}
}
