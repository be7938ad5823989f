package domain

import (
	"errors"
	"fmt"
	"path"
	"strings"
)

var ErrUnsupportedPlatform = errors.New("unsupported platform")

const (
	PlatformDarwin  = "darwin"
	PlatformWindows = "windows"
	PlatformLinux   = "linux"

	EnvScriptAPI  = "RESOLVE_SCRIPT_API"
	EnvScriptLib  = "RESOLVE_SCRIPT_LIB"
	EnvPythonPath = "PYTHONPATH"
)

const (
	darwinModules     = "/Library/Application Support/Blackmagic Design/DaVinci Resolve/Developer/Scripting/Modules/"
	linuxModules      = "/opt/resolve/Developer/Scripting/Modules/"
	defaultProgramDir = `C:\ProgramData`
)

// ModuleLocation is where the host's scripting module lives on one platform
// and the environment the bridge needs to load it.
type ModuleLocation struct {
	Platform    string
	ModulesPath string
	ScriptAPI   string
	ScriptLib   string
	PythonPath  string
}

// Env renders the location as KEY=value pairs for the bridge process.
func (l ModuleLocation) Env() []string {
	return []string{
		EnvScriptAPI + "=" + l.ScriptAPI,
		EnvScriptLib + "=" + l.ScriptLib,
		EnvPythonPath + "=" + l.PythonPath,
	}
}

// ResolveModuleLocation maps a platform identifier onto the scripting module
// path. Values already present in the environment take precedence.
func ResolveModuleLocation(platform string, getenv func(string) string) (ModuleLocation, error) {
	if getenv == nil {
		getenv = func(string) string { return "" }
	}
	var modules, lib, listSep string
	switch platform {
	case PlatformDarwin, PlatformLinux:
		modules = linuxModules
		if platform == PlatformDarwin {
			modules = darwinModules
		}
		lib = path.Join(modules, "..", "Libraries")
		listSep = ":"
	case PlatformWindows:
		programData := getenv("PROGRAMDATA")
		if programData == "" {
			programData = defaultProgramDir
		}
		base := strings.Join([]string{strings.TrimRight(programData, `\`), "Blackmagic Design", "DaVinci Resolve", "Support", "Developer", "Scripting"}, `\`)
		modules = base + `\Modules`
		lib = base + `\Libraries`
		listSep = ";"
	default:
		return ModuleLocation{}, fmt.Errorf("%w: %q", ErrUnsupportedPlatform, platform)
	}

	loc := ModuleLocation{
		Platform:    platform,
		ModulesPath: modules,
		ScriptAPI:   modules,
		ScriptLib:   lib,
		PythonPath:  modules,
	}
	if v := getenv(EnvScriptAPI); v != "" {
		loc.ScriptAPI = v
	}
	if v := getenv(EnvScriptLib); v != "" {
		loc.ScriptLib = v
	}
	if existing := getenv(EnvPythonPath); existing != "" {
		loc.PythonPath = modules + listSep + existing
	}
	return loc, nil
}
