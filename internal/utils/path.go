package utils

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/charmbracelet/log"
)

const (
	appDirName      = "ngramserve"
	historyFileName = "history"
)

// PathResolver locates the per-user directory holding the config file and
// the shell history.
type PathResolver struct {
	executableDir string
	homeDir       string
	configDir     string
}

// NewPathResolver resolves the executable and the user's home directory.
func NewPathResolver() (*PathResolver, error) {
	execPath, err := os.Executable()
	if err != nil {
		return nil, err
	}
	if execPath, err = filepath.EvalSymlinks(execPath); err != nil {
		return nil, err
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Warnf("Could not determine home directory: %v", err)
		homeDir = os.TempDir()
	}

	pr := newPathResolver(execPath, homeDir)
	log.Debugf("PathResolver initialized: execDir=%s, configDir=%s", pr.executableDir, pr.configDir)
	return pr, nil
}

func newPathResolver(execPath, homeDir string) *PathResolver {
	return &PathResolver{
		executableDir: filepath.Dir(execPath),
		homeDir:       homeDir,
		configDir:     userConfigDir(homeDir),
	}
}

// userConfigDir follows XDG on unix-likes, including macOS, and APPDATA on windows.
func userConfigDir(homeDir string) string {
	if runtime.GOOS == "windows" {
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, appDirName)
		}
		return filepath.Join(homeDir, "AppData", "Roaming", appDirName)
	}
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appDirName)
	}
	return filepath.Join(homeDir, ".config", appDirName)
}

// GetConfigPath returns the path of filename inside the first writable
// candidate directory: the user config dir, ~/.ngramserve, the temp dir,
// then the directory of the executable.
func (pr *PathResolver) GetConfigPath(filename string) (string, error) {
	candidates := []string{
		pr.configDir,
		filepath.Join(pr.homeDir, "."+appDirName),
		filepath.Join(os.TempDir(), appDirName),
		pr.executableDir,
	}
	for i, dir := range candidates {
		if !writableDir(dir) {
			continue
		}
		if i > 0 {
			log.Warnf("Using fallback config location: %s", dir)
		}
		pr.configDir = dir
		return filepath.Join(dir, filename), nil
	}

	tempPath := filepath.Join(os.TempDir(), filename)
	log.Warnf("No writable config directory, using %s", tempPath)
	return tempPath, nil
}

// GetHistoryPath returns the shell history file next to the config file.
// Call it after GetConfigPath so fallbacks apply to both.
func (pr *PathResolver) GetHistoryPath() string {
	return filepath.Join(pr.configDir, historyFileName)
}

func writableDir(dir string) bool {
	if err := EnsureDir(dir); err != nil {
		log.Debugf("Cannot create directory %s: %v", dir, err)
		return false
	}
	probe, err := os.CreateTemp(dir, ".write_test*")
	if err != nil {
		log.Debugf("Directory %s is not writable: %v", dir, err)
		return false
	}
	probe.Close()
	os.Remove(probe.Name())
	return true
}
