// Package config resolves the shadowgate home layout and the optional
// settings document at <home>/.shadowgate/config.yaml.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	apperrors "shadowgate/internal/platform/errors"
)

// DataDir is the directory created inside the home for state, logs and the database.
const DataDir = ".shadowgate"

const (
	SourceScan   = "scan"
	SourceConfig = "config"

	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

type GatesSettings struct {
	Source     string `yaml:"source" validate:"oneof=scan config"`
	Root       string `yaml:"root" validate:"required"`
	ConfigFile string `yaml:"config_file" validate:"required"`
}

type WorkspaceSettings struct {
	Dir string `yaml:"dir" validate:"required"`
}

type GraderSettings struct {
	Script  string        `yaml:"script" validate:"required,excludesall=/"`
	Shell   string        `yaml:"shell" validate:"required"`
	Timeout time.Duration `yaml:"timeout" validate:"min=0"`
}

type ProgressionSettings struct {
	LevelThreshold  int `yaml:"level_threshold" validate:"min=1"`
	DefaultReward   int `yaml:"default_reward" validate:"min=0"`
	CurrencyDivisor int `yaml:"currency_divisor" validate:"min=1"`
	SuccessFatigue  int `yaml:"success_fatigue" validate:"min=0"`
	FailureFatigue  int `yaml:"failure_fatigue" validate:"min=0"`
}

type DailySettings struct {
	Quests             []string      `yaml:"quests" validate:"dive,required"`
	PenaltyCommand     string        `yaml:"penalty_command"`
	PenaltyTimeout     time.Duration `yaml:"penalty_timeout" validate:"min=0"`
	PenaltyInteractive bool          `yaml:"penalty_interactive"`
}

type StorageSettings struct {
	Backend string `yaml:"backend" validate:"oneof=file sqlite"`
}

type LogSettings struct {
	Level string `yaml:"level" validate:"omitempty,oneof=trace debug info warn error off"`
	JSON  bool   `yaml:"json"`
	File  bool   `yaml:"file"`
}

// Settings models .shadowgate/config.yaml. Relative paths are resolved
// against the home directory after loading.
type Settings struct {
	PlayerName  string              `yaml:"player_name" validate:"required"`
	Gates       GatesSettings       `yaml:"gates"`
	Workspace   WorkspaceSettings   `yaml:"workspace"`
	Grader      GraderSettings      `yaml:"grader"`
	Progression ProgressionSettings `yaml:"progression"`
	Daily       DailySettings       `yaml:"daily"`
	Storage     StorageSettings     `yaml:"storage"`
	Log         LogSettings         `yaml:"log"`
}

func DefaultSettings() Settings {
	return Settings{
		PlayerName: "Hunter",
		Gates: GatesSettings{
			Source:     SourceScan,
			Root:       ".subjects",
			ConfigFile: filepath.Join("config", "gates.json"),
		},
		Workspace: WorkspaceSettings{Dir: "current_dungeon"},
		Grader:    GraderSettings{Script: "tester.sh", Shell: "bash"},
		Progression: ProgressionSettings{
			LevelThreshold:  500,
			DefaultReward:   100,
			CurrencyDivisor: 10,
			SuccessFatigue:  5,
			FailureFatigue:  10,
		},
		Daily: DailySettings{
			Quests:             []string{"100 push-ups", "100 sit-ups", "100 squats", "10km run"},
			PenaltyCommand:     filepath.Join("exercises", "penalty_quest"),
			PenaltyInteractive: true,
		},
		Storage: StorageSettings{Backend: BackendFile},
		Log:     LogSettings{Level: "info", File: true},
	}
}

type Config struct {
	Home         string
	StateDir     string
	SettingsPath string
	DBPath       string
	LogPath      string
	ActivePath   string
	Settings     Settings
}

// New resolves the layout under home and loads the settings file when it
// exists. A missing settings file yields DefaultSettings.
func New(home string) (Config, error) {
	if home == "" {
		return Config{}, fmt.Errorf("%w: home path is required", apperrors.ErrInvalidInput)
	}
	abs, err := filepath.Abs(home)
	if err != nil {
		return Config{}, fmt.Errorf("resolve home: %w", err)
	}
	stateDir := filepath.Join(abs, DataDir)
	cfg := Config{
		Home:         abs,
		StateDir:     stateDir,
		SettingsPath: filepath.Join(stateDir, "config.yaml"),
		DBPath:       filepath.Join(stateDir, "shadowgate.db"),
		LogPath:      filepath.Join(stateDir, "logs", "shadowgate.log"),
		ActivePath:   filepath.Join(stateDir, "active-dungeon.json"),
	}
	settings, err := LoadSettings(cfg.SettingsPath)
	if err != nil {
		return Config{}, err
	}
	settings.Gates.Root = cfg.Resolve(settings.Gates.Root)
	settings.Gates.ConfigFile = cfg.Resolve(settings.Gates.ConfigFile)
	settings.Workspace.Dir = cfg.Resolve(settings.Workspace.Dir)
	if settings.Daily.PenaltyCommand != "" {
		settings.Daily.PenaltyCommand = cfg.Resolve(settings.Daily.PenaltyCommand)
	}
	cfg.Settings = settings
	return cfg, nil
}

// Resolve makes a settings path absolute relative to the home directory.
func (c Config) Resolve(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.Home, path)
}

// LoadSettings overlays the YAML document at path onto DefaultSettings and
// validates the result.
func LoadSettings(path string) (Settings, error) {
	settings := DefaultSettings()
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return settings, nil
		}
		return Settings{}, fmt.Errorf("read settings: %w", err)
	}
	if err := yaml.Unmarshal(raw, &settings); err != nil {
		return Settings{}, fmt.Errorf("%w: parse %s: %v", apperrors.ErrInvalidConfig, path, err)
	}
	if err := settings.Validate(); err != nil {
		return Settings{}, err
	}
	return settings, nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func (s Settings) Validate() error {
	if err := validate.Struct(s); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			first := verrs[0]
			return fmt.Errorf("%w: %s failed %q", apperrors.ErrInvalidConfig, first.Namespace(), first.Tag())
		}
		return fmt.Errorf("%w: %v", apperrors.ErrInvalidConfig, err)
	}
	return nil
}

// DefaultSettingsYAML renders the defaults as a commented starting document.
func DefaultSettingsYAML() ([]byte, error) {
	raw, err := yaml.Marshal(DefaultSettings())
	if err != nil {
		return nil, fmt.Errorf("marshal default settings: %w", err)
	}
	return append([]byte("# shadowgate settings\n"), raw...), nil
}
