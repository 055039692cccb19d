package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	// Physics defaults
	assert.Equal(t, 2000, cfg.Physics.StepRate)
	assert.Equal(t, 100, cfg.Physics.DebugStepRate)
	assert.Equal(t, 100, cfg.Physics.MaxStepsPerTick)
	assert.Equal(t, 30, cfg.Physics.Iterations)
	assert.Equal(t, 1900.0, cfg.Physics.Density)
	assert.Equal(t, [3]float64{}, cfg.Physics.Gravity)
	assert.Equal(t, 1.0, cfg.Physics.LinearDamping)
	assert.Equal(t, 1.0, cfg.Physics.AngularDamping)
	assert.Equal(t, 0.2, cfg.Physics.JointERP)
	assert.True(t, cfg.Physics.Floor)
	assert.Equal(t, 4.0, cfg.Physics.FloorSize)
	assert.Equal(t, 100.0, cfg.Physics.FloorHeight)

	// Pinpoint defaults
	assert.Equal(t, 0.5, cfg.Pinpoint.CFM)
	assert.Equal(t, 0.1, cfg.Pinpoint.ERP)

	// Skeleton defaults to the built-in humanoid
	assert.Empty(t, cfg.Skeleton.Path)
	assert.False(t, cfg.Skeleton.Watch)

	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Empty(t, cfg.Logging.LogFile)
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "rig.yaml")

	yamlContent := `
physics:
  step_rate: 500
  iterations: 10
  gravity: [0, 0, -9.81]
  floor: false

pinpoint:
  cfm: 0.25

skeleton:
  path: "skeletons/robot.yaml"
  watch: true

logging:
  level: "debug"
  log_file: "rig.log"
`
	require.NoError(t, os.WriteFile(configPath, []byte(yamlContent), 0644))

	cfg := Default()
	require.NoError(t, loadFromFile(cfg, configPath))

	assert.Equal(t, 500, cfg.Physics.StepRate)
	assert.Equal(t, 10, cfg.Physics.Iterations)
	assert.Equal(t, [3]float64{0, 0, -9.81}, cfg.Physics.Gravity)
	assert.False(t, cfg.Physics.Floor)
	assert.Equal(t, 0.25, cfg.Pinpoint.CFM)
	assert.Equal(t, "skeletons/robot.yaml", cfg.Skeleton.Path)
	assert.True(t, cfg.Skeleton.Watch)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "rig.log", cfg.Logging.LogFile)

	// Untouched values keep their defaults
	assert.Equal(t, 1900.0, cfg.Physics.Density)
	assert.Equal(t, 0.1, cfg.Pinpoint.ERP)
}

func TestLoadFromFileInvalid(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	invalidYAML := `
physics:
  step_rate: not a number
  invalid syntax here
`
	require.NoError(t, os.WriteFile(configPath, []byte(invalidYAML), 0644))

	cfg := Default()
	assert.Error(t, loadFromFile(cfg, configPath))
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	assert.Error(t, loadFromFile(cfg, "/nonexistent/path/rig.yaml"))
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()

	// Actual path depends on OS
	require.NotEmpty(t, dir)
	assert.True(t, filepath.IsAbs(dir), "ConfigDir should return absolute path, got %s", dir)
}

func TestFindConfigFile(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	assert.Empty(t, findConfigFile(), "no config exists yet")

	require.NoError(t, os.WriteFile("rig.yaml", []byte("physics:\n  step_rate: 800\n"), 0644))
	assert.NotEmpty(t, findConfigFile())

	cfg, err := LoadFrom("")
	require.NoError(t, err)
	assert.Equal(t, 800, cfg.Physics.StepRate)
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name     string
		setup    func()
		verify   func(*testing.T, *Config)
		teardown func()
	}{
		{
			name:  "debug flag",
			setup: func() { *flagDebug = true },
			verify: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "debug", cfg.Logging.Level)
				assert.Equal(t, 100, cfg.Rig().StepRate, "debug runs at the slow step rate")
			},
			teardown: func() { *flagDebug = false },
		},
		{
			name:  "skeleton flag",
			setup: func() { *flagSkeleton = "robot.yaml" },
			verify: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "robot.yaml", cfg.Skeleton.Path)
			},
			teardown: func() { *flagSkeleton = "" },
		},
		{
			name: "step rate flag wins over debug",
			setup: func() {
				*flagDebug = true
				*flagStepRate = 400
			},
			verify: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 400, cfg.Rig().StepRate)
			},
			teardown: func() {
				*flagDebug = false
				*flagStepRate = 0
			},
		},
		{
			name:  "log file flag",
			setup: func() { *flagLogFile = "out.log" },
			verify: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "out.log", cfg.Logging.LogFile)
			},
			teardown: func() { *flagLogFile = "" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			defer tt.teardown()

			cfg := Default()
			applyFlags(cfg)
			tt.verify(t, cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "rig.yaml")

	yamlContent := `
physics:
  step_rate: 1000
  iterations: 12
`
	require.NoError(t, os.WriteFile(configPath, []byte(yamlContent), 0644))

	// Flag overrides the file
	*flagConfig = configPath
	*flagStepRate = 3000
	defer func() {
		*flagConfig = ""
		*flagStepRate = 0
	}()

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 3000, cfg.Physics.StepRate, "step rate from flag")
	assert.Equal(t, 12, cfg.Physics.Iterations, "iterations from file")
}

func TestRigMapping(t *testing.T) {
	cfg := Default()
	cfg.Physics.Gravity = [3]float64{0, 0, -9.81}
	cfg.Pinpoint.CFM = 0.3

	rc := cfg.Rig()
	assert.Equal(t, 2000, rc.StepRate)
	assert.Equal(t, 100, rc.MaxStepsPerTick)
	assert.Equal(t, mgl64.Vec3{0, 0, -9.81}, rc.Gravity)
	assert.Equal(t, 0.3, rc.Pinpoint.CFM)
	assert.Equal(t, 0.1, rc.Pinpoint.ERP)
	assert.True(t, rc.Floor)
}

func TestSaveTo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "rig.yaml")

	cfg := Default()
	cfg.Physics.Iterations = 7
	cfg.Skeleton.Path = "robot.yaml"
	require.NoError(t, cfg.SaveTo(path))

	loaded, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
