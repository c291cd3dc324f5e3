// Zaparoo Romfile
// Copyright (c) 2026 The Zaparoo Project Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of Zaparoo Romfile.
//
// Zaparoo Romfile is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Zaparoo Romfile is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Zaparoo Romfile.  If not, see <http://www.gnu.org/licenses/>.

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/ZaparooProject/romfile/pkg/helpers/syncutil"
	"github.com/adrg/xdg"
	"github.com/go-playground/validator/v10"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

const (
	SchemaVersion = 1
	CfgEnv        = "ROMFILE_CFG"
	AppName       = "romfile"
	CfgFile       = "config.toml"
	DBFile        = "romfile.db"
	LogFile       = "romfile.log"
)

var (
	ErrSchemaMismatch = errors.New("schema version mismatch")
	ErrPathNotSet     = errors.New("config path not set")
)

type Values struct {
	Database     Database   `toml:"database"`
	Platforms    []Platform `toml:"platforms,omitempty" validate:"unique=ID,dive"`
	Scan         Scan       `toml:"scan"`
	ConfigSchema int        `toml:"config_schema"`
	DebugLogging bool       `toml:"debug_logging"`
}

type Database struct {
	// Path of the catalogue file. Empty means romfile.db in DataDir.
	Path string `toml:"path,omitempty"`
}

type Scan struct {
	Extensions     []string `toml:"extensions,omitempty,multiline" validate:"dive,required"`
	Workers        int      `toml:"workers,omitempty" validate:"gte=0,lte=256"`
	Archives       bool     `toml:"archives"`
	FollowSymlinks bool     `toml:"follow_symlinks"`
}

// Platform maps an opaque platform ID to the folders its ROMs live in.
type Platform struct {
	ID         string   `toml:"id" validate:"required"`
	Folders    []string `toml:"folders" validate:"required,min=1,dive,required"`
	Extensions []string `toml:"extensions,omitempty" validate:"dive,required"`
}

var BaseDefaults = Values{
	ConfigSchema: SchemaVersion,
	Scan: Scan{
		Archives: true,
	},
}

var validate = validator.New(validator.WithRequiredStructEnabled())

type Instance struct {
	fs       afero.Fs
	cfgPath  string
	vals     Values
	defaults Values
	mu       syncutil.RWMutex
}

// NewConfig loads the config file from configDir, or from the path in the
// ROMFILE_CFG environment variable, writing defaults first if it does not
// exist.
//
//nolint:gocritic // config struct copied for immutability
func NewConfig(fs afero.Fs, configDir string, defaults Values) (*Instance, error) {
	cfgPath := os.Getenv(CfgEnv)
	log.Debug().Msgf("env config path: %s", cfgPath)

	if cfgPath == "" {
		cfgPath = filepath.Join(configDir, CfgFile)
	}

	cfg := Instance{
		fs:       fs,
		cfgPath:  cfgPath,
		vals:     defaults,
		defaults: defaults,
	}

	exists, err := afero.Exists(fs, cfgPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if !exists {
		log.Info().Msg("saving new default config to disk")

		if err := fs.MkdirAll(filepath.Dir(cfgPath), 0o750); err != nil {
			return nil, fmt.Errorf("failed to create config directory: %w", err)
		}

		if err := cfg.Save(); err != nil {
			return nil, err
		}
	}

	if err := cfg.Load(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Instance) Path() string {
	return c.cfgPath
}

func (c *Instance) Load() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cfgPath == "" {
		return ErrPathNotSet
	}

	data, err := afero.ReadFile(c.fs, c.cfgPath)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	// Fields missing from the file keep their default values.
	newVals := c.defaults
	newVals.Scan.Extensions = slices.Clone(c.defaults.Scan.Extensions)
	newVals.Platforms = slices.Clone(c.defaults.Platforms)
	if err := toml.Unmarshal(data, &newVals); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if newVals.ConfigSchema != SchemaVersion {
		log.Error().Msgf(
			"schema version mismatch: got %d, expecting %d",
			newVals.ConfigSchema,
			SchemaVersion,
		)
		return fmt.Errorf("%w: got %d, expecting %d", ErrSchemaMismatch, newVals.ConfigSchema, SchemaVersion)
	}

	if err := validate.Struct(&newVals); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	c.vals = newVals
	return nil
}

func (c *Instance) Save() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cfgPath == "" {
		return ErrPathNotSet
	}

	c.vals.ConfigSchema = SchemaVersion

	data, err := toml.Marshal(&c.vals)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := afero.WriteFile(c.fs, c.cfgPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func (c *Instance) DebugLogging() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.DebugLogging
}

func (c *Instance) SetDebugLogging(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.DebugLogging = enabled
	if enabled {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

// DatabasePath returns the configured catalogue path, falling back to
// romfile.db in DataDir.
func (c *Instance) DatabasePath() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.vals.Database.Path != "" {
		return c.vals.Database.Path
	}
	return filepath.Join(DataDir(), DBFile)
}

func (c *Instance) SetDatabasePath(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.Database.Path = path
}

// ScanSettings returns a copy of the global scan settings.
func (c *Instance) ScanSettings() Scan {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s := c.vals.Scan
	s.Extensions = slices.Clone(s.Extensions)
	return s
}

func (c *Instance) SetScanSettings(s Scan) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s.Extensions = slices.Clone(s.Extensions)
	c.vals.Scan = s
}

// Platforms returns a copy of the configured platforms.
func (c *Instance) Platforms() []Platform {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Platform, len(c.vals.Platforms))
	for i, p := range c.vals.Platforms {
		out[i] = Platform{
			ID:         p.ID,
			Folders:    slices.Clone(p.Folders),
			Extensions: slices.Clone(p.Extensions),
		}
	}
	return out
}

// LookupPlatform finds a configured platform by ID, ignoring case.
func (c *Instance) LookupPlatform(id string) (Platform, bool) {
	for _, p := range c.Platforms() {
		if strings.EqualFold(p.ID, id) {
			return p, true
		}
	}
	return Platform{}, false
}

// SetPlatform adds a platform or replaces the one with the same ID.
//
//nolint:gocritic // platform struct copied for immutability
func (c *Instance) SetPlatform(p Platform) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p.Folders = slices.Clone(p.Folders)
	p.Extensions = slices.Clone(p.Extensions)
	for i := range c.vals.Platforms {
		if strings.EqualFold(c.vals.Platforms[i].ID, p.ID) {
			c.vals.Platforms[i] = p
			return
		}
	}
	c.vals.Platforms = append(c.vals.Platforms, p)
}

// ConfigDir is where the config file lives when ROMFILE_CFG is not set.
func ConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// DataDir is where the catalogue lives by default.
func DataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// LogDir is where the rotating log file is written.
func LogDir() string {
	return filepath.Join(xdg.StateHome, AppName)
}
