package gcp

import (
	"fmt"
	"net/url"
	"strings"
)

// ObjectStorageMode selects real GCS or a fake-gcs-server emulator.
type ObjectStorageMode string

const (
	ObjectStorageModeGCS         ObjectStorageMode = "gcs"
	ObjectStorageModeGCSEmulator ObjectStorageMode = "gcs_emulator"
)

func (m ObjectStorageMode) Valid() bool {
	return m == ObjectStorageModeGCS || m == ObjectStorageModeGCSEmulator
}

func (m ObjectStorageMode) Emulated() bool { return m == ObjectStorageModeGCSEmulator }

type ObjectStorageConfig struct {
	Mode         ObjectStorageMode
	EmulatorHost string
	// ModeInferred is set when no mode was configured and the emulator host
	// alone picked gcs_emulator.
	ModeInferred bool
}

// ModeSource names where Mode came from, for startup logs.
func (cfg ObjectStorageConfig) ModeSource() string {
	if cfg.ModeInferred {
		return "emulator_host"
	}
	return "configured"
}

type ObjectStorageConfigErrorCode string

const (
	ObjectStorageConfigErrorInvalidMode         ObjectStorageConfigErrorCode = "invalid_mode"
	ObjectStorageConfigErrorMissingEmulatorHost ObjectStorageConfigErrorCode = "missing_emulator_host"
	ObjectStorageConfigErrorInvalidEmulatorHost ObjectStorageConfigErrorCode = "invalid_emulator_host"
)

type ObjectStorageConfigError struct {
	Code         ObjectStorageConfigErrorCode
	Mode         string
	EmulatorHost string
	Cause        error
}

func (e *ObjectStorageConfigError) Error() string {
	if e == nil {
		return "invalid object storage config"
	}
	switch e.Code {
	case ObjectStorageConfigErrorInvalidMode:
		return fmt.Sprintf("object storage mode %q is not one of %q, %q", e.Mode, ObjectStorageModeGCS, ObjectStorageModeGCSEmulator)
	case ObjectStorageConfigErrorMissingEmulatorHost:
		return fmt.Sprintf("object storage mode %q needs an emulator host", e.Mode)
	case ObjectStorageConfigErrorInvalidEmulatorHost:
		return fmt.Sprintf("emulator host %q is not an absolute URL (want e.g. http://fake-gcs:4443)", e.EmulatorHost)
	}
	return "invalid object storage config"
}

func (e *ObjectStorageConfigError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// ResolveObjectStorageConfig turns the configured mode and emulator host into
// a validated config. An empty mode means gcs, or gcs_emulator when a host is
// given.
func ResolveObjectStorageConfig(mode, host string) (ObjectStorageConfig, error) {
	cfg := ObjectStorageConfig{
		Mode:         ObjectStorageMode(strings.ToLower(strings.TrimSpace(mode))),
		EmulatorHost: strings.TrimSpace(host),
	}
	if cfg.Mode == "" {
		cfg.Mode = ObjectStorageModeGCS
		if cfg.EmulatorHost != "" {
			cfg.Mode = ObjectStorageModeGCSEmulator
			cfg.ModeInferred = true
		}
	}
	if err := ValidateObjectStorageConfig(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func ValidateObjectStorageConfig(cfg ObjectStorageConfig) error {
	if !cfg.Mode.Valid() {
		return &ObjectStorageConfigError{Code: ObjectStorageConfigErrorInvalidMode, Mode: string(cfg.Mode)}
	}
	if !cfg.Mode.Emulated() {
		return nil
	}
	if cfg.EmulatorHost == "" {
		return &ObjectStorageConfigError{Code: ObjectStorageConfigErrorMissingEmulatorHost, Mode: string(cfg.Mode)}
	}
	u, err := url.Parse(cfg.EmulatorHost)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return &ObjectStorageConfigError{
			Code:         ObjectStorageConfigErrorInvalidEmulatorHost,
			Mode:         string(cfg.Mode),
			EmulatorHost: cfg.EmulatorHost,
			Cause:        err,
		}
	}
	return nil
}
