package gcp

import (
	"errors"
	"testing"
)

func TestResolveObjectStorageConfig(t *testing.T) {
	cases := []struct {
		name         string
		mode, host   string
		wantMode     ObjectStorageMode
		wantInferred bool
		wantSource   string
	}{
		{"defaults to gcs", "", "", ObjectStorageModeGCS, false, "configured"},
		{"gcs ignores host", "gcs", "http://fake-gcs:4443", ObjectStorageModeGCS, false, "configured"},
		{"explicit emulator", " GCS_Emulator ", "http://fake-gcs:4443", ObjectStorageModeGCSEmulator, false, "configured"},
		{"host alone picks emulator", "", " http://fake-gcs:4443 ", ObjectStorageModeGCSEmulator, true, "emulator_host"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := ResolveObjectStorageConfig(tc.mode, tc.host)
			if err != nil {
				t.Fatalf("ResolveObjectStorageConfig: %v", err)
			}
			if cfg.Mode != tc.wantMode {
				t.Fatalf("mode: want=%q got=%q", tc.wantMode, cfg.Mode)
			}
			if cfg.ModeInferred != tc.wantInferred {
				t.Fatalf("inferred: want=%v got=%v", tc.wantInferred, cfg.ModeInferred)
			}
			if got := cfg.ModeSource(); got != tc.wantSource {
				t.Fatalf("source: want=%q got=%q", tc.wantSource, got)
			}
			if cfg.Mode.Emulated() && cfg.EmulatorHost != "http://fake-gcs:4443" {
				t.Fatalf("host not trimmed: %q", cfg.EmulatorHost)
			}
		})
	}
}

func TestResolveObjectStorageConfigErrors(t *testing.T) {
	cases := []struct {
		name       string
		mode, host string
		want       ObjectStorageConfigErrorCode
	}{
		{"unknown mode", "s3", "", ObjectStorageConfigErrorInvalidMode},
		{"emulator without host", "gcs_emulator", "", ObjectStorageConfigErrorMissingEmulatorHost},
		{"relative host", "gcs_emulator", "fake-gcs:4443/path", ObjectStorageConfigErrorInvalidEmulatorHost},
		{"inferred with bad host", "", "not a url", ObjectStorageConfigErrorInvalidEmulatorHost},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ResolveObjectStorageConfig(tc.mode, tc.host)
			var cfgErr *ObjectStorageConfigError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("expected ObjectStorageConfigError, got=%T (%v)", err, err)
			}
			if cfgErr.Code != tc.want {
				t.Fatalf("code: want=%q got=%q", tc.want, cfgErr.Code)
			}
			if cfgErr.Error() == "" {
				t.Fatalf("empty message")
			}
		})
	}
}

func TestObjectStorageModeHelpers(t *testing.T) {
	if !ObjectStorageModeGCS.Valid() || !ObjectStorageModeGCSEmulator.Valid() || ObjectStorageMode("s3").Valid() {
		t.Fatalf("Valid mismatch")
	}
	if ObjectStorageModeGCS.Emulated() || !ObjectStorageModeGCSEmulator.Emulated() {
		t.Fatalf("Emulated mismatch")
	}
}
