package app

import (
	"errors"
	"testing"

	"github.com/yungbote/lumina-backend/internal/platform/gcp"
	"github.com/yungbote/lumina-backend/internal/platform/gcp/gcptest"
	"github.com/yungbote/lumina-backend/internal/platform/logger"
)

func TestClassifyStorageProviderBootstrapError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want StorageProviderBootstrapErrorCode
	}{
		{"invalid mode", &gcp.ObjectStorageConfigError{Code: gcp.ObjectStorageConfigErrorInvalidMode}, StorageProviderBootstrapErrorInvalidMode},
		{"missing emulator host", &gcp.ObjectStorageConfigError{Code: gcp.ObjectStorageConfigErrorMissingEmulatorHost}, StorageProviderBootstrapErrorMissingEmulatorHost},
		{"invalid emulator host", &gcp.ObjectStorageConfigError{Code: gcp.ObjectStorageConfigErrorInvalidEmulatorHost}, StorageProviderBootstrapErrorInvalidEmulatorHost},
		{"connect failed", errors.New("dial tcp: connection refused"), StorageProviderBootstrapErrorConnectFailed},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := classifyStorageProviderBootstrapError(gcp.ObjectStorageConfig{Mode: gcp.ObjectStorageModeGCS}, tc.err)
			var got *StorageProviderBootstrapError
			if !errors.As(err, &got) {
				t.Fatalf("expected StorageProviderBootstrapError, got=%T", err)
			}
			if got.Code != tc.want {
				t.Fatalf("code: want=%q got=%q", tc.want, got.Code)
			}
			if !errors.Is(err, tc.err) {
				t.Fatalf("cause not preserved: %v", err)
			}
		})
	}
}

func stubBucketFactory(t *testing.T) (*gcp.ObjectStorageConfig, *gcp.BucketConfig, gcp.BucketService) {
	t.Helper()
	orig := newBucketServiceWithConfig
	t.Cleanup(func() {
		newBucketServiceWithConfig = orig
	})
	var (
		storageCfg gcp.ObjectStorageConfig
		buckets    gcp.BucketConfig
	)
	stub := gcptest.NewMemoryBucket()
	newBucketServiceWithConfig = func(_ *logger.Logger, cfg gcp.ObjectStorageConfig, b gcp.BucketConfig) (gcp.BucketService, error) {
		storageCfg = cfg
		buckets = b
		return stub, nil
	}
	return &storageCfg, &buckets, stub
}

func TestResolveBucketServiceInvalidMode(t *testing.T) {
	_, err := resolveBucketService(logger.Nop(), Config{ObjectStorageMode: "invalid"})
	var got *StorageProviderBootstrapError
	if !errors.As(err, &got) {
		t.Fatalf("expected StorageProviderBootstrapError, got=%T (%v)", err, err)
	}
	if got.Code != StorageProviderBootstrapErrorInvalidMode {
		t.Fatalf("code: want=%q got=%q", StorageProviderBootstrapErrorInvalidMode, got.Code)
	}
}

func TestResolveBucketServiceGCSMode(t *testing.T) {
	captured, buckets, stub := stubBucketFactory(t)

	got, err := resolveBucketService(logger.Nop(), Config{
		AvatarBucket:   " lumina-avatars ",
		MediaBucket:    "lumina-media",
		MediaCDNDomain: "cdn.example.com",
	})
	if err != nil {
		t.Fatalf("resolveBucketService: %v", err)
	}
	if got != stub {
		t.Fatalf("bucket: expected stub bucket instance")
	}
	if captured.Mode != gcp.ObjectStorageModeGCS || captured.ModeInferred {
		t.Fatalf("storage config: got=%+v", *captured)
	}
	if buckets.AvatarBucket != "lumina-avatars" || buckets.MediaCDN != "cdn.example.com" {
		t.Fatalf("bucket config: got=%+v", *buckets)
	}
}

func TestResolveBucketServiceEmulatorFallback(t *testing.T) {
	captured, _, _ := stubBucketFactory(t)

	if _, err := resolveBucketService(logger.Nop(), Config{StorageEmulatorHost: "http://fake-gcs:4443"}); err != nil {
		t.Fatalf("resolveBucketService: %v", err)
	}
	if captured.Mode != gcp.ObjectStorageModeGCSEmulator {
		t.Fatalf("mode: want=%q got=%q", gcp.ObjectStorageModeGCSEmulator, captured.Mode)
	}
	if !captured.ModeInferred {
		t.Fatalf("expected the mode to be inferred when only the emulator host is set")
	}
}

func TestResolveBucketServiceMissingEmulatorHost(t *testing.T) {
	_, err := resolveBucketService(logger.Nop(), Config{
		ObjectStorageMode: string(gcp.ObjectStorageModeGCSEmulator),
		AvatarBucket:      "a",
		MediaBucket:       "m",
	})
	var got *StorageProviderBootstrapError
	if !errors.As(err, &got) {
		t.Fatalf("expected StorageProviderBootstrapError, got=%T (%v)", err, err)
	}
	if got.Code != StorageProviderBootstrapErrorMissingEmulatorHost {
		t.Fatalf("code: want=%q got=%q", StorageProviderBootstrapErrorMissingEmulatorHost, got.Code)
	}
}

func TestResolveBucketServiceInvalidEmulatorHost(t *testing.T) {
	stubBucketFactory(t)

	_, err := resolveBucketService(logger.Nop(), Config{StorageEmulatorHost: "fake-gcs"})
	var got *StorageProviderBootstrapError
	if !errors.As(err, &got) {
		t.Fatalf("expected StorageProviderBootstrapError, got=%T (%v)", err, err)
	}
	if got.Code != StorageProviderBootstrapErrorInvalidEmulatorHost {
		t.Fatalf("code: want=%q got=%q", StorageProviderBootstrapErrorInvalidEmulatorHost, got.Code)
	}
	if got.Mode != string(gcp.ObjectStorageModeGCSEmulator) {
		t.Fatalf("mode: want=%q got=%q", gcp.ObjectStorageModeGCSEmulator, got.Mode)
	}
}
