package storagefactory

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"campuslink/internal/config"
)

func TestNewStorage_Local(t *testing.T) {
	tmpDir := filepath.Join(t.TempDir(), "storage_test")
	baseURL := "http://localhost:8080/uploads"

	tests := []struct {
		name    string
		cfg     *config.StorageConfig
		wantErr bool
	}{
		{
			name: "valid local storage config",
			cfg: &config.StorageConfig{
				Type: "local",
				Local: &config.LocalConfig{
					BasePath:      tmpDir,
					BaseURL:       baseURL,
					PresignExpiry: 3600,
				},
			},
			wantErr: false,
		},
		{
			name: "missing local config",
			cfg: &config.StorageConfig{
				Type: "local",
			},
			wantErr: true,
		},
		{
			name: "missing oss config",
			cfg: &config.StorageConfig{
				Type: "oss",
			},
			wantErr: true,
		},
		{
			name: "unsupported type",
			cfg: &config.StorageConfig{
				Type: "s3",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewStorage(tt.cfg)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if s.GetStorageType() != "local" {
				t.Fatalf("expected local storage, got %s", s.GetStorageType())
			}
		})
	}
}

func TestLocalStorage_UploadDownload(t *testing.T) {
	tmpDir := filepath.Join(t.TempDir(), "storage_test")

	s, err := NewStorage(&config.StorageConfig{
		Type: "local",
		Local: &config.LocalConfig{
			BasePath:      tmpDir,
			BaseURL:       "http://localhost:8080/uploads",
			PresignExpiry: 3600,
		},
	})
	if err != nil {
		t.Fatalf("failed to create storage: %v", err)
	}

	ctx := context.Background()
	key := "applications/u1/idcard.pdf"
	content := "fake pdf bytes"

	url, err := s.Upload(ctx, key, strings.NewReader(content), "application/pdf")
	if err != nil {
		t.Fatalf("upload failed: %v", err)
	}
	if !strings.HasSuffix(url, key) {
		t.Fatalf("unexpected url: %s", url)
	}

	exists, err := s.Exists(ctx, key)
	if err != nil || !exists {
		t.Fatalf("expected file to exist, exists=%v err=%v", exists, err)
	}

	rc, err := s.Download(ctx, key)
	if err != nil {
		t.Fatalf("download failed: %v", err)
	}
	defer rc.Close()
	data, _ := io.ReadAll(rc)
	if string(data) != content {
		t.Fatalf("content mismatch: %q", string(data))
	}

	if err := s.Delete(ctx, key); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(tmpDir, key)); !os.IsNotExist(err) {
		t.Fatalf("file should be deleted")
	}

	// 删除不存在的文件应视为成功
	if err := s.Delete(ctx, key); err != nil {
		t.Fatalf("delete of missing file should be a no-op: %v", err)
	}
}
