package kv

import (
	"context"
	"testing"
	"time"

	"support-console/internal/config"

	"github.com/alicebob/miniredis/v2"
)

func TestOpen(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)

	tests := []struct {
		name    string
		cfg     config.StorageConfig
		wantErr bool
	}{
		{name: "default is memory", cfg: config.StorageConfig{}},
		{name: "memory", cfg: config.StorageConfig{Driver: "memory"}},
		{name: "redis", cfg: config.StorageConfig{Driver: "redis", RedisAddr: mr.Addr()}},
		{name: "unknown driver", cfg: config.StorageConfig{Driver: "etcd"}, wantErr: true},
		{name: "postgres without url", cfg: config.StorageConfig{Driver: "postgres"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := Open(ctx, tt.cfg, time.Hour)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Open: %v", err)
			}
			defer b.Close()
			exerciseBackend(t, b)
		})
	}
}
