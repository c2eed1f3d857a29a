package types

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSize(t *testing.T) {
	tests := []struct {
		input   string
		want    int64
		wantErr bool
	}{
		{"0", 0, false},
		{"1024", 1024, false},
		{"512B", 512, false},
		{"100K", 100 * KiB, false},
		{"100KiB", 100 * KiB, false},
		{"50M", 50 * MiB, false},
		{"1.5G", int64(1.5 * float64(GiB)), false},
		{"2T", 2 * TiB, false},
		{" 10 M ", 10 * MiB, false},
		{"", 0, true},
		{"-5M", 0, true},
		{"abc", 0, true},
		{"10X", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseSize(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidSize))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatSize(t *testing.T) {
	assert.Equal(t, "0 B", FormatSize(0))
	assert.Equal(t, "1.0 KiB", FormatSize(1024))
	assert.Equal(t, "1.5 MiB", FormatSize(1536*1024))
}

func TestFileStats_HumanSize(t *testing.T) {
	f := FileStats{Path: "/a", Size: 2048}
	assert.Equal(t, "2.0 KiB", f.HumanSize())
}

func TestFileStats_ZeroTimestampsMeanUnavailable(t *testing.T) {
	f := FileStats{Path: "/a"}
	assert.True(t, f.ModifiedAt.IsZero())
	assert.True(t, f.CreatedAt.IsZero())

	f.ModifiedAt = time.Now()
	assert.False(t, f.ModifiedAt.IsZero())
}

func TestLifecycleErrorsAreDistinct(t *testing.T) {
	assert.False(t, errors.Is(ErrInvalidPath, ErrAlreadyScanning))
	assert.False(t, errors.Is(ErrAlreadyScanning, ErrInvalidPath))
}
