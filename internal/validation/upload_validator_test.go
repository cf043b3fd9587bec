package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateUpload(t *testing.T) {
	v := NewUploadValidator(nil, 1024)

	tests := []struct {
		name    string
		file    string
		data    []byte
		wantErr string
	}{
		{
			name: "valid csv",
			file: "march.csv",
			data: []byte("Symbol,Date\nRELIANCE,2024-03-01\n"),
		},
		{
			name: "valid txt",
			file: "bhavcopy.txt",
			data: []byte("Symbol,Date\n"),
		},
		{
			name:    "empty payload",
			file:    "march.csv",
			data:    nil,
			wantErr: "empty",
		},
		{
			name:    "wrong extension",
			file:    "report.pdf",
			data:    []byte("Symbol,Date\n"),
			wantErr: "not a CSV file",
		},
		{
			name:    "zip disguised as csv",
			file:    "export.csv",
			data:    []byte{0x50, 0x4B, 0x03, 0x04, 0x00, 0x00},
			wantErr: "zip container",
		},
		{
			name:    "over size limit",
			file:    "huge.csv",
			data:    make([]byte, 2048),
			wantErr: "size limit",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateUpload(tt.file, tt.data)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateUpload_NoSizeLimit(t *testing.T) {
	v := NewUploadValidator(nil, 0)
	assert.NoError(t, v.ValidateUpload("big.csv", make([]byte, 1<<20)))
}

func TestValidateUpload_OversizedButDisabledCheckStillValidatesContent(t *testing.T) {
	v := NewUploadValidator(nil, 0)
	err := v.ValidateUpload("export.csv", []byte{0x50, 0x4B, 0x03, 0x04})
	assert.Error(t, err)
}
