package validation

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateFile(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	dir := t.TempDir()

	tests := []struct {
		name    string
		input   string
		want    string
		wantErr error
	}{
		{name: "absolute path", input: filepath.Join(dir, "flik.db"), want: filepath.Join(dir, "flik.db")},
		{name: "home expansion", input: "~/.flik.db", want: filepath.Join(home, ".flik.db")},
		{name: "empty", input: "  ", wantErr: ErrEmptyPath},
		{name: "null byte", input: "/tmp/flik\x00.db", wantErr: ErrUnsafePath},
		{name: "control character", input: "/tmp/flik\n.db", wantErr: ErrUnsafePath},
		{name: "traversal", input: "/tmp/../etc/passwd", wantErr: ErrPathTraversal},
		{name: "other user's home", input: "~root/flik.db", wantErr: ErrUnsafePath},
		{name: "directory", input: dir, wantErr: ErrNotAFile},
	}

	v := NewFilePathValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := v.ValidateFile(tt.input)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidateFile_RelativeBecomesAbsolute(t *testing.T) {
	got, err := NewFilePathValidator().ValidateFile("flik.db")
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(got))
	assert.Equal(t, "flik.db", filepath.Base(got))
}

func TestValidateFile_TooLong(t *testing.T) {
	v := &FilePathValidator{MaxPathLength: 8}
	_, err := v.ValidateFile("/tmp/flik.db")
	assert.Error(t, err)
}
