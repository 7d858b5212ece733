package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	assert.Equal(t, "", Normalize(""))
	assert.Equal(t, "v1.2.3", Normalize("1.2.3"))
	assert.Equal(t, "v1.2.3", Normalize(" v1.2.3 "))
}

func TestString(t *testing.T) {
	orig := Version
	t.Cleanup(func() { Version = orig })

	tests := []struct {
		version     string
		wantString  string
		wantRelease bool
	}{
		{"dev", "dev", false},
		{"1.2", "v1.2.0", true},
		{"v2.0.1", "v2.0.1", true},
		{"2.0.0-rc.1", "v2.0.0-rc.1", false},
	}

	for _, tt := range tests {
		t.Run(tt.version, func(t *testing.T) {
			Version = tt.version
			assert.Equal(t, tt.wantString, String())
			assert.Equal(t, tt.wantRelease, IsRelease())
		})
	}
}
