package hazard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/mod/semver"
)

// TestVersionIsValidSemver guards against a malformed release string.
func TestVersionIsValidSemver(t *testing.T) {
	assert.True(t, semver.IsValid(Version), "Version %q is not valid semver", Version)
	assert.Equal(t, Version, GetInfo().Version)
}

// TestAtLeast covers the version gate used by the CLI's --require flag.
func TestAtLeast(t *testing.T) {
	tests := []struct {
		name    string
		min     string
		want    bool
		wantErr bool
	}{
		{name: "older minimum", min: "v0.1.0", want: true},
		{name: "exact minimum", min: Version, want: true},
		{name: "newer minimum", min: "v99.0.0", want: false},
		{name: "not semver", min: "0.1.0", wantErr: true},
		{name: "garbage", min: "latest", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := AtLeast(tt.min)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
