package cli

import "testing"

func TestValidateVersion(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{"empty is allowed", "", false},
		{"full version", "1.4.0", false},
		{"v prefix accepted", "v1.4.0", false},
		{"prerelease", "2.0.0-rc.1", false},
		{"missing patch", "1.4", true},
		{"major only", "2", true},
		{"garbage", "latest", true},
		{"branch name rejected", "release/1.4.0", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateVersion(tt.value)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateVersion(%q) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
		})
	}
}

func TestValidateLine(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{"empty is allowed", "", false},
		{"major.minor", "1.4", false},
		{"full version rejected", "1.4.0", true},
		{"major only", "1", true},
		{"garbage", "abc", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateLine(tt.value)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateLine(%q) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
		})
	}
}
