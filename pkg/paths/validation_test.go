package paths

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateAppName(t *testing.T) {
	tests := []struct {
		name        string
		appName     string
		wantErr     bool
		errContains string
	}{
		{
			name:        "empty name",
			appName:     "",
			wantErr:     true,
			errContains: "cannot be empty",
		},
		{
			name:    "valid name",
			appName: "git",
		},
		{
			name:    "name with dashes and dots",
			appName: "oh-my-zsh.v2",
		},
		{
			name:        "name with forward slash",
			appName:     "git/hooks",
			wantErr:     true,
			errContains: "path separators",
		},
		{
			name:        "name with backslash",
			appName:     "git\\hooks",
			wantErr:     true,
			errContains: "path separators",
		},
		{
			name:        "dot name",
			appName:     ".",
			wantErr:     true,
			errContains: "cannot be '.' or '..'",
		},
		{
			name:        "dot dot name",
			appName:     "..",
			wantErr:     true,
			errContains: "cannot be '.' or '..'",
		},
		{
			name:        "control characters",
			appName:     "git\x01",
			wantErr:     true,
			errContains: "control characters",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAppName(tt.appName)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContains)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateRelPath(t *testing.T) {
	tests := []struct {
		name        string
		relPath     string
		wantErr     bool
		errContains string
	}{
		{
			name:        "empty entry",
			relPath:     "",
			wantErr:     true,
			errContains: "cannot be empty",
		},
		{
			name:    "simple dotfile",
			relPath: ".gitconfig",
		},
		{
			name:    "nested path",
			relPath: ".config/git/config",
		},
		{
			name:        "absolute path",
			relPath:     "/etc/passwd",
			wantErr:     true,
			errContains: "must be relative",
		},
		{
			name:        "parent escape",
			relPath:     "../outside",
			wantErr:     true,
			errContains: "escapes the home directory",
		},
		{
			name:        "embedded parent escape",
			relPath:     "a/../../outside",
			wantErr:     true,
			errContains: "escapes the home directory",
		},
		{
			name:    "internal dotdot that stays inside",
			relPath: "a/b/../c",
		},
		{
			name:        "null bytes",
			relPath:     "a\x00b",
			wantErr:     true,
			errContains: "null bytes",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRelPath(tt.relPath)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContains)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestContainsPath(t *testing.T) {
	tests := []struct {
		name   string
		parent string
		child  string
		want   bool
	}{
		{"direct child", "/home/user", "/home/user/file", true},
		{"nested child", "/home/user", "/home/user/a/b/c", true},
		{"same path", "/home/user", "/home/user", true},
		{"outside", "/home/user", "/etc", false},
		{"sibling prefix", "/home/user", "/home/user2/file", false},
		{"uncleaned child", "/home/user", "/home/user/a/../b", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ContainsPath(tt.parent, tt.child))
		})
	}
}

func TestSanitizePath(t *testing.T) {
	tests := []struct {
		name string
		path string
		want string
	}{
		{"clean absolute", "/a/b/c", "/a/b/c"},
		{"redundant separators", "/a//b///c", "/a/b/c"},
		{"dot elements", "/a/./b/../c", "/a/c"},
		{"empty becomes dot", "", "."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizePath(tt.path))
		})
	}
}
