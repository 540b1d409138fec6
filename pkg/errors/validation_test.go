package errors

import (
	"strings"
	"testing"
)

func TestValidateNodeID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"security group", "sg-0123456789abcdef0", false},
		{"cidr v4", "10.0.0.0/16", false},
		{"cidr v6", "2001:db8::/32", false},
		{"prefix list", "pl-6ea54007", false},

		{"empty", "", true},
		{"too long", strings.Repeat("a", 600), true},
		{"null byte", "sg\x00", true},
		{"newline", "sg\n1", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateNodeID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateNodeID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidGraph) {
				t.Errorf("code = %v, want %v", GetCode(err), ErrCodeInvalidGraph)
			}
		})
	}
}

func TestValidateS3URI(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid", "s3://bucket/graph.json", false},
		{"nested key", "s3://bucket/prod/eu-west-1/graph.json", false},

		{"no scheme", "bucket/graph.json", true},
		{"https", "https://bucket/graph.json", true},
		{"no key", "s3://bucket", true},
		{"empty key", "s3://bucket/", true},
		{"empty bucket", "s3:///graph.json", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateS3URI(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateS3URI(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
