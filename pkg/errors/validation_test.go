package errors

import (
	"testing"
)

func TestValidateDesignator(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"connector", "X1", false},
		{"circuit breaker", "CB12", false},
		{"custom", "J_PWR-IN", false},

		{"empty", "", true},
		{"too long", string(make([]byte, 100)), true},
		{"space", "X 1", true},
		{"dot", "C1.2", true},
		{"control char", "X\x011", true},
		{"newline", "X1\n", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDesignator(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateDesignator(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidInput) {
				t.Errorf("ValidateDesignator(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidInput)
			}
		})
	}
}

func TestValidateColor(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"black", "#000000", false},
		{"lower hex", "#ffff00", false},
		{"mixed hex", "#FfA0b1", false},

		{"empty", "", true},
		{"no hash", "FFFFFF", true},
		{"short", "#FFF", true},
		{"named", "red", true},
		{"non hex", "#GGGGGG", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateColor(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateColor(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"https", "https://splice-cad.com", false},
		{"http localhost", "http://localhost:8080", false},

		{"empty", "", true},
		{"ftp", "ftp://example.com", true},
		{"no scheme", "splice-cad.com", true},
		{"javascript", "javascript:alert(1)", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateURL(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateURL(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
