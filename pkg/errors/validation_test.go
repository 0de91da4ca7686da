package errors

import (
	"testing"
)

func TestValidateOrder(t *testing.T) {
	tests := []struct {
		n       int
		wantErr bool
	}{
		{0, false},
		{8, false},
		{MaxGeneratedOrder, false},
		{MaxGeneratedOrder + 1, true},
		{-1, true},
	}

	for _, tt := range tests {
		err := ValidateOrder(tt.n)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateOrder(%d) error = %v, wantErr %v", tt.n, err, tt.wantErr)
		}
	}
}

func TestValidateCapacity(t *testing.T) {
	if err := ValidateCapacity(6); err != nil {
		t.Errorf("ValidateCapacity(6) = %v", err)
	}
	err := ValidateCapacity(0)
	if err == nil {
		t.Fatal("ValidateCapacity(0) should fail")
	}
	if GetCode(err) != ErrCodeInvalidConfig {
		t.Errorf("code = %v, want %v", GetCode(err), ErrCodeInvalidConfig)
	}
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "graph_table.pdf", false},
		{"nested", "out/pages/graph_table.pdf", false},
		{"absolute", "/tmp/graphs8.g6", false},

		{"empty", "", true},
		{"too long", string(make([]byte, 5000)), true},
		{"null byte", "foo\x00bar", true},
		{"newline", "foo\nbar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateListenAddr(t *testing.T) {
	tests := []struct {
		addr    string
		wantErr bool
	}{
		{":9090", false},
		{"127.0.0.1:9090", false},
		{"", true},
		{"localhost", true},
		{"localhost:", true},
		{"localhost:http", true},
	}

	for _, tt := range tests {
		err := ValidateListenAddr(tt.addr)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateListenAddr(%q) error = %v, wantErr %v", tt.addr, err, tt.wantErr)
		}
	}
}
