package errors

import (
	"strings"
	"unicode"
)

// MaxGeneratedOrder is the largest order accepted for in-process graph
// generation. Order 12 already has 165 billion graphs.
const MaxGeneratedOrder = 12

// ValidateOrder checks that n is a usable vertex count for a graph source.
func ValidateOrder(n int) error {
	if n < 0 {
		return New(ErrCodeInvalidInput, "graph order must not be negative: %d", n)
	}
	if n > MaxGeneratedOrder {
		return New(ErrCodeInvalidInput, "graph order too large for generation: %d (max %d)", n, MaxGeneratedOrder)
	}
	return nil
}

// ValidateCapacity checks a page capacity.
func ValidateCapacity(capacity int) error {
	if capacity < 1 {
		return New(ErrCodeInvalidConfig, "page capacity must be at least 1, got %d", capacity)
	}
	return nil
}

// ValidatePath validates an input or output file path.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 4096 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 4096
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	return nil
}

// ValidateListenAddr validates a host:port listen address such as ":9090".
func ValidateListenAddr(addr string) error {
	if addr == "" {
		return New(ErrCodeInvalidConfig, "listen address cannot be empty")
	}
	i := strings.LastIndex(addr, ":")
	if i < 0 || i == len(addr)-1 {
		return New(ErrCodeInvalidConfig, "listen address must have the form host:port: %q", addr)
	}
	for _, r := range addr[i+1:] {
		if r < '0' || r > '9' {
			return New(ErrCodeInvalidConfig, "listen address has a non-numeric port: %q", addr)
		}
	}
	return nil
}
