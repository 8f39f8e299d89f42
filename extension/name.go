package extension

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Name represents a validated extension identifier.
// Enforces non-empty, trimmed extension names.
type Name struct {
	value string
}

// NewName creates a Name with strict validation.
// A valid extension name must:
// - Be non-empty
// - contain only alphanumeric characters, underscores, and hyphens
// - NOT contain paths, dots, or special characters
// - Be at most 64 characters long
func NewName(name string) (Name, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Name{}, fmt.Errorf("extension name cannot be empty")
	}

	if len(name) > 64 {
		return Name{}, fmt.Errorf("extension name too long (max 64 chars)")
	}

	// Security check: path separators
	if strings.ContainsAny(name, `/\`) {
		return Name{}, fmt.Errorf("extension name cannot contain path separators")
	}

	// Security check: directory traversal
	if strings.Contains(name, "..") {
		return Name{}, fmt.Errorf("extension name cannot contain parent directory references")
	}

	for _, ch := range name {
		if !isValidNameChar(ch) {
			return Name{}, fmt.Errorf("invalid extension name %q: must contain only alphanumeric characters, underscores, and hyphens", name)
		}
	}

	return Name{value: name}, nil
}

func isValidNameChar(r rune) bool {
	return (r >= 'a' && r <= 'z') ||
		(r >= 'A' && r <= 'Z') ||
		(r >= '0' && r <= '9') ||
		r == '_' ||
		r == '-'
}

// MustNewName creates a Name or panics.
func MustNewName(name string) Name {
	n, err := NewName(name)
	if err != nil {
		panic(err)
	}
	return n
}

// String returns the string representation.
func (n Name) String() string {
	return n.value
}

// IsEmpty returns true if this is the zero value.
func (n Name) IsEmpty() bool {
	return n.value == ""
}

// Equals checks if two names are equal.
func (n Name) Equals(other Name) bool {
	return n.value == other.value
}

// MarshalJSON implements json.Marshaler.
// Uses json.Marshal for proper character escaping.
func (n Name) MarshalJSON() ([]byte, error) {
	return json.Marshal(n.value)
}

// UnmarshalJSON implements json.Unmarshaler.
func (n *Name) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) < 2 {
		return fmt.Errorf("invalid extension name JSON")
	}
	s = s[1 : len(s)-1]

	name, err := NewName(s)
	if err != nil {
		return err
	}
	*n = name
	return nil
}
