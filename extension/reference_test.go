package extension

import "testing"

func TestNewFactoryReference(t *testing.T) {
	ref := NewFactoryReference("reg.io", "org", "repo", "name", "1.0.0")
	if ref.Registry() != "reg.io" {
		t.Errorf("Registry() = %v, want reg.io", ref.Registry())
	}
	if ref.Name() != "name" {
		t.Errorf("Name() = %v, want name", ref.Name())
	}
	if ref.Version() != "1.0.0" {
		t.Errorf("Version() = %v, want 1.0.0", ref.Version())
	}
	if ref.IsLocal() {
		t.Error("IsLocal should be false")
	}
}

func TestParseFactoryReference(t *testing.T) {
	tests := []struct {
		name           string
		input          string
		wantErr        bool
		wantName       string
		wantVersion    string
		wantConstraint string
		wantRegistry   string
		wantIsLocal    bool
	}{
		{
			name:        "Local",
			input:       "drawboard",
			wantName:    "drawboard",
			wantIsLocal: true,
		},
		{
			name:        "LocalWithDashes",
			input:       "my-cool-extension",
			wantName:    "my-cool-extension",
			wantIsLocal: true,
		},
		{
			name:           "Constrained",
			input:          "drawboard@^1.2",
			wantName:       "drawboard",
			wantConstraint: "^1.2",
		},
		{
			name:         "FullOCI",
			input:        "ghcr.io/quillkit/editor-extensions/drawboard:1.0.2",
			wantName:     "drawboard",
			wantVersion:  "1.0.2",
			wantRegistry: "ghcr.io",
		},
		{
			name:    "InvalidOCI_NoTag",
			input:   "ghcr.io/org/repo/widget",
			wantErr: true,
		},
		{
			name:    "InvalidOCI_TooShort",
			input:   "ghcr.io/widget:1.0.0",
			wantErr: true,
		},
		{
			name:    "EmptyConstraint",
			input:   "drawboard@",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ref, err := ParseFactoryReference(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseFactoryReference(%q) expected error", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseFactoryReference(%q) failed: %v", tt.input, err)
			}
			if ref.Name() != tt.wantName {
				t.Errorf("Name() = %v, want %v", ref.Name(), tt.wantName)
			}
			if ref.Version() != tt.wantVersion {
				t.Errorf("Version() = %v, want %v", ref.Version(), tt.wantVersion)
			}
			if ref.Constraint() != tt.wantConstraint {
				t.Errorf("Constraint() = %v, want %v", ref.Constraint(), tt.wantConstraint)
			}
			if ref.Registry() != tt.wantRegistry {
				t.Errorf("Registry() = %v, want %v", ref.Registry(), tt.wantRegistry)
			}
			if ref.IsLocal() != tt.wantIsLocal {
				t.Errorf("IsLocal() = %v, want %v", ref.IsLocal(), tt.wantIsLocal)
			}
		})
	}
}

func TestFactoryReference_RoundTrip(t *testing.T) {
	for _, input := range []string{
		"drawboard",
		"drawboard@^1.2",
		"ghcr.io/quillkit/editor-extensions/drawboard:1.0.2",
	} {
		ref, err := ParseFactoryReference(input)
		if err != nil {
			t.Fatalf("parse %q: %v", input, err)
		}
		if ref.String() != input {
			t.Errorf("String() = %q, want %q", ref.String(), input)
		}
	}
}

func TestFactoryReference_WithVersion(t *testing.T) {
	ref, err := ParseFactoryReference("drawboard@^1.0")
	if err != nil {
		t.Fatal(err)
	}
	pinned := ref.WithVersion("1.2.3")
	if pinned.Version() != "1.2.3" {
		t.Errorf("Version() = %v, want 1.2.3", pinned.Version())
	}
	if pinned.IsConstrained() {
		t.Error("pinned reference should not be constrained")
	}
	// original untouched
	if !ref.IsConstrained() {
		t.Error("original reference should keep its constraint")
	}
}
