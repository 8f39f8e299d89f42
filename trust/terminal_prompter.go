package trust

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
)

// TerminalPrompter provides interactive terminal prompting for trust
// decisions.
type TerminalPrompter struct{}

// NewTerminalPrompter creates a new TerminalPrompter.
func NewTerminalPrompter() *TerminalPrompter {
	return &TerminalPrompter{}
}

// IsInteractive checks if we're running in an interactive terminal.
func (p *TerminalPrompter) IsInteractive() bool {
	fileInfo, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (fileInfo.Mode() & os.ModeCharDevice) != 0
}

// PromptForTrust asks the user whether to trust a bundle.
func (p *TerminalPrompter) PromptForTrust(req Request) (granted bool, always bool, err error) {
	if !req.Verified {
		fmt.Fprintf(os.Stderr, "\n")
		fmt.Fprintf(os.Stderr, "\033[1;33mSecurity Warning: Unsigned Bundle\033[0m\n\n")
		fmt.Fprintf(os.Stderr, "  %s\n", req.Reference.String())
		fmt.Fprintf(os.Stderr, "  This bundle carries no verifiable signature.\n")
		fmt.Fprintf(os.Stderr, "\n")
	}

	const (
		OptionYes    = "Yes, trust for this session"
		OptionAlways = "Always trust (save decision)"
		OptionNo     = "No, deny"
	)

	var selection string

	err = huh.NewSelect[string]().
		Title("Extension Bundle Requesting Trust").
		Description(p.describe(req)).
		Options(
			huh.NewOption(OptionYes, OptionYes),
			huh.NewOption(OptionAlways, OptionAlways),
			huh.NewOption(OptionNo, OptionNo),
		).
		Value(&selection).
		Run()
	if err != nil {
		return false, false, err
	}

	switch selection {
	case OptionYes:
		return true, false, nil
	case OptionAlways:
		return true, true, nil
	default:
		return false, false, nil
	}
}

// describe builds the prompt description for a trust request.
func (p *TerminalPrompter) describe(req Request) string {
	var b strings.Builder
	b.WriteString(req.Reference.String())
	if req.Publisher != "" {
		fmt.Fprintf(&b, "\nPublisher: %s", req.Publisher)
	}
	if req.Digest != "" {
		fmt.Fprintf(&b, "\nDigest: %s", req.Digest)
	}
	if req.Verified {
		b.WriteString("\nSignature: verified")
	} else {
		b.WriteString("\nSignature: none")
	}
	return b.String()
}

// FormatNonInteractiveError creates a helpful error message for
// non-interactive mode.
func (p *TerminalPrompter) FormatNonInteractiveError(req Request) error {
	var msg strings.Builder
	msg.WriteString("Bundle requires a trust decision (running in non-interactive mode)\n\n")
	fmt.Fprintf(&msg, "  Bundle: %s\n", req.Reference.String())
	if req.Publisher != "" {
		fmt.Fprintf(&msg, "  Publisher: %s\n", req.Publisher)
	}
	msg.WriteString("\nTo trust this bundle:\n")
	msg.WriteString("  1. Run interactively and approve when prompted\n")
	msg.WriteString("  2. Enable trust-all (trusts every bundle)\n")
	msg.WriteString("  3. Manually edit: ~/.quillkit/trust.yaml\n")

	return fmt.Errorf("%s", msg.String())
}
