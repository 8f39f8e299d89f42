package bundle

// IntegrityService provides domain logic for bundle integrity verification.
type IntegrityService struct {
	requireSigning bool
}

// NewIntegrityService creates an integrity service.
func NewIntegrityService(requireSigning bool) *IntegrityService {
	return &IntegrityService{
		requireSigning: requireSigning,
	}
}

// VerifyDigest checks if the bundle digest matches the expected value.
func (s *IntegrityService) VerifyDigest(b *Bundle, expected Digest) error {
	return b.VerifyIntegrity(expected)
}

// ShouldVerifySignature returns true if signature verification is required.
func (s *IntegrityService) ShouldVerifySignature() bool {
	return s.requireSigning
}
