package bundle_test

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/quillkit-dev/quillkit-host-sdk/bundle"
	"github.com/quillkit-dev/quillkit-host-sdk/extension"
)

func TestService_LoadBundle(t *testing.T) {
	ref := extension.NewFactoryReference("reg", "org", "repo", "name", "1.0")
	meta := bundle.NewMetadata("name", "1.0", "desc", nil)
	digest, _ := bundle.NewDigest("sha256", "abc")
	b := bundle.NewBundle(ref, digest, meta)

	resolver := &bundle.MockResolver{FoundBundle: b}

	t.Run("Success_NoVerification", func(t *testing.T) {
		repo := &bundle.MockRepository{FindPath: "/path/to/wasm"}
		svc := bundle.NewService(
			repo,
			nil, // no registry needed
			bundle.WithResolver(resolver),
		)

		path, err := svc.LoadBundle(context.Background(), ref, bundle.Digest{})
		if err != nil {
			t.Fatalf("LoadBundle failed: %v", err)
		}
		if path != "/path/to/wasm" {
			t.Errorf("expected path /path/to/wasm, got %s", path)
		}
	})

	t.Run("Success_WithDigestVerification", func(t *testing.T) {
		repo := &bundle.MockRepository{FindPath: "/path/to/wasm"}
		svc := bundle.NewService(
			repo,
			nil, // no registry needed
			bundle.WithResolver(resolver),
		)

		expected, _ := bundle.NewDigest("sha256", "abc")
		_, err := svc.LoadBundle(context.Background(), ref, expected)
		if err != nil {
			t.Errorf("LoadBundle failed: %v", err)
		}
	})

	t.Run("Fail_DigestMismatch", func(t *testing.T) {
		repo := &bundle.MockRepository{FindPath: "/path/to/wasm"}
		svc := bundle.NewService(
			repo,
			nil, // no registry needed
			bundle.WithResolver(resolver),
		)

		expected, _ := bundle.NewDigest("sha256", "bad")
		_, err := svc.LoadBundle(context.Background(), ref, expected)
		if err == nil {
			t.Error("LoadBundle should fail on digest mismatch")
		}
	})

	t.Run("Success_WithSignatureVerification", func(t *testing.T) {
		repo := &bundle.MockRepository{FindPath: "/path/to/wasm"}
		verifier := &bundle.MockVerifier{}
		svc := bundle.NewService(
			repo,
			nil, // no registry needed
			bundle.WithResolver(resolver),
			bundle.WithIntegrityVerifier(verifier),
			bundle.WithIntegrityService(bundle.NewIntegrityService(true)), // Require signing
			bundle.WithLogger(bundle.NewTestLogger()),
		)

		_, err := svc.LoadBundle(context.Background(), ref, bundle.Digest{})
		if err != nil {
			t.Errorf("LoadBundle failed: %v", err)
		}
	})

	t.Run("Fail_SignatureVerification", func(t *testing.T) {
		repo := &bundle.MockRepository{FindPath: "/path/to/wasm"}
		verifier := &bundle.MockVerifier{VerifyErr: errors.New("sig fail")}
		svc := bundle.NewService(
			repo,
			nil, // no registry needed
			bundle.WithResolver(resolver),
			bundle.WithIntegrityVerifier(verifier),
			bundle.WithIntegrityService(bundle.NewIntegrityService(true)),
			bundle.WithLogger(bundle.NewTestLogger()),
		)

		_, err := svc.LoadBundle(context.Background(), ref, bundle.Digest{})
		if err == nil {
			t.Error("LoadBundle should fail on signature error")
		}
	})

	t.Run("Fail_Resolution", func(t *testing.T) {
		badResolver := &bundle.MockResolver{Err: errors.New("not found")}
		svc := bundle.NewService(
			&bundle.MockRepository{},
			nil, // no registry needed
			bundle.WithResolver(badResolver),
		)
		_, err := svc.LoadBundle(context.Background(), ref, bundle.Digest{})
		if err == nil {
			t.Error("LoadBundle should fail on resolution error")
		}
	})
}

func TestService_PublishBundle(t *testing.T) {
	ref := extension.NewFactoryReference("reg", "org", "repo", "name", "1.0")
	meta := bundle.NewMetadata("name", "1.0", "desc", nil)
	digest, _ := bundle.NewDigest("sha256", "abc")
	b := bundle.NewBundle(ref, digest, meta)

	t.Run("Success_PushOnly", func(t *testing.T) {
		registry := &bundle.MockRegistry{}
		svc := bundle.NewService(nil, registry, bundle.WithLogger(bundle.NewTestLogger()))

		err := svc.PublishBundle(context.Background(), b, io.LimitReader(&mockReader{}, 0), false)
		if err != nil {
			t.Errorf("PublishBundle failed: %v", err)
		}
	})

	t.Run("Success_PushAndSign", func(t *testing.T) {
		registry := &bundle.MockRegistry{}
		verifier := &bundle.MockVerifier{}
		svc := bundle.NewService(
			nil,
			registry,
			bundle.WithIntegrityVerifier(verifier),
			bundle.WithLogger(bundle.NewTestLogger()),
		)

		err := svc.PublishBundle(context.Background(), b, io.LimitReader(&mockReader{}, 0), true)
		if err != nil {
			t.Errorf("PublishBundle failed: %v", err)
		}
	})

	t.Run("Fail_Push", func(t *testing.T) {
		registry := &bundle.MockRegistry{PushErr: errors.New("unauthorized")}
		svc := bundle.NewService(nil, registry, bundle.WithLogger(bundle.NewTestLogger()))

		err := svc.PublishBundle(context.Background(), b, io.LimitReader(&mockReader{}, 0), false)
		if err == nil {
			t.Error("PublishBundle should fail on push error")
		}
	})
}

type mockReader struct{}

func (m *mockReader) Read(p []byte) (n int, err error) { return 0, io.EOF }
