// Package access implements the token gate in front of the catalog resources.
package access

import (
	"context"
	"crypto/sha256"
	"strings"

	"github.com/nebula-labs/catalog/internal/domain"
)

// Service accepts requests that present one of the configured tokens.
// Only token digests are retained.
type Service struct {
	digests map[[sha256.Size]byte]struct{}
}

// New creates a gate for tokens. Blank tokens are ignored.
func New(tokens []string) *Service {
	s := &Service{digests: make(map[[sha256.Size]byte]struct{}, len(tokens))}
	for _, t := range tokens {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		s.digests[sha256.Sum256([]byte(t))] = struct{}{}
	}
	return s
}

// Enabled reports whether any token is configured. A disabled gate admits every request.
func (s *Service) Enabled() bool { return len(s.digests) > 0 }

// Check admits or denies a request by its presented token.
func (s *Service) Check(_ context.Context, token string) error {
	if !s.Enabled() {
		return nil
	}
	if token == "" {
		return domain.ErrMissingToken
	}
	if _, ok := s.digests[sha256.Sum256([]byte(token))]; !ok {
		return domain.ErrInvalidToken
	}
	return nil
}
