package usecase

import (
	"context"

	authDomain "github.com/allisson/authgate/internal/auth/domain"
	apperrors "github.com/allisson/authgate/internal/errors"
)

const (
	defaultSecurityEventPageSize = 50
	maxSecurityEventPageSize     = 1000
)

// securityEventUseCase implements SecurityEventUseCase for inspecting the
// security event trail.
type securityEventUseCase struct {
	securityEventRepo SecurityEventRepository
}

// List retrieves security events ordered by ID descending (newest first) with
// pagination. Negative offsets are treated as zero; non-positive limits fall
// back to the default page size and oversized limits are capped. Returns
// empty slice if no events found.
func (s *securityEventUseCase) List(
	ctx context.Context,
	offset, limit int,
) ([]*authDomain.SecurityEvent, error) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = defaultSecurityEventPageSize
	}
	if limit > maxSecurityEventPageSize {
		limit = maxSecurityEventPageSize
	}

	events, err := s.securityEventRepo.List(ctx, offset, limit)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list security events")
	}

	return events, nil
}

// NewSecurityEventUseCase creates a new SecurityEventUseCase with the provided dependencies.
func NewSecurityEventUseCase(securityEventRepo SecurityEventRepository) SecurityEventUseCase {
	return &securityEventUseCase{
		securityEventRepo: securityEventRepo,
	}
}
