package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"laborctl/internal/api"
	"laborctl/internal/models"
	"laborctl/internal/workflow"
)

// ProfileService serves workers and employers, whose KYC review is the same
// workflow.
type ProfileService struct {
	profiles   ProfileStore
	dispatcher *workflow.Dispatcher
}

func NewProfileService(profiles ProfileStore, dispatcher *workflow.Dispatcher) *ProfileService {
	return &ProfileService{profiles: profiles, dispatcher: dispatcher}
}

func (s *ProfileService) ListWorkers(ctx context.Context, p ListParams) (models.Page[models.Worker], error) {
	page, err := s.profiles.ListWorkers(ctx, p.toAPI("kycStatus"))
	if err != nil {
		return page, fmt.Errorf("could not list workers: %w", err)
	}
	return page, nil
}

func (s *ProfileService) ListEmployers(ctx context.Context, p ListParams) (models.Page[models.Employer], error) {
	page, err := s.profiles.ListEmployers(ctx, p.toAPI("kycStatus"))
	if err != nil {
		return page, fmt.Errorf("could not list employers: %w", err)
	}
	return page, nil
}

func (s *ProfileService) open(ctx context.Context, kind api.ProfileKind, id string) (*workflow.ProfileSession, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("unknown profile kind %q: %w", kind, models.ErrValidation)
	}
	return s.dispatcher.OpenProfile(ctx, kind, id)
}

// GetProfile returns the profile together with its KYC view, read from the
// backend on every call.
func (s *ProfileService) GetProfile(ctx context.Context, kind api.ProfileKind, id string) (api.Profile, *KycView, error) {
	if !kind.Valid() {
		return api.Profile{}, nil, fmt.Errorf("unknown profile kind %q: %w", kind, models.ErrValidation)
	}
	session, err := s.dispatcher.LoadProfile(ctx, kind, id)
	if err != nil {
		return api.Profile{}, nil, err
	}
	p := session.Profile()
	return p, newKycView(p), nil
}

func (s *ProfileService) Kyc(ctx context.Context, kind api.ProfileKind, id string) (*KycView, error) {
	_, view, err := s.GetProfile(ctx, kind, id)
	return view, err
}

func (s *ProfileService) DeleteProfile(ctx context.Context, kind api.ProfileKind, id string) error {
	if err := s.profiles.DeleteProfile(ctx, kind, id); err != nil {
		return fmt.Errorf("could not delete %s: %w", kind, err)
	}
	s.dispatcher.CloseProfile(kind, id)
	return nil
}

func (s *ProfileService) ApproveKyc(ctx context.Context, kind api.ProfileKind, id string) (*KycView, error) {
	session, err := s.open(ctx, kind, id)
	if err != nil {
		return nil, err
	}
	p, err := session.ApproveKyc(ctx)
	if err != nil {
		return nil, err
	}
	return newKycView(*p), nil
}

func (s *ProfileService) VerifyImages(ctx context.Context, kind api.ProfileKind, id string) (*KycView, error) {
	session, err := s.open(ctx, kind, id)
	if err != nil {
		return nil, err
	}
	review, err := session.BeginImageReview()
	if err != nil {
		return nil, err
	}
	defer review.Close()
	p, err := review.Approve(ctx)
	if err != nil {
		return nil, err
	}
	return newKycView(*p), nil
}

// RejectImages rejects the images named by ids ("FRONT:1", "SELFIE:1", …)
// through the review workflow, so the same validation applies as in an
// interactive review.
func (s *ProfileService) RejectImages(ctx context.Context, kind api.ProfileKind, id string, ids []string, reason string) (*KycView, error) {
	session, err := s.open(ctx, kind, id)
	if err != nil {
		return nil, err
	}
	review, err := session.BeginImageReview()
	if err != nil {
		return nil, err
	}
	defer review.Close()

	if err := review.StartRejection(); err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(ids))
	for _, imageID := range ids {
		imageID = NormalizeImageID(imageID)
		if seen[imageID] {
			continue
		}
		seen[imageID] = true
		if err := review.Toggle(imageID); err != nil {
			return nil, err
		}
	}
	if err := review.SetReason(reason); err != nil {
		return nil, err
	}
	p, err := review.Confirm(ctx)
	if err != nil {
		return nil, err
	}
	return newKycView(*p), nil
}

// NormalizeImageID turns "front", "front:2" or "Selfie:1" into the item ids
// the review uses. A bare type means its first image.
func NormalizeImageID(v string) string {
	v = strings.ToUpper(strings.TrimSpace(v))
	typ, idx, found := strings.Cut(v, ":")
	if !found {
		return typ + ":1"
	}
	if n, err := strconv.Atoi(idx); err == nil {
		return fmt.Sprintf("%s:%d", typ, n)
	}
	return v
}
