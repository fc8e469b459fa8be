package api

import (
	"context"
	"fmt"

	"laborctl/internal/models"
)

// ProfileKind selects the worker or employer resource. Both share one shape
// for KYC updates.
type ProfileKind string

const (
	KindWorker   ProfileKind = "worker"
	KindEmployer ProfileKind = "employer"
)

func (k ProfileKind) Valid() bool {
	return k == KindWorker || k == KindEmployer
}

// collection returns the path segments of the resource, e.g. worker/workers.
func (k ProfileKind) collection() []string {
	return []string{string(k), string(k) + "s"}
}

func (k ProfileKind) listKey() string { return string(k) + "s" }

// KycUpdate is the KYC part of a profile update. Unset fields are omitted so
// the backend leaves them alone.
type KycUpdate struct {
	KycStatus            models.KycStatus         `json:"kycStatus,omitempty"`
	KycImageVerification models.ImageVerification `json:"kycImageVerification,omitempty"`
	RejectedImages       []models.RejectedImage   `json:"rejectedImages,omitempty"`
	KycRejectedReason    string                   `json:"kycRejectedReason,omitempty"`
}

// Profile is either a worker or an employer as returned by the backend.
type Profile struct {
	Kind     ProfileKind
	Worker   *models.Worker
	Employer *models.Employer
}

func (p *Profile) ID() string {
	if p.Worker != nil {
		return p.Worker.ID
	}
	if p.Employer != nil {
		return p.Employer.ID
	}
	return ""
}

func (p *Profile) Name() string {
	if p.Worker != nil {
		return p.Worker.FullName
	}
	if p.Employer != nil {
		return p.Employer.DisplayName()
	}
	return ""
}

// Kyc returns the embedded KYC record, nil if none was submitted.
func (p *Profile) Kyc() *models.KycRecord {
	if p.Worker != nil {
		return p.Worker.Kyc
	}
	if p.Employer != nil {
		return p.Employer.Kyc
	}
	return nil
}

func (c *Client) profilePath(kind ProfileKind, id ...string) string {
	return c.apipath(append(kind.collection(), id...)...)
}

func (c *Client) decodeProfile(kind ProfileKind, call func(out any) error) (*Profile, error) {
	switch kind {
	case KindWorker:
		var w models.Worker
		if err := call(&w); err != nil {
			return nil, err
		}
		return &Profile{Kind: kind, Worker: &w}, nil
	case KindEmployer:
		var e models.Employer
		if err := call(&e); err != nil {
			return nil, err
		}
		return &Profile{Kind: kind, Employer: &e}, nil
	}
	return nil, fmt.Errorf("unknown profile kind %q: %w", kind, models.ErrValidation)
}

func (c *Client) GetProfile(ctx context.Context, kind ProfileKind, id string) (*Profile, error) {
	return c.decodeProfile(kind, func(out any) error {
		return c.get(ctx, c.profilePath(kind, id), nil, out)
	})
}

// UpdateProfile sends a PUT with body, which may be a KycUpdate or a plain
// field map.
func (c *Client) UpdateProfile(ctx context.Context, kind ProfileKind, id string, body any) (*Profile, error) {
	return c.decodeProfile(kind, func(out any) error {
		return c.put(ctx, c.profilePath(kind, id), body, out)
	})
}

func (c *Client) CreateProfile(ctx context.Context, kind ProfileKind, fields map[string]any) (*Profile, error) {
	return c.decodeProfile(kind, func(out any) error {
		return c.post(ctx, c.profilePath(kind), fields, out)
	})
}

func (c *Client) DeleteProfile(ctx context.Context, kind ProfileKind, id string) error {
	if !kind.Valid() {
		return fmt.Errorf("unknown profile kind %q: %w", kind, models.ErrValidation)
	}
	return c.delete(ctx, c.profilePath(kind, id))
}

func (c *Client) ListWorkers(ctx context.Context, p ListParams) (models.Page[models.Worker], error) {
	return list[models.Worker](ctx, c, c.profilePath(KindWorker), p, KindWorker.listKey())
}

func (c *Client) ListEmployers(ctx context.Context, p ListParams) (models.Page[models.Employer], error) {
	return list[models.Employer](ctx, c, c.profilePath(KindEmployer), p, KindEmployer.listKey())
}
