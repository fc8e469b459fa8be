package workflow

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	log "github.com/sirupsen/logrus"

	"laborctl/internal/api"
	"laborctl/internal/models"
)

// ProfileSession is one open worker or employer, driving its KYC actions.
type ProfileSession struct {
	kind       api.ProfileKind
	id         string
	dispatcher *Dispatcher
	state      entityState[api.Profile]
}

func newProfileSession(d *Dispatcher, kind api.ProfileKind, id string, p *api.Profile) *ProfileSession {
	s := &ProfileSession{kind: kind, id: id, dispatcher: d}
	s.state.current = p
	return s
}

func (s *ProfileSession) Kind() api.ProfileKind { return s.kind }
func (s *ProfileSession) ID() string            { return s.id }

// Profile returns a copy of the last profile the backend returned.
func (s *ProfileSession) Profile() api.Profile {
	p, _ := s.state.snapshot()
	return p
}

func (s *ProfileSession) Kyc() *models.KycRecord {
	p := s.Profile()
	return p.Kyc()
}

func (s *ProfileSession) Actions() KycActions {
	return EvaluateKyc(s.Kyc())
}

func (s *ProfileSession) Submitting() bool { return s.state.isSubmitting() }

func (s *ProfileSession) Err() error { return s.state.lastError() }

func (s *ProfileSession) Refresh(ctx context.Context) (api.Profile, error) {
	seen := s.state.currentVersion()
	p, err := s.dispatcher.profiles.GetProfile(ctx, s.kind, s.id)
	if err != nil {
		return s.Profile(), actionFailed("load "+string(s.kind), "Failed to load "+string(s.kind), err)
	}
	if s.state.isClosed() {
		return api.Profile{}, models.ErrSessionClosed
	}
	s.state.replace(p, seen)
	return s.Profile(), nil
}

func (s *ProfileSession) Close() {
	s.state.close()
	s.dispatcher.forgetProfile(string(s.kind)+":"+s.id, s)
}

// ApproveKyc marks the whole KYC record as approved. It is independent of
// image verification.
func (s *ProfileSession) ApproveKyc(ctx context.Context) (*api.Profile, error) {
	return s.update(ctx, "approve kyc", "Failed to approve KYC",
		func(k KycActions) bool { return k.CanApproveKyc },
		api.KycUpdate{KycStatus: models.KycStatusApproved})
}

// VerifyImages marks the uploaded images as verified. The overall KYC status
// is left as is.
func (s *ProfileSession) VerifyImages(ctx context.Context) (*api.Profile, error) {
	return s.update(ctx, "verify images", "Failed to update image verification",
		func(k KycActions) bool { return k.CanReviewImages },
		api.KycUpdate{KycImageVerification: models.ImageVerificationVerified})
}

// RejectImages rejects the given images with a reason, failing the KYC.
func (s *ProfileSession) RejectImages(ctx context.Context, images []models.RejectedImage, reason string) (*api.Profile, error) {
	reason = strings.TrimSpace(reason)
	if err := validateRejection(len(images), reason); err != nil {
		return nil, err
	}
	return s.update(ctx, "reject images", "Failed to update image verification",
		func(k KycActions) bool { return k.CanReviewImages },
		api.KycUpdate{
			KycStatus:            models.KycStatusRejected,
			KycImageVerification: models.ImageVerificationFailed,
			RejectedImages:       images,
			KycRejectedReason:    reason,
		})
}

func (s *ProfileSession) update(ctx context.Context, action, fallback string, allowed func(KycActions) bool, body api.KycUpdate) (*api.Profile, error) {
	_, err := s.state.begin(func(p api.Profile) error {
		if !allowed(EvaluateKyc(p.Kyc())) {
			return fmt.Errorf("%s: %w", action, models.ErrActionNotAllowed)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger := log.WithFields(log.Fields{"kind": s.kind, "id": s.id, "action": action})
	logger.Info("dispatching kyc action")

	updated, callErr := s.dispatcher.profiles.UpdateProfile(ctx, s.kind, s.id, body)
	if callErr != nil {
		callErr = actionFailed(action, fallback, callErr)
		logger.Warnf("kyc action failed: %v", callErr)
	}
	if err := s.state.finish(updated, callErr); err != nil {
		return nil, err
	}
	p := s.Profile()
	return &p, nil
}

func validateRejection(selected int, reason string) error {
	if selected == 0 {
		return invalid("rejectedImages", "select at least one image")
	}
	if reason == "" {
		return invalid("kycRejectedReason", "rejection reason is required")
	}
	if utf8.RuneCountInString(reason) > MaxNoteLength {
		return invalid("kycRejectedReason", fmt.Sprintf("rejection reason must be at most %d characters", MaxNoteLength))
	}
	return nil
}

// ReviewState is where an image review session stands.
type ReviewState int

const (
	ReviewBrowsing ReviewState = iota
	ReviewSelecting
	ReviewVerified
	ReviewRejected
	ReviewClosed
)

func (s ReviewState) String() string {
	switch s {
	case ReviewBrowsing:
		return "browsing"
	case ReviewSelecting:
		return "selecting-for-rejection"
	case ReviewVerified:
		return "verified"
	case ReviewRejected:
		return "rejected"
	case ReviewClosed:
		return "closed"
	}
	return "unknown"
}

// Done reports whether the review has ended.
func (s ReviewState) Done() bool {
	return s == ReviewVerified || s == ReviewRejected || s == ReviewClosed
}

// ImageReview walks an admin through approving or rejecting KYC images:
// browse, optionally select images to reject with a reason, then confirm.
// Nothing is sent until Approve or Confirm.
type ImageReview struct {
	session *ProfileSession

	mu       sync.Mutex
	state    ReviewState
	items    []models.KycImageItem
	selected map[string]bool
	reason   string
	err      error
}

// BeginImageReview opens a review over the images currently on record.
func (s *ProfileSession) BeginImageReview() (*ImageReview, error) {
	kyc := s.Kyc()
	if !EvaluateKyc(kyc).CanReviewImages {
		return nil, fmt.Errorf("no KYC images to verify: %w", models.ErrActionNotAllowed)
	}
	return &ImageReview{
		session:  s,
		state:    ReviewBrowsing,
		items:    models.AllKycImageItems(kyc),
		selected: make(map[string]bool),
	}, nil
}

func (r *ImageReview) State() ReviewState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

func (r *ImageReview) Items() []models.KycImageItem {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.KycImageItem, len(r.items))
	copy(out, r.items)
	return out
}

// ValidationError is the inline message from the last rejected confirm.
func (r *ImageReview) ValidationError() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

func (r *ImageReview) Reason() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.reason
}

// StartRejection moves from browsing to selecting with an empty selection.
func (r *ImageReview) StartRejection() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != ReviewBrowsing {
		return fmt.Errorf("cannot start rejection while %s: %w", r.state, models.ErrActionNotAllowed)
	}
	r.state = ReviewSelecting
	r.selected = make(map[string]bool)
	r.reason = ""
	r.err = nil
	return nil
}

// Toggle flips the selection of the image with the given item id.
func (r *ImageReview) Toggle(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != ReviewSelecting {
		return fmt.Errorf("cannot select images while %s: %w", r.state, models.ErrActionNotAllowed)
	}
	if !r.hasItem(id) {
		return invalid("rejectedImages", fmt.Sprintf("unknown image %q", id))
	}
	if r.selected[id] {
		delete(r.selected, id)
	} else {
		r.selected[id] = true
	}
	return nil
}

func (r *ImageReview) SetReason(reason string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != ReviewSelecting {
		return fmt.Errorf("cannot set a reason while %s: %w", r.state, models.ErrActionNotAllowed)
	}
	r.reason = reason
	return nil
}

// Selected returns the selected images in display order.
func (r *ImageReview) Selected() []models.KycImageItem {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.selectedLocked()
}

// CancelRejection goes back to browsing and forgets selection and reason.
func (r *ImageReview) CancelRejection() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != ReviewSelecting {
		return
	}
	r.state = ReviewBrowsing
	r.selected = make(map[string]bool)
	r.reason = ""
	r.err = nil
}

// Close abandons the review without touching the backend.
func (r *ImageReview) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state.Done() {
		return
	}
	r.state = ReviewClosed
	r.selected = make(map[string]bool)
	r.reason = ""
	r.err = nil
}

// Approve verifies the images from the browsing state.
func (r *ImageReview) Approve(ctx context.Context) (*api.Profile, error) {
	r.mu.Lock()
	if r.state != ReviewBrowsing {
		state := r.state
		r.mu.Unlock()
		return nil, fmt.Errorf("cannot approve while %s: %w", state, models.ErrActionNotAllowed)
	}
	r.mu.Unlock()

	p, err := r.session.VerifyImages(ctx)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state == ReviewBrowsing {
		r.state = ReviewVerified
	}
	return p, nil
}

// Confirm validates the selection and reason, then rejects the selected
// images. A validation failure leaves the review in the selecting state with
// ValidationError set and sends nothing.
func (r *ImageReview) Confirm(ctx context.Context) (*api.Profile, error) {
	r.mu.Lock()
	if r.state != ReviewSelecting {
		state := r.state
		r.mu.Unlock()
		return nil, fmt.Errorf("cannot confirm while %s: %w", state, models.ErrActionNotAllowed)
	}
	selected := r.selectedLocked()
	reason := strings.TrimSpace(r.reason)
	if err := validateRejection(len(selected), reason); err != nil {
		r.err = err
		r.mu.Unlock()
		return nil, err
	}
	r.err = nil
	r.mu.Unlock()

	images := make([]models.RejectedImage, 0, len(selected))
	for _, it := range selected {
		images = append(images, models.RejectedImage{ImageType: it.ImageType, ImageURL: it.ImageURL})
	}

	p, err := r.session.RejectImages(ctx, images, reason)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state == ReviewSelecting {
		r.state = ReviewRejected
	}
	return p, nil
}

func (r *ImageReview) hasItem(id string) bool {
	for _, it := range r.items {
		if it.ID == id {
			return true
		}
	}
	return false
}

func (r *ImageReview) selectedLocked() []models.KycImageItem {
	var out []models.KycImageItem
	for _, it := range r.items {
		if r.selected[it.ID] {
			out = append(out, it)
		}
	}
	return out
}
