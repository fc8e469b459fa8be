package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// KycStatus is the coarse verification state of a worker or employer.
type KycStatus string

const (
	KycStatusPending  KycStatus = "PENDING"
	KycStatusApproved KycStatus = "APPROVED"
	KycStatusRejected KycStatus = "REJECTED"
)

// ImageVerification is the outcome of reviewing the uploaded KYC images.
type ImageVerification string

const (
	ImageVerificationPending  ImageVerification = "PENDING"
	ImageVerificationVerified ImageVerification = "VERIFIED"
	ImageVerificationFailed   ImageVerification = "FAILED"
)

// KycLabel returns the human label for a KYC status.
func KycLabel(status string) string {
	switch KycStatus(status) {
	case "":
		return Placeholder
	case KycStatusApproved:
		return "Verified"
	case KycStatusPending:
		return "Pending"
	case KycStatusRejected:
		return "Rejected"
	}
	return status
}

func KycBadgeClass(status string) BadgeClass {
	switch KycStatus(status) {
	case KycStatusApproved:
		return BadgeSuccess
	case KycStatusRejected:
		return BadgeDanger
	}
	return BadgeWarning
}

// KycImageVerificationLabel maps an image verification value to a label,
// case-insensitively. The backend has sent both VERIFIED/FAILED and
// APPROVED/REJECTED over time.
func KycImageVerificationLabel(value string) string {
	v := strings.ToUpper(strings.TrimSpace(value))
	switch v {
	case "":
		return Placeholder
	case "VERIFIED", "APPROVED":
		return "Verified"
	case "FAILED", "REJECTED":
		return "Failed"
	case "PENDING":
		return "Pending"
	}
	return value
}

func ImageVerificationBadgeClass(value string) BadgeClass {
	v := strings.ToUpper(strings.TrimSpace(value))
	switch v {
	case "":
		return BadgeMuted
	case "VERIFIED", "APPROVED":
		return BadgeSuccess
	case "FAILED", "REJECTED":
		return BadgeDanger
	}
	return BadgeWarning
}

// KycFilterOptions are the KYC filters offered on worker and employer lists.
func KycFilterOptions() []Option {
	return []Option{
		{Value: "", Label: "All KYC"},
		{Value: string(KycStatusApproved), Label: "Verified"},
		{Value: string(KycStatusPending), Label: "Pending"},
		{Value: string(KycStatusRejected), Label: "Rejected"},
	}
}

// KycImageType identifies which document an image belongs to.
type KycImageType string

const (
	KycImageFront  KycImageType = "FRONT"
	KycImageBack   KycImageType = "BACK"
	KycImageSelfie KycImageType = "SELFIE"
)

var kycImageTypeLabels = map[KycImageType]string{
	KycImageFront:  "Aadhaar front",
	KycImageBack:   "Aadhaar back",
	KycImageSelfie: "Selfie",
}

func (t KycImageType) Label() string {
	if l, ok := kycImageTypeLabels[t]; ok {
		return l
	}
	return string(t)
}

// KycImageUpload is one upload of a document image.
type KycImageUpload struct {
	Image     string     `json:"image"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
}

// KycImageField holds every upload of one document image, oldest first.
//
// On the wire the field is either a legacy bare URL string or a list of
// {image, timestamp} entries; both decode into the same slice here.
type KycImageField []KycImageUpload

// UnmarshalJSON never fails on the value's shape: anything that is neither a
// string nor a list decodes as no uploads, and a list entry is kept whenever
// its image is a non-empty string.
func (f *KycImageField) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	*f = nil
	if len(b) == 0 {
		return nil
	}

	switch b[0] {
	case '"':
		var url string
		if err := json.Unmarshal(b, &url); err != nil {
			return err
		}
		if url = strings.TrimSpace(url); url != "" {
			*f = KycImageField{{Image: url}}
		}
	case '[':
		var raw []json.RawMessage
		if err := json.Unmarshal(b, &raw); err != nil {
			return err
		}
		out := make(KycImageField, 0, len(raw))
		for _, r := range raw {
			var entry struct {
				Image     json.RawMessage `json:"image"`
				Timestamp json.RawMessage `json:"timestamp"`
			}
			if err := json.Unmarshal(r, &entry); err != nil {
				continue
			}
			var image string
			if err := json.Unmarshal(entry.Image, &image); err != nil {
				continue
			}
			if image = strings.TrimSpace(image); image == "" {
				continue
			}
			out = append(out, KycImageUpload{Image: image, Timestamp: parseUploadTime(entry.Timestamp)})
		}
		*f = out
	}
	return nil
}

var uploadTimeLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"}

// parseUploadTime reads an RFC 3339 or date-only string, or epoch
// milliseconds. Anything else yields nil.
func parseUploadTime(raw json.RawMessage) *time.Time {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}
	var ms float64
	if err := json.Unmarshal(raw, &ms); err == nil {
		t := time.UnixMilli(int64(ms)).UTC()
		return &t
	}
	var v string
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil
	}
	for _, layout := range uploadTimeLayouts {
		if t, err := time.Parse(layout, strings.TrimSpace(v)); err == nil {
			return &t
		}
	}
	return nil
}

// URLs returns the image URLs in upload order.
func (f KycImageField) URLs() []string {
	urls := make([]string, 0, len(f))
	for _, u := range f {
		urls = append(urls, u.Image)
	}
	return urls
}

// Latest returns the most recent upload, or "" when there is none.
func (f KycImageField) Latest() string {
	if len(f) == 0 {
		return ""
	}
	return f[len(f)-1].Image
}

// RejectedImage names one image an admin rejected.
type RejectedImage struct {
	ImageType KycImageType `json:"imageType"`
	ImageURL  string       `json:"imageUrl"`
}

// KycRecord is the KYC document set embedded in a worker or employer.
type KycRecord struct {
	Status               KycStatus         `json:"status"`
	KycImageVerification ImageVerification `json:"kycImageVerification,omitempty"`
	AadhaarReference     string            `json:"aadhaarReference,omitempty"`
	AadhaarFrontImage    KycImageField     `json:"aadhaarFrontImage,omitempty"`
	AadhaarBackImage     KycImageField     `json:"aadhaarBackImage,omitempty"`
	SelfieImage          KycImageField     `json:"selfieImage,omitempty"`
	RejectedImages       []RejectedImage   `json:"rejectedImages,omitempty"`
	KycRejectedReason    string            `json:"kycRejectedReason,omitempty"`
	Remarks              string            `json:"remarks,omitempty"`
	VerifiedAt           *time.Time        `json:"verifiedAt,omitempty"`
	BankAccountNumber    string            `json:"bankAccountNumber,omitempty"`
	IfscCode             string            `json:"ifscCode,omitempty"`
	UpiID                string            `json:"upiId,omitempty"`
	GstNumber            string            `json:"gstNumber,omitempty"`
	CompanyPan           string            `json:"companyPan,omitempty"`
	GstCertificate       string            `json:"gstCertificate,omitempty"`
}

// HasAnyImages reports whether at least one document or selfie image exists.
func (k *KycRecord) HasAnyImages() bool {
	if k == nil {
		return false
	}
	return k.AadhaarFrontImage.Latest() != "" ||
		k.AadhaarBackImage.Latest() != "" ||
		k.SelfieImage.Latest() != ""
}

// KycImageItem is one reviewable image.
type KycImageItem struct {
	ID        string       `json:"id"`
	ImageType KycImageType `json:"imageType"`
	ImageURL  string       `json:"imageUrl"`
	Label     string       `json:"label"`
}

// AllKycImageItems flattens every uploaded image of the record into a single
// list: front, back, then selfie, each in upload order. When a type has more
// than one upload the labels get a 1-based index, e.g. "Aadhaar front (2)".
func AllKycImageItems(k *KycRecord) []KycImageItem {
	if k == nil {
		return nil
	}
	fields := []struct {
		imageType KycImageType
		field     KycImageField
	}{
		{KycImageFront, k.AadhaarFrontImage},
		{KycImageBack, k.AadhaarBackImage},
		{KycImageSelfie, k.SelfieImage},
	}

	var items []KycImageItem
	for _, f := range fields {
		urls := f.field.URLs()
		base := f.imageType.Label()
		for i, url := range urls {
			label := base
			if len(urls) > 1 {
				label = fmt.Sprintf("%s (%d)", base, i+1)
			}
			items = append(items, KycImageItem{
				ID:        fmt.Sprintf("%s:%d", f.imageType, i+1),
				ImageType: f.imageType,
				ImageURL:  url,
				Label:     label,
			})
		}
	}
	return items
}
