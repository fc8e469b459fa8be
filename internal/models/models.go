package models

import (
	"bytes"
	"encoding/json"
	"time"
)

// Ref is a reference to another entity. The backend sends either the bare id
// or the populated document; both decode into a Ref.
type Ref struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

func (r *Ref) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*r = Ref{}
		return nil
	}
	if b[0] == '"' {
		var id string
		if err := json.Unmarshal(b, &id); err != nil {
			return err
		}
		*r = Ref{ID: id}
		return nil
	}

	var doc struct {
		ID                string `json:"_id"`
		AltID             string `json:"id"`
		Name              string `json:"name"`
		FullName          string `json:"fullName"`
		BusinessName      string `json:"businessName"`
		CompanyName       string `json:"companyName"`
		ContactPersonName string `json:"contactPersonName"`
		CategoryName      string `json:"categoryName"`
		Email             string `json:"email"`
		Phone             string `json:"phone"`
	}
	if err := json.Unmarshal(b, &doc); err != nil {
		return err
	}
	r.ID = firstNonEmpty(doc.ID, doc.AltID)
	r.Name = firstNonEmpty(doc.BusinessName, doc.CompanyName, doc.ContactPersonName,
		doc.FullName, doc.Name, doc.CategoryName, doc.Email, doc.Phone)
	return nil
}

// UserRef is the account linked to a worker or employer profile.
type UserRef struct {
	ID        string `json:"id"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
	IsActive  *bool  `json:"isActive,omitempty"`
	IsBlocked *bool  `json:"isBlocked,omitempty"`
}

func (u *UserRef) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*u = UserRef{}
		return nil
	}
	if b[0] == '"' {
		var id string
		if err := json.Unmarshal(b, &id); err != nil {
			return err
		}
		*u = UserRef{ID: id}
		return nil
	}
	var doc struct {
		ID        string `json:"_id"`
		AltID     string `json:"id"`
		Email     string `json:"email"`
		Phone     string `json:"phone"`
		IsActive  *bool  `json:"isActive"`
		IsBlocked *bool  `json:"isBlocked"`
	}
	if err := json.Unmarshal(b, &doc); err != nil {
		return err
	}
	*u = UserRef{
		ID:        firstNonEmpty(doc.ID, doc.AltID),
		Email:     doc.Email,
		Phone:     doc.Phone,
		IsActive:  doc.IsActive,
		IsBlocked: doc.IsBlocked,
	}
	return nil
}

// Job is the canonical job shape handed to the workflow package.
type Job struct {
	ID                  string             `json:"id"`
	Title               string             `json:"jobTitle"`
	Description         string             `json:"jobDescription,omitempty"`
	Employer            Ref                `json:"employer"`
	WorkersRequired     int                `json:"workersRequired"`
	WorkersAssigned     int                `json:"workersAssigned"`
	SalaryOrPayout      float64            `json:"salaryOrPayout,omitempty"`
	PerDayPayout        float64            `json:"perDayPayout,omitempty"`
	PayoutType          string             `json:"payoutType,omitempty"`
	WorkType            string             `json:"workType,omitempty"`
	ShiftType           string             `json:"shiftType,omitempty"`
	CheckInMethod       string             `json:"checkInMethod,omitempty"`
	StartDate           *time.Time         `json:"startDate,omitempty"`
	EndDate             *time.Time         `json:"endDate,omitempty"`
	ReportingTime       string             `json:"reportingTime,omitempty"`
	WorkTimings         string             `json:"workTimings,omitempty"`
	DailyHours          float64            `json:"dailyHours,omitempty"`
	Duration            string             `json:"duration,omitempty"`
	IsUrgent            bool               `json:"isUrgent,omitempty"`
	AttendanceRequired  bool               `json:"attendanceRequired,omitempty"`
	Skills              []Ref              `json:"skills,omitempty"`
	Status              JobStatus          `json:"status"`
	ServiceChargeAmount *float64           `json:"serviceChargeAmount,omitempty"`
	CancellationReason  CancellationReason `json:"cancellationReason,omitempty"`
	CancellationNote    string             `json:"cancellationNote,omitempty"`
	CreatedAt           *time.Time         `json:"createdAt,omitempty"`
	UpdatedAt           *time.Time         `json:"updatedAt,omitempty"`
}

// jobWire is the backend document, including the legacy aliases it has used.
type jobWire struct {
	ID                  string             `json:"_id"`
	AltID               string             `json:"id"`
	JobTitle            string             `json:"jobTitle"`
	Title               string             `json:"title"`
	JobDescription      string             `json:"jobDescription"`
	EmployerID          *Ref               `json:"employerId"`
	Employer            *Ref               `json:"employer"`
	WorkersRequired     int                `json:"workersRequired"`
	WorkersAssigned     json.RawMessage    `json:"workersAssigned"`
	SalaryOrPayout      float64            `json:"salaryOrPayout"`
	PerDayPayout        float64            `json:"perDayPayout"`
	PayoutType          string             `json:"payoutType"`
	WorkType            string             `json:"workType"`
	ShiftType           string             `json:"shiftType"`
	CheckInMethod       string             `json:"checkInMethod"`
	StartDate           *time.Time         `json:"startDate"`
	EndDate             *time.Time         `json:"endDate"`
	ReportingTime       string             `json:"reportingTime"`
	WorkTimings         string             `json:"workTimings"`
	DailyHours          float64            `json:"dailyHours"`
	Duration            json.RawMessage    `json:"duration"`
	IsUrgent            bool               `json:"isUrgent"`
	AttendanceRequired  bool               `json:"attendanceRequired"`
	SkillsRequired      []Ref              `json:"skillsRequired"`
	Skills              []Ref              `json:"skills"`
	Status              JobStatus          `json:"status"`
	ServiceChargeAmount *float64           `json:"serviceChargeAmount"`
	CancellationReason  CancellationReason `json:"cancellationReason"`
	CancellationNote    string             `json:"cancellationNote"`
	CreatedAt           *time.Time         `json:"createdAt"`
	UpdatedAt           *time.Time         `json:"updatedAt"`
}

// UnmarshalJSON accepts both the backend document and the canonical form, so a
// Job survives a round trip through the HTTP façade.
func (j *Job) UnmarshalJSON(b []byte) error {
	var w jobWire
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}

	employer := Ref{}
	switch {
	case w.EmployerID != nil && w.EmployerID.ID != "":
		employer = *w.EmployerID
	case w.Employer != nil:
		employer = *w.Employer
	}

	skills := w.SkillsRequired
	if len(skills) == 0 {
		skills = w.Skills
	}

	*j = Job{
		ID:                  firstNonEmpty(w.ID, w.AltID),
		Title:               firstNonEmpty(w.JobTitle, w.Title),
		Description:         w.JobDescription,
		Employer:            employer,
		WorkersRequired:     w.WorkersRequired,
		WorkersAssigned:     countOrLength(w.WorkersAssigned),
		SalaryOrPayout:      w.SalaryOrPayout,
		PerDayPayout:        w.PerDayPayout,
		PayoutType:          w.PayoutType,
		WorkType:            w.WorkType,
		ShiftType:           w.ShiftType,
		CheckInMethod:       w.CheckInMethod,
		StartDate:           w.StartDate,
		EndDate:             w.EndDate,
		ReportingTime:       w.ReportingTime,
		WorkTimings:         w.WorkTimings,
		DailyHours:          w.DailyHours,
		Duration:            scalarString(w.Duration),
		IsUrgent:            w.IsUrgent,
		AttendanceRequired:  w.AttendanceRequired,
		Skills:              skills,
		Status:              w.Status,
		ServiceChargeAmount: w.ServiceChargeAmount,
		CancellationReason:  w.CancellationReason,
		CancellationNote:    w.CancellationNote,
		CreatedAt:           w.CreatedAt,
		UpdatedAt:           w.UpdatedAt,
	}
	return nil
}

// Worker is a worker profile.
type Worker struct {
	ID                      string     `json:"id"`
	User                    UserRef    `json:"user"`
	FullName                string     `json:"fullName"`
	Email                   string     `json:"email,omitempty"`
	Phone                   string     `json:"phone,omitempty"`
	WhatsappNumber          string     `json:"whatsappNumber,omitempty"`
	Gender                  string     `json:"gender,omitempty"`
	Age                     int        `json:"age,omitempty"`
	ExperienceLevel         string     `json:"experienceLevel,omitempty"`
	AvailabilityStatus      string     `json:"availabilityStatus,omitempty"`
	WorkerLevel             string     `json:"workerLevel,omitempty"`
	DailyEarningExpectation float64    `json:"dailyEarningExpectation,omitempty"`
	Skills                  []Ref      `json:"skills,omitempty"`
	Kyc                     *KycRecord `json:"kyc,omitempty"`
	CreatedAt               *time.Time `json:"createdAt,omitempty"`
}

type workerWire struct {
	ID                      string     `json:"_id"`
	AltID                   string     `json:"id"`
	UserID                  *UserRef   `json:"userId"`
	User                    *UserRef   `json:"user"`
	FullName                string     `json:"fullName"`
	Email                   string     `json:"email"`
	Phone                   string     `json:"phone"`
	WhatsappNumber          string     `json:"whatsappNumber"`
	Gender                  string     `json:"gender"`
	Age                     int        `json:"age"`
	ExperienceLevel         string     `json:"experienceLevel"`
	AvailabilityStatus      string     `json:"availabilityStatus"`
	WorkerLevel             string     `json:"workerLevel"`
	DailyEarningExpectation float64    `json:"dailyEarningExpectation"`
	Skills                  []Ref      `json:"skills"`
	Kyc                     *KycRecord `json:"kyc"`
	CreatedAt               *time.Time `json:"createdAt"`
}

func (w *Worker) UnmarshalJSON(b []byte) error {
	var in workerWire
	if err := json.Unmarshal(b, &in); err != nil {
		return err
	}
	user := pickUser(in.UserID, in.User)
	*w = Worker{
		ID:                      firstNonEmpty(in.ID, in.AltID),
		User:                    user,
		FullName:                in.FullName,
		Email:                   firstNonEmpty(user.Email, in.Email),
		Phone:                   firstNonEmpty(user.Phone, in.Phone),
		WhatsappNumber:          in.WhatsappNumber,
		Gender:                  in.Gender,
		Age:                     in.Age,
		ExperienceLevel:         in.ExperienceLevel,
		AvailabilityStatus:      in.AvailabilityStatus,
		WorkerLevel:             in.WorkerLevel,
		DailyEarningExpectation: in.DailyEarningExpectation,
		Skills:                  in.Skills,
		Kyc:                     in.Kyc,
		CreatedAt:               in.CreatedAt,
	}
	return nil
}

// Employer is an employer profile.
type Employer struct {
	ID                 string     `json:"id"`
	User               UserRef    `json:"user"`
	BusinessName       string     `json:"businessName"`
	ContactPersonName  string     `json:"contactPersonName,omitempty"`
	ContactPersonPhone string     `json:"contactPersonPhone,omitempty"`
	Email              string     `json:"email,omitempty"`
	Phone              string     `json:"phone,omitempty"`
	City               string     `json:"city,omitempty"`
	TotalJobsPosted    int        `json:"totalJobsPosted,omitempty"`
	Kyc                *KycRecord `json:"kyc,omitempty"`
	CreatedAt          *time.Time `json:"createdAt,omitempty"`
}

type employerWire struct {
	ID                 string     `json:"_id"`
	AltID              string     `json:"id"`
	UserID             *UserRef   `json:"userId"`
	User               *UserRef   `json:"user"`
	BusinessName       string     `json:"businessName"`
	CompanyName        string     `json:"companyName"`
	ContactPersonName  string     `json:"contactPersonName"`
	ContactPersonPhone string     `json:"contactPersonPhone"`
	Email              string     `json:"email"`
	Phone              string     `json:"phone"`
	City               string     `json:"city"`
	TotalJobsPosted    int        `json:"totalJobsPosted"`
	Kyc                *KycRecord `json:"kyc"`
	CreatedAt          *time.Time `json:"createdAt"`
}

func (e *Employer) UnmarshalJSON(b []byte) error {
	var in employerWire
	if err := json.Unmarshal(b, &in); err != nil {
		return err
	}
	user := pickUser(in.UserID, in.User)
	*e = Employer{
		ID:                 firstNonEmpty(in.ID, in.AltID),
		User:               user,
		BusinessName:       firstNonEmpty(in.BusinessName, in.CompanyName),
		ContactPersonName:  in.ContactPersonName,
		ContactPersonPhone: in.ContactPersonPhone,
		Email:              firstNonEmpty(user.Email, in.Email),
		Phone:              firstNonEmpty(user.Phone, in.Phone),
		City:               in.City,
		TotalJobsPosted:    in.TotalJobsPosted,
		Kyc:                in.Kyc,
		CreatedAt:          in.CreatedAt,
	}
	return nil
}

// DisplayName is the best available name for the employer.
func (e *Employer) DisplayName() string {
	return firstNonEmpty(e.BusinessName, e.ContactPersonName, Placeholder)
}

// User is an admin-managed account.
type User struct {
	ID          string     `json:"id"`
	Email       string     `json:"email"`
	Phone       string     `json:"phone,omitempty"`
	Role        Ref        `json:"role"`
	IsActive    bool       `json:"isActive"`
	IsBlocked   bool       `json:"isBlocked"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty"`
	CreatedAt   *time.Time `json:"createdAt,omitempty"`
}

func (u *User) UnmarshalJSON(b []byte) error {
	var in struct {
		ID          string     `json:"_id"`
		AltID       string     `json:"id"`
		Email       string     `json:"email"`
		Phone       string     `json:"phone"`
		RoleID      *Ref       `json:"roleId"`
		Role        *Ref       `json:"role"`
		IsActive    bool       `json:"isActive"`
		IsBlocked   bool       `json:"isBlocked"`
		LastLoginAt *time.Time `json:"lastLoginAt"`
		CreatedAt   *time.Time `json:"createdAt"`
	}
	if err := json.Unmarshal(b, &in); err != nil {
		return err
	}
	role := Ref{}
	switch {
	case in.RoleID != nil && in.RoleID.ID != "":
		role = *in.RoleID
	case in.Role != nil:
		role = *in.Role
	}
	*u = User{
		ID:          firstNonEmpty(in.ID, in.AltID),
		Email:       in.Email,
		Phone:       in.Phone,
		Role:        role,
		IsActive:    in.IsActive,
		IsBlocked:   in.IsBlocked,
		LastLoginAt: in.LastLoginAt,
		CreatedAt:   in.CreatedAt,
	}
	return nil
}

// Category is a job category.
type Category struct {
	ID          string     `json:"id"`
	Name        string     `json:"categoryName"`
	Description string     `json:"description,omitempty"`
	IsActive    bool       `json:"isActive"`
	CreatedAt   *time.Time `json:"createdAt,omitempty"`
}

func (c *Category) UnmarshalJSON(b []byte) error {
	var in struct {
		ID           string     `json:"_id"`
		AltID        string     `json:"id"`
		CategoryName string     `json:"categoryName"`
		Name         string     `json:"name"`
		Description  string     `json:"description"`
		IsActive     bool       `json:"isActive"`
		CreatedAt    *time.Time `json:"createdAt"`
	}
	if err := json.Unmarshal(b, &in); err != nil {
		return err
	}
	*c = Category{
		ID:          firstNonEmpty(in.ID, in.AltID),
		Name:        firstNonEmpty(in.CategoryName, in.Name),
		Description: in.Description,
		IsActive:    in.IsActive,
		CreatedAt:   in.CreatedAt,
	}
	return nil
}

// Pagination is the paging block of every list response.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

// Page is one page of a listing.
type Page[T any] struct {
	Items      []T        `json:"items"`
	Pagination Pagination `json:"pagination"`
}

// AuditEntry is one row of a job's audit trail.
type AuditEntry struct {
	Action     string          `json:"action"`
	FromStatus JobStatus       `json:"fromStatus,omitempty"`
	ToStatus   JobStatus       `json:"toStatus,omitempty"`
	Actor      Ref             `json:"actor"`
	Details    json.RawMessage `json:"details,omitempty"`
	CreatedAt  *time.Time      `json:"createdAt,omitempty"`
}

func (a *AuditEntry) UnmarshalJSON(b []byte) error {
	var in struct {
		Action     string          `json:"action"`
		FromStatus JobStatus       `json:"fromStatus"`
		ToStatus   JobStatus       `json:"toStatus"`
		PerformBy  *Ref            `json:"performedBy"`
		Actor      *Ref            `json:"actor"`
		Details    json.RawMessage `json:"details"`
		CreatedAt  *time.Time      `json:"createdAt"`
	}
	if err := json.Unmarshal(b, &in); err != nil {
		return err
	}
	actor := Ref{}
	switch {
	case in.PerformBy != nil:
		actor = *in.PerformBy
	case in.Actor != nil:
		actor = *in.Actor
	}
	*a = AuditEntry{
		Action:     in.Action,
		FromStatus: in.FromStatus,
		ToStatus:   in.ToStatus,
		Actor:      actor,
		Details:    in.Details,
		CreatedAt:  in.CreatedAt,
	}
	return nil
}

// Applicant is a worker who applied to a live job.
type Applicant struct {
	Worker    Ref        `json:"worker"`
	Status    string     `json:"status,omitempty"`
	AppliedAt *time.Time `json:"appliedAt,omitempty"`
}

func (a *Applicant) UnmarshalJSON(b []byte) error {
	var in struct {
		WorkerID  *Ref       `json:"workerId"`
		Worker    *Ref       `json:"worker"`
		Status    string     `json:"status"`
		AppliedAt *time.Time `json:"appliedAt"`
		CreatedAt *time.Time `json:"createdAt"`
	}
	if err := json.Unmarshal(b, &in); err != nil {
		return err
	}
	worker := Ref{}
	switch {
	case in.WorkerID != nil && in.WorkerID.ID != "":
		worker = *in.WorkerID
	case in.Worker != nil:
		worker = *in.Worker
	}
	applied := in.AppliedAt
	if applied == nil {
		applied = in.CreatedAt
	}
	*a = Applicant{Worker: worker, Status: in.Status, AppliedAt: applied}
	return nil
}

// Session is what a successful admin login returns.
type Session struct {
	AccessToken  string          `json:"accessToken"`
	RefreshToken string          `json:"refreshToken,omitempty"`
	User         json.RawMessage `json:"user,omitempty"`
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func pickUser(candidates ...*UserRef) UserRef {
	for _, c := range candidates {
		if c != nil && c.ID != "" {
			return *c
		}
	}
	return UserRef{}
}

// countOrLength reads a field that is either a count or a list of assignees.
func countOrLength(raw json.RawMessage) int {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return 0
	}
	var n int
	if err := json.Unmarshal(raw, &n); err == nil {
		return n
	}
	var list []json.RawMessage
	if err := json.Unmarshal(raw, &list); err == nil {
		return len(list)
	}
	return 0
}

func scalarString(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}
