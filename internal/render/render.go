package render

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"laborctl/internal/models"
	"laborctl/internal/services"
	"laborctl/internal/workflow"
)

const timeLayout = "2006-01-02 15:04"

var badgeColors = map[models.BadgeClass]*color.Color{
	models.BadgeSuccess: color.New(color.FgGreen),
	models.BadgeInfo:    color.New(color.FgCyan),
	models.BadgeMuted:   color.New(color.Faint),
	models.BadgeDanger:  color.New(color.FgRed),
	models.BadgeWarning: color.New(color.FgYellow),
}

// Badge colors label by its badge class. Unknown classes render plain.
func Badge(class models.BadgeClass, label string) string {
	if c, ok := badgeColors[class]; ok {
		return c.Sprint(label)
	}
	return label
}

// Printer writes tables for the admin entities.
type Printer struct {
	w io.Writer
}

func New(w io.Writer) *Printer {
	return &Printer{w: w}
}

func (p *Printer) table(header ...string) *tablewriter.Table {
	table := tablewriter.NewWriter(p.w)
	if len(header) > 0 {
		table.SetHeader(header)
	}
	table.SetBorder(false)
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	return table
}

// details renders key/value pairs, skipping empty values.
func (p *Printer) details(rows [][2]string) {
	table := p.table()
	table.SetColumnSeparator("")
	for _, r := range rows {
		if r[1] == "" {
			continue
		}
		table.Append([]string{r[0] + ":", r[1]})
	}
	table.Render()
}

func (p *Printer) footer(pg models.Pagination, shown int) {
	if pg.Pages > 0 {
		fmt.Fprintf(p.w, "Page %d of %d (%d total)\n", pg.Page, pg.Pages, pg.Total)
		return
	}
	fmt.Fprintf(p.w, "Displayed %d items.\n", shown)
}

func (p *Printer) empty(what string) {
	fmt.Fprintf(p.w, "No %s found.\n", what)
}

// Message prints a one-line confirmation.
func (p *Printer) Message(format string, args ...any) {
	fmt.Fprintf(p.w, format+"\n", args...)
}

func (p *Printer) Jobs(page models.Page[models.Job]) {
	if len(page.Items) == 0 {
		p.empty("jobs")
		return
	}
	table := p.table("ID", "Title", "Employer", "Workers", "Status", "Start")
	for _, j := range page.Items {
		table.Append([]string{
			j.ID,
			j.Title,
			orPlaceholder(j.Employer.Name, j.Employer.ID),
			fmt.Sprintf("%d/%d", j.WorkersAssigned, j.WorkersRequired),
			Badge(models.JobStatusBadgeClass(j.Status), models.JobStatusLabel(j.Status)),
			formatTime(j.StartDate),
		})
	}
	table.Render()
	p.footer(page.Pagination, len(page.Items))
}

// Job prints a job with its status and the actions that status allows.
func (p *Printer) Job(v *services.JobView) {
	j := v.Job
	rows := [][2]string{
		{"ID", j.ID},
		{"Title", j.Title},
		{"Employer", orPlaceholder(j.Employer.Name, j.Employer.ID)},
		{"Status", Badge(v.Badge, v.StatusLabel)},
		{"Workers", fmt.Sprintf("%d assigned of %d required", j.WorkersAssigned, j.WorkersRequired)},
		{"Work type", j.WorkType},
		{"Shift", j.ShiftType},
		{"Payout", formatPayout(j)},
		{"Start", formatTimeOrEmpty(j.StartDate)},
		{"End", formatTimeOrEmpty(j.EndDate)},
		{"Duration", j.Duration},
		{"Skills", joinRefs(j.Skills)},
		{"Cancellation", string(j.CancellationReason)},
		{"Cancellation note", j.CancellationNote},
	}
	if j.ServiceChargeAmount != nil {
		rows = append(rows, [2]string{"Service charge", formatAmount(*j.ServiceChargeAmount)})
	}
	p.details(rows)
	fmt.Fprintf(p.w, "Allowed actions: %s\n", joinActions(v.Allowed))
}

func (p *Printer) Workers(page models.Page[models.Worker]) {
	if len(page.Items) == 0 {
		p.empty("workers")
		return
	}
	table := p.table("ID", "Name", "Phone", "Level", "Availability", "KYC")
	for _, w := range page.Items {
		table.Append([]string{
			w.ID,
			orPlaceholder(w.FullName, w.User.Email),
			orPlaceholder(w.Phone, w.User.Phone),
			orPlaceholder(w.WorkerLevel),
			orPlaceholder(w.AvailabilityStatus),
			kycBadge(w.Kyc),
		})
	}
	table.Render()
	p.footer(page.Pagination, len(page.Items))
}

func (p *Printer) Employers(page models.Page[models.Employer]) {
	if len(page.Items) == 0 {
		p.empty("employers")
		return
	}
	table := p.table("ID", "Business", "Contact", "City", "Jobs", "KYC")
	for _, e := range page.Items {
		table.Append([]string{
			e.ID,
			e.DisplayName(),
			orPlaceholder(e.ContactPersonName, e.ContactPersonPhone, e.Phone),
			orPlaceholder(e.City),
			strconv.Itoa(e.TotalJobsPosted),
			kycBadge(e.Kyc),
		})
	}
	table.Render()
	p.footer(page.Pagination, len(page.Items))
}

func (p *Printer) Worker(w *models.Worker) {
	p.details([][2]string{
		{"ID", w.ID},
		{"Name", w.FullName},
		{"Email", w.Email},
		{"Phone", w.Phone},
		{"WhatsApp", w.WhatsappNumber},
		{"Gender", w.Gender},
		{"Experience", w.ExperienceLevel},
		{"Level", w.WorkerLevel},
		{"Availability", w.AvailabilityStatus},
		{"Skills", joinRefs(w.Skills)},
		{"Joined", formatTimeOrEmpty(w.CreatedAt)},
	})
}

func (p *Printer) Employer(e *models.Employer) {
	p.details([][2]string{
		{"ID", e.ID},
		{"Business", e.DisplayName()},
		{"Contact", e.ContactPersonName},
		{"Contact phone", e.ContactPersonPhone},
		{"Email", e.Email},
		{"Phone", e.Phone},
		{"City", e.City},
		{"Jobs posted", strconv.Itoa(e.TotalJobsPosted)},
		{"Joined", formatTimeOrEmpty(e.CreatedAt)},
	})
}

// Kyc prints the KYC state of a profile and the images available for review.
func (p *Printer) Kyc(v *services.KycView) {
	rows := [][2]string{
		{"ID", v.ID},
		{"Name", v.Name},
		{"Type", string(v.Kind)},
		{"KYC status", Badge(v.Badge, v.StatusLabel)},
		{"Images", Badge(v.ImageBadge, v.ImageVerification)},
	}
	if v.Kyc != nil {
		rows = append(rows, [2]string{"Rejection reason", v.Kyc.KycRejectedReason})
	}
	p.details(rows)

	if len(v.Images) > 0 {
		table := p.table("Image", "Label", "URL")
		for _, item := range v.Images {
			table.Append([]string{item.ID, item.Label, item.ImageURL})
		}
		table.Render()
	}

	var allowed []string
	if v.Actions.CanApproveKyc {
		allowed = append(allowed, "approve-kyc")
	}
	if v.Actions.CanReviewImages {
		allowed = append(allowed, "review")
	}
	fmt.Fprintf(p.w, "Allowed actions: %s\n", orPlaceholder(strings.Join(allowed, ", ")))
}

func (p *Printer) Users(page models.Page[models.User]) {
	if len(page.Items) == 0 {
		p.empty("users")
		return
	}
	table := p.table("ID", "Email", "Phone", "Role", "Active", "Blocked", "Last login")
	for _, u := range page.Items {
		table.Append([]string{
			u.ID,
			u.Email,
			orPlaceholder(u.Phone),
			orPlaceholder(u.Role.Name, u.Role.ID),
			yesNo(u.IsActive),
			yesNo(u.IsBlocked),
			formatTime(u.LastLoginAt),
		})
	}
	table.Render()
	p.footer(page.Pagination, len(page.Items))
}

func (p *Printer) User(u *models.User) {
	p.details([][2]string{
		{"ID", u.ID},
		{"Email", u.Email},
		{"Phone", u.Phone},
		{"Role", orPlaceholder(u.Role.Name, u.Role.ID)},
		{"Active", yesNo(u.IsActive)},
		{"Blocked", yesNo(u.IsBlocked)},
		{"Last login", formatTimeOrEmpty(u.LastLoginAt)},
		{"Created", formatTimeOrEmpty(u.CreatedAt)},
	})
}

func (p *Printer) Categories(page models.Page[models.Category]) {
	if len(page.Items) == 0 {
		p.empty("categories")
		return
	}
	table := p.table("ID", "Name", "Active", "Description")
	for _, c := range page.Items {
		table.Append([]string{c.ID, c.Name, yesNo(c.IsActive), orPlaceholder(c.Description)})
	}
	table.Render()
	p.footer(page.Pagination, len(page.Items))
}

func (p *Printer) Category(c *models.Category) {
	p.details([][2]string{
		{"ID", c.ID},
		{"Name", c.Name},
		{"Description", c.Description},
		{"Active", yesNo(c.IsActive)},
		{"Created", formatTimeOrEmpty(c.CreatedAt)},
	})
}

// Refs lists plain id/name pairs such as roles and skills.
func (p *Printer) Refs(what string, page models.Page[models.Ref]) {
	if len(page.Items) == 0 {
		p.empty(what)
		return
	}
	table := p.table("ID", "Name")
	for _, r := range page.Items {
		table.Append([]string{r.ID, orPlaceholder(r.Name)})
	}
	table.Render()
	p.footer(page.Pagination, len(page.Items))
}

func (p *Printer) Applicants(applicants []models.Applicant) {
	if len(applicants) == 0 {
		p.empty("applicants")
		return
	}
	table := p.table("Worker", "Name", "Status", "Applied")
	for _, a := range applicants {
		table.Append([]string{a.Worker.ID, orPlaceholder(a.Worker.Name), orPlaceholder(a.Status), formatTime(a.AppliedAt)})
	}
	table.Render()
	fmt.Fprintf(p.w, "Displayed %d applicants.\n", len(applicants))
}

func (p *Printer) Audit(page models.Page[models.AuditEntry]) {
	if len(page.Items) == 0 {
		p.empty("audit entries")
		return
	}
	table := p.table("When", "Action", "From", "To", "By")
	for _, e := range page.Items {
		table.Append([]string{
			formatTime(e.CreatedAt),
			e.Action,
			models.JobStatusLabel(e.FromStatus),
			models.JobStatusLabel(e.ToStatus),
			orPlaceholder(e.Actor.Name, e.Actor.ID),
		})
	}
	table.Render()
	p.footer(page.Pagination, len(page.Items))
}

// StatusVocabulary prints every job status with its label, badge and the
// actions it allows, followed by the KYC statuses.
func (p *Printer) StatusVocabulary() {
	table := p.table("Status", "Label", "Badge", "Allowed actions")
	for _, s := range models.AllJobStatuses {
		class := models.JobStatusBadgeClass(s)
		table.Append([]string{
			string(s),
			models.JobStatusLabel(s),
			Badge(class, string(class)),
			joinActions(workflow.AllowedJobActions(s)),
		})
	}
	table.Render()

	fmt.Fprintln(p.w)
	kyc := p.table("KYC status", "Label", "Badge")
	for _, s := range []models.KycStatus{models.KycStatusPending, models.KycStatusApproved, models.KycStatusRejected} {
		class := models.KycBadgeClass(string(s))
		kyc.Append([]string{string(s), models.KycLabel(string(s)), Badge(class, string(class))})
	}
	kyc.Render()
}

func kycBadge(k *models.KycRecord) string {
	if k == nil {
		return Badge(models.BadgeMuted, models.Placeholder)
	}
	return Badge(models.KycBadgeClass(string(k.Status)), models.KycLabel(string(k.Status)))
}

func joinActions(actions []workflow.JobAction) string {
	if len(actions) == 0 {
		return "none"
	}
	names := make([]string, len(actions))
	for i, a := range actions {
		names[i] = string(a)
	}
	return strings.Join(names, ", ")
}

func joinRefs(refs []models.Ref) string {
	names := make([]string, 0, len(refs))
	for _, r := range refs {
		names = append(names, orPlaceholder(r.Name, r.ID))
	}
	return strings.Join(names, ", ")
}

func formatPayout(j models.Job) string {
	switch {
	case j.PerDayPayout > 0:
		return formatAmount(j.PerDayPayout) + " per day"
	case j.SalaryOrPayout > 0:
		out := formatAmount(j.SalaryOrPayout)
		if j.PayoutType != "" {
			out += " " + strings.ToLower(j.PayoutType)
		}
		return out
	}
	return ""
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatTime(t *time.Time) string {
	if t == nil || t.IsZero() {
		return models.Placeholder
	}
	return t.Local().Format(timeLayout)
}

func formatTimeOrEmpty(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.Local().Format(timeLayout)
}

func orPlaceholder(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return models.Placeholder
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
