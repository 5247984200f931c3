package app

import (
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/vburojevic/registrar/internal/app/tui"
	"github.com/vburojevic/registrar/internal/app/tui/components"
	"github.com/vburojevic/registrar/internal/app/tui/state"
	"github.com/vburojevic/registrar/internal/app/tui/widgets"
	"github.com/vburojevic/registrar/internal/models"
)

// -------------------------
// Entity definitions
// -------------------------

var organizationEntity = tui.Entity[models.Organization]{
	Name:     "organizations",
	Title:    "Organizations",
	Singular: "organization",
	Columns: []tui.Column[models.Organization]{
		{ID: "name", Title: "Name", Width: 26, Value: func(o models.Organization) string { return o.Name }, Sortable: true},
		{ID: "type", Title: "Type", Width: 16, Value: func(o models.Organization) string { return widgets.Humanize(o.Type) }, Sortable: true},
		{ID: "status", Title: "Status", Width: 10, Value: func(o models.Organization) string { return o.Status }, Sortable: true},
		{ID: "email", Title: "Email", Width: 24, Value: func(o models.Organization) string { return o.Email }},
		{ID: "createdAt", Title: "Created", Width: 11, Value: func(o models.Organization) string { return widgets.FormatDate(o.CreatedAt) }, Sortable: true},
	},
	Filters: []tui.FilterDef{
		tui.NewFilter("status", "Status", models.OrgStatusActive, models.OrgStatusInactive),
		tui.NewFilter("type", "Type", models.OrgTypeSchool, models.OrgTypeUniversity, models.OrgTypeTrainingCenter),
	},
	Fields: func(o models.Organization) []components.Field {
		return []components.Field{
			{Label: "Name", Value: o.Name},
			{Label: "Slug", Value: o.Slug},
			{Label: "Type", Value: widgets.Humanize(o.Type)},
			{Label: "Status", Value: o.Status},
			{Label: "Email", Value: o.Email},
			{Label: "Phone", Value: o.Phone},
			{Label: "Created", Value: widgets.FormatTime(o.CreatedAt)},
			{Label: "Updated", Value: stamp(o.UpdatedAt)},
			{Label: "ID", Value: o.ID},
		}
	},
	New: func(state.CreateContext) models.Organization {
		return models.Organization{Type: models.OrgTypeSchool, Status: models.OrgStatusActive}
	},
	Form: func(d *models.Organization, editing bool) *huh.Form {
		return huh.NewForm(huh.NewGroup(
			huh.NewInput().Title("Name").Value(&d.Name).Validate(required("name")),
			huh.NewInput().Title("Slug").Description("derived from the name when empty").Value(&d.Slug),
			huh.NewSelect[string]().Title("Type").
				Options(options(models.OrgTypeSchool, models.OrgTypeUniversity, models.OrgTypeTrainingCenter)...).
				Value(&d.Type),
			huh.NewSelect[string]().Title("Status").
				Options(options(models.OrgStatusActive, models.OrgStatusInactive)...).
				Value(&d.Status),
			huh.NewInput().Title("Email").Value(&d.Email),
			huh.NewInput().Title("Phone").Value(&d.Phone),
		))
	},
}

var memberEntity = tui.Entity[models.Member]{
	Name:     "members",
	Title:    "Members",
	Singular: "member",
	Columns: []tui.Column[models.Member]{
		{ID: "name", Title: "Name", Width: 24, Value: models.Member.Label, Sortable: true},
		{ID: "email", Title: "Email", Width: 28, Value: func(m models.Member) string { return m.Email }, Sortable: true},
		{ID: "role", Title: "Role", Width: 9, Value: func(m models.Member) string { return m.Role }, Sortable: true},
		{ID: "status", Title: "Status", Width: 10, Value: func(m models.Member) string { return m.Status }, Sortable: true},
	},
	Filters: []tui.FilterDef{
		tui.NewFilter("role", "Role", models.RoleOwner, models.RoleAdmin, models.RoleStaff, models.RoleTeacher),
		tui.NewFilter("status", "Status", models.MemberStatusActive, models.MemberStatusInvited, models.MemberStatusSuspended),
	},
	Fields: func(m models.Member) []components.Field {
		return []components.Field{
			{Label: "Name", Value: m.Label()},
			{Label: "Email", Value: m.Email},
			{Label: "Role", Value: m.Role},
			{Label: "Status", Value: m.Status},
			{Label: "Organization", Value: m.OrganizationID},
			{Label: "Created", Value: widgets.FormatTime(m.CreatedAt)},
			{Label: "ID", Value: m.ID},
		}
	},
	New: func(state.CreateContext) models.Member {
		return models.Member{Role: models.RoleStaff, Status: models.MemberStatusInvited}
	},
	Form: func(d *models.Member, editing bool) *huh.Form {
		return huh.NewForm(huh.NewGroup(
			huh.NewInput().Title("First name").Value(&d.FirstName).Validate(required("first name")),
			huh.NewInput().Title("Last name").Value(&d.LastName).Validate(required("last name")),
			huh.NewInput().Title("Email").Value(&d.Email).Validate(required("email")),
			huh.NewInput().Title("Organization ID").Value(&d.OrganizationID).Validate(required("organization")),
			huh.NewSelect[string]().Title("Role").
				Options(options(models.RoleOwner, models.RoleAdmin, models.RoleStaff, models.RoleTeacher)...).
				Value(&d.Role),
			huh.NewSelect[string]().Title("Status").
				Options(options(models.MemberStatusActive, models.MemberStatusInvited, models.MemberStatusSuspended)...).
				Value(&d.Status),
		))
	},
}

var studentEntity = tui.Entity[models.Student]{
	Name:     "students",
	Title:    "Students",
	Singular: "student",
	Columns: []tui.Column[models.Student]{
		{ID: "name", Title: "Name", Width: 24, Value: models.Student.Label, Sortable: true},
		{ID: "grade", Title: "Grade", Width: 7, Value: func(s models.Student) string { return s.Grade }, Sortable: true},
		{ID: "status", Title: "Status", Width: 10, Value: func(s models.Student) string { return s.Status }, Sortable: true},
		{ID: "email", Title: "Email", Width: 28, Value: func(s models.Student) string { return s.Email }},
	},
	Filters: []tui.FilterDef{
		tui.NewFilter("status", "Status", models.StudentEnrolled, models.StudentGraduated, models.StudentWithdrawn),
	},
	Fields: func(s models.Student) []components.Field {
		return []components.Field{
			{Label: "Name", Value: s.Label()},
			{Label: "Grade", Value: s.Grade},
			{Label: "Status", Value: s.Status},
			{Label: "Email", Value: s.Email},
			{Label: "Organization", Value: s.OrganizationID},
			{Label: "Enrolled", Value: widgets.FormatDate(s.CreatedAt)},
			{Label: "ID", Value: s.ID},
		}
	},
	New: func(state.CreateContext) models.Student {
		return models.Student{Status: models.StudentEnrolled}
	},
	Form: func(d *models.Student, editing bool) *huh.Form {
		return huh.NewForm(huh.NewGroup(
			huh.NewInput().Title("First name").Value(&d.FirstName).Validate(required("first name")),
			huh.NewInput().Title("Last name").Value(&d.LastName).Validate(required("last name")),
			huh.NewInput().Title("Email").Value(&d.Email),
			huh.NewInput().Title("Grade").Value(&d.Grade),
			huh.NewInput().Title("Organization ID").Value(&d.OrganizationID).Validate(required("organization")),
			huh.NewSelect[string]().Title("Status").
				Options(options(models.StudentEnrolled, models.StudentGraduated, models.StudentWithdrawn)...).
				Value(&d.Status),
		))
	},
}

// Notifications are filtered and created per audience; the backend calls
// the same field "branch".
var notificationEntity = tui.Entity[models.Notification]{
	Name:     "notifications",
	Title:    "Notifications",
	Singular: "notification",
	Columns: []tui.Column[models.Notification]{
		{ID: "title", Title: "Title", Width: 30, Value: func(n models.Notification) string { return n.Title }, Sortable: true},
		{ID: "branch", Title: "Audience", Width: 13, Value: func(n models.Notification) string { return n.Branch }, Sortable: true},
		{ID: "type", Title: "Type", Width: 13, Value: func(n models.Notification) string { return n.Type }, Sortable: true},
		{ID: "status", Title: "Status", Width: 10, Value: func(n models.Notification) string { return n.Status }, Sortable: true},
		{ID: "createdAt", Title: "Created", Width: 11, Value: func(n models.Notification) string { return widgets.FormatDate(n.CreatedAt) }, Sortable: true},
	},
	Filters: []tui.FilterDef{
		tui.NewFilter("audience", "Audience", models.BranchOrganization, models.BranchMembers, models.BranchStudents),
		tui.NewFilter("type", "Type", models.NotificationAnnouncement, models.NotificationAlert, models.NotificationReminder),
		tui.NewFilter("status", "Status", models.NotificationDraft, models.NotificationScheduled, models.NotificationSent),
	},
	QueryNames: map[string]string{"audience": "branch"},
	Fields: func(n models.Notification) []components.Field {
		return []components.Field{
			{Label: "Title", Value: n.Title},
			{Label: "Audience", Value: n.Branch},
			{Label: "Type", Value: n.Type},
			{Label: "Status", Value: n.Status},
			{Label: "Body", Value: n.Body},
			{Label: "Created", Value: widgets.FormatTime(n.CreatedAt)},
			{Label: "ID", Value: n.ID},
		}
	},
	CreateKinds: []tui.CreateKind{
		{Label: "the whole organization", Context: state.CreateContext{"audience": models.BranchOrganization}},
		{Label: "members", Context: state.CreateContext{"audience": models.BranchMembers}},
		{Label: "students", Context: state.CreateContext{"audience": models.BranchStudents}},
	},
	New: func(ctx state.CreateContext) models.Notification {
		branch := ctx["audience"]
		if branch == "" {
			branch = models.BranchOrganization
		}
		return models.Notification{
			Branch: branch,
			Type:   models.NotificationAnnouncement,
			Status: models.NotificationDraft,
		}
	},
	Form: func(d *models.Notification, editing bool) *huh.Form {
		fields := []huh.Field{
			huh.NewInput().Title("Title").Value(&d.Title).Validate(required("title")),
			huh.NewText().Title("Body").Lines(4).Value(&d.Body),
			huh.NewSelect[string]().Title("Type").
				Options(options(models.NotificationAnnouncement, models.NotificationAlert, models.NotificationReminder)...).
				Value(&d.Type),
			huh.NewSelect[string]().Title("Status").
				Options(options(models.NotificationDraft, models.NotificationScheduled, models.NotificationSent)...).
				Value(&d.Status),
		}
		if editing {
			fields = append(fields, huh.NewSelect[string]().Title("Audience").
				Options(options(models.BranchOrganization, models.BranchMembers, models.BranchStudents)...).
				Value(&d.Branch))
		}
		return huh.NewForm(huh.NewGroup(fields...))
	},
}

var addressEntity = tui.Entity[models.Address]{
	Name:     "addresses",
	Title:    "Addresses",
	Singular: "address",
	Columns: []tui.Column[models.Address]{
		{ID: "label", Title: "Label", Width: 16, Value: func(a models.Address) string { return a.Tag }, Sortable: true},
		{ID: "street", Title: "Street", Width: 26, Value: func(a models.Address) string { return a.Street }},
		{ID: "city", Title: "City", Width: 14, Value: func(a models.Address) string { return a.City }, Sortable: true},
		{ID: "country", Title: "Country", Width: 8, Value: func(a models.Address) string { return a.Country }, Sortable: true},
		{ID: "primary", Title: "Primary", Width: 8, Value: func(a models.Address) string { return yesNo(a.Primary) }},
	},
	Filters: []tui.FilterDef{
		tui.NewFilter("primary", "Primary", "true", "false"),
	},
	Fields: func(a models.Address) []components.Field {
		return []components.Field{
			{Label: "Label", Value: a.Tag},
			{Label: "Street", Value: a.Street},
			{Label: "City", Value: a.City},
			{Label: "Postal code", Value: a.PostalCode},
			{Label: "Country", Value: a.Country},
			{Label: "Primary", Value: yesNo(a.Primary)},
			{Label: "Organization", Value: a.OrganizationID},
			{Label: "ID", Value: a.ID},
		}
	},
	New: func(state.CreateContext) models.Address {
		return models.Address{Tag: "Main campus"}
	},
	Form: func(d *models.Address, editing bool) *huh.Form {
		return huh.NewForm(huh.NewGroup(
			huh.NewInput().Title("Label").Value(&d.Tag).Validate(required("label")),
			huh.NewInput().Title("Street").Value(&d.Street).Validate(required("street")),
			huh.NewInput().Title("City").Value(&d.City).Validate(required("city")),
			huh.NewInput().Title("Postal code").Value(&d.PostalCode),
			huh.NewInput().Title("Country").Description("two-letter code, e.g. HR").CharLimit(2).Value(&d.Country).Validate(required("country")),
			huh.NewInput().Title("Organization ID").Value(&d.OrganizationID).Validate(required("organization")),
			huh.NewConfirm().Title("Primary address").Value(&d.Primary),
		))
	},
}

var linkEntity = tui.Entity[models.Link]{
	Name:     "links",
	Title:    "Links",
	Singular: "link",
	Columns: []tui.Column[models.Link]{
		{ID: "title", Title: "Title", Width: 24, Value: func(l models.Link) string { return l.Title }, Sortable: true},
		{ID: "kind", Title: "Kind", Width: 10, Value: func(l models.Link) string { return l.Kind }, Sortable: true},
		{ID: "url", Title: "URL", Width: 36, Value: func(l models.Link) string { return l.URL }, Sortable: true},
	},
	Filters: []tui.FilterDef{
		tui.NewFilter("kind", "Kind", models.LinkWebsite, models.LinkSocial, models.LinkDocument),
	},
	Fields: func(l models.Link) []components.Field {
		return []components.Field{
			{Label: "Title", Value: l.Title},
			{Label: "Kind", Value: l.Kind},
			{Label: "URL", Value: l.URL},
			{Label: "Organization", Value: l.OrganizationID},
			{Label: "ID", Value: l.ID},
		}
	},
	New: func(state.CreateContext) models.Link {
		return models.Link{Kind: models.LinkWebsite}
	},
	Form: func(d *models.Link, editing bool) *huh.Form {
		return huh.NewForm(huh.NewGroup(
			huh.NewInput().Title("Title").Value(&d.Title).Validate(required("title")),
			huh.NewInput().Title("URL").Placeholder("https://").Value(&d.URL).Validate(required("url")),
			huh.NewSelect[string]().Title("Kind").
				Options(options(models.LinkWebsite, models.LinkSocial, models.LinkDocument)...).
				Value(&d.Kind),
			huh.NewInput().Title("Organization ID").Value(&d.OrganizationID).Validate(required("organization")),
		))
	},
}

func options(values ...string) []huh.Option[string] {
	out := make([]huh.Option[string], 0, len(values))
	for _, v := range values {
		out = append(out, huh.NewOption(widgets.Humanize(v), v))
	}
	return out
}

func required(name string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return errors.New(name + " is required")
		}
		return nil
	}
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}


// stamp shows a timestamp with its age, e.g. "2026-03-01 12:00 (3h ago)".
func stamp(ts time.Time) string {
	if ts.IsZero() {
		return ""
	}
	return widgets.FormatTime(ts) + " (" + widgets.FormatSince(ts, time.Now()) + ")"
}
