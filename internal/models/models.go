// Package models defines the back-office records and their validation rules.
package models

import (
	"strconv"
	"strings"
	"time"
)

// Record is implemented by every entity the store and API can page over.
type Record[T any] interface {
	Key() string
	Label() string
	// Field returns the string form of a column used for filtering and sorting.
	Field(name string) string
	SearchText() string
	WithKey(key string) T
	Created() time.Time
	// Stamped sets the creation time (now when created is zero) and the
	// update time.
	Stamped(created, now time.Time) T
	Normalized() T
}

// Organization statuses and types.
const (
	OrgStatusActive   = "active"
	OrgStatusInactive = "inactive"

	OrgTypeSchool         = "school"
	OrgTypeUniversity     = "university"
	OrgTypeTrainingCenter = "training_center"
)

// Organization is a tenant-level institution.
type Organization struct {
	ID        string    `json:"id"`
	Name      string    `json:"name" validate:"required,max=120"`
	Slug      string    `json:"slug" validate:"omitempty,max=64"`
	Type      string    `json:"type" validate:"required,oneof=school university training_center"`
	Status    string    `json:"status" validate:"required,oneof=active inactive"`
	Email     string    `json:"email,omitempty" validate:"omitempty,email"`
	Phone     string    `json:"phone,omitempty" validate:"omitempty,max=32"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (o Organization) Key() string   { return o.ID }
func (o Organization) Label() string { return o.Name }

func (o Organization) Field(name string) string {
	switch name {
	case "id":
		return o.ID
	case "name":
		return o.Name
	case "slug":
		return o.Slug
	case "type":
		return o.Type
	case "status":
		return o.Status
	case "email":
		return o.Email
	case "phone":
		return o.Phone
	case "createdAt":
		return timeField(o.CreatedAt)
	case "updatedAt":
		return timeField(o.UpdatedAt)
	}
	return ""
}

func (o Organization) SearchText() string {
	return joinFields(o.Name, o.Slug, o.Email, o.Phone)
}

func (o Organization) WithKey(key string) Organization {
	o.ID = key
	return o
}

func (o Organization) Created() time.Time { return o.CreatedAt }

func (o Organization) Stamped(created, now time.Time) Organization {
	o.CreatedAt, o.UpdatedAt = stamp(created, now)
	return o
}

func (o Organization) Normalized() Organization {
	o.Name = strings.TrimSpace(o.Name)
	o.Slug = strings.TrimSpace(o.Slug)
	if o.Slug == "" {
		o.Slug = Slugify(o.Name)
	}
	o.Type = lower(o.Type)
	o.Status = lower(o.Status)
	o.Email = lower(o.Email)
	o.Phone = strings.TrimSpace(o.Phone)
	return o
}

// Member roles and statuses.
const (
	RoleOwner   = "owner"
	RoleAdmin   = "admin"
	RoleStaff   = "staff"
	RoleTeacher = "teacher"

	MemberStatusActive    = "active"
	MemberStatusInvited   = "invited"
	MemberStatusSuspended = "suspended"
)

// Member is a staff account attached to an organization.
type Member struct {
	ID             string    `json:"id"`
	OrganizationID string    `json:"organizationId" validate:"required"`
	FirstName      string    `json:"firstName" validate:"required,max=80"`
	LastName       string    `json:"lastName" validate:"required,max=80"`
	Email          string    `json:"email" validate:"required,email"`
	Role           string    `json:"role" validate:"required,oneof=owner admin staff teacher"`
	Status         string    `json:"status" validate:"required,oneof=active invited suspended"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func (m Member) Key() string   { return m.ID }
func (m Member) Label() string { return fullName(m.FirstName, m.LastName) }

func (m Member) Field(name string) string {
	switch name {
	case "id":
		return m.ID
	case "organizationId":
		return m.OrganizationID
	case "name":
		return m.Label()
	case "firstName":
		return m.FirstName
	case "lastName":
		return m.LastName
	case "email":
		return m.Email
	case "role":
		return m.Role
	case "status":
		return m.Status
	case "createdAt":
		return timeField(m.CreatedAt)
	case "updatedAt":
		return timeField(m.UpdatedAt)
	}
	return ""
}

func (m Member) SearchText() string {
	return joinFields(m.FirstName, m.LastName, m.Email, m.Role)
}

func (m Member) WithKey(key string) Member {
	m.ID = key
	return m
}

func (m Member) Created() time.Time { return m.CreatedAt }

func (m Member) Stamped(created, now time.Time) Member {
	m.CreatedAt, m.UpdatedAt = stamp(created, now)
	return m
}

func (m Member) Normalized() Member {
	m.OrganizationID = strings.TrimSpace(m.OrganizationID)
	m.FirstName = strings.TrimSpace(m.FirstName)
	m.LastName = strings.TrimSpace(m.LastName)
	m.Email = lower(m.Email)
	m.Role = lower(m.Role)
	m.Status = lower(m.Status)
	return m
}

// Student statuses.
const (
	StudentEnrolled  = "enrolled"
	StudentGraduated = "graduated"
	StudentWithdrawn = "withdrawn"
)

// Student is a learner enrolled in an organization.
type Student struct {
	ID             string    `json:"id"`
	OrganizationID string    `json:"organizationId" validate:"required"`
	FirstName      string    `json:"firstName" validate:"required,max=80"`
	LastName       string    `json:"lastName" validate:"required,max=80"`
	Email          string    `json:"email,omitempty" validate:"omitempty,email"`
	Grade          string    `json:"grade,omitempty" validate:"omitempty,max=16"`
	Status         string    `json:"status" validate:"required,oneof=enrolled graduated withdrawn"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func (s Student) Key() string   { return s.ID }
func (s Student) Label() string { return fullName(s.FirstName, s.LastName) }

func (s Student) Field(name string) string {
	switch name {
	case "id":
		return s.ID
	case "organizationId":
		return s.OrganizationID
	case "name":
		return s.Label()
	case "firstName":
		return s.FirstName
	case "lastName":
		return s.LastName
	case "email":
		return s.Email
	case "grade":
		return s.Grade
	case "status":
		return s.Status
	case "createdAt":
		return timeField(s.CreatedAt)
	case "updatedAt":
		return timeField(s.UpdatedAt)
	}
	return ""
}

func (s Student) SearchText() string {
	return joinFields(s.FirstName, s.LastName, s.Email, s.Grade)
}

func (s Student) WithKey(key string) Student {
	s.ID = key
	return s
}

func (s Student) Created() time.Time { return s.CreatedAt }

func (s Student) Stamped(created, now time.Time) Student {
	s.CreatedAt, s.UpdatedAt = stamp(created, now)
	return s
}

func (s Student) Normalized() Student {
	s.OrganizationID = strings.TrimSpace(s.OrganizationID)
	s.FirstName = strings.TrimSpace(s.FirstName)
	s.LastName = strings.TrimSpace(s.LastName)
	s.Email = lower(s.Email)
	s.Grade = strings.TrimSpace(s.Grade)
	s.Status = lower(s.Status)
	return s
}

// Notification branches (audiences), types and statuses.
const (
	BranchOrganization = "organization"
	BranchMembers      = "members"
	BranchStudents     = "students"

	NotificationAnnouncement = "announcement"
	NotificationAlert        = "alert"
	NotificationReminder     = "reminder"

	NotificationDraft     = "draft"
	NotificationScheduled = "scheduled"
	NotificationSent      = "sent"
)

// Notification is a message addressed to one branch of the institution.
type Notification struct {
	ID        string    `json:"id"`
	Branch    string    `json:"branch" validate:"required,oneof=organization members students"`
	Type      string    `json:"type" validate:"required,oneof=announcement alert reminder"`
	Title     string    `json:"title" validate:"required,max=160"`
	Body      string    `json:"body,omitempty" validate:"omitempty,max=2000"`
	Status    string    `json:"status" validate:"required,oneof=draft scheduled sent"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (n Notification) Key() string   { return n.ID }
func (n Notification) Label() string { return n.Title }

func (n Notification) Field(name string) string {
	switch name {
	case "id":
		return n.ID
	case "branch":
		return n.Branch
	case "type":
		return n.Type
	case "title":
		return n.Title
	case "status":
		return n.Status
	case "createdAt":
		return timeField(n.CreatedAt)
	case "updatedAt":
		return timeField(n.UpdatedAt)
	}
	return ""
}

func (n Notification) SearchText() string {
	return joinFields(n.Title, n.Body)
}

func (n Notification) WithKey(key string) Notification {
	n.ID = key
	return n
}

func (n Notification) Created() time.Time { return n.CreatedAt }

func (n Notification) Stamped(created, now time.Time) Notification {
	n.CreatedAt, n.UpdatedAt = stamp(created, now)
	return n
}

func (n Notification) Normalized() Notification {
	n.Branch = lower(n.Branch)
	n.Type = lower(n.Type)
	n.Title = strings.TrimSpace(n.Title)
	n.Body = strings.TrimSpace(n.Body)
	n.Status = lower(n.Status)
	return n
}

// Address is a postal address of an organization.
type Address struct {
	ID             string    `json:"id"`
	OrganizationID string    `json:"organizationId" validate:"required"`
	Tag            string    `json:"label" validate:"required,max=80"`
	Street         string    `json:"street" validate:"required,max=160"`
	City           string    `json:"city" validate:"required,max=80"`
	PostalCode     string    `json:"postalCode,omitempty" validate:"omitempty,max=16"`
	Country        string    `json:"country" validate:"required,iso3166_1_alpha2"`
	Primary        bool      `json:"primary"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func (a Address) Key() string { return a.ID }

func (a Address) Label() string {
	if a.City == "" {
		return a.Tag
	}
	return a.Tag + " (" + a.City + ")"
}

func (a Address) Field(name string) string {
	switch name {
	case "id":
		return a.ID
	case "organizationId":
		return a.OrganizationID
	case "label":
		return a.Tag
	case "street":
		return a.Street
	case "city":
		return a.City
	case "postalCode":
		return a.PostalCode
	case "country":
		return a.Country
	case "primary":
		return strconv.FormatBool(a.Primary)
	case "createdAt":
		return timeField(a.CreatedAt)
	case "updatedAt":
		return timeField(a.UpdatedAt)
	}
	return ""
}

func (a Address) SearchText() string {
	return joinFields(a.Tag, a.Street, a.City, a.PostalCode, a.Country)
}

func (a Address) WithKey(key string) Address {
	a.ID = key
	return a
}

func (a Address) Created() time.Time { return a.CreatedAt }

func (a Address) Stamped(created, now time.Time) Address {
	a.CreatedAt, a.UpdatedAt = stamp(created, now)
	return a
}

func (a Address) Normalized() Address {
	a.OrganizationID = strings.TrimSpace(a.OrganizationID)
	a.Tag = strings.TrimSpace(a.Tag)
	a.Street = strings.TrimSpace(a.Street)
	a.City = strings.TrimSpace(a.City)
	a.PostalCode = strings.TrimSpace(a.PostalCode)
	a.Country = strings.ToUpper(strings.TrimSpace(a.Country))
	return a
}

// Link kinds.
const (
	LinkWebsite  = "website"
	LinkSocial   = "social"
	LinkDocument = "document"
)

// Link is an external URL attached to an organization.
type Link struct {
	ID             string    `json:"id"`
	OrganizationID string    `json:"organizationId" validate:"required"`
	Title          string    `json:"title" validate:"required,max=120"`
	URL            string    `json:"url" validate:"required,url"`
	Kind           string    `json:"kind" validate:"required,oneof=website social document"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func (l Link) Key() string   { return l.ID }
func (l Link) Label() string { return l.Title }

func (l Link) Field(name string) string {
	switch name {
	case "id":
		return l.ID
	case "organizationId":
		return l.OrganizationID
	case "title":
		return l.Title
	case "url":
		return l.URL
	case "kind":
		return l.Kind
	case "createdAt":
		return timeField(l.CreatedAt)
	case "updatedAt":
		return timeField(l.UpdatedAt)
	}
	return ""
}

func (l Link) SearchText() string {
	return joinFields(l.Title, l.URL)
}

func (l Link) WithKey(key string) Link {
	l.ID = key
	return l
}

func (l Link) Created() time.Time { return l.CreatedAt }

func (l Link) Stamped(created, now time.Time) Link {
	l.CreatedAt, l.UpdatedAt = stamp(created, now)
	return l
}

func (l Link) Normalized() Link {
	l.OrganizationID = strings.TrimSpace(l.OrganizationID)
	l.Title = strings.TrimSpace(l.Title)
	l.URL = strings.TrimSpace(l.URL)
	l.Kind = lower(l.Kind)
	return l
}

// Slugify lowercases s and joins its alphanumeric runs with dashes.
func Slugify(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case b.Len() > 0 && !dash:
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

func stamp(created, now time.Time) (time.Time, time.Time) {
	now = now.UTC()
	if created.IsZero() {
		return now, now
	}
	return created.UTC(), now
}

// timeField formats timestamps so that lexical order matches time order.
func timeField(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format("2006-01-02T15:04:05.000000000Z")
}

func fullName(first, last string) string {
	return strings.TrimSpace(first + " " + last)
}

func joinFields(parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, " ")
}

func lower(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
