package app

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/vburojevic/registrar/internal/models"
	"github.com/vburojevic/registrar/internal/store"
)

// -------------------------
// seed
// -------------------------

var (
	seedFirstNames = []string{"Ana", "Luka", "Iva", "Marko", "Petra", "Ivan", "Maja", "Filip", "Lea", "Karlo", "Nika", "Tomislav"}
	seedLastNames  = []string{"Horvat", "Kovač", "Babić", "Marić", "Jurić", "Novak", "Knežević", "Vuković", "Perić", "Pavlović"}
	seedOrgWords   = []string{"Northside", "Riverside", "Hillcrest", "Lakeview", "Oakwood", "Maple", "Harbor", "Summit", "Cedar", "Meadow"}
	seedCities     = []string{"Zagreb", "Split", "Rijeka", "Osijek", "Zadar", "Ljubljana", "Graz"}
	seedCountries  = []string{"HR", "HR", "HR", "HR", "HR", "SI", "AT"}
	seedTitles     = []string{"Term starts Monday", "Parent evening", "Exam schedule published", "Library closed", "Fire drill", "Staff meeting", "Sports day"}
)

// seedSummary counts the records written per collection.
type seedSummary map[string]int

func (c *cli) newSeedCmd() *cobra.Command {
	var (
		count int
		seed  uint64
	)
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Replace the local data of a tenant with demo records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if count < 1 {
				return fmt.Errorf("invalid --count %d", count)
			}
			st, err := store.Open(c.cfg.DataDir)
			if err != nil {
				return err
			}
			if seed == 0 {
				seed = uint64(time.Now().UnixNano())
			}
			ctx, cancel := c.context(cmd)
			defer cancel()
			sum, err := seedStore(ctx, st, c.cfg.Tenant, count, rand.New(rand.NewPCG(seed, seed>>1)), time.Now())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Seeded tenant %q in %s\n", c.cfg.Tenant, st.Dir())
			for _, b := range bindings() {
				fmt.Fprintf(out, "  %-14s %d\n", b.Name(), sum[b.Name()])
			}
			tenants, err := st.Tenants()
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Tenants in store: %s\n", strings.Join(tenants, ", "))
			return nil
		},
	}
	cmd.Flags().IntVar(&count, "count", defaultSeedSize, "Number of organizations to create")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "Random seed (0: time based)")
	return cmd
}

// seedStore writes count organizations plus their members, students,
// addresses and links, and a set of notifications. Existing records of the
// tenant are replaced.
func seedStore(ctx context.Context, st *store.Store, tenant string, count int, rng *rand.Rand, now time.Time) (seedSummary, error) {
	ago := func(maxDays int) time.Time {
		return now.Add(-time.Duration(rng.IntN(maxDays*24)+1) * time.Hour).UTC()
	}
	pick := func(values []string) string { return values[rng.IntN(len(values))] }

	var (
		orgs          []models.Organization
		members       []models.Member
		students      []models.Student
		addresses     []models.Address
		links         []models.Link
		notifications []models.Notification
	)
	orgTypes := []string{models.OrgTypeSchool, models.OrgTypeSchool, models.OrgTypeUniversity, models.OrgTypeTrainingCenter}
	roles := []string{models.RoleOwner, models.RoleAdmin, models.RoleStaff, models.RoleTeacher, models.RoleTeacher}
	memberStatuses := []string{models.MemberStatusActive, models.MemberStatusActive, models.MemberStatusInvited, models.MemberStatusSuspended}
	studentStatuses := []string{models.StudentEnrolled, models.StudentEnrolled, models.StudentEnrolled, models.StudentGraduated, models.StudentWithdrawn}

	for i := 0; i < count; i++ {
		typ := pick(orgTypes)
		name := fmt.Sprintf("%s %s %d", pick(seedOrgWords), orgNoun(typ), i+1)
		slug := models.Slugify(name)
		status := models.OrgStatusActive
		if rng.IntN(5) == 0 {
			status = models.OrgStatusInactive
		}
		created := ago(720)
		org := models.Organization{
			ID:     uuid.NewString(),
			Name:   name,
			Slug:   slug,
			Type:   typ,
			Status: status,
			Email:  "office@" + slug + ".example.org",
			Phone:  fmt.Sprintf("+385 1 %03d %04d", rng.IntN(1000), rng.IntN(10000)),
		}.Stamped(created, created)
		orgs = append(orgs, org)

		for j := 0; j < 3; j++ {
			first, last := pick(seedFirstNames), pick(seedLastNames)
			members = append(members, models.Member{
				ID:             uuid.NewString(),
				OrganizationID: org.ID,
				FirstName:      first,
				LastName:       last,
				Email:          emailOf(first, last, j, slug),
				Role:           roles[(j+rng.IntN(len(roles)))%len(roles)],
				Status:         pick(memberStatuses),
			}.Stamped(ago(365), now))
		}
		for j := 0; j < 5; j++ {
			first, last := pick(seedFirstNames), pick(seedLastNames)
			students = append(students, models.Student{
				ID:             uuid.NewString(),
				OrganizationID: org.ID,
				FirstName:      first,
				LastName:       last,
				Email:          emailOf(first, last, j+10, slug),
				Grade:          fmt.Sprintf("%d%c", 1+rng.IntN(8), 'a'+rune(rng.IntN(3))),
				Status:         pick(studentStatuses),
			}.Stamped(ago(365), now))
		}
		city := rng.IntN(len(seedCities))
		addresses = append(addresses, models.Address{
			ID:             uuid.NewString(),
			OrganizationID: org.ID,
			Tag:            "Main campus",
			Street:         fmt.Sprintf("%s ulica %d", pick(seedOrgWords), 1+rng.IntN(120)),
			City:           seedCities[city],
			PostalCode:     fmt.Sprintf("%05d", 10000+rng.IntN(40000)),
			Country:        seedCountries[city],
			Primary:        true,
		}.Stamped(created, created))
		links = append(links,
			models.Link{
				ID:             uuid.NewString(),
				OrganizationID: org.ID,
				Title:          name + " website",
				URL:            "https://" + slug + ".example.org",
				Kind:           models.LinkWebsite,
			}.Stamped(created, created),
			models.Link{
				ID:             uuid.NewString(),
				OrganizationID: org.ID,
				Title:          "Enrollment handbook",
				URL:            "https://" + slug + ".example.org/handbook.pdf",
				Kind:           models.LinkDocument,
			}.Stamped(ago(90), now),
		)
	}

	branches := []string{models.BranchOrganization, models.BranchMembers, models.BranchStudents}
	types := []string{models.NotificationAnnouncement, models.NotificationAlert, models.NotificationReminder}
	statuses := []string{models.NotificationDraft, models.NotificationScheduled, models.NotificationSent, models.NotificationSent}
	for i := 0; i < count*2; i++ {
		notifications = append(notifications, models.Notification{
			ID:     uuid.NewString(),
			Branch: branches[i%len(branches)],
			Type:   pick(types),
			Title:  pick(seedTitles),
			Body:   "Please check the school calendar for details.",
			Status: pick(statuses),
		}.Stamped(ago(60), now))
	}

	sum := seedSummary{}
	steps := []func() error{
		func() error { return replace(ctx, st, tenant, "organizations", orgs, sum) },
		func() error { return replace(ctx, st, tenant, "members", members, sum) },
		func() error { return replace(ctx, st, tenant, "students", students, sum) },
		func() error { return replace(ctx, st, tenant, "notifications", notifications, sum) },
		func() error { return replace(ctx, st, tenant, "addresses", addresses, sum) },
		func() error { return replace(ctx, st, tenant, "links", links, sum) },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return nil, err
		}
	}
	return sum, nil
}

func replace[T models.Record[T]](ctx context.Context, st *store.Store, tenant, name string, items []T, sum seedSummary) error {
	c, err := store.NewCollection[T](st, tenant, name)
	if err != nil {
		return err
	}
	if err := c.Replace(ctx, items); err != nil {
		return fmt.Errorf("seed %s: %w", name, err)
	}
	sum[name] = len(items)
	return nil
}

func orgNoun(typ string) string {
	switch typ {
	case models.OrgTypeUniversity:
		return "University"
	case models.OrgTypeTrainingCenter:
		return "Training Center"
	}
	return "School"
}

// emailOf builds an ASCII address; the n suffix keeps it unique per org.
func emailOf(first, last string, n int, domain string) string {
	local := models.Slugify(first + " " + last)
	local = strings.ReplaceAll(local, "-", ".")
	return fmt.Sprintf("%s.%d@%s.example.org", local, n, domain)
}
