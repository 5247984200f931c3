package widgets

import (
	"github.com/vburojevic/registrar/internal/app/tui/theme"
	"github.com/vburojevic/registrar/internal/models"
)

// Tone groups record statuses that share a color.
type Tone int

const (
	ToneNeutral Tone = iota
	ToneGood
	TonePending
	ToneWarn
	ToneBad
	ToneOff
)

// ToneOf maps a record status to its tone.
func ToneOf(status string) Tone {
	switch status {
	case models.OrgStatusActive, models.StudentEnrolled, models.NotificationSent:
		return ToneGood
	case models.MemberStatusInvited, models.NotificationScheduled:
		return TonePending
	case models.NotificationDraft, models.StudentGraduated:
		return ToneWarn
	case models.MemberStatusSuspended, models.StudentWithdrawn:
		return ToneBad
	case models.OrgStatusInactive:
		return ToneOff
	default:
		return ToneNeutral
	}
}

// StatusIcon renders a colored dot for the status.
func StatusIcon(status string, styles theme.Styles) string {
	switch ToneOf(status) {
	case ToneGood:
		return styles.StatusGood.Render("●")
	case TonePending:
		return styles.StatusPending.Render("◐")
	case ToneWarn:
		return styles.StatusWarn.Render("◌")
	case ToneBad:
		return styles.StatusBad.Render("✕")
	case ToneOff:
		return styles.StatusOff.Render("○")
	default:
		return styles.Muted.Render("·")
	}
}

// StatusBadge renders the icon followed by the status text.
func StatusBadge(status string, styles theme.Styles) string {
	if status == "" {
		return ""
	}
	return StatusIcon(status, styles) + " " + Humanize(status)
}
