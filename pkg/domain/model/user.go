package model

import (
	"time"

	"github.com/postpilot-app/postpilot/pkg/domain/types"
)

// User represents an account with LinkedIn automation settings. Schedule and
// template settings are stored as raw JSON blobs written by the settings API;
// the auto-posting core only reads them and must round-trip them unchanged.
type User struct {
	ID         types.UserID
	LinkedInID string
	Email      string
	Name       string

	// AccessToken is the LinkedIn credential used for publishing. It is
	// masked in all log output.
	AccessToken string `masq:"secret"`

	// AutoPosting is the master switch; only users with this enabled are
	// evaluated by the tick scheduler.
	AutoPosting bool

	// ScheduleSettings holds the schedule JSON blob (see ParseSchedule).
	ScheduleSettings string

	// ContentTemplates holds the template JSON blob (see ParseTemplates).
	ContentTemplates string

	// PersonalityType is the fallback tone when a template omits one.
	PersonalityType string

	// Industry is the fallback industry when a template omits one.
	Industry string

	// LastPostedSlot records the slot key of the most recent successful
	// scheduled publish, so a slot is never consumed twice.
	LastPostedSlot string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasAccessToken reports whether the user holds a publishing credential
func (u *User) HasAccessToken() bool {
	return u.AccessToken != ""
}
