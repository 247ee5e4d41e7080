package content

import (
	"strings"

	"github.com/starford/guru-sync/internal/models"
)

// UnknownUser is shown for absent or empty owners.
const UnknownUser = "Unknown"

// FormatUserName renders an owner or modifier for display.
func FormatUserName(u *models.User) string {
	if u == nil {
		return UnknownUser
	}
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		name = strings.TrimSpace(u.Name)
	}
	if name == "" {
		return UnknownUser
	}
	return name
}
