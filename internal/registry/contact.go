package registry

import "github.com/finditapp/findit/internal/model"

// NoContactInfo is the sentinel returned when a report carries no contact
// details.
const NoContactInfo = "No contact information provided"

// Reveal returns a report's contact information verbatim, or NoContactInfo
// when none was provided. Contact details are disclosed to any viewer who
// can see the item; reports are meant to be contactable by anyone.
func Reveal(item model.Item) string {
	if item.ContactInfo == "" {
		return NoContactInfo
	}
	return item.ContactInfo
}
