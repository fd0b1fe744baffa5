package registry

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/finditapp/findit/internal/model"
	"github.com/finditapp/findit/internal/session"
)

// Draft is an unvalidated, unpersisted candidate report supplied by a
// reporter. DateOccurred is a calendar date in YYYY-MM-DD form; empty means
// "today".
type Draft struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	Category     string `json:"category"`
	Location     string `json:"location"`
	DateOccurred string `json:"date_occurred"`
	ContactInfo  string `json:"contact_info"`
	ImageURL     string `json:"image_url"`
	Type         string `json:"type"`
}

// dateLayout is the wire format for calendar dates.
const dateLayout = "2006-01-02"

// Pipeline validates drafts and writes them through the repository.
type Pipeline struct {
	Repo Repository
	Now  func() time.Time // defaults to time.Now
}

// Submit validates draft and persists it as identity's report.
//
// Steps, each short-circuiting on failure: auth gate (AuthError for
// anonymous sessions), fail-fast field validation (ValidationError naming
// the first offending field and rule), date policy (defaults to the current
// date, future dates rejected, today allowed), normalization (trimming,
// empty image URL dropped), then Repository.Insert (InsertError propagated
// unchanged). On success the persisted record is returned exactly as the
// store returned it.
func (p *Pipeline) Submit(ctx context.Context, draft Draft, identity session.Identity) (*model.Item, error) {
	if identity.IsAnonymous() {
		return nil, &AuthError{Reason: "must be signed in to report an item"}
	}

	draft = normalize(draft)
	if err := validate(draft); err != nil {
		return nil, err
	}

	today := p.now().Format(dateLayout)
	if draft.DateOccurred == "" {
		draft.DateOccurred = today
	} else {
		if _, err := time.Parse(dateLayout, draft.DateOccurred); err != nil {
			return nil, &ValidationError{Field: "date_occurred", Rule: "must be a date in YYYY-MM-DD form"}
		}
		// Lexical comparison is date comparison for this layout. Today is
		// allowed; strictly future dates are not.
		if draft.DateOccurred > today {
			return nil, &ValidationError{Field: "date_occurred", Rule: "must not be in the future"}
		}
	}

	return p.Repo.Insert(ctx, draft, identity.UserID)
}

func (p *Pipeline) now() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now()
}

// normalize trims free-text fields before any length checks. An empty image
// URL stays empty and is stored as absent, never as an empty string.
func normalize(draft Draft) Draft {
	draft.Title = strings.TrimSpace(draft.Title)
	draft.Description = strings.TrimSpace(draft.Description)
	draft.Location = strings.TrimSpace(draft.Location)
	draft.ContactInfo = strings.TrimSpace(draft.ContactInfo)
	draft.ImageURL = strings.TrimSpace(draft.ImageURL)
	return draft
}

// validate applies the field rules in a fixed order and stops at the first
// violation.
func validate(draft Draft) error {
	if err := length("title", draft.Title, 3, 100); err != nil {
		return err
	}
	if err := length("description", draft.Description, 10, 1000); err != nil {
		return err
	}
	if draft.Category == "" {
		return &ValidationError{Field: "category", Rule: "please select a category"}
	}
	if !model.ValidCategory(draft.Category) {
		return &ValidationError{Field: "category", Rule: "unknown category"}
	}
	if err := length("location", draft.Location, 3, 200); err != nil {
		return err
	}
	if len([]rune(draft.ContactInfo)) > 200 {
		return &ValidationError{Field: "contact_info", Rule: "must be at most 200 characters"}
	}
	if !model.ValidType(draft.Type) {
		return &ValidationError{Field: "type", Rule: "must be lost or found"}
	}
	return nil
}

func length(field, value string, min, max int) error {
	n := len([]rune(value))
	if n < min {
		return &ValidationError{Field: field, Rule: fmt.Sprintf("must be at least %d characters", min)}
	}
	if n > max {
		return &ValidationError{Field: field, Rule: fmt.Sprintf("must be at most %d characters", max)}
	}
	return nil
}
