package seed

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/johnwards/caseseed/internal/domain"
	"github.com/johnwards/caseseed/internal/validate"
)

func (r *run) seedPracticeAreas(ctx context.Context, sr *StageReport) error {
	for _, name := range r.dataset.PracticeAreas {
		id, err := r.ensure(ctx, sr, name, domain.PracticeArea{Name: name, Description: practiceAreaDescription(name)})
		if err != nil {
			return err
		}
		if id != "" {
			r.practiceAreas[name] = id
		}
	}
	return nil
}

func (r *run) seedLawFirm(ctx context.Context, sr *StageReport) error {
	id, err := r.ensure(ctx, sr, r.dataset.Firm.Name, r.dataset.Firm)
	if err != nil {
		return err
	}
	r.firmID = id
	return nil
}

func (r *run) seedUsers(ctx context.Context, sr *StageReport) error {
	if !validate.Password(r.password) {
		weak := validate.Fail("password", "<redacted>", "password")
		for _, u := range r.dataset.Users {
			if err := r.absorb(sr, u.Email, weak); err != nil {
				return err
			}
		}
		return nil
	}

	for _, u := range r.dataset.Users {
		if err := ctx.Err(); err != nil {
			return err
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(r.password), r.hashCost)
		if err != nil {
			if err := r.absorb(sr, u.Email, fmt.Errorf("hash password: %w", err)); err != nil {
				return err
			}
			continue
		}
		u.PasswordHash = string(hash)

		id, err := r.ensure(ctx, sr, u.Email, u)
		if err != nil {
			return err
		}
		if id == "" {
			continue
		}
		u.ID = id
		r.users = append(r.users, u)
		r.usersByEmail[u.Email] = u
	}
	return nil
}

// seedCases resolves each fixture's references through the identifiers
// produced by earlier stages. An unresolved reference stays empty and fails
// validation, so that case alone is skipped.
func (r *run) seedCases(ctx context.Context, sr *StageReport) error {
	for _, f := range r.dataset.Cases {
		assignee := r.usersByEmail[f.AssignedTo]
		c := domain.Case{
			Title:                   f.Title,
			Description:             f.Description,
			Status:                  f.Status,
			PracticeAreaID:          r.practiceAreas[f.PracticeArea],
			FirmID:                  r.firmID,
			AssignedTo:              assignee.ID,
			CreatedBy:               assignee.ID,
			CaseNumber:              f.CaseNumber(),
			Priority:                f.Priority,
			OpenDate:                f.OpenDate,
			EstimatedCompletionDate: f.EstimatedCompletionDate,
			BillingRate:             f.BillingRate,
		}

		id, err := r.ensure(ctx, sr, c.CaseNumber, c)
		if err != nil {
			return err
		}
		if id == "" {
			continue
		}
		c.ID = id
		r.cases = append(r.cases, c)
	}
	return nil
}

// seedParticipants adds the assigned lawyer, a client and one or two other
// users to every case.
func (r *run) seedParticipants(ctx context.Context, sr *StageReport) error {
	var clients []domain.User
	for _, u := range r.users {
		if u.Role == domain.RoleClient {
			clients = append(clients, u)
		}
	}

	for _, c := range r.cases {
		var picks []domain.User
		for _, u := range r.users {
			if u.ID == c.AssignedTo {
				picks = append(picks, u)
			}
		}
		if len(clients) > 0 {
			picks = append(picks, clients[r.rand.IntN(len(clients))])
		}
		for _, i := range r.rand.Perm(len(r.users))[:min(r.between(1, 2), len(r.users))] {
			picks = append(picks, r.users[i])
		}

		seen := map[string]bool{}
		for _, u := range picks {
			if seen[u.ID] {
				continue
			}
			seen[u.ID] = true

			p := domain.CaseParticipant{CaseID: c.ID, UserID: u.ID, Role: u.Role}
			id, err := r.ensure(ctx, sr, c.CaseNumber+"/"+u.Email, p)
			if err != nil {
				return err
			}
			if id != "" {
				r.participants[c.ID] = append(r.participants[c.ID], u)
			}
		}
	}
	return nil
}

// pool returns the users who can act on c: its participants when there are at
// least two of them, otherwise every seeded user.
func (r *run) pool(c domain.Case) []domain.User {
	if ps := r.participants[c.ID]; len(ps) >= 2 {
		return ps
	}
	return r.users
}

func (r *run) seedMessages(ctx context.Context, sr *StageReport) error {
	for _, c := range r.cases {
		users := r.pool(c)
		if len(users) < 2 {
			if err := r.absorb(sr, c.CaseNumber, validate.Fail("recipient_id", "", "recipient distinct from sender")); err != nil {
				return err
			}
			continue
		}

		for range r.between(5, 15) {
			si := r.rand.IntN(len(users))
			ri := r.rand.IntN(len(users) - 1)
			if ri >= si {
				ri++
			}
			sender, recipient := users[si], users[ri]

			m := domain.Message{
				CaseID:      c.ID,
				SenderID:    sender.ID,
				RecipientID: recipient.ID,
				Type:        domain.MessageTypes[r.rand.IntN(len(domain.MessageTypes))],
				Content:     fmt.Sprintf("Message from %s about %s", sender.FullName(), c.Title),
				Read:        r.rand.IntN(2) == 0,
			}
			id, err := r.create(ctx, sr, c.CaseNumber, m)
			if err != nil {
				return err
			}
			if id == "" || r.notifier == nil {
				continue
			}

			for _, u := range []domain.User{sender, recipient} {
				delivered := 0
				outcomes := r.notifier.Notify(ctx, u, c, m.Content)
				for _, o := range outcomes {
					if o.Delivered() {
						delivered++
					}
				}
				r.logger.Debug("notified", "message", id, "user", u.Email, "attempted", len(outcomes), "delivered", delivered)
			}
		}
	}
	return nil
}

func (r *run) seedNotes(ctx context.Context, sr *StageReport) error {
	for _, c := range r.cases {
		users := r.pool(c)
		for range r.between(3, 8) {
			author := users[r.rand.IntN(len(users))]
			n := domain.Note{
				CaseID:   c.ID,
				AuthorID: author.ID,
				Content:  fmt.Sprintf("Note from %s about %s", author.Email, c.Title),
				Private:  r.rand.IntN(2) == 0,
			}
			if r.enricher != nil {
				n.Analysis = r.enricher.Enrich(ctx, n.Content)
			}

			if _, err := r.create(ctx, sr, c.CaseNumber, n); err != nil {
				return err
			}
		}
	}
	return nil
}

var eventTitles = map[domain.EventType]string{
	domain.EventMeeting:   "Meeting for %s",
	domain.EventCourtDate: "Court date for %s",
	domain.EventDeadline:  "Filing deadline for %s",
	domain.EventReminder:  "Reminder for %s",
}

// seedEvents creates events one to thirty days ahead, one to four hours long,
// then mirrors each into the external calendars and records their ids.
func (r *run) seedEvents(ctx context.Context, sr *StageReport) error {
	for _, c := range r.cases {
		users := r.pool(c)
		for range r.between(2, 5) {
			organizer := users[r.rand.IntN(len(users))]
			start := r.now().UTC().Truncate(time.Minute).AddDate(0, 0, r.between(1, 30))
			typ := domain.EventTypes[r.rand.IntN(len(domain.EventTypes))]

			ev := domain.CalendarEvent{
				CaseID:      c.ID,
				OrganizerID: organizer.ID,
				Title:       fmt.Sprintf(eventTitles[typ], c.Title),
				Description: fmt.Sprintf("Event organized by %s", organizer.Email),
				Start:       start,
				End:         start.Add(time.Duration(r.between(1, 4)) * time.Hour),
				Type:        typ,
				Virtual:     r.rand.IntN(2) == 0,
			}
			if ev.Virtual {
				ev.Location = "Virtual Meeting"
			} else {
				ev.Location = r.dataset.Firm.Address
			}

			id, err := r.create(ctx, sr, c.CaseNumber, ev)
			if err != nil {
				return err
			}
			if id == "" || r.calendar == nil {
				continue
			}
			ev.ID = id

			ids, err := r.calendar.Sync(ctx, ev)
			if err != nil {
				if KindOf(err).Fatal() {
					return err
				}
				r.logger.Warn("record external event ids failed", "event", id, "error", err)
				continue
			}
			r.logger.Debug("event synced", "event", id, "providers", len(ids))
		}
	}
	return nil
}
