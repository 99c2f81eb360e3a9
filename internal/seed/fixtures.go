package seed

import (
	"fmt"
	"net/url"
	"strings"
	"unicode"

	"github.com/johnwards/caseseed/internal/domain"
)

// Dataset is the fixed part of the sample data. Messages, notes and events
// are generated per case at run time.
type Dataset struct {
	PracticeAreas []string
	Firm          domain.LawFirm
	Users         []domain.User
	Cases         []CaseFixture
}

// CaseFixture describes a case by the natural keys of what it references.
type CaseFixture struct {
	Title                   string
	Description             string
	Status                  domain.CaseStatus
	Priority                domain.Priority
	PracticeArea            string // practice area name
	AssignedTo              string // lawyer email
	Year                    int
	Sequence                int
	OpenDate                string
	EstimatedCompletionDate string
	BillingRate             float64
}

// CaseNumber returns the case number for the fixture.
func (c CaseFixture) CaseNumber() string {
	return CaseNumber(c.PracticeArea, c.Year, c.Sequence)
}

// CaseNumber formats PREFIX-YEAR-NNN, where PREFIX is the first four letters
// of the practice area name in upper case.
func CaseNumber(practiceArea string, year, sequence int) string {
	var prefix []rune
	for _, r := range practiceArea {
		if !unicode.IsLetter(r) {
			continue
		}
		prefix = append(prefix, unicode.ToUpper(r))
		if len(prefix) == 4 {
			break
		}
	}
	return fmt.Sprintf("%s-%d-%03d", string(prefix), year, sequence)
}

func practiceAreaDescription(name string) string {
	return "Legal services related to " + name
}

func avatarURL(first, last string) string {
	return "https://ui-avatars.com/api/?name=" + url.QueryEscape(strings.TrimSpace(first+" "+last)) + "&background=random"
}

// DefaultDataset is the sample firm, its staff, one client and their cases.
func DefaultDataset() Dataset {
	user := func(email, first, last string, role domain.Role, phone, chat string) domain.User {
		return domain.User{
			Email:      email,
			FirstName:  first,
			LastName:   last,
			Role:       role,
			Phone:      phone,
			ChatHandle: chat,
			AvatarURL:  avatarURL(first, last),
		}
	}

	return Dataset{
		PracticeAreas: []string{
			"Criminal Law",
			"Family Law",
			"Corporate Law",
			"Real Estate Law",
			"Immigration Law",
			"Intellectual Property",
		},
		Firm: domain.LawFirm{
			Name:    "Smith & Associates LLP",
			Address: "123 Legal Street",
			City:    "New York",
			State:   "NY",
			ZipCode: "10001",
			Phone:   "212-555-0100",
			Email:   "contact@smithlaw.com",
			Website: "https://www.smithlaw.com",
		},
		Users: []domain.User{
			user("john.smith@smithlaw.com", "John", "Smith", domain.RoleLawyer, "212-555-0101", "U05JSMITH01"),
			user("sarah.jones@smithlaw.com", "Sarah", "Jones", domain.RoleLawyer, "212-555-0102", "U05SJONES02"),
			user("mike.wilson@smithlaw.com", "Mike", "Wilson", domain.RoleParalegal, "212-555-0103", ""),
			user("client1@example.com", "Robert", "Johnson", domain.RoleClient, "212-555-0104", ""),
		},
		Cases: []CaseFixture{
			{
				Title:                   "Tech Corp Merger",
				Description:             "Handling merger negotiations and documentation",
				Status:                  domain.StatusOpen,
				Priority:                domain.PriorityHigh,
				PracticeArea:            "Corporate Law",
				AssignedTo:              "john.smith@smithlaw.com",
				Year:                    2023,
				Sequence:                1,
				OpenDate:                "2023-01-15",
				EstimatedCompletionDate: "2023-12-31",
				BillingRate:             350,
			},
			{
				Title:                   "Johnson Custody Agreement",
				Description:             "Negotiating a shared custody arrangement",
				Status:                  domain.StatusPending,
				Priority:                domain.PriorityMedium,
				PracticeArea:            "Family Law",
				AssignedTo:              "sarah.jones@smithlaw.com",
				Year:                    2023,
				Sequence:                1,
				OpenDate:                "2023-03-01",
				EstimatedCompletionDate: "2023-09-30",
				BillingRate:             275,
			},
			{
				Title:                   "Harbor View Lease Dispute",
				Description:             "Commercial lease termination and damages claim",
				Status:                  domain.StatusOpen,
				Priority:                domain.PriorityLow,
				PracticeArea:            "Real Estate Law",
				AssignedTo:              "john.smith@smithlaw.com",
				Year:                    2023,
				Sequence:                1,
				OpenDate:                "2023-06-01",
				EstimatedCompletionDate: "2024-03-31",
				BillingRate:             300,
			},
		},
	}
}
