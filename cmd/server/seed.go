package main

import (
	"context"
	"time"

	"github.com/givers/console/internal/model"
	"github.com/givers/console/internal/repository"
)

// demoEnquiries is the SEED_DEMO data set: enough rows for three console pages.
var demoEnquiries = []struct {
	name, email, phone, company, service, message string
	status                                        model.EnquiryStatus
	age                                           time.Duration
}{
	{"Jane Cooper", "jane@acme.test", "+1 555 0101", "Acme Corp", "Web Development", "We need a new marketing site before Q3.", model.StatusNew, 3 * time.Minute},
	{"Wade Warren", "wade@globex.test", "", "Globex", "Mobile App", "Looking for a quote on an iOS and Android app.", model.StatusNew, 42 * time.Minute},
	{"Esther Howard", "esther@initech.test", "+44 20 7946 0958", "Initech", "Consulting", "Can we book a call about our cloud migration?", model.StatusReplied, 5 * time.Hour},
	{"Cameron Williamson", "cameron@umbrella.test", "", "Umbrella", "UI/UX Design", "Our dashboard needs a redesign.", model.StatusNew, 26 * time.Hour},
	{"Brooklyn Simmons", "brooklyn@hooli.test", "", "Hooli", "Web Development", "Please send your rate card.", model.StatusArchived, 3 * 24 * time.Hour},
	{"Leslie Alexander", "leslie@soylent.test", "+61 2 9374 4000", "Soylent", "SEO", "Interested in a technical SEO audit.", model.StatusNew, 4 * 24 * time.Hour},
	{"Jenny Wilson", "jenny@vandelay.test", "", "Vandelay Industries", "E-commerce", "Migrating our store from another platform.", model.StatusReplied, 6 * 24 * time.Hour},
	{"Guy Hawkins", "guy@wonka.test", "", "", "Other", "Do you take on open source maintenance?", model.StatusNew, 9 * 24 * time.Hour},
	{"Robert Fox", "robert@stark.test", "+1 555 0199", "Stark Industries", "Consulting", "Need help hiring a platform team.", model.StatusNew, 12 * 24 * time.Hour},
	{"Kristin Watson", "kristin@wayne.test", "", "Wayne Enterprises", "Mobile App", "Follow-up on last month's proposal.", model.StatusReplied, 20 * 24 * time.Hour},
	{"Darlene Robertson", "darlene@tyrell.test", "", "Tyrell", "UI/UX Design", "Accessibility review for our booking flow.", model.StatusNew, 33 * 24 * time.Hour},
	{"Floyd Miles", "floyd@cyberdyne.test", "", "Cyberdyne", "Web Development", "Is a fixed-price engagement possible?", model.StatusArchived, 45 * 24 * time.Hour},
}

func seedDemo(ctx context.Context, repo repository.ContactRepository, now time.Time) (int, error) {
	for _, d := range demoEnquiries {
		e := &model.Enquiry{
			Name:      d.name,
			Email:     d.email,
			Phone:     d.phone,
			Company:   d.company,
			Service:   d.service,
			Message:   d.message,
			Status:    d.status,
			CreatedAt: now.Add(-d.age).UTC(),
		}
		if err := repo.Save(ctx, e); err != nil {
			return 0, err
		}
	}
	return len(demoEnquiries), nil
}
