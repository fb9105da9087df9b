package email

import (
	"context"
	"fmt"
	"log"

	"paystack-donation-api/models"
)

// Notifier emails the organization whenever a donation is verified.
type Notifier struct {
	sender  EmailSender
	orgMail string
	orgName string
}

func NewNotifier(sender EmailSender, orgMail, orgName string) *Notifier {
	return &Notifier{
		sender:  sender,
		orgMail: orgMail,
		orgName: orgName,
	}
}

// NotifyDonation is best effort: failures are logged and never returned.
func (n *Notifier) NotifyDonation(_ context.Context, donation models.Donation) {
	if n.orgMail == "" {
		log.Printf("No organization email configured, skipping notification for %s", donation.Reference)
		return
	}

	subject := fmt.Sprintf(DonationNotificationSubject, donation.Name)
	body := fmt.Sprintf(DonationNotificationTemplate,
		donation.Name,
		donation.Email,
		donation.Amount,
		donation.Reference,
		donation.Timestamp.Format(models.TimestampLayout),
		n.orgName,
	)

	if err := n.sender.SendEmail(n.orgMail, subject, body); err != nil {
		log.Printf("Failed to send donation notification for %s: %v", donation.Reference, err)
		return
	}
	log.Printf("Donation notification sent for %s", donation.Reference)
}
