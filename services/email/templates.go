package email

const DonationNotificationTemplate = `A new donation has been received!

Donator Name: %s
Donator Email: %s
Amount: NGN %s
Reference: %s
Timestamp: %s

Thank you for supporting %s!
`

const DonationNotificationSubject = "New Donation Received - %s"
