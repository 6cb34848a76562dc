// Package email sends transactional email through Postmark, or writes it to
// disk in development.
//
// EmailSender is the single abstraction. NewPostmarkClient talks to the
// Postmark API via github.com/mrz1836/postmark; NewDevSender stores an HTML
// file and a JSON metadata file per message. NewSender picks one based on
// Config.DevDir. Both validate SendEmailParams first and return the message
// identifier the provider assigned.
//
//	sender, err := email.NewSender(cfg)
//	if err != nil {
//	    return err
//	}
//	body, _ := templates.Render(ctx, templates.Notification(templates.NotificationData{
//	    Title:   "Cleaning assigned",
//	    Message: "You have been assigned to clean Unit 4B",
//	}))
//	id, err := sender.SendEmail(ctx, email.SendEmailParams{
//	    SendTo:   "cleaner@example.com",
//	    Subject:  "Cleaning assigned",
//	    BodyHTML: body,
//	    Tag:      "CLEANING_ASSIGNED",
//	})
//
// Failures wrap ErrInvalidParams, ErrInvalidConfig or ErrFailedToSendEmail.
package email
