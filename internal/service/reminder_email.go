package service

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"complytrack/internal/model"
)

// ReminderEmail is a rendered reminder ready for the mail sender.
type ReminderEmail struct {
	Subject string
	HTML    string
}

type reminderView struct {
	Name           string
	ExpirationDate string
	DaysRemaining  int
	Status         string
	Description    string
	Link           string
}

var reminderTemplate = template.Must(template.New("reminder").Parse(`<html>
  <body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
    <h2 style="color: #d9534f;">Compliance Reminder</h2>
    <p>Hello,</p>
    <p>This is a reminder that the following compliance requirement is expiring soon:</p>
    <div style="background-color: #f8f9fa; padding: 15px; border-left: 4px solid #d9534f; margin: 20px 0;">
      <h3 style="margin-top: 0;">{{.Name}}</h3>
      <p><strong>Expiration Date:</strong> {{.ExpirationDate}}</p>
      <p><strong>Days Until Expiration:</strong> {{.DaysRemaining}} day(s)</p>
      <p><strong>Status:</strong> {{.Status}}</p>
      {{- if .Description}}
      <p><strong>Description:</strong> {{.Description}}</p>
      {{- end}}
    </div>
    <p><strong>Action Required:</strong></p>
    <ul>
      <li>Review the requirement details</li>
      <li>Upload updated compliance documents</li>
      <li>Update the expiration date if renewed</li>
    </ul>
    <p>
      <a href="{{.Link}}" style="background-color: #007bff; color: white; padding: 10px 20px; text-decoration: none; border-radius: 5px; display: inline-block;">View Requirement</a>
    </p>
    <hr style="margin: 30px 0; border: none; border-top: 1px solid #ddd;">
    <p style="font-size: 12px; color: #666;">
      This is an automated reminder. To manage your notification settings, log in to your account.
    </p>
  </body>
</html>
`))

// ReminderSubject frames urgency by reminder type.
func ReminderSubject(reminderType model.ReminderType, name string) string {
	switch reminderType {
	case model.ReminderDayOf:
		return fmt.Sprintf("URGENT: %s expires TODAY", name)
	case model.ReminderSevenDay:
		return fmt.Sprintf("%s expires in 7 days", name)
	default:
		return fmt.Sprintf("%s expires in 30 days", name)
	}
}

// RenderReminder builds the email for req. daysRemaining is relative to the send date;
// baseURL is the public app root used for the deep link.
func RenderReminder(req *model.Requirement, reminderType model.ReminderType, daysRemaining int, baseURL string) (ReminderEmail, error) {
	view := reminderView{
		Name:           req.Name,
		ExpirationDate: req.ExpirationDate.Format("January 2, 2006"),
		DaysRemaining:  daysRemaining,
		Status:         req.Status.Label(),
		Description:    req.Description,
		Link:           RequirementLink(baseURL, req.ID),
	}

	var buf bytes.Buffer
	if err := reminderTemplate.Execute(&buf, view); err != nil {
		return ReminderEmail{}, fmt.Errorf("render reminder: %w", err)
	}
	return ReminderEmail{
		Subject: ReminderSubject(reminderType, req.Name),
		HTML:    buf.String(),
	}, nil
}

// RequirementLink is the deep link to a requirement's detail view.
func RequirementLink(baseURL, requirementID string) string {
	return strings.TrimRight(baseURL, "/") + "/requirements/" + requirementID
}
