package email

import "github.com/deppfellow/contacts/internal/model"

// SendContactCreatedEmail notifies to that contact was added.
func (c *Client) SendContactCreatedEmail(to string, contact model.Contact) error {
	data := map[string]string{
		"ContactName": contact.ContactName,
		"PhoneNumber": contact.PhoneNumber,
		"Message":     contact.Message,
		"ImageURL":    contact.ImageURL,
	}

	return c.SendEmail(
		to,
		"New contact: "+contact.ContactName,
		TemplateContactCreated,
		data,
	)
}
