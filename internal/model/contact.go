// Package model holds the domain entities shared by the repository,
// service and handler layers.
package model

// Contact is the only entity of the service. ContactName is the unique
// business key. The store-generated identifier is never mapped.
type Contact struct {
	ContactName string `json:"contact_name" bson:"contact_name" db:"contact_name"`
	PhoneNumber string `json:"phone_number" bson:"phone_number" db:"phone_number"`
	Message     string `json:"message" bson:"message" db:"message"`
	ImageURL    string `json:"image_url" bson:"image_url" db:"image_url"`
}

// Field names accepted by partial updates. They double as JSON keys,
// MongoDB field names and PostgreSQL column names.
const (
	FieldContactName = "contact_name"
	FieldPhoneNumber = "phone_number"
	FieldMessage     = "message"
	FieldImageURL    = "image_url"
)

// UpdatableFields lists every field a patch may set, in column order.
var UpdatableFields = []string{FieldContactName, FieldPhoneNumber, FieldMessage, FieldImageURL}

// ContactPatch is a partial update. Nil fields are left untouched.
type ContactPatch struct {
	ContactName *string
	PhoneNumber *string
	Message     *string
	ImageURL    *string
}

// Fields returns the provided fields keyed by field name.
func (p ContactPatch) Fields() map[string]string {
	fields := make(map[string]string, 4)
	if p.ContactName != nil {
		fields[FieldContactName] = *p.ContactName
	}
	if p.PhoneNumber != nil {
		fields[FieldPhoneNumber] = *p.PhoneNumber
	}
	if p.Message != nil {
		fields[FieldMessage] = *p.Message
	}
	if p.ImageURL != nil {
		fields[FieldImageURL] = *p.ImageURL
	}
	return fields
}

// IsEmpty reports whether the patch sets nothing.
func (p ContactPatch) IsEmpty() bool {
	return p.ContactName == nil && p.PhoneNumber == nil && p.Message == nil && p.ImageURL == nil
}

// Apply returns a copy of c with the patch applied.
func (p ContactPatch) Apply(c Contact) Contact {
	if p.ContactName != nil {
		c.ContactName = *p.ContactName
	}
	if p.PhoneNumber != nil {
		c.PhoneNumber = *p.PhoneNumber
	}
	if p.Message != nil {
		c.Message = *p.Message
	}
	if p.ImageURL != nil {
		c.ImageURL = *p.ImageURL
	}
	return c
}

// Renames reports whether the patch changes the business key away from name.
func (p ContactPatch) Renames(name string) bool {
	return p.ContactName != nil && *p.ContactName != name
}
