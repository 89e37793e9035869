package handler

import (
	"encoding/json"
	"net/url"

	"github.com/deppfellow/contacts/internal/errs"
	"github.com/deppfellow/contacts/internal/model"
	"github.com/deppfellow/contacts/internal/validation"
)

// EmptyRequest is used by endpoints that take no input.
type EmptyRequest struct{}

func (r *EmptyRequest) Validate() error {
	return nil
}

// ContactNameRequest carries the :name path parameter.
type ContactNameRequest struct {
	Name string `param:"name" validate:"required"`
}

func (r *ContactNameRequest) Validate() error {
	if err := validation.Struct(r); err != nil {
		return errs.NewBadRequestError("Bad request: name parameter is required.", true, nil, nil, nil)
	}
	return nil
}

// unescapePath decodes a name that echo matched against URL.RawPath.
// Names matched against URL.Path are already decoded.
func (r *ContactNameRequest) unescapePath() error {
	name, err := url.PathUnescape(r.Name)
	if err != nil {
		return errs.NewBadRequestError("Bad request: invalid name parameter.", true, nil, nil, nil)
	}
	r.Name = name
	return nil
}

// CreateContactRequest is the body of POST /contacts. Missing fields are
// stored as empty strings.
type CreateContactRequest struct {
	ContactName string `json:"contact_name"`
	PhoneNumber string `json:"phone_number"`
	Message     string `json:"message"`
	ImageURL    string `json:"image_url"`

	keys int
}

func (r *CreateContactRequest) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	type fields CreateContactRequest
	var f fields
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}

	*r = CreateContactRequest(f)
	r.keys = len(raw)
	return nil
}

func (r *CreateContactRequest) Validate() error {
	if r.keys == 0 {
		return errs.NewBadRequestError("Bad request: No data provided.", true, nil, nil, nil)
	}
	return nil
}

func (r *CreateContactRequest) Contact() *model.Contact {
	return &model.Contact{
		ContactName: r.ContactName,
		PhoneNumber: r.PhoneNumber,
		Message:     r.Message,
		ImageURL:    r.ImageURL,
	}
}

// UpdateContactRequest is PUT /contacts/:name. Keys other than the
// contact fields are ignored.
type UpdateContactRequest struct {
	ContactNameRequest

	patch model.ContactPatch
	keys  int
}

func (r *UpdateContactRequest) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	targets := map[string]**string{
		model.FieldContactName: &r.patch.ContactName,
		model.FieldPhoneNumber: &r.patch.PhoneNumber,
		model.FieldMessage:     &r.patch.Message,
		model.FieldImageURL:    &r.patch.ImageURL,
	}
	for key, target := range targets {
		value, ok := raw[key]
		if !ok {
			continue
		}
		if err := json.Unmarshal(value, target); err != nil {
			return err
		}
	}

	r.keys = len(raw)
	return nil
}

func (r *UpdateContactRequest) Validate() error {
	if err := r.ContactNameRequest.Validate(); err != nil {
		return err
	}
	if r.keys == 0 {
		return errs.NewBadRequestError("Bad request: No data provided for update.", true, nil, nil, nil)
	}
	if r.patch.IsEmpty() {
		return errs.NewBadRequestError("No valid fields provided to update.", true, nil, nil, nil)
	}
	return nil
}

func (r *UpdateContactRequest) Patch() model.ContactPatch {
	return r.patch
}

// MessageResponse is the body of every successful write.
type MessageResponse struct {
	Message string `json:"message"`
}
