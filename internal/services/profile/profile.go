// Package profile stores customer profile records.
package profile

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"
)

var (
	ErrNotFound         = errors.New("profile not found")
	ErrPermissionDenied = errors.New("permission denied")
)

// Profile is the stored customer record. Unknown document fields are kept in
// Extensions and written back unchanged.
type Profile struct {
	UID         string         `json:"uid"`
	Email       string         `json:"email"`
	DisplayName string         `json:"name,omitempty"`
	CreatedAt   time.Time      `json:"createdAt,omitzero"`
	LastLogin   time.Time      `json:"lastLogin,omitzero"`
	UpdatedAt   time.Time      `json:"updatedAt,omitzero"`
	LastOrderID string         `json:"lastOrderId,omitempty"`
	LastOrderAt time.Time      `json:"lastOrderAt,omitzero"`
	Extensions  map[string]any `json:"-"`
}

var knownFields = []string{"uid", "email", "name", "createdAt", "lastLogin", "updatedAt", "lastOrderId", "lastOrderAt"}

// Validate checks the required fields.
func (p Profile) Validate() error {
	if strings.TrimSpace(p.UID) == "" {
		return fmt.Errorf("profile: uid is required")
	}
	if _, err := mail.ParseAddress(p.Email); err != nil {
		return fmt.Errorf("profile %s: invalid email: %w", p.UID, err)
	}
	return nil
}

// Name returns the display name or "User".
func (p Profile) Name() string {
	if p.DisplayName != "" {
		return p.DisplayName
	}
	return "User"
}

type profileFields Profile

func (p Profile) MarshalJSON() ([]byte, error) {
	known, err := json.Marshal(profileFields(p))
	if err != nil {
		return nil, err
	}
	if len(p.Extensions) == 0 {
		return known, nil
	}

	doc := make(map[string]any, len(p.Extensions)+len(knownFields))
	for k, v := range p.Extensions {
		doc[k] = v
	}
	if err := json.Unmarshal(known, &doc); err != nil {
		return nil, err
	}
	return json.Marshal(doc)
}

func (p *Profile) UnmarshalJSON(data []byte) error {
	var fields profileFields
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	for _, k := range knownFields {
		delete(doc, k)
	}

	*p = Profile(fields)
	if len(doc) > 0 {
		p.Extensions = doc
	}
	return nil
}
