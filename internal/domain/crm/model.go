// Package crm holds the records owned by neighbouring domains that the
// activity log reads: users, customers, companies, notes and messages.
package crm

import (
	"strings"
	"time"
)

// User is a staff member who can perform actions.
type User struct {
	ID              string    `json:"id"`
	FullName        string    `json:"full_name"`
	Email           string    `json:"email"`
	Avatar          string    `json:"avatar,omitempty"`
	Position        string    `json:"position,omitempty"`
	TwitterUsername string    `json:"twitter_username,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// Customer is an end customer, optionally belonging to companies.
type Customer struct {
	ID           string    `json:"id"`
	FirstName    string    `json:"first_name,omitempty"`
	LastName     string    `json:"last_name,omitempty"`
	Name         string    `json:"name,omitempty"`
	PrimaryEmail string    `json:"primary_email,omitempty"`
	Phone        string    `json:"phone,omitempty"`
	Avatar       string    `json:"avatar,omitempty"`
	Position     string    `json:"position,omitempty"`
	CompanyIDs   []string  `json:"company_ids,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// DisplayName returns the best available human label for the customer.
func (c Customer) DisplayName() string {
	if name := strings.TrimSpace(c.Name); name != "" {
		return name
	}
	if full := strings.TrimSpace(c.FirstName + " " + c.LastName); full != "" {
		return full
	}
	if c.PrimaryEmail != "" {
		return c.PrimaryEmail
	}
	return c.Phone
}

// Company is an organisation customers can belong to.
type Company struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Website   string    `json:"website,omitempty"`
	Industry  string    `json:"industry,omitempty"`
	Size      int       `json:"size,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// InternalNote is a staff note attached to a customer or company.
type InternalNote struct {
	ID            string    `json:"id"`
	ContentType   string    `json:"content_type"`
	ContentTypeID string    `json:"content_type_id"`
	Content       string    `json:"content"`
	CreatedBy     string    `json:"created_by"`
	CreatedAt     time.Time `json:"created_at"`
}

// ConversationMessage is a single message in a customer conversation. UserID
// is set when staff wrote it; otherwise the customer did.
type ConversationMessage struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversation_id"`
	CustomerID     string    `json:"customer_id,omitempty"`
	UserID         string    `json:"user_id,omitempty"`
	Content        string    `json:"content"`
	Internal       bool      `json:"internal"`
	CreatedAt      time.Time `json:"created_at"`
}

// AuthorID returns who wrote the message: the user if set, else the customer.
func (m ConversationMessage) AuthorID() string {
	if m.UserID != "" {
		return m.UserID
	}
	return m.CustomerID
}
