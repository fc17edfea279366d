// Package client models the customer of an order: directory records, the
// pending-creation draft and the stage 1 selection that holds exactly one of them.
package client

import (
	"strings"
	"unicode"

	"orderwizard/internal/core/domain/model/kernel"
)

// CommunicationChannel is a way the branch may contact the client.
type CommunicationChannel string

const (
	ChannelPhone    CommunicationChannel = "PHONE"
	ChannelSMS      CommunicationChannel = "SMS"
	ChannelViber    CommunicationChannel = "VIBER"
	ChannelTelegram CommunicationChannel = "TELEGRAM"
	ChannelEmail    CommunicationChannel = "EMAIL"
)

// Source records how the client heard about the company.
type Source string

const (
	SourceInstagram      Source = "INSTAGRAM"
	SourceGoogle         Source = "GOOGLE"
	SourceRecommendation Source = "RECOMMENDATION"
	SourceOther          Source = "OTHER"
)

// Draft is a client that does not exist in the directory yet.
type Draft struct {
	LastName              string                 `json:"lastName" validate:"required,min=2,max=50"`
	FirstName             string                 `json:"firstName" validate:"required,min=2,max=50"`
	Phone                 string                 `json:"phone" validate:"required,phone"`
	Email                 string                 `json:"email,omitempty" validate:"omitempty,email,max=100"`
	Address               string                 `json:"address,omitempty" validate:"max=200"`
	CommunicationChannels []CommunicationChannel `json:"communicationChannels,omitempty" validate:"dive,oneof=PHONE SMS VIBER TELEGRAM EMAIL"`
	Source                Source                 `json:"source,omitempty" validate:"omitempty,oneof=INSTAGRAM GOOGLE RECOMMENDATION OTHER"`
	SourceDetails         string                 `json:"sourceDetails,omitempty" validate:"required_if=Source OTHER,max=200"`
}

// Normalized trims names and canonicalizes the phone number.
func (d Draft) Normalized() Draft {
	d.LastName = strings.TrimSpace(d.LastName)
	d.FirstName = strings.TrimSpace(d.FirstName)
	d.Email = strings.TrimSpace(strings.ToLower(d.Email))
	d.Address = strings.TrimSpace(d.Address)
	d.Phone = NormalizePhone(d.Phone)
	d.CommunicationChannels = append([]CommunicationChannel(nil), d.CommunicationChannels...)
	return d
}

// Summary is a client record as returned by the directory.
type Summary struct {
	ID        kernel.UUID `json:"id"`
	LastName  string      `json:"lastName"`
	FirstName string      `json:"firstName"`
	Phone     string      `json:"phone"`
	Email     string      `json:"email,omitempty"`
	Address   string      `json:"address,omitempty"`
}

func (s Summary) FullName() string {
	return strings.TrimSpace(s.LastName + " " + s.FirstName)
}

// NormalizePhone strips formatting and turns the local 0XXXXXXXXX form into +380XXXXXXXXX.
func NormalizePhone(phone string) string {
	var b strings.Builder
	for i, r := range strings.TrimSpace(phone) {
		if unicode.IsDigit(r) || (r == '+' && i == 0) {
			b.WriteRune(r)
		}
	}

	digits := b.String()
	switch {
	case strings.HasPrefix(digits, "+"):
		return digits
	case len(digits) == 10 && strings.HasPrefix(digits, "0"):
		return "+38" + digits
	case len(digits) == 12 && strings.HasPrefix(digits, "380"):
		return "+" + digits
	}
	return digits
}
