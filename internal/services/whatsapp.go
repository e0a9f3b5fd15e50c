package services

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/inditech/rfa/internal/forms"
	"github.com/inditech/rfa/internal/models"
)

// Deeplink returns a https://wa.me/ link that opens WhatsApp with a
// pre-filled message. phone must be bare E.164 digits.
func Deeplink(phone, message string) string {
	link := "https://wa.me/" + phone
	if message != "" {
		link += "?text=" + url.QueryEscape(message)
	}
	return link
}

// Contact is the pre-filled message a patient can send to their clinic.
type Contact struct {
	Phone   string `json:"phone"`
	Message string `json:"message"`
	Link    string `json:"link"`
}

// ComposeContact builds the clinic contact message for a submitted form.
// The clinic phone is normalized with countryCode, as the clinic QR is.
// Conditions are listed in the order they were triggered. A clinic without
// a usable WhatsApp number yields nil.
func ComposeContact(clinic *models.Clinic, countryCode, formTitle string, conditions []forms.ConditionView) *Contact {
	if clinic == nil {
		return nil
	}
	phone := NormPhone(clinic.PhoneWhatsApp, countryCode)
	if phone == "" {
		return nil
	}

	var msg string
	if len(conditions) == 0 {
		msg = fmt.Sprintf("I just submitted the %s form.", formTitle)
	} else {
		names := make([]string, 0, len(conditions))
		for _, c := range conditions {
			names = append(names, c.Name)
		}
		msg = fmt.Sprintf("I just submitted the %s form and saw red-flags: %s.", formTitle, strings.Join(names, ", "))
	}
	return &Contact{Phone: phone, Message: msg, Link: Deeplink(phone, msg)}
}
