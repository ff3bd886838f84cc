package checkout

import (
	"fmt"
	"regexp"
	"strings"
)

// DeliveryASAP is the delivery time value meaning "as soon as possible".
const DeliveryASAP = "asap"

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Form holds the customer details collected before submitting an order.
type Form struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Address      string `json:"address"`
	DeliveryTime string `json:"delivery_time"`
	Comment      string `json:"comment"`
}

// ValidateName checks the customer name field.
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("name is required")
	}
	return nil
}

// ValidateEmail checks the email field against a permissive shape: something,
// an @, something, a dot, something.
func ValidateEmail(email string) error {
	if !emailPattern.MatchString(strings.TrimSpace(email)) {
		return fmt.Errorf("enter a valid email address")
	}
	return nil
}

// ValidatePhone checks that the phone field carries at least ten digits,
// ignoring spacing and punctuation.
func ValidatePhone(phone string) error {
	digits := 0
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			digits++
		}
	}
	if digits < 10 {
		return fmt.Errorf("enter a phone number with at least 10 digits")
	}
	return nil
}

// ValidateAddress checks the delivery address field.
func ValidateAddress(address string) error {
	if strings.TrimSpace(address) == "" {
		return fmt.Errorf("delivery address is required")
	}
	return nil
}

// ValidateDeliveryTime accepts "asap" or a HH:MM time.
func ValidateDeliveryTime(value string) error {
	value = strings.TrimSpace(value)
	if value == DeliveryASAP {
		return nil
	}
	var h, m int
	if _, err := fmt.Sscanf(value, "%d:%d", &h, &m); err != nil {
		return fmt.Errorf("enter a delivery time like 13:30, or asap")
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return fmt.Errorf("enter a delivery time like 13:30, or asap")
	}
	return nil
}

// Validate checks the whole form and returns the first problem found, in
// field order.
func (f *Form) Validate() error {
	if err := ValidateName(f.Name); err != nil {
		return err
	}
	if err := ValidateEmail(f.Email); err != nil {
		return err
	}
	if err := ValidatePhone(f.Phone); err != nil {
		return err
	}
	if err := ValidateAddress(f.Address); err != nil {
		return err
	}
	return ValidateDeliveryTime(f.DeliveryTime)
}
