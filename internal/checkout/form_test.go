package checkout

import "testing"

func TestValidateEmail(t *testing.T) {
	valid := []string{"user@example.com", "a@b.co", "first.last@sub.domain.org"}
	for _, email := range valid {
		if err := ValidateEmail(email); err != nil {
			t.Errorf("ValidateEmail(%q) = %v, want nil", email, err)
		}
	}

	invalid := []string{"", "plain", "no-at.example.com", "user@nodot", "two words@example.com", "user@ example.com"}
	for _, email := range invalid {
		if err := ValidateEmail(email); err == nil {
			t.Errorf("ValidateEmail(%q) = nil, want error", email)
		}
	}
}

func TestValidatePhone(t *testing.T) {
	valid := []string{"1234567890", "+1 (234) 567-89-00", "8 912 345 67 89"}
	for _, phone := range valid {
		if err := ValidatePhone(phone); err != nil {
			t.Errorf("ValidatePhone(%q) = %v, want nil", phone, err)
		}
	}

	invalid := []string{"", "12345", "+1 (23) 45-67", "call me"}
	for _, phone := range invalid {
		if err := ValidatePhone(phone); err == nil {
			t.Errorf("ValidatePhone(%q) = nil, want error", phone)
		}
	}
}

func TestValidateDeliveryTime(t *testing.T) {
	valid := []string{"asap", "13:30", "0:00", "23:59"}
	for _, v := range valid {
		if err := ValidateDeliveryTime(v); err != nil {
			t.Errorf("ValidateDeliveryTime(%q) = %v, want nil", v, err)
		}
	}

	invalid := []string{"", "25:00", "13:75", "later", "noonish"}
	for _, v := range invalid {
		if err := ValidateDeliveryTime(v); err == nil {
			t.Errorf("ValidateDeliveryTime(%q) = nil, want error", v)
		}
	}
}

func TestFormValidateOrder(t *testing.T) {
	form := Form{}
	if err := form.Validate(); err == nil || err.Error() != "name is required" {
		t.Errorf("Expected the name error first, got %v", err)
	}

	form.Name = "Alex"
	if err := form.Validate(); err == nil || err.Error() != "enter a valid email address" {
		t.Errorf("Expected the email error second, got %v", err)
	}

	form.Email = "alex@example.com"
	form.Phone = "1234567890"
	form.Address = "1 Main St"
	form.DeliveryTime = "asap"
	if err := form.Validate(); err != nil {
		t.Errorf("Expected complete form to validate, got %v", err)
	}
}

func TestNextState(t *testing.T) {
	sequence := []string{StateName, StateEmail, StatePhone, StateAddress, StateDeliveryTime, StateComment}
	for i := 0; i < len(sequence)-1; i++ {
		if got := NextState(sequence[i]); got != sequence[i+1] {
			t.Errorf("NextState(%s) = %s, want %s", sequence[i], got, sequence[i+1])
		}
	}
	if got := NextState(StateComment); got != "" {
		t.Errorf("Expected comment to be the last state, got %s", got)
	}
}
