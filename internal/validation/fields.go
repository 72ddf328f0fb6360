// Package validation contains the pure field validators of the registration
// workflow. Each validator takes one raw field and returns a verdict with a
// human-readable message; none of them performs I/O.
package validation

import (
	"regexp"
	"strings"
	"unicode"
)

// Verdict is the outcome of a single field validator.
type Verdict struct {
	Valid   bool
	Message string
}

var emailRe = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,7}$`)

// Email checks the address against the local@domain.tld grammar.
func Email(address string) Verdict {
	if !emailRe.MatchString(address) {
		return Verdict{Message: "Invalid email address"}
	}
	return Verdict{Valid: true}
}

// Phone accepts an 8-digit number starting with 6 or 7, a 9-digit number
// starting with 06 or 07, or a 12-character number starting with +3736
// or +3737.
func Phone(number string) Verdict {
	switch {
	case len(number) == 8 && allDigits(number) &&
		(number[0] == '6' || number[0] == '7'):
		return Verdict{Valid: true}
	case len(number) == 9 && allDigits(number) &&
		(strings.HasPrefix(number, "06") || strings.HasPrefix(number, "07")):
		return Verdict{Valid: true}
	case len(number) == 12 && allDigits(number[1:]) &&
		(strings.HasPrefix(number, "+3736") || strings.HasPrefix(number, "+3737")):
		return Verdict{Valid: true}
	}
	return Verdict{Message: "Invalid phone number"}
}

// DeviceSerial accepts opaque fixed-width serials of exactly 11 characters.
func DeviceSerial(serial string) Verdict {
	if len(serial) != 11 {
		return Verdict{Message: "Invalid device serial number"}
	}
	return Verdict{Valid: true}
}

// Name requires a non-empty value composed only of letters.
func Name(value, label string) Verdict {
	if value == "" {
		return Verdict{Message: "Invalid " + label}
	}
	for _, r := range value {
		if !unicode.IsLetter(r) {
			return Verdict{Message: "Invalid " + label}
		}
	}
	return Verdict{Valid: true}
}

// Password requires at least 8 characters. The upper bound is the 72 byte
// bcrypt input limit; anything longer would fail hashing.
func Password(password string) Verdict {
	if len(password) < 8 {
		return Verdict{Message: "Invalid password, must be at least 8 characters long"}
	}
	if len(password) > 72 {
		return Verdict{Message: "Invalid password, must be at most 72 characters long"}
	}
	return Verdict{Valid: true}
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
