package visibility

import (
	"fmt"
	"strconv"
	"strings"

	pkgerrors "github.com/halisahar-connect/civic-portal/pkg/errors"
)

const (
	// AllWards addresses every ward at once.
	AllWards = "all"

	MinWard = 1
	MaxWard = 25
)

// ValidWard reports whether n is a municipal ward number.
func ValidWard(n int) bool {
	return n >= MinWard && n <= MaxWard
}

// NormalizeAlertWard canonicalises the target ward of an alert. Empty input
// defaults to AllWards; anything else must be "all" or a ward number.
func NormalizeAlertWard(raw string) (string, error) {
	clean := strings.TrimSpace(raw)
	if clean == "" || strings.EqualFold(clean, AllWards) {
		return AllWards, nil
	}
	n, err := strconv.Atoi(clean)
	if err != nil || !ValidWard(n) {
		return "", pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("ward must be %q or a number between %d and %d", AllWards, MinWard, MaxWard)).
			WithDetails(map[string]string{"ward": "is invalid"})
	}
	return strconv.Itoa(n), nil
}

// ParseWard parses a ward path segment used for citizen-facing lookups.
func ParseWard(raw string) (string, error) {
	clean := strings.TrimSpace(raw)
	if clean == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "ward is required")
	}
	if strings.EqualFold(clean, AllWards) {
		return AllWards, nil
	}
	n, err := strconv.Atoi(clean)
	if err != nil || !ValidWard(n) {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "ward is invalid")
	}
	return strconv.Itoa(n), nil
}

// AlertVisible applies the broadcast rule: an alert reaches a citizen when it
// targets every ward or the citizen's own ward. Wards compare as strings.
func AlertVisible(alertWard, citizenWard string) bool {
	return alertWard == AllWards || alertWard == citizenWard
}

// WardsFor lists the alert ward values a citizen of the given ward may read.
func WardsFor(citizenWard string) []string {
	if citizenWard == AllWards {
		return []string{AllWards}
	}
	return []string{AllWards, citizenWard}
}
