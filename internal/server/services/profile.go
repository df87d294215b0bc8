package services

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/healthkeeper/internal/common"
	"github.com/dmitrijs2005/healthkeeper/internal/server/models"
)

const (
	MinAge = 1
	MaxAge = 150
)

var (
	ErrAgeNotNumber  = fmt.Errorf("%w: Please enter a valid age", common.ErrorValidation)
	ErrAgeOutOfRange = fmt.Errorf("%w: Please enter a valid age between %d and %d", common.ErrorValidation, MinAge, MaxAge)
)

// ParseProfile converts raw form values into a Profile. Empty values become
// nil; a non-empty age must be an integer in [MinAge, MaxAge].
func ParseProfile(age, sex, race string) (models.Profile, error) {
	var p models.Profile

	if age = strings.TrimSpace(age); age != "" {
		n, err := strconv.Atoi(age)
		if err != nil {
			return p, ErrAgeNotNumber
		}
		if n < MinAge || n > MaxAge {
			return p, ErrAgeOutOfRange
		}
		p.Age = &n
	}

	if sex = strings.TrimSpace(sex); sex != "" {
		p.Sex = &sex
	}
	if race = strings.TrimSpace(race); race != "" {
		p.Race = &race
	}

	return p, nil
}

// ValidationMessage returns the user-facing part of a validation error.
func ValidationMessage(err error) string {
	if !errors.Is(err, common.ErrorValidation) {
		return ""
	}
	return strings.TrimPrefix(err.Error(), common.ErrorValidation.Error()+": ")
}
