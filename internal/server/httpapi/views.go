package httpapi

import (
	"encoding/json"
	"time"

	"github.com/dmitrijs2005/healthkeeper/internal/server/models"
)

// userView is a user without the password hash.
type userView struct {
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Age       *int       `json:"age"`
	Sex       *string    `json:"sex"`
	Race      *string    `json:"race"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

func newUserView(u *models.User) userView {
	return userView{
		Name:      u.Name,
		Email:     u.Email,
		Age:       u.Age,
		Sex:       u.Sex,
		Race:      u.Race,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

type signupForm struct {
	Name     string `form:"name" json:"name"`
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
	Age      ageValue `form:"age" json:"age"`
	Sex      string `form:"sex" json:"sex"`
	Race     string `form:"race" json:"race"`
}

type loginForm struct {
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
}

type profileForm struct {
	Age  ageValue `form:"age" json:"age"`
	Sex  string `form:"sex" json:"sex"`
	Race string `form:"race" json:"race"`
}

// ageValue is the raw age input. Forms send text; JSON clients may send a
// string, a number or null.
type ageValue string

func (v *ageValue) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*v = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*v = ageValue(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*v = ageValue(n.String())
	return nil
}
