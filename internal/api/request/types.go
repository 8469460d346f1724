// Package request defines the JSON bodies the API accepts. Bodies that
// implement Validator are checked by the handlers right after decoding.
package request

import (
	"fmt"

	"github.com/mcoot/liarsdice-go/internal/model"
)

// Validator checks a decoded body before it reaches a service
type Validator interface {
	Validate() error
}

// MissingFieldError names a required field that was empty
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s is required", e.Field)
}

// requireFields returns a MissingFieldError for the first empty field, in
// order. Fields are given as name, value pairs.
func requireFields(pairs ...string) error {
	for i := 0; i+1 < len(pairs); i += 2 {
		if pairs[i+1] == "" {
			return &MissingFieldError{Field: pairs[i]}
		}
	}
	return nil
}

// CreateGuestRequest is the body of POST /players/guest
type CreateGuestRequest struct {
	DisplayName string `json:"display_name"`
}

func (r *CreateGuestRequest) Validate() error {
	if err := requireFields("display_name", r.DisplayName); err != nil {
		return err
	}
	name, err := model.CleanName(r.DisplayName)
	r.DisplayName = name
	return err
}

// RegisterRequest is the body of POST /players/register
type RegisterRequest struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
}

func (r *RegisterRequest) Validate() error {
	if err := requireFields("username", r.Username, "password", r.Password, "display_name", r.DisplayName); err != nil {
		return err
	}
	name, err := model.CleanName(r.DisplayName)
	r.DisplayName = name
	return err
}

// LoginRequest is the body of POST /players/login
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (r *LoginRequest) Validate() error {
	return requireFields("username", r.Username, "password", r.Password)
}

// SetProfileRequest creates or renames the caller's profile
type SetProfileRequest struct {
	Name string `json:"name"`
}

// CommitRequest carries a hex encoded SHA-256 of dice||salt
type CommitRequest struct {
	Hash string `json:"hash"`
}

// RevealRequest opens a commitment. An empty body reveals the hand the
// server dealt with /roll.
type RevealRequest struct {
	Dice []int  `json:"dice,omitempty"`
	Salt string `json:"salt,omitempty"`
}

// BidRequest is the body of POST /games/{id}/bid
type BidRequest struct {
	Quantity int `json:"quantity"`
	Face     int `json:"face"`
}

// MintRequest is the body of the admin mint endpoint
type MintRequest struct {
	PlayerID string `json:"player_id"`
	Amount   int64  `json:"amount"`
}

func (r *MintRequest) Validate() error {
	return requireFields("player_id", r.PlayerID)
}
