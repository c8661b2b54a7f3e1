package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// User represents a marketplace account. WalletBalance mirrors the ledger's
// authoritative balance column on the users row.
type User struct {
	ID            string
	Email         string
	Name          string
	Role          Role
	WalletBalance decimal.Decimal
	CreatedAt     time.Time
	UpdatedAt     time.Time
	Active        bool
}

// Role represents a user's access level
type Role string

const (
	// RoleAdmin runs the back-office: payouts, adjustments, gateway config
	RoleAdmin Role = "admin"

	// RoleCreator fulfills video requests and withdraws earnings
	RoleCreator Role = "creator"

	// RoleFan funds a wallet and requests videos
	RoleFan Role = "fan"
)

// Valid roles
var validRoles = map[Role]bool{
	RoleAdmin:   true,
	RoleCreator: true,
	RoleFan:     true,
}

// IsValid checks if the role is a valid role
func (r Role) IsValid() bool {
	return validRoles[r]
}

// CanWithdraw checks if the role can submit withdrawal requests
func (r Role) CanWithdraw() bool {
	return r == RoleCreator
}

// CanAdjustBalances checks if the role can adjust other users' balances
func (r Role) CanAdjustBalances() bool {
	return r == RoleAdmin
}

// CanApprovePayouts checks if the role can approve withdrawal requests
func (r Role) CanApprovePayouts() bool {
	return r == RoleAdmin
}

// Authentication errors
var (
	ErrUnauthorized     = errors.New("unauthorized")
	ErrInvalidToken     = errors.New("invalid token")
	ErrExpiredToken     = errors.New("token has expired")
	ErrInsufficientRole = errors.New("insufficient role for this operation")
)
