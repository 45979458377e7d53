package user

import (
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/trezcool/studyhub/core"
)

type Role string

// Roles
const (
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
	RoleAdmin   Role = "admin"
)

var (
	AllRoles = []Role{RoleStudent, RoleTeacher, RoleAdmin}

	hashCost = bcrypt.DefaultCost // mockable
)

func (r Role) IsValid() bool {
	for _, role := range AllRoles {
		if r == role {
			return true
		}
	}
	return false
}

// User is an account of the portal. Its Role never changes after creation.
// Students carry a RollNo and Branch, teachers a Department.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	Role         Role      `json:"role"`
	RollNo       string    `json:"rollNo"`
	Branch       string    `json:"branch"`
	Department   string    `json:"department,omitempty"`
	IsActive     bool      `json:"isActive"`
	PasswordHash []byte    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"` // UTC
}

func (u *User) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), hashCost)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return nil
}

func (u *User) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(pwd))
}

// MatchesIdentifier reports whether identifier is the user's email, phone number or roll number.
// Empty attributes never match.
func (u *User) MatchesIdentifier(identifier string) bool {
	if identifier == "" {
		return false
	}
	return (u.Email != "" && strings.EqualFold(u.Email, identifier)) ||
		(u.Phone != "" && u.Phone == identifier) ||
		(u.RollNo != "" && strings.EqualFold(u.RollNo, identifier))
}

func (u *User) IsAdmin() bool   { return u.Role == RoleAdmin }
func (u *User) IsTeacher() bool { return u.Role == RoleTeacher }
func (u *User) IsStudent() bool { return u.Role == RoleStudent }

// Credentials identify a user by email, phone number or roll number.
type Credentials struct {
	Identifier string `json:"identifier" validate:"required"`
	Password   string `json:"password" validate:"required"`
}

func (c *Credentials) Clean() {
	c.Identifier = core.CleanString(c.Identifier)
}

// NewUser contains information needed to create a new User.
type NewUser struct {
	Name       string `json:"name" validate:"required,notblank"`
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required"`
	Phone      string `json:"phone" validate:"omitempty,max=20"`
	Role       Role   `json:"role" validate:"omitempty,userrole"`
	RollNo     string `json:"rollNo" validate:"omitempty,max=32"`
	Branch     string `json:"branch"`
	Department string `json:"department"`
}

func (nu *NewUser) Clean() {
	nu.Name = core.CleanString(nu.Name)
	nu.Email = core.CleanString(nu.Email, true /* lower */)
	nu.Phone = core.CleanString(nu.Phone)
	nu.RollNo = core.CleanString(nu.RollNo)
	nu.Branch = core.CleanString(nu.Branch)
	nu.Department = core.CleanString(nu.Department)
}

// QueryFilter narrows a user listing. Every set field must match.
// Search does a case-insensitive match on one of User.Name, User.Email, User.Phone or User.RollNo.
type QueryFilter struct {
	Search   string
	Roles    []Role
	Branches []string
	IsActive *bool
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
}

// Match applies the filter on usr.
func (qf QueryFilter) Match(usr User) bool {
	if qf.Search != "" &&
		!(core.ContainsFold(usr.Name, qf.Search) ||
			core.ContainsFold(usr.Email, qf.Search) ||
			core.ContainsFold(usr.Phone, qf.Search) ||
			core.ContainsFold(usr.RollNo, qf.Search)) {
		return false
	}
	if len(qf.Roles) > 0 && !hasRole(qf.Roles, usr.Role) {
		return false
	}
	if len(qf.Branches) > 0 && !hasBranch(qf.Branches, usr.Branch) {
		return false
	}
	if qf.IsActive != nil && usr.IsActive != *qf.IsActive {
		return false
	}
	return true
}

func hasRole(roles []Role, role Role) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}

func hasBranch(branches []string, branch string) bool {
	for _, b := range branches {
		if strings.EqualFold(b, branch) {
			return true
		}
	}
	return false
}
