package repository

import "time"

// ActionType is the kind of an activity log entry.
type ActionType string

const (
	ActionSignUp           ActionType = "SIGN_UP"
	ActionSignIn           ActionType = "SIGN_IN"
	ActionSignOut          ActionType = "SIGN_OUT"
	ActionUpdatePassword   ActionType = "UPDATE_PASSWORD"
	ActionDeleteAccount    ActionType = "DELETE_ACCOUNT"
	ActionUpdateAccount    ActionType = "UPDATE_ACCOUNT"
	ActionCreateTeam       ActionType = "CREATE_TEAM"
	ActionRemoveTeamMember ActionType = "REMOVE_TEAM_MEMBER"
	ActionInviteTeamMember ActionType = "INVITE_TEAM_MEMBER"
	ActionAcceptInvitation ActionType = "ACCEPT_INVITATION"
)

// Valid reports whether a is a known action.
func (a ActionType) Valid() bool {
	switch a {
	case ActionSignUp, ActionSignIn, ActionSignOut, ActionUpdatePassword,
		ActionDeleteAccount, ActionUpdateAccount, ActionCreateTeam,
		ActionRemoveTeamMember, ActionInviteTeamMember, ActionAcceptInvitation:
		return true
	}
	return false
}

// Team member roles.
const (
	RoleOwner  = "owner"
	RoleMember = "member"
)

// DefaultPlan is reported for teams without a subscription.
const DefaultPlan = "Free"

type User struct {
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Role         string    `json:"role"`
	PasswordHash string    `json:"-"`
	ID           int64     `json:"id"`
}

// DefaultTeamName is the name of the team created at sign-up.
func (u *User) DefaultTeamName() string {
	if u.Name != "" {
		return u.Name + "'s Team"
	}
	return u.Email + "'s Team"
}

// NewUser is the input of CreateUserWithTeam. PasswordHash must already be
// hashed.
type NewUser struct {
	Name         string
	Email        string
	PasswordHash string
	IPAddress    string
}

// UserUpdate is the input of UpdateUser.
type UserUpdate struct {
	Name  string
	Email string
}

type Team struct {
	CreatedAt          time.Time    `json:"created_at"`
	Name               string       `json:"name"`
	PlanName           string       `json:"plan_name"`
	SubscriptionStatus string       `json:"subscription_status,omitempty"`
	Members            []TeamMember `json:"members"`
	ID                 int64        `json:"id"`
}

type TeamMember struct {
	JoinedAt time.Time  `json:"joined_at"`
	Role     string     `json:"role"`
	User     MemberUser `json:"user"`
	ID       int64      `json:"id"`
}

// MemberUser is the public part of a member's user record.
type MemberUser struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	ID    int64  `json:"id"`
}

type ActivityLog struct {
	Timestamp time.Time  `json:"timestamp"`
	Action    ActionType `json:"action"`
	IPAddress string     `json:"ip_address,omitempty"`
	UserName  string     `json:"user_name,omitempty"`
	ID        int64      `json:"id"`
}

// Activity is the input of LogActivity.
type Activity struct {
	Action    ActionType
	IPAddress string
	UserID    int64
}
