package models

// ApplicationDecision is the outcome applied to an application thread.
type ApplicationDecision string

const (
	DecisionApproved ApplicationDecision = "approved"
	DecisionRejected ApplicationDecision = "rejected"
)

// ApplicationResult reports what an approval or rejection actually did.
// DM delivery and announcements are best-effort, so their outcomes are
// carried separately instead of failing the whole decision.
type ApplicationResult struct {
	Decision    ApplicationDecision `json:"decision"`
	MemberID    string              `json:"member_id"`
	MemberName  string              `json:"member_name"`
	Reason      string              `json:"reason,omitempty"`
	RoleAdded   string              `json:"role_added,omitempty"`
	RoleRemoved string              `json:"role_removed,omitempty"`
	DMDelivered bool                `json:"dm_delivered"`
	Announced   bool                `json:"announced"`
}
