package domain

// Roles carried in bearer-token claims.
const (
	// RoleDispatcher is the telephony worker that relays utterances for live calls.
	RoleDispatcher = "dispatcher"
	// RoleOperator reads recorded call outcomes.
	RoleOperator = "operator"
)
