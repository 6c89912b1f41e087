package project

// InstantiateMsg carries the fully-formed initial record, supplied by
// the factory rather than the end client.
type InstantiateMsg struct {
	Project Project `json:"project"`
}

// ExecuteMsg is the closed union of project actions. Exactly one
// variant must be set.
type ExecuteMsg struct {
	UpdateAdmin         *UpdateAdminMsg         `json:"update_admin,omitempty"`
	FundProject         *FundProjectMsg         `json:"fund_project,omitempty"`
	WithdrawPrincipal   *WithdrawPrincipalMsg   `json:"withdraw_principal,omitempty"`
	ChangeProjectStatus *ChangeProjectStatusMsg `json:"change_project_status,omitempty"`
	WithdrawYield       *WithdrawYieldMsg       `json:"withdraw_yield,omitempty"`
}

// UpdateAdminMsg transfers or clears the instance admin.
type UpdateAdminMsg struct {
	NewAdmin *string `json:"new_admin,omitempty"`
}

// FundProjectMsg contributes the attached funds to the project.
type FundProjectMsg struct{}

// WithdrawPrincipalMsg withdraws the caller's full backed amount.
type WithdrawPrincipalMsg struct{}

// ChangeProjectStatusMsg applies the admin override and/or the
// automatic deadline rule.
type ChangeProjectStatusMsg struct {
	ProjectStatus *Status `json:"project_status,omitempty"`
}

// WithdrawYieldMsg withdraws accrued yield, role-dependent.
type WithdrawYieldMsg struct{}

// QueryMsg is the closed union of project queries.
type QueryMsg struct {
	GetProjectStatus *GetProjectStatusMsg `json:"get_project_status,omitempty"`
	GetUserBalance   *GetUserBalanceMsg   `json:"get_user_balance,omitempty"`
}

// GetProjectStatusMsg requests the full project record.
type GetProjectStatusMsg struct{}

// GetUserBalanceMsg requests one backer's recorded balance.
type GetUserBalanceMsg struct {
	User *string `json:"user,omitempty"`
}

// ProjectStatusResponse answers GetProjectStatus.
type ProjectStatusResponse struct {
	ProjectStatus Project `json:"project_status"`
}

// UserBalanceResponse answers GetUserBalance. Unknown users report a
// zero balance, not an error.
type UserBalanceResponse struct {
	UserBalance uint64 `json:"user_balance,string"`
}
