package factory

// InstantiateMsg configures a new factory. Both venue addresses are
// required even though the integration is stubbed; a factory deployed
// without them would spawn projects that can never deposit.
type InstantiateMsg struct {
	ProjectCodeID            string  `json:"project_code_id"`
	AnchorMoneyMarketAddress *string `json:"anchor_money_market_address,omitempty"`
	AUstAddress              *string `json:"a_ust_address,omitempty"`
}

// ExecuteMsg is the closed union of factory actions. Exactly one
// variant must be set.
type ExecuteMsg struct {
	CreateProject *CreateProjectMsg `json:"create_project,omitempty"`
	UpdateAdmin   *UpdateAdminMsg   `json:"update_admin,omitempty"`
}

// CreateProjectMsg starts the asynchronous creation of a project
// ledger; the caller becomes its creator.
type CreateProjectMsg struct {
	Name                  string `json:"name"`
	TargetPrincipalAmount uint64 `json:"target_principal_amount,string"`
	TargetYieldAmount     uint64 `json:"target_yield_amount,string"`
	FundDeadline          int64  `json:"fund_deadline,string"`
}

// UpdateAdminMsg transfers or clears the factory admin.
type UpdateAdminMsg struct {
	NewAdmin *string `json:"new_admin,omitempty"`
}

// QueryMsg is the closed union of factory queries.
type QueryMsg struct {
	GetProjectContractAddress *GetProjectContractAddressMsg `json:"get_project_contract_address,omitempty"`
	ListProjects              *ListProjectsMsg              `json:"list_projects,omitempty"`
}

// GetProjectContractAddressMsg looks up one registry binding.
type GetProjectContractAddressMsg struct {
	Name string `json:"name"`
}

// ListProjectsMsg enumerates the registry.
type ListProjectsMsg struct{}

// ProjectContractAddressResponse answers GetProjectContractAddress.
type ProjectContractAddressResponse struct {
	Address string `json:"address"`
}

// ProjectEntry is one registry binding.
type ProjectEntry struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

// ProjectListResponse answers ListProjects.
type ProjectListResponse struct {
	Projects []ProjectEntry `json:"projects"`
}
