package service

import (
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	"github.com/riskless-finance/riskless/contract"
	"github.com/riskless-finance/riskless/contract/project"
)

type coin struct {
	Denom  string `json:"denom" binding:"required"`
	Amount uint64 `json:"amount" binding:"required"`
}

type fundProjectReq struct {
	Sender string `json:"sender" binding:"required"`
	Name   string `json:"name" binding:"required"`
	Funds  []coin `json:"funds" binding:"required,min=1"`
}

// FundProject handles the POST /fund request.
func (s *Service) FundProject(c *gin.Context) (*execResp, error) {
	req := &fundProjectReq{}
	if err := c.ShouldBindJSON(req); err != nil {
		return nil, errors.Wrap(err, "bind fund request")
	}

	address, err := s.projectAddress(c.Request.Context(), req.Name)
	if err != nil {
		return nil, err
	}

	funds := make([]contract.Coin, len(req.Funds))
	for i, f := range req.Funds {
		funds[i] = contract.Coin{Denom: f.Denom, Amount: f.Amount}
	}

	resp, err := s.host.Execute(
		c.Request.Context(),
		address,
		req.Sender,
		funds,
		&project.ExecuteMsg{FundProject: &project.FundProjectMsg{}},
	)
	if err != nil {
		return nil, err
	}

	return newExecResp(resp), nil
}

type projectActionReq struct {
	Sender string `json:"sender" binding:"required"`
	Name   string `json:"name" binding:"required"`
}

// WithdrawPrincipal handles the POST /withdraw-principal request.
func (s *Service) WithdrawPrincipal(c *gin.Context) (*execResp, error) {
	req := &projectActionReq{}
	if err := c.ShouldBindJSON(req); err != nil {
		return nil, errors.Wrap(err, "bind withdraw principal request")
	}

	return s.executeProject(c, req.Name, req.Sender, &project.ExecuteMsg{
		WithdrawPrincipal: &project.WithdrawPrincipalMsg{},
	})
}

// WithdrawYield handles the POST /withdraw-yield request.
func (s *Service) WithdrawYield(c *gin.Context) (*execResp, error) {
	req := &projectActionReq{}
	if err := c.ShouldBindJSON(req); err != nil {
		return nil, errors.Wrap(err, "bind withdraw yield request")
	}

	return s.executeProject(c, req.Name, req.Sender, &project.ExecuteMsg{
		WithdrawYield: &project.WithdrawYieldMsg{},
	})
}

type changeStatusReq struct {
	Sender        string  `json:"sender" binding:"required"`
	Name          string  `json:"name" binding:"required"`
	ProjectStatus *string `json:"project_status"`
}

// ChangeProjectStatus handles the POST /change-status request.
func (s *Service) ChangeProjectStatus(c *gin.Context) (*execResp, error) {
	req := &changeStatusReq{}
	if err := c.ShouldBindJSON(req); err != nil {
		return nil, errors.Wrap(err, "bind change status request")
	}

	msg := &project.ChangeProjectStatusMsg{}
	if req.ProjectStatus != nil {
		status, err := project.ParseStatus(*req.ProjectStatus)
		if err != nil {
			return nil, err
		}
		msg.ProjectStatus = &status
	}

	return s.executeProject(c, req.Name, req.Sender, &project.ExecuteMsg{
		ChangeProjectStatus: msg,
	})
}

// UpdateProjectAdmin handles the POST /project-admin request.
func (s *Service) UpdateProjectAdmin(c *gin.Context) (*execResp, error) {
	req := &struct {
		Sender   string  `json:"sender" binding:"required"`
		Name     string  `json:"name" binding:"required"`
		NewAdmin *string `json:"new_admin"`
	}{}
	if err := c.ShouldBindJSON(req); err != nil {
		return nil, errors.Wrap(err, "bind update admin request")
	}

	return s.executeProject(c, req.Name, req.Sender, &project.ExecuteMsg{
		UpdateAdmin: &project.UpdateAdminMsg{NewAdmin: req.NewAdmin},
	})
}

func (s *Service) executeProject(
	c *gin.Context,
	name string,
	sender string,
	msg *project.ExecuteMsg,
) (*execResp, error) {
	address, err := s.projectAddress(c.Request.Context(), name)
	if err != nil {
		return nil, err
	}

	resp, err := s.host.Execute(c.Request.Context(), address, sender, nil, msg)
	if err != nil {
		return nil, err
	}

	return newExecResp(resp), nil
}

type projectStatusResp struct {
	Name                  string `json:"name"`
	Creator               string `json:"creator"`
	CreationDate          int64  `json:"creation_date"`
	ProjectStatus         string `json:"project_status"`
	TargetPrincipalAmount uint64 `json:"target_principal_amount"`
	TargetYieldAmount     uint64 `json:"target_yield_amount"`
	PrincipalAmount       uint64 `json:"principal_amount"`
	FundDeadline          int64  `json:"fund_deadline"`
}

// ProjectStatus handles the GET /project-status request.
func (s *Service) ProjectStatus(c *gin.Context) (*projectStatusResp, error) {
	name := c.Query("name")
	if name == "" {
		return nil, errMissingProjectName
	}

	address, err := s.projectAddress(c.Request.Context(), name)
	if err != nil {
		return nil, err
	}

	status := &project.ProjectStatusResponse{}
	if err := s.host.Query(c.Request.Context(), address, &project.QueryMsg{
		GetProjectStatus: &project.GetProjectStatusMsg{},
	}, status); err != nil {
		return nil, err
	}

	p := status.ProjectStatus
	return &projectStatusResp{
		Name:                  p.Name,
		Creator:               p.Creator,
		CreationDate:          p.CreationDate,
		ProjectStatus:         string(p.Status),
		TargetPrincipalAmount: p.TargetPrincipalAmount,
		TargetYieldAmount:     p.TargetYieldAmount,
		PrincipalAmount:       p.PrincipalAmount,
		FundDeadline:          p.FundDeadline,
	}, nil
}

type userBalanceResp struct {
	UserBalance uint64 `json:"user_balance"`
}

// UserBalance handles the GET /user-balance request. Users that never
// funded report zero.
func (s *Service) UserBalance(c *gin.Context) (*userBalanceResp, error) {
	name := c.Query("name")
	if name == "" {
		return nil, errMissingProjectName
	}
	user := c.Query("user")
	if user == "" {
		return nil, errMissingUser
	}

	address, err := s.projectAddress(c.Request.Context(), name)
	if err != nil {
		return nil, err
	}

	balance := &project.UserBalanceResponse{}
	if err := s.host.Query(c.Request.Context(), address, &project.QueryMsg{
		GetUserBalance: &project.GetUserBalanceMsg{User: &user},
	}, balance); err != nil {
		return nil, err
	}

	return &userBalanceResp{UserBalance: balance.UserBalance}, nil
}
