package service

import (
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	"github.com/riskless-finance/riskless/contract/factory"
)

type createProjectReq struct {
	Sender                string `json:"sender" binding:"required"`
	Name                  string `json:"name" binding:"required"`
	TargetPrincipalAmount uint64 `json:"target_principal_amount" binding:"required"`
	TargetYieldAmount     uint64 `json:"target_yield_amount" binding:"required"`
	FundDeadline          int64  `json:"fund_deadline" binding:"required"`
}

type createProjectResp struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

// CreateProject handles the POST /projects request. The registry is
// bound by the factory's acknowledgment handler before the invocation
// returns, so the bound address is reported directly.
func (s *Service) CreateProject(c *gin.Context) (*createProjectResp, error) {
	req := &createProjectReq{}
	if err := c.ShouldBindJSON(req); err != nil {
		return nil, errors.Wrap(err, "bind create project request")
	}

	if _, err := s.host.Execute(
		c.Request.Context(),
		s.factory,
		req.Sender,
		nil,
		&factory.ExecuteMsg{
			CreateProject: &factory.CreateProjectMsg{
				Name:                  req.Name,
				TargetPrincipalAmount: req.TargetPrincipalAmount,
				TargetYieldAmount:     req.TargetYieldAmount,
				FundDeadline:          req.FundDeadline,
			},
		},
	); err != nil {
		return nil, err
	}

	address, err := s.projectAddress(c.Request.Context(), req.Name)
	if err != nil {
		return nil, err
	}

	return &createProjectResp{
		Name:    req.Name,
		Address: address,
	}, nil
}

type projectAddressResp struct {
	Address string `json:"address"`
}

// ProjectAddress handles the GET /project-address request.
func (s *Service) ProjectAddress(c *gin.Context) (*projectAddressResp, error) {
	name := c.Query("name")
	if name == "" {
		return nil, errMissingProjectName
	}

	address, err := s.projectAddress(c.Request.Context(), name)
	if err != nil {
		return nil, err
	}

	return &projectAddressResp{Address: address}, nil
}

type projectListResp struct {
	Projects []projectEntry `json:"projects"`
}

type projectEntry struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

// Projects handles the GET /projects request.
func (s *Service) Projects(c *gin.Context) (*projectListResp, error) {
	list := &factory.ProjectListResponse{}
	if err := s.host.Query(c.Request.Context(), s.factory, &factory.QueryMsg{
		ListProjects: &factory.ListProjectsMsg{},
	}, list); err != nil {
		return nil, err
	}

	entries := make([]projectEntry, len(list.Projects))
	for i, p := range list.Projects {
		entries[i] = projectEntry{Name: p.Name, Address: p.Address}
	}

	return &projectListResp{Projects: entries}, nil
}

type updateAdminReq struct {
	Sender   string  `json:"sender" binding:"required"`
	NewAdmin *string `json:"new_admin"`
}

// UpdateFactoryAdmin handles the POST /factory-admin request.
func (s *Service) UpdateFactoryAdmin(c *gin.Context) (*execResp, error) {
	req := &updateAdminReq{}
	if err := c.ShouldBindJSON(req); err != nil {
		return nil, errors.Wrap(err, "bind update admin request")
	}

	resp, err := s.host.Execute(
		c.Request.Context(),
		s.factory,
		req.Sender,
		nil,
		&factory.ExecuteMsg{
			UpdateAdmin: &factory.UpdateAdminMsg{NewAdmin: req.NewAdmin},
		},
	)
	if err != nil {
		return nil, err
	}

	return newExecResp(resp), nil
}
