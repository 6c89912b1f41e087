// Package service maps HTTP requests onto host invocations against
// the factory and its project instances.
package service

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/riskless-finance/riskless/contract"
	"github.com/riskless-finance/riskless/contract/factory"
	"github.com/riskless-finance/riskless/host"
)

// Service handles third-party requests against one factory instance.
type Service struct {
	host    *host.Host
	factory string
}

// New creates a new service instance over the factory at
// factoryAddress.
func New(h *host.Host, factoryAddress string) *Service {
	return &Service{
		host:    h,
		factory: factoryAddress,
	}
}

type pingResp struct {
	Pong string `json:"pong"`
}

// Ping handles the /ping request.
func (s *Service) Ping(_ *gin.Context) (*pingResp, error) {
	return &pingResp{Pong: "pong"}, nil
}

type attribute struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// execResp carries the response attributes of an execute invocation.
// Retryable refusals surface here as a "status" attribute on a
// successful response; callers branch on success-vs-error to decide
// whether to retry.
type execResp struct {
	Attributes []attribute `json:"attributes"`
}

func newExecResp(resp *contract.Response) *execResp {
	attrs := make([]attribute, len(resp.Attributes))
	for i, a := range resp.Attributes {
		attrs[i] = attribute{Key: a.Key, Value: a.Value}
	}

	return &execResp{Attributes: attrs}
}

// projectAddress resolves a project name through the factory registry.
func (s *Service) projectAddress(ctx context.Context, name string) (string, error) {
	resp := &factory.ProjectContractAddressResponse{}
	if err := s.host.Query(ctx, s.factory, &factory.QueryMsg{
		GetProjectContractAddress: &factory.GetProjectContractAddressMsg{
			Name: name,
		},
	}, resp); err != nil {
		return "", err
	}

	return resp.Address, nil
}
