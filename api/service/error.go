package service

import (
	"github.com/pkg/errors"

	"github.com/riskless-finance/riskless/contract"
	"github.com/riskless-finance/riskless/contract/admin"
	"github.com/riskless-finance/riskless/contract/factory"
	"github.com/riskless-finance/riskless/contract/project"
	"github.com/riskless-finance/riskless/host"
)

var (
	// ErrSystem is the fallback for errors with no assigned code.
	ErrSystem             = errors.New("system error")
	errMissingProjectName = errors.New("missing project name")
	errMissingUser        = errors.New("missing user")
)

// ErrorCode maps service and contract errors to stable API codes.
var ErrorCode = map[error]int{
	ErrSystem:             1000,
	errMissingProjectName: 1001,
	errMissingUser:        1002,

	contract.ErrUnknownRequest: 1100,
	host.ErrUnknownContract:    1101,
	host.ErrUnknownKind:        1102,

	admin.ErrUnauthorized: 1200,

	factory.ErrInvalidAddress:           1300,
	factory.ErrDuplicateProject:         1301,
	factory.ErrUnableToCreateNewProject: 1302,
	factory.ErrNoPendingProject:         1303,
	factory.ErrNotFound:                 1304,

	project.ErrUnableToFundProject:          1400,
	project.ErrDepositMinimum:               1401,
	project.ErrUnableToAcquireYield:         1402,
	project.ErrCreatorUnableToWithdrawYield: 1403,
	project.ErrNoBackingFound:               1404,
	project.ErrAmountOverflow:               1405,
	project.ErrAmountUnderflow:              1406,
	project.ErrMissingUser:                  1407,
}
