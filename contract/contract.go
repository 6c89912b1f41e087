// Package contract defines the invocation vocabulary shared by the
// state machines and the host runtime: the environment and message
// info handed to an entry point, the response a contract returns, and
// the submessage/reply pair used for asynchronous child instantiation.
package contract

import (
	"encoding/json"
	"time"

	"github.com/pkg/errors"

	"github.com/riskless-finance/riskless/ledger"
)

// ErrUnknownRequest is returned when a tagged-union request carries no
// recognized variant.
var ErrUnknownRequest = errors.New("unknown request variant")

// Coin is one denomination of funds attached to an invocation.
type Coin struct {
	Denom  string `json:"denom"`
	Amount uint64 `json:"amount,string"`
}

// MessageInfo describes the caller of an entry point.
type MessageInfo struct {
	Sender string
	Funds  []Coin
}

// Env describes the executing instance and the invocation time.
type Env struct {
	Contract  string
	BlockTime time.Time
}

// Attribute is one key/value pair of response metadata. Refusals that
// callers may retry later are reported as attributes on a successful
// response, never as errors.
type Attribute struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// InstantiateRequest asks the host to spawn a child instance of the
// given contract kind, initialized with Msg.
type InstantiateRequest struct {
	Kind  string          `json:"kind"`
	Admin string          `json:"admin"`
	Msg   json.RawMessage `json:"msg"`
}

// SubMsg is an asynchronous request emitted by a contract for the host
// to process after the issuing entry point returns. When
// ReplyOnSuccess is set, the host delivers a Reply carrying ReplyID
// once the request completes.
type SubMsg struct {
	ReplyID        string
	ReplyOnSuccess bool
	Instantiate    *InstantiateRequest
}

// Reply is the host acknowledgment for a completed submessage.
type Reply struct {
	ID   string `json:"id"`
	Data []byte `json:"data"`
}

// InstantiateResult is the acknowledgment payload for a completed
// child instantiation.
type InstantiateResult struct {
	ContractAddress string `json:"contract_address"`
}

// Response is the result of a successful entry-point invocation.
type Response struct {
	Attributes []Attribute
	Messages   []SubMsg
}

// NewResponse returns an empty response.
func NewResponse() *Response {
	return &Response{}
}

// AddAttribute appends one response attribute.
func (r *Response) AddAttribute(key, value string) *Response {
	r.Attributes = append(r.Attributes, Attribute{Key: key, Value: value})
	return r
}

// AddMessage appends one submessage.
func (r *Response) AddMessage(msg SubMsg) *Response {
	r.Messages = append(r.Messages, msg)
	return r
}

// Attribute returns the value of the named response attribute and
// whether it is present.
func (r *Response) Attribute(key string) (string, bool) {
	for _, a := range r.Attributes {
		if a.Key == key {
			return a.Value, true
		}
	}

	return "", false
}

// Contract is one state machine executable by the host. Entry points
// run inside the transaction of the enclosing top-level invocation;
// returning an error aborts that transaction entirely.
type Contract interface {
	Instantiate(env Env, store ledger.Store, info MessageInfo, msg json.RawMessage) (*Response, error)
	Execute(env Env, store ledger.Store, info MessageInfo, msg json.RawMessage) (*Response, error)
	Query(env Env, store ledger.Store, msg json.RawMessage) (json.RawMessage, error)
	Reply(env Env, store ledger.Store, reply Reply) (*Response, error)
}
