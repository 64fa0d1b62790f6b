package sign

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/status-im/hooked-wallet/logutils"
	"github.com/status-im/hooked-wallet/transactions"
)

// Request kinds used for pending signing requests.
const (
	KindTransaction     = "transaction"
	KindMessage         = "message"
	KindPersonalMessage = "personal message"
	KindTypedMessage    = "typed message"
)

var (
	// ErrSignReqNotFound is returned when a request is decided twice or never existed.
	ErrSignReqNotFound = errors.New("signing request is not found")
	// ErrSignReqTimedOut is returned when nobody decides a request in time.
	ErrSignReqTimedOut = errors.New("signing request timed out")
)

// Meta represents any metadata that could be attached to a signing request.
// It will be JSON-serialized and used in notifications to the API consumer.
type Meta interface{}

// Request is a single signing request awaiting an interactive decision.
type Request struct {
	ID     string
	Kind   string
	Meta   Meta
	result chan bool
}

// PendingRequests is an interactive approval backend: it parks signing
// requests until an API consumer approves or discards them and adapts the
// outcome to the boolean approval hooks.
type PendingRequests struct {
	mu       sync.Mutex
	requests map[string]*Request
	logger   *zap.Logger
}

// NewPendingRequests returns an empty request queue.
func NewPendingRequests() *PendingRequests {
	return &PendingRequests{
		requests: make(map[string]*Request),
		logger:   logutils.ZapLogger().Named("PendingRequests"),
	}
}

// Add registers a new pending request of the given kind.
func (p *PendingRequests) Add(kind string, meta Meta) *Request {
	request := &Request{
		ID:     uuid.New().String(),
		Kind:   kind,
		Meta:   meta,
		result: make(chan bool, 1),
	}
	p.mu.Lock()
	p.requests[request.ID] = request
	p.mu.Unlock()
	p.logger.Info("signing request added", zap.String("id", request.ID), zap.String("kind", kind))
	return request
}

// Get returns a pending request by ID.
func (p *PendingRequests) Get(id string) (*Request, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	request, ok := p.requests[id]
	if !ok {
		return nil, ErrSignReqNotFound
	}
	return request, nil
}

// Count returns the number of undecided requests.
func (p *PendingRequests) Count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.requests)
}

// List returns a snapshot of the undecided requests.
func (p *PendingRequests) List() []*Request {
	p.mu.Lock()
	defer p.mu.Unlock()
	requests := make([]*Request, 0, len(p.requests))
	for _, request := range p.requests {
		requests = append(requests, request)
	}
	return requests
}

// Approve resolves the request affirmatively.
func (p *PendingRequests) Approve(id string) error {
	return p.decide(id, true)
}

// Discard declines the request.
func (p *PendingRequests) Discard(id string) error {
	return p.decide(id, false)
}

func (p *PendingRequests) decide(id string, approved bool) error {
	p.mu.Lock()
	request, ok := p.requests[id]
	if ok {
		delete(p.requests, id)
	}
	p.mu.Unlock()
	if !ok {
		return ErrSignReqNotFound
	}
	request.result <- approved
	p.logger.Info("signing request decided", zap.String("id", request.ID), zap.Bool("approved", approved))
	return nil
}

// Wait blocks until the request is decided, the context ends or the timeout
// expires. An undecided request is removed from the queue on the way out.
func (p *PendingRequests) Wait(ctx context.Context, request *Request, timeout time.Duration) (bool, error) {
	select {
	case approved := <-request.result:
		return approved, nil
	case <-ctx.Done():
		p.remove(request.ID)
		return false, ctx.Err()
	case <-time.After(timeout):
		p.remove(request.ID)
		return false, ErrSignReqTimedOut
	}
}

func (p *PendingRequests) remove(id string) {
	p.mu.Lock()
	delete(p.requests, id)
	p.mu.Unlock()
}

// TransactionApprover adapts the queue to the transaction approval hook.
func (p *PendingRequests) TransactionApprover(timeout time.Duration) ApproveTransactionFunc {
	return func(ctx context.Context, args transactions.SendTxArgs) (bool, error) {
		return p.Wait(ctx, p.Add(KindTransaction, args), timeout)
	}
}

// MessageApprover adapts the queue to a message approval hook of the given kind.
func (p *PendingRequests) MessageApprover(kind string, timeout time.Duration) ApproveMessageFunc {
	return func(ctx context.Context, msg MessageParams) (bool, error) {
		return p.Wait(ctx, p.Add(kind, msg), timeout)
	}
}

// TypedMessageApprover adapts the queue to the typed-data approval hook.
func (p *PendingRequests) TypedMessageApprover(timeout time.Duration) ApproveTypedMessageFunc {
	return func(ctx context.Context, msg TypedMessageParams) (bool, error) {
		return p.Wait(ctx, p.Add(KindTypedMessage, msg), timeout)
	}
}
