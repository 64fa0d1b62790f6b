package sign

import (
	"context"
	"errors"

	"github.com/status-im/hooked-wallet/transactions"
)

var (
	// ErrTransactionDenied is returned when the approval hook declines a transaction.
	ErrTransactionDenied = errors.New("user denied transaction signature")
	// ErrMessageDenied is returned when the approval hook declines a message.
	ErrMessageDenied = errors.New("user denied message signature")
)

// Approvers bundles the per-kind approval hooks. A nil field auto-approves
// its kind.
type Approvers struct {
	Transaction     ApproveTransactionFunc
	Message         ApproveMessageFunc
	PersonalMessage ApproveMessageFunc
	TypedMessage    ApproveTypedMessageFunc
}

// Gate is the approval stage. Each request kind consults its own hook and a
// declined decision maps to the kind's denial error; hook failures propagate
// unchanged.
type Gate struct {
	approveTransaction     ApproveTransactionFunc
	approveMessage         ApproveMessageFunc
	approvePersonalMessage ApproveMessageFunc
	approveTypedMessage    ApproveTypedMessageFunc
}

// NewGate returns a Gate with every absent approver defaulted to auto-approval.
func NewGate(approvers Approvers) *Gate {
	gate := &Gate{
		approveTransaction:     approvers.Transaction,
		approveMessage:         approvers.Message,
		approvePersonalMessage: approvers.PersonalMessage,
		approveTypedMessage:    approvers.TypedMessage,
	}
	if gate.approveTransaction == nil {
		gate.approveTransaction = func(ctx context.Context, args transactions.SendTxArgs) (bool, error) {
			return true, nil
		}
	}
	if gate.approveMessage == nil {
		gate.approveMessage = approveAnyMessage
	}
	if gate.approvePersonalMessage == nil {
		gate.approvePersonalMessage = approveAnyMessage
	}
	if gate.approveTypedMessage == nil {
		gate.approveTypedMessage = func(ctx context.Context, msg TypedMessageParams) (bool, error) {
			return true, nil
		}
	}
	return gate
}

func approveAnyMessage(ctx context.Context, msg MessageParams) (bool, error) {
	return true, nil
}

// ApproveTransaction asks the transaction approver for a decision.
func (g *Gate) ApproveTransaction(ctx context.Context, args transactions.SendTxArgs) error {
	approved, err := g.approveTransaction(ctx, args)
	if err != nil {
		return err
	}
	if !approved {
		return ErrTransactionDenied
	}
	return nil
}

// ApproveMessage asks the eth_sign approver for a decision.
func (g *Gate) ApproveMessage(ctx context.Context, msg MessageParams) error {
	return g.messageDecision(g.approveMessage(ctx, msg))
}

// ApprovePersonalMessage asks the personal_sign approver for a decision.
func (g *Gate) ApprovePersonalMessage(ctx context.Context, msg MessageParams) error {
	return g.messageDecision(g.approvePersonalMessage(ctx, msg))
}

// ApproveTypedMessage asks the typed-data approver for a decision.
func (g *Gate) ApproveTypedMessage(ctx context.Context, msg TypedMessageParams) error {
	return g.messageDecision(g.approveTypedMessage(ctx, msg))
}

func (g *Gate) messageDecision(approved bool, err error) error {
	if err != nil {
		return err
	}
	if !approved {
		return ErrMessageDenied
	}
	return nil
}
