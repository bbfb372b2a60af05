package mapping

import (
	"github.com/vilokanam/tickmeter/pkg/api"
	"github.com/vilokanam/tickmeter/pkg/ledger"
	"github.com/vilokanam/tickmeter/pkg/models"
)

// ToApiSession converts a domain Session model to an API Session model.
// SettledAmount is derived here; the domain model never stores it.
func ToApiSession(s *models.Session) *api.Session {
	out := &api.Session{
		Id:             s.Id,
		StreamId:       s.StreamId,
		ViewerAccount:  s.ViewerAccount,
		CreatorAccount: s.CreatorAccount,
		PricePerTick:   s.PricePerTick,
		InitialLocked:  s.InitialLocked,
		LockedBalance:  s.LockedBalance,
		ConsumedTicks:  s.ConsumedTicks,
		SettledAmount:  int64(s.ConsumedTicks) * s.PricePerTick,
		State:          api.SessionState(s.State),
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      s.UpdatedAt,
	}
	if s.FailReason != "" {
		out.FailReason = &s.FailReason
	}
	return out
}

// ToApiStream converts a domain Stream model to an API Stream model.
func ToApiStream(stream *models.Stream) *api.Stream {
	return &api.Stream{
		Id:             stream.Id,
		CreatorAccount: stream.CreatorAccount,
		PricePerTick:   stream.PricePerTick,
		Live:           stream.Live,
		CreatedAt:      stream.CreatedAt,
	}
}

// ToApiSettlementRecord converts a domain SettlementRecord to an API model.
func ToApiSettlementRecord(rec *models.SettlementRecord) *api.SettlementRecord {
	return &api.SettlementRecord{
		SessionId:      rec.SessionId,
		Sequence:       rec.Sequence,
		StreamId:       rec.StreamId,
		CreatorAccount: rec.CreatorAccount,
		Amount:         rec.Amount,
		LedgerTxRef:    rec.LedgerTxRef,
		SettledAt:      rec.SettledAt,
	}
}

// ToApiWithdrawal converts a domain Withdrawal model to an API model.
func ToApiWithdrawal(wd *models.Withdrawal) *api.Withdrawal {
	out := &api.Withdrawal{
		IdempotencyKey: wd.IdempotencyKey,
		CreatorAccount: wd.CreatorAccount,
		Amount:         wd.Amount,
		Status:         api.WithdrawalStatus(wd.Status),
		CreatedAt:      wd.CreatedAt,
		UpdatedAt:      wd.UpdatedAt,
	}
	if wd.LedgerTxRef != "" {
		out.LedgerTxRef = &wd.LedgerTxRef
	}
	return out
}

// ToApiAccount converts a ledger Account view to an API model.
func ToApiAccount(acct *ledger.Account) *api.Account {
	return &api.Account{
		AccountId: acct.AccountId,
		Balance:   acct.Balance,
		Reserved:  acct.Reserved,
	}
}

// ToApiCreatorBalance converts a domain CreatorBalance to an API model.
func ToApiCreatorBalance(b *models.CreatorBalance) *api.CreatorBalance {
	return &api.CreatorBalance{
		CreatorAccount: b.CreatorAccount,
		SettledTotal:   b.SettledTotal,
		WithdrawnTotal: b.WithdrawnTotal,
		Available:      b.Available(),
	}
}
