package gateway

import (
	"context"
	"crypto/ed25519"

	"github.com/stretchr/testify/mock"

	"github.com/eigerco/bilberry/internal/chaintime"
	"github.com/eigerco/bilberry/internal/crypto"
	"github.com/eigerco/bilberry/internal/ssc"
)

func NewQueryServiceMock() *QueryServiceMock {
	return &QueryServiceMock{}
}

type QueryServiceMock struct {
	mock.Mock
}

func (m *QueryServiceMock) CurrentSlot(ctx context.Context) (chaintime.Slot, error) {
	args := m.MethodCalled("CurrentSlot", ctx)
	return args.Get(0).(chaintime.Slot), args.Error(1)
}

func (m *QueryServiceMock) SlotLeaders(ctx context.Context, epoch *chaintime.Epoch) ([]ed25519.PublicKey, error) {
	args := m.MethodCalled("SlotLeaders", ctx, epoch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ed25519.PublicKey), args.Error(1)
}

func (m *QueryServiceMock) Identity(ctx context.Context) (ed25519.PublicKey, error) {
	args := m.MethodCalled("Identity", ctx)
	return args.Get(0).(ed25519.PublicKey), args.Error(1)
}

func (m *QueryServiceMock) HeadBlockHash(ctx context.Context) (crypto.Hash, error) {
	args := m.MethodCalled("HeadBlockHash", ctx)
	return args.Get(0).(crypto.Hash), args.Error(1)
}

func (m *QueryServiceMock) PendingTransactionCount(ctx context.Context) (uint32, error) {
	args := m.MethodCalled("PendingTransactionCount", ctx)
	return args.Get(0).(uint32), args.Error(1)
}

func (m *QueryServiceMock) SetParticipation(ctx context.Context, enable bool) error {
	args := m.MethodCalled("SetParticipation", ctx, enable)
	return args.Error(0)
}

func (m *QueryServiceMock) SecretShare(ctx context.Context) ([]byte, error) {
	args := m.MethodCalled("SecretShare", ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *QueryServiceMock) SubProtocolStage(ctx context.Context) (ssc.Phase, error) {
	args := m.MethodCalled("SubProtocolStage", ctx)
	return args.Get(0).(ssc.Phase), args.Error(1)
}
