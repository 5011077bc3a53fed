package app

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/symbol/symbol-faucet/pkg/statistics"
	"github.com/symbol/symbol-faucet/pkg/symbol"
)

const testPrivateKey = "575DBB3062267EFF57C970A336EBBC8FBCFE12C5BD3ED7BC11EB0481D7704CED"

// fakeFactory implements symbol.RepositoryFactory for testing.
type fakeFactory struct {
	url          string
	networkType  symbol.NetworkType
	networkErr   error
	health       *symbol.NodeHealth
	healthErr    error
	healthDelay  time.Duration
	ignoreCtx    bool
	release      chan struct{}
	mosaicID     string
	divisibility int
	mosaics      []symbol.Mosaic
	networkCalls atomic.Int32
	closed       atomic.Bool
}

func healthOf(apiNode, db string) *symbol.NodeHealth {
	h := &symbol.NodeHealth{}
	h.Status.APINode = apiNode
	h.Status.DB = db
	return h
}

func newFakeFactory(url string) *fakeFactory {
	return &fakeFactory{
		url:          url,
		networkType:  symbol.TestNet,
		health:       healthOf(symbol.StatusUp, symbol.StatusUp),
		mosaicID:     "72C0212E67A08BCE",
		divisibility: 6,
	}
}

func (f *fakeFactory) NodeURL() string { return f.url }

func (f *fakeFactory) NodeHealth(ctx context.Context) (*symbol.NodeHealth, error) {
	if f.ignoreCtx {
		<-f.release
		return f.health, f.healthErr
	}
	if f.healthDelay > 0 {
		select {
		case <-time.After(f.healthDelay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return f.health, f.healthErr
}

func (f *fakeFactory) NetworkType(context.Context) (symbol.NetworkType, error) {
	f.networkCalls.Add(1)
	return f.networkType, f.networkErr
}

func (f *fakeFactory) GenerationHash(context.Context) (string, error) {
	return "49D6E1CE276A85B70EAFE52349AACCA389302E7A9754BCF1221E79494FC665A4", nil
}

func (f *fakeFactory) EpochAdjustment(context.Context) (int64, error) {
	return 1667250467, nil
}

func (f *fakeFactory) CurrencyMosaicID(context.Context) (string, error) {
	return f.mosaicID, nil
}

func (f *fakeFactory) MosaicDivisibility(context.Context, string) (int, error) {
	return f.divisibility, nil
}

func (f *fakeFactory) AccountMosaics(context.Context, string) ([]symbol.Mosaic, error) {
	return f.mosaics, nil
}

func (f *fakeFactory) Close() error {
	f.closed.Store(true)
	return nil
}

// fakeLister implements statistics.NodeLister for testing.
type fakeLister struct {
	records []statistics.NodeRecord
	err     error
	calls   atomic.Int32
}

func (l *fakeLister) Nodes(context.Context, statistics.NodeSearchCriteria) ([]statistics.NodeRecord, error) {
	l.calls.Add(1)
	return l.records, l.err
}
