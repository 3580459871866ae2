package chain

import (
	"context"
	"fmt"
	"math/rand"
	"strconv"
	"sync"
	"time"

	"lcflow/internal/domain/onchain"
)

var _ onchain.Anchorer = (*Simulated)(nil)

// Simulated produces a plausible receipt without touching any network.
// It is the default anchorer for demos and local runs.
type Simulated struct {
	mu      sync.Mutex
	rnd     *rand.Rand
	network string
	now     func() time.Time
}

func NewSimulated(seed int64) *Simulated {
	return &Simulated{
		rnd:     rand.New(rand.NewSource(seed)),
		network: "Avalanche C-Chain",
		now:     time.Now,
	}
}

func (s *Simulated) SubmitDocumentBatch(ctx context.Context, docs []onchain.DocumentHash) (onchain.Receipt, error) {
	if err := ctx.Err(); err != nil {
		return onchain.Receipt{}, err
	}
	if len(docs) == 0 {
		return onchain.Receipt{}, onchain.ErrEmptyBatch
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return onchain.Receipt{
		TxHash:      "0x" + s.base36(11),
		BlockNumber: strconv.Itoa(1_000_000 + s.rnd.Intn(1_000_000)),
		GasUsed:     strconv.Itoa(50_000 + s.rnd.Intn(100_000)),
		GasPrice:    fmt.Sprintf("%.2f", 10+s.rnd.Float64()*20),
		Network:     s.network,
		Timestamp:   s.now().UTC(),
	}, nil
}

const base36 = "0123456789abcdefghijklmnopqrstuvwxyz"

func (s *Simulated) base36(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = base36[s.rnd.Intn(len(base36))]
	}
	return string(b)
}
