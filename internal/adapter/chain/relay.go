package chain

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"lcflow/internal/domain/onchain"

	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"
)

var _ onchain.Anchorer = (*Relay)(nil)

// batchUploadRequest mirrors the DocumentStorage contract call
// batchUploadDocuments(string[] hashes, string[] names, uint256[] sizes, string[] types).
type batchUploadRequest struct {
	Method  string   `json:"method"`
	ChainID int64    `json:"chainId"`
	Hashes  []string `json:"hashes"`
	Names   []string `json:"names"`
	Sizes   []int64  `json:"sizes"`
	Types   []string `json:"types"`
}

type relayResponse struct {
	TxHash      string `json:"txHash"`
	BlockNumber string `json:"blockNumber"`
	GasUsed     string `json:"gasUsed"`
	GasPrice    string `json:"gasPrice"`
	Timestamp   int64  `json:"timestamp"`
}

type RelayConfig struct {
	URL        string
	APIKey     string
	ChainID    int64
	MaxRetries uint64
	// first retry delay; backoff's default when zero
	RetryInterval time.Duration
	Timeout       time.Duration
}

// Relay sends the batch to an HTTP relayer that signs and submits the
// transaction, and returns its receipt.
type Relay struct {
	cfg    RelayConfig
	client *http.Client
}

func NewRelay(cfg RelayConfig, client *http.Client) *Relay {
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 3
	}
	return &Relay{cfg: cfg, client: client}
}

func (r *Relay) SubmitDocumentBatch(ctx context.Context, docs []onchain.DocumentHash) (onchain.Receipt, error) {
	if len(docs) == 0 {
		return onchain.Receipt{}, onchain.ErrEmptyBatch
	}
	req := batchUploadRequest{Method: "batchUploadDocuments", ChainID: r.cfg.ChainID}
	for _, d := range docs {
		req.Hashes = append(req.Hashes, d.Hash)
		req.Names = append(req.Names, d.Name)
		req.Sizes = append(req.Sizes, d.Size)
		req.Types = append(req.Types, d.Type)
	}
	body, err := json.Marshal(req)
	if err != nil {
		return onchain.Receipt{}, err
	}

	var out relayResponse
	op := func() error {
		resp, err := r.post(ctx, body)
		if err != nil {
			return err
		}
		out = resp
		return nil
	}
	eb := backoff.NewExponentialBackOff()
	if r.cfg.RetryInterval > 0 {
		eb.InitialInterval = r.cfg.RetryInterval
	}
	policy := backoff.WithContext(backoff.WithMaxRetries(eb, r.cfg.MaxRetries), ctx)
	notify := func(err error, wait time.Duration) {
		logrus.WithField("retry_in", wait).Warnf("relay submit failed: %v", err)
	}
	if err := backoff.RetryNotify(op, policy, notify); err != nil {
		return onchain.Receipt{}, err
	}

	ts := time.Now().UTC()
	if out.Timestamp > 0 {
		ts = time.Unix(out.Timestamp, 0).UTC()
	}
	return onchain.Receipt{
		TxHash:      out.TxHash,
		BlockNumber: out.BlockNumber,
		GasUsed:     out.GasUsed,
		GasPrice:    out.GasPrice,
		Network:     onchain.NetworkName(r.cfg.ChainID),
		Timestamp:   ts,
	}, nil
}

// post returns backoff.Permanent for anything a retry cannot fix.
func (r *Relay) post(ctx context.Context, body []byte) (relayResponse, error) {
	var out relayResponse
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.cfg.URL, bytes.NewReader(body))
	if err != nil {
		return out, backoff.Permanent(err)
	}
	req.Header.Set("Content-Type", "application/json")
	if r.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+r.cfg.APIKey)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return out, backoff.Permanent(ctx.Err())
		}
		return out, err
	}
	defer func() { _ = resp.Body.Close() }()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	switch {
	case resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests:
		return out, fmt.Errorf("relay status %d: %s", resp.StatusCode, raw)
	case resp.StatusCode >= 300:
		return out, backoff.Permanent(fmt.Errorf("relay status %d: %s", resp.StatusCode, raw))
	}

	if err := json.Unmarshal(raw, &out); err != nil {
		return out, backoff.Permanent(fmt.Errorf("decode relay response: %w", err))
	}
	if out.TxHash == "" {
		return out, backoff.Permanent(errors.New("relay response missing txHash"))
	}
	return out, nil
}
