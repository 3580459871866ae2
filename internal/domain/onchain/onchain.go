package onchain

import (
	"context"
	"errors"
	"time"
)

var ErrEmptyBatch = errors.New("no documents to anchor")

// DocumentHash is one entry of a DocumentStorage batch upload.
type DocumentHash struct {
	Hash string `json:"hash"`
	Name string `json:"name"`
	Size int64  `json:"size"`
	Type string `json:"type"`
}

type Receipt struct {
	TxHash      string    `json:"txHash"`
	BlockNumber string    `json:"blockNumber"`
	GasUsed     string    `json:"gasUsed"`
	GasPrice    string    `json:"gasPrice"`
	Network     string    `json:"network"`
	Timestamp   time.Time `json:"timestamp"`
}

// Anchorer records document hashes on a ledger and returns the receipt.
type Anchorer interface {
	SubmitDocumentBatch(ctx context.Context, docs []DocumentHash) (Receipt, error)
}

const (
	ChainAvalancheMainnet int64 = 43114
	ChainAvalancheFuji    int64 = 43113
	ChainLocal            int64 = 1337
)

func NetworkName(chainID int64) string {
	switch chainID {
	case ChainAvalancheMainnet:
		return "Avalanche C-Chain (Mainnet)"
	case ChainAvalancheFuji:
		return "Avalanche Fuji (Testnet)"
	case ChainLocal:
		return "Local Development"
	}
	return "Unknown Network"
}
