package main

import (
	"log"

	"github.com/btcsuite/btcd/btcutil"

	"github.com/AHUNAM/regtest-audit/internal/config"
	"github.com/AHUNAM/regtest-audit/internal/pipeline"
	"github.com/AHUNAM/regtest-audit/internal/report"
	"github.com/AHUNAM/regtest-audit/internal/rpc"
	"github.com/AHUNAM/regtest-audit/internal/storage"
	"github.com/AHUNAM/regtest-audit/internal/wallet"
)

func main() {
	cfg, err := config.Load(config.Path())
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	client, info, err := rpc.Connect(&cfg.Node)
	if err != nil {
		log.Fatalf("Failed to connect to node at %s: %v", cfg.Node.Host, err)
	}
	defer client.Close()
	log.Printf("Connected to %s node at %s (height %d)", info.Chain, cfg.Node.Host, info.Blocks)

	var store *storage.RecordStore
	if cfg.Pebble.Path != "" {
		db, err := storage.Open(cfg.Pebble.Path)
		if err != nil {
			log.Fatalf("Failed to open audit database: %v", err)
		}
		defer db.Close()
		store = storage.NewRecordStore(db)
	}

	amount, err := btcutil.NewAmount(cfg.Payment.AmountBTC)
	if err != nil {
		log.Fatalf("Invalid payment amount %v: %v", cfg.Payment.AmountBTC, err)
	}

	manager := wallet.NewManager(client, func(name string) (wallet.RPC, error) {
		return client.Wallet(name)
	})

	presenter := report.NewPresenter(nil)
	p := pipeline.New(manager, pipeline.Config{
		MinerWallet:       cfg.Wallets.Miner,
		TraderWallet:      cfg.Wallets.Trader,
		RewardLabel:       cfg.Wallets.RewardLabel,
		ReceiveLabel:      cfg.Wallets.ReceiveLabel,
		Amount:            amount,
		Memo:              cfg.Payment.Memo,
		MaxMatureAttempts: cfg.Mining.MaxAttempts,
		Params:            rpc.ChainParams(cfg.Node.Network),
	}, presenter)

	result, err := p.Run()
	if err != nil {
		log.Fatalf("Pipeline failed: %v", err)
	}

	if err := report.WriteFile(cfg.Output.Path, result.Record); err != nil {
		log.Fatalf("Failed to write audit record: %v", err)
	}
	if store != nil {
		if err := store.Save(result.Record); err != nil {
			log.Fatalf("Failed to persist audit record: %v", err)
		}
	}

	presenter.Summary(result.Record)
	log.Printf("Audit record written to %s (%d blocks mined)", cfg.Output.Path, result.BlocksMined)
}
