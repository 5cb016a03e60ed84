package main

import (
	"context"
	"crypto/ed25519"
	"encoding/hex"
	"encoding/json"
	"flag"
	"fmt"
	"net"
	"os"
	"strconv"

	"github.com/eigerco/bilberry/internal/block"
	"github.com/eigerco/bilberry/internal/chaintime"
	"github.com/eigerco/bilberry/internal/gateway"
	"github.com/eigerco/bilberry/internal/node"
	"github.com/eigerco/bilberry/internal/schedule"
	"github.com/eigerco/bilberry/internal/ssc"
	"github.com/eigerco/bilberry/internal/store"
	"github.com/eigerco/bilberry/pkg/db"
	"github.com/eigerco/bilberry/pkg/db/pebble"
	"github.com/eigerco/bilberry/pkg/log"
	"github.com/eigerco/bilberry/pkg/network/peer"
)

// FullNodeInfo describes one network member in the node roster file.
type FullNodeInfo struct {
	Index      uint   `json:"index"`
	IP         string `json:"address"`
	Port       int    `json:"port"`
	Ed25519Pub string `json:"ed25519_public_key"`
	Ed25519Prv string `json:"ed25519_private_key"`
}

func loadFullNodeInfos(filename string) ([]FullNodeInfo, error) {
	jsonData, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("error reading file: %w", err)
	}

	var nodes []FullNodeInfo
	if err := json.Unmarshal(jsonData, &nodes); err != nil {
		return nil, fmt.Errorf("error unmarshaling JSON: %w", err)
	}

	return nodes, nil
}

func openStore(path string) (db.KVStore, error) {
	if path == "" {
		return pebble.NewKVStore()
	}
	return pebble.NewPersistentKVStore(path)
}

// main starts a blockchain node.
// go run main.go -index 0
func main() {
	ctx := context.Background()
	index := flag.String("index", "", "Node Index")
	roster := flag.String("roster", "test_nodes.json", "Node roster file")
	dbPath := flag.String("db", "", "Database path, in-memory when empty")
	chainHash := flag.String("chain", "beefdead", "Chain hash identifier")
	windowLen := flag.Uint("window", 5, "Secret-sharing phase window length in slots")
	participate := flag.Bool("participate", false, "Participate in secret sharing")
	logLevel := flag.String("log-level", "info", "Log level")
	flag.Parse()

	if *index == "" {
		fmt.Fprintln(os.Stderr, "node index is required")
		os.Exit(1)
	}

	level, err := log.ParseLogLevel(*logLevel)
	if err != nil {
		panic(err)
	}
	log.Init(log.Options{LogLevel: level, Type: log.ConsoleLogger})

	ns, err := loadFullNodeInfos(*roster)
	if err != nil {
		panic(err)
	}
	i, err := strconv.Atoi(*index)
	if err != nil {
		panic(err)
	}
	if i < 0 || i >= len(ns) {
		log.Root.Fatal().Int("index", i).Msg("node index out of roster range")
	}

	listenAddr := net.JoinHostPort(ns[i].IP, strconv.Itoa(ns[i].Port))
	prv, err := hex.DecodeString(ns[i].Ed25519Prv)
	if err != nil {
		panic(err)
	}
	pub, err := hex.DecodeString(ns[i].Ed25519Pub)
	if err != nil {
		panic(err)
	}
	keys := node.Keys{
		EdPrv: ed25519.PrivateKey(prv),
		EdPub: ed25519.PublicKey(pub),
	}

	kvStore, err := openStore(*dbPath)
	if err != nil {
		panic(err)
	}
	defer kvStore.Close()

	nodeCtx := node.NewContext(keys, uint16(i), *participate)
	state := node.NewState(block.Header{})
	leaders := store.NewLeaders(kvStore)

	// Seed the current epoch's leader schedule from the roster. Every node
	// derives the same sequence from the same seed.
	rosterKeys := make([]ed25519.PublicKey, 0, len(ns))
	for _, info := range ns {
		pubKey, err := hex.DecodeString(info.Ed25519Pub)
		if err != nil {
			panic(err)
		}
		rosterKeys = append(rosterKeys, ed25519.PublicKey(pubKey))
	}
	epoch := chaintime.CurrentEpoch()
	epochLeaders, err := schedule.Leaders(schedule.EpochSeed(*chainHash, epoch), rosterKeys, chaintime.SlotsPerEpoch)
	if err != nil {
		panic(err)
	}
	if err := leaders.PutLeaders(epoch, epochLeaders); err != nil {
		panic(err)
	}

	service, err := gateway.NewService(
		chaintime.SystemClock{},
		leaders,
		nodeCtx,
		state,
		ssc.NewWindows(chaintime.SlotIndex(*windowLen)),
	)
	if err != nil {
		panic(err)
	}

	n, err := peer.NewNode(ctx, peer.Config{
		Keys:       keys,
		ListenAddr: listenAddr,
		ChainHash:  *chainHash,
		Service:    service,
	})
	if err != nil {
		panic(err)
	}

	if err := n.Start(); err != nil {
		panic(err)
	}
	log.Node.Info().Str("listen", listenAddr).Msg("node started")

	select {}
}
