// Command embedded demonstrates running the node behaviour engine inside a
// host process that owns its own resource population logic, mirroring the
// shape of ghalamif-AegisFlow's example/basic.
package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/jasperpeeters/nmos-node/pkg/nmosnode"
)

func main() {
	settings, err := nmosnode.LoadSettings("./config.yaml")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	node, err := nmosnode.New(settings)
	if err != nil {
		log.Fatalf("build node: %v", err)
	}

	selfID := "5c2f231a-b6a6-4c3d-9e1f-2f0c8b6a1a11"
	node.InsertResource(&nmosnode.Resource{
		ID:            selfID,
		Type:          nmosnode.TypeNode,
		Data:          []byte(`{"id":"` + selfID + `","label":"example node"}`),
		SchemaVersion: "v1.3",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := node.Run(ctx); err != nil && err != context.Canceled {
		log.Fatalf("node behaviour engine exited: %v", err)
	}
}
