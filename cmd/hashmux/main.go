// Command hashmux exercises fragment routes from the command line and relays
// navigations between processes over a message broker.
package main

import (
	"os"

	// Import plugins to trigger self-registration via init()
	_ "github.com/miladsoleymani/hashmux/plugins/kafka"
	_ "github.com/miladsoleymani/hashmux/plugins/nats"
	_ "github.com/miladsoleymani/hashmux/plugins/rabbitmq"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
