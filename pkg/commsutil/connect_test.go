package commsutil

import (
	"testing"
	"time"

	commsserver "github.com/nats-io/nats-server/v2/server"
	comms "github.com/nats-io/nats.go"
)

const connectTestPrefix = "commsutil:connect_test"

// startServer runs an in-process NATS server on a random port.
func startServer(t *testing.T) *commsserver.Server {
	t.Helper()

	ns, err := commsserver.NewServer(&commsserver.Options{
		Host:   "127.0.0.1",
		Port:   -1,
		NoLog:  true,
		NoSigs: true,
	})
	if err != nil {
		t.Fatalf("%s - failed to create server: %v", connectTestPrefix, err)
	}
	go ns.Start()
	if !ns.ReadyForConnections(10 * time.Second) {
		t.Fatalf("%s - server failed to start", connectTestPrefix)
	}
	t.Cleanup(func() {
		ns.Shutdown()
		ns.WaitForShutdown()
	})
	return ns
}

func TestConnect_InvalidURL(t *testing.T) {
	nc, err := Connect("invalid://not-a-nats-server", "test-client", comms.Timeout(time.Second))
	if err == nil {
		if nc != nil {
			nc.Close()
		}
		t.Fatalf("%s - expected error for invalid URL", connectTestPrefix)
	}
	if nc != nil {
		t.Errorf("%s - expected nil connection on error", connectTestPrefix)
	}
}

func TestConnect_DefaultName(t *testing.T) {
	ns := startServer(t)

	nc, err := Connect(ns.ClientURL(), "")
	if err != nil {
		t.Fatalf("%s - unexpected error: %v", connectTestPrefix, err)
	}
	defer nc.Close()

	if nc.Opts.Name != DefaultName {
		t.Errorf("%s - name = %q, want %q", connectTestPrefix, nc.Opts.Name, DefaultName)
	}
	if !nc.IsConnected() {
		t.Errorf("%s - expected connected", connectTestPrefix)
	}
}
