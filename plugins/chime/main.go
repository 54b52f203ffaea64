package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/hashicorp/go-plugin"

	hookrpc "stillness/internal/modules/hooks/adapter/out/rpc"
)

const logEnv = "STILLNESS_CHIME_LOG"

type server struct {
	mu sync.Mutex
}

func (s *server) GetMetadata(_ context.Context, _ *hookrpc.Empty) (*hookrpc.Metadata, error) {
	return &hookrpc.Metadata{
		Name:    "chime",
		Version: "1.0.0",
		Events:  []string{"session_completed", "phase_changed"},
	}, nil
}

func (s *server) Notify(_ context.Context, in *hookrpc.Event) (*hookrpc.Ack, error) {
	path := os.Getenv(logEnv)
	if path == "" {
		return &hookrpc.Ack{Accepted: true, Message: "no log configured"}, nil
	}
	line, err := json.Marshal(in)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open chime log: %w", err)
	}
	defer f.Close()
	if _, err := f.Write(append(line, '\n')); err != nil {
		return nil, fmt.Errorf("write chime log: %w", err)
	}
	return &hookrpc.Ack{Accepted: true}, nil
}

func main() {
	plugin.Serve(&plugin.ServeConfig{
		HandshakeConfig: hookrpc.HandshakeConfig,
		Plugins:         hookrpc.PluginMap(&server{}),
		GRPCServer:      plugin.DefaultGRPCServer,
	})
}
