package out

import (
	"context"
	"fmt"
	"os/exec"
	"sync"
	"time"

	hclog "github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-plugin"

	hookrpc "stillness/internal/modules/hooks/adapter/out/rpc"
	"stillness/internal/modules/hooks/domain"
	hooksout "stillness/internal/modules/hooks/port/out"
)

const (
	defaultStartTimeout = 3 * time.Second
	defaultCallTimeout  = 2 * time.Second
)

type connection struct {
	binary string
	client *plugin.Client
	rpc    hookrpc.HookClient
}

// GRPCHost runs hook binaries as go-plugin children. Notify keeps one child
// per hook name alive across events; Close kills them all.
type GRPCHost struct {
	logger hclog.Logger

	mu    sync.Mutex
	conns map[string]*connection
}

var _ hooksout.Host = (*GRPCHost)(nil)

func NewGRPCHost(logger hclog.Logger) *GRPCHost {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &GRPCHost{logger: logger.Named("hooks"), conns: map[string]*connection{}}
}

func (h *GRPCHost) CheckLifecycle(ctx context.Context, manifest domain.Manifest) error {
	conn, err := h.connect(manifest)
	if err != nil {
		return err
	}
	defer conn.client.Kill()

	callCtx, cancel := callContext(ctx, defaultCallTimeout)
	defer cancel()
	if _, err := conn.rpc.GetMetadata(callCtx); err != nil {
		return fmt.Errorf("get metadata: %w", err)
	}
	return nil
}

func (h *GRPCHost) GetMetadata(ctx context.Context, manifest domain.Manifest) (domain.Metadata, error) {
	conn, err := h.connect(manifest)
	if err != nil {
		return domain.Metadata{}, err
	}
	defer conn.client.Kill()

	callCtx, cancel := callContext(ctx, defaultCallTimeout)
	defer cancel()
	meta, err := conn.rpc.GetMetadata(callCtx)
	if err != nil {
		return domain.Metadata{}, fmt.Errorf("get metadata: %w", err)
	}
	events := make([]domain.EventType, 0, len(meta.Events))
	for _, event := range meta.Events {
		events = append(events, domain.EventType(event))
	}
	return domain.Metadata{Name: meta.Name, Version: meta.Version, Events: events}, nil
}

func (h *GRPCHost) Notify(ctx context.Context, manifest domain.Manifest, event domain.Event) (domain.Ack, error) {
	conn, err := h.cached(manifest)
	if err != nil {
		return domain.Ack{}, err
	}

	callCtx, cancel := callContext(ctx, defaultCallTimeout)
	defer cancel()
	ack, err := conn.rpc.Notify(callCtx, &hookrpc.Event{
		Type:             string(event.Type),
		Kind:             event.Kind,
		Minutes:          int32(event.Minutes),
		Technique:        event.Technique,
		MeditationID:     event.MeditationID,
		Label:            event.Label,
		SecondsRemaining: event.SecondsRemaining,
		OccurredAtMS:     event.OccurredAt.UnixMilli(),
	})
	if err != nil {
		h.drop(manifest.Name, conn)
		if callCtx.Err() == context.DeadlineExceeded {
			return domain.Ack{}, fmt.Errorf("%w: %s", domain.ErrHookTimeout, manifest.Name)
		}
		return domain.Ack{}, fmt.Errorf("notify %s: %w", manifest.Name, err)
	}
	return domain.Ack{Accepted: ack.Accepted, Message: ack.Message}, nil
}

// Close kills every cached child process.
func (h *GRPCHost) Close() error {
	h.mu.Lock()
	conns := h.conns
	h.conns = map[string]*connection{}
	h.mu.Unlock()
	for _, conn := range conns {
		conn.client.Kill()
	}
	return nil
}

func (h *GRPCHost) cached(manifest domain.Manifest) (*connection, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if conn, ok := h.conns[manifest.Name]; ok {
		if conn.binary == manifest.Binary && !conn.client.Exited() {
			return conn, nil
		}
		conn.client.Kill()
		delete(h.conns, manifest.Name)
	}
	conn, err := h.connect(manifest)
	if err != nil {
		return nil, err
	}
	h.conns[manifest.Name] = conn
	return conn, nil
}

func (h *GRPCHost) drop(name string, conn *connection) {
	h.mu.Lock()
	if h.conns[name] == conn {
		delete(h.conns, name)
	}
	h.mu.Unlock()
	conn.client.Kill()
}

func (h *GRPCHost) connect(manifest domain.Manifest) (*connection, error) {
	client := plugin.NewClient(&plugin.ClientConfig{
		HandshakeConfig:  hookrpc.HandshakeConfig,
		AllowedProtocols: []plugin.Protocol{plugin.ProtocolGRPC},
		Plugins:          hookrpc.PluginMap(nil),
		Cmd:              exec.Command(manifest.Binary),
		Managed:          true,
		StartTimeout:     defaultStartTimeout,
		Logger:           h.logger.Named(manifest.Name),
	})

	rpcClient, err := client.Client()
	if err != nil {
		client.Kill()
		return nil, fmt.Errorf("start hook client: %w", err)
	}
	raw, err := rpcClient.Dispense(hookrpc.PluginMapKey)
	if err != nil {
		client.Kill()
		return nil, fmt.Errorf("dispense hook: %w", err)
	}
	typed, ok := raw.(hookrpc.HookClient)
	if !ok {
		client.Kill()
		return nil, fmt.Errorf("hook rpc client type mismatch")
	}
	return &connection{binary: manifest.Binary, client: client, rpc: typed}, nil
}

func callContext(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := parent.Deadline(); ok {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, timeout)
}
