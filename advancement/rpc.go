package advancement

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const maxResponseSize = 1 << 20

type RPCConfig struct {
	// BaseURL is the REST root of the backend, e.g. https://<project>.supabase.co/rest/v1.
	BaseURL  string
	APIKey   string
	Function string
	Timeout  time.Duration
	// RatePerSecond limits outgoing calls; zero disables limiting.
	RatePerSecond float64
}

// RPCGateway calls the procedure over the backend's HTTP RPC endpoint.
type RPCGateway struct {
	client   *http.Client
	endpoint string
	apiKey   string
	limiter  *rate.Limiter
	logger   *slog.Logger
}

func NewRPCGateway(cfg RPCConfig, client *http.Client, logger *slog.Logger) (*RPCGateway, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("advancement rpc: base url is required")
	}
	fn := cfg.Function
	if fn == "" {
		fn = DefaultFunction
	}
	if client == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}
	if logger == nil {
		logger = slog.Default()
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if cfg.RatePerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RatePerSecond), 1)
	}

	return &RPCGateway{
		client:   client,
		endpoint: strings.TrimRight(cfg.BaseURL, "/") + "/rpc/" + fn,
		apiKey:   cfg.APIKey,
		limiter:  limiter,
		logger:   logger,
	}, nil
}

func (g *RPCGateway) SubmitScore(ctx context.Context, req Request) (*Response, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode advancement request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build advancement request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	if g.apiKey != "" {
		httpReq.Header.Set("apikey", g.apiKey)
		httpReq.Header.Set("Authorization", "Bearer "+g.apiKey)
	}

	start := time.Now()
	res, err := g.client.Do(httpReq)
	if err != nil {
		g.logger.ErrorContext(ctx, "advancement rpc request failed", slog.String("match_id", req.MatchID.String()), slog.Any("error", err))
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(io.LimitReader(res.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", ErrTransport, err)
	}

	g.logger.InfoContext(ctx, "advancement rpc completed",
		slog.String("match_id", req.MatchID.String()),
		slog.Int("status", res.StatusCode),
		slog.Duration("duration", time.Since(start)),
	)

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		if msg, ok := rpcRejection(body); ok {
			return &Response{Error: msg, Raw: json.RawMessage(body)}, nil
		}
		return nil, fmt.Errorf("%w: backend responded %d: %s", ErrTransport, res.StatusCode, rpcErrorMessage(body))
	}
	return ParseResponse(body)
}

// rpcRejection reports whether an error envelope carries a RAISE EXCEPTION
// from the procedure (SQLSTATE class P0) and returns its message.
func rpcRejection(body []byte) (string, bool) {
	var envelope struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || !strings.HasPrefix(envelope.Code, "P0") {
		return "", false
	}
	if envelope.Message == "" {
		return "advancement rejected", true
	}
	return envelope.Message, true
}

// rpcErrorMessage extracts the message of a REST error envelope.
func rpcErrorMessage(body []byte) string {
	var envelope struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Message != "" {
		return envelope.Message
	}
	msg := strings.TrimSpace(string(body))
	if len(msg) > 200 {
		msg = msg[:200]
	}
	return msg
}
