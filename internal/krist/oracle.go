package krist

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ReserveOracle reports the current balance of the master reserve wallet. How
// the balance is obtained (remote node, cache) is up to the implementation.
type ReserveOracle interface {
	ReserveBalance(ctx context.Context) (int64, error)
}

// NodeClient queries a Krist node over HTTP.
type NodeClient struct {
	baseURL string
	http    *http.Client
}

// NewNodeClient builds a client for the node at baseURL.
func NewNodeClient(baseURL string) *NodeClient {
	return &NodeClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

type addressResponse struct {
	OK      bool   `json:"ok"`
	Error   string `json:"error"`
	Address struct {
		Address string `json:"address"`
		Balance int64  `json:"balance"`
	} `json:"address"`
}

// AddressBalance fetches the balance of a single address from the node.
func (c *NodeClient) AddressBalance(ctx context.Context, address string) (int64, error) {
	endpoint := c.baseURL + "/addresses/" + url.PathEscape(address)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("query node: %w", err)
	}
	defer resp.Body.Close()

	var decoded addressResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return 0, fmt.Errorf("decode node response: %w", err)
	}
	if !decoded.OK {
		return 0, fmt.Errorf("node error for address %s: %s", address, decoded.Error)
	}
	return decoded.Address.Balance, nil
}

// NodeOracle resolves the reserve balance by asking the node for the master
// wallet's address balance.
type NodeOracle struct {
	client  *NodeClient
	address string
}

// NewNodeOracle builds an oracle for the master address backed by client.
func NewNodeOracle(client *NodeClient, address string) *NodeOracle {
	return &NodeOracle{client: client, address: address}
}

// ReserveBalance returns the master wallet balance as reported by the node.
func (o *NodeOracle) ReserveBalance(ctx context.Context) (int64, error) {
	return o.client.AddressBalance(ctx, o.address)
}

// StaticOracle reports a fixed reserve balance. Used in tests and dev mode.
type StaticOracle struct {
	Balance int64
}

// ReserveBalance returns the configured balance.
func (o StaticOracle) ReserveBalance(_ context.Context) (int64, error) {
	return o.Balance, nil
}
