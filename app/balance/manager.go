package balance

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/sync/errgroup"

	"walletclient/app/config"
	"walletclient/app/models"
	"walletclient/pkg/log"
	"walletclient/pkg/metrics"
	"walletclient/pkg/node"
)

const (
	queryKindSingle = "single"
	queryKindAll    = "all"
)

// Manager queries balances straight from the chain node. Node connections
// are kept per URL and closed after being idle for ConnIdle.
type Manager struct {
	NodeURL string
	Timeout time.Duration
	Dial    Dialer
	Metrics *metrics.Collector

	mu    sync.Mutex
	conns *cache.Cache
}

func NewManager(cfg config.Chain, collector *metrics.Collector) *Manager {
	httpClient := &http.Client{Timeout: cfg.Timeout}
	return &Manager{
		NodeURL: cfg.NodeURL,
		Timeout: cfg.Timeout,
		Metrics: collector,
		Dial: func(ctx context.Context, url string) (Node, error) {
			c, err := node.Dial(ctx, url, httpClient)
			if err != nil {
				return nil, err
			}
			return c, nil
		},
		conns: newConnCache(cfg.ConnIdle),
	}
}

func newConnCache(idle time.Duration) *cache.Cache {
	if idle <= 0 {
		idle = cache.NoExpiration
	}
	c := cache.New(idle, idle)
	c.OnEvicted(func(url string, v interface{}) {
		if n, ok := v.(Node); ok {
			log.Debugw("closing node connection", "url", url)
			n.Close()
		}
	})
	return c
}

func (m *Manager) GetBalances(ctx context.Context, address string, denoms []string) ([]*models.Balance, error) {
	if m.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.Timeout)
		defer cancel()
	}

	n, err := m.client(ctx)
	if err != nil {
		return nil, m.fail(address, "", err)
	}

	if len(denoms) == 0 {
		coins, err := n.AllBalances(ctx, address)
		m.Metrics.ObserveBalanceQuery(queryKindAll, err)
		if err != nil {
			return nil, m.fail(address, "", err)
		}
		result := make([]*models.Balance, 0, len(coins))
		for _, c := range coins {
			result = append(result, &models.Balance{Denom: c.Denom, Amount: c.Amount})
		}
		return result, nil
	}

	// one query per denom; each goroutine owns result[i] only
	result := make([]*models.Balance, len(denoms))
	g, gctx := errgroup.WithContext(ctx)
	for i, denom := range denoms {
		i, denom := i, denom
		g.Go(func() error {
			coin, err := n.Balance(gctx, address, denom)
			m.Metrics.ObserveBalanceQuery(queryKindSingle, err)
			if err != nil {
				return m.fail(address, denom, err)
			}
			result[i] = &models.Balance{Denom: denom, Amount: coin.Amount}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return result, nil
}

// Close drops every pooled node connection.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.conns == nil {
		return
	}
	for url := range m.conns.Items() {
		m.conns.Delete(url)
	}
}

func (m *Manager) client(ctx context.Context) (Node, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.conns == nil {
		m.conns = newConnCache(0)
	}
	if v, ok := m.conns.Get(m.NodeURL); ok {
		// refresh the idle deadline
		m.conns.SetDefault(m.NodeURL, v)
		return v.(Node), nil
	}

	n, err := m.Dial(ctx, m.NodeURL)
	m.Metrics.ObserveDial(err)
	if err != nil {
		log.ExtractLogger(ctx).Warnw("failed to connect to the node", "url", m.NodeURL, "error", err.Error())
		return nil, err
	}
	m.conns.SetDefault(m.NodeURL, n)
	return n, nil
}

func (m *Manager) fail(address, denom string, err error) *FetchError {
	ferr := newFetchError(address, denom, err)
	if ferr.Unreachable {
		// do not hand a broken connection to the next call
		m.mu.Lock()
		m.conns.Delete(m.NodeURL)
		m.mu.Unlock()
	}
	return ferr
}
