package wallet

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/canopy-network/cardano/lib"
	"github.com/canopy-network/cardano/lib/address"
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/errgroup"
)

// UsageFunc reports whether an address has appeared on chain; it is supplied by the caller's chain source
type UsageFunc func(ctx context.Context, addr address.Address) (bool, error)

// AddressManager tracks the receive and change addresses handed out per account
type AddressManager struct {
	networkID uint8
	gapLimit  int

	mux      sync.RWMutex
	accounts map[uint32]*Account
	external map[uint32][]address.Address
	change   map[uint32][]address.Address
	paths    map[string]ExtendedAddress // keyed by raw address bytes

	derived *lru.Cache[string, *ExtendedAddress] // memoized base address derivations
	metrics *lib.Metrics
	log     lib.LoggerI
}

// NewAddressManager() creates an empty manager for one network
func NewAddressManager(network lib.NetworkInfo, config lib.WalletConfig, log lib.LoggerI) (*AddressManager, lib.ErrorI) {
	defaults := lib.DefaultWalletConfig()
	if config.AddressCacheSize <= 0 {
		config.AddressCacheSize = defaults.AddressCacheSize
	}
	if config.GapLimit <= 0 {
		config.GapLimit = defaults.GapLimit
	}
	if log == nil {
		log = lib.NewNullLogger()
	}
	cache, err := lru.New[string, *ExtendedAddress](config.AddressCacheSize)
	if err != nil {
		return nil, lib.ErrInvalidArgument()
	}
	return &AddressManager{
		networkID: network.NetworkID,
		gapLimit:  config.GapLimit,
		accounts:  make(map[uint32]*Account),
		external:  make(map[uint32][]address.Address),
		change:    make(map[uint32][]address.Address),
		paths:     make(map[string]ExtendedAddress),
		derived:   cache,
		log:       log,
	}, nil
}

// WithMetrics() records address scans to the given telemetry
func (m *AddressManager) WithMetrics(metrics *lib.Metrics) *AddressManager {
	m.metrics = metrics
	return m
}

// AddAccount() starts tracking an account; adding it again is a no-op
func (m *AddressManager) AddAccount(account *Account) {
	m.mux.Lock()
	defer m.mux.Unlock()
	if _, ok := m.accounts[account.Index]; ok {
		return
	}
	m.accounts[account.Index] = account
	m.external[account.Index] = nil
	m.change[account.Index] = nil
}

// Accounts() returns the tracked account indices in order
func (m *AddressManager) Accounts() []uint32 {
	m.mux.RLock()
	defer m.mux.RUnlock()
	out := make([]uint32, 0, len(m.accounts))
	for i := range m.accounts {
		out = append(out, i)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// New() derives the next unused base address of the account
func (m *AddressManager) New(account *Account, change bool) (address.Address, lib.ErrorI) {
	m.mux.Lock()
	defer m.mux.Unlock()
	list, ok := m.list(account.Index, change)
	if !ok {
		return nil, lib.ErrAccountNotInCache(account.Index)
	}
	ext, err := m.derive(account, uint32(len(list)), change)
	if err != nil {
		return nil, err
	}
	m.append(account.Index, change, *ext)
	m.log.Debugf("New address %s at %s", ext.Address, ext.Path)
	return ext.Address, nil
}

// Get() returns the addresses handed out so far
func (m *AddressManager) Get(account *Account, change bool) ([]address.Address, lib.ErrorI) {
	m.mux.RLock()
	defer m.mux.RUnlock()
	list, ok := m.list(account.Index, change)
	if !ok {
		return nil, lib.ErrAccountNotInCache(account.Index)
	}
	return append([]address.Address(nil), list...), nil
}

// Extended() attaches derivation paths to managed addresses
func (m *AddressManager) Extended(addresses []address.Address) ([]ExtendedAddress, lib.ErrorI) {
	m.mux.RLock()
	defer m.mux.RUnlock()
	out := make([]ExtendedAddress, 0, len(addresses))
	for _, a := range addresses {
		ext, ok := m.paths[string(a.Bytes())]
		if !ok {
			return nil, lib.ErrAddressNotInCache(a.String())
		}
		out = append(out, ext)
	}
	return out, nil
}

// Fetch() discovers used external addresses of an account
// Addresses are checked gapLimit at a time; scanning stops at the first window with no used address
func (m *AddressManager) Fetch(ctx context.Context, account *Account, used UsageFunc) lib.ErrorI {
	m.mux.RLock()
	list, ok := m.list(account.Index, false)
	m.mux.RUnlock()
	if !ok {
		return lib.ErrAccountNotInCache(account.Index)
	}
	start, from, checked := time.Now(), uint32(len(list)), 0
	var found []ExtendedAddress
	for next := from; ; {
		window, err := m.window(account, next)
		if err != nil {
			return err
		}
		last, e := m.lastUsed(ctx, window, used)
		if e != nil {
			return e
		}
		checked += len(window)
		if last < 0 {
			break
		}
		found = append(found, window[:last+1]...)
		next += uint32(last + 1)
	}
	m.mux.Lock()
	defer m.mux.Unlock()
	// New() may have handed out some of these indices while the scan ran
	have := uint32(len(m.external[account.Index]))
	for i, ext := range found {
		if from+uint32(i) >= have {
			m.append(account.Index, false, ext)
		}
	}
	m.metrics.UpdateAddressScan(len(found), checked, time.Since(start))
	m.log.Infof("Fetched %d used addresses for account %d", len(found), account.Index)
	return nil
}

// window() derives gapLimit consecutive external addresses
func (m *AddressManager) window(account *Account, start uint32) ([]ExtendedAddress, lib.ErrorI) {
	out := make([]ExtendedAddress, m.gapLimit)
	for i := range out {
		ext, err := m.derive(account, start+uint32(i), false)
		if err != nil {
			return nil, err
		}
		out[i] = *ext
	}
	return out, nil
}

// lastUsed() queries usage concurrently and returns the highest used position, -1 if none
func (m *AddressManager) lastUsed(ctx context.Context, window []ExtendedAddress, used UsageFunc) (int, lib.ErrorI) {
	results := make([]bool, len(window))
	g, ctx := errgroup.WithContext(ctx)
	for i := range window {
		g.Go(func() (err error) {
			results[i], err = used(ctx, window[i].Address)
			return
		})
	}
	if err := g.Wait(); err != nil {
		return -1, lib.ErrAddressUsage(err)
	}
	for i := len(results) - 1; i >= 0; i-- {
		if results[i] {
			return i, nil
		}
	}
	return -1, nil
}

// derive() memoizes base address derivation
func (m *AddressManager) derive(account *Account, index uint32, change bool) (*ExtendedAddress, lib.ErrorI) {
	key := account.PublicKey.String() + "/" + account.KeyPath(roleOf(change), index).String()
	if ext, ok := m.derived.Get(key); ok {
		return ext, nil
	}
	ext, err := account.BaseAddress(index, change, m.networkID)
	if err != nil {
		return nil, err
	}
	m.derived.Add(key, ext)
	return ext, nil
}

// list() must be called under lock
func (m *AddressManager) list(account uint32, change bool) ([]address.Address, bool) {
	if change {
		l, ok := m.change[account]
		return l, ok
	}
	l, ok := m.external[account]
	return l, ok
}

// append() must be called under the write lock
func (m *AddressManager) append(account uint32, change bool, ext ExtendedAddress) {
	if change {
		m.change[account] = append(m.change[account], ext.Address)
	} else {
		m.external[account] = append(m.external[account], ext.Address)
	}
	m.paths[string(ext.Address.Bytes())] = ext
}
