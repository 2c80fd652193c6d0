package netdiscovery

import (
	"context"
	"net"
	"sync"

	"github.com/enbility/zeroconf/v3"
)

// ServiceType is the mDNS service type Android advertises once wireless
// debugging is enabled in Developer Options.
const ServiceType = "_adb-tls-connect._tcp"

// Domain is the mDNS domain devices advertise under.
const Domain = "local."

// Candidate is a host:port pair discovered via mDNS, ready to be passed to
// the Core Manager's connectTcp helper. It carries no device serial: the
// serial is only known once the bridge accepts the TCP connection.
type Candidate struct {
	InstanceName string
	Host         string
	Port         int
	Addresses    []string
}

// Browser watches the network for ADB-over-network advertisements.
type Browser struct {
	mu      sync.Mutex
	stopped bool
	cancel  context.CancelFunc

	// iface restricts browsing to a single named network interface.
	// Empty means use every interface.
	iface string
}

// New creates a Browser. If iface is non-empty, browsing is restricted to
// that network interface.
func New(iface string) *Browser {
	return &Browser{iface: iface}
}

// Browse starts watching for candidates. Both returned channels close
// when ctx is cancelled or Stop is called. Candidates are aggregated by
// instance name: addresses seen on multiple interfaces merge into a
// single entry instead of producing duplicate adds.
func (b *Browser) Browse(ctx context.Context) (added, removed <-chan *Candidate, err error) {
	ctx, cancel := context.WithCancel(ctx)
	b.mu.Lock()
	b.cancel = cancel
	b.mu.Unlock()

	addedCh := make(chan *Candidate)
	removedCh := make(chan *Candidate)

	entries := make(chan *zeroconf.ServiceEntry)
	removedEntries := make(chan *zeroconf.ServiceEntry)

	opts := b.clientOptions()

	go func() {
		defer close(addedCh)
		defer close(removedCh)

		seen := make(map[string]*Candidate)

		for {
			select {
			case entry, ok := <-entries:
				if !ok {
					return
				}
				cand := entryToCandidate(entry)
				if cand == nil {
					continue
				}
				if existing, found := seen[cand.InstanceName]; found {
					existing.Addresses = mergeAddresses(existing.Addresses, cand.Addresses)
					continue
				}
				seen[cand.InstanceName] = cand
				select {
				case addedCh <- cand:
				case <-ctx.Done():
					return
				}

			case entry, ok := <-removedEntries:
				if !ok {
					continue
				}
				existing, found := seen[entry.Instance]
				if !found {
					continue
				}
				delete(seen, entry.Instance)
				select {
				case removedCh <- existing:
				case <-ctx.Done():
					return
				}

			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		_ = zeroconf.Browse(ctx, ServiceType, Domain, entries, removedEntries, opts...)
	}()

	return addedCh, removedCh, nil
}

// Stop cancels any in-flight Browse call.
func (b *Browser) Stop() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.stopped = true
	if b.cancel != nil {
		b.cancel()
	}
}

func (b *Browser) clientOptions() []zeroconf.ClientOption {
	var opts []zeroconf.ClientOption
	if b.iface != "" {
		if ifi, err := net.InterfaceByName(b.iface); err == nil {
			opts = append(opts, zeroconf.SelectIfaces([]net.Interface{*ifi}))
		}
	}
	return opts
}

func entryToCandidate(entry *zeroconf.ServiceEntry) *Candidate {
	if entry.Port == 0 {
		return nil
	}
	addrs := make([]string, 0, len(entry.AddrIPv4)+len(entry.AddrIPv6))
	for _, ip := range entry.AddrIPv4 {
		addrs = append(addrs, ip.String())
	}
	for _, ip := range entry.AddrIPv6 {
		addrs = append(addrs, ip.String())
	}
	host := entry.HostName
	if len(addrs) > 0 {
		host = addrs[0]
	}
	return &Candidate{
		InstanceName: entry.Instance,
		Host:         host,
		Port:         entry.Port,
		Addresses:    addrs,
	}
}

func mergeAddresses(existing, fresh []string) []string {
	seen := make(map[string]bool, len(existing))
	for _, a := range existing {
		seen[a] = true
	}
	for _, a := range fresh {
		if !seen[a] {
			existing = append(existing, a)
			seen[a] = true
		}
	}
	return existing
}
