package discovery

import (
	"fmt"
	"sort"

	"github.com/hashicorp/mdns"

	"slidecast/internal/logger"
)

// ServiceType is the DNS-SD type remotes browse for
const ServiceType = "_slidecast._tcp"

// Advertiser announces the gateway on the local network
type Advertiser struct {
	server *mdns.Server
}

// Advertise starts answering mDNS queries for instance on port. Extra
// key/value pairs are published as TXT records.
func Advertise(instance string, port int, info map[string]string) (*Advertiser, error) {
	if instance == "" {
		return nil, fmt.Errorf("mdns instance name is required")
	}
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("invalid mdns port: %d", port)
	}

	service, err := mdns.NewMDNSService(instance, ServiceType, "", "", port, nil, txtRecords(info))
	if err != nil {
		return nil, fmt.Errorf("failed to describe mdns service: %w", err)
	}

	server, err := mdns.NewServer(&mdns.Config{Zone: service})
	if err != nil {
		return nil, fmt.Errorf("failed to start mdns server: %w", err)
	}

	log := logger.Component("discovery")
	log.Info().
		Str("instance", instance).
		Str("service", ServiceType).
		Int("port", port).
		Msg("advertising gateway")

	return &Advertiser{server: server}, nil
}

// Shutdown stops answering queries
func (a *Advertiser) Shutdown() error {
	if a == nil || a.server == nil {
		return nil
	}
	return a.server.Shutdown()
}

// txtRecords renders info as sorted key=value strings
func txtRecords(info map[string]string) []string {
	records := make([]string, 0, len(info))
	for key, value := range info {
		records = append(records, key+"="+value)
	}
	sort.Strings(records)
	return records
}
