package factory

import "github.com/riskless-finance/riskless/ledger"

// Config is the per-factory static configuration, set once at
// instantiation and read-only thereafter.
type Config struct {
	ProjectCodeID            string `json:"project_code_id"`
	AnchorMoneyMarketAddress string `json:"anchor_money_market_address"`
	AUstAddress              string `json:"a_ust_address"`
}

var (
	configKey = []byte("config")
	indexKey  = []byte("project_index")
)

func registryKey(name string) []byte {
	return []byte("projects:" + name)
}

// Pending creations are keyed by correlation id, with a reverse entry
// per name so a duplicate create is rejected while one is in flight.
func pendingKey(id string) []byte {
	return []byte("pending:" + id)
}

func pendingNameKey(name string) []byte {
	return []byte("pending_name:" + name)
}

func loadConfig(store ledger.Store) (*Config, error) {
	cfg := &Config{}
	if err := ledger.GetJSON(store, configKey, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func loadIndex(store ledger.Store) ([]string, error) {
	names := []string{}
	err := ledger.GetJSON(store, indexKey, &names)
	if err == ledger.ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return names, nil
}
