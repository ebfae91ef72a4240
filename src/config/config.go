package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Config holds the application settings.
type Config struct {
	API struct {
		BaseURL string   `json:"base_url"` // World Bank API root, e.g. https://api.worldbank.org/v2
		Year    int      `json:"year"`     // single analysis year
		PerPage int      `json:"per_page"` // page size for indicator queries
		Timeout Duration `json:"timeout"`  // per-request timeout
		Retries int      `json:"retries"`  // bounded retry count
	} `json:"api"`

	DataDir         string   `json:"data_dir"`         // snapshot directory
	OutputDir       string   `json:"output_dir"`       // workbook and chart directory
	LogName         string   `json:"log_name"`         // log file path
	LogMaxSize      string   `json:"log_max_size"`     // e.g. "10 * 1024 * 1024"
	RefreshInterval Duration `json:"refresh_interval"` // zero means run once and exit
	WebhookURL      string   `json:"webhook_url"`      // optional summary delivery
}

// IndicatorConfig maps source indicator codes to the semantic column names
// the pipeline works with, and fixes the indicator ordering of every output.
type IndicatorConfig struct {
	Codes  map[string]string `json:"codes"`  // source code -> semantic name
	Order  []string          `json:"order"`  // semantic names, fixed output order
	Labels map[string]string `json:"labels"` // semantic name -> display label
}

var (
	once              sync.Once
	instance          *Config
	indicatorInstance *IndicatorConfig
	loadErr           error
	mu                sync.RWMutex
)

// LoadConfig loads both configuration files once. The outcome, including a
// failure, is latched: every later call returns the same result.
func LoadConfig(jsonFolder, jsonFile, indicatorJsonFile string) (*Config, *IndicatorConfig, error) {
	once.Do(func() {
		instance, indicatorInstance, loadErr = loadConfigs(jsonFolder, jsonFile, indicatorJsonFile)
	})
	return instance, indicatorInstance, loadErr
}

func loadConfigs(jsonFolder, jsonFile, indicatorJsonFile string) (*Config, *IndicatorConfig, error) {
	configFile := filepath.Join(jsonFolder, jsonFile)
	indicatorFile := filepath.Join(jsonFolder, indicatorJsonFile)

	configData, err := readFile(configFile)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read config file: %w", err)
	}

	indicatorData, err := readFile(indicatorFile)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read indicator config file: %w", err)
	}

	cfgChan := make(chan *Config, 1)
	icfgChan := make(chan *IndicatorConfig, 1)
	errChan := make(chan error, 2)

	go parseConfig(configData, cfgChan, errChan)
	go parseIndicatorConfig(indicatorData, icfgChan, errChan)

	cfg, icfg, err := waitForResults(cfgChan, icfgChan, errChan)
	if err != nil {
		return nil, nil, err
	}

	return cfg, icfg, nil
}

func readFile(filePath string) ([]byte, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("cannot read file %s: %w", filePath, err)
	}
	return data, nil
}

func parseConfig(data []byte, resultChan chan<- *Config, errChan chan<- error) {
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		errChan <- fmt.Errorf("failed to parse Config: %w", err)
		return
	}
	resultChan <- &cfg
}

func parseIndicatorConfig(data []byte, resultChan chan<- *IndicatorConfig, errChan chan<- error) {
	var icfg IndicatorConfig
	if err := json.Unmarshal(data, &icfg); err != nil {
		errChan <- fmt.Errorf("failed to parse IndicatorConfig: %w", err)
		return
	}
	if len(icfg.Codes) == 0 || len(icfg.Order) == 0 {
		errChan <- fmt.Errorf("indicator config declares no indicators")
		return
	}
	resultChan <- &icfg
}

func waitForResults(
	cfgChan <-chan *Config,
	icfgChan <-chan *IndicatorConfig,
	errChan <-chan error,
) (*Config, *IndicatorConfig, error) {
	var (
		cfg    *Config
		icfg   *IndicatorConfig
		errors []error
	)

	for i := 0; i < 2; i++ {
		select {
		case c := <-cfgChan:
			cfg = c
		case ic := <-icfgChan:
			icfg = ic
		case err := <-errChan:
			errors = append(errors, err)
		}
	}

	if len(errors) > 0 {
		return nil, nil, combineErrors(errors)
	}

	if cfg == nil || icfg == nil {
		return nil, nil, fmt.Errorf("part of the configuration failed to load")
	}

	return cfg, icfg, nil
}

func combineErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}

	msg := "configuration loading hit multiple errors:"
	for _, err := range errs {
		msg = fmt.Sprintf("%s\n- %v", msg, err)
	}
	return fmt.Errorf("%s", msg)
}

// Duration wraps time.Duration so it round-trips through JSON as a string
// like "5m0s".
type Duration time.Duration

func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	dur, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(dur)
	return nil
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// GetCode returns the source code mapped to a semantic name, or "".
func (ic *IndicatorConfig) GetCode(name string) string {
	mu.RLock()
	defer mu.RUnlock()
	for code, n := range ic.Codes {
		if n == name {
			return code
		}
	}
	return ""
}

// GetLabel returns the display label for a semantic name, falling back to
// the name itself.
func (ic *IndicatorConfig) GetLabel(name string) string {
	mu.RLock()
	defer mu.RUnlock()
	if label, ok := ic.Labels[name]; ok {
		return label
	}
	return name
}

func (ic *IndicatorConfig) SetLabel(name, label string) {
	mu.Lock()
	defer mu.Unlock()
	if ic.Labels == nil {
		ic.Labels = make(map[string]string)
	}
	ic.Labels[name] = label
}
