package worldbank

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"IndicatorInsight/src/processor"
)

// Client talks to the World Bank v2 REST API.
type Client struct {
	baseURL string
	http    *http.Client
	perPage int
	retries int
}

func NewClient(baseURL string, timeout time.Duration, perPage, retries int) *Client {
	if perPage <= 0 {
		perPage = 20000
	}
	if retries <= 0 {
		retries = 3
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		perPage: perPage,
		retries: retries,
	}
}

// pageInfo is the first element of every v2 JSON response. On invalid
// requests the API answers with a single-element payload carrying Message.
type pageInfo struct {
	Page    int `json:"page"`
	Pages   int `json:"pages"`
	PerPage any `json:"per_page"` // the API returns this as string or number
	Total   int `json:"total"`
	Message []struct {
		ID    string `json:"id"`
		Key   string `json:"key"`
		Value string `json:"value"`
	} `json:"message"`
}

type ref struct {
	ID    string `json:"id"`
	Value string `json:"value"`
}

type countryMeta struct {
	ID          string `json:"id"` // ISO3
	Name        string `json:"name"`
	Region      ref    `json:"region"`
	IncomeLevel ref    `json:"incomeLevel"`
}

type observation struct {
	Indicator   ref      `json:"indicator"`
	CountryISO3 string   `json:"countryiso3code"`
	Date        string   `json:"date"`
	Value       *float64 `json:"value"`
}

// FetchYear downloads one year of data for every configured indicator code
// and assembles the raw table: identifying columns plus one float column per
// source code, one row per country in the API's country order. Aggregate
// rows (region "Aggregates") are included; the Normalizer drops them.
func (c *Client) FetchYear(year int, codes []string) (dataframe.DataFrame, error) {
	countries, err := c.fetchCountries()
	if err != nil {
		return dataframe.DataFrame{}, err
	}
	if len(countries) == 0 {
		return dataframe.DataFrame{}, fmt.Errorf("worldbank: country list is empty: %w", processor.ErrDataUnavailable)
	}

	values := make(map[string]map[string]float64, len(codes))
	for _, code := range codes {
		byISO3, err := c.fetchIndicator(code, year)
		if err != nil {
			return dataframe.DataFrame{}, err
		}
		values[code] = byISO3
	}

	n := len(countries)
	names := make([]string, n)
	iso3s := make([]string, n)
	years := make([]int, n)
	regions := make([]string, n)
	incomes := make([]string, n)
	for i, ct := range countries {
		names[i] = ct.Name
		iso3s[i] = ct.ID
		years[i] = year
		regions[i] = ct.Region.Value
		incomes[i] = ct.IncomeLevel.Value
	}

	cols := []series.Series{
		series.New(names, series.String, processor.ColCountry),
		series.New(iso3s, series.String, processor.ColISO3),
		series.New(years, series.Int, processor.ColYear),
		series.New(regions, series.String, processor.ColRegion),
		series.New(incomes, series.String, processor.ColIncome),
	}
	for _, code := range codes {
		vals := make([]float64, n)
		for i, ct := range countries {
			if v, ok := values[code][ct.ID]; ok {
				vals[i] = v
			} else {
				vals[i] = math.NaN()
			}
		}
		cols = append(cols, series.New(vals, series.Float, code))
	}

	return dataframe.New(cols...), nil
}

// fetchCountries loads the country metadata (region and income labels).
func (c *Client) fetchCountries() ([]countryMeta, error) {
	var out []countryMeta
	page := 1
	for {
		endpoint := fmt.Sprintf("%s/country?%s", c.baseURL, url.Values{
			"format":   {"json"},
			"per_page": {fmt.Sprint(c.perPage)},
			"page":     {fmt.Sprint(page)},
		}.Encode())

		var batch []countryMeta
		info, err := c.getJSON(endpoint, &batch)
		if err != nil {
			return nil, fmt.Errorf("worldbank: country metadata: %w", err)
		}
		out = append(out, batch...)
		if page >= info.Pages {
			break
		}
		page++
	}
	return out, nil
}

// fetchIndicator loads one indicator series for one year, keyed by ISO3.
func (c *Client) fetchIndicator(code string, year int) (map[string]float64, error) {
	byISO3 := make(map[string]float64)
	page := 1
	for {
		endpoint := fmt.Sprintf("%s/country/all/indicator/%s?%s", c.baseURL, code, url.Values{
			"format":   {"json"},
			"date":     {fmt.Sprint(year)},
			"per_page": {fmt.Sprint(c.perPage)},
			"page":     {fmt.Sprint(page)},
		}.Encode())

		var batch []observation
		info, err := c.getJSON(endpoint, &batch)
		if err != nil {
			return nil, fmt.Errorf("worldbank: indicator %s: %w", code, err)
		}
		for _, obs := range batch {
			if obs.Value == nil || obs.CountryISO3 == "" {
				continue
			}
			byISO3[obs.CountryISO3] = *obs.Value
		}
		if page >= info.Pages {
			break
		}
		page++
	}
	return byISO3, nil
}

// getJSON fetches one API page with bounded retries and decodes the
// two-element [pageInfo, rows] payload.
func (c *Client) getJSON(endpoint string, rows any) (*pageInfo, error) {
	var body []byte
	err := retry(func() error {
		resp, err := c.http.Get(endpoint)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("unexpected status %s", resp.Status)
		}
		body, err = io.ReadAll(resp.Body)
		return err
	}, c.retries, time.Second)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, processor.ErrDataUnavailable)
	}

	var parts []json.RawMessage
	if err := json.Unmarshal(body, &parts); err != nil {
		return nil, fmt.Errorf("malformed payload: %v: %w", err, processor.ErrDataUnavailable)
	}
	if len(parts) == 0 {
		return nil, fmt.Errorf("empty payload: %w", processor.ErrDataUnavailable)
	}

	var info pageInfo
	if err := json.Unmarshal(parts[0], &info); err != nil {
		return nil, fmt.Errorf("malformed page info: %v: %w", err, processor.ErrDataUnavailable)
	}
	if len(info.Message) > 0 {
		return nil, fmt.Errorf("provider rejected request: %s: %w", info.Message[0].Value, processor.ErrDataUnavailable)
	}
	if len(parts) < 2 {
		return nil, fmt.Errorf("payload has no rows: %w", processor.ErrDataUnavailable)
	}
	if err := json.Unmarshal(parts[1], rows); err != nil {
		return nil, fmt.Errorf("malformed rows: %v: %w", err, processor.ErrDataUnavailable)
	}
	return &info, nil
}

// retry runs fn up to times attempts with a fixed interval between them.
func retry(fn func() error, times int, interval time.Duration) error {
	var err error
	for i := 0; i < times; i++ {
		if err = fn(); err == nil {
			return nil
		}
		if i < times-1 {
			time.Sleep(interval)
		}
	}
	return fmt.Errorf("failed after %d attempts: %v", times, err)
}
