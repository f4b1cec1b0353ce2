package agent

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goalmesh/goalmesh/core"
	"github.com/goalmesh/goalmesh/logging"
)

const coinGeckoAPIURL = "https://api.coingecko.com/api/v3"

// topCryptoTerm is the sentinel search term for a market-cap top list instead
// of a single coin lookup.
const topCryptoTerm = "top_cryptocurrencies"

// CryptoOptions configure the crypto agent.
type CryptoOptions struct {
	BaseURL string
	Client  *http.Client
	Logger  logging.Logger
	Now     func() time.Time
}

// CryptoAgent fetches cryptocurrency data from the CoinGecko API. CoinGecko
// needs no API key for basic usage; when it is unreachable or rate limited
// the agent serves deterministic mock data instead of failing the step.
type CryptoAgent struct {
	opts CryptoOptions
}

// NewCryptoAgent constructs the agent with optional overrides.
func NewCryptoAgent(optFns ...func(o *CryptoOptions)) *CryptoAgent {
	opts := CryptoOptions{
		BaseURL: coinGeckoAPIURL,
		Logger:  logging.NoOpLogger{},
		Now:     time.Now,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &CryptoAgent{opts: opts}
}

// Name implements core.Agent.
func (a *CryptoAgent) Name() string { return core.AgentCrypto }

// Process implements core.Agent.
func (a *CryptoAgent) Process(ctx context.Context, in core.Context) core.Context {
	result := in.Clone()

	terms := extractCryptoTerms(result.Goal())

	results := map[string]any{}
	for _, term := range terms {
		info, err := a.lookup(ctx, term)
		if err != nil {
			// API unavailable or rate limited: degrade to mock data.
			a.opts.Logger.Warn("coingecko lookup failed, using mock data", "term", term, "error", err)
			info = a.mockCrypto(term)
		}
		results[term] = info
	}

	result.Set(core.DataKey(a.Name()), map[string]any{
		"results":      results,
		"search_terms": terms,
	})

	a.opts.Logger.Info("crypto lookups completed", "terms", len(terms))

	return result
}

// commonCryptos maps well-known names to symbols for extraction.
var commonCryptos = []struct{ name, symbol string }{
	{"bitcoin", "btc"},
	{"ethereum", "eth"},
	{"tether", "usdt"},
	{"binance coin", "bnb"},
	{"binance", "bnb"},
	{"cardano", "ada"},
	{"solana", "sol"},
	{"xrp", "xrp"},
	{"polkadot", "dot"},
	{"dogecoin", "doge"},
	{"avalanche", "avax"},
	{"chainlink", "link"},
	{"litecoin", "ltc"},
	{"stellar", "xlm"},
	{"uniswap", "uni"},
}

var cryptoKeywords = []string{
	"crypto", "cryptocurrency", "bitcoin", "ethereum", "coin",
	"blockchain", "token", "mining", "wallet", "exchange",
	"defi", "nft", "altcoin", "stablecoin", "binance", "coinbase",
	"price", "value", "market cap", "trading", "invest",
}

// extractCryptoTerms mines the goal for coin names; crypto-flavored goals
// naming no specific coin default to bitcoin (price questions) or a top list.
func extractCryptoTerms(goal string) []string {
	var terms []string
	lower := strings.ToLower(goal)

	related := false
	for _, kw := range cryptoKeywords {
		if strings.Contains(lower, kw) {
			related = true
			break
		}
	}

	if related {
		seen := map[string]bool{}
		for _, c := range commonCryptos {
			if strings.Contains(lower, c.name) || strings.Contains(lower, c.symbol) {
				if !seen[c.name] {
					seen[c.name] = true
					terms = append(terms, c.name)
				}
			}
		}
		if len(terms) == 0 {
			priceQuery := false
			for _, t := range []string{"price", "value", "worth", "cost"} {
				if strings.Contains(lower, t) {
					priceQuery = true
					break
				}
			}
			if priceQuery {
				terms = append(terms, "bitcoin")
			} else {
				terms = append(terms, topCryptoTerm)
			}
		}
	}

	if len(terms) == 0 {
		terms = append(terms, "bitcoin")
	}

	return terms
}

type geckoMarketCoin struct {
	Name                     string  `json:"name"`
	Symbol                   string  `json:"symbol"`
	CurrentPrice             float64 `json:"current_price"`
	MarketCap                float64 `json:"market_cap"`
	PriceChangePercentage24h float64 `json:"price_change_percentage_24h"`
	LastUpdated              string  `json:"last_updated"`
}

type geckoSearchResponse struct {
	Coins []struct {
		ID string `json:"id"`
	} `json:"coins"`
}

type geckoCoinResponse struct {
	Name        string `json:"name"`
	Symbol      string `json:"symbol"`
	Description struct {
		EN string `json:"en"`
	} `json:"description"`
	MarketData struct {
		CurrentPrice             map[string]float64 `json:"current_price"`
		MarketCap                map[string]float64 `json:"market_cap"`
		PriceChangePercentage24h float64            `json:"price_change_percentage_24h"`
		PriceChangePercentage7d  float64            `json:"price_change_percentage_7d"`
		PriceChangePercentage30d float64            `json:"price_change_percentage_30d"`
		ATH                      map[string]float64 `json:"ath"`
		ATHDate                  map[string]string  `json:"ath_date"`
	} `json:"market_data"`
	LastUpdated string `json:"last_updated"`
}

func (a *CryptoAgent) lookup(ctx context.Context, term string) (map[string]any, error) {
	if term == topCryptoTerm {
		return a.topList(ctx)
	}

	params := url.Values{}
	params.Set("query", term)

	var search geckoSearchResponse
	if err := getJSON(ctx, a.opts.Client, a.opts.BaseURL+"/search", params, &search); err != nil {
		return nil, err
	}
	if len(search.Coins) == 0 {
		return nil, fmt.Errorf("no cryptocurrency found for %q", term)
	}

	coinID := search.Coins[0].ID

	params = url.Values{}
	params.Set("localization", "false")
	params.Set("tickers", "false")
	params.Set("market_data", "true")
	params.Set("community_data", "false")
	params.Set("developer_data", "false")
	params.Set("sparkline", "false")

	var coin geckoCoinResponse
	if err := getJSON(ctx, a.opts.Client, a.opts.BaseURL+"/coins/"+coinID, params, &coin); err != nil {
		return nil, err
	}

	description := "No description available"
	if coin.Description.EN != "" {
		description = strings.SplitN(coin.Description.EN, "\n", 2)[0]
	}

	return map[string]any{
		"type":             "single_coin",
		"name":             coin.Name,
		"symbol":           strings.ToUpper(coin.Symbol),
		"description":      description,
		"current_price":    coin.MarketData.CurrentPrice["usd"],
		"market_cap":       coin.MarketData.MarketCap["usd"],
		"price_change_24h": coin.MarketData.PriceChangePercentage24h,
		"price_change_7d":  coin.MarketData.PriceChangePercentage7d,
		"price_change_30d": coin.MarketData.PriceChangePercentage30d,
		"all_time_high": map[string]any{
			"price": coin.MarketData.ATH["usd"],
			"date":  coin.MarketData.ATHDate["usd"],
		},
		"last_updated": coin.LastUpdated,
	}, nil
}

func (a *CryptoAgent) topList(ctx context.Context) (map[string]any, error) {
	params := url.Values{}
	params.Set("vs_currency", "usd")
	params.Set("order", "market_cap_desc")
	params.Set("per_page", "5")
	params.Set("page", "1")
	params.Set("sparkline", "false")

	var coins []geckoMarketCoin
	if err := getJSON(ctx, a.opts.Client, a.opts.BaseURL+"/coins/markets", params, &coins); err != nil {
		return nil, err
	}

	data := make([]map[string]any, 0, len(coins))
	for _, c := range coins {
		data = append(data, map[string]any{
			"name":             c.Name,
			"symbol":           strings.ToUpper(c.Symbol),
			"current_price":    c.CurrentPrice,
			"market_cap":       c.MarketCap,
			"price_change_24h": c.PriceChangePercentage24h,
			"last_updated":     c.LastUpdated,
		})
	}

	return map[string]any{"type": "top_list", "data": data}, nil
}

func titleCase(s string) string {
	fields := strings.Fields(s)
	for i, f := range fields {
		fields[i] = strings.ToUpper(f[:1]) + f[1:]
	}
	return strings.Join(fields, " ")
}

func (a *CryptoAgent) mockCrypto(term string) map[string]any {
	now := a.opts.Now().UTC().Format(time.RFC3339)

	switch strings.ToLower(term) {
	case topCryptoTerm:
		return map[string]any{
			"type": "top_list",
			"data": []map[string]any{
				{"name": "Bitcoin", "symbol": "BTC", "current_price": 50000.0, "market_cap": 950000000000.0, "price_change_24h": 2.5, "last_updated": now},
				{"name": "Ethereum", "symbol": "ETH", "current_price": 3000.0, "market_cap": 350000000000.0, "price_change_24h": 1.8, "last_updated": now},
				{"name": "Tether", "symbol": "USDT", "current_price": 1.0, "market_cap": 80000000000.0, "price_change_24h": 0.01, "last_updated": now},
				{"name": "Binance Coin", "symbol": "BNB", "current_price": 400.0, "market_cap": 65000000000.0, "price_change_24h": 3.2, "last_updated": now},
				{"name": "Cardano", "symbol": "ADA", "current_price": 2.0, "market_cap": 60000000000.0, "price_change_24h": -1.5, "last_updated": now},
			},
			"note": "This is mock data for testing purposes",
		}
	case "bitcoin":
		return map[string]any{
			"type":             "single_coin",
			"name":             "Bitcoin",
			"symbol":           "BTC",
			"description":      "Bitcoin is a decentralized digital currency, without a central bank or single administrator.",
			"current_price":    50000.0,
			"market_cap":       950000000000.0,
			"price_change_24h": 2.5,
			"price_change_7d":  5.2,
			"price_change_30d": 10.8,
			"all_time_high":    map[string]any{"price": 69000.0, "date": "2021-11-10T00:00:00Z"},
			"last_updated":     now,
			"note":             "This is mock data for testing purposes",
		}
	case "ethereum":
		return map[string]any{
			"type":             "single_coin",
			"name":             "Ethereum",
			"symbol":           "ETH",
			"description":      "Ethereum is a decentralized, open-source blockchain with smart contract functionality.",
			"current_price":    3000.0,
			"market_cap":       350000000000.0,
			"price_change_24h": 1.8,
			"price_change_7d":  4.5,
			"price_change_30d": 9.2,
			"all_time_high":    map[string]any{"price": 4800.0, "date": "2021-11-08T00:00:00Z"},
			"last_updated":     now,
			"note":             "This is mock data for testing purposes",
		}
	}

	symbol := term
	if len(symbol) > 3 {
		symbol = symbol[:3]
	}
	return map[string]any{
		"type":             "single_coin",
		"name":             "Mock " + titleCase(term),
		"symbol":           strings.ToUpper(symbol),
		"description":      "This is a mock description for " + term + ".",
		"current_price":    100.0,
		"market_cap":       10000000000.0,
		"price_change_24h": 1.0,
		"price_change_7d":  2.0,
		"price_change_30d": 5.0,
		"all_time_high":    map[string]any{"price": 200.0, "date": "2022-01-01T00:00:00Z"},
		"last_updated":     now,
		"note":             "This is mock data for testing purposes",
	}
}
