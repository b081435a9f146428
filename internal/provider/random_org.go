package provider

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"log/slog"
	"math/big"
	"net/http"
	"time"
)

// RandomOrgClient provides true random numbers from RANDOM.ORG with CSPRNG fallback.
// Grid games draw their mine positions through it.
type RandomOrgClient struct {
	apiKey string
	logger *slog.Logger
	client *http.Client
}

// NewRandomOrgClient creates a new RANDOM.ORG client.
func NewRandomOrgClient(apiKey string, logger *slog.Logger) *RandomOrgClient {
	return &RandomOrgClient{
		apiKey: apiKey,
		logger: logger,
		client: &http.Client{Timeout: 5 * time.Second},
	}
}

// MinePositions returns n distinct cell indices in [0, cells).
// Falls back to a CSPRNG Fisher-Yates draw if the API is unavailable.
func (c *RandomOrgClient) MinePositions(ctx context.Context, n, cells int) ([]int, error) {
	if n <= 0 || n >= cells {
		return nil, fmt.Errorf("mine count %d out of range for %d cells", n, cells)
	}

	if c.apiKey == "" {
		c.logger.Debug("random.org api key not set, using CSPRNG fallback")
		return csprngDistinct(n, cells)
	}

	result, err := c.fetchFromAPI(ctx, n, 0, cells-1, false)
	if err != nil {
		c.logger.Warn("random.org unavailable, falling back to CSPRNG", "error", err)
		return csprngDistinct(n, cells)
	}

	return result, nil
}

// RandomIntegers returns n random integers in [min, max], with replacement.
func (c *RandomOrgClient) RandomIntegers(ctx context.Context, n, min, max int) ([]int, error) {
	if c.apiKey == "" {
		return csprngIntegers(n, min, max)
	}

	result, err := c.fetchFromAPI(ctx, n, min, max, true)
	if err != nil {
		c.logger.Warn("random.org unavailable, falling back to CSPRNG", "error", err)
		return csprngIntegers(n, min, max)
	}

	return result, nil
}

func (c *RandomOrgClient) fetchFromAPI(ctx context.Context, n, min, max int, replacement bool) ([]int, error) {
	reqBody := map[string]interface{}{
		"jsonrpc": "2.0",
		"method":  "generateIntegers",
		"params": map[string]interface{}{
			"apiKey":      c.apiKey,
			"n":           n,
			"min":         min,
			"max":         max,
			"replacement": replacement,
		},
		"id": 1,
	}

	body, _ := json.Marshal(reqBody)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		"https://api.random.org/json-rpc/4/invoke", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("api call: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("api returned %d", resp.StatusCode)
	}

	var response struct {
		Result struct {
			Random struct {
				Data []int `json:"data"`
			} `json:"random"`
		} `json:"result"`
		Error *struct {
			Message string `json:"message"`
		} `json:"error"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if response.Error != nil {
		return nil, fmt.Errorf("api error: %s", response.Error.Message)
	}

	data := response.Result.Random.Data
	if err := validateDraw(data, n, min, max, !replacement); err != nil {
		return nil, fmt.Errorf("malformed response: %w", err)
	}
	return data, nil
}

// validateDraw checks an API draw before it is used: the right count,
// every value in [min, max], and no duplicates when drawn without
// replacement. Callers fall back to the CSPRNG when it fails.
func validateDraw(data []int, n, min, max int, distinct bool) error {
	if len(data) != n {
		return fmt.Errorf("expected %d values, got %d", n, len(data))
	}
	seen := make(map[int]bool, n)
	for _, v := range data {
		if v < min || v > max {
			return fmt.Errorf("value %d outside [%d, %d]", v, min, max)
		}
		if distinct {
			if seen[v] {
				return fmt.Errorf("duplicate value %d in distinct draw", v)
			}
			seen[v] = true
		}
	}
	return nil
}

// csprngDistinct draws n distinct integers in [0, cells) via a partial
// Fisher-Yates shuffle seeded from crypto/rand.
func csprngDistinct(n, cells int) ([]int, error) {
	deck := make([]int, cells)
	for i := range deck {
		deck[i] = i
	}

	for i := 0; i < n; i++ {
		r, err := rand.Int(rand.Reader, big.NewInt(int64(cells-i)))
		if err != nil {
			return nil, fmt.Errorf("csprng: %w", err)
		}
		j := i + int(r.Int64())
		deck[i], deck[j] = deck[j], deck[i]
	}

	return deck[:n], nil
}

// csprngIntegers generates cryptographically secure random integers as fallback.
func csprngIntegers(n, min, max int) ([]int, error) {
	if min > max {
		return nil, fmt.Errorf("min (%d) > max (%d)", min, max)
	}

	rangeSize := big.NewInt(int64(max - min + 1))
	result := make([]int, n)

	for i := 0; i < n; i++ {
		r, err := rand.Int(rand.Reader, rangeSize)
		if err != nil {
			return nil, fmt.Errorf("csprng: %w", err)
		}
		result[i] = int(r.Int64()) + min
	}

	return result, nil
}
