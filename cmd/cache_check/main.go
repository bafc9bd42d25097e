package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/svstupireburgh/FeelmeTown-sub000/internal/shared/config"
	"github.com/svstupireburgh/FeelmeTown-sub000/internal/shared/constants"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

// CacheCheckResult is one request against a running server
type CacheCheckResult struct {
	Endpoint     string        `json:"endpoint"`
	CacheKey     string        `json:"cache_key"`
	KeyPresent   bool          `json:"key_present"`
	ResponseTime time.Duration `json:"response_time"`
	DataSize     int           `json:"data_size"`
	Success      bool          `json:"success"`
	Error        string        `json:"error,omitempty"`
}

type CacheCheckSuite struct {
	BaseURL string
	Redis   *redis.Client
	Results []CacheCheckResult
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	baseURL := "http://localhost:" + cfg.Port + cfg.GetAPIBasePath()
	if v := os.Getenv("CACHE_CHECK_BASE_URL"); v != "" {
		baseURL = v
	}

	client := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	defer client.Close()

	fmt.Println("🧪 Checking catalog and slot caching...")
	fmt.Println("=======================================")

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatalf("❌ Redis connection failed: %v", err)
	}
	fmt.Println("✅ Redis connection: OK")

	suite := &CacheCheckSuite{BaseURL: baseURL, Redis: client}

	theater := "EROS (FMT-Hall-1)"
	date := time.Now().AddDate(0, 0, 1).Format("2006-01-02")
	slotsQuery := url.Values{"date": {date}, "theater": {theater}}

	checks := []struct {
		name     string
		endpoint string
		key      string
	}{
		{"Catalog", "/catalog", constants.CACHE_KEY_CATALOG_SNAPSHOT},
		{"Pricing", "/catalog/pricing", constants.CACHE_KEY_CATALOG_SNAPSHOT},
		{"Booked Slots", "/bookings/slots?" + slotsQuery.Encode(), constants.BuildBookedSlotsKey(date, theater)},
	}

	for _, c := range checks {
		fmt.Printf("\n🔍 Checking: %s\n", c.name)

		first := suite.checkEndpoint(ctx, c.endpoint, c.key)
		second := suite.checkEndpoint(ctx, c.endpoint, c.key)
		suite.Results = append(suite.Results, first, second)

		if first.Success && second.Success {
			fmt.Printf("   📈 %v -> %v\n", first.ResponseTime, second.ResponseTime)
		}
	}

	suite.generateReport()
}

func (s *CacheCheckSuite) checkEndpoint(ctx context.Context, endpoint, key string) CacheCheckResult {
	result := CacheCheckResult{Endpoint: endpoint, CacheKey: key}

	start := time.Now()
	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Get(s.BaseURL + endpoint)
	if err != nil {
		result.ResponseTime = time.Since(start)
		result.Error = err.Error()
		fmt.Printf("   ❌ %v\n", err)
		return result
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	result.ResponseTime = time.Since(start)
	result.DataSize = len(body)
	result.Success = resp.StatusCode >= 200 && resp.StatusCode < 400
	if !result.Success {
		result.Error = fmt.Sprintf("HTTP %d", resp.StatusCode)
	}

	n, err := s.Redis.Exists(ctx, key).Result()
	result.KeyPresent = err == nil && n > 0

	statusIcon := "✅"
	if !result.Success {
		statusIcon = "❌"
	}
	cacheIcon := "💾"
	if result.KeyPresent {
		cacheIcon = "🔥"
	}
	fmt.Printf("   %s %s %v (%d bytes) key=%s\n", statusIcon, cacheIcon, result.ResponseTime, result.DataSize, key)

	return result
}

func (s *CacheCheckSuite) generateReport() {
	fmt.Println("\n📊 CACHE REPORT")
	fmt.Println("===============")

	successful, cached := 0, 0
	for _, r := range s.Results {
		if r.Success {
			successful++
		}
		if r.KeyPresent {
			cached++
		}
	}

	fmt.Printf("Requests: %d\n", len(s.Results))
	fmt.Printf("Successful: %d\n", successful)
	fmt.Printf("Cache key present after request: %d\n", cached)

	reportData, err := json.MarshalIndent(map[string]interface{}{
		"summary": map[string]interface{}{
			"requests":   len(s.Results),
			"successful": successful,
			"cached":     cached,
		},
		"results": s.Results,
	}, "", "  ")
	if err != nil {
		log.Printf("failed to encode report: %v", err)
		return
	}
	if err := os.WriteFile("cache_check_results.json", reportData, 0o644); err != nil {
		log.Printf("failed to write report: %v", err)
		return
	}
	fmt.Println("\n💾 Detailed results saved to cache_check_results.json")
}
