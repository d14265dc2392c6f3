package seasontest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/anxo/convoca/internal/domain/attendance"
	"github.com/anxo/convoca/internal/domain/model"
)

// HTTPClient wraps http.Client with a timeout.
type HTTPClient struct {
	client *http.Client
}

func newHTTPClient(timeout time.Duration) *HTTPClient {
	return &HTTPClient{client: &http.Client{Timeout: timeout}}
}

// Get performs a GET request.
func (c *HTTPClient) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return c.client.Do(req)
}

// do performs a request with a JSON body.
func (c *HTTPClient) do(ctx context.Context, method, url string, body interface{}) (*http.Response, error) {
	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.client.Do(req)
}

// getJSON performs a GET request and decodes the JSON response into v.
func (c *HTTPClient) getJSON(ctx context.Context, url string, v interface{}) error {
	resp, err := c.Get(ctx, url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != StatusOK {
		return fmt.Errorf("unexpected status %d from %s", resp.StatusCode, url)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}
	return json.Unmarshal(data, v)
}

// submitRoster PUTs every squad member; roster writes are synchronous.
func submitRoster(ctx context.Context, config *Config, roster []model.Person) error {
	client := newHTTPClient(config.Timeout)
	for _, p := range roster {
		url := config.BaseURL + "/roster/" + string(p.ID)
		resp, err := client.do(ctx, http.MethodPut, url, p)
		if err != nil {
			return fmt.Errorf("failed to submit person %s: %w", p.ID, err)
		}
		_ = resp.Body.Close()
		if resp.StatusCode != StatusOK {
			return fmt.Errorf("unexpected status %d submitting person %s", resp.StatusCode, p.ID)
		}
	}
	log.Printf("👥 Roster submitted: %d members", len(roster))
	return nil
}

// submitEvents submits calendar events concurrently using a worker pool.
func submitEvents(ctx context.Context, config *Config, events []model.Event, stats *Stats) error {
	log.Printf("📤 Submitting %d events with %d workers...", len(events), config.Workers)

	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/events"

	var (
		successful int64
		failed     int64
		submitted  int64
	)

	eventChan := make(chan model.Event, config.Workers*WorkerChannelMultiplier)
	var wg sync.WaitGroup

	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for event := range eventChan {
				select {
				case <-ctx.Done():
					return
				default:
					atomic.AddInt64(&submitted, 1)
					if submitSingleEvent(ctx, client, url, event) {
						atomic.AddInt64(&successful, 1)
					} else {
						atomic.AddInt64(&failed, 1)
					}
				}
			}
		}()
	}

	go func() {
		defer close(eventChan)
		for _, event := range events {
			select {
			case <-ctx.Done():
				return
			case eventChan <- event:
			}
		}
	}()

	wg.Wait()

	stats.EventsSubmitted = int(atomic.LoadInt64(&submitted))
	stats.EventsSuccessful = int(atomic.LoadInt64(&successful))
	stats.EventsFailed = int(atomic.LoadInt64(&failed))

	log.Printf("✅ Event submission completed: %d successful, %d failed",
		stats.EventsSuccessful, stats.EventsFailed)
	return nil
}

// submitSingleEvent posts one event envelope and reports acceptance.
func submitSingleEvent(ctx context.Context, client *HTTPClient, url string, event model.Event) bool {
	resp, err := client.do(ctx, http.MethodPost, url, model.NewEnvelope(event))
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.StatusCode == StatusAccepted
}

// fetchAttendance retrieves the attendance report.
func fetchAttendance(ctx context.Context, config *Config, timeout time.Duration) (map[model.PersonID]attendance.Record, error) {
	client := newHTTPClient(timeout)
	var out map[model.PersonID]attendance.Record
	if err := client.getJSON(ctx, config.BaseURL+"/attendance", &out); err != nil {
		return nil, fmt.Errorf("failed to fetch attendance: %w", err)
	}
	return out, nil
}

// fetchCallUps retrieves the call-up tallies.
func fetchCallUps(ctx context.Context, config *Config, timeout time.Duration) (map[model.PersonID]attendance.Tally, error) {
	client := newHTTPClient(timeout)
	var out map[model.PersonID]attendance.Tally
	if err := client.getJSON(ctx, config.BaseURL+"/callups", &out); err != nil {
		return nil, fmt.Errorf("failed to fetch call-ups: %w", err)
	}
	return out, nil
}

// fetchEligibility retrieves match-day eligibility for one day.
func fetchEligibility(ctx context.Context, config *Config, timeout time.Duration, day model.Day) (map[model.PersonID]attendance.Eligibility, error) {
	client := newHTTPClient(timeout)
	var out map[model.PersonID]attendance.Eligibility
	if err := client.getJSON(ctx, config.BaseURL+"/eligibility?date="+day.String(), &out); err != nil {
		return nil, fmt.Errorf("failed to fetch eligibility: %w", err)
	}
	return out, nil
}
