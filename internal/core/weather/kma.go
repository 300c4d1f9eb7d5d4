package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const kmaBaseURL = "http://apis.data.go.kr/1360000/AsosHourlyInfoService/getWthrDataList"

// stationIDs maps city names to KMA ASOS station numbers
var stationIDs = map[string]int{
	"서울": 108,
	"부산": 159,
	"대구": 143,
	"인천": 112,
	"광주": 156,
	"대전": 133,
	"울산": 152,
	"강릉": 105,
	"춘천": 101,
}

const defaultStationID = 108 // Seoul

// kmaPageSize is the service's documented per-request row cap
const kmaPageSize = 999

// KMAProvider fetches hourly surface observations from the Korea
// Meteorological Administration ASOS service. Spans longer than one page are
// fetched page by page until totalCount rows arrive; no retries are
// performed.
type KMAProvider struct {
	serviceKey string
	baseURL    string
	client     *http.Client
}

// NewKMAProvider creates a new KMA ASOS provider
func NewKMAProvider(serviceKey string) *KMAProvider {
	return &KMAProvider{
		serviceKey: serviceKey,
		baseURL:    kmaBaseURL,
		client:     &http.Client{Timeout: 10 * time.Second},
	}
}

// NewKMAProviderWithURL creates a provider against a custom endpoint
func NewKMAProviderWithURL(serviceKey, baseURL string) *KMAProvider {
	p := NewKMAProvider(serviceKey)
	p.baseURL = baseURL
	return p
}

type kmaResponse struct {
	Response struct {
		Header struct {
			ResultCode string `json:"resultCode"`
			ResultMsg  string `json:"resultMsg"`
		} `json:"header"`
		Body struct {
			Items struct {
				Item []kmaItem `json:"item"`
			} `json:"items"`
			TotalCount int `json:"totalCount"`
		} `json:"body"`
	} `json:"response"`
}

type kmaItem struct {
	TM string `json:"tm"` // "2024-03-09 15:00"
	TA string `json:"ta"` // temperature
	WS string `json:"ws"` // wind speed
	HM string `json:"hm"` // humidity
	RN string `json:"rn"` // precipitation
}

// HourlyObservations fetches every hourly reading in [start, end] for the
// station mapped to location, paging through the service until the reported
// totalCount is collected.
func (p *KMAProvider) HourlyObservations(ctx context.Context, start, end time.Time, location string) ([]Observation, error) {
	stn, ok := stationIDs[location]
	if !ok {
		stn = defaultStationID
	}

	hours := int(end.Sub(start).Hours()) + 1
	if hours < 1 {
		hours = 1
	}
	rows := hours
	if rows > kmaPageSize {
		rows = kmaPageSize
	}

	var obs []Observation
	received := 0
	for page := 1; ; page++ {
		payload, err := p.fetchPage(ctx, start, end, stn, page, rows)
		if err != nil {
			return nil, err
		}

		items := payload.Response.Body.Items.Item
		for _, item := range items {
			o, err := parseKMAItem(item)
			if err != nil {
				continue // malformed reading, skip rather than fail the span
			}
			obs = append(obs, o)
		}

		received += len(items)
		if len(items) == 0 || received >= payload.Response.Body.TotalCount {
			break
		}
	}
	return obs, nil
}

// fetchPage requests one page of hourly readings
func (p *KMAProvider) fetchPage(ctx context.Context, start, end time.Time, stn, page, rows int) (*kmaResponse, error) {
	params := url.Values{}
	params.Set("serviceKey", p.serviceKey)
	params.Set("pageNo", strconv.Itoa(page))
	params.Set("numOfRows", strconv.Itoa(rows))
	params.Set("dataType", "JSON")
	params.Set("dataCd", "ASOS")
	params.Set("dateCd", "HR")
	params.Set("startDt", start.Format("20060102"))
	params.Set("startHh", start.Format("15"))
	params.Set("endDt", end.Format("20060102"))
	params.Set("endHh", end.Format("15"))
	params.Set("stnIds", strconv.Itoa(stn))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build KMA request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call KMA API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("KMA API returned status %d", resp.StatusCode)
	}

	var payload kmaResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode KMA response: %w", err)
	}
	if code := payload.Response.Header.ResultCode; code != "00" {
		return nil, fmt.Errorf("KMA API error %s: %s", code, payload.Response.Header.ResultMsg)
	}
	return &payload, nil
}

// GetProviderName returns the provider name
func (p *KMAProvider) GetProviderName() string {
	return "KMA ASOS"
}

func parseKMAItem(item kmaItem) (Observation, error) {
	tm, err := time.Parse("2006-01-02 15:04", strings.TrimSpace(item.TM))
	if err != nil {
		return Observation{}, fmt.Errorf("bad observation time %q: %w", item.TM, err)
	}
	return Observation{
		Year:          fmt.Sprintf("%04d", tm.Year()),
		Month:         fmt.Sprintf("%02d", int(tm.Month())),
		Day:           fmt.Sprintf("%02d", tm.Day()),
		Hour:          fmt.Sprintf("%02d", tm.Hour()),
		Temperature:   parseReading(item.TA),
		WindSpeed:     parseReading(item.WS),
		Humidity:      parseReading(item.HM),
		Precipitation: parseReading(item.RN),
	}, nil
}

// parseReading converts a raw sensor field; empty fields stay nil
func parseReading(value string) *float64 {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil
	}
	return &v
}
