package weather

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const kmaOKBody = `{
  "response": {
    "header": {"resultCode": "00", "resultMsg": "NORMAL_SERVICE"},
    "body": {
      "items": {"item": [
        {"tm": "2024-03-08 12:00", "ta": "14.5", "ws": "2.1", "hm": "40", "rn": ""},
        {"tm": "2024-03-08 13:00", "ta": "15.0", "ws": "", "hm": "38", "rn": "0.5"},
        {"tm": "not a time", "ta": "1", "ws": "1", "hm": "1", "rn": "1"}
      ]},
      "totalCount": 3
    }
  }
}`

func TestKMAHourlyObservations(t *testing.T) {
	var query map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = map[string]string{}
		for k := range r.URL.Query() {
			query[k] = r.URL.Query().Get(k)
		}
		w.Write([]byte(kmaOKBody))
	}))
	defer srv.Close()

	p := NewKMAProviderWithURL("test-key", srv.URL)
	start := time.Date(2024, 3, 8, 12, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 8, 13, 0, 0, 0, time.UTC)

	obs, err := p.HourlyObservations(context.Background(), start, end, "서울")
	require.NoError(t, err)

	// the malformed third item is skipped
	require.Len(t, obs, 2)
	assert.Equal(t, "12", obs[0].Hour)
	require.NotNil(t, obs[0].Temperature)
	assert.Equal(t, 14.5, *obs[0].Temperature)
	assert.Nil(t, obs[0].Precipitation)
	require.NotNil(t, obs[1].Precipitation)
	assert.Equal(t, 0.5, *obs[1].Precipitation)

	assert.Equal(t, "ASOS", query["dataCd"])
	assert.Equal(t, "HR", query["dateCd"])
	assert.Equal(t, "JSON", query["dataType"])
	assert.Equal(t, "108", query["stnIds"])
	assert.Equal(t, "20240308", query["startDt"])
	assert.Equal(t, "12", query["startHh"])
	assert.Equal(t, "13", query["endHh"])
	assert.Equal(t, "2", query["numOfRows"])
}

func TestKMAPaginatesLongSpans(t *testing.T) {
	page := func(items string, total int) string {
		return fmt.Sprintf(`{
  "response": {
    "header": {"resultCode": "00", "resultMsg": "NORMAL_SERVICE"},
    "body": {"items": {"item": [%s]}, "totalCount": %d}
  }
}`, items, total)
	}
	pages := map[string]string{
		"1": page(`{"tm": "2024-03-08 00:00", "ta": "10"}, {"tm": "2024-03-08 01:00", "ta": "11"}`, 4),
		"2": page(`{"tm": "2024-03-08 02:00", "ta": "12"}, {"tm": "2024-03-08 03:00", "ta": "13"}`, 4),
	}

	var requested []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pageNo := r.URL.Query().Get("pageNo")
		requested = append(requested, pageNo)
		w.Write([]byte(pages[pageNo]))
	}))
	defer srv.Close()

	p := NewKMAProviderWithURL("test-key", srv.URL)
	start := time.Date(2024, 3, 8, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 8, 3, 0, 0, 0, time.UTC)

	obs, err := p.HourlyObservations(context.Background(), start, end, "서울")
	require.NoError(t, err)

	// both pages fetched, every hour of the span covered
	assert.Equal(t, []string{"1", "2"}, requested)
	require.Len(t, obs, 4)
	for i, o := range obs {
		assert.Equal(t, fmt.Sprintf("%02d", i), o.Hour)
	}
}

func TestKMAPageSizeCapped(t *testing.T) {
	var rows, pageCount int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rows, _ = strconv.Atoi(r.URL.Query().Get("numOfRows"))
		pageCount++
		w.Write([]byte(`{"response": {"header": {"resultCode": "00"}, "body": {"items": {"item": []}, "totalCount": 0}}}`))
	}))
	defer srv.Close()

	p := NewKMAProviderWithURL("test-key", srv.URL)
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 70) // 1681 hours

	_, err := p.HourlyObservations(context.Background(), start, end, "서울")
	require.NoError(t, err)

	assert.Equal(t, 999, rows)
	assert.Equal(t, 1, pageCount) // empty page ends the loop
}

func TestKMAResultError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"response": {"header": {"resultCode": "30", "resultMsg": "SERVICE_KEY_NOT_REGISTERED"}}}`))
	}))
	defer srv.Close()

	p := NewKMAProviderWithURL("bad-key", srv.URL)
	_, err := p.HourlyObservations(context.Background(), time.Now().Add(-time.Hour), time.Now(), "서울")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SERVICE_KEY_NOT_REGISTERED")
}

func TestKMAUnknownLocationFallsBackToSeoul(t *testing.T) {
	var stn string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		stn = r.URL.Query().Get("stnIds")
		w.Write([]byte(`{"response": {"header": {"resultCode": "00"}, "body": {"items": {"item": []}}}}`))
	}))
	defer srv.Close()

	p := NewKMAProviderWithURL("test-key", srv.URL)
	_, err := p.HourlyObservations(context.Background(), time.Now().Add(-time.Hour), time.Now(), "아무데나")
	require.NoError(t, err)
	assert.Equal(t, "108", stn)
}
