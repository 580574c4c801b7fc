package repository

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"lot-intelligence/config"
	"lot-intelligence/internal/dto"
	"lot-intelligence/pkg/httpclient"
	"lot-intelligence/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMarketplaceRepo(t *testing.T, handler http.HandlerFunc) *marketplaceRepository {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := &config.Config{}
	client := httpclient.New(srv.URL, time.Second, "", httpclient.WithRetry(1, time.Millisecond))
	return newMarketplaceRepository(client, cfg, logger.NewNop())
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

func TestMarketplaceRepository_GetLot(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantErr    error
		wantVIN    string
		wantImages int
		wantBid    float64
		wantAnyErr bool
	}{
		{
			name:   "found",
			status: http.StatusOK,
			body: `{"data":{"lot_id":"58411805","site":1,"vin":"4t1b11hk5ku000001","year":2019,"make":"TOYOTA","model":"CAMRY",
				"odometer":41000,"current_bid":5000,"location":"CA - SACRAMENTO","status":"available",
				"link_img_hd":["https://img/1.jpg","https://img/2.jpg"],"link_img_small":["https://img/s1.jpg"]}}`,
			wantVIN:    "4T1B11HK5KU000001",
			wantImages: 2,
			wantBid:    5000,
		},
		{
			name:    "404 is lot not found",
			status:  http.StatusNotFound,
			body:    `{"message":"not found"}`,
			wantErr: dto.ErrLotNotFound,
		},
		{
			name:    "empty data is lot not found",
			status:  http.StatusOK,
			body:    `{"data":null}`,
			wantErr: dto.ErrLotNotFound,
		},
		{
			name:    "negative bid is malformed",
			status:  http.StatusOK,
			body:    `{"data":{"lot_id":"58411805","current_bid":-1}}`,
			wantErr: dto.ErrMalformedPayload,
		},
		{
			name:       "server error",
			status:     http.StatusInternalServerError,
			body:       `{}`,
			wantAnyErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newTestMarketplaceRepo(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/cars/58411805", r.URL.Path)
				assert.Equal(t, "1", r.URL.Query().Get("site"))
				writeJSON(w, tt.status, tt.body)
			})

			lot, err := repo.GetLot(context.Background(), "58411805", dto.SiteCopart)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
				return
			}
			if tt.wantAnyErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, "58411805", lot.LotID)
			assert.Equal(t, tt.wantVIN, lot.VIN)
			assert.Len(t, lot.Images, tt.wantImages)
			assert.Equal(t, tt.wantBid, lot.CurrentBid)
			assert.Equal(t, dto.SiteCopart, lot.Site)
		})
	}
}

func TestMarketplaceRepository_GetLotNotFoundMessage(t *testing.T) {
	repo := newTestMarketplaceRepo(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, `{}`)
	})

	_, err := repo.GetLot(context.Background(), "123", dto.SiteIAAI)
	require.Error(t, err)
	assert.Equal(t, "123 not found on IAAI", err.Error())
}

func TestMarketplaceRepository_SearchActiveLots(t *testing.T) {
	repo := newTestMarketplaceRepo(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "/cars", r.URL.Path)
		assert.Equal(t, "TOYOTA", q.Get("make"))
		assert.Equal(t, "CAMRY", q.Get("model"))
		assert.Equal(t, "2017", q.Get("year_from"))
		assert.Equal(t, "2021", q.Get("year_to"))
		assert.Equal(t, "available", q.Get("status"))
		assert.Equal(t, "3", q.Get("size"))

		writeJSON(w, http.StatusOK, `{"count":5,"data":[
			{"lot_id":"58411805","year":2019,"make":"TOYOTA","model":"CAMRY","status":"available","current_bid":5000},
			{"lot_id":"1","year":2018,"make":"Toyota","model":"Camry","status":"available","current_bid":4200},
			{"lot_id":"2","year":2012,"make":"TOYOTA","model":"CAMRY","status":"available","current_bid":1000},
			{"lot_id":"3","year":2020,"make":"TOYOTA","model":"CAMRY","status":"sold","current_bid":9000},
			{"lot_id":"","year":2020,"make":"TOYOTA","model":"CAMRY","status":"available"},
			{"lot_id":"4","year":2021,"make":"TOYOTA","model":"CAMRY","status":"available","current_bid":7100},
			{"lot_id":"5","year":2021,"make":"TOYOTA","model":"CAMRY","status":"available","current_bid":7300}
		]}`)
	})

	lots, err := repo.SearchActiveLots(context.Background(), dto.ActiveLotSearchParam{
		Site:         dto.SiteCopart,
		Make:         "TOYOTA",
		Model:        "CAMRY",
		YearFrom:     2017,
		YearTo:       2021,
		Size:         2,
		ExcludeLotID: "58411805",
	})
	require.NoError(t, err)

	ids := []string{}
	for _, l := range lots {
		ids = append(ids, l.LotID)
	}
	assert.Equal(t, []string{"1", "4"}, ids)
}

func TestMarketplaceRepository_SearchRetriesOnce(t *testing.T) {
	attempts := 0
	repo := newTestMarketplaceRepo(t, func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			writeJSON(w, http.StatusBadGateway, `{}`)
			return
		}
		writeJSON(w, http.StatusOK, `{"data":[]}`)
	})

	lots, err := repo.SearchActiveLots(context.Background(), dto.ActiveLotSearchParam{
		Site: dto.SiteCopart, Make: "A", Model: "B", YearFrom: 1, YearTo: 2,
	})
	require.NoError(t, err)
	assert.Empty(t, lots)
	assert.Equal(t, 2, attempts)
}
