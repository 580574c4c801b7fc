package dto

import (
	"fmt"
	"lot-intelligence/pkg/utils"
	"strings"
)

// MarketplaceLot is the lot payload of the marketplace data API.
type MarketplaceLot struct {
	LotID           string   `json:"lot_id"`
	Site            int      `json:"site"`
	VIN             string   `json:"vin"`
	Year            int      `json:"year"`
	Make            string   `json:"make"`
	Model           string   `json:"model"`
	Series          string   `json:"series"`
	Trim            string   `json:"trim"`
	Odometer        int      `json:"odometer"`
	DamagePrimary   string   `json:"damage_pr"`
	DamageSecondary string   `json:"damage_sec"`
	Title           string   `json:"title"`
	CurrentBid      float64  `json:"current_bid"`
	AuctionDate     string   `json:"auction_date"`
	Location        string   `json:"location"`
	Transmission    string   `json:"transmission"`
	Engine          string   `json:"engine"`
	ImagesHD        []string `json:"link_img_hd"`
	ImagesSmall     []string `json:"link_img_small"`
	Status          string   `json:"status"`
}

type MarketplaceLotResponse struct {
	Data *MarketplaceLot `json:"data"`
}

type MarketplaceSearchResponse struct {
	Data  []MarketplaceLot `json:"data"`
	Count int              `json:"count"`
}

// Validate rejects payloads the pipeline cannot reason about.
func (m *MarketplaceLot) Validate() error {
	if strings.TrimSpace(m.LotID) == "" {
		return fmt.Errorf("%w: lot_id is empty", ErrMalformedPayload)
	}
	if m.CurrentBid < 0 {
		return fmt.Errorf("%w: negative current_bid %v for lot %s", ErrMalformedPayload, m.CurrentBid, m.LotID)
	}
	if m.Odometer < 0 {
		return fmt.Errorf("%w: negative odometer for lot %s", ErrMalformedPayload, m.LotID)
	}
	return nil
}

// ToLot converts the payload into the pipeline's lot snapshot.
func (m *MarketplaceLot) ToLot(site Site) Lot {
	images := m.ImagesHD
	if len(images) == 0 {
		images = m.ImagesSmall
	}

	status := strings.ToLower(strings.TrimSpace(m.Status))
	if status == "" {
		status = LotStatusAvailable
	}

	if m.Site != 0 {
		site = Site(m.Site)
	}

	return Lot{
		LotID:           strings.TrimSpace(m.LotID),
		Site:            site,
		VIN:             strings.ToUpper(strings.TrimSpace(m.VIN)),
		Year:            m.Year,
		Make:            strings.TrimSpace(m.Make),
		Model:           strings.TrimSpace(m.Model),
		Series:          strings.TrimSpace(m.Series),
		Trim:            strings.TrimSpace(m.Trim),
		Odometer:        m.Odometer,
		DamagePrimary:   m.DamagePrimary,
		DamageSecondary: m.DamageSecondary,
		TitleStatus:     m.Title,
		CurrentBid:      m.CurrentBid,
		AuctionDate:     utils.ParseFlexibleTime(m.AuctionDate),
		Location:        m.Location,
		Transmission:    m.Transmission,
		Engine:          m.Engine,
		Images:          append([]string{}, images...),
		Status:          status,
	}
}
