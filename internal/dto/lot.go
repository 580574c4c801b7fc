package dto

import (
	"fmt"
	"time"
)

type Site int

const (
	SiteCopart Site = 1
	SiteIAAI   Site = 2
)

// Name returns the marketplace display name used in messages.
func (s Site) Name() string {
	switch s {
	case SiteCopart:
		return "Copart"
	case SiteIAAI:
		return "IAAI"
	default:
		return fmt.Sprintf("site %d", int(s))
	}
}

func (s Site) Valid() bool {
	return s == SiteCopart || s == SiteIAAI
}

const (
	LotStatusAvailable = "available"
	LotStatusSold      = "sold"
)

// Lot is the per-request snapshot of a marketplace listing.
type Lot struct {
	LotID           string     `json:"lotId"`
	Site            Site       `json:"site"`
	VIN             string     `json:"vin"`
	Year            int        `json:"year"`
	Make            string     `json:"make"`
	Model           string     `json:"model"`
	Series          string     `json:"series"`
	Trim            string     `json:"trim"`
	Odometer        int        `json:"odometer"`
	DamagePrimary   string     `json:"damagePrimary"`
	DamageSecondary string     `json:"damageSecondary"`
	TitleStatus     string     `json:"titleStatus"`
	CurrentBid      float64    `json:"currentBid"`
	AuctionDate     *time.Time `json:"auctionDate,omitempty"`
	Location        string     `json:"location"`
	Transmission    string     `json:"transmission"`
	Engine          string     `json:"engine"`
	Images          []string   `json:"images"`
	Status          string     `json:"status"`
}

// VinHistoryRecord is one past marketplace transaction of a VIN.
type VinHistoryRecord struct {
	VIN         string     `json:"vin"`
	SaleDate    *time.Time `json:"saleDate,omitempty"`
	SoldPrice   float64    `json:"soldPrice"`
	Damage      string     `json:"damage"`
	Marketplace string     `json:"marketplace"`
	LotID       string     `json:"lotId"`
	Location    string     `json:"location"`
	Year        int        `json:"year"`
	Make        string     `json:"make"`
	Model       string     `json:"model"`
	Mileage     int        `json:"mileage"`
}

// ComparableVehicle is an archive sale ranked against the target lot.
// MatchPriority is assigned per request and never persisted.
type ComparableVehicle struct {
	LotID           string     `json:"lotId"`
	Site            Site       `json:"site"`
	VIN             string     `json:"vin"`
	Year            int        `json:"year"`
	Make            string     `json:"make"`
	Model           string     `json:"model"`
	Series          string     `json:"series"`
	Trim            string     `json:"trim"`
	Odometer        int        `json:"odometer"`
	DamagePrimary   string     `json:"damagePrimary"`
	TitleStatus     string     `json:"titleStatus"`
	Transmission    string     `json:"transmission"`
	Engine          string     `json:"engine"`
	AuctionLocation string     `json:"auctionLocation"`
	BuyerState      string     `json:"buyerState"`
	SaleDate        *time.Time `json:"saleDate,omitempty"`
	SaleStatus      string     `json:"saleStatus"`
	PurchasePrice   float64    `json:"purchasePrice"`
	Images          []string   `json:"images,omitempty"`
	ExactYearMatch  bool       `json:"exactYearMatch"`
	LocationMatch   bool       `json:"locationMatch"`
	SpecScore       int        `json:"specScore"`
	MatchPriority   int        `json:"matchPriority"`
}

// ComparableSearchParam describes the target vehicle for the archive matcher.
type ComparableSearchParam struct {
	Make         string
	Model        string
	Year         int
	YearRange    int
	Location     string
	Odometer     int
	Transmission string
	Engine       string
	Trim         string
	Series       string
	Limit        int
}

// ActiveLotSearchParam filters live listings on one marketplace.
type ActiveLotSearchParam struct {
	Site         Site
	Make         string
	Model        string
	YearFrom     int
	YearTo       int
	Status       string
	Size         int
	ExcludeLotID string
}
