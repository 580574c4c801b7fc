package model

import (
	"encoding/json"
	"lot-intelligence/pkg/utils"
	"time"

	"gorm.io/datatypes"
)

// SaleHistory is one archived marketplace sale. The pipeline only reads it.
type SaleHistory struct {
	ID              uint           `gorm:"primarykey"`
	LotID           string         `gorm:"column:lot_id;not null"`
	Site            int            `gorm:"column:site;not null"`
	BaseSite        string         `gorm:"column:base_site"`
	VIN             string         `gorm:"column:vin;index"`
	Year            int            `gorm:"column:year"`
	Make            string         `gorm:"column:make"`
	Model           string         `gorm:"column:model"`
	Series          string         `gorm:"column:series"`
	Trim            string         `gorm:"column:trim"`
	Odometer        int            `gorm:"column:odometer"`
	DamagePrimary   string         `gorm:"column:damage_pr"`
	TitleStatus     string         `gorm:"column:title"`
	Transmission    string         `gorm:"column:transmission"`
	Engine          string         `gorm:"column:engine"`
	AuctionLocation string         `gorm:"column:auction_location"`
	BuyerState      string         `gorm:"column:buyer_state"`
	SaleStatus      string         `gorm:"column:sale_status"`
	PurchasePrice   *float64       `gorm:"column:purchase_price"`
	SaleDate        *time.Time     `gorm:"column:sale_date"`
	Images          datatypes.JSON `gorm:"column:images;type:jsonb"`
	CreatedAt       time.Time      `gorm:"autoCreateTime"`
	UpdatedAt       time.Time      `gorm:"autoUpdateTime"`
}

func (SaleHistory) TableName() string {
	return "sales_history"
}

// ImageURLs decodes the stored photo list, ignoring malformed JSON.
func (s SaleHistory) ImageURLs() []string {
	if len(s.Images) == 0 {
		return nil
	}
	var urls []string
	if err := json.Unmarshal(s.Images, &urls); err != nil {
		return nil
	}
	return urls
}

// Price returns the purchase price, zero when unknown.
func (s SaleHistory) Price() float64 {
	return utils.Deref(s.PurchasePrice)
}
