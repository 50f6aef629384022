package models

import (
	"strconv"
	"time"
)

const DateLayout = "2006-01-02"

// MiningRecord is one ledger line: what a character mined of one ore type in
// one solar system on one day.
type MiningRecord struct {
	CharacterID   int64     `json:"character_id"`
	Date          time.Time `json:"date"`
	SolarSystemID int64     `json:"solar_system_id"`
	TypeID        int64     `json:"type_id"`
	Quantity      int64     `json:"quantity"`
	OreName       string    `json:"ore_name"`
	Volume        float64   `json:"volume"`
}

// Key identifies a record. A record with an existing key replaces it.
func (r *MiningRecord) Key() string {
	return strconv.FormatInt(r.CharacterID, 10) + ":" +
		r.Date.Format(DateLayout) + ":" +
		strconv.FormatInt(r.SolarSystemID, 10) + ":" +
		strconv.FormatInt(r.TypeID, 10)
}

// TotalVolume is the mined volume in m3.
func (r *MiningRecord) TotalVolume() float64 {
	return float64(r.Quantity) * r.Volume
}

// LedgerRow is a record joined with its character name for the dashboard table.
type LedgerRow struct {
	Date          time.Time `json:"date"`
	CharacterName string    `json:"character_name"`
	OreName       string    `json:"ore_name"`
	Quantity      int64     `json:"quantity"`
	Volume        float64   `json:"volume"`
}

// OreVolume is the m3 mined of one ore on one day, summed over characters.
type OreVolume struct {
	Date    time.Time
	OreName string
	Volume  float64
}

// CharacterOreVolume is the m3 of one ore mined by one character overall.
type CharacterOreVolume struct {
	CharacterID int64
	OreName     string
	Volume      float64
}

// OreType is the part of a universe type the ledger needs.
type OreType struct {
	TypeID int64   `json:"type_id"`
	Name   string  `json:"name"`
	Volume float64 `json:"volume"`
}

// LedgerEntry is a raw row of the ESI character mining ledger.
type LedgerEntry struct {
	Date          string `json:"date"`
	Quantity      int64  `json:"quantity"`
	SolarSystemID int64  `json:"solar_system_id"`
	TypeID        int64  `json:"type_id"`
}
