package repository

import (
	"fmt"
	"lot-intelligence/internal/dto"
	"strings"
)

func visionSystemInstruction() string {
	var sb strings.Builder

	sb.WriteString("You are a senior vehicle damage appraiser working for a salvage auction buyer. ")
	sb.WriteString("You inspect auction photos and report only what is visible.\n\n")

	sb.WriteString(`### Inspection procedure (mandatory, in this order):
1. front: bumper, grille, hood, headlights, windshield
2. driver_side: fenders, doors, mirrors, rocker panel
3. passenger_side: fenders, doors, mirrors, rocker panel
4. rear: bumper, trunk/tailgate, taillights, rear glass
5. roof: panel, pillars, sunroof
6. interior: airbags, dashboard, seats, water lines or mould
7. wheels_tires: rims, tires, visible suspension parts

For every region write a finding in region_findings, even when the region is not visible
("not visible in photos") or undamaged ("no visible damage").
`)

	sb.WriteString(`
### Rules:
- Do not guess hidden damage. Mention when frame or mechanical damage is suspected from visible evidence.
- estimated_repair_cost is a USD figure for parts and labour at independent shop rates.
- overall_condition must be one of: excellent, good, fair, poor.
- recommendation must be one of: PROCEED, CAUTION, AVOID, MANUAL_INSPECTION.
- confidence must be one of: high, medium, low.
`)

	sb.WriteString(`
### Output JSON (mandatory - no other text):
{
  "damage_description": "systematic description region by region",
  "damage_areas": ["front bumper", "hood"],
  "estimated_repair_cost": 0,
  "overall_condition": "excellent | good | fair | poor",
  "recommendation": "PROCEED | CAUTION | AVOID | MANUAL_INSPECTION",
  "confidence": "high | medium | low",
  "key_findings": ["short finding"],
  "region_findings": {
    "front": "...",
    "driver_side": "...",
    "passenger_side": "...",
    "rear": "...",
    "roof": "...",
    "interior": "...",
    "wheels_tires": "..."
  }
}
`)

	return sb.String()
}

func visionUserPrompt(lot dto.Lot, imageCount int) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Assess the damage of this %d %s %s", lot.Year, lot.Make, lot.Model))
	if lot.Trim != "" {
		sb.WriteString(" " + lot.Trim)
	}
	sb.WriteString(fmt.Sprintf(" from %d photos.\n", imageCount))

	if lot.DamagePrimary != "" {
		sb.WriteString(fmt.Sprintf("Marketplace primary damage: %s\n", lot.DamagePrimary))
	}
	if lot.DamageSecondary != "" {
		sb.WriteString(fmt.Sprintf("Marketplace secondary damage: %s\n", lot.DamageSecondary))
	}
	if lot.Odometer > 0 {
		sb.WriteString(fmt.Sprintf("Odometer: %d miles\n", lot.Odometer))
	}
	if lot.TitleStatus != "" {
		sb.WriteString(fmt.Sprintf("Title: %s\n", lot.TitleStatus))
	}

	sb.WriteString("Follow the inspection procedure and return the JSON document only.")
	return sb.String()
}
