// Package planrepo provides data transfer objects and mapping functions for
// delivery plan persistence. Plan-level figures (weight, volume, special
// requirements) are never stored: the aggregate recomputes them from the item
// rows on every load.
package planrepo

import (
	"time"

	"fulfillment/internal/core/domain/model/carrier"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/plan"

	"github.com/google/uuid"
)

// PlanDTO represents the database structure for persisting delivery plans.
type PlanDTO struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID          uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	CustomerID       uuid.UUID `gorm:"type:uuid;not null;index"`
	Street           string    `gorm:"type:varchar(255);not null"`
	City             string    `gorm:"type:varchar(255);not null"`
	PostalCode       string    `gorm:"type:varchar(32);not null"`
	GeoLat           *float64
	GeoLon           *float64
	Priority         string        `gorm:"type:varchar(16);not null"`
	SuggestedCarrier string        `gorm:"type:varchar(8);not null"`
	TotalAmount      int64         `gorm:"not null"`
	TotalCurrency    string        `gorm:"type:varchar(3);not null"`
	Tenant           string        `gorm:"type:varchar(64);not null;index"`
	CreatedBy        string        `gorm:"type:varchar(255);not null"`
	CreatedAt        time.Time     `gorm:"not null"`
	Items            []PlanItemDTO `gorm:"foreignKey:PlanID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the database table name for delivery plans.
func (PlanDTO) TableName() string {
	return "delivery_plans"
}

// PlanItemDTO represents one order line of a plan.
type PlanItemDTO struct {
	ID                    int64     `gorm:"primaryKey;autoIncrement"`
	PlanID                uuid.UUID `gorm:"type:uuid;not null;index"`
	SKU                   string    `gorm:"type:varchar(64);not null"`
	Description           string    `gorm:"type:varchar(255)"`
	Quantity              int       `gorm:"not null"`
	UnitWeight            float64   `gorm:"not null"`
	Length                float64   `gorm:"not null"`
	Width                 float64   `gorm:"not null"`
	Height                float64   `gorm:"not null"`
	Fragile               bool      `gorm:"not null"`
	Hazardous             bool      `gorm:"not null"`
	TemperatureControlled bool      `gorm:"not null"`
	SignatureRequired     bool      `gorm:"not null"`
}

// TableName specifies the database table name for plan items.
func (PlanItemDTO) TableName() string {
	return "plan_items"
}

// fromDomain converts a plan aggregate to its database representation.
func fromDomain(aggregate *plan.DeliveryPlan) PlanDTO {
	planID := aggregate.ID().Bytes()

	var geoLat, geoLon *float64
	if geo := aggregate.Destination().Geo(); geo != nil {
		lat, lon := geo.Latitude(), geo.Longitude()
		geoLat, geoLon = &lat, &lon
	}

	items := make([]PlanItemDTO, 0, len(aggregate.Items()))
	for _, item := range aggregate.Items() {
		length, width, height := item.Dimensions()
		items = append(items, PlanItemDTO{
			PlanID:                planID,
			SKU:                   item.SKU(),
			Description:           item.Description(),
			Quantity:              item.Quantity(),
			UnitWeight:            item.UnitWeight(),
			Length:                length,
			Width:                 width,
			Height:                height,
			Fragile:               item.IsFragile(),
			Hazardous:             item.IsHazardous(),
			TemperatureControlled: item.IsTemperatureControlled(),
			SignatureRequired:     item.RequiresSignature(),
		})
	}

	return PlanDTO{
		ID:               planID,
		OrderID:          aggregate.OrderID().Bytes(),
		CustomerID:       aggregate.CustomerID().Bytes(),
		Street:           aggregate.Destination().Street(),
		City:             aggregate.Destination().City(),
		PostalCode:       aggregate.Destination().PostalCode(),
		GeoLat:           geoLat,
		GeoLon:           geoLon,
		Priority:         aggregate.Priority().String(),
		SuggestedCarrier: aggregate.SuggestedCarrier().Code(),
		TotalAmount:      aggregate.Total().Amount(),
		TotalCurrency:    aggregate.Total().Currency(),
		Tenant:           aggregate.Tenant().String(),
		CreatedBy:        aggregate.CreatedBy().String(),
		CreatedAt:        aggregate.CreatedAt(),
		Items:            items,
	}
}

// toDomain converts a database DTO to a plan aggregate.
func toDomain(dto PlanDTO) (*plan.DeliveryPlan, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}
	customerID, err := kernel.UUIDFromBytes(dto.CustomerID[:])
	if err != nil {
		return nil, err
	}

	var geo *kernel.GeoPoint
	if dto.GeoLat != nil && dto.GeoLon != nil {
		point, geoErr := kernel.NewGeoPoint(*dto.GeoLat, *dto.GeoLon)
		if geoErr != nil {
			return nil, geoErr
		}
		geo = &point
	}
	destination, err := kernel.NewAddress(dto.Street, dto.City, dto.PostalCode, geo)
	if err != nil {
		return nil, err
	}

	items := make([]plan.Item, 0, len(dto.Items))
	for _, itemDTO := range dto.Items {
		item, itemErr := plan.NewItem(
			itemDTO.SKU, itemDTO.Description, itemDTO.Quantity, itemDTO.UnitWeight,
			itemDTO.Length, itemDTO.Width, itemDTO.Height,
			plan.ItemFlags{
				Fragile:               itemDTO.Fragile,
				Hazardous:             itemDTO.Hazardous,
				TemperatureControlled: itemDTO.TemperatureControlled,
				SignatureRequired:     itemDTO.SignatureRequired,
			})
		if itemErr != nil {
			return nil, itemErr
		}
		items = append(items, item)
	}

	priority, err := plan.PriorityFromString(dto.Priority)
	if err != nil {
		return nil, err
	}
	suggestedCarrier, err := carrier.FromCode(dto.SuggestedCarrier)
	if err != nil {
		return nil, err
	}
	total, err := kernel.NewMoney(dto.TotalAmount, dto.TotalCurrency)
	if err != nil {
		return nil, err
	}

	return plan.RestoreDeliveryPlan(
		id, orderID, customerID, destination, items, priority, suggestedCarrier,
		total, kernel.Tenant(dto.Tenant), kernel.Actor(dto.CreatedBy), dto.CreatedAt)
}
