// Package orderrepo provides data transfer objects and mapping functions for order persistence.
// This package implements the repository pattern for the order domain aggregate, handling
// the conversion between domain entities and database representations.
package orderrepo

import (
	"encoding/json"
	"time"

	"grocery/internal/core/domain/model/kernel"
	"grocery/internal/core/domain/model/order"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// OrderDTO represents the database structure for persisting order aggregates.
// Monetary columns hold integer minor units; the status column holds the
// status name so the claim and update predicates read naturally in SQL.
type OrderDTO struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey"`
	CustomerID      uuid.UUID  `gorm:"type:uuid;index"`
	ShopperID       *uuid.UUID `gorm:"type:uuid;index"`
	Items           datatypes.JSON
	EstimateMinor   int64
	ActualMinor     *int64
	ReceiptPolicy   string
	DeliveryAddress string
	Status          string `gorm:"index"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// TableName specifies the database table name for order entities.
// Overrides GORM's default naming convention to use "orders".
func (OrderDTO) TableName() string {
	return "orders"
}

// itemDTO is one ordered line inside the items JSON column. Price bounds are
// nullable because the band is optional on both sides.
type itemDTO struct {
	Name          string `json:"name"`
	Quantity      int    `json:"quantity"`
	PriceMinMinor *int64 `json:"price_min_minor"`
	PriceMaxMinor *int64 `json:"price_max_minor"`
}

// fromDomain converts an order domain aggregate to its database representation.
func fromDomain(aggregate *order.Order) (OrderDTO, error) {
	var shopperID *uuid.UUID
	if id := aggregate.Shopper(); id != nil {
		raw := id.Bytes()
		shopperID = &raw
	}

	var actualMinor *int64
	if actual := aggregate.ActualAmount(); actual != nil {
		minor := actual.Minor()
		actualMinor = &minor
	}

	items := make([]itemDTO, 0, len(aggregate.Items()))
	for _, item := range aggregate.Items() {
		dto := itemDTO{
			Name:     item.Name(),
			Quantity: item.Quantity(),
		}
		if bound := item.PriceMin(); bound != nil {
			minor := bound.Minor()
			dto.PriceMinMinor = &minor
		}
		if bound := item.PriceMax(); bound != nil {
			minor := bound.Minor()
			dto.PriceMaxMinor = &minor
		}
		items = append(items, dto)
	}

	itemsJSON, err := json.Marshal(items)
	if err != nil {
		return OrderDTO{}, err
	}

	return OrderDTO{
		ID:              aggregate.ID().Bytes(),
		CustomerID:      aggregate.CustomerID().Bytes(),
		ShopperID:       shopperID,
		Items:           itemsJSON,
		EstimateMinor:   aggregate.EstimateAmount().Minor(),
		ActualMinor:     actualMinor,
		ReceiptPolicy:   aggregate.ReceiptPolicy().String(),
		DeliveryAddress: aggregate.DeliveryAddress(),
		Status:          aggregate.Status().String(),
	}, nil
}

// toDomain converts a database DTO to an order domain aggregate.
// Reconstructs the complete aggregate including status and shopper binding
// using RestoreOrder, which re-checks the status/assignment consistency.
func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	customerID, err := kernel.UUIDFromBytes(dto.CustomerID[:])
	if err != nil {
		return nil, err
	}

	var shopperID *kernel.UUID
	if dto.ShopperID != nil {
		sID, shopperErr := kernel.UUIDFromBytes((*dto.ShopperID)[:])
		if shopperErr != nil {
			return nil, shopperErr
		}

		shopperID = &sID
	}

	var itemDTOs []itemDTO
	if err = json.Unmarshal(dto.Items, &itemDTOs); err != nil {
		return nil, err
	}

	items := make([]order.Item, 0, len(itemDTOs))
	for _, line := range itemDTOs {
		priceMin, bandErr := moneyFromMinorPtr(line.PriceMinMinor)
		if bandErr != nil {
			return nil, bandErr
		}
		priceMax, bandErr := moneyFromMinorPtr(line.PriceMaxMinor)
		if bandErr != nil {
			return nil, bandErr
		}

		item, itemErr := order.NewItem(line.Name, line.Quantity, priceMin, priceMax)
		if itemErr != nil {
			return nil, itemErr
		}
		items = append(items, item)
	}

	estimate, err := kernel.MoneyFromMinor(dto.EstimateMinor)
	if err != nil {
		return nil, err
	}

	actual, err := moneyFromMinorPtr(dto.ActualMinor)
	if err != nil {
		return nil, err
	}

	policy, err := order.ReceiptPolicyFromString(dto.ReceiptPolicy)
	if err != nil {
		return nil, err
	}

	status, err := order.StatusFromString(dto.Status)
	if err != nil {
		return nil, err
	}

	return order.RestoreOrder(id, customerID, shopperID, items, estimate, actual,
		policy, dto.DeliveryAddress, status)
}

// moneyFromMinorPtr converts a nullable minor-unit column into *kernel.Money.
func moneyFromMinorPtr(minor *int64) (*kernel.Money, error) {
	if minor == nil {
		return nil, nil
	}

	money, err := kernel.MoneyFromMinor(*minor)
	if err != nil {
		return nil, err
	}
	return &money, nil
}
