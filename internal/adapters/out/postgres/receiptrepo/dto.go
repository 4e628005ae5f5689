// Package receiptrepo provides data transfer objects and mapping functions for
// receipt persistence. A receipt row carries the extraction result inline as a
// JSON column so the active receipt loads in a single read.
package receiptrepo

import (
	"encoding/json"
	"time"

	"grocery/internal/core/domain/model/kernel"
	"grocery/internal/core/domain/model/receipt"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ReceiptDTO represents the database structure for persisting receipt aggregates.
// The order_id column is unique: at most one active receipt exists per order,
// and supersession deletes the prior row before inserting the replacement.
type ReceiptDTO struct {
	ID                   uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID              uuid.UUID `gorm:"type:uuid;uniqueIndex"`
	ShopperID            uuid.UUID `gorm:"type:uuid"`
	ImageRef             string
	ExtractedItems       datatypes.JSON
	TotalMinor           int64
	ExtractionConfidence float64
	Degraded             bool `gorm:"index"`
	ConfidenceScore      float64
	Status               string `gorm:"index"`
	SubmittedAt          time.Time
	ReviewedAt           *time.Time
}

// TableName specifies the database table name for receipt entities.
func (ReceiptDTO) TableName() string {
	return "receipts"
}

// extractedItemDTO is one recognized receipt line inside the JSON column.
type extractedItemDTO struct {
	Name       string `json:"name"`
	Quantity   int    `json:"quantity"`
	PriceMinor int64  `json:"price_minor"`
}

// fromDomain converts a receipt domain aggregate to its database representation.
func fromDomain(aggregate *receipt.Receipt) (ReceiptDTO, error) {
	extraction := aggregate.Extraction()

	items := make([]extractedItemDTO, 0, len(extraction.Items()))
	for _, item := range extraction.Items() {
		items = append(items, extractedItemDTO{
			Name:       item.Name,
			Quantity:   item.Quantity,
			PriceMinor: item.Price.Minor(),
		})
	}

	itemsJSON, err := json.Marshal(items)
	if err != nil {
		return ReceiptDTO{}, err
	}

	return ReceiptDTO{
		ID:                   aggregate.ID().Bytes(),
		OrderID:              aggregate.OrderID().Bytes(),
		ShopperID:            aggregate.ShopperID().Bytes(),
		ImageRef:             aggregate.ImageRef(),
		ExtractedItems:       itemsJSON,
		TotalMinor:           extraction.Total().Minor(),
		ExtractionConfidence: extraction.Confidence(),
		Degraded:             extraction.IsDegraded(),
		ConfidenceScore:      aggregate.ConfidenceScore(),
		Status:               aggregate.Status().String(),
		SubmittedAt:          aggregate.SubmittedAt(),
		ReviewedAt:           aggregate.ReviewedAt(),
	}, nil
}

// toDomain converts a database DTO to a receipt domain aggregate.
func toDomain(dto ReceiptDTO) (*receipt.Receipt, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}

	shopperID, err := kernel.UUIDFromBytes(dto.ShopperID[:])
	if err != nil {
		return nil, err
	}

	extraction, err := extractionFromDTO(dto)
	if err != nil {
		return nil, err
	}

	status, err := receipt.StatusFromString(dto.Status)
	if err != nil {
		return nil, err
	}

	return receipt.RestoreReceipt(id, orderID, shopperID, dto.ImageRef,
		extraction, dto.ConfidenceScore, status, dto.SubmittedAt, dto.ReviewedAt)
}

// extractionFromDTO rebuilds the extraction value object from its columns.
// A degraded row restores as the placeholder extraction regardless of columns,
// so a retry sees exactly what the failed submission wrote.
func extractionFromDTO(dto ReceiptDTO) (receipt.Extraction, error) {
	if dto.Degraded {
		return receipt.DegradedExtraction(), nil
	}

	var itemDTOs []extractedItemDTO
	if err := json.Unmarshal(dto.ExtractedItems, &itemDTOs); err != nil {
		return receipt.Extraction{}, err
	}

	items := make([]receipt.ExtractedItem, 0, len(itemDTOs))
	for _, line := range itemDTOs {
		price, err := kernel.MoneyFromMinor(line.PriceMinor)
		if err != nil {
			return receipt.Extraction{}, err
		}
		items = append(items, receipt.ExtractedItem{
			Name:     line.Name,
			Quantity: line.Quantity,
			Price:    price,
		})
	}

	total, err := kernel.MoneyFromMinor(dto.TotalMinor)
	if err != nil {
		return receipt.Extraction{}, err
	}

	return receipt.NewExtraction(items, total, dto.ExtractionConfidence)
}
