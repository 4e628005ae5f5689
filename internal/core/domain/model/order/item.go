package order

import (
	"errors"
	"fmt"

	"grocery/internal/core/domain/model/kernel"
	"grocery/internal/pkg/errs"
	"grocery/internal/pkg/guard"
)

// ErrItemIsNotConstructed is returned when an Item was not created via NewItem.
var ErrItemIsNotConstructed = errors.New("Item must be created via NewItem constructor")

// Item is a value object describing one ordered line: the product name the
// customer asked for, the requested quantity, and an optional acceptable
// price band per unit. The band is what receipt reconciliation checks the
// purchased price against.
type Item struct {
	name     string
	quantity int
	priceMin *kernel.Money
	priceMax *kernel.Money

	guard guard.ConstructorGuard
}

// NewItem creates an ordered line item. Name must be non-empty, quantity
// positive. Both price bounds are optional; when both are present min must
// not exceed max.
//
// Example:
//
//	low, _ := kernel.MoneyFromDisplay(200)
//	high, _ := kernel.MoneyFromDisplay(300)
//	item, err := order.NewItem("Milk", 1, &low, &high)
func NewItem(name string, quantity int, priceMin, priceMax *kernel.Money) (Item, error) {
	item := Item{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		item.setName(name),
		item.setQuantity(quantity),
		item.setPriceBand(priceMin, priceMax),
	); err != nil {
		return Item{}, err
	}

	return item, nil
}

// Validate ensures the Item was created through NewItem.
func (i Item) Validate() error {
	return i.guard.Validate(ErrItemIsNotConstructed)
}

// Name returns the product name as the customer entered it.
func (i Item) Name() string {
	return i.name
}

// Quantity returns the requested quantity.
func (i Item) Quantity() int {
	return i.quantity
}

// PriceMin returns the lower bound of the acceptable unit price.
// Returns nil if no lower bound was set.
func (i Item) PriceMin() *kernel.Money {
	return i.priceMin
}

// PriceMax returns the upper bound of the acceptable unit price.
// Returns nil if no upper bound was set.
func (i Item) PriceMax() *kernel.Money {
	return i.priceMax
}

// HasPriceBand reports whether any price bound is set on the item.
func (i Item) HasPriceBand() bool {
	return i.priceMin != nil || i.priceMax != nil
}

// PriceInBand reports whether the given unit price satisfies the item's
// price band. An absent bound does not constrain that side.
func (i Item) PriceInBand(price kernel.Money) bool {
	if i.priceMin != nil && price.Minor() < i.priceMin.Minor() {
		return false
	}
	if i.priceMax != nil && price.Minor() > i.priceMax.Minor() {
		return false
	}
	return true
}

func (i *Item) setName(name string) error {
	if name == "" {
		return errs.NewValueIsRequiredError("item name")
	}
	i.name = name
	return nil
}

func (i *Item) setQuantity(quantity int) error {
	if quantity <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("quantity",
			fmt.Errorf("%d is not greater than 0", quantity))
	}
	i.quantity = quantity
	return nil
}

func (i *Item) setPriceBand(priceMin, priceMax *kernel.Money) error {
	if priceMin != nil {
		if err := priceMin.Validate(); err != nil {
			return err
		}
	}
	if priceMax != nil {
		if err := priceMax.Validate(); err != nil {
			return err
		}
	}
	if priceMin != nil && priceMax != nil && priceMin.Minor() > priceMax.Minor() {
		return errs.NewValueIsInvalidErrorWithCause("price band",
			fmt.Errorf("min %s exceeds max %s", priceMin, priceMax))
	}

	i.priceMin = priceMin
	i.priceMax = priceMax
	return nil
}
