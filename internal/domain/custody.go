package domain

import "strings"

type CollectionType string

const (
	CollectionAsset    CollectionType = "Asset"
	CollectionEvidence CollectionType = "Evidence"
)

func (c CollectionType) Valid() bool {
	return c == CollectionAsset || c == CollectionEvidence
}

type CustodyStatus string

const (
	StatusAvailable CustodyStatus = "Available"
	StatusInUse     CustodyStatus = "InUse"
	StatusInCustody CustodyStatus = "InCustody"
	StatusInTransit CustodyStatus = "InTransit"
)

type MovementType string

const (
	MovementEntry    MovementType = "Entry"
	MovementWithdraw MovementType = "Withdraw"
	MovementReturn   MovementType = "Return"
)

const (
	CentralStorage   = "Central Armory"
	EntryDestination = "Stock"
	EntryNote        = "Initial registration"
	OtherDestination = "other"
)

// custodyTransitions holds the status reached by each state-changing event.
// Asset and Evidence share the shape with different vocabularies.
var custodyTransitions = map[CollectionType]map[MovementType]CustodyStatus{
	CollectionAsset: {
		MovementEntry:    StatusAvailable,
		MovementWithdraw: StatusInUse,
		MovementReturn:   StatusAvailable,
	},
	CollectionEvidence: {
		MovementEntry:    StatusInCustody,
		MovementWithdraw: StatusInTransit,
		MovementReturn:   StatusInCustody,
	},
}

// InitialStatus is the status of a freshly registered item.
func InitialStatus(collection CollectionType) CustodyStatus {
	return custodyTransitions[collection][MovementEntry]
}

// ApplyMovement computes the item state after a movement. Only Withdraw and
// Return change status and location; anything else leaves the item as is and
// changed is false.
func ApplyMovement(item SeizedItem, movement MovementType, destination string) (SeizedItem, bool) {
	switch movement {
	case MovementWithdraw:
		item.Status = custodyTransitions[item.Collection][MovementWithdraw]
		item.Location = destination
	case MovementReturn:
		item.Status = custodyTransitions[item.Collection][MovementReturn]
		item.Location = CentralStorage
	default:
		return item, false
	}
	return item, true
}

// ResolveDestination picks the destination of a movement form. A selector of
// "other" defers to the free text; any other selector value wins; the raw
// field is the last fallback.
func ResolveDestination(selector, freeText, raw string) string {
	selector = strings.TrimSpace(selector)
	freeText = strings.TrimSpace(freeText)
	if strings.EqualFold(selector, OtherDestination) {
		if freeText != "" {
			return freeText
		}
	} else if selector != "" {
		return selector
	}
	return strings.TrimSpace(raw)
}
