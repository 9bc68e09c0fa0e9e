package domain

import (
	"strings"
	"time"
)

// Kind says which side of the trade a listing is on.
type Kind string

const (
	KindSell Kind = "SELL"
	KindBuy  Kind = "BUY"
)

// ParseKind accepts "sell"/"buy" in any case.
func ParseKind(s string) (Kind, bool) {
	switch {
	case strings.EqualFold(s, string(KindSell)):
		return KindSell, true
	case strings.EqualFold(s, string(KindBuy)):
		return KindBuy, true
	default:
		return "", false
	}
}

// ListingStatus is a soft-delete marker; rows are never physically removed.
type ListingStatus string

const (
	StatusActive  ListingStatus = "ACTIVE"
	StatusDeleted ListingStatus = "DELETED"
)

type Listing struct {
	ID          int64
	UserID      int64
	Username    *string
	Kind        Kind
	GroupName   string
	MemberCount int
	Established string // free text, not validated as a calendar date
	Price       float64
	Contact     string
	Status      ListingStatus
	CreatedAt   time.Time
}

type User struct {
	ID        int64
	FirstName *string
	Username  *string
	Verified  bool
	JoinedAt  time.Time
}
