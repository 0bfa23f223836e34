// Package ownership answers "was this shipment really sent to me".
//
// The check is advisory. The backend re-verifies on every receive call; this
// package only keeps the consoles from offering a confirm action that the
// backend would reject.
package ownership

import (
	"errors"
	"strings"

	"github.com/Tanmoy095/PharmaTrace/pkg/resolver"
)

// ErrNotRecipient blocks a receipt confirmation on the client side.
var ErrNotRecipient = errors.New("shipment was not shipped to your pharmacy (possible counterfeit)")

// RecipientAddress is where backends put the receiving wallet.
var RecipientAddress = resolver.NewField("toAddress", true,
	"toAddress",
	"toCompany.walletAddress",
	"recipientAddress",
)

// SenderAddress is where backends put the sending wallet.
var SenderAddress = resolver.NewField("fromAddress", true,
	"fromAddress",
	"fromCompany.walletAddress",
	"senderAddress",
)

// SameWallet compares two wallet strings case-insensitively. Empty never matches.
func SameWallet(a, b string) bool {
	a, b = strings.TrimSpace(a), strings.TrimSpace(b)
	if a == "" || b == "" {
		return false
	}
	return strings.EqualFold(a, b)
}

// IsRecipient reports whether the actor's wallet is the shipment's recipient.
// A nil shipment or an empty wallet on either side is never a match.
func IsRecipient(shipment resolver.Record, actorWallet string) bool {
	if shipment == nil {
		return false
	}
	return SameWallet(RecipientAddress.String(shipment, ""), actorWallet)
}

// IsSender is the outgoing-side counterpart of IsRecipient.
func IsSender(shipment resolver.Record, actorWallet string) bool {
	if shipment == nil {
		return false
	}
	return SameWallet(SenderAddress.String(shipment, ""), actorWallet)
}

// VerifyRecipient turns a failed IsRecipient into ErrNotRecipient.
func VerifyRecipient(shipment resolver.Record, actorWallet string) error {
	if !IsRecipient(shipment, actorWallet) {
		return ErrNotRecipient
	}
	return nil
}
