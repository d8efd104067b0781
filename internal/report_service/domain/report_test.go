package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaymentDetails_FormatAddress(t *testing.T) {
	full := &PaymentDetails{
		Address: ShippingAddress{
			Line1:      "12 High Street",
			Line2:      "Flat 3",
			City:       "London",
			State:      "LDN",
			Country:    "GB",
			PostalCode: "N1 9GU",
		},
	}
	assert.Equal(t, "12 High Street ( Flat 3 ) , London , LDN , GB - N1 9GU", full.FormatAddress())

	noLine2 := &PaymentDetails{
		Address: ShippingAddress{
			Line1:      "1 Mock Street",
			City:       "Mocktown",
			State:      "MK",
			Country:    "US",
			PostalCode: "00001",
		},
	}
	assert.Equal(t, "1 Mock Street Not Specified , Mocktown , MK , US - 00001", noLine2.FormatAddress())
}

func TestPaymentDetails_FormatPhone(t *testing.T) {
	assert.Equal(t, "+447700900123", (&PaymentDetails{Phone: "+447700900123"}).FormatPhone())
	assert.Equal(t, NotSpecifiedPlaceholder, (&PaymentDetails{}).FormatPhone())
}
