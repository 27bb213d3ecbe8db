package enums

import "fmt"

// PaymentChannel names the gateway channel a shopper paid through.
type PaymentChannel string

const (
	PaymentChannelCard         PaymentChannel = "card"
	PaymentChannelBank         PaymentChannel = "bank"
	PaymentChannelBankTransfer PaymentChannel = "bank_transfer"
	PaymentChannelUSSD         PaymentChannel = "ussd"
)

var validPaymentChannels = []PaymentChannel{
	PaymentChannelCard,
	PaymentChannelBank,
	PaymentChannelBankTransfer,
	PaymentChannelUSSD,
}

// String implements fmt.Stringer.
func (p PaymentChannel) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PaymentChannel.
func (p PaymentChannel) IsValid() bool {
	for _, candidate := range validPaymentChannels {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePaymentChannel converts raw input into a PaymentChannel.
func ParsePaymentChannel(value string) (PaymentChannel, error) {
	for _, candidate := range validPaymentChannels {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid payment channel %q", value)
}
