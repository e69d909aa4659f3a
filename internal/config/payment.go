package config

// Payment holds the merchant credentials and endpoint for the payment
// gateway handshake. Injected into the payment service so multiple
// tenants/environments can run side by side.
type Payment struct {
	Endpoint       string `env:"PAYMENT_ENDPOINT,required"`
	MerchantID     string `env:"PAYMENT_MERCHANT_ID,required"`
	Secret         string `env:"PAYMENT_SECRET,required"`
	ReturnURL      string `env:"PAYMENT_RETURN_URL,required"`
	Currency       string `env:"PAYMENT_CURRENCY" envDefault:"INR"`
	OrderIDPrefix  string `env:"PAYMENT_ORDER_ID_PREFIX" envDefault:"ORD"`
	BuyerFirstName string `env:"PAYMENT_BUYER_FIRST_NAME" envDefault:"Guest"`
	Description    string `env:"PAYMENT_DESCRIPTION" envDefault:"Storefront order"`
}
