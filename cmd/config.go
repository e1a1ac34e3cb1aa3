package cmd

import "time"

const (
	PaymentProviderHTTP   = "http"
	PaymentProviderStripe = "stripe"
)

type Config struct {
	HTTPPort   string
	LogLevel   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	PaymentProvider          string
	PaymentGatewayURL        string
	PaymentGatewayToken      string
	PaymentGatewayTimeout    time.Duration
	PaymentGatewayMaxRetries uint64
	StripeAPIKey             string
	StripeCurrency           string

	RefundReconcileSchedule string
	RefundReconcileDeadline time.Duration
}
